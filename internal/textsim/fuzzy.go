package textsim

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ratio computes a fuzzywuzzy-style similarity percentage in [0,100]:
// 100 * (1 - editDistance/maxLen). Two empty strings are defined as a
// perfect match.
func ratio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 100
		}
		return 100
	}
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(maxLen))
}

// TokenSetRatio compares two strings as multisets of whitespace-separated
// tokens: it takes the intersection and the two set differences, forms
// three strings from them, and returns the best pairwise ratio among the
// combinations fuzzywuzzy's token_set_ratio defines. Inputs are passed
// through normalise+romanise first (full_process=true, force_ascii=true in
// the source this is grounded on).
func TokenSetRatio(a, b string) float64 {
	pa := Normalise(Romanise(a))
	pb := Normalise(Romanise(b))

	tokensA := tokenSet(pa)
	tokensB := tokenSet(pb)

	intersection := make([]string, 0)
	onlyA := make([]string, 0)
	onlyB := make([]string, 0)

	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}
	seen := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		if seen[t] {
			continue
		}
		seen[t] = true
		if setB[t] {
			intersection = append(intersection, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	seenB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		if seenB[t] || setA[t] {
			seenB[t] = true
			continue
		}
		seenB[t] = true
		onlyB = append(onlyB, t)
	}

	sort.Strings(intersection)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sortedIntersection := strings.Join(intersection, " ")
	combinedAB := strings.TrimSpace(sortedIntersection + " " + strings.Join(onlyA, " "))
	combinedBA := strings.TrimSpace(sortedIntersection + " " + strings.Join(onlyB, " "))

	best := ratio(sortedIntersection, combinedAB)
	if v := ratio(sortedIntersection, combinedBA); v > best {
		best = v
	}
	if v := ratio(combinedAB, combinedBA); v > best {
		best = v
	}
	return best
}

func tokenSet(s string) []string {
	return strings.Fields(s)
}
