package ingest

import (
	"testing"
	"time"

	"github.com/fitinghof/whatanime-go/internal/models"
)

func TestCurrentSeasonNeverProducesFall(t *testing.T) {
	for month := 1; month <= 12; month++ {
		now := time.Date(2026, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
		release := CurrentSeason(now)
		if release.Season == models.SeasonFall {
			t.Errorf("CurrentSeason(month=%d) returned Fall, which this arithmetic should never produce", month)
		}
		if release.Year != 2026 {
			t.Errorf("CurrentSeason(month=%d) year = %d, want 2026", month, release.Year)
		}
	}
}

func TestCurrentSeasonBuckets(t *testing.T) {
	cases := []struct {
		month int
		want  models.ReleaseSeason
	}{
		{1, models.SeasonWinter},
		{4, models.SeasonWinter},
		{5, models.SeasonSpring},
		{8, models.SeasonSpring},
		{9, models.SeasonSummer},
		{12, models.SeasonSummer},
	}
	for _, c := range cases {
		now := time.Date(2026, time.Month(c.month), 1, 0, 0, 0, 0, time.UTC)
		if got := CurrentSeason(now).Season; got != c.want {
			t.Errorf("CurrentSeason(month=%d).Season = %v, want %v", c.month, got, c.want)
		}
	}
}
