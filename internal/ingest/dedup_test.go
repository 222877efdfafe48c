package ingest

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fitinghof/whatanime-go/internal/anisongdb"
)

func recordFixture(t *testing.T, annID, annSongID int, name string) anisongdb.Record {
	t.Helper()
	raw := fmt.Sprintf(`{
		"annId": %d,
		"animeENName": "Example",
		"animeJPName": "",
		"animeAltName": [],
		"animeVintage": "Spring 2024",
		"linked_ids": {},
		"animeType": "TV",
		"animeCategory": "TV 1",
		"annSongId": %d,
		"songName": %q,
		"songArtist": "Singer",
		"songComposer": "",
		"songArranger": "",
		"songCategory": "Standard",
		"songLength": 90,
		"is_dub": false,
		"HQ": null,
		"MQ": null,
		"audio": null,
		"artists": [{"id": 1, "names": ["Singer"], "lineUpId": null, "groups": [], "members": []}],
		"composers": [],
		"arrangers": [],
		"songDifficulty": null,
		"songType": "Opening",
		"isRebroadcast": false
	}`, annID, annSongID, name)

	var r anisongdb.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshaling fixture record: %v", err)
	}
	return r
}

func TestDedupeSongsMergesSameNameSamePerformers(t *testing.T) {
	r1 := recordFixture(t, 1, 100, "Theme")
	r2 := recordFixture(t, 2, 100, "Theme")

	groups, artists := dedupeSongs([]anisongdb.Record{r1, r2})

	if len(groups) != 1 {
		t.Fatalf("expected 1 deduplicated song group, got %d", len(groups))
	}
	if len(groups[0].Binds) != 2 {
		t.Fatalf("expected 2 binds accumulated onto the shared song, got %d", len(groups[0].Binds))
	}
	if len(artists) != 1 {
		t.Fatalf("expected 1 deduplicated artist, got %d", len(artists))
	}
}

func TestDedupeSongsKeepsDistinctSongsSeparate(t *testing.T) {
	r1 := recordFixture(t, 1, 100, "Theme")
	r2 := recordFixture(t, 2, 200, "Different Theme")

	groups, _ := dedupeSongs([]anisongdb.Record{r1, r2})

	if len(groups) != 2 {
		t.Fatalf("expected 2 distinct song groups, got %d", len(groups))
	}
}
