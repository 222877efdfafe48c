package ingest

import (
	"time"

	"github.com/fitinghof/whatanime-go/internal/models"
)

// CurrentSeason derives the anime release season/year bucket for now,
// using four-month buckets: Jan-Apr is Winter, May-Aug is Spring, Sep-Dec
// is Summer. This arithmetic never produces Fall — ReleaseSeason's Fall
// value only ever arrives from upstream feed data, not from this
// function.
func CurrentSeason(now time.Time) models.Release {
	month := int32(now.Month())
	var season models.ReleaseSeason
	switch (month - 1) / 4 {
	case 0:
		season = models.SeasonWinter
	case 1:
		season = models.SeasonSpring
	default:
		season = models.SeasonSummer
	}
	return models.Release{Season: season, Year: int32(now.Year())}
}
