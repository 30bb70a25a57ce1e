package domain

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortShows returns a copy of shows in canonical catalog order: ascending by
// name, case-insensitive, locale-aware, stable for equal names.
func SortShows(shows []Show) []Show {
	// Collators carry internal buffers, so build one per call rather than
	// sharing a package-level instance between goroutines.
	c := collate.New(language.English, collate.IgnoreCase)
	out := make([]Show, len(shows))
	copy(out, shows)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// SortEpisodes returns a copy of episodes in canonical order: ascending by
// season, then by number within a season.
func SortEpisodes(episodes []Episode) []Episode {
	out := make([]Episode, len(episodes))
	copy(out, episodes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// EpisodeLabel formats the display label for an episode, e.g.
// "Pilot - S01E01". Season and number are zero-padded to at least two digits;
// larger values keep all their digits.
func EpisodeLabel(e Episode) string {
	return fmt.Sprintf("%s - S%02dE%02d", e.Name, e.Season, e.Number)
}
