package browse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"showdeck/internal/cache"
	"showdeck/internal/domain"
)

// Selector sentinel values. The empty string is the disabled "pick one"
// placeholder; SelectorAll is the "All episodes" entry.
const (
	SelectorPlaceholder = ""
	SelectorAll         = "all"
)

// CaptionAllEpisodes is the status caption shown whenever the full episode
// list of the selected show is displayed.
const CaptionAllEpisodes = "Showing all episodes"

// ErrUnknownEpisode reports an episode selector value that does not occur in
// the loaded episode list. Selector values are built from that same list, so
// this is an internal consistency failure, not user input to report.
var ErrUnknownEpisode = fmt.Errorf("episode id not in loaded episode list")

type filterMode int

const (
	filterAll filterMode = iota
	filterOne
	filterKeyword
)

// Snapshot is the derived view of a session after a transition: what to
// render and the status caption that goes with it. It is recomputed on every
// transition and never stored beyond the session's own fields.
type Snapshot struct {
	ShowID    string
	Episodes  []domain.Episode // full sorted list for the selected show
	Displayed []domain.Episode
	Caption   string
	Keyword   string
	EpisodeID string // selected episode id, or SelectorAll
}

// Session is the selection/filter state machine: it owns the identity of the
// selected show, that show's episode list (via the episode cache), the
// episode selector state and the keyword, and derives the displayed set and
// caption from them. All transitions run under one mutex so it stays correct
// when driven from bubbletea command goroutines.
type Session struct {
	mu    sync.Mutex
	cache *cache.EpisodeStore
	fetch cache.FetchFunc

	showID   string
	episodes []domain.Episode

	mode      filterMode
	episodeID string
	keyword   string
}

// NewSession creates a session with no show selected.
func NewSession(store *cache.EpisodeStore, fetch cache.FetchFunc) *Session {
	return &Session{cache: store, fetch: fetch, episodeID: SelectorAll}
}

// SelectShow switches the session to the given show, loading its episodes
// through the cache. An empty id is a no-op. On success the keyword and
// episode selector reset and all episodes are displayed. On failure the
// previous state is kept and the error is returned. If a newer SelectShow
// call supersedes this one while its fetch is in flight, the late result is
// discarded.
func (s *Session) SelectShow(ctx context.Context, showID string) (Snapshot, error) {
	if showID == "" {
		return s.Current(), nil
	}

	s.mu.Lock()
	prev := s.showID
	s.showID = showID
	s.mu.Unlock()

	episodes, err := s.cache.Episodes(ctx, showID, s.fetch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Abandon the change: keep pointing at the show whose episodes are
		// still loaded, unless a newer selection already took over.
		if s.showID == showID {
			s.showID = prev
		}
		return s.snapshotLocked(), err
	}
	if s.showID != showID {
		// Superseded by a newer selection; do not overwrite its state.
		return s.snapshotLocked(), nil
	}

	s.episodes = episodes
	s.keyword = ""
	s.mode = filterAll
	s.episodeID = SelectorAll
	return s.snapshotLocked(), nil
}

// SelectEpisode applies an episode selector change. The placeholder sentinel
// is a no-op; the "all" sentinel displays the full list; any other value must
// name an episode of the selected show.
func (s *Session) SelectEpisode(value string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch value {
	case SelectorPlaceholder:
		return s.snapshotLocked(), nil
	case SelectorAll:
		s.mode = filterAll
		s.episodeID = SelectorAll
		return s.snapshotLocked(), nil
	}

	for _, ep := range s.episodes {
		if ep.ID == value {
			s.mode = filterOne
			s.episodeID = value
			return s.snapshotLocked(), nil
		}
	}
	return s.snapshotLocked(), fmt.Errorf("%w: %s", ErrUnknownEpisode, value)
}

// SetKeyword applies a keyword input change. A non-empty keyword filters the
// full episode list of the selected show; clearing the keyword resets the
// episode selector to the "all" sentinel and displays everything again.
func (s *Session) SetKeyword(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyword = text
	if text == "" {
		s.mode = filterAll
		s.episodeID = SelectorAll
	} else {
		s.mode = filterKeyword
	}
	return s.snapshotLocked()
}

// Current returns the present derived view without changing state.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ShowID returns the id of the currently selected show, or "".
func (s *Session) ShowID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showID
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ShowID:    s.showID,
		Episodes:  s.episodes,
		Keyword:   s.keyword,
		EpisodeID: s.episodeID,
	}

	switch s.mode {
	case filterOne:
		for _, ep := range s.episodes {
			if ep.ID == s.episodeID {
				snap.Displayed = []domain.Episode{ep}
				break
			}
		}
		snap.Caption = ""
	case filterKeyword:
		snap.Displayed = matchKeyword(s.episodes, s.keyword)
		snap.Caption = fmt.Sprintf("Displaying %d of %d episodes", len(snap.Displayed), len(s.episodes))
	default:
		snap.Displayed = s.episodes
		snap.Caption = CaptionAllEpisodes
	}
	return snap
}

// matchKeyword returns the episodes whose name or summary contains the
// keyword as a case-insensitive substring. A nil episode list degrades to an
// empty result.
func matchKeyword(episodes []domain.Episode, keyword string) []domain.Episode {
	needle := strings.ToLower(keyword)
	matched := make([]domain.Episode, 0, len(episodes))
	for _, ep := range episodes {
		if strings.Contains(strings.ToLower(ep.Name), needle) ||
			strings.Contains(strings.ToLower(ep.Summary), needle) {
			matched = append(matched, ep)
		}
	}
	return matched
}
