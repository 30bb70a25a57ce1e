package browse

import "showdeck/internal/domain"

// SelectorOption is one selectable entry of the episode dropdown.
type SelectorOption struct {
	Label string
	Value string
}

// SelectorPlaceholderEntry is a reserved dropdown entry carrying a sentinel
// value rather than an episode id.
type SelectorPlaceholderEntry struct {
	Text     string
	Value    string
	Disabled bool
	Selected bool
}

// EpisodeOptions builds the dropdown options for an episode list, one per
// episode, labelled with the canonical episode label.
func EpisodeOptions(episodes []domain.Episode) []SelectorOption {
	options := make([]SelectorOption, 0, len(episodes))
	for _, ep := range episodes {
		options = append(options, SelectorOption{
			Label: domain.EpisodeLabel(ep),
			Value: ep.ID,
		})
	}
	return options
}

// EpisodePlaceholders returns the fixed sentinel entries that precede the
// per-episode options.
func EpisodePlaceholders() []SelectorPlaceholderEntry {
	return []SelectorPlaceholderEntry{
		{Text: "Select an episode ...", Value: SelectorPlaceholder, Disabled: true, Selected: true},
		{Text: "All episodes", Value: SelectorAll},
	}
}
