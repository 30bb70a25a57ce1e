package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/jaytaylor/html2text"

	"showdeck/internal/browse"
	"showdeck/internal/domain"
)

const (
	showColumnWidth = 30
	cardWidth       = 64
)

func (m model) View() string {
	var b strings.Builder

	left := m.renderShowColumn()
	right := m.renderEpisodePane()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n")

	// Keep the last few messages visible above the prompt.
	tail := m.messages
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	for _, message := range tail {
		b.WriteString(message)
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	if !m.quitting {
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderShowColumn() string {
	var lines []string
	lines = append(lines, m.theme.Header.Render(m.showsTitle))

	maxName := m.app.Config().ShowNameMaxLength
	for i, show := range m.shows {
		name := truncate(show.Name, maxName)
		switch {
		case i == m.cursor && show.ID == m.snap.ShowID:
			lines = append(lines, m.theme.Cursor.Render("> "+name+" *"))
		case i == m.cursor:
			lines = append(lines, m.theme.Cursor.Render("> "+name))
		case show.ID == m.snap.ShowID:
			lines = append(lines, m.theme.Normal.Render("  "+name+" *"))
		default:
			lines = append(lines, m.theme.Normal.Render("  "+name))
		}
	}
	if len(m.shows) == 0 {
		lines = append(lines, m.theme.Dim.Render("  (no shows)"))
	}

	return lipgloss.NewStyle().Width(showColumnWidth).Render(strings.Join(lines, "\n"))
}

func (m model) renderEpisodePane() string {
	var sections []string

	if m.loadingShowID != "" {
		sections = append(sections, m.spinner.View()+m.theme.Dim.Render(" loading episodes ..."))
		return strings.Join(sections, "\n")
	}

	if m.snap.ShowID == "" {
		sections = append(sections, m.theme.Dim.Render("Select a show to browse its episodes."))
		return strings.Join(sections, "\n")
	}

	sections = append(sections, m.renderSelectorLine())
	if m.snap.Caption != "" {
		sections = append(sections, m.theme.Status.Render(m.snap.Caption))
	}

	if len(m.snap.Displayed) == 0 {
		sections = append(sections, m.theme.Dim.Render("No episodes to display."))
	}
	for _, ep := range m.snap.Displayed {
		sections = append(sections, m.renderEpisodeCard(ep))
	}

	return strings.Join(sections, "\n")
}

// renderSelectorLine shows the episode dropdown state: the current pick plus
// how it would be populated.
func (m model) renderSelectorLine() string {
	current := "All episodes"
	if m.snap.EpisodeID != browse.SelectorAll && m.snap.EpisodeID != browse.SelectorPlaceholder {
		for _, option := range browse.EpisodeOptions(m.snap.Episodes) {
			if option.Value == m.snap.EpisodeID {
				current = option.Label
				break
			}
		}
	}

	placeholders := browse.EpisodePlaceholders()
	hint := placeholders[0].Text
	return m.theme.Label.Render("Episode: "+current) + m.theme.Dim.Render("  ('episode <id|all>', "+hint+")")
}

func (m model) renderEpisodeCard(ep domain.Episode) string {
	var lines []string
	lines = append(lines, m.theme.CardTitle.Render(truncate(ep.Name, m.app.Config().EpisodeNameMaxLength)))
	lines = append(lines, m.theme.Label.Render(domain.EpisodeLabel(ep)))

	if summary := m.flattenSummary(ep.Summary); summary != "" {
		lines = append(lines, m.theme.Summary.Render(summary))
	}
	lines = append(lines, m.theme.Dim.Render("id "+ep.ID))

	return m.theme.CardBorder.Width(cardWidth).Render(strings.Join(lines, "\n"))
}

// flattenSummary converts an HTML summary into plain terminal text, capped at
// the configured number of lines.
func (m model) flattenSummary(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	text, err := html2text.FromString(markup, html2text.Options{TextOnly: true})
	if err != nil {
		text = markup
	}
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	maxLines := m.app.Config().MaxSummaryLines
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most max characters, counting runes so that
// multi-byte names are never cut mid-character.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
