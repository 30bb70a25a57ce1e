package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"showdeck/internal/app"
	"showdeck/internal/browse"
	"showdeck/internal/domain"
	"showdeck/internal/theme"
)

// findPrefix marks the command line as a live keyword filter: everything
// after it is fed to the keyword transition on every keystroke.
const findPrefix = "/"

type episodesLoadedMsg struct {
	showID string
	snap   browse.Snapshot
	err    error
}

type model struct {
	ctx context.Context
	app *app.App

	input   textinput.Model
	spinner spinner.Model
	theme   theme.Theme

	shows      []domain.Show
	showsTitle string
	cursor     int

	snap browse.Snapshot

	loadingShowID string
	messages      []string
	width         int
	quitting      bool
}

func newModel(ctx context.Context, application *app.App) model {
	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Focus()
	ti.Prompt = "showdeck> "
	ti.CharLimit = 512
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	th := theme.ForName(application.Config().ColorTheme)

	return model{
		ctx:        ctx,
		app:        application,
		input:      ti,
		spinner:    sp,
		theme:      th,
		shows:      application.Shows(),
		showsTitle: "Shows",
		snap:       application.Current(),
		width:      120,
		messages: []string{
			th.Message.Render("Showdeck ready. Up/down picks a show, enter loads it, /text filters episodes, 'help' lists commands."),
		},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.loadingShowID == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case episodesLoadedMsg:
		return m.handleEpisodesLoaded(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEsc:
			return m.handleClearFind()
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.shows)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			return m.handleSubmit()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()

	// Live keyword filtering: any change to a /-prefixed command line is a
	// keyword-change event, including deleting back to a bare "/".
	if after != before {
		if strings.HasPrefix(after, findPrefix) {
			m.snap = m.app.SetKeyword(strings.TrimPrefix(after, findPrefix))
		} else if strings.HasPrefix(before, findPrefix) && after == "" {
			m.snap = m.app.SetKeyword("")
		}
	}
	return m, cmd
}

// handleClearFind resets an active keyword search, clearing the filter input.
func (m model) handleClearFind() (tea.Model, tea.Cmd) {
	if strings.HasPrefix(m.input.Value(), findPrefix) {
		m.input.SetValue("")
	}
	m.snap = m.app.SetKeyword("")
	return m, nil
}

func (m model) handleEpisodesLoaded(msg episodesLoadedMsg) (tea.Model, tea.Cmd) {
	// A newer selection may have started while this fetch ran; only the
	// response for the show still being loaded is applied.
	if msg.showID != m.loadingShowID {
		return m, nil
	}
	m.loadingShowID = ""
	if msg.err != nil {
		m.messages = append(m.messages, m.theme.Error.Render("Could not load episodes: "+msg.err.Error()))
		return m, nil
	}
	m.snap = msg.snap
	return m, nil
}

func (m model) handleSubmit() (tea.Model, tea.Cmd) {
	command := strings.TrimSpace(m.input.Value())

	// Empty enter selects the highlighted show.
	if command == "" {
		return m.selectHighlightedShow()
	}

	// A committed search keeps filtering; just clear the command line.
	if strings.HasPrefix(command, findPrefix) {
		m.input.SetValue("")
		return m, nil
	}

	m.input.SetValue("")

	result, err := m.app.Execute(m.ctx, command)
	if err != nil {
		m.messages = append(m.messages, m.theme.Error.Render(err.Error()))
		return m, nil
	}

	if result.Message != "" {
		m.messages = append(m.messages, result.Message)
	}
	if result.Shows != nil {
		m.shows = result.Shows
		m.showsTitle = result.ShowsTitle
		m.cursor = 0
	}
	if result.Browse != nil {
		m.snap = *result.Browse
	}
	if result.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) selectHighlightedShow() (tea.Model, tea.Cmd) {
	if len(m.shows) == 0 || m.cursor >= len(m.shows) {
		return m, nil
	}
	showID := m.shows[m.cursor].ID
	m.loadingShowID = showID

	return m, tea.Batch(m.spinner.Tick, m.selectShowCmd(showID))
}

func (m model) selectShowCmd(showID string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.app.SelectShow(m.ctx, showID)
		return episodesLoadedMsg{showID: showID, snap: snap, err: err}
	}
}
