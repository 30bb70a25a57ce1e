package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"showdeck/internal/browse"
	"showdeck/internal/cache"
	"showdeck/internal/config"
	"showdeck/internal/domain"
	"showdeck/internal/tvmaze"
)

type commandHandler func(context.Context, []string) (CommandResult, error)

type command struct {
	usage   string
	summary string
	handler commandHandler
}

// CommandResult carries the outcome of one executed command back to the UI.
type CommandResult struct {
	Message    string
	Quit       bool
	Shows      []domain.Show
	ShowsTitle string
	Browse     *browse.Snapshot
}

// App wires configuration, the catalog client, the episode cache and the
// browse session, and dispatches REPL commands against them.
type App struct {
	config     config.Config
	configPath string
	httpClient *http.Client
	catalog    *tvmaze.Client
	cache      *cache.EpisodeStore
	session    *browse.Session
	commands   map[string]*command
	shows      []domain.Show
}

// Dependencies allows tests to substitute the HTTP client or catalog client.
type Dependencies struct {
	HTTPClient *http.Client
	Catalog    *tvmaze.Client
}

func New(cfg config.Config, configPath string) *App {
	return NewWithDependencies(cfg, configPath, Dependencies{})
}

func NewWithDependencies(cfg config.Config, configPath string, deps Dependencies) *App {
	httpClient := deps.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.TLSVerify},
		}
		if proxyURL := strings.TrimSpace(cfg.Proxy); proxyURL != "" {
			if parsed, err := url.Parse(proxyURL); err == nil {
				transport.Proxy = http.ProxyURL(parsed)
			}
		}
		httpClient = &http.Client{Timeout: 15 * time.Second, Transport: transport}
	}

	catalogClient := deps.Catalog
	if catalogClient == nil {
		catalogClient = tvmaze.NewClient(httpClient, cfg.APIBaseURL, cfg.UserAgent)
	}

	episodeCache := cache.NewEpisodeStore()

	application := &App{
		config:     cfg,
		configPath: configPath,
		httpClient: httpClient,
		catalog:    catalogClient,
		cache:      episodeCache,
		commands:   make(map[string]*command),
	}
	application.session = browse.NewSession(episodeCache, application.fetchEpisodes)
	application.registerCommands()

	return application
}

func (a *App) Config() config.Config {
	return a.config
}

// Initialize performs the initial catalog load. A failure here is terminal
// for startup: the caller reports it and exits.
func (a *App) Initialize(ctx context.Context) error {
	shows, err := a.catalog.ListShows(ctx)
	if err != nil {
		log.Printf("initial catalog load failed: %v", err)
		return fmt.Errorf("load show catalog: %w", err)
	}
	a.shows = domain.SortShows(shows)
	log.Printf("loaded %d shows", len(a.shows))
	return nil
}

// Shows returns the sorted show catalog loaded at startup.
func (a *App) Shows() []domain.Show {
	return a.shows
}

// SelectShow runs the show-selection transition, fetching episodes through
// the cache on first access.
func (a *App) SelectShow(ctx context.Context, showID string) (browse.Snapshot, error) {
	snap, err := a.session.SelectShow(ctx, showID)
	if err != nil {
		log.Printf("select show %s: %v", showID, err)
	}
	return snap, err
}

// SelectEpisode applies an episode selector change.
func (a *App) SelectEpisode(value string) (browse.Snapshot, error) {
	snap, err := a.session.SelectEpisode(value)
	if err != nil {
		log.Printf("select episode %q: %v", value, err)
	}
	return snap, err
}

// SetKeyword applies a keyword input change.
func (a *App) SetKeyword(text string) browse.Snapshot {
	return a.session.SetKeyword(text)
}

// Current returns the present browse view without changing state.
func (a *App) Current() browse.Snapshot {
	return a.session.Current()
}

func (a *App) fetchEpisodes(ctx context.Context, showID string) ([]domain.Episode, error) {
	episodes, err := a.catalog.ListEpisodes(ctx, showID)
	if err != nil {
		return nil, err
	}
	return domain.SortEpisodes(episodes), nil
}

func (a *App) CommandNames() []string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute parses a REPL input line and dispatches it to its command handler.
func (a *App) Execute(ctx context.Context, input string) (CommandResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return CommandResult{}, nil
	}

	args, err := shellquote.Split(input)
	if err != nil {
		return CommandResult{}, err
	}
	if len(args) == 0 {
		return CommandResult{}, nil
	}

	cmdName := strings.ToLower(args[0])
	cmd, ok := a.commands[cmdName]
	if !ok {
		return CommandResult{Message: fmt.Sprintf("unknown command: %s", args[0])}, nil
	}

	return cmd.handler(ctx, args[1:])
}

func (a *App) registerCommands() {
	a.registerCommand("help", "help", "List available commands", a.helpCommand, "h")
	a.registerCommand("config", "config [show]", "View or edit application configuration", a.configCommand)
	a.registerCommand("exit", "exit", "Exit the application", a.exitCommand, "quit")
	a.registerCommand("shows", "shows", "List the show catalog", a.showsCommand, "ls")
	a.registerCommand("search", "search <text>", "Search the show catalog by name", a.searchCommand, "s")
	a.registerCommand("select", "select <show_id>", "Select a show and load its episodes", a.selectCommand)
	a.registerCommand("episode", "episode <episode_id|all>", "Pick one episode or show all", a.episodeCommand, "e")
	a.registerCommand("find", "find [keyword]", "Filter episodes by keyword; no argument clears", a.findCommand, "f")
}

func (a *App) registerCommand(name, usage, summary string, handler commandHandler, aliases ...string) {
	cmd := &command{usage: usage, summary: summary, handler: handler}
	names := append([]string{name}, aliases...)
	for _, alias := range names {
		a.commands[alias] = cmd
	}
}

func (a *App) helpCommand(_ context.Context, _ []string) (CommandResult, error) {
	seen := make(map[*command]bool)
	var lines []string
	for _, name := range a.CommandNames() {
		cmd := a.commands[name]
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		lines = append(lines, fmt.Sprintf("  %-28s %s", cmd.usage, cmd.summary))
	}
	return CommandResult{Message: "Commands:\n" + strings.Join(lines, "\n")}, nil
}

func (a *App) configCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{Message: "Usage: config [show]"}, nil
	}
	switch strings.ToLower(args[0]) {
	case "show":
		data, err := yaml.Marshal(a.config)
		if err != nil {
			return CommandResult{}, err
		}
		return CommandResult{Message: string(data)}, nil
	default:
		return a.editConfig(ctx)
	}
}

func (a *App) editConfig(ctx context.Context) (CommandResult, error) {
	updated, err := config.EditInteractive(ctx, a.config)
	if err != nil {
		return CommandResult{}, err
	}
	if err := config.Save(a.configPath, updated); err != nil {
		return CommandResult{}, err
	}
	a.config = updated
	log.Println("configuration updated")
	return CommandResult{Message: "Configuration saved."}, nil
}

func (a *App) exitCommand(_ context.Context, _ []string) (CommandResult, error) {
	return CommandResult{Quit: true}, nil
}

func (a *App) showsCommand(_ context.Context, args []string) (CommandResult, error) {
	if len(args) > 0 {
		return CommandResult{Message: "Usage: shows"}, nil
	}
	if len(a.shows) == 0 {
		return CommandResult{Message: "No shows loaded."}, nil
	}
	return CommandResult{Shows: a.shows, ShowsTitle: "Shows"}, nil
}

// searchCommand narrows the show column by fuzzy name match. It never
// touches the episode selection state.
func (a *App) searchCommand(_ context.Context, args []string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{Message: "Usage: search <text>"}, nil
	}
	term := strings.Join(args, " ")

	names := make([]string, len(a.shows))
	for i, show := range a.shows {
		names[i] = show.Name
	}

	ranks := fuzzy.RankFindFold(term, names)
	if len(ranks) == 0 {
		return CommandResult{Message: fmt.Sprintf("No shows matching '%s'.", term)}, nil
	}
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	matched := make([]domain.Show, 0, len(ranks))
	for _, rank := range ranks {
		matched = append(matched, a.shows[rank.OriginalIndex])
	}
	return CommandResult{Shows: matched, ShowsTitle: fmt.Sprintf("Shows matching '%s'", term)}, nil
}

func (a *App) selectCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) != 1 {
		return CommandResult{Message: "Usage: select <show_id>"}, nil
	}
	snap, err := a.SelectShow(ctx, strings.TrimSpace(args[0]))
	if err != nil {
		return CommandResult{Message: fmt.Sprintf("Could not load episodes: %v", err)}, nil
	}
	return CommandResult{Browse: &snap}, nil
}

func (a *App) episodeCommand(_ context.Context, args []string) (CommandResult, error) {
	if len(args) != 1 {
		return CommandResult{Message: "Usage: episode <episode_id|all>"}, nil
	}
	snap, err := a.SelectEpisode(strings.TrimSpace(args[0]))
	if err != nil {
		return CommandResult{Message: fmt.Sprintf("Unknown episode: %s", args[0])}, nil
	}
	return CommandResult{Browse: &snap}, nil
}

func (a *App) findCommand(_ context.Context, args []string) (CommandResult, error) {
	keyword := strings.Join(args, " ")
	snap := a.SetKeyword(keyword)
	return CommandResult{Browse: &snap}, nil
}
