package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"showdeck/internal/browse"
	"showdeck/internal/config"
	"showdeck/internal/tvmaze"
)

func newMockCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	var episodeFetches int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shows":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[
				{"id": 2, "name": "Bitten", "url": "http://example.com/shows/2", "summary": "<p>Wolves.</p>"},
				{"id": 1, "name": "Under the Dome", "url": "http://example.com/shows/1", "summary": "<p>Dome.</p>"}
			]`)
		case "/shows/1/episodes":
			episodeFetches++
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `[
				{"id": 12, "name": "Fire", "season": 1, "number": 2, "summary": "<p>Flames.</p>"},
				{"id": 11, "name": "Pilot", "season": 1, "number": 1, "summary": "<p>A dome falls.</p>"},
				{"id": 13, "name": "Zombie Hour", "season": 2, "number": 1, "summary": "<p>fetch %d</p>"}
			]`, episodeFetches)
		case "/shows/2/episodes":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	server := newMockCatalogServer(t)
	cfg := config.Defaults()
	cfg.APIBaseURL = server.URL

	deps := Dependencies{
		HTTPClient: server.Client(),
		Catalog:    tvmaze.NewClient(server.Client(), server.URL, cfg.UserAgent),
	}
	application := NewWithDependencies(cfg, filepath.Join(t.TempDir(), "config.yaml"), deps)

	if err := application.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return application
}

func exec(t *testing.T, a *App, input string) CommandResult {
	t.Helper()
	result, err := a.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute(%s) error = %v", input, err)
	}
	return result
}

func TestInitializeSortsShows(t *testing.T) {
	app := newTestApp(t)

	shows := app.Shows()
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(shows))
	}
	if shows[0].Name != "Bitten" || shows[1].Name != "Under the Dome" {
		t.Errorf("shows not in canonical order: %v, %v", shows[0].Name, shows[1].Name)
	}
}

func TestInitializeFailureIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	cfg := config.Defaults()
	cfg.APIBaseURL = server.URL
	application := NewWithDependencies(cfg, filepath.Join(t.TempDir(), "config.yaml"), Dependencies{
		HTTPClient: server.Client(),
		Catalog:    tvmaze.NewClient(server.Client(), server.URL, cfg.UserAgent),
	})

	err := application.Initialize(context.Background())
	var apiErr *tvmaze.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected wrapped *APIError{500}, got %v", err)
	}
	if len(application.Shows()) != 0 {
		t.Error("no shows should be available after a failed load")
	}
}

func TestHelpListsKeyCommands(t *testing.T) {
	app := newTestApp(t)

	result := exec(t, app, "help")
	for _, expected := range []string{"select <show_id>", "find [keyword]", "episode <episode_id|all>"} {
		if !strings.Contains(result.Message, expected) {
			t.Errorf("help output missing %q\n%s", expected, result.Message)
		}
	}
}

func TestExitCommandSetsQuit(t *testing.T) {
	app := newTestApp(t)

	if result := exec(t, app, "quit"); !result.Quit {
		t.Fatal("expected quit result")
	}
}

func TestConfigShowRendersYaml(t *testing.T) {
	app := newTestApp(t)

	result := exec(t, app, "config show")
	if !strings.Contains(result.Message, "api_base_url:") {
		t.Fatalf("expected api_base_url in config output: %s", result.Message)
	}
}

func TestShowsCommandReturnsCatalog(t *testing.T) {
	app := newTestApp(t)

	result := exec(t, app, "shows")
	if len(result.Shows) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(result.Shows))
	}
}

func TestSearchCommandRanksByName(t *testing.T) {
	app := newTestApp(t)

	result := exec(t, app, "search dome")
	if len(result.Shows) == 0 {
		t.Fatal("expected at least one match")
	}
	if result.Shows[0].Name != "Under the Dome" {
		t.Errorf("best match = %q", result.Shows[0].Name)
	}

	if msg := exec(t, app, "search xyzzy").Message; !strings.Contains(msg, "No shows matching") {
		t.Errorf("unexpected no-match message: %s", msg)
	}
}

func TestBrowseLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Select a show: episodes load sorted, caption resets.
	result := exec(t, app, "select 1")
	if result.Browse == nil {
		t.Fatalf("expected browse snapshot, got message %q", result.Message)
	}
	snap := *result.Browse
	if len(snap.Displayed) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(snap.Displayed))
	}
	if snap.Displayed[0].Name != "Pilot" {
		t.Errorf("episodes not sorted: first is %q", snap.Displayed[0].Name)
	}
	if snap.Caption != browse.CaptionAllEpisodes {
		t.Errorf("caption = %q", snap.Caption)
	}

	// Keyword filtering via the find command.
	snap = *exec(t, app, "find zombie").Browse
	if len(snap.Displayed) != 1 || snap.Displayed[0].Name != "Zombie Hour" {
		t.Fatalf("unexpected keyword matches: %+v", snap.Displayed)
	}
	if snap.Caption != "Displaying 1 of 3 episodes" {
		t.Errorf("caption = %q", snap.Caption)
	}

	// Bare find clears the keyword and restores everything.
	snap = *exec(t, app, "find").Browse
	if len(snap.Displayed) != 3 || snap.Caption != browse.CaptionAllEpisodes {
		t.Fatalf("clear did not restore full list: %d displayed, caption %q",
			len(snap.Displayed), snap.Caption)
	}
	if snap.EpisodeID != browse.SelectorAll {
		t.Errorf("selector = %q after clear", snap.EpisodeID)
	}

	// Single-episode pick.
	snap = *exec(t, app, "episode 11").Browse
	if len(snap.Displayed) != 1 || snap.Displayed[0].ID != "11" {
		t.Fatalf("unexpected single episode view: %+v", snap.Displayed)
	}
	if snap.Caption != "" {
		t.Errorf("caption = %q, want empty", snap.Caption)
	}

	if msg := exec(t, app, "episode 999").Message; !strings.Contains(msg, "Unknown episode") {
		t.Errorf("unexpected message for bad episode id: %s", msg)
	}
}

func TestSelectCachesEpisodesPerShow(t *testing.T) {
	app := newTestApp(t)

	first := *exec(t, app, "select 1").Browse
	// The mock embeds the fetch count in a summary; a second select must
	// return the first fetch's payload untouched.
	second := *exec(t, app, "select 1").Browse

	if len(first.Episodes) != len(second.Episodes) {
		t.Fatalf("episode lists differ in length")
	}
	for i := range first.Episodes {
		if first.Episodes[i] != second.Episodes[i] {
			t.Fatalf("episode %d re-fetched: %+v vs %+v", i, first.Episodes[i], second.Episodes[i])
		}
	}
}

func TestFailedEpisodeFetchKeepsAppUsable(t *testing.T) {
	app := newTestApp(t)

	if msg := exec(t, app, "select 2").Message; !strings.Contains(msg, "Could not load episodes") {
		t.Fatalf("unexpected failure message: %s", msg)
	}

	// A different show still works afterwards.
	result := exec(t, app, "select 1")
	if result.Browse == nil || len(result.Browse.Displayed) != 3 {
		t.Fatal("app unusable after a failed episode fetch")
	}
}

func TestUnknownCommand(t *testing.T) {
	app := newTestApp(t)

	if msg := exec(t, app, "bogus").Message; !strings.Contains(msg, "unknown command") {
		t.Errorf("unexpected message: %s", msg)
	}
}
