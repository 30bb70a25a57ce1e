package tvmaze

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListShowsMapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shows" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 1, "url": "http://example.com/shows/1", "name": "Under the Dome",
			 "image": {"medium": "http://example.com/1.jpg"}, "summary": "<p>Dome.</p>"},
			{"id": 2, "url": "http://example.com/shows/2", "name": "Person of Interest",
			 "image": {"medium": ""}, "summary": ""}
		]`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, "")
	shows, err := client.ListShows(context.Background())
	if err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}

	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(shows))
	}
	first := shows[0]
	if first.ID != "1" || first.Name != "Under the Dome" {
		t.Errorf("unexpected first show: %+v", first)
	}
	if first.Image != "http://example.com/1.jpg" || first.Summary != "<p>Dome.</p>" {
		t.Errorf("image/summary not mapped: %+v", first)
	}
}

func TestListEpisodesMapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shows/42/episodes" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 100, "name": "Pilot", "season": 1, "number": 1,
			 "url": "http://example.com/ep/100", "summary": "<p>First.</p>",
			 "image": {"medium": "http://example.com/100.jpg"}}
		]`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, "")
	episodes, err := client.ListEpisodes(context.Background(), "42")
	if err != nil {
		t.Fatalf("ListEpisodes() error = %v", err)
	}

	if len(episodes) != 1 {
		t.Fatalf("expected 1 episode, got %d", len(episodes))
	}
	ep := episodes[0]
	if ep.ID != "100" || ep.Season != 1 || ep.Number != 1 || ep.Name != "Pilot" {
		t.Errorf("unexpected episode: %+v", ep)
	}
}

func TestConfiguredUserAgentIsSent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, "showdeck/1.2")
	if _, err := client.ListShows(context.Background()); err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}
	if got != "showdeck/1.2" {
		t.Errorf("expected User-Agent %q, got %q", "showdeck/1.2", got)
	}

	got = ""
	client = NewClient(server.Client(), server.URL, "  ")
	if _, err := client.ListEpisodes(context.Background(), "7"); err != nil {
		t.Fatalf("ListEpisodes() error = %v", err)
	}
	if got != "Go-http-client/1.1" {
		t.Errorf("expected the default Go agent for a blank setting, got %q", got)
	}
}

func TestListEpisodesRejectsEmptyShowID(t *testing.T) {
	client := NewClient(nil, "http://example.invalid", "")
	if _, err := client.ListEpisodes(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty show id")
	}
}

func TestNonSuccessStatusReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, "")
	_, err := client.ListShows(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.Status)
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTransportFailureReturnsNetworkError(t *testing.T) {
	client := NewClient(&http.Client{Transport: failingTransport{}}, "http://example.invalid", "")
	_, err := client.ListShows(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
	if netErr.Unwrap() == nil {
		t.Error("expected wrapped transport error")
	}
}
