package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"showdeck/internal/domain"
)

// Client interacts with a TVMaze-compatible catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client using the provided HTTP client. The baseURL can
// be overridden for testing; if empty the public API endpoint is used. A
// non-empty userAgent is sent with every request.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.tvmaze.com"
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
	}
}

// NetworkError reports a transport-level failure: no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("tvmaze: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a response with a non-success HTTP status.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tvmaze: unexpected status %d", e.Status)
}

// ListShows fetches the full show catalog. The result order is whatever the
// API returned; callers apply the canonical sort.
func (c *Client) ListShows(ctx context.Context) ([]domain.Show, error) {
	var payload []showResult
	if err := c.getJSON(ctx, "/shows", &payload); err != nil {
		return nil, err
	}

	shows := make([]domain.Show, 0, len(payload))
	for _, item := range payload {
		shows = append(shows, domain.Show{
			ID:      strconv.FormatInt(item.ID, 10),
			Name:    item.Name,
			Image:   item.Image.Medium,
			Summary: item.Summary,
			URL:     item.URL,
		})
	}
	return shows, nil
}

// ListEpisodes fetches all episodes of a single show.
func (c *Client) ListEpisodes(ctx context.Context, showID string) ([]domain.Episode, error) {
	if strings.TrimSpace(showID) == "" {
		return nil, fmt.Errorf("show id cannot be empty")
	}

	var payload []episodeResult
	path := "/shows/" + url.PathEscape(showID) + "/episodes"
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	episodes := make([]domain.Episode, 0, len(payload))
	for _, item := range payload {
		episodes = append(episodes, domain.Episode{
			ID:      strconv.FormatInt(item.ID, 10),
			Season:  item.Season,
			Number:  item.Number,
			Name:    item.Name,
			Summary: item.Summary,
			Image:   item.Image.Medium,
			URL:     item.URL,
		})
	}
	return episodes, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

type imageResult struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

type showResult struct {
	ID      int64       `json:"id"`
	URL     string      `json:"url"`
	Name    string      `json:"name"`
	Image   imageResult `json:"image"`
	Summary string      `json:"summary"`
}

type episodeResult struct {
	ID      int64       `json:"id"`
	URL     string      `json:"url"`
	Name    string      `json:"name"`
	Season  int         `json:"season"`
	Number  int         `json:"number"`
	Image   imageResult `json:"image"`
	Summary string      `json:"summary"`
}
