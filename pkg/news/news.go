// Package news fetches headline lists for NHK RSS categories through an
// rss2json style converter.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEndpoint converts an RSS feed into JSON.
	DefaultEndpoint = "https://api.rss2json.com/v1/api.json"

	// MaxItems bounds the detail list.
	MaxItems = 20

	// SummaryItems is how many headlines the dashboard widget shows.
	SummaryItems = 3

	// FailedTitle is the title of the synthetic item returned on failure.
	FailedTitle = "ニュースの読み込みに失敗しました"
)

// Item is one headline. Items are immutable once fetched.
type Item struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	Image     string    `json:"image,omitempty"`
	// Failed marks the synthetic "failed to load" item.
	Failed bool `json:"failed,omitempty"`
}

// Category is a selectable feed.
type Category struct {
	ID   string
	Name string
	URL  string
}

// Categories are the NHK news feeds, index 0 being the headline feed.
var Categories = []Category{
	{ID: "cat0", Name: "主要", URL: "https://www.nhk.or.jp/rss/news/cat0.xml"},
	{ID: "cat1", Name: "社会", URL: "https://www.nhk.or.jp/rss/news/cat1.xml"},
	{ID: "cat2", Name: "文化・エンタメ", URL: "https://www.nhk.or.jp/rss/news/cat2.xml"},
	{ID: "cat3", Name: "科学・医療", URL: "https://www.nhk.or.jp/rss/news/cat3.xml"},
	{ID: "cat4", Name: "政治", URL: "https://www.nhk.or.jp/rss/news/cat4.xml"},
	{ID: "cat5", Name: "経済", URL: "https://www.nhk.or.jp/rss/news/cat5.xml"},
	{ID: "cat6", Name: "国際", URL: "https://www.nhk.or.jp/rss/news/cat6.xml"},
	{ID: "cat7", Name: "スポーツ", URL: "https://www.nhk.or.jp/rss/news/cat7.xml"},
}

// CategoryByID looks up a category by id ("cat3") or name ("経済").
func CategoryByID(id string) (Category, int, bool) {
	id = strings.TrimSpace(id)
	for i, c := range Categories {
		if c.ID == id || c.Name == id {
			return c, i, true
		}
	}
	return Category{}, -1, false
}

// Failure returns the single-item list shown when a fetch fails.
func Failure(now time.Time) []Item {
	return []Item{{Title: FailedTitle, Link: "#", Published: now, Failed: true}}
}

// Summary returns at most SummaryItems headlines.
func Summary(items []Item) []Item {
	if len(items) > SummaryItems {
		return items[:SummaryItems]
	}
	return items
}

// Client fetches headline lists.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	// Now is used for the failure item timestamp.
	Now func() time.Time
}

// NewClient returns a client for endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Now:        time.Now,
	}
}

type feedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Items   []struct {
		Title     string `json:"title"`
		Link      string `json:"link"`
		PubDate   string `json:"pubDate"`
		Thumbnail string `json:"thumbnail"`
	} `json:"items"`
}

// Fetch returns the items for category. On any failure it returns the
// synthetic failure list together with the error.
func (c *Client) Fetch(ctx context.Context, category Category) ([]Item, error) {
	items, err := c.fetch(ctx, category)
	if err != nil {
		slog.Warn("news: fetch failed", "category", category.ID, "error", err)
		return Failure(c.now()), err
	}
	return items, nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) fetch(ctx context.Context, category Category) ([]Item, error) {
	if category.URL == "" {
		return nil, errors.New("news: category has no feed url")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("news: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("rss_url", category.URL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("news: build request: %w", err)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: provider error: %d %s", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news: read body: %w", err)
	}
	var fr feedResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("news: decode: %w", err)
	}
	if fr.Status != "ok" {
		return nil, fmt.Errorf("news: feed status %q: %s", fr.Status, fr.Message)
	}

	now := c.now()
	raw := fr.Items
	if len(raw) > MaxItems {
		raw = raw[:MaxItems]
	}
	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		item := Item{
			Title:     strings.TrimSpace(it.Title),
			Link:      strings.TrimSpace(it.Link),
			Published: parsePublished(it.PubDate, now),
			Image:     strings.TrimSpace(it.Thumbnail),
		}
		if item.Title == "" {
			item.Title = "No Title"
		}
		if item.Link == "" {
			item.Link = "#"
		}
		items = append(items, item)
	}
	return items, nil
}

var publishedLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// parsePublished reads the converter's "YYYY-MM-DD HH:MM:SS" (UTC) and a few
// RSS-native layouts; unparseable values become now.
func parsePublished(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
