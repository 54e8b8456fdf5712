package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL)
	c.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchParsesItems(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("rss_url"); got != Categories[5].URL {
			t.Errorf("unexpected rss_url %q", got)
		}
		fmt.Fprint(w, `{"status":"ok","items":[
			{"title":"円相場","link":"https://example.test/1","pubDate":"2024-05-01 08:30:00","thumbnail":"https://example.test/1.jpg"},
			{"title":"","link":"","pubDate":"garbage"}
		]}`)
	})

	items, err := c.Fetch(context.Background(), Categories[5])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	want := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	if items[0].Title != "円相場" || !items[0].Published.Equal(want) || items[0].Image == "" {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Title != "No Title" || items[1].Link != "#" || !items[1].Published.Equal(c.Now()) {
		t.Errorf("unexpected defaults %+v", items[1])
	}
}

func TestFetchTrimsToMaxItems(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var parts []string
		for i := 0; i < 35; i++ {
			parts = append(parts, fmt.Sprintf(`{"title":"item %d","link":"l"}`, i))
		}
		fmt.Fprintf(w, `{"status":"ok","items":[%s]}`, strings.Join(parts, ","))
	})
	items, err := c.Fetch(context.Background(), Categories[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != MaxItems {
		t.Fatalf("expected %d items, got %d", MaxItems, len(items))
	}
	if got := Summary(items); len(got) != SummaryItems || got[0].Title != "item 0" {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestFetchFailureYieldsSingleSyntheticItem(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"http error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusServiceUnavailable)
		},
		"status error": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"error","message":"rss_url invalid"}`)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<rss>`)
		},
	} {
		c := testClient(t, handler)
		items, err := c.Fetch(context.Background(), Categories[0])
		if err == nil {
			t.Errorf("%s: expected error", name)
		}
		if len(items) != 1 || items[0].Title != FailedTitle || !items[0].Failed || items[0].Link != "#" {
			t.Errorf("%s: unexpected fallback %+v", name, items)
		}
		if !items[0].Published.Equal(c.Now()) {
			t.Errorf("%s: fallback should carry the current time", name)
		}
	}
}

func TestCategoryByID(t *testing.T) {
	if c, i, ok := CategoryByID("cat3"); !ok || i != 3 || c.Name != "科学・医療" {
		t.Fatalf("lookup by id failed: %+v %d %v", c, i, ok)
	}
	if _, i, ok := CategoryByID("スポーツ"); !ok || i != 7 {
		t.Fatalf("lookup by name failed")
	}
	if _, _, ok := CategoryByID("cat9"); ok {
		t.Fatalf("unexpected match for cat9")
	}
}
