package news

import (
	"bytes"
	"context"
	"strings"
	"testing"

	feed "tableflip.dev/kiosk/pkg/news"
)

type fakeSource struct{ got feed.Category }

func (f *fakeSource) Fetch(_ context.Context, c feed.Category) ([]feed.Item, error) {
	f.got = c
	return []feed.Item{{Title: "一"}, {Title: "二"}, {Title: "三"}}, nil
}

func TestHeadlinesByCategory(t *testing.T) {
	src := &fakeSource{}
	var buf bytes.Buffer
	h := Headlines{News: src, Category: feed.Categories[7].ID, Limit: 2, Out: &buf}
	if err := h.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if src.got.ID != feed.Categories[7].ID {
		t.Fatalf("unexpected category %+v", src.got)
	}
	out := buf.String()
	if !strings.Contains(out, "二") || strings.Contains(out, "三") {
		t.Fatalf("expected two items:\n%s", out)
	}
}

func TestHeadlinesUnknownCategory(t *testing.T) {
	h := Headlines{News: &fakeSource{}, Category: "nope", Out: &bytes.Buffer{}}
	if err := h.Do(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
