package ui

import (
	"context"
	"testing"

	"tableflip.dev/kiosk/pkg/app"
)

func TestDoRequiresService(t *testing.T) {
	for _, u := range []UI{{}, {Service: &app.Service{}}} {
		if err := u.Do(context.Background()); err == nil {
			t.Fatalf("expected error for %+v", u)
		}
	}
}
