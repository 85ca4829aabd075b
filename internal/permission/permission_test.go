package permission

import (
	"context"
	"errors"
	"testing"
)

func TestStaticOutcomes(t *testing.T) {
	if err := (Static{}).Request(context.Background()); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := (Static{Err: ErrDenied}).Request(context.Background()); !errors.Is(err, ErrDenied) {
		t.Fatalf("deny: %v", err)
	}
}

func TestStaticHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (Static{}).Request(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
