package inmemory

import (
	"context"
	"errors"
	"testing"

	"docbot/internal/profile"
)

func TestGetMissing(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "ghost"); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutGetList(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := profile.New("alice")
	p.Condition = "Crohn's"
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Condition != "Crohn's" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	_ = s.Put(ctx, profile.New("bob"))
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(all))
	}
}
