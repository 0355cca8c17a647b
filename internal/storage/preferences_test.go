package storage

import (
	"context"
	"errors"
	"testing"
)

func TestSetAndGetPreference(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetPreference(ctx, "sources_per_topic", 6); err != nil {
		t.Fatalf("SetPreference error: %v", err)
	}

	var n int
	if err := store.GetPreference(ctx, "sources_per_topic", &n); err != nil {
		t.Fatalf("GetPreference error: %v", err)
	}
	if n != 6 {
		t.Errorf("got %d, want 6", n)
	}
}

func TestSetPreference_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetPreference(ctx, "categories", "general"); err != nil {
		t.Fatalf("SetPreference error: %v", err)
	}
	if err := store.SetPreference(ctx, "categories", "general,science"); err != nil {
		t.Fatalf("second SetPreference error: %v", err)
	}

	var v string
	if err := store.GetPreference(ctx, "categories", &v); err != nil {
		t.Fatalf("GetPreference error: %v", err)
	}
	if v != "general,science" {
		t.Errorf("got %q, want overwritten value", v)
	}
}

func TestGetPreference_NotFound(t *testing.T) {
	store := newTestStore(t)

	var v string
	err := store.GetPreference(context.Background(), "missing", &v)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestGetAllPreferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetPreference(ctx, "enable_ai_analysis", true); err != nil {
		t.Fatalf("SetPreference error: %v", err)
	}
	if err := store.SetPreference(ctx, "keywords", []string{"climate", "ai"}); err != nil {
		t.Fatalf("SetPreference error: %v", err)
	}

	prefs, err := store.GetAllPreferences(ctx)
	if err != nil {
		t.Fatalf("GetAllPreferences error: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("got %d preferences, want 2", len(prefs))
	}
	if string(prefs["enable_ai_analysis"]) != "true" {
		t.Errorf("enable_ai_analysis = %s, want true", prefs["enable_ai_analysis"])
	}
}
