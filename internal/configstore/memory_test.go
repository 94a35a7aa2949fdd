package configstore

import (
	"context"
	"errors"
	"testing"

	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/telephony"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	cfg := telephony.CallConfig{
		BaseURL:     "https://voice.example.com",
		To:          "+15551234567",
		From:        "+15550001111",
		Synthesizer: "polly",
		Transcriber: "streaming",
	}

	if err := store.Save(ctx, "CA1", cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "CA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "CA-unknown")
	if !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Save(ctx, "CA1", telephony.CallConfig{To: "+15551234567"})
	if err := store.Delete(ctx, "CA1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, "CA1"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is a no-op.
	if err := store.Delete(ctx, "CA1"); err != nil {
		t.Errorf("unexpected error on second delete: %v", err)
	}
}
