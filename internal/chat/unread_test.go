package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

func TestUnreadRefreshReplacesCounts(t *testing.T) {
	entries := []models.UnreadEntry{
		{UserID: "bob", UnreadCount: 3},
		{UserID: "carol", UnreadCount: 1},
		{UserID: "dave", UnreadCount: 0},
	}
	store := NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return entries, nil
	})

	// Optimistic drift that the refetch must overwrite.
	store.Increment("bob")
	store.Increment("mallory")

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	if got := store.Count("bob"); got != 3 {
		t.Errorf("Count(bob) = %d, want 3", got)
	}
	if got := store.Count("carol"); got != 1 {
		t.Errorf("Count(carol) = %d, want 1", got)
	}
	if got := store.Count("dave"); got != 0 {
		t.Errorf("Count(dave) = %d, want 0 (zero entries are not stored)", got)
	}
	if got := store.Count("mallory"); got != 0 {
		t.Errorf("Count(mallory) = %d, want 0 after authoritative refresh", got)
	}
	if got := store.Total(); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
}

func TestUnreadRefreshErrorKeepsCounts(t *testing.T) {
	store := NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return nil, errors.New("network down")
	})
	store.Increment("bob")

	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh did not propagate the fetch error")
	}
	if got := store.Count("bob"); got != 1 {
		t.Errorf("Count(bob) = %d after failed refresh, want 1", got)
	}
}

func TestUnreadIncrementAndReset(t *testing.T) {
	store := NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return nil, nil
	})

	store.Increment("bob")
	store.Increment("bob")
	if got := store.Count("bob"); got != 2 {
		t.Fatalf("Count(bob) = %d, want 2", got)
	}

	store.Reset("bob")
	if got := store.Count("bob"); got != 0 {
		t.Errorf("Count(bob) = %d after Reset, want 0", got)
	}

	// Incrementing with an empty peer id is ignored.
	store.Increment("")
	if got := store.Total(); got != 0 {
		t.Errorf("Total() = %d after empty increment, want 0", got)
	}
}

func TestUnreadSubscribeSignalsOnChange(t *testing.T) {
	store := NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return nil, nil
	})

	ch, cancel := store.Subscribe()
	defer cancel()

	store.Increment("bob")
	select {
	case <-ch:
	default:
		t.Fatal("no signal after Increment")
	}

	// Burst of changes coalesces into at least one pending signal.
	store.Increment("bob")
	store.Reset("bob")
	select {
	case <-ch:
	default:
		t.Fatal("no signal after burst of changes")
	}

	cancel()
	store.Increment("bob")
	select {
	case <-ch:
		t.Fatal("signal received after cancel")
	default:
	}
}

func TestUnreadCountsSnapshotIsDetached(t *testing.T) {
	store := NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return nil, nil
	})
	store.Increment("bob")

	snap := store.Counts()
	snap["bob"] = 99

	if got := store.Count("bob"); got != 1 {
		t.Errorf("Count(bob) = %d after mutating snapshot, want 1", got)
	}
}
