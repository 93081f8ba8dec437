package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/adirkandabi/LinkSpark/internal/models"
	"github.com/adirkandabi/LinkSpark/internal/socket"
)

// UnreadFetcher fetches the authoritative unread summary for the viewer.
// *api.Client's UnreadSummary, curried with the viewer id, satisfies it.
type UnreadFetcher func(ctx context.Context) ([]models.UnreadEntry, error)

// UnreadStore is the single authoritative copy of per-peer unread counts.
// Every badge in the application reads from this store through Subscribe;
// there is exactly one update path, so independent views cannot drift apart.
//
// Local mutations (Increment on a live message for a background room, Reset on
// mark-as-read) are optimistic only. Each Refresh replaces the map wholesale
// with the server's summary, correcting any accumulated drift.
type UnreadStore struct {
	mu     sync.Mutex
	counts map[string]int
	subs   map[int]chan struct{}
	nextID int
	fetch  UnreadFetcher
}

// NewUnreadStore returns an empty store backed by the given fetcher.
func NewUnreadStore(fetch UnreadFetcher) *UnreadStore {
	return &UnreadStore{
		counts: make(map[string]int),
		subs:   make(map[int]chan struct{}),
		fetch:  fetch,
	}
}

// Refresh replaces the store contents with the server's summary.
func (s *UnreadStore) Refresh(ctx context.Context) error {
	entries, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.counts = make(map[string]int, len(entries))
	for _, e := range entries {
		if e.UnreadCount > 0 {
			s.counts[e.UserID] = e.UnreadCount
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Increment optimistically bumps a peer's count by one. Called by the live
// router when a message lands in a room that is not on screen.
func (s *UnreadStore) Increment(peerID string) {
	if peerID == "" {
		return
	}
	s.mu.Lock()
	s.counts[peerID]++
	s.mu.Unlock()
	s.notify()
}

// Reset zeroes a peer's count. Called when the viewer opens that conversation,
// regardless of whether the server has confirmed the mark-as-read yet.
func (s *UnreadStore) Reset(peerID string) {
	s.mu.Lock()
	delete(s.counts, peerID)
	s.mu.Unlock()
	s.notify()
}

// Count returns the unread count for one peer.
func (s *UnreadStore) Count(peerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[peerID]
}

// Total returns the sum across all peers, for launcher-style badges.
func (s *UnreadStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Counts returns a snapshot of the full map.
func (s *UnreadStore) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Subscribe returns a channel that receives a signal after every change, and a
// cancel function releasing the subscription. Signals are coalesced: a slow
// reader sees at least one signal for any burst of changes.
func (s *UnreadStore) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *UnreadStore) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Bind attaches the store to the connection's unread push events. The push
// payload is advisory only; receipt triggers one authoritative refetch. The
// returned detach releases the listener.
func (s *UnreadStore) Bind(conn *socket.Conn) (detach func()) {
	return conn.Attach(socket.EventUnreadCount, func(payload json.RawMessage) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := s.Refresh(ctx); err != nil {
				log.Printf("UnreadStore: Refresh after push failed: %v", err)
			}
		}()
	})
}
