package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/itfview/pkg/ports"
)

// StreamManager handles active SSE connections per view.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // ViewID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

// Subscribe registers a listener for viewID. The returned func unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(viewID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[viewID]; !ok {
		sm.subscribers[viewID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[viewID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[viewID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, viewID)
			}
		}
	}
}

// Broadcast sends msg to every listener of viewID without blocking.
func (sm *StreamManager) Broadcast(viewID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[viewID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "view_id", viewID)
		}
	}
}

// SubscribeEvents handles GET /events. Every change of the trace source is
// sent as "data: <source name>"; commands applied to the same view from
// another client are sent as "event: view".
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := viewID(w, r)
	ctx := r.Context()

	var changes <-chan struct{}
	if wa, ok := s.source.(ports.Watchable); ok {
		ch, err := wa.Watch(ctx)
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			s.logger.Error("SubscribeEvents: Watch failed", "source", s.source.Name(), "err", err)
			return
		}
		changes = ch
	}

	views, cancel := s.streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Debug("SSE: Client subscribed", "view_id", id)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("SSE: Client disconnected", "view_id", id)
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", s.source.Name())
			flusher.Flush()
		case msg, ok := <-views:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: view\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
