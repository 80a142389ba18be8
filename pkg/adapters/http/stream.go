package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// StreamManager fans context updates out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]map[string]bool // channel -> watched keys (nil = all)
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]map[string]bool),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Subscribe registers a subscriber for the given keys, or for every key when
// none are given. The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(keys ...string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var watch map[string]bool
	if len(keys) > 0 {
		watch = make(map[string]bool, len(keys))
		for _, k := range keys {
			watch[k] = true
		}
	}

	ch := make(chan string, 10)
	sm.subscribers[ch] = watch

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber watching key.
func (sm *StreamManager) Broadcast(key string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "key", key, "subscribers", len(sm.subscribers))
	for ch, watch := range sm.subscribers {
		if watch != nil && !watch[key] {
			continue
		}
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "key", key)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). The optional watch
// query parameter is a comma-separated list of context keys.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var keys []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, k := range strings.Split(watch, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(keys...)
	defer cancel()

	s.logger.Info("SSE: Subscribing to context updates", "keys", keys)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
