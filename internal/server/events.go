package server

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// eventHub fans out change notifications from the store to connected SSE
// clients. Events carry only the resource name that changed; clients
// re-fetch the affected collection.
type eventHub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan string
}

func newEventHub() *eventHub {
	return &eventHub{subs: map[int]chan string{}}
}

func (h *eventHub) subscribe() (int, <-chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan string, 16)
	h.subs[id] = ch
	return id, ch
}

func (h *eventHub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// broadcast delivers the resource name to every subscriber. A slow client
// with a full buffer misses the event rather than blocking the writer; the
// next event will still prompt it to re-fetch.
func (h *eventHub) broadcast(resource string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- resource:
		default:
		}
	}
}

// handleEvents streams change events to the client as server-sent events.
func (s *Server) handleEvents(c *gin.Context) {
	id, ch := s.events.subscribe()
	defer s.events.unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case resource, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", gin.H{"resource": resource})
			return true
		case <-done:
			return false
		}
	})
}
