package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is one open connection. A user may hold several.
type Client struct {
	hub    *Hub
	UserID uint
	Role   string
	send   chan []byte
}

// Message is the frame pushed to browsers.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Hub tracks connected clients by user id.
type Hub struct {
	clients    map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.UserID] == nil {
				h.clients[c.UserID] = make(map[*Client]struct{})
			}
			h.clients[c.UserID][c] = struct{}{}
			h.mu.Unlock()
			log.Debug().Uint("user", c.UserID).Str("role", c.Role).Msg("websocket client registered")

		case c := <-h.unregister:
			h.remove(c)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Publish routes msg to "user:<id>", "role:<role>" or "all". Users who are
// not connected are skipped; that is not an error.
func (h *Hub) Publish(recipient string, msg *Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	match, err := recipientFilter(recipient)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			if !match(c) {
				continue
			}
			select {
			case c.send <- data:
			default:
				log.Warn().Uint("user", c.UserID).Msg("websocket send buffer full, dropping frame")
			}
		}
	}
	return nil
}

func recipientFilter(recipient string) (func(*Client) bool, error) {
	switch {
	case recipient == "all":
		return func(*Client) bool { return true }, nil
	case strings.HasPrefix(recipient, "user:"):
		id, err := strconv.ParseUint(strings.TrimPrefix(recipient, "user:"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad push recipient %q", recipient)
		}
		return func(c *Client) bool { return c.UserID == uint(id) }, nil
	case strings.HasPrefix(recipient, "role:"):
		role := strings.TrimPrefix(recipient, "role:")
		return func(c *Client) bool { return c.Role == role }, nil
	}
	return nil, fmt.Errorf("bad push recipient %q", recipient)
}

// ConnectedCount returns the number of open connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
