// Package hub fans store events out to every connected UI surface over
// websockets.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mediavault/internal/domain/dto"
	"mediavault/pkg/logger"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]*Client
	next    uint64
}

// Client is one connected surface.
type Client struct {
	id      uint64
	Surface string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
}

func New() *Hub {
	return &Hub{
		clients: make(map[uint64]*Client),
	}
}

// Register adds conn and starts its writer.
func (h *Hub) Register(surface string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	h.next++
	c := &Client{
		id:      h.next,
		Surface: surface,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		hub:     h,
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	logger.Debug("surface connected", "surface", surface, "client", c.id)

	go c.writePump()

	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish never blocks on a slow surface; such surfaces are dropped and are
// expected to reconnect and reload.
func (h *Hub) Publish(_ context.Context, event dto.StoreEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var slowClients []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slowClients = append(slowClients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slowClients {
		logger.Warn("dropping slow surface", "surface", c.Surface, "client", c.id)
		h.Unregister(c)
	}

	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every surface.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

// ReadPump consumes control frames until the connection fails, then
// unregisters the client. Surfaces do not send data over this socket.
func (c *Client) ReadPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
