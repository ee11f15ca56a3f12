// handlers/live.go - Live leaderboard refresh channel
package handlers

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// liveHub tracks open dashboard sockets. The channel only pushes
// refresh notices; clients re-fetch over REST, so there is no state to
// replay for late joiners.
type liveHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

var hub = &liveHub{conns: make(map[*websocket.Conn]bool)}

func (h *liveHub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
}

func (h *liveHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

func (h *liveHub) broadcast(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	payload := []byte(`{"event":"` + event + `"}`)
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Dropping live client: %v", err)
			c.Close()
			delete(h.conns, c)
		}
	}
}

// LiveUpgrade gates the websocket route to real upgrade requests.
func LiveUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveLeaderboard holds a dashboard socket open until the client hangs
// up. Incoming messages are ignored; the server only pushes.
// GET /ws/leaderboard
func LiveLeaderboard() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		hub.add(c)
		defer func() {
			hub.remove(c)
			c.Close()
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}

// NotifyLeaderboard tells every open dashboard that the board changed.
func NotifyLeaderboard(event string) {
	hub.broadcast(event)
}
