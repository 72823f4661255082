package handler

import (
	"go-kasir-api/internal/middleware"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeOnly rejects plain HTTP requests to the websocket route.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWS subscribes the connection to the events of the actor's store.
// Must run after RequireAuth.
func ServeWS(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		a, ok := c.Locals(middleware.ActorKey).(policy.Actor)
		if !ok {
			c.Close()
			return
		}

		sub := ws.Subscription{StoreID: a.StoreID, Conn: c}
		hub.Register <- sub
		defer func() { hub.Unregister <- sub }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
