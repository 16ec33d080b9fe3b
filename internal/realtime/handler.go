package realtime

import (
	"github.com/gin-gonic/gin"

	ws "github.com/coder/websocket"

	"hestia/internal/logger"
)

// Handler returns a Gin handler that upgrades the connection to WebSocket
// and streams the authenticated user's notification events until the client
// disconnects. Must run behind the auth middleware.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatus(401)
			return
		}

		conn, err := ws.Accept(c.Writer, c.Request, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Same-origin policy handled by token auth
		})
		if err != nil {
			logger.Get().Warnw("websocket accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn, userID.(string))
		client.Run(c.Request.Context())
	}
}
