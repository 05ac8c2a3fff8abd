package user

import (
	"context"
	"net/http"
	"time"

	"jaggery_back_end/internal/cart"
	"jaggery_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// NewUpgrader accepts browser connections from the configured origins only.
// An empty list accepts any origin.
func NewUpgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowed) == 0 || origin == "" || allowed[origin]
		},
	}
}

type wsMessage struct {
	Type string `json:"type"`
	cartResponse
}

// WebSocket pushes the cart to the client after every change made from another tab or device.
func (h *CartHandlers) WebSocket(upgrader websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.Logger.Warn("❌ websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, stop, err := h.Store.Watch(ctx, userID)
		if err != nil {
			h.Logger.Error("❌ cart watch failed", zap.String("user_id", userID), zap.Error(err))
			_ = conn.WriteJSON(gin.H{"type": "error", "message": "Cart sync unavailable"})
			return
		}
		defer func() { _ = stop() }()

		// The read loop only notices the client going away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := h.push(ctx, conn, userID, "connected"); err != nil {
			return
		}

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				kind := "cart_updated"
				if ev == cart.EventCleared {
					kind = "cart_cleared"
				}
				if err := h.push(ctx, conn, userID, kind); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func (h *CartHandlers) push(ctx context.Context, conn *websocket.Conn, userID, kind string) error {
	items, err := h.Store.Items(ctx, userID)
	if err != nil {
		h.Logger.Warn("⚠️ cart reload for websocket failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsMessage{Type: kind, cartResponse: h.response(items)})
}
