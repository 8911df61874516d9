package server

import (
	"log/slog"

	"implantstock/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StockWebSocketHandler handles GET /ws/stock. Each socket receives the
// low-stock alerts of the logged-in user as JSON text frames.
// @Summary Stock alert stream
// @Description WebSocket upgrade; frames are {"type":"low_stock",...}
// @Tags inventory
// @Success 101 "Switching protocols"
// @Failure 401 {object} models.ErrorResponse
// @Failure 426 {object} models.ErrorResponse
// @Router /ws/stock [get]
func (s *Server) StockWebSocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userID, ok := conn.Locals(localUserID).(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("stock socket rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.Logger.Debug("stock socket connected", slog.Uint64("user_id", uint64(userID)))
		client.Serve()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
				"error": "websocket upgrade required",
			})
		}
		return upgrade(c)
	}
}
