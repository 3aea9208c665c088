package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamPrices pushes the symbol's latest quote over a websocket at the
// configured interval until the client disconnects.
func (s *Server) streamPrices(c *gin.Context) {
	symbol := c.Param("symbol")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	ticker := time.NewTicker(s.cfg.Market.StreamInterval)
	defer ticker.Stop()

	for {
		quote, err := s.provider.LatestPrice(ctx, symbol)
		if err != nil {
			if writeErr := conn.WriteJSON(gin.H{"error": err.Error()}); writeErr != nil {
				return
			}
		} else if err := conn.WriteJSON(quote); err != nil {
			s.log.Debug("Websocket write failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)

			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
