package server

import (
	"net/http"
	"time"

	"github.com/fieldops-app/fieldops/internal/notification/hub"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = (socketPongWait * 9) / 10
)

func (s *Server) registerSocketRoutes() {
	s.engine.GET("/ws", s.handleSocket)
}

func (s *Server) issueSocketTicket(c *gin.Context) {
	ticket, expiresAt, err := s.identitySvc.IssueSocketTicket(currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "expiresAt": expiresAt})
}

// handleSocket upgrades a ticket-bearing request and streams the caller's
// notifications until either side closes.
func (s *Server) handleSocket(c *gin.Context) {
	email, err := s.identitySvc.VerifySocketTicket(c.Query("ticket"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote its own response.
		return
	}

	sub, err := s.notificationHub.Subscribe(email)
	if err != nil {
		_ = conn.Close()
		return
	}

	go s.socketReadLoop(conn, sub)
	s.socketWriteLoop(conn, sub, email)
}

func (s *Server) socketReadLoop(conn *websocket.Conn, sub *hub.Subscription) {
	defer sub.Close()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) socketWriteLoop(conn *websocket.Conn, sub *hub.Subscription, email string) {
	ticker := time.NewTicker(socketPingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close()
	}()

	for {
		select {
		case <-sub.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(socketWriteWait))
			return
		case event := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Debug("socket write failed",
					zap.String("recipient", email),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
