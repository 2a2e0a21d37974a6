package websocket

import (
	"encoding/json"
	"net/http"
	"sekarnet/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler authenticates ?token= with the API's JWT and upgrades the request.
func Handler(hub *Hub, jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access token required"})
			return
		}
		claims, err := jwtManager.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			hub:    hub,
			UserID: claims.UserID,
			Role:   claims.Role,
			send:   make(chan []byte, 64),
		}
		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		welcome, _ := json.Marshal(&Message{
			Type: "connection_established",
			Data: gin.H{
				"userId":  claims.UserID,
				"role":    claims.Role,
				"message": "Connected to SEKAR NET real-time updates",
			},
			Timestamp: time.Now().Unix(),
		})
		client.send <- welcome

		go client.writePump(conn)
		go client.readPump(conn)
	}
}

// readPump only answers pings; clients do not push state.
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Uint("user", c.UserID).Msg("websocket read error")
			}
			return
		}

		var in Message
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		if in.Type == "ping" {
			pong, _ := json.Marshal(&Message{Type: "pong", Timestamp: time.Now().Unix()})
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
