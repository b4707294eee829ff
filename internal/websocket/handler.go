package websocket

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"video-annotate/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

var errNoRegistration = errors.New("connection closed before register")

// ServeWs runs the push handshake on a freshly upgraded connection: announce
// readiness, wait for the client to register a user name, then hand the
// connection to the hub. It returns when the connection ends.
func ServeWs(hub *Hub, conn *websocket.Conn, log logger.ILogger) {
	conn.SetReadLimit(maxMessageSize)

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Frame{Event: EventReady, Data: "connected"}); err != nil {
		log.Warn("Client", "Failed to send ready event", map[string]interface{}{"error": err.Error()})
		return
	}

	userName, err := awaitRegister(conn)
	if err != nil {
		log.Debug("Client", "Handshake ended without registration", map[string]interface{}{"error": err.Error()})
		return
	}

	client := NewClient(hub, conn, userName, log)
	if !hub.Register(client) {
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	client.readPump()
}

func awaitRegister(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(registerWait))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return "", errors.Join(errNoRegistration, err)
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			continue
		}
		if frame.Event != EventRegister {
			continue
		}
		if name := strings.TrimSpace(frame.Data); name != "" {
			return name, nil
		}
	}
}
