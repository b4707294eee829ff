// Package push is the WebSocket client side of the annotation push channel.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"video-annotate/pkg/annotate"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Dialer opens push channels against a fixed endpoint.
type Dialer struct {
	url    string
	dialer *websocket.Dialer
}

func NewDialer(url string, handshakeTimeout time.Duration) *Dialer {
	return &Dialer{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

func (d *Dialer) Dial(ctx context.Context) (annotate.PushChannel, error) {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}
	return newChannel(conn), nil
}

// Channel is one open push connection.
type Channel struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newChannel(conn *websocket.Conn) *Channel {
	c := &Channel{conn: conn}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})
	return c
}

// Receive reads the next event. It unblocks when the channel is closed;
// ctx is only checked between frames.
func (c *Channel) Receive(ctx context.Context) (annotate.PushEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return annotate.PushEvent{}, err
		}
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return annotate.PushEvent{}, err
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var ev annotate.PushEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			// socket.io-style servers send the bare event name
			ev = annotate.PushEvent{Event: string(message)}
		}
		if ev.Event == "" {
			continue
		}
		return ev, nil
	}
}

func (c *Channel) Register(_ context.Context, userName string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(annotate.PushEvent{Event: annotate.PushRegister, Data: userName})
}

func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}
