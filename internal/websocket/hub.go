package websocket

import (
	"context"
	"encoding/json"

	"video-annotate/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel hubs use to reach clients connected
// to other instances.
const ClusterChannel = "cluster_events"

// Frame is one message on the push channel.
type Frame struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

const (
	EventReady    = "message"
	EventRegister = "register"
	EventRefresh  = "refresh"
)

type clusterMessage struct {
	Origin     string          `json:"origin"`
	TargetUser string          `json:"target_user"`
	Message    json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients: user name -> connections (one per open tab/device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Functions executed on the Run goroutine, which owns the client map.
	queries chan func(map[string][]*Client)

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Closed when Run returns.
	done chan struct{}

	// Identifies this instance so it can skip its own redis messages.
	id string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		queries:    make(chan func(map[string][]*Client)),
		clients:    make(map[string][]*Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		id:         uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client map until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for user, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, user)
			}
			return

		case client := <-h.register:
			h.clients[client.UserName] = append(h.clients[client.UserName], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"user":        client.UserName,
				"connections": len(h.clients[client.UserName]),
			})

		case client := <-h.unregister:
			h.remove(client)

		case query := <-h.queries:
			query(h.clients)
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.UserName]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserName] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserName]) == 0 {
		delete(h.clients, client.UserName)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user": client.UserName})
	}
}

// Register hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) query(fn func(map[string][]*Client)) bool {
	select {
	case h.queries <- fn:
		return true
	case <-h.done:
		return false
	}
}

// ClientCount reports how many connections are registered for userName.
func (h *Hub) ClientCount(userName string) int {
	result := make(chan int, 1)
	if !h.query(func(clients map[string][]*Client) {
		result <- len(clients[userName])
	}) {
		return 0
	}
	return <-result
}

// Refresh signals every connection of userName, here and on other instances,
// to pull pending annotations.
func (h *Hub) Refresh(userName string) {
	data, _ := json.Marshal(Frame{Event: EventRefresh})

	h.deliver(userName, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.id, TargetUser: userName, Message: data})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish cluster event", map[string]interface{}{"error": err.Error(), "user": userName})
		}
	}
}

func (h *Hub) deliver(userName string, data []byte) {
	h.query(func(clients map[string][]*Client) {
		for _, client := range append([]*Client(nil), clients[userName]...) {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user": userName})
				h.remove(client)
			}
		}
	})
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.id || payload.TargetUser == "" {
				continue
			}
			h.deliver(payload.TargetUser, payload.Message)
		}
	}
}
