package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/session"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "dashboard_cluster_events"

// Hub fans messages out to the websocket clients of a browser session or a
// user. With Redis configured every instance relays what the others publish.
type Hub struct {
	// session id -> connections (several tabs can share one session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	closeOnce  sync.Once

	mu sync.RWMutex

	rdb *redis.Client
	// instanceID lets an instance skip its own messages coming back from Redis.
	instanceID string
	logger     logger.ILogger
}

var _ session.Notifier = (*Hub)(nil)

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id,omitempty"`
	TargetUserID    string          `json:"target_user_id,omitempty"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()

		case <-h.quit:
			return
		}
	}
}

// Close stops Run. Connected clients are left to time out.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

// Notify pushes a session snapshot to that session's clients.
func (h *Hub) Notify(snap session.Snapshot) {
	data, err := Encode("session", dto.NewSessionResponse(snap))
	if err != nil {
		return
	}
	h.deliver(func(c *Client) bool { return c.SessionID == snap.SessionID }, data)
	h.publish(clusterMessage{TargetSessionID: snap.SessionID, Message: data})
}

// SendToUser pushes to every session the user has open.
func (h *Hub) SendToUser(userID, kind string, payload interface{}) {
	data, err := Encode(kind, payload)
	if err != nil {
		return
	}
	h.deliver(func(c *Client) bool { return c.UserID == userID }, data)
	h.publish(clusterMessage{TargetUserID: userID, Message: data})
}

func Encode(kind string, payload interface{}) ([]byte, error) {
	return json.Marshal(envelope{Type: kind, Data: payload})
}

// deliver never blocks; a client whose buffer is full misses the message.
func (h *Hub) deliver(match func(*Client) bool, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			if !match(client) {
				continue
			}
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"session_id": client.SessionID})
			}
		}
	}
}

func (h *Hub) publish(msg clusterMessage) {
	if h.rdb == nil {
		return
	}
	msg.Origin = h.instanceID
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// subscribeToRedis relays what other instances published.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
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
			var cm clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			h.relay(cm)
		}
	}
}

func (h *Hub) relay(cm clusterMessage) {
	if cm.Origin == h.instanceID {
		return
	}
	switch {
	case cm.TargetSessionID != "":
		h.deliver(func(c *Client) bool { return c.SessionID == cm.TargetSessionID }, cm.Message)
	case cm.TargetUserID != "":
		h.deliver(func(c *Client) bool { return c.UserID == cm.TargetUserID }, cm.Message)
	}
}
