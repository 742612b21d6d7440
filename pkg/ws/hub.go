package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gorilla/websocket"
)

// Hub fans payloads out to clients subscribed by topic. A client may hold
// any number of topic subscriptions at once (a dashboard watches
// chat.notifications plus every open conversation).
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	subs   map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		subs:   make(map[*Client]map[string]struct{}),
	}
}

func (h *Hub) Subscribe(c *Client, topic string) {
	if c == nil || topic == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.topics[topic]
	if set == nil {
		set = make(map[*Client]struct{})
		h.topics[topic] = set
	}
	set[c] = struct{}{}

	sub := h.subs[c]
	if sub == nil {
		sub = make(map[string]struct{})
		h.subs[c] = sub
	}
	sub[topic] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, topic string) {
	if c == nil || topic == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c, topic)
}

// Unregister removes the client from every topic and closes it.
func (h *Hub) Unregister(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	for topic := range h.subs[c] {
		h.dropLocked(c, topic)
	}
	delete(h.subs, c)
	h.mu.Unlock()
	c.Close()
}

func (h *Hub) dropLocked(c *Client, topic string) {
	set := h.topics[topic]
	if set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.topics, topic)
		}
	}
	if sub := h.subs[c]; sub != nil {
		delete(sub, topic)
	}
}

// Publish delivers the payload to every subscriber of the topic. Slow
// clients whose buffers are full are dropped rather than blocking the hub.
func (h *Hub) Publish(topic string, payload []byte) bool {
	if topic == "" || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	set := h.topics[topic]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return false
	}

	ok := false
	for _, c := range clients {
		if c == nil {
			continue
		}
		select {
		case <-c.done:
			h.Unregister(c)
			continue
		default:
		}
		select {
		case c.send <- payload:
			ok = true
		default:
			h.Unregister(c)
		}
	}
	return ok
}

func (h *Hub) PublishJSON(topic string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Publish(topic, b)
	return nil
}

// SubscriberCount reports how many clients currently watch the topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

type Client struct {
	clientID string
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}

	closeOnce sync.Once
}

func NewClient(clientID string, conn *websocket.Conn) *Client {
	return &Client{
		clientID: clientID,
		conn:     conn,
		send:     make(chan []byte, 64),
		done:     make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.clientID
}

// Close stops the write pump and closes the connection. The send channel
// is never closed: Publish may race a disconnect, and a send on a closed
// channel would panic the process.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Error(err.Error())
				return
			}
		case <-c.done:
			return
		}
	}
}
