package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestPublishReachesOnlySubscribers(t *testing.T) {
	hub := NewHub()
	a := NewClient("a", nil)
	b := NewClient("b", nil)

	hub.Subscribe(a, "chat.S1")
	hub.Subscribe(b, "chat.S2")

	ok := hub.Publish("chat.S1", []byte("hello"))
	assert.True(t, ok)
	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func TestPublishToEmptyTopic(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.Publish("chat.S1", []byte("nobody home")))
	assert.False(t, hub.Publish("", []byte("x")))
	assert.False(t, hub.Publish("chat.S1", nil))
}

func TestClientMaySubscribeToManyTopics(t *testing.T) {
	hub := NewHub()
	c := NewClient("dashboard", nil)

	hub.Subscribe(c, "chat.notifications")
	hub.Subscribe(c, "chat.S1")
	hub.Subscribe(c, "orders")

	hub.Publish("chat.S1", []byte("one"))
	hub.Publish("orders", []byte("two"))
	assert.Len(t, drain(c), 2)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", nil)

	hub.Subscribe(c, "chat.S1")
	hub.Unsubscribe(c, "chat.S1")

	assert.False(t, hub.Publish("chat.S1", []byte("x")))
	assert.Zero(t, hub.SubscriberCount("chat.S1"))
}

func TestUnregisterDropsAllSubscriptions(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", nil)

	hub.Subscribe(c, "chat.S1")
	hub.Subscribe(c, "orders")
	hub.Unregister(c)

	assert.Zero(t, hub.SubscriberCount("chat.S1"))
	assert.Zero(t, hub.SubscriberCount("orders"))

	// Close is idempotent through Unregister.
	hub.Unregister(c)
}

func TestPublishAfterClientCloseDoesNotPanic(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", nil)
	hub.Subscribe(c, "chat.S1")

	// Simulates a disconnect racing a publish: the reader closes the client
	// before the hub has dropped it from the topic map.
	c.Close()

	assert.NotPanics(t, func() {
		assert.False(t, hub.Publish("chat.S1", []byte("x")))
	})
	assert.Zero(t, hub.SubscriberCount("chat.S1"))
	assert.Empty(t, drain(c))
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	c := NewClient("slow", nil)
	hub.Subscribe(c, "chat.S1")

	// Fill the send buffer past capacity; the overflow publish evicts the
	// client instead of blocking.
	payload := []byte("x")
	for i := 0; i < cap(c.send)+1; i++ {
		hub.Publish("chat.S1", payload)
	}
	assert.Zero(t, hub.SubscriberCount("chat.S1"))
}
