package broadcast

import (
	"context"
	"encoding/json"

	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/mq"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/ws"
)

// Topics. Chat sessions each get their own topic; everything else is a
// shared firehose per domain.
const (
	TopicChatNotifications = "chat.notifications"
	TopicOrders            = "orders"
	TopicProducts          = "products"
	TopicPayments          = "payments"
)

// Event names are stable and distinct from topics so subscribers can
// multiplex several event kinds on one topic.
const (
	EventMessageSent         = "message.sent"
	EventSessionAssigned     = "session.assigned"
	EventSessionUnassigned   = "session.unassigned"
	EventSessionConsolidated = "session.consolidated"
	EventSessionClosed       = "session.closed"
	EventOrderNotification   = "order-notification"
	EventProductUpdated      = "product.updated"
	EventStockUpdated        = "stock.updated"
	EventPaymentCompleted    = "payment.completed"
)

// ChatTopic is the per-session topic the widget and the operator console
// both subscribe to.
func ChatTopic(sessionID string) string {
	return "chat." + sessionID
}

// Payload is a flat record of primitives. Callers must not put entity
// graphs in here; the payload crosses process and queue boundaries as-is.
type Payload map[string]interface{}

// Envelope is the wire shape delivered to subscribers.
type Envelope struct {
	Event string  `json:"event"`
	Data  Payload `json:"data"`
}

// Gateway publishes fan-out events to real-time subscribers. Delivery is
// fire-and-forget: no acknowledgment is awaited and no retry is attempted.
type Gateway interface {
	Publish(topic string, event string, payload Payload) error
}

type gatewayImpl struct {
	hub *ws.Hub
	pub mq.Publisher
}

// NewGateway fans out over the in-process websocket hub and, when a
// publisher is configured, mirrors every event onto Kafka with the event
// name as a record header.
func NewGateway(hub *ws.Hub, pub mq.Publisher) Gateway {
	return &gatewayImpl{hub: hub, pub: pub}
}

func (g *gatewayImpl) Publish(topic string, event string, payload Payload) error {
	b, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}

	if g.hub != nil {
		g.hub.Publish(topic, b)
	}

	if g.pub != nil {
		_, err = g.pub.Publish(context.Background(), mq.Message{
			Topic:   topic,
			Key:     []byte(topic),
			Value:   b,
			Headers: map[string]string{"event": event},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
