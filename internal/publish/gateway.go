package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// QoS is the delivery guarantee requested for a message.
type QoS int

// Delivery guarantees. Only QoS0 is used by the controller.
const (
	QoS0 QoS = iota
	QoS1
	QoS2
)

// Message is one outbound publish.
type Message struct {
	// Topic is the destination topic.
	Topic string
	// Payload is sent as is.
	Payload []byte
	// QoS is the delivery guarantee.
	QoS QoS
	// Retained asks the broker to keep the message for late subscribers.
	Retained bool
	// Dup marks a redelivery.
	Dup bool
}

// Transport sends one message through the shared outbound connection.
type Transport interface {
	Publish(ctx context.Context, msg Message) error
}

// greetingPayload is the fixed body of a publish-request.
//
//nolint:gochecknoglobals // Read-only payload.
var greetingPayload = []byte{'h', 'i'}

// errTransportNotSet is returned when the gateway has no transport.
var errTransportNotSet = errors.New("publish transport is not set")

// Gateway serializes publishes through a lock shared with every other
// goroutine that uses the same transport.
type Gateway struct {
	transport Transport
	lock      sync.Locker
	topic     string
}

// NewGateway creates a gateway for the fixed topic. A nil lock gets a private mutex.
func NewGateway(transport Transport, lock sync.Locker, topic string) *Gateway {
	if lock == nil {
		lock = new(sync.Mutex)
	}

	return &Gateway{
		transport: transport,
		lock:      lock,
		topic:     topic,
	}
}

// Topic returns the fixed topic.
func (g *Gateway) Topic() string {
	return g.topic
}

// Lock returns the lock guarding the transport, for other publishers to share.
func (g *Gateway) Lock() sync.Locker {
	return g.lock
}

// PublishGreeting sends the fixed two-byte payload to the fixed topic,
// fire and forget: QoS 0, not retained, not a duplicate.
func (g *Gateway) PublishGreeting(ctx context.Context) error {
	payload := make([]byte, len(greetingPayload))
	copy(payload, greetingPayload)

	return g.Send(ctx, Message{
		Topic:    g.topic,
		Payload:  payload,
		QoS:      QoS0,
		Retained: false,
		Dup:      false,
	})
}

// Send holds the lock for the transport call only.
func (g *Gateway) Send(ctx context.Context, msg Message) error {
	if g.transport == nil {
		return errTransportNotSet
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	if err := g.transport.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Topic, err)
	}

	return nil
}
