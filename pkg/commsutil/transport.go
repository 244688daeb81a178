package commsutil

import (
	"context"
	"fmt"

	comms "github.com/nats-io/nats.go"
)

const transportLogPrefix = "commsutil:transport"

// Headers is the string-keyed, multi-valued header map attached to published
// messages and deliveries. Keys are matched exactly, not canonicalized.
type Headers map[string][]string

// Get returns the first value for key, or "" when absent.
func (h Headers) Get(key string) string {
	if vs := h[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Set replaces the values for key with a single value.
func (h Headers) Set(key, value string) {
	h[key] = []string{value}
}

// Delivery is one message received on a reply queue.
type Delivery struct {
	Data          []byte
	Headers       Headers
	CorrelationID string
}

// Subscription is a live consumption of one queue.
type Subscription interface {
	Unsubscribe() error
}

// Transport is the broker boundary the RPC session depends on. The session
// only publishes call bodies and consumes its reply queue; connection and
// queue lifecycle belong to the transport implementation.
type Transport interface {
	// Publish sends data with headers to subject, asking for replies on replyTo.
	Publish(ctx context.Context, subject string, data []byte, headers Headers, replyTo string) error
	// Consume delivers every message arriving on queue to handler until the
	// subscription is closed. Not restartable after Unsubscribe.
	Consume(queue string, handler func(Delivery)) (Subscription, error)
	// NewReplyQueue returns a fresh queue identity unique to this transport.
	NewReplyQueue() string
}

// CommsTransport implements Transport over a COMMS connection.
type CommsTransport struct {
	nc *comms.Conn
}

// NewCommsTransport wraps an established COMMS connection. The caller keeps
// ownership of the connection and closes it.
func NewCommsTransport(nc *comms.Conn) *CommsTransport {
	return &CommsTransport{nc: nc}
}

// Publish implements Transport.
func (t *CommsTransport) Publish(ctx context.Context, subject string, data []byte, headers Headers, replyTo string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s - publish to %s aborted: %w", transportLogPrefix, subject, err)
	}

	msg := &comms.Msg{
		Subject: subject,
		Reply:   replyTo,
		Data:    data,
		Header:  comms.Header(headers),
	}
	if err := t.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("%s - failed to publish to %s: %w", transportLogPrefix, subject, err)
	}
	return nil
}

// Consume implements Transport. The correlation id is lifted out of the
// message headers so the session never touches broker header conventions.
func (t *CommsTransport) Consume(queue string, handler func(Delivery)) (Subscription, error) {
	sub, err := t.nc.Subscribe(queue, func(msg *comms.Msg) {
		headers := Headers(msg.Header)
		handler(Delivery{
			Data:          msg.Data,
			Headers:       headers,
			CorrelationID: headers.Get(HeaderCorrelationID),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to consume %s: %w", transportLogPrefix, queue, err)
	}
	return sub, nil
}

// NewReplyQueue implements Transport using a COMMS inbox.
func (t *CommsTransport) NewReplyQueue() string {
	return comms.NewInbox()
}
