package messaging

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Messaging implementation. It delivers published
// messages synchronously to subscribed handlers, which makes behavior easy
// to assert in tests and keeps single-binary development runs broker-free.
type Memory struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewMemory constructs an in-process messaging client.
func NewMemory() *Memory {
	return &Memory{handlers: make(map[string][]Handler)}
}

// Publish delivers the message to all handlers subscribed to destination.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrSubjectRequired
	}

	m.mu.RLock()
	handlers := append([]Handler{}, m.handlers[destination]...)
	m.mu.RUnlock()

	received := &memoryMessage{
		body:       msg.Body,
		headers:    msg.Headers,
		subject:    destination,
		receivedAt: time.Now(),
	}

	for _, handler := range handlers {
		_ = callHandlerWithRecover(ctx, "memory", func() error {
			return handler(ctx, received)
		})
	}

	return PublishResult{Subject: destination, Timestamp: received.receivedAt}, nil
}

// Consume registers the handler for source and blocks until ctx is done.
func (m *Memory) Consume(ctx context.Context, source string, handler Handler, _ ...ConsumeOption) error {
	if source == "" {
		return ErrSubjectRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	m.mu.Lock()
	m.handlers[source] = append(m.handlers[source], handler)
	m.mu.Unlock()

	<-ctx.Done()

	return ctx.Err()
}

// Subscribe registers the handler without blocking. Intended for tests.
func (m *Memory) Subscribe(source string, handler Handler) {
	m.mu.Lock()
	m.handlers[source] = append(m.handlers[source], handler)
	m.mu.Unlock()
}

// Close removes all handlers.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.handlers = make(map[string][]Handler)
	m.mu.Unlock()

	return nil
}

type memoryMessage struct {
	body       []byte
	headers    []Header
	subject    string
	receivedAt time.Time
}

func (m *memoryMessage) Body() []byte              { return m.body }
func (m *memoryMessage) Headers() []Header         { return m.headers }
func (m *memoryMessage) Subject() string           { return m.subject }
func (m *memoryMessage) Timestamp() time.Time      { return m.receivedAt }
func (m *memoryMessage) Ack(context.Context) error { return nil }

func (m *memoryMessage) Nack(context.Context) error { return nil }
