package pubsub

import (
	"sync"

	"github.com/gridiron-labs/gridiron-edge/internal/logger"
)

// MockNATSPubSub is a broker-shaped pub/sub that lives entirely in memory.
// It keeps a bounded message log so tests can assert on published events.
type MockNATSPubSub struct {
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
	messages    []Event
	maxMessages int
}

// NewMockNATSPubSub creates a mock broker for local development and tests
func NewMockNATSPubSub(subject string) *MockNATSPubSub {
	logger.Info("using mock NATS pub/sub", "subject", subject)

	return &MockNATSPubSub{
		subject:     subject,
		subscribers: make([]chan Event, 0),
		messages:    make([]Event, 0),
		maxMessages: 1000,
	}
}

// Publish stores the event and delivers it to all subscribers
func (p *MockNATSPubSub) Publish(event Event) {
	p.mu.Lock()
	p.messages = append(p.messages, event)
	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}
	subs := make([]chan Event, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn("mock NATS skipping slow subscriber", "type", event.Type)
		}
	}
}

// Subscribe creates a subscription channel for events
func (p *MockNATSPubSub) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (p *MockNATSPubSub) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// SubscribeDurable simulates a durable subscription by fanning the local
// channel into the handler.
func (p *MockNATSPubSub) SubscribeDurable(consumerName string, handler func(Event)) error {
	ch := p.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
		logger.Debug("mock NATS durable subscription closed", "consumer", consumerName)
	}()
	return nil
}

// ReplayMessages sends up to count stored messages into the channel
func (p *MockNATSPubSub) ReplayMessages(ch chan Event, count int) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := len(p.messages) - count
	if start < 0 {
		start = 0
	}

	for _, event := range p.messages[start:] {
		select {
		case ch <- event:
		default:
			logger.Warn("mock NATS channel full during replay")
		}
	}
}

// MessageCount returns the number of stored messages
func (p *MockNATSPubSub) MessageCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.messages)
}

// SubscriberCount returns the number of active subscribers
func (p *MockNATSPubSub) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Close closes all subscriptions
func (p *MockNATSPubSub) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil
}
