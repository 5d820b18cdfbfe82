// internal/loans/messaging/memory.go
package messaging

import (
	"context"
	"sync"
)

// MemoryPublisher collects published messages in memory. Used in tests
// and local runs where no broker is available.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []DecisionRequest
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, message DecisionRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

// Messages returns a copy of everything published so far.
func (p *MemoryPublisher) Messages() []DecisionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]DecisionRequest, len(p.messages))
	copy(out, p.messages)
	return out
}

// Pop removes and returns the oldest published message, or false when
// the queue is empty.
func (p *MemoryPublisher) Pop() (DecisionRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return DecisionRequest{}, false
	}
	message := p.messages[0]
	p.messages = p.messages[1:]
	return message, true
}
