package realtime

import (
	"context"
	"sync"
)

type subscriber struct {
	ch     chan Update
	closed bool
	mu     sync.RWMutex
}

func newSubscriber(bufferSize int) *subscriber {
	return &subscriber{ch: make(chan Update, bufferSize)}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

func (s *subscriber) send(update Update) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- update:
		return true
	default:
		return false
	}
}

// MemoryPublisher fans updates out to in-process subscribers. Publishing
// never blocks: when a subscriber's buffer is full the update is dropped for
// that subscriber and its subscription is torn down. All methods are safe
// for concurrent use.
type MemoryPublisher struct {
	subscribers map[*subscriber]struct{}
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewMemoryPublisher creates an in-process publisher. bufferSize sets each
// subscriber's channel buffer; a minimum of 1 is enforced so sends stay
// non-blocking.
func NewMemoryPublisher(bufferSize int) *MemoryPublisher {
	return &MemoryPublisher{
		subscribers: make(map[*subscriber]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe registers a consumer and returns its update channel. The
// subscription is cleaned up when ctx is cancelled; after Close the returned
// channel is already closed.
func (p *MemoryPublisher) Subscribe(ctx context.Context) <-chan Update {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := newSubscriber(p.bufferSize)
	if p.closed {
		sub.close()
		return sub.ch
	}

	p.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		p.cleanupWg.Add(1)
		go func() {
			defer p.cleanupWg.Done()
			<-ctx.Done()
			p.unsubscribe(sub)
		}()
	}

	return sub.ch
}

// Publish implements Publisher. Slow subscribers are dropped rather than
// blocking the caller; Publish returns nil even when nobody received the
// update.
func (p *MemoryPublisher) Publish(ctx context.Context, update Update) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil
	}

	for sub := range p.subscribers {
		if !sub.send(update) {
			// Detach the lagging subscriber off the hot path; holding only
			// the read lock here keeps concurrent publishes cheap.
			go p.unsubscribe(sub)
		}
	}

	return nil
}

// Close closes every subscriber channel and stops accepting new
// subscriptions. It is safe to call multiple times.
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.closed = true
	for sub := range p.subscribers {
		sub.close()
	}
	clear(p.subscribers)
	p.mu.Unlock()

	// Wait out the context-cancellation goroutines so unsubscribes cannot
	// race with a concurrent Close.
	p.cleanupWg.Wait()

	return nil
}

func (p *MemoryPublisher) unsubscribe(sub *subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.subscribers, sub)
	sub.close()
}

var _ Publisher = (*MemoryPublisher)(nil)
