// Package pubsub carries stream events from transport goroutines into
// the single-threaded TUI update loop. Publishing never blocks; a slow
// subscriber drops events rather than stalling the stream reader.
package pubsub

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultBufferSize = 64

// Broker is a generic publish/subscribe broker.
type Broker[T any] struct {
	mu   sync.RWMutex
	subs map[chan T]struct{}
	done chan struct{}
}

// NewBroker creates an open broker.
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan T]struct{}),
		done: make(chan struct{}),
	}
}

// Subscribe returns a channel of published values. The subscription is
// removed and the channel closed when ctx is cancelled or the broker
// closes.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan T)
		close(ch)
		return ch
	default:
	}

	sub := make(chan T, defaultBufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		select {
		case <-b.done:
			return
		default:
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers v to every subscriber whose buffer has room.
func (b *Broker[T]) Publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	for sub := range b.subs {
		select {
		case sub <- v:
		default:
			// Subscriber is full; drop rather than block the publisher.
		}
	}
}

// Close shuts down the broker and closes all subscriber channels.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// ListenCmd returns a Bubble Tea command that waits for the next value
// on ch, returning it as the tea.Msg. It returns nil once ctx is
// cancelled or the channel closes; re-issue it after handling each
// message to keep receiving.
func ListenCmd[T any](ctx context.Context, ch <-chan T) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-ch:
			if !ok {
				return nil
			}
			return v
		}
	}
}
