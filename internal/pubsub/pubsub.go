package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultPublishTimeout = 5 * time.Second

type Publisher[E any] interface {
	Publish(evt E)
}

type Subscriber[E any] interface {
	Subscribe(ctx context.Context) Subscription[E]
}

type Subscription[E any] interface {
	ResultChan() <-chan E
	Stop()
}

// PubSub fans events out to all current subscribers.
// A subscriber that does not accept an event within PublishTimeout is dropped.
type PubSub[E any] struct {
	PublishTimeout time.Duration

	mutex         sync.RWMutex
	subscriptions map[int64]*subscription[E]
	seq           int64
	stopped       bool
}

func New[E any]() *PubSub[E] {
	return &PubSub[E]{
		PublishTimeout: defaultPublishTimeout,
		subscriptions:  map[int64]*subscription[E]{},
	}
}

func (p *PubSub[E]) Stop() {
	p.mutex.Lock()
	p.stopped = true
	subscriptions := make([]*subscription[E], 0, len(p.subscriptions))
	for _, s := range p.subscriptions {
		subscriptions = append(subscriptions, s)
	}
	p.mutex.Unlock()

	for _, s := range subscriptions {
		s.Stop()
	}
}

func (p *PubSub[E]) Subscribe(ctx context.Context) Subscription[E] {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.stopped {
		return closedSubscription[E]{}
	}

	p.seq++

	ctx, cancel := context.WithCancel(ctx)
	s := &subscription[E]{
		id:     p.seq,
		cancel: cancel,
		pubsub: p,
		ch:     make(chan E, 10),
	}
	p.subscriptions[s.id] = s

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s
}

func (p *PubSub[E]) Publish(evt E) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.stopped {
		return
	}

	for _, s := range p.subscriptions {
		select {
		case s.ch <- evt:
		case <-time.After(p.PublishTimeout):
			slog.Warn("dropping subscriber since it did not accept the event in time", "subscription", s.id, "timeout", p.PublishTimeout)
			go s.Stop()
		}
	}
}

func (p *PubSub[E]) remove(id int64) (chan E, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	s, ok := p.subscriptions[id]
	if !ok {
		return nil, false
	}

	delete(p.subscriptions, id)

	return s.ch, true
}

type subscription[E any] struct {
	pubsub *PubSub[E]
	id     int64
	cancel context.CancelFunc
	ch     chan E
}

func (s *subscription[E]) Stop() {
	ch, ok := s.pubsub.remove(s.id)
	if !ok {
		return
	}

	s.cancel()
	close(ch)
}

func (s *subscription[E]) ResultChan() <-chan E {
	return s.ch
}

type closedSubscription[E any] struct{}

func (closedSubscription[E]) Stop() {}

func (closedSubscription[E]) ResultChan() <-chan E {
	ch := make(chan E)
	close(ch)
	return ch
}
