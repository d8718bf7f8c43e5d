package server

import (
	"context"
	"log"
	"sync"
	"time"
)

const slowSubscriberTimeout = time.Second

type Subscriber struct {
	Channel chan []byte
}

type Broker interface {
	Subscribe(ctx context.Context, channels ...string) *Subscriber
	Unsubscribe(ctx context.Context, sub *Subscriber, channels ...string)
	Publish(ctx context.Context, topic string, message []byte) error
	Close()
}

// MemoryBroker is an in-process Broker. A subscriber that does not take a
// message within a second is dropped from the channel.
type MemoryBroker struct {
	subscribers map[string][]*Subscriber
	closed      map[*Subscriber]bool
	mutex       sync.Mutex
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subscribers: make(map[string][]*Subscriber),
		closed:      make(map[*Subscriber]bool),
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channels ...string) *Subscriber {
	sub := &Subscriber{Channel: make(chan []byte, 16)}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, t := range channels {
		b.subscribers[t] = append(b.subscribers[t], sub)
	}
	return sub
}

func (b *MemoryBroker) Unsubscribe(ctx context.Context, sub *Subscriber, channels ...string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.unsubscribe(sub, channels...)
}

func (b *MemoryBroker) unsubscribe(sub *Subscriber, channels ...string) {
	for _, t := range channels {
		subscribers := b.subscribers[t]
		kept := subscribers[:0]
		for _, s := range subscribers {
			if s != sub {
				kept = append(kept, s)
			}
		}
		b.subscribers[t] = kept
	}
	if !b.closed[sub] {
		b.closed[sub] = true
		close(sub.Channel)
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, channel string, msg []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	var slow []*Subscriber
	for _, sub := range b.subscribers[channel] {
		select {
		case sub.Channel <- msg:
		case <-time.After(slowSubscriberTimeout):
			log.Printf("subscriber slow, unsubscribing from channel: %s", channel)
			slow = append(slow, sub)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, sub := range slow {
		b.unsubscribe(sub, channel)
	}
	return nil
}

func (b *MemoryBroker) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, subscribers := range b.subscribers {
		for _, sub := range subscribers {
			if !b.closed[sub] {
				b.closed[sub] = true
				close(sub.Channel)
			}
		}
	}
	b.subscribers = make(map[string][]*Subscriber)
}
