package server

import (
	"sync"

	"CreeperAttack/internal/game"
)

const subscriberBuffer = 64

type subscriber struct {
	ch      chan game.Notice
	dropped int
}

// Broadcaster fans presenter notices out to the stream subscribers of each
// arena. Present never blocks the scheduler: a full subscriber drops the
// notice.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
	log  game.Logger
}

func NewBroadcaster(logger game.Logger) *Broadcaster {
	if logger == nil {
		logger = game.StdLogger()
	}
	return &Broadcaster{subs: map[string]map[*subscriber]struct{}{}, log: logger}
}

// Subscribe returns the notice channel for arena and a func that closes it.
func (b *Broadcaster) Subscribe(arena string) (<-chan game.Notice, func()) {
	sub := &subscriber{ch: make(chan game.Notice, subscriberBuffer)}
	b.mu.Lock()
	set := b.subs[arena]
	if set == nil {
		set = map[*subscriber]struct{}{}
		b.subs[arena] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[arena], sub)
			if len(b.subs[arena]) == 0 {
				delete(b.subs, arena)
			}
			if sub.dropped > 0 {
				b.log.Printf("stream %s: dropped %d notices for a slow subscriber", arena, sub.dropped)
			}
			close(sub.ch)
		})
	}
}

func (b *Broadcaster) Present(n game.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[n.Arena] {
		select {
		case sub.ch <- n:
		default:
			sub.dropped++
		}
	}
}

// Subscribers reports how many streams are attached to arena.
func (b *Broadcaster) Subscribers(arena string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[arena])
}
