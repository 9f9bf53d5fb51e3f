package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CreeperAttack/internal/game"
)

func quiet() game.Logger { return game.LoggerFunc(func(string, ...any) {}) }

func TestBroadcasterRoutesByArena(t *testing.T) {
	b := NewBroadcaster(quiet())
	a, stopA := b.Subscribe("a")
	other, stopOther := b.Subscribe("b")
	defer stopA()
	defer stopOther()

	b.Present(game.Notice{Kind: game.NoticeChat, Arena: "a", Text: "hello"})

	require.Len(t, a, 1)
	assert.Equal(t, "hello", (<-a).Text)
	assert.Empty(t, other)
}

func TestBroadcasterDropsForSlowSubscribers(t *testing.T) {
	var logged []string
	b := NewBroadcaster(game.LoggerFunc(func(format string, _ ...any) { logged = append(logged, format) }))
	ch, stop := b.Subscribe("a")

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Present(game.Notice{Kind: game.NoticeChat, Arena: "a"})
	}
	assert.Len(t, ch, subscriberBuffer)

	stop()
	assert.Len(t, logged, 1)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster(quiet())
	ch, stop := b.Subscribe("a")
	assert.Equal(t, 1, b.Subscribers("a"))

	stop()
	stop()
	assert.Zero(t, b.Subscribers("a"))
	_, open := <-ch
	assert.False(t, open)

	b.Present(game.Notice{Kind: game.NoticeChat, Arena: "a"})
}
