package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraderHPIsClamped(t *testing.T) {
	ctx := NewArenaContext("a")
	ctx.TraderMaxHP = 100
	ctx.SetTraderHP(140)
	assert.Equal(t, 100, ctx.TraderHP())
	ctx.SetTraderHP(-5)
	assert.Equal(t, 0, ctx.TraderHP())
}

func TestCoinsNeverNegative(t *testing.T) {
	ctx := NewArenaContext("a")
	ctx.SetCoins("p", -3)
	assert.Equal(t, 0, ctx.Coins("p"))
	assert.Equal(t, 0, ctx.Coins("nobody"))
}

func TestCooldownsAreKeyedByPlayerAndItem(t *testing.T) {
	ctx := NewArenaContext("a")
	now := testEpoch
	ctx.SetCooldown("alice", "freeze_creepers", now.Add(30*time.Second))

	assert.Equal(t, 30*time.Second, ctx.CooldownRemaining("alice", "freeze_creepers", now))
	assert.Zero(t, ctx.CooldownRemaining("bob", "freeze_creepers", now))
	assert.Zero(t, ctx.CooldownRemaining("alice", "heal_trader", now))
	assert.Zero(t, ctx.CooldownRemaining("alice", "freeze_creepers", now.Add(30*time.Second)))
}

func TestAliveUnitsPrunesDeadUnitsAndCountdowns(t *testing.T) {
	h := newHarness(t, nil)
	ctx := h.arena("a")
	live := h.spawnAt(ctx, 10, 0)
	dead := h.spawnAt(ctx, 12, 0)
	ctx.SetCountdown(dead, testEpoch)
	ctx.SetCountdown(live, testEpoch)

	h.world.Remove(dead)
	alive := ctx.AliveUnits(h.world)

	assert.Equal(t, []UnitID{live}, alive)
	assert.False(t, ctx.Tracks(dead))
	_, primed := ctx.Countdown(dead)
	assert.False(t, primed)
	assert.Equal(t, []UnitID{live}, ctx.Countdowns())
}

func TestResetKeepsLanesAndRemovesUnits(t *testing.T) {
	h := newHarness(t, nil)
	ctx := h.arena("a")
	require.NoError(t, h.m.Trader().SpawnTrader(ctx))
	trader := ctx.TraderUnit
	unit := h.spawnAt(ctx, 10, 0)
	ctx.Wave = 4
	ctx.SetCoins("p", 50)

	ctx.Reset(h.world)

	assert.False(t, h.world.Alive(unit))
	assert.False(t, h.world.Alive(trader))
	assert.Empty(t, ctx.Units())
	assert.Zero(t, ctx.Wave)
	assert.Zero(t, ctx.Coins("p"))
	assert.Nil(t, ctx.TraderLocation)
	assert.Equal(t, "a", ctx.ArenaID)
	for i, lane := range ctx.Lanes {
		assert.Equal(t, i+1, lane.ID())
		assert.NotNil(t, lane.Spawn)
	}
}

func TestRemoveUnitReleasesNavigator(t *testing.T) {
	h := newHarness(t, nil)
	h.world.EnableNavigation(true)
	ctx := h.arena("a")
	id, nav, err := h.world.SpawnNavigable(UnitCreeper, Location{World: testWorld, Pos: Vec3{X: 5, Y: 64}})
	require.NoError(t, err)
	ctx.TrackUnit(id, nav)

	ctx.RemoveUnit(h.world, id)

	assert.False(t, h.world.Alive(id))
	assert.False(t, h.world.SetNavTarget(nav, Location{World: testWorld}))
	_, linked := ctx.NavOf(id)
	assert.False(t, linked)
	ctx.RemoveUnit(h.world, id)
}

func TestLaneValidity(t *testing.T) {
	h := newHarness(t, nil)
	lane := NewLane(2)
	assert.False(t, lane.Valid(h.world))

	points, err := h.cfg.Lanes.Lane(2)
	require.NoError(t, err)
	lane.SetPoints(*points)
	assert.True(t, lane.Valid(h.world))

	lane.Spawn.World = "nether"
	assert.False(t, lane.Valid(h.world))
}
