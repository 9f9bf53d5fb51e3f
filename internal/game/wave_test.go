package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnQuota(t *testing.T) {
	cases := []struct {
		name                          string
		base, increase, wave, players int
		want                          int
	}{
		{"first wave solo", 8, 2, 1, 1, 8},
		{"no players halves the base", 8, 2, 1, 0, 4},
		{"third wave duo", 8, 2, 3, 2, 18},
		{"rounds up", 3, 0, 1, 0, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SpawnQuota(tc.base, tc.increase, tc.wave, tc.players))
		})
	}
}

func TestStartAndEndWave(t *testing.T) {
	h := newHarness(t, nil)
	ctx := h.arena("a")
	waves := h.m.Waves()

	waves.StartWave(ctx, 2)
	assert.Equal(t, 1, ctx.Wave)
	assert.True(t, ctx.Fighting)
	assert.Equal(t, 12, ctx.ToSpawn)
	assert.False(t, waves.IsWaveComplete(ctx))
	assert.False(t, waves.ShouldStartNextWave(ctx))

	ctx.ToSpawn = 0
	waves.EndWave(ctx)
	assert.False(t, ctx.Fighting)
	assert.Equal(t, 10, waves.SecondsUntilNextWave(ctx))
	assert.False(t, waves.ShouldStartNextWave(ctx))

	h.advance(10 * time.Second)
	assert.True(t, waves.ShouldStartNextWave(ctx))
	assert.Zero(t, waves.SecondsUntilNextWave(ctx))
}

func TestSpawnBatchSpendsQuotaAndTagsUnits(t *testing.T) {
	h := newHarness(t, nil)
	ctx := h.arena("a")
	waves := h.m.Waves()
	waves.StartWave(ctx, 1)

	spawned := waves.SpawnBatch(ctx)
	require.Len(t, spawned, 4)
	assert.Equal(t, 4, ctx.ToSpawn)
	assert.Equal(t, 4, ctx.SpawnedThisWave)
	for _, id := range spawned {
		assert.True(t, ctx.Tracks(id))
		assert.Equal(t, "a", h.world.TagValue(id, TagArena))
		assert.Equal(t, "1", h.world.TagValue(id, TagWave))
		assert.NotEmpty(t, h.world.TagValue(id, TagTarget))
		assert.Zero(t, h.world.EffectLevel(id, EffectSpeed))
	}

	waves.SpawnBatch(ctx)
	assert.Zero(t, ctx.ToSpawn)
	assert.Nil(t, waves.SpawnBatch(ctx))
	assert.False(t, waves.IsWaveComplete(ctx), "live units keep the wave open")
}

func TestSpawnBatchSkipsUnusableLanes(t *testing.T) {
	h := newHarness(t, nil)
	ctx := NewArenaContext("bare")
	ctx.ToSpawn = 5
	assert.Empty(t, h.m.Waves().SpawnBatch(ctx))
	assert.Equal(t, 5, ctx.ToSpawn)

	ctx = h.arena("elsewhere")
	for _, lane := range ctx.Lanes {
		lane.Spawn.World = "nether"
	}
	ctx.ToSpawn = 5
	assert.Empty(t, h.m.Waves().SpawnBatch(ctx))
	assert.Equal(t, 5, ctx.ToSpawn)
}

func TestSpawnBatchSpeedScalesWithWave(t *testing.T) {
	cases := map[int]int{9: 0, 10: 1, 19: 1, 20: 2, 29: 2}
	for wave, level := range cases {
		h := newHarness(t, nil)
		ctx := h.arena("a")
		ctx.Wave = wave
		ctx.Fighting = true
		ctx.ToSpawn = 1
		spawned := h.m.Waves().SpawnBatch(ctx)
		require.Len(t, spawned, 1)
		assert.Equal(t, level, h.world.EffectLevel(spawned[0], EffectSpeed), "wave %d", wave)
	}
}

func TestSpawnBatchUsesNavigatorWhenAvailable(t *testing.T) {
	h := newHarness(t, nil)
	h.world.EnableNavigation(true)
	ctx := h.arena("a")
	ctx.ToSpawn = 1
	spawned := h.m.Waves().SpawnBatch(ctx)
	require.Len(t, spawned, 1)

	_, linked := ctx.NavOf(spawned[0])
	assert.True(t, linked)
	target, ok := h.world.NavTarget(spawned[0])
	require.True(t, ok)
	pos, _ := h.world.Position(spawned[0])
	assert.InDelta(t, 256, pos.DistSq(target), 1e-9, "lane end sits 16 blocks from the spawn")
}

func TestSpawnBatchFallsBackWhenNavigatorRejects(t *testing.T) {
	h := newHarness(t, nil)
	h.world.EnableNavigation(true)
	calls := 0
	h.world.RejectSpawns(func(UnitKind, Location) error {
		calls++
		if calls%2 == 1 {
			return assert.AnError
		}
		return nil
	})
	ctx := h.arena("a")
	ctx.ToSpawn = 1
	spawned := h.m.Waves().SpawnBatch(ctx)
	require.Len(t, spawned, 1)
	_, linked := ctx.NavOf(spawned[0])
	assert.False(t, linked)
}

func TestAllWavesComplete(t *testing.T) {
	h := newHarness(t, nil)
	ctx := h.arena("a")
	waves := h.m.Waves()

	ctx.Wave = 29
	assert.False(t, waves.IsAllWavesComplete(ctx))
	ctx.Wave = 30
	assert.True(t, waves.IsAllWavesComplete(ctx))

	h.spawnAt(ctx, 10, 0)
	assert.False(t, waves.IsAllWavesComplete(ctx))
}
