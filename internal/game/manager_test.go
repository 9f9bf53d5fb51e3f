package game

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CreeperAttack/internal/config"
	"CreeperAttack/internal/ui"
)

// startArena joins alice to arena "a", starts the game and the shared loops.
func startArena(t *testing.T, h *harness) (*ArenaContext, *Player) {
	t.Helper()
	p := h.m.Join("a", "alice")
	require.NoError(t, h.m.StartGame("a"))
	h.m.Start()
	ctx, ok := h.m.Context("a")
	require.True(t, ok)
	return ctx, p
}

// untilWave ticks until the arena reaches wave n.
func untilWave(t *testing.T, h *harness, ctx *ArenaContext, n int) {
	t.Helper()
	for i := 0; i < 10000 && ctx.Wave < n; i++ {
		h.tick(1)
	}
	require.Equal(t, n, ctx.Wave)
}

func killAll(h *harness, ctx *ArenaContext, killer PlayerID) {
	for _, id := range ctx.Units() {
		h.world.Damage(id, 1000, string(killer))
	}
}

func stripped(texts []string) []string {
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = ui.Strip(s)
	}
	return out
}

func TestStartGameRequiresLocations(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Trader.Location = config.Point{}
		c.Lanes.Lane3.End = config.Point{}
	})
	h.m.Join("a", "alice")

	err := h.m.StartGame("a")
	var incomplete *ConfigIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"trader.location", "lanes.lane3.end"}, incomplete.Missing)
	assert.Equal(t, []string{"[CreeperAttack] Missing config: trader.location, lanes.lane3.end"}, stripped(h.rec.texts(NoticeChat)))

	s, _ := h.m.Hub().Session("a")
	assert.False(t, s.InGame())
}

func TestStartGameAbortsWhenTraderCannotSpawn(t *testing.T) {
	h := newHarness(t, nil)
	h.world.RejectSpawns(func(UnitKind, Location) error { return errors.New("occupied") })
	h.m.Join("a", "alice")

	err := h.m.StartGame("a")
	assert.ErrorIs(t, err, ErrTraderPlacement)
	assert.Equal(t, []string{"[CreeperAttack] Unable to spawn the trader!"}, stripped(h.rec.texts(NoticeChat)))
	s, _ := h.m.Hub().Session("a")
	assert.False(t, s.InGame())
}

func TestStartGameTwiceFails(t *testing.T) {
	h := newHarness(t, nil)
	startArena(t, h)
	assert.ErrorIs(t, h.m.StartGame("a"), ErrAlreadyInGame)
}

func TestFullWaveCycle(t *testing.T) {
	h := newHarness(t, nil)
	ctx, p := startArena(t, h)
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Game started.")
	assert.Equal(t, 100, ctx.TraderHP())
	assert.Zero(t, ctx.Wave)

	h.advance(5 * time.Second)
	assert.Zero(t, ctx.Wave, "initial delay has not elapsed at the last loop run")
	untilWave(t, h, ctx, 1)
	assert.True(t, ctx.Fighting)
	assert.Equal(t, 8, ctx.ToSpawn)
	titles := h.rec.of(NoticeTitle)
	require.NotEmpty(t, titles)
	assert.Equal(t, "Wave 1", ui.Strip(titles[len(titles)-1].Title))

	h.advance(2 * time.Second)
	assert.Zero(t, ctx.ToSpawn)
	require.Len(t, ctx.Units(), 8)
	for _, id := range ctx.Units() {
		assert.Equal(t, "a", h.world.TagValue(id, TagArena))
	}

	killAll(h, ctx, p.ID)
	assert.Equal(t, 80, ctx.Coins(p.ID))
	assert.Equal(t, 8, h.m.UI().Kills("a", p.ID))
	bars := stripped(h.rec.texts(NoticeActionBar))
	assert.Contains(t, bars, "+10 coins")

	h.advance(time.Second)
	assert.False(t, ctx.Fighting)
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Wave 1 cleared! Next wave in 10 seconds")

	st, err := h.m.Status("a")
	require.NoError(t, err)
	assert.Equal(t, PhaseInGame, st.Phase)
	assert.Equal(t, 1, st.Wave)
	assert.InDelta(t, 9, st.NextWaveIn, 1)
	require.Len(t, st.Players, 1)
	assert.Equal(t, 80, st.Players[0].Coins)
	assert.Equal(t, 8, st.Players[0].Kills)

	untilWave(t, h, ctx, 2)
	assert.Equal(t, 10, ctx.ToSpawn)
}

func TestScoreboardRefreshes(t *testing.T) {
	h := newHarness(t, nil)
	_, p := startArena(t, h)
	h.tick(1)

	boards := h.rec.of(NoticeScoreboard)
	require.NotEmpty(t, boards)
	board := boards[len(boards)-1]
	assert.Equal(t, []PlayerID{p.ID}, board.Players)
	assert.Equal(t, "CreeperAttack", ui.Strip(board.Title))
	lines := strings.Join(stripped(board.Lines), "\n")
	assert.Contains(t, lines, "Wave: 0/30")
	assert.Contains(t, lines, "Coins: 0")
	assert.Contains(t, lines, "100/100")
}

func TestKillsByOutsidersEarnNothing(t *testing.T) {
	h := newHarness(t, nil)
	ctx, p := startArena(t, h)
	untilWave(t, h, ctx, 1)
	h.tick(20)
	require.NotEmpty(t, ctx.Units())

	killAll(h, ctx, "stranger")
	assert.Zero(t, ctx.Coins(p.ID))
	assert.Empty(t, h.rec.of(NoticeActionBar))
}

func TestTraderDamageIsAlwaysBlocked(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Trader.Invulnerable = false })
	ctx, _ := startArena(t, h)

	assert.False(t, h.world.Damage(ctx.TraderUnit, 1000, "alice"))
	assert.True(t, h.world.Alive(ctx.TraderUnit))
}

func TestExplosionDamagesTrader(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	untilWave(t, h, ctx, 1)
	id := h.spawnAt(ctx, 1, 0)

	h.advance(4 * time.Second)
	assert.False(t, h.world.Alive(id))
	assert.False(t, ctx.Tracks(id))
	assert.Equal(t, 90, ctx.TraderHP())
	require.Len(t, h.world.Explosions(), 1)
	assert.Zero(t, h.world.Explosions()[0].Power)
	require.Len(t, h.rec.of(NoticeExplosion), 1)
}

func TestHandleUnitExplosion(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	id := h.spawnAt(ctx, 15, 0)

	require.NoError(t, h.m.HandleUnitExplosion("a", id))
	assert.Equal(t, 90, ctx.TraderHP())
	assert.ErrorIs(t, h.m.HandleUnitExplosion("a", id), ErrUnknownUnit)
	assert.ErrorIs(t, h.m.HandleUnitExplosion("nowhere", id), ErrUnknownArena)
}

func TestTraderDeathLosesTheGame(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	trader := ctx.TraderUnit
	ctx.SetTraderHP(0)

	h.tick(20)
	s, _ := h.m.Hub().Session("a")
	assert.False(t, s.InGame())
	assert.False(t, h.world.Alive(trader))
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Defeat! Trader died!")
	titles := h.rec.of(NoticeTitle)
	require.NotEmpty(t, titles)
	assert.Equal(t, "Defeat!", ui.Strip(titles[len(titles)-1].Title))
	assert.False(t, h.sched.Active(ctx.MainLoop))

	st, err := h.m.Status("a")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLose, st.LastOutcome)
	assert.Equal(t, PhaseWaiting, st.Phase)
}

func TestRemovedTraderUnitLosesTheGame(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	h.world.Remove(ctx.TraderUnit)
	require.Equal(t, 100, ctx.TraderHP())

	h.tick(20)
	st, err := h.m.Status("a")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLose, st.LastOutcome)
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Defeat! Trader died!")
}

func TestClearingLastWaveWins(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Waves.MaxWaves = 2 })
	ctx, p := startArena(t, h)

	untilWave(t, h, ctx, 1)
	h.advance(2 * time.Second)
	killAll(h, ctx, p.ID)
	h.advance(time.Second)
	s, _ := h.m.Hub().Session("a")
	require.True(t, s.InGame(), "wave 1 of 2 is not a win")

	untilWave(t, h, ctx, 2)
	h.advance(3 * time.Second)
	require.Zero(t, ctx.ToSpawn)
	killAll(h, ctx, p.ID)
	h.advance(time.Second)

	assert.False(t, s.InGame())
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Victory! You survived all waves!")
	st, _ := h.m.Status("a")
	assert.Equal(t, OutcomeWin, st.LastOutcome)
}

func TestLowHPWarningsFireOncePerThreshold(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	warnings := func() int {
		n := 0
		for _, text := range stripped(h.rec.texts(NoticeChat)) {
			if strings.Contains(text, "Trader low HP") {
				n++
			}
		}
		return n
	}

	ctx.SetTraderHP(20)
	h.tick(20)
	assert.Equal(t, 1, warnings())
	h.tick(40)
	assert.Equal(t, 1, warnings())

	ctx.SetTraderHP(5)
	h.tick(20)
	assert.Equal(t, 2, warnings())
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Warning! Trader low HP (5/100)")
}

func TestPlayerDeathPenalty(t *testing.T) {
	h := newHarness(t, nil)
	p := h.m.Join("a", "alice")
	_, err := h.m.HandlePlayerDeath("a", p.ID)
	assert.ErrorIs(t, err, ErrNotInGame)

	require.NoError(t, h.m.StartGame("a"))
	ctx, _ := h.m.Context("a")
	ctx.SetCoins(p.ID, 100)

	taken, err := h.m.HandlePlayerDeath("a", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, taken)
	assert.Equal(t, 67, ctx.Coins(p.ID))
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Death! Lost 33% coins")

	_, err = h.m.HandlePlayerDeath("a", "ghost")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = h.m.HandlePlayerDeath("nowhere", p.ID)
	assert.ErrorIs(t, err, ErrUnknownArena)
}

func TestStopGameIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	untilWave(t, h, ctx, 1)
	h.tick(20)
	units := ctx.Units()
	require.NotEmpty(t, units)

	require.NoError(t, h.m.ForceStop("a"))
	assert.Contains(t, stripped(h.rec.texts(NoticeChat)), "[CreeperAttack] Game stopped.")
	for _, id := range units {
		assert.False(t, h.world.Alive(id))
	}
	assert.Empty(t, h.world.Units())
	assert.NotEmpty(t, h.rec.of(NoticeScoreboardReset))

	h.m.StopGame("a", OutcomeStopped)
	h.m.StopGame("never-started", OutcomeStopped)
	st, _ := h.m.Status("a")
	assert.Equal(t, OutcomeStopped, st.LastOutcome)
	assert.Zero(t, h.m.Knockback().Tracked())

	assert.ErrorIs(t, h.m.ForceStop("nowhere"), ErrUnknownArena)
	require.NoError(t, h.m.StartGame("a"), "a stopped arena can start again")
}

func TestJoinAndLeaveDuringGame(t *testing.T) {
	h := newHarness(t, nil)
	ctx, alice := startArena(t, h)
	bob := h.m.Join("a", "bob")
	_, known := ctx.coins[bob.ID]
	assert.True(t, known)

	ctx.SetCoins(alice.ID, 40)
	require.NoError(t, h.m.Leave("a", alice.ID))
	assert.Zero(t, ctx.Coins(alice.ID))
	assert.ErrorIs(t, h.m.Leave("a", alice.ID), ErrUnknownPlayer)
	assert.ErrorIs(t, h.m.Leave("nowhere", alice.ID), ErrUnknownArena)
}

type reloadStub struct{ calls int }

func (r *reloadStub) Reload() error {
	r.calls++
	return nil
}

func TestReloadAndShutdown(t *testing.T) {
	h := newHarness(t, nil)
	assert.NoError(t, h.m.Reload())
	stub := &reloadStub{}
	h.m.reloader = stub
	require.NoError(t, h.m.Reload())
	assert.Equal(t, 1, stub.calls)

	ctx, _ := startArena(t, h)
	main := ctx.MainLoop
	h.m.ShutdownAll()
	assert.False(t, h.sched.Active(main))
	_, ok := h.m.Context("a")
	assert.False(t, ok)
	assert.Empty(t, h.m.loops)

	h.m.Join("b", "carol")
	h.m.RemoveArena("b")
	_, ok = h.m.Hub().Session("b")
	assert.False(t, ok)
}

func TestKilledUnitNeverExplodes(t *testing.T) {
	h := newHarness(t, nil)
	ctx, p := startArena(t, h)
	untilWave(t, h, ctx, 1)
	id := h.spawnAt(ctx, 1, 0)

	h.advance(500 * time.Millisecond)
	_, primed := ctx.Countdown(id)
	require.True(t, primed)

	require.True(t, h.world.Damage(id, 1000, string(p.ID)))
	_, primed = ctx.Countdown(id)
	assert.False(t, primed)
	assert.False(t, ctx.Tracks(id))
	assert.Equal(t, 10, ctx.Coins(p.ID))

	h.advance(4 * time.Second)
	assert.Equal(t, 100, ctx.TraderHP())
	assert.Empty(t, h.world.Explosions())
	assert.Empty(t, h.rec.of(NoticeExplosion))
}

func TestMasterTickForgetsUnitsRemovedOutside(t *testing.T) {
	h := newHarness(t, nil)
	ctx, _ := startArena(t, h)
	untilWave(t, h, ctx, 1)
	hit := h.spawnAt(ctx, 10, 0)
	gone := h.spawnAt(ctx, -10, 0)
	h.world.Damage(hit, 1, "")
	require.Contains(t, h.m.knockback.units, hit)

	h.world.Remove(hit)
	h.world.Remove(gone)
	h.tick(20)

	for _, id := range []UnitID{hit, gone} {
		assert.NotContains(t, h.m.unitArena, id)
		assert.NotContains(t, h.m.knockback.units, id)
		assert.False(t, ctx.Tracks(id))
	}
}
