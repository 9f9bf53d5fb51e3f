package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"CreeperAttack/internal/ui"
)

type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeLose    Outcome = "lose"
	OutcomeStopped Outcome = "stopped"
)

// Reloader re-reads configuration from its backing store.
type Reloader interface {
	Reload() error
}

type ManagerOptions struct {
	Config    ConfigSource
	Reloader  Reloader
	World     WorldProvider
	Scheduler *Scheduler
	Hub       *Hub
	Presenter Presenter
	Logger    Logger
	Rand      *rand.Rand
}

// ArenaManager runs every arena: lifecycle, master loop, the shared
// proximity, knockback and movement loops, and event routing. All methods
// must run on the scheduler.
type ArenaManager struct {
	cfg      ConfigSource
	reloader Reloader
	world    WorldProvider
	sched    *Scheduler
	hub      *Hub
	log      Logger

	ui        *UiController
	trader    *TraderController
	waves     *WaveController
	proximity *ProximityController
	knockback *KnockbackTracker
	movement  *MovementController
	economy   *EconomyService
	effects   *EffectRegistry
	shop      *ShopController

	contexts  map[string]*ArenaContext
	warned    map[string]map[int]bool
	unitArena map[UnitID]string
	outcomes  map[string]Outcome
	loops     []TaskHandle
}

func NewArenaManager(opts ManagerOptions) *ArenaManager {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	hub := opts.Hub
	if hub == nil {
		hub = NewHub()
	}
	sched := opts.Scheduler
	clock := sched.Now
	window := time.Duration(opts.Config.Current().Timing.KnockbackWindowMillis) * time.Millisecond

	m := &ArenaManager{
		cfg:       opts.Config,
		reloader:  opts.Reloader,
		world:     opts.World,
		sched:     sched,
		hub:       hub,
		log:       logger,
		contexts:  map[string]*ArenaContext{},
		warned:    map[string]map[int]bool{},
		unitArena: map[UnitID]string{},
		outcomes:  map[string]Outcome{},
	}
	m.ui = NewUiController(opts.Config, opts.Presenter, clock)
	m.trader = NewTraderController(opts.Config, opts.World, logger)
	m.waves = NewWaveController(opts.Config, opts.World, opts.Rand, clock, logger)
	m.proximity = NewProximityController(opts.Config, opts.World, m.ui, clock)
	m.knockback = NewKnockbackTracker(opts.World, clock, window)
	m.movement = NewMovementController(opts.Config, opts.World)
	m.economy = NewEconomyService(opts.Config)
	m.effects = NewEffectRegistry()
	m.effects.Register(NewGiveItemEffect(logger))
	m.effects.Register(NewHealTraderEffect(m.trader, m.ui))
	m.effects.Register(NewFreezeCreepersEffect(opts.Config, opts.World, sched, m.ui))
	m.shop = NewShopController(opts.Config, m.economy, m.effects, m.ui, clock)
	return m
}

func (m *ArenaManager) Hub() *Hub                    { return m.hub }
func (m *ArenaManager) Scheduler() *Scheduler        { return m.sched }
func (m *ArenaManager) Effects() *EffectRegistry     { return m.effects }
func (m *ArenaManager) Economy() *EconomyService     { return m.economy }
func (m *ArenaManager) Trader() *TraderController    { return m.trader }
func (m *ArenaManager) Waves() *WaveController       { return m.waves }
func (m *ArenaManager) UI() *UiController            { return m.ui }
func (m *ArenaManager) Knockback() *KnockbackTracker { return m.knockback }

// Start registers the loops shared by all arenas. Calling it twice is a no-op.
func (m *ArenaManager) Start() {
	if len(m.loops) > 0 {
		return
	}
	timing := m.cfg.Current().Timing
	m.loops = append(m.loops,
		m.sched.Every(timing.ProximityPeriodTicks, m.proximityTick),
		m.sched.Every(timing.KnockbackPeriodTicks, m.knockbackTick),
		m.sched.Every(timing.MovementPeriodTicks, m.movementTick),
	)
}

// Stop cancels the shared loops.
func (m *ArenaManager) Stop() {
	for _, h := range m.loops {
		m.sched.Cancel(h)
	}
	m.loops = nil
}

func (m *ArenaManager) GetOrCreateContext(arenaID string) *ArenaContext {
	ctx, ok := m.contexts[arenaID]
	if !ok {
		ctx = NewArenaContext(arenaID)
		m.contexts[arenaID] = ctx
	}
	return ctx
}

func (m *ArenaManager) Context(arenaID string) (*ArenaContext, bool) {
	ctx, ok := m.contexts[arenaID]
	return ctx, ok
}

func (m *ArenaManager) arenaIDs() []string {
	ids := make([]string, 0, len(m.contexts))
	for id := range m.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// activeArenas yields in-game arenas. A context removed during the walk is skipped.
func (m *ArenaManager) activeArenas(fn func(s *Session, ctx *ArenaContext)) {
	for _, id := range m.arenaIDs() {
		ctx, ok := m.contexts[id]
		if !ok {
			continue
		}
		s, ok := m.hub.Session(id)
		if !ok || !s.InGame() {
			continue
		}
		fn(s, ctx)
	}
}

// Join adds a player to an arena's roster.
func (m *ArenaManager) Join(arenaID, name string) *Player {
	s := m.hub.GetSession(arenaID)
	p := s.Join(name)
	if ctx, ok := m.contexts[arenaID]; ok && s.InGame() {
		m.economy.InitPlayer(ctx, p.ID)
	}
	return p
}

func (m *ArenaManager) Leave(arenaID string, id PlayerID) error {
	s, ok := m.hub.Session(arenaID)
	if !ok {
		return ErrUnknownArena
	}
	if !s.Leave(id) {
		return ErrUnknownPlayer
	}
	if ctx, ok := m.contexts[arenaID]; ok {
		m.economy.ClearPlayer(ctx, id)
	}
	m.ui.ClearPlayer(arenaID, id)
	return nil
}

// StartGame validates the configuration, spawns the trader and starts the
// arena's master and scoreboard loops.
func (m *ArenaManager) StartGame(arenaID string) error {
	s := m.hub.GetSession(arenaID)
	if s.InGame() {
		return ErrAlreadyInGame
	}
	cfg := m.cfg.Current()
	if missing := cfg.Validate(); len(missing) > 0 {
		m.ui.BroadcastAlways(s, "config_missing", map[string]string{"missing": joinMissing(missing)})
		return &ConfigIncompleteError{Missing: missing}
	}

	ctx := m.GetOrCreateContext(arenaID)
	ctx.Reset(m.world)
	for i, lane := range ctx.Lanes {
		points, err := cfg.Lanes.Lane(i + 1)
		if err != nil {
			return err
		}
		lane.SetPoints(*points)
	}
	ctx.WaveMax = cfg.Waves.MaxWaves

	if err := m.trader.SpawnTrader(ctx); err != nil {
		for _, p := range s.Players() {
			m.ui.TellText(arenaID, p.ID, ui.Colorize("&c[CreeperAttack] Unable to spawn the trader!"))
		}
		m.log.Printf("arena %s: start aborted: %v", arenaID, err)
		return fmt.Errorf("start arena %s: %w", arenaID, err)
	}

	for _, p := range s.Players() {
		m.economy.InitPlayer(ctx, p.ID)
	}
	m.warned[arenaID] = map[int]bool{}
	delete(m.outcomes, arenaID)
	s.Phase = PhaseInGame

	ctx.MainLoop = m.sched.Every(cfg.Waves.BatchSpawn.PeriodTicks, func() { m.gameLoopTick(arenaID) })
	refresh := int(m.sched.TicksFor(time.Duration(cfg.UI.Scoreboard.RefreshSeconds) * time.Second))
	ctx.ScoreboardLoop = m.sched.Every(refresh, func() { m.scoreboardTick(arenaID) })

	m.ui.BroadcastAlways(s, "forcestart_success", nil)
	ctx.NextWaveAt = m.sched.Now().Add(time.Duration(cfg.Waves.InitialDelaySeconds) * time.Second)
	m.log.Printf("arena %s: game started with %d players", arenaID, s.PlayerCount())
	return nil
}

func (m *ArenaManager) scoreboardTick(arenaID string) {
	ctx, ok := m.contexts[arenaID]
	if !ok {
		return
	}
	if s, ok := m.hub.Session(arenaID); ok {
		m.ui.UpdateScoreboards(s, ctx, m.world)
	}
}

func (m *ArenaManager) gameLoopTick(arenaID string) {
	ctx, ok := m.contexts[arenaID]
	if !ok {
		return
	}
	s, ok := m.hub.Session(arenaID)
	if !ok || !s.InGame() {
		return
	}

	m.forgetPruned(ctx)
	if !m.trader.IsTraderAlive(ctx) {
		m.finish(s, ctx, OutcomeLose)
		return
	}
	if m.waves.IsAllWavesComplete(ctx) {
		m.finish(s, ctx, OutcomeWin)
		return
	}

	if ctx.Fighting {
		if ctx.ToSpawn > 0 {
			for _, id := range m.waves.SpawnBatch(ctx) {
				m.unitArena[id] = arenaID
			}
		}
		if m.waves.IsWaveComplete(ctx) {
			seconds := m.cfg.Current().Waves.IntervalSeconds
			m.waves.EndWave(ctx)
			m.ui.SendWaveEndTitle(s, ctx, seconds)
			m.ui.Broadcast(s, "wave_end", map[string]string{"wave": itoa(ctx.Wave), "seconds": itoa(seconds)})
		}
	} else if m.waves.ShouldStartNextWave(ctx) {
		m.waves.StartWave(ctx, s.PlayerCount())
		m.ui.SendWaveStartTitle(s, ctx)
		m.ui.Broadcast(s, "wave_start", map[string]string{"wave": itoa(ctx.Wave)})
	}

	m.checkTraderHPWarnings(s, ctx)
}

// checkTraderHPWarnings fires the first unwarned threshold the trader is at or below.
func (m *ArenaManager) checkTraderHPWarnings(s *Session, ctx *ArenaContext) {
	if ctx.TraderMaxHP <= 0 {
		return
	}
	pct := ui.HPPercent(ctx.TraderHP(), ctx.TraderMaxHP)
	warned, ok := m.warned[ctx.ArenaID]
	if !ok {
		warned = map[int]bool{}
		m.warned[ctx.ArenaID] = warned
	}
	for _, threshold := range m.cfg.Current().UI.TraderLowHPThresholds {
		if pct <= threshold && !warned[threshold] {
			warned[threshold] = true
			m.ui.SendTraderLowHPWarning(s, ctx)
			break
		}
	}
}

func (m *ArenaManager) finish(s *Session, ctx *ArenaContext, outcome Outcome) {
	switch outcome {
	case OutcomeWin:
		m.ui.SendWinTitle(s)
		m.ui.Broadcast(s, "game_win", nil)
	case OutcomeLose:
		m.ui.SendLoseTitle(s)
		m.ui.Broadcast(s, "game_lose", nil)
	}
	m.StopGame(ctx.ArenaID, outcome)
}

// StopGame cancels the arena's loops, removes every unit and the trader and
// returns the session to waiting. Stopping an idle arena is harmless.
func (m *ArenaManager) StopGame(arenaID string, outcome Outcome) {
	ctx, ok := m.contexts[arenaID]
	if !ok {
		return
	}
	m.sched.Cancel(ctx.MainLoop)
	m.sched.Cancel(ctx.ScoreboardLoop)
	m.effects.stopArena(arenaID)

	for id, arena := range m.unitArena {
		if arena == arenaID {
			m.knockback.Forget(id)
			delete(m.unitArena, id)
		}
	}
	for _, id := range ctx.Units() {
		m.knockback.Forget(id)
	}

	s, hasSession := m.hub.Session(arenaID)
	wasInGame := hasSession && s.InGame()
	if hasSession {
		m.ui.ResetScoreboards(s)
	}
	ctx.Reset(m.world)
	delete(m.warned, arenaID)
	if wasInGame {
		m.outcomes[arenaID] = outcome
		m.log.Printf("arena %s: game stopped (%s)", arenaID, outcome)
	}
	if hasSession {
		s.Phase = PhaseWaiting
	}
}

// ForceStop ends a running game on request and confirms it to the arena.
func (m *ArenaManager) ForceStop(arenaID string) error {
	s, ok := m.hub.Session(arenaID)
	if !ok {
		return ErrUnknownArena
	}
	if _, ok := m.contexts[arenaID]; ok {
		m.StopGame(arenaID, OutcomeStopped)
	}
	m.ui.BroadcastAlways(s, "forcestop_success", nil)
	return nil
}

func (m *ArenaManager) proximityTick() {
	m.activeArenas(func(s *Session, ctx *ArenaContext) {
		if !ctx.Fighting {
			return
		}
		m.proximity.CheckProximity(ctx)
		m.proximity.ProcessCountdowns(s, ctx, func(id UnitID) { m.explode(ctx, id) })
	})
}

func (m *ArenaManager) knockbackTick() {
	m.activeArenas(func(_ *Session, ctx *ArenaContext) {
		m.knockback.Compensate(ctx)
	})
}

func (m *ArenaManager) movementTick() {
	m.activeArenas(func(_ *Session, ctx *ArenaContext) {
		if !ctx.Fighting {
			return
		}
		m.movement.Step(ctx)
	})
}

// HandleUnitExplosion detonates a primed unit against the trader.
func (m *ArenaManager) HandleUnitExplosion(arenaID string, id UnitID) error {
	ctx, ok := m.contexts[arenaID]
	if !ok {
		return ErrUnknownArena
	}
	if !ctx.Tracks(id) {
		return ErrUnknownUnit
	}
	m.explode(ctx, id)
	return nil
}

func (m *ArenaManager) explode(ctx *ArenaContext, id UnitID) {
	m.trader.ApplyExplosionDamage(ctx)
	if pos, ok := m.world.Position(id); ok {
		m.world.Explode(pos, 0)
		m.ui.Explosion(ctx.ArenaID, pos)
	}
	m.forgetUnit(ctx, id)
}

// forgetPruned drops routing and knockback state for units the arena no
// longer tracks, such as ones removed from the world by outside means.
func (m *ArenaManager) forgetPruned(ctx *ArenaContext) {
	tracked := map[UnitID]bool{}
	for _, id := range ctx.AliveUnits(m.world) {
		tracked[id] = true
	}
	for id, arena := range m.unitArena {
		if arena == ctx.ArenaID && !tracked[id] {
			m.knockback.Forget(id)
			delete(m.unitArena, id)
		}
	}
}

func (m *ArenaManager) forgetUnit(ctx *ArenaContext, id UnitID) {
	ctx.RemoveUnit(m.world, id)
	m.knockback.Forget(id)
	delete(m.unitArena, id)
}

// HandleUnitDeath credits the killer, if any, and drops the unit.
func (m *ArenaManager) HandleUnitDeath(id UnitID, killer PlayerID) {
	arenaID, ok := m.unitArena[id]
	if !ok {
		return
	}
	ctx, ok := m.contexts[arenaID]
	if !ok {
		delete(m.unitArena, id)
		return
	}
	s, ok := m.hub.Session(arenaID)
	if !ok || !s.InGame() {
		return
	}
	if p, ok := s.Player(killer); ok {
		reward := m.economy.AwardKillReward(ctx, p.ID)
		m.ui.SendKillReward(arenaID, p.ID, reward)
		m.ui.IncrementKills(arenaID, p.ID)
	}
	m.forgetUnit(ctx, id)
}

// HandleUnitDamaged blocks damage to traders and records hits for knockback
// compensation. It reports whether the damage may proceed.
func (m *ArenaManager) HandleUnitDamaged(id UnitID) bool {
	for _, ctx := range m.contexts {
		if m.trader.IsTrader(ctx, id) {
			return false
		}
	}
	if _, ok := m.unitArena[id]; ok {
		m.knockback.OnDamage(id)
	}
	return true
}

// UnitDamaged implements WorldListener.
func (m *ArenaManager) UnitDamaged(id UnitID, _ string) bool { return m.HandleUnitDamaged(id) }

// UnitDied implements WorldListener.
func (m *ArenaManager) UnitDied(id UnitID, killer string) { m.HandleUnitDeath(id, PlayerID(killer)) }

// HandlePlayerDeath applies the death penalty and returns the coins taken.
func (m *ArenaManager) HandlePlayerDeath(arenaID string, id PlayerID) (int, error) {
	s, ctx, p, err := m.lookup(arenaID, id)
	if err != nil {
		return 0, err
	}
	if !s.InGame() {
		return 0, ErrNotInGame
	}
	penalty := m.economy.ApplyDeathPenalty(ctx, p.ID)
	cfg := m.cfg.Current()
	if cfg.UI.Chat.Enabled && penalty > 0 {
		m.ui.Tell(arenaID, p.ID, "death_penalty", map[string]string{"percent": itoa(cfg.Economy.DeathPenaltyPercent)})
	}
	return penalty, nil
}

func (m *ArenaManager) lookup(arenaID string, id PlayerID) (*Session, *ArenaContext, *Player, error) {
	s, ok := m.hub.Session(arenaID)
	if !ok {
		return nil, nil, nil, ErrUnknownArena
	}
	p, ok := s.Player(id)
	if !ok {
		return nil, nil, nil, ErrUnknownPlayer
	}
	return s, m.GetOrCreateContext(arenaID), p, nil
}

func (m *ArenaManager) OpenShop(arenaID string, id PlayerID) ([]ShopEntry, ShopStatus, error) {
	s, ctx, p, err := m.lookup(arenaID, id)
	if err != nil {
		return nil, "", err
	}
	entries, status := m.shop.Open(p, s, ctx)
	return entries, status, nil
}

func (m *ArenaManager) Purchase(arenaID string, id PlayerID, itemID string) (PurchaseResult, error) {
	s, ctx, p, err := m.lookup(arenaID, id)
	if err != nil {
		return PurchaseResult{}, err
	}
	return m.shop.Purchase(p, s, ctx, itemID), nil
}

// Reload re-reads configuration. Running games keep their loop periods.
func (m *ArenaManager) Reload() error {
	if m.reloader == nil {
		return nil
	}
	if err := m.reloader.Reload(); err != nil {
		m.log.Printf("config reload failed: %v", err)
		return err
	}
	m.knockback.SetWindow(time.Duration(m.cfg.Current().Timing.KnockbackWindowMillis) * time.Millisecond)
	return nil
}

// RemoveArena stops the arena's game and forgets it entirely.
func (m *ArenaManager) RemoveArena(arenaID string) {
	m.StopGame(arenaID, OutcomeStopped)
	delete(m.contexts, arenaID)
	delete(m.outcomes, arenaID)
	m.hub.Remove(arenaID)
}

// ShutdownAll stops every game and drops every context.
func (m *ArenaManager) ShutdownAll() {
	for _, id := range m.arenaIDs() {
		m.StopGame(id, OutcomeStopped)
	}
	m.contexts = map[string]*ArenaContext{}
	m.Stop()
}
