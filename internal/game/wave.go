package game

import (
	"math"
	"math/rand"
	"time"
)

const (
	TagArena  = "arena"
	TagWave   = "wave"
	TagTarget = "target"
)

// SpawnQuota is the number of units a wave spawns. Zero players still yield
// half the base count.
func SpawnQuota(base, increase, wave, players int) int {
	total := float64(base + (wave-1)*increase)
	quota := int(math.Ceil(total * (0.5 + 0.5*float64(players))))
	return max(quota, 0)
}

// WaveController moves an arena through Idle and Fighting and spawns units.
type WaveController struct {
	cfg   ConfigSource
	world WorldProvider
	rng   *rand.Rand
	clock func() time.Time
	log   Logger
}

func NewWaveController(cfg ConfigSource, world WorldProvider, rng *rand.Rand, clock func() time.Time, logger Logger) *WaveController {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &WaveController{cfg: cfg, world: world, rng: rng, clock: clock, log: logger}
}

// StartWave advances the wave index and sets the spawn quota.
func (w *WaveController) StartWave(ctx *ArenaContext, players int) {
	ctx.Wave++
	waves := w.cfg.Current().Waves
	total := SpawnQuota(waves.SpawnPerWave.Base, waves.SpawnPerWave.Increase, ctx.Wave, players)
	ctx.ToSpawn = total
	ctx.SpawnedThisWave = 0
	ctx.Fighting = true
	w.log.Printf("arena %s: wave %d started, spawning %d creepers", ctx.ArenaID, ctx.Wave, total)
}

// EndWave stops fighting and schedules the next wave.
func (w *WaveController) EndWave(ctx *ArenaContext) {
	ctx.Fighting = false
	interval := time.Duration(w.cfg.Current().Waves.IntervalSeconds) * time.Second
	ctx.NextWaveAt = w.clock().Add(interval)
	w.log.Printf("arena %s: wave %d ended", ctx.ArenaID, ctx.Wave)
}

// SpawnBatch spawns up to one batch from the remaining quota. Attempts on a
// lane without a usable spawn point are skipped without using quota.
func (w *WaveController) SpawnBatch(ctx *ArenaContext) []UnitID {
	toSpawn := min(w.cfg.Current().Waves.BatchSpawn.Size, ctx.ToSpawn)
	if toSpawn <= 0 {
		return nil
	}
	navigator := navigatorOf(w.world)
	var spawned []UnitID
	for i := 0; i < toSpawn; i++ {
		lane := ctx.Lanes[w.rng.Intn(len(ctx.Lanes))]
		if lane.Spawn == nil || !w.world.HasWorld(lane.Spawn.World) {
			continue
		}
		id, nav, ok := w.spawnUnit(*lane.Spawn, navigator)
		if !ok {
			continue
		}
		w.configureUnit(ctx, id, nav, lane, navigator)
		ctx.TrackUnit(id, nav)
		ctx.ToSpawn--
		ctx.SpawnedThisWave++
		spawned = append(spawned, id)
	}
	return spawned
}

func (w *WaveController) spawnUnit(at Location, navigator Navigator) (UnitID, NavHandle, bool) {
	if navigator != nil {
		id, nav, err := navigator.SpawnNavigable(UnitCreeper, at)
		if err == nil {
			return id, nav, true
		}
	}
	id, err := w.world.Spawn(UnitCreeper, at)
	if err != nil {
		w.log.Printf("creeper spawn at %s failed: %v", at.Point(), err)
		return 0, 0, false
	}
	return id, 0, true
}

func (w *WaveController) configureUnit(ctx *ArenaContext, id UnitID, nav NavHandle, lane *Lane, navigator Navigator) {
	w.world.Tag(id, TagArena, ctx.ArenaID)
	w.world.Tag(id, TagWave, itoa(ctx.Wave))
	if speed := min(ctx.Wave/SpeedLevelEvery, MaxSpeedLevel); speed > 0 {
		w.world.ApplyEffect(id, EffectSpeed, speed, Permanent)
	}
	if lane.End == nil {
		return
	}
	pos, ok := w.world.Position(id)
	if !ok || !pos.SameWorld(*lane.End) {
		return
	}
	w.world.Tag(id, TagTarget, lane.End.Point().String())
	if nav != 0 && navigator != nil {
		navigator.SetNavTarget(nav, *lane.End)
	}
}

// IsWaveComplete is true once the quota is spent and no tracked unit lives.
func (w *WaveController) IsWaveComplete(ctx *ArenaContext) bool {
	return ctx.ToSpawn <= 0 && len(ctx.AliveUnits(w.world)) == 0
}

// IsAllWavesComplete is the victory predicate.
func (w *WaveController) IsAllWavesComplete(ctx *ArenaContext) bool {
	return ctx.Wave >= ctx.WaveMax && w.IsWaveComplete(ctx)
}

func (w *WaveController) ShouldStartNextWave(ctx *ArenaContext) bool {
	if ctx.Fighting {
		return false
	}
	return !w.clock().Before(ctx.NextWaveAt)
}

// SecondsUntilNextWave rounds down and never goes negative.
func (w *WaveController) SecondsUntilNextWave(ctx *ArenaContext) int {
	remaining := ctx.NextWaveAt.Sub(w.clock())
	return max(0, int(remaining/time.Second))
}
