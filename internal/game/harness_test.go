package game

import (
	"math/rand"
	"testing"
	"time"

	"CreeperAttack/internal/config"
)

var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

const testWorld = "world"

func pt(x, z float64) config.Point {
	return config.Point{World: testWorld, X: x, Y: 64, Z: z}
}

// arenaConfig places the trader at the origin and the four lanes on the axes.
func arenaConfig() *config.Config {
	cfg := config.Default()
	cfg.Trader.Location = pt(0, 0)
	cfg.Lanes.Lane1 = config.LanePoints{Spawn: pt(20, 0), End: pt(4, 0)}
	cfg.Lanes.Lane2 = config.LanePoints{Spawn: pt(-20, 0), End: pt(-4, 0)}
	cfg.Lanes.Lane3 = config.LanePoints{Spawn: pt(0, 20), End: pt(0, 4)}
	cfg.Lanes.Lane4 = config.LanePoints{Spawn: pt(0, -20), End: pt(0, -4)}
	return config.Sanitize(cfg)
}

type recorder struct {
	notices []Notice
}

func (r *recorder) Present(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) of(kind NoticeKind) []Notice {
	var out []Notice
	for _, n := range r.notices {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (r *recorder) texts(kind NoticeKind) []string {
	var out []string
	for _, n := range r.of(kind) {
		out = append(out, n.Text)
	}
	return out
}

type harness struct {
	cfg   *config.Config
	sched *Scheduler
	world *SimWorld
	rec   *recorder
	m     *ArenaManager
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := arenaConfig()
	if mutate != nil {
		mutate(cfg)
		cfg = config.Sanitize(cfg)
	}
	sched := NewScheduler(testEpoch, DefaultTickDuration, nil)
	world := NewSimWorld(sched.Now, testWorld)
	rec := &recorder{}
	m := NewArenaManager(ManagerOptions{
		Config:    config.Static{Cfg: cfg},
		World:     world,
		Scheduler: sched,
		Presenter: rec,
		Rand:      rand.New(rand.NewSource(7)),
	})
	world.SetListener(m)
	return &harness{cfg: cfg, sched: sched, world: world, rec: rec, m: m}
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.sched.Tick()
	}
}

// advance ticks the scheduler through d of game time.
func (h *harness) advance(d time.Duration) {
	h.tick(int(d / h.sched.TickDuration()))
}

func (h *harness) uiFor() *UiController {
	return NewUiController(config.Static{Cfg: h.cfg}, h.rec, h.sched.Now)
}

func (h *harness) spawnAt(ctx *ArenaContext, x, z float64) UnitID {
	id, err := h.world.Spawn(UnitCreeper, Location{World: testWorld, Pos: Vec3{X: x, Y: 64, Z: z}})
	if err != nil {
		panic(err)
	}
	ctx.TrackUnit(id, 0)
	h.m.unitArena[id] = ctx.ArenaID
	return id
}

// arena returns a context with the configured lanes, outside any game.
func (h *harness) arena(id string) *ArenaContext {
	ctx := h.m.GetOrCreateContext(id)
	for i, lane := range ctx.Lanes {
		points, err := h.cfg.Lanes.Lane(i + 1)
		if err != nil {
			panic(err)
		}
		lane.SetPoints(*points)
	}
	ctx.WaveMax = h.cfg.Waves.MaxWaves
	return ctx
}
