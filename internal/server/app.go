package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"CreeperAttack/internal/config"
	"CreeperAttack/internal/game"
)

const shutdownGrace = 5 * time.Second

// App is the wired engine: config, scheduler, simulated world, arena
// manager and the HTTP surface in front of them.
type App struct {
	Config  *config.Service
	Sched   *game.Scheduler
	World   *game.SimWorld
	Manager *game.ArenaManager
	Server  *Server
}

// NewApp loads the arena file and wires every component. Nothing runs until
// the scheduler does.
func NewApp(cfg AppConfig, logger game.Logger) (*App, error) {
	if logger == nil {
		logger = game.StdLogger()
	}
	svc, err := loadConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	current := svc.Current()
	tick := time.Duration(current.Timing.TickMillis) * time.Millisecond
	sched := game.NewScheduler(time.Now(), tick, logger)

	world := game.NewSimWorld(sched.Now, worldNames(cfg, current)...)
	world.EnableNavigation(cfg.Navigation)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	broadcaster := NewBroadcaster(logger)
	manager := game.NewArenaManager(game.ManagerOptions{
		Config:    svc,
		Reloader:  svc,
		World:     world,
		Scheduler: sched,
		Presenter: broadcaster,
		Logger:    logger,
		Rand:      rand.New(rand.NewSource(seed)),
	})
	world.SetListener(manager)
	sched.Every(1, world.Step)
	manager.Start()

	return &App{
		Config:  svc,
		Sched:   sched,
		World:   world,
		Manager: manager,
		Server:  NewServer(manager, svc, world, broadcaster, logger),
	}, nil
}

// StartApp serves until ctx is cancelled, then stops every arena.
func StartApp(ctx context.Context, cfg AppConfig) error {
	logger := game.StdLogger()
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	app.Server.StopStreamsWith(gctx)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error { return app.Sched.Run(gctx) })
	g.Go(func() error {
		logger.Printf("starting web server on %s (tick %s, config %s)", cfg.Addr, app.Sched.TickDuration(), app.Config.Path())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	// The scheduler has stopped, so this goroutine is now the executor.
	app.Manager.ShutdownAll()
	logger.Printf("arenas shut down")
	return err
}
