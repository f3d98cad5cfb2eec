package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lucas/simhost/internal/action"
	"github.com/lucas/simhost/internal/agentpool"
	"github.com/lucas/simhost/internal/api"
	"github.com/lucas/simhost/internal/config"
	"github.com/lucas/simhost/internal/eventbus"
	"github.com/lucas/simhost/internal/feed"
	"github.com/lucas/simhost/internal/generator"
	"github.com/lucas/simhost/internal/llm"
	"github.com/lucas/simhost/internal/metrics"
	"github.com/lucas/simhost/internal/persistence"
	"github.com/lucas/simhost/internal/randsrc"
	"github.com/lucas/simhost/internal/registry"
	"github.com/lucas/simhost/internal/scheduler"
	"github.com/lucas/simhost/internal/session"
	"github.com/lucas/simhost/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	devMode := flag.Bool("dev", false, "enable development mode with mock LLM workers")
	noDB := flag.Bool("no-db", false, "run without Postgres/Redis (in-memory only)")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("failed to load config, using defaults")
		cfg = config.Default()
	}

	if *devMode {
		cfg.Dev.Enabled = true
		cfg.Dev.MockLLM = true
		log.Info().Msg("development mode enabled with mock LLM workers")
	}

	var pg *persistence.Postgres
	var rdb *persistence.Redis

	if *noDB || cfg.Dev.Enabled {
		log.Info().Msg("running without database (in-memory mode)")
		pg, _ = persistence.NewPostgres("")
		rdb, _ = persistence.NewRedis("")
	} else {
		pg, err = persistence.NewPostgres(cfg.Database.PostgresURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to postgres")
			pg, _ = persistence.NewPostgres("")
		}
		rdb, err = persistence.NewRedis(cfg.Database.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to redis")
			rdb, _ = persistence.NewRedis("")
		}
	}
	if err := pg.EnsureSchema(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure postgres schema")
	}
	defer pg.Close()
	defer rdb.Close()

	bus := eventbus.New()
	reg := registry.New(bus)

	pool := agentpool.New()
	if cfg.Dev.MockLLM {
		pool.Register(llm.NewMockWorker("mock-generator", "scenario_generator"))
		pool.Register(llm.NewMockWorker("mock-reactor", "npc_reaction"))
		pool.Register(llm.NewMockWorker("mock-idler", "npc_idle"))
		log.Info().Msg("registered mock LLM workers")
	}

	history := agentpool.NewHistory(256)
	rng := randsrc.NewSystem()
	gen := generator.New(pool, rng)

	handlerRegistry := action.NewRegistry()
	action.RegisterAll(handlerRegistry)

	sessions := session.NewManager(handlerRegistry, rng)

	m := metrics.New()
	sched := scheduler.New(reg, bus, pool, history, m, cfg.Sim.TickRate, cfg.Sim.IdleInterval, cfg.Sim.ReactDeadline)
	sched.Start()

	housekeeper := persistence.NewHousekeeper(pg, reg)
	if err := housekeeper.Start("@every 30s"); err != nil {
		log.Warn().Err(err).Msg("failed to start housekeeping sweep")
	}

	globalFeed := feed.New(rdb)

	hub := ws.NewHub()
	go hub.Run()

	handler := api.NewHandler(reg, sessions, pool, gen, globalFeed, hub, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop()
	pool.Shutdown()
	housekeeper.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
