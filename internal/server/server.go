package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docbot/config"
	"docbot/internal/digest"
	"docbot/internal/fetch"
	"docbot/internal/profile/redisstore"
	"docbot/internal/search"
	"docbot/internal/store"
	"docbot/provider"
	"docbot/tools/web_search"
)

// Run wires the full service from config and serves until the listener
// stops: profile store, LLM provider, search adapter, digest engine, chat
// routes and the background scheduler.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	rdb, err := redisstore.Conn(ctx,
		cfg.Storage.Redis.Host, cfg.Storage.Redis.Port,
		cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, cfg.Storage.Redis.Timeout)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	profiles := redisstore.New(rdb)

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	backend, err := web_search.NewBackend(cfg.Search)
	if err != nil {
		return err
	}
	engine := digest.NewEngine(cfg.Digest, llm, cfg.LLM.Temperature, search.NewAdapter(cfg.Search, backend))

	// Run history is optional: without Postgres the service still serves
	// chat-triggered digests, it just cannot schedule weekly ones.
	var runs *store.Store
	if dsn, err := cfg.Storage.Postgres.DSN(); err == nil {
		runs, err = store.NewWithDSN(ctx, dsn)
		if err != nil {
			return fmt.Errorf("postgres connection failed: %w", err)
		}
	} else {
		baseLogger.Printf("run history disabled: %v", err)
	}

	h := &ChatHandler{
		Profiles: profiles,
		Engine:   engine,
		Runs:     runs,
		Fetcher:  fetch.NewFetcher(cfg.General.DefaultTimeout),
		Logger:   baseLogger,
	}
	e.POST("/", h.chat)
	e.POST("/api/digest/:user", h.triggerDigest)
	e.GET("/api/preview", h.preview)

	if cfg.Server.SchedulerEnabled && runs != nil {
		sched := &Scheduler{
			Profiles: profiles,
			Engine:   engine,
			Runs:     runs,
			Rdb:      rdb,
			Cron:     cfg.Digest.ScheduleCron,
			Stop:     make(chan struct{}),
			Logger:   log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
		}
		sched.Start()
		defer close(sched.Stop)
	}

	return e.Start(cfg.Server.Address)
}
