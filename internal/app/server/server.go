package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/development"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/domain/tasks"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	audithandler "hrportal/internal/transport/http/handlers/audit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	corehandler "hrportal/internal/transport/http/handlers/core"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	developmenthandler "hrportal/internal/transport/http/handlers/development"
	notificationshandler "hrportal/internal/transport/http/handlers/notifications"
	taskshandler "hrportal/internal/transport/http/handlers/tasks"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/ws"
)

type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Router   http.Handler
	Registry *notifications.Registry
	Metrics  *metrics.Collector

	live   *ws.Handler
	cancel context.CancelFunc
}

// New connects to the database, prepares the schema and wires every
// component. Background jobs stop when Close is called.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()
	registry := notifications.NewRegistry()
	collector.TrackRegistry(registry)
	dispatcher := notifications.NewDispatcher(registry,
		notifications.WithRecorder(collector),
		notifications.WithSendBudget(cfg.DispatchBudget),
	)

	coreStore := core.NewStore(pool)
	taskStore := tasks.NewStore(pool)
	inbox := notifications.NewInbox(notifications.NewStore(pool))

	composer := dashboard.NewComposer(coreStore, taskStore, dispatcher)
	taskService := tasks.NewService(taskStore, coreStore, inbox, dispatcher, composer)
	developmentService := development.NewService(development.NewStore(pool), coreStore, inbox, dispatcher)
	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	perms := auth.StaticPermissions{}
	auditLog := audit.New(pool)

	jobCtx, cancel := context.WithCancel(context.Background())
	jobService := jobs.New(jobs.NewStore(pool), jobs.WithObserver(func(jobType string, err error) {
		if jobType == jobs.JobPerformanceBroadcast {
			collector.BroadcastRun(err)
		}
	}))
	jobService.Start(jobCtx)
	jobService.SchedulePerformanceBroadcast(jobCtx, cfg.PerformanceBroadcastInterval, registry, composer)

	live := ws.NewHandler(registry, ws.Options{
		PingInterval:   cfg.WSPingInterval,
		WriteTimeout:   cfg.WSWriteTimeout,
		AllowedOrigins: cfg.WSAllowedOrigins,
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.With(middleware.RequirePermission(auth.PermLiveUpdates, perms)).Handle("/ws", live)

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService, cfg.IsProduction())
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

			coreHandler := corehandler.NewHandler(coreStore, perms)
			coreHandler.RegisterRoutes(r)

			dashboardHandler := dashboardhandler.NewHandler(composer, coreStore, registry, perms)
			dashboardHandler.RegisterRoutes(r)

			tasksHandler := taskshandler.NewHandler(taskService, perms, auditLog)
			tasksHandler.RegisterRoutes(r)

			developmentHandler := developmenthandler.NewHandler(developmentService, perms, auditLog)
			developmentHandler.RegisterRoutes(r)

			notificationsHandler := notificationshandler.NewHandler(inbox, perms)
			notificationsHandler.RegisterRoutes(r)

			auditHandler := audithandler.NewHandler(auditLog, perms)
			auditHandler.RegisterRoutes(r)
		})
	})

	return &App{
		Config:   cfg,
		DB:       pool,
		Router:   router,
		Registry: registry,
		Metrics:  collector,
		live:     live,
		cancel:   cancel,
	}, nil
}

// Close stops background jobs, drops live sockets and releases the pool.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.live != nil {
		a.live.CloseAll()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrportal listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	app.live.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", "err", err)
	}
}
