package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	appteams "github.com/preston-bernstein/hoops-league-service/internal/app/teams"
	"github.com/preston-bernstein/hoops-league-service/internal/broadcast"
	"github.com/preston-bernstein/hoops-league-service/internal/config"
	httpserver "github.com/preston-bernstein/hoops-league-service/internal/http"
	"github.com/preston-bernstein/hoops-league-service/internal/http/handlers"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/poller"
	"github.com/preston-bernstein/hoops-league-service/internal/results"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
	"github.com/preston-bernstein/hoops-league-service/internal/snapshots"
	"github.com/preston-bernstein/hoops-league-service/internal/standings"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
)

var metricsSetup = metrics.Setup

const snapshotRetentionDays = 7

// scheduler is the part of results.Scheduler the server drives.
type scheduler interface {
	Start()
	Stop() error
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	games         *appgames.Service
	teams         *appteams.Service
	registry      *scoreboard.Registry
	channel       broadcast.Channel
	publisher     *broadcast.Observer
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	scheduler     scheduler
	metricsStop   func(context.Context) error
	storeClose    func() error
}

// New builds every component from cfg. It fails when the content store or
// broadcast channel cannot be reached.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	chain, err := newStoreFactory(logger, recorder).build(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("content store: %w", err)
	}
	content, storeClose := chain.shared, chain.close
	channel, err := buildBroadcast(ctx, cfg.Broadcast, logger)
	if err != nil {
		_ = storeClose()
		return nil, fmt.Errorf("broadcast: %w", err)
	}

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		channel:       channel,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		storeClose:    storeClose,
	}
	srv.games, srv.teams = buildServices(cfg, logger)

	var writer poller.SnapshotWriter
	if cfg.Snapshots.Enabled {
		writer = snapshots.NewWriter(cfg.Snapshots.Folder, snapshotRetentionDays)
	}
	plr := poller.New(content, srv.games, writer, logger, recorder, cfg.PollInterval)
	srv.poller = plr

	srv.publisher = broadcast.NewObserver(channel, logger, recorder, cfg.Broadcast.PublishTimeout)
	srv.registry = scoreboard.NewRegistry(scoreboard.Config{
		Limits: scoreboard.Limits{
			MaxFouls:     cfg.League.MaxFouls,
			MaxTimeouts:  cfg.League.MaxTimeouts,
			MaxPeriods:   cfg.League.MaxPeriods,
			PeriodLength: cfg.League.PeriodLength,
		},
		TimeSource:     clockwork.NewRealClock(),
		Persister:      chain.direct,
		Observer:       scoreboard.Observers{newSessionObserver(srv.games, logger, recorder), srv.publisher},
		PersistTimeout: cfg.PersistTimeout,
	})

	reconciler := results.NewReconciler(content, logger, recorder)
	if cfg.Results.Enabled {
		sched, err := results.NewScheduler(reconciler, results.SchedulerConfig{
			Hour:       cfg.Results.HourUTC,
			Location:   time.UTC,
			RunTimeout: cfg.Results.RunTimeout,
		}, logger)
		if err != nil {
			_ = channel.Close()
			_ = storeClose()
			return nil, fmt.Errorf("results scheduler: %w", err)
		}
		srv.scheduler = sched
	}

	srv.httpServer = srv.buildHTTPServer(plr, reconciler)
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, gameSvc *appgames.Service, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		games:      gameSvc,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildServices(cfg config.Config, logger *slog.Logger) (*appgames.Service, *appteams.Service) {
	memoryStore := store.NewMemoryStore()
	opts := appgames.Options{
		GroupOrder: standings.ParseOrder(cfg.League.GroupOrder),
		Logger:     logger,
	}
	if cfg.Snapshots.Enabled {
		opts.Snapshots = snapshots.NewFSStore(cfg.Snapshots.Folder)
	}
	return appgames.NewService(memoryStore, opts), appteams.NewService(memoryStore)
}

func (s *Server) buildHTTPServer(plr *poller.Poller, reconciler *results.Reconciler) httpServer {
	routes := httpserver.Routes{
		Public:         handlers.NewHandler(s.games, s.teams, s.logger, plr.Status),
		Scoreboard:     handlers.NewScoreboardHandler(s.registry, s.games, s.logger, s.cfg.PersistTimeout),
		Live:           handlers.NewLiveHandler(s.channel, s.cfg.AllowedOrigins, s.logger),
		Logger:         s.logger,
		Recorder:       s.metrics,
		AllowedOrigins: s.cfg.AllowedOrigins,
	}
	if s.cfg.AdminToken != "" {
		routes.Admin = handlers.NewAdminHandler(plr, reconciler, s.cfg.AdminToken, s.logger)
	}

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           httpserver.NewRouter(routes),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return netHTTPServer{srv: srv}
}

// Run starts the poller, scheduler and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)
	if s.scheduler != nil {
		s.scheduler.Start()
		logging.Info(s.logger, "results reconcile scheduled", "hour_utc", s.cfg.Results.HourUTC)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown stops intake first, then drains scoreboards and
// publishers before closing the transports they write to.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.scheduler != nil {
		if err := s.scheduler.Stop(); err != nil {
			logging.Warn(s.logger, "results scheduler stop failed", "err", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.registry != nil {
		s.registry.CloseAll()
	}
	if s.publisher != nil {
		s.publisher.Wait()
	}
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logging.Warn(s.logger, "broadcast close failed", "err", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "err", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "err", err)
		}
	}

	if s.storeClose != nil {
		if err := s.storeClose(); err != nil {
			logging.Warn(s.logger, "content store close failed", "err", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "err", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
