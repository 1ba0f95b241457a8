// Package app wires configuration into a running service: storage backend,
// optional Redis cache and event streams, services and HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/eaglebank/finance/internal/config"
	"github.com/eaglebank/finance/internal/events"
	"github.com/eaglebank/finance/internal/handler"
	sharedredis "github.com/eaglebank/finance/internal/redis"
	"github.com/eaglebank/finance/internal/repository"
	"github.com/eaglebank/finance/internal/service"
	"github.com/eaglebank/finance/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	Config  *config.Config
	Service *service.Service
	Router  *gin.Engine

	log   *zap.Logger
	db    *repository.DB
	redis *sharedredis.Client
}

// New builds the application for cfg. The returned cleanup closes the
// database and Redis connections.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	a := &App{Config: cfg, log: log}

	repos, err := a.openRepositories()
	if err != nil {
		return nil, nil, err
	}

	var publisher service.EventPublisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		client, err := sharedredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.close()
			return nil, nil, err
		}
		a.redis = client
		repos.Users = repository.NewCachedUserRepository(repos.Users, client.Client, cfg.Redis.UserCacheTTL, log.Named("cache"))
		publisher = events.NewPublisher(client.Client)
	} else {
		log.Info("redis not configured; user cache and events disabled")
	}

	a.Service = service.New(repos, service.SystemClock{}, publisher, log)
	a.Router = handler.NewRouter(handler.RouterConfig{
		Users:        a.Service.Users,
		Accounts:     a.Service.Accounts,
		Transactions: a.Service.Transactions,
		JWTSecret:    cfg.Auth.JWTSecret,
		Logger:       log.Named("http"),
	})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty; API routes are unauthenticated")
	}

	return a, a.close, nil
}

func (a *App) openRepositories() (*repository.Repositories, error) {
	dbCfg := a.Config.Database
	if dbCfg.Driver == "memory" {
		a.log.Info("using in-memory storage")
		return repository.NewMemoryRepositories(), nil
	}

	db, err := repository.Open(dbCfg.Driver, dbCfg.URL)
	if err != nil {
		return nil, err
	}
	a.db = db

	if dbCfg.MigrateOnStart {
		if err := repository.Migrate(db, migrations.FS, true); err != nil {
			db.Close()
			return nil, err
		}
		a.log.Info("migrations applied", zap.String("driver", dbCfg.Driver))
	}
	return repository.NewSQLRepositories(db), nil
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("failed to close database", zap.Error(err))
		}
	}
}

// Run listens on the configured port and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.Server.Port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln together with one audit subscriber per
// event stream. Cancelling ctx shuts everything down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		a.log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	for _, sub := range a.subscribers() {
		g.Go(func() error {
			if err := sub.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func (a *App) subscribers() []*events.Subscriber {
	if a.redis == nil {
		return nil
	}
	audit := events.AuditHandler(a.log.Named("audit"))
	subs := make([]*events.Subscriber, 0, len(events.Streams))
	for _, stream := range events.Streams {
		subs = append(subs, events.NewSubscriber(a.redis.Client, events.SubscriberConfig{
			Group:         a.Config.Events.Group,
			Consumer:      a.Config.Events.Consumer,
			Stream:        stream,
			Handler:       audit,
			// a blocked read is not interrupted by ctx, so keep it short
			BlockDuration: time.Second,
			Logger:        a.log,
		}))
	}
	return subs
}
