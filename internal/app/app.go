// Package app assembles stores, services and the notification pipeline from
// configuration. The serve and createadmin commands share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Piladin/ZTPAI/internal/api"
	"github.com/Piladin/ZTPAI/internal/api/handler"
	"github.com/Piladin/ZTPAI/internal/core/ports"
	"github.com/Piladin/ZTPAI/internal/core/service"
	"github.com/Piladin/ZTPAI/internal/infrastructure/db/memory"
	mongostore "github.com/Piladin/ZTPAI/internal/infrastructure/db/mongo"
	redisstore "github.com/Piladin/ZTPAI/internal/infrastructure/db/redis"
	"github.com/Piladin/ZTPAI/internal/infrastructure/notify"
	"github.com/Piladin/ZTPAI/internal/infrastructure/queue"
	"github.com/Piladin/ZTPAI/internal/pkg/config"
)

// App holds the wired services and everything that must be closed on
// shutdown.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	health map[string]handler.Pinger

	Auth          *service.AuthService
	Announcements *service.AnnouncementService
	Users         *service.UserService
	Dispatcher    *queue.Dispatcher

	closers []func(context.Context) error
}

type options struct {
	notifications bool
}

// Option adjusts what New wires.
type Option func(*options)

// WithoutNotifications skips the sender, the dedup store and the dispatcher.
// Dispatcher stays nil and registration notifications are discarded.
func WithoutNotifications() Option {
	return func(o *options) { o.notifications = false }
}

// New connects to the configured backends and builds the services. On error
// every connection opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (_ *App, err error) {
	o := options{notifications: true}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, log: log, health: map[string]handler.Pinger{}}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	var (
		users         ports.UserRepository
		announcements ports.AnnouncementRepository
		deliveryLog   ports.NotificationLog
	)

	switch cfg.StoreBackend {
	case config.StoreMemory:
		store := memory.NewStore()
		users, announcements = store.Users(), store.Announcements()
		a.health["memory"] = store
		log.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		users = mongostore.NewUserRepository(db)
		announcements = mongostore.NewAnnouncementRepository(db)
		deliveryLog = mongostore.NewNotificationLog(db)
		a.health["mongodb"] = mongostore.Pinger{Client: client}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	var notifier ports.Notifier
	if o.notifications {
		if err := a.newDispatcher(ctx, deliveryLog); err != nil {
			return nil, err
		}
		notifier = a.Dispatcher
	}

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	a.Auth = service.NewAuthService(users, tokens, notifier, log)
	a.Announcements = service.NewAnnouncementService(announcements, users, cfg.PageSize, log)
	a.Users = service.NewUserService(users, log)
	return a, nil
}

func (a *App) newDispatcher(ctx context.Context, deliveryLog ports.NotificationLog) error {
	sender, err := a.newSender()
	if err != nil {
		return err
	}

	opts := queue.Options{
		Workers:   a.cfg.Notify.Workers,
		QueueSize: a.cfg.Notify.QueueSize,
		Log:       deliveryLog,
	}
	if r := a.cfg.Redis; r.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: r.Addr, Password: r.Password, DB: r.DB})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		opts.Dedup = redisstore.NewNotificationDedup(rdb, 0)
		a.health["redis"] = redisstore.Pinger{Client: rdb}
		a.log.Info().Str("addr", r.Addr).Msg("notification dedup enabled")
	}
	a.Dispatcher = queue.NewDispatcher(sender, opts, a.log.With().Str("component", "notifications").Logger())
	return nil
}

func (a *App) newSender() (ports.NotificationSender, error) {
	if a.cfg.Notify.Backend != config.NotifyAMQP {
		return notify.NewLogSender(a.log, a.cfg.Notify.Delay), nil
	}
	s, err := notify.NewAMQPSender(notify.AMQPConfig{URL: a.cfg.AMQP.URL, Queue: a.cfg.AMQP.Queue})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return s.Close() })
	a.log.Info().Str("queue", a.cfg.AMQP.Queue).Msg("publishing notifications to amqp")
	return s, nil
}

// Router builds the HTTP server for the wired services.
func (a *App) Router() *echo.Echo {
	deps := api.Dependencies{
		Auth:          a.Auth,
		Announcements: a.Announcements,
		Users:         a.Users,
		Health:        a.health,
		Logger:        a.log,
	}
	if a.cfg.Metrics.Enabled {
		deps.Registerer = prometheus.DefaultRegisterer
		deps.Gatherer = prometheus.DefaultGatherer
	}
	return api.NewRouter(deps)
}

// Close releases every backend connection, most recently opened first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
