// Package daemon assembles and runs the authdesk service.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authdesk/authdesk/internal/chatauth"
	"github.com/authdesk/authdesk/internal/config"
	"github.com/authdesk/authdesk/internal/db"
	"github.com/authdesk/authdesk/internal/db/controller/authority"
	"github.com/authdesk/authdesk/internal/db/models"
	"github.com/authdesk/authdesk/internal/events"
	"github.com/authdesk/authdesk/internal/realtime"
	"github.com/authdesk/authdesk/internal/web"
	"github.com/authdesk/authdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	publisher  events.Publisher
	storage    fiber.Storage
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM and releases all resources.
func (d *Daemon) Start() error {
	go func() {
		if err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port)); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close releases the publisher, the session storage and the database pool.
func (d *Daemon) Close() error {
	if err := d.publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close event publisher")
	}

	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close session storage")
		}
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access sql pool")
	}

	return sqlDB.Close()
}

// Web returns the assembled web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gormDB, err := db.Open(&cfg.DB, cfg.DevMode)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err
	}

	if err = Seed(context.Background(), &cfg.Seed, gormDB); err != nil {
		return nil, err
	}

	// Initialize fiber session store
	storage, err := session.NewStorage(&cfg.Session, &cfg.DB)
	if err != nil {
		return nil, err
	}

	session.Init(storage, cfg.Session.ExpiryTime)

	publisher := newPublisher(&cfg.Events)

	if cfg.Pusher.AppKey == "" || cfg.Pusher.AppSecret == "" {
		log.Warn().Msg("pusher credentials are not configured, channel authorization will produce unusable signatures")
	}

	rooms := chatauth.NewService(gormDB, policy(&cfg.Realtime))
	bridge := realtime.NewBridge(rooms, realtime.NewPusherSigner(cfg.Pusher), cfg.Realtime.ChannelPrefix)

	return &Daemon{
		cfg:       cfg,
		db:        gormDB,
		publisher: publisher,
		storage:   storage,
		webService: web.New(cfg, web.Deps{
			DB:          gormDB,
			Authorities: authority.NewManager(gormDB, publisher),
			Bridge:      bridge,
		}),
	}, nil
}

// newPublisher connects the event publisher. Events are best effort, so a
// broker that is down only disables them.
func newPublisher(cfg *config.Events) events.Publisher {
	if !cfg.Enabled {
		return events.Nop{}
	}

	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Error().Err(err).Msg("authority events disabled")

		return events.Nop{}
	}

	return p
}

// policy lets participants join, plus every user of a privileged type.
func policy(cfg *config.Realtime) chatauth.Policy {
	if len(cfg.PrivilegedUserTypes) == 0 {
		return chatauth.ParticipantPolicy
	}

	types := make([]models.UserType, 0, len(cfg.PrivilegedUserTypes))
	for _, t := range cfg.PrivilegedUserTypes {
		types = append(types, models.UserType(t))
	}

	return chatauth.AnyOf(chatauth.ParticipantPolicy, chatauth.UserTypePolicy(types...))
}
