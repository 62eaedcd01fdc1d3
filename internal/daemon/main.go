// Package daemon wires storage, the role registry and the web service together
// and runs them until the context is cancelled.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/credential"
	"github.com/inheritx/hr-portal/internal/db"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/role/httpbackend"
	"github.com/inheritx/hr-portal/internal/role/store"
	"github.com/inheritx/hr-portal/internal/seed"
	sessionstorage "github.com/inheritx/hr-portal/internal/session/storage"
	"github.com/inheritx/hr-portal/internal/web"
	"github.com/inheritx/hr-portal/internal/web/handler"
	websession "github.com/inheritx/hr-portal/internal/web/session"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config is nil")

const shutdownGrace = 30 * time.Second

var openDB = db.Open //nolint:gochecknoglobals

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	webService *web.Service
}

// New opens the database and session storage, seeds the reference data when
// the role store is local and builds the web service. Whatever was opened is
// closed again when a later step fails.
func New(ctx context.Context, cfg *config.Config) (_ *Daemon, err error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	conn, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: conn}

	defer func() {
		if err != nil {
			d.close()
		}
	}()

	d.storage, err = sessionstorage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}

	deps := handler.Deps{
		Cfg:      cfg,
		Sessions: websession.NewFactory(credential.NewGormStore(conn), d.storage, cfg.Session, secureCookies(cfg)),
	}

	var backend role.Backend

	switch cfg.Backend.Mode {
	case "http":
		backend = httpbackend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout).WithToken(cfg.Backend.Token)
	default:
		local := store.New(conn)
		deps.Backend = local
		backend = local

		if _, err = seed.Run(ctx, conn, cfg.OrganizationID, cfg.Seed.Credentials); err != nil {
			return nil, err
		}
	}

	deps.Registry = role.NewRegistry(backend, cfg.OrganizationID)

	d.webService, err = web.New(cfg, deps)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("backend", cfg.Backend.Mode).
		Str("session_storage", cfg.Session.Storage.Driver).
		Str("organization", cfg.OrganizationID).
		Msg("daemon initialized")

	return d, nil
}

// Run serves until ctx is done, then shuts the web service down and closes storage.
func (d *Daemon) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("shutdown request")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		// a failed listener needs no drain period
		return d.webService.Shutdown(sctx, ctx.Err() == nil)
	})

	err := g.Wait()
	d.close()

	return err
}

func (d *Daemon) close() {
	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

func secureCookies(cfg *config.Config) bool {
	return strings.HasPrefix(strings.ToLower(cfg.Webserver.URL), "https://")
}
