// Package web assembles the fiber application: views, static files, session
// binding, access logging, metrics and the page handlers.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/config"
	fiberlogger "github.com/inheritx/hr-portal/internal/logger/adapter/fiber"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/handler/admin/roles"
	"github.com/inheritx/hr-portal/internal/web/handler/api"
	"github.com/inheritx/hr-portal/internal/web/handler/dashboard"
	"github.com/inheritx/hr-portal/internal/web/handler/employees"
	"github.com/inheritx/hr-portal/internal/web/handler/login"
	"github.com/inheritx/hr-portal/internal/web/handler/logout"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"
	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"

	staticPrefix = "/static"
)

// ErrDepsMissing is returned by New when a dependency is nil.
var ErrDepsMissing = errors.New("web: config, sessions and registry are required")

// Service represents the web service.
type Service struct {
	App   *fiber.App
	cfg   *config.Config
	alive atomic.Bool
}

// New creates the web service with all handlers registered.
func New(cfg *config.Config, deps handler.Deps) (*Service, error) {
	if cfg == nil || !deps.Valid() {
		return nil, ErrDepsMissing
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	s := &Service{App: app, cfg: cfg}
	s.alive.Store(true)

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), staticPrefix)
		},
	}))

	// serve embedded static files
	app.Use(staticPrefix,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     false,
			},
		),
	)

	app.Get(CheckAlivePath, s.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(deps.Sessions.Middleware())

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&employees.Handler,
		&roles.Handler,
		&api.Handler,
	}

	for _, h := range services {
		if err := h.Init(app, deps); err != nil {
			return nil, fmt.Errorf("init handler %T: %w", h, err)
		}
	}

	return s, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("alive")
}

// Start listens on addr until Shutdown is called.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("http server listening")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen: %w", err)
	}

	return nil
}

// Shutdown stops the server. Unless fast is set, checkalive fails for the
// configured shutdown time first so load balancers can drain this instance.
func (s *Service) Shutdown(ctx context.Context, fast bool) error {
	if !fast && s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)

		select {
		case <-time.After(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second):
		case <-ctx.Done():
		}
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("fiber shutdown: %w", err)
	}

	log.Info().Msg("http server was stopped ... good bye...")

	return nil
}
