// Package webtest builds a fiber app with seeded roles and a session
// middleware for handler tests.
package webtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/credential"
	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/role/store"
	"github.com/inheritx/hr-portal/internal/seed"
	"github.com/inheritx/hr-portal/internal/web/handler"
	websession "github.com/inheritx/hr-portal/internal/web/session"
)

// Organization is the organization the roles are seeded for.
const Organization = "inheritx"

// CookieName is the session cookie of the test app.
const CookieName = "hr_session"

// NoOpViews renders the "error" value of a fiber.Map when present and the
// template name otherwise, so tests can assert on either.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			if s, isString := v.(string); isString {
				_, _ = io.WriteString(w, s)
				return nil
			}
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// Env is a test app and its collaborators.
type Env struct {
	App      *fiber.App
	DB       *gorm.DB
	Backend  *store.Backend
	Registry *role.Registry
	Storage  *memory.Storage
	Deps     handler.Deps
	cfg      config.Session
}

// New returns an Env over an in-memory database seeded with the default
// catalog and roles. The registry may be replaced through Deps before
// handlers are initialised.
func New(t *testing.T) *Env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	_, err = seed.Run(context.Background(), db, Organization, false)
	require.NoError(t, err)

	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Session{CookieName: CookieName, KeyPrefix: "hr-portal:session:", ExpiryTime: time.Hour}
	sessions := websession.NewFactory(credential.NewMemoryStore(credential.DemoEntries()...), st, cfg, false)

	backend := store.New(db)
	reg := role.NewRegistry(backend, Organization)

	app := fiber.New(fiber.Config{Views: NoOpViews{}})
	app.Use(sessions.Middleware())

	return &Env{
		App:      app,
		DB:       db,
		Backend:  backend,
		Registry: reg,
		Storage:  st,
		cfg:      cfg,
		Deps: handler.Deps{
			Cfg:      &config.Config{OrganizationID: Organization},
			Sessions: sessions,
			Registry: reg,
			Backend:  backend,
		},
	}
}

// SignIn stores an authenticated session for the demo identity of tag and
// returns its cookie.
func (e *Env) SignIn(t *testing.T, tag identity.RoleTag) *http.Cookie {
	t.Helper()

	for _, entry := range credential.DemoEntries() {
		if entry.Role != tag {
			continue
		}

		ident := identity.Identity{
			ID:         uuid.NewString(),
			Name:       entry.Name,
			Email:      entry.Email,
			Role:       entry.Role,
			Department: entry.Department,
		}

		raw, err := json.Marshal(ident)
		require.NoError(t, err)

		id := uuid.NewString()
		require.NoError(t, e.Storage.Set(e.cfg.KeyPrefix+id, raw, 0))

		return &http.Cookie{Name: e.cfg.CookieName, Value: id}
	}

	t.Fatalf("no demo credential for role %s", tag)

	return nil
}

// Get performs a GET with the optional cookie.
func (e *Env) Get(t *testing.T, target string, cookie *http.Cookie) *http.Response {
	t.Helper()

	return e.Do(t, httptest.NewRequest(fiber.MethodGet, target, nil), cookie)
}

// PostForm posts form to target with the optional cookie.
func (e *Env) PostForm(t *testing.T, target string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return e.Do(t, req, cookie)
}

// Do runs req against the app.
func (e *Env) Do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Body reads the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}
