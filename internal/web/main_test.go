package web

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/webtest"
)

func newService(t *testing.T) (*Service, *webtest.Env) {
	t.Helper()

	env := webtest.New(t)

	s, err := New(env.Deps.Cfg, env.Deps)
	require.NoError(t, err)

	// serve the real templates through the env helpers
	env.App = s.App

	return s, env
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(nil, handler.Deps{})
	assert.ErrorIs(t, err, ErrDepsMissing)
}

func TestCheckAlive(t *testing.T) {
	s, env := newService(t)

	resp := env.Get(t, CheckAlivePath, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", webtest.Body(t, resp))

	s.alive.Store(false)

	resp = env.Get(t, CheckAlivePath, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestStaticAndMetrics(t *testing.T) {
	_, env := newService(t)

	resp := env.Get(t, "/static/css/app.css", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// one gate decision so the counter has a series
	resp = env.Get(t, "/", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = env.Get(t, MetricsPath, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, webtest.Body(t, resp), "hr_portal_gate_decisions_total")
}

func TestTemplatesRender(t *testing.T) {
	_, env := newService(t)

	resp := env.Get(t, "/login", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, webtest.Body(t, resp), "Sign in")

	hr := env.SignIn(t, identity.RoleHR)

	pages := map[string]string{
		"/":                "Employees",
		"/employees":       "Designation",
		"/admin/roles":     "New role",
		"/admin/roles/new": "Select all",
	}

	for path, want := range pages {
		resp = env.Do(t, httptest.NewRequest(fiber.MethodGet, path, nil), hr)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, webtest.Body(t, resp), want, path)
	}

	resp = env.Get(t, "/", env.SignIn(t, identity.RoleEmployee))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := webtest.Body(t, resp)
	assert.Contains(t, body, "Leave balance")
	assert.NotContains(t, body, "/admin/roles", "menu hides gated items")
}
