package login

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/credential"
	"github.com/inheritx/hr-portal/internal/web/handler"
	websession "github.com/inheritx/hr-portal/internal/web/session"
)

const cookieName = "hr_session"

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

// testStorage is a minimal in-memory implementation of fiber.Storage for tests.
type testStorage struct {
	mu      sync.RWMutex
	data    map[string][]byte
	failSet bool
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	if v == nil {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet {
		return errors.New("storage offline")
	}

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func (s *testStorage) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func newTestApp(t *testing.T, store *testStorage) *fiber.App {
	t.Helper()

	sessions := websession.NewFactory(
		credential.NewMemoryStore(credential.DemoEntries()...),
		store,
		config.Session{CookieName: cookieName, KeyPrefix: "hr-portal:session:", ExpiryTime: time.Minute},
		false,
	)

	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(sessions.Middleware())

	require.NoError(t, Handler.Init(app, handler.Deps{Cfg: &config.Config{}, Sessions: sessions}))

	return app
}

func postForm(t *testing.T, app *fiber.App, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			return ck
		}
	}

	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

func TestGetRendersLogin(t *testing.T) {
	app := newTestApp(t, &testStorage{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, Path, nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, readBody(t, resp))
}

func TestPostSuccess(t *testing.T) {
	testCases := []struct {
		name string
		form url.Values
	}{
		{"hr with expected role", url.Values{"email": {"HR@InheritX.com"}, "password": {"hr123"}, "role": {"hr"}}},
		{"employee without role", url.Values{"email": {"employee@inheritx.com"}, "password": {"emp123"}}},
		{"role label casing", url.Values{"email": {" hr@inheritx.com "}, "password": {"hr123"}, "role": {"HR"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &testStorage{}
			app := newTestApp(t, store)

			resp := postForm(t, app, tc.form)

			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
			assert.Equal(t, 1, store.len())
		})
	}
}

func TestPostFailuresAreGeneric(t *testing.T) {
	testCases := []struct {
		name string
		form url.Values
	}{
		{"wrong password", url.Values{"email": {"hr@inheritx.com"}, "password": {"wrongpass"}}},
		{"unknown email", url.Values{"email": {"nobody@inheritx.com"}, "password": {"hr123"}}},
		{"role mismatch", url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}, "role": {"employee"}}},
		{"missing password", url.Values{"email": {"hr@inheritx.com"}}},
		{"not an email", url.Values{"email": {"hr"}, "password": {"hr123"}}},
		{"unknown role", url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}, "role": {"admin"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &testStorage{}
			app := newTestApp(t, store)

			resp := postForm(t, app, tc.form)

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, MsgAuthFailure, readBody(t, resp))
			assert.Zero(t, store.len())
		})
	}
}

func TestRejectedPostKeepsSignedInSession(t *testing.T) {
	store := &testStorage{}
	app := newTestApp(t, store)

	resp := postForm(t, app, url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	signedIn := sessionCookie(resp)
	require.NotNil(t, signedIn)

	key := "hr-portal:session:" + signedIn.Value
	stored, err := store.Get(key)
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	resp = postForm(t, app, url.Values{"email": {"employee@inheritx.com"}, "password": {"wrongpass"}}, signedIn)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp), "a rejected login must not replace the client cookie")

	after, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, stored, after)
	assert.Equal(t, 1, store.len())
}

func TestPostSwitchesIdentityAndDropsOldEntry(t *testing.T) {
	store := &testStorage{}
	app := newTestApp(t, store)

	resp := postForm(t, app, url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	first := sessionCookie(resp)
	require.NotNil(t, first)

	resp = postForm(t, app, url.Values{"email": {"employee@inheritx.com"}, "password": {"emp123"}}, first)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	second := sessionCookie(resp)
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	old, err := store.Get("hr-portal:session:" + first.Value)
	require.NoError(t, err)
	assert.Nil(t, old)

	current, err := store.Get("hr-portal:session:" + second.Value)
	require.NoError(t, err)
	assert.Contains(t, string(current), "employee@inheritx.com")
	assert.Equal(t, 1, store.len())
}

func TestPostStorageFailure(t *testing.T) {
	app := newTestApp(t, &testStorage{failSet: true})

	resp := postForm(t, app, url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}})

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, MsgUnavailable, readBody(t, resp))
}

func TestLoginPageRedirectsSignedInUsers(t *testing.T) {
	app := newTestApp(t, &testStorage{})

	resp := postForm(t, app, url.Values{"email": {"hr@inheritx.com"}, "password": {"hr123"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var sid string

	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			sid = ck.Value
		}
	}

	require.NotEmpty(t, sid)

	req := httptest.NewRequest(fiber.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
}
