package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/hr-portal/internal/logger"
	adapter "github.com/inheritx/hr-portal/internal/logger/adapter/fiber"
)

type accessLine struct {
	Status   int    `json:"status"`
	URI      string `json:"URI"`
	Method   string `json:"method"`
	Identity string `json:"identity"`
	Error    string `json:"error"`
}

func newApp(buf *bytes.Buffer, cfg logger.Log) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(adapter.Config{Config: cfg, Output: buf, CheckAliveURI: "/checkalive"}))

	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(adapter.LocalsIdentityEmail, "hr@inheritx.com")
		return c.SendString("ok")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error { return c.SendString("alive") })
	app.Get("/broken", func(_ *fiber.Ctx) error { return errors.New("boom") })

	return app
}

func TestAccessLogWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(&buf, logger.Log{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?page=2", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Performance"))

	var line accessLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, fiber.StatusOK, line.Status)
	assert.Equal(t, "/?page=2", line.URI)
	assert.Equal(t, fiber.MethodGet, line.Method)
	assert.Equal(t, "hr@inheritx.com", line.Identity)
}

func TestAccessLogSkipsCheckAlive(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(&buf, logger.Log{DisableCheckAlive: true})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, buf.String())
}

func TestAccessLogRecordsChainError(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(&buf, logger.Log{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var line accessLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line.Error)
	assert.Equal(t, fiber.StatusInternalServerError, line.Status)
}
