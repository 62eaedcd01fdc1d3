// Package httpbackend talks to a remote role service over its REST API.
package httpbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/role"
)

const defaultTimeout = 10 * time.Second

// Client implements role.Backend against /api/roles and /api/permissions.
type Client struct {
	baseURL string
	timeout time.Duration
	token   string
}

var _ role.Backend = (*Client)(nil)

// New returns a client for the service at baseURL. A zero timeout uses ten seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// WithToken makes the client send token as bearer credential.
func (c *Client) WithToken(token string) *Client {
	c.token = token

	return c
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// ListRoles implements role.Backend.
func (c *Client) ListRoles(ctx context.Context, q role.Query) ([]byte, error) {
	v := url.Values{}

	if q.OrganizationID != "" {
		v.Set("organizationId", q.OrganizationID)
	}

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	if q.Status != "" {
		v.Set("status", string(q.Status))
	}

	return c.do(ctx, fiber.MethodGet, "/api/roles", v, nil)
}

// GetRole implements role.Backend.
func (c *Client) GetRole(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, fiber.MethodGet, rolePath(id), nil, nil)
}

// CreateRole implements role.Backend.
func (c *Client) CreateRole(ctx context.Context, in role.Input) ([]byte, error) {
	return c.do(ctx, fiber.MethodPost, "/api/roles", nil, in)
}

// UpdateRole implements role.Backend.
func (c *Client) UpdateRole(ctx context.Context, id string, in role.Input) ([]byte, error) {
	return c.do(ctx, fiber.MethodPut, rolePath(id), nil, in)
}

// DeleteRole implements role.Backend.
func (c *Client) DeleteRole(ctx context.Context, id string) error {
	_, err := c.do(ctx, fiber.MethodDelete, rolePath(id), nil, nil)
	return err
}

// SetRoleStatus implements role.Backend.
func (c *Client) SetRoleStatus(ctx context.Context, id string, status role.Status) ([]byte, error) {
	body := map[string]role.Status{"status": status}
	return c.do(ctx, fiber.MethodPatch, rolePath(id)+"/status", nil, body)
}

// ListPermissions implements role.Backend.
func (c *Client) ListPermissions(ctx context.Context) ([]byte, error) {
	return c.do(ctx, fiber.MethodGet, "/api/permissions", nil, nil)
}

func rolePath(id string) string {
	return "/api/roles/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", role.ErrTransport, err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if c.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}

	a.Timeout(timeout)

	if body != nil {
		a.JSON(body)
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, fmt.Errorf("%w: %w", role.ErrTransport, err)
	}

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s %s: %w", role.ErrTransport, method, path, errs[0])
	}

	switch {
	case code >= fiber.StatusOK && code < fiber.StatusMultipleChoices:
		return resp, nil
	case code == fiber.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", role.ErrNotFound, path)
	case code == fiber.StatusBadRequest || code == fiber.StatusUnprocessableEntity:
		var eb errorBody
		if err := json.Unmarshal(resp, &eb); err == nil && eb.Field != "" {
			return nil, &role.ValidationError{Field: eb.Field, Message: eb.Error}
		}
	}

	return nil, fmt.Errorf("%w: %s %s: status %d", role.ErrTransport, method, path, code)
}
