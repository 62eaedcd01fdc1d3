// Package api serves the role and permission REST API other portal instances
// use as their role backend.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/handler"
)

// Path is the api prefix.
const Path = handler.RootPath + "api"

// Error messages of the api.
const (
	MsgUnauthorized = "unauthorized"
	MsgNotFound     = "not found"
	MsgBadRequest   = "invalid request body"
	MsgInternal     = "internal error"
)

// ErrorBody is the error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type statusBody struct {
	Status string `json:"status"`
}

// Service serves the api.
type Service struct {
	handler.Service
	backend role.Backend
}

// Handler is the exported instance.
var Handler = Service{}

// Init mounts the api when an in-process backend and a token are configured.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Cfg == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	token := deps.Cfg.Backend.Token
	if deps.Backend == nil || token == "" {
		log.Info().Msg("role api disabled")
		return nil
	}

	s.backend = deps.Backend

	api := app.Group(Path, keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1 {
				return true, nil
			}

			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: MsgUnauthorized})
		},
	}))

	api.Get("/roles", s.listRoles)
	api.Post("/roles", s.createRole)
	api.Get("/roles/:id", s.getRole)
	api.Put("/roles/:id", s.updateRole)
	api.Delete("/roles/:id", s.deleteRole)
	api.Patch("/roles/:id/status", s.setStatus)
	api.Get("/permissions", s.listPermissions)

	return nil
}

func (s *Service) listRoles(c *fiber.Ctx) error {
	var q role.Query
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgBadRequest})
	}

	return s.send(c, fiber.StatusOK)(s.backend.ListRoles(c.UserContext(), q))
}

func (s *Service) getRole(c *fiber.Ctx) error {
	return s.send(c, fiber.StatusOK)(s.backend.GetRole(c.UserContext(), c.Params("id")))
}

func (s *Service) createRole(c *fiber.Ctx) error {
	var in role.Input
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgBadRequest})
	}

	return s.send(c, fiber.StatusCreated)(s.backend.CreateRole(c.UserContext(), in))
}

func (s *Service) updateRole(c *fiber.Ctx) error {
	var in role.Input
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgBadRequest})
	}

	return s.send(c, fiber.StatusOK)(s.backend.UpdateRole(c.UserContext(), c.Params("id"), in))
}

func (s *Service) deleteRole(c *fiber.Ctx) error {
	if err := s.backend.DeleteRole(c.UserContext(), c.Params("id")); err != nil {
		return s.failure(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) setStatus(c *fiber.Ctx) error {
	var body statusBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgBadRequest})
	}

	status, err := role.ParseStatus(body.Status)
	if err != nil {
		return s.failure(c, err)
	}

	return s.send(c, fiber.StatusOK)(s.backend.SetRoleStatus(c.UserContext(), c.Params("id"), status))
}

func (s *Service) listPermissions(c *fiber.Ctx) error {
	return s.send(c, fiber.StatusOK)(s.backend.ListPermissions(c.UserContext()))
}

// send writes an enveloped backend body or the error.
func (s *Service) send(c *fiber.Ctx, status int) func([]byte, error) error {
	return func(body []byte, err error) error {
		if err != nil {
			return s.failure(c, err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		return c.Status(status).Send(body)
	}
}

func (s *Service) failure(c *fiber.Ctx, err error) error {
	var verr *role.ValidationError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, role.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorBody{Error: MsgNotFound})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("role api request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: MsgInternal})
}
