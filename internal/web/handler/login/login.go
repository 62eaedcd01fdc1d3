// Package login provides the sign-in page.
package login

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/gate"
	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/session"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/middleware/auth"
	websession "github.com/inheritx/hr-portal/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = gate.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// MsgAuthFailure is shown for every rejected login; it never names the wrong factor.
	MsgAuthFailure = "Invalid email or password"
	// MsgInvalidForm is shown when the form cannot be parsed.
	MsgInvalidForm = "Invalid form data"
	// MsgUnavailable is shown when the credential store or session storage fails.
	MsgUnavailable = "Sign-in is temporarily unavailable, please try again"
)

// Form is the submitted login form. Role is the role the user signs in as;
// empty accepts whatever role is on record.
type Form struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,max=128"`
	Role     string `form:"role" validate:"omitempty,oneof=employee hr"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	sessions  *websession.Factory
	validator *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Sessions == nil {
		return errors.New("app or sessions is nil")
	}

	s.sessions = deps.Sessions
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.GuestOnly, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, view(Form{}, ""))
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse login form")
		return c.Status(fiber.StatusBadRequest).Render(TemplateName, view(Form{}, MsgInvalidForm))
	}

	form.Email = strings.TrimSpace(form.Email)
	form.Role = strings.ToLower(strings.TrimSpace(form.Role))

	if err := s.validator.Struct(form); err != nil {
		return c.Status(fiber.StatusUnauthorized).Render(TemplateName, view(*form, MsgAuthFailure))
	}

	ok, err := s.sessions.Login(c, session.Credentials{
		Email:        form.Email,
		Password:     form.Password,
		ExpectedRole: identity.RoleTag(form.Role),
	})
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		return c.Status(fiber.StatusServiceUnavailable).Render(TemplateName, view(*form, MsgUnavailable))
	}

	if !ok {
		log.Info().Str("email", identity.NormalizeEmail(form.Email)).Msg("rejected login")
		return c.Status(fiber.StatusUnauthorized).Render(TemplateName, view(*form, MsgAuthFailure))
	}

	return c.Redirect(gate.HomePath)
}

func view(form Form, errMsg string) fiber.Map {
	data := fiber.Map{
		"Email": form.Email,
		"Role":  form.Role,
		"Roles": identity.Roles(),
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return data
}
