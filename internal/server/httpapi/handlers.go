package httpapi

import (
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Password strength beyond length: at least one uppercase letter, one
	// lowercase letter and one digit.
	_ = v.RegisterValidation("userpwd", func(fl validator.FieldLevel) bool {
		var hasUpper, hasLower, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		return hasUpper && hasLower && hasDigit
	})
	return v
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be valid JSON")
	}
	return validate.Struct(req)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,userpwd"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

func (s *HTTPServer) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := s.auth.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *HTTPServer) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := s.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

type resetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *HTTPServer) handleRequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	msg, err := s.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": msg})
}

type resetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,userpwd"`
}

func (s *HTTPServer) handleConfirmPasswordReset(c *fiber.Ctx) error {
	var req resetConfirmRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	msg, err := s.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": msg})
}

func (s *HTTPServer) handleGetProfile(c *fiber.Ctx) error {
	user, err := s.profiles.GetProfile(c.UserContext(), authenticatedUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(user)
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (s *HTTPServer) handleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.profiles.UpdateProfile(c.UserContext(), authenticatedUserID(c), req.Name)
	if err != nil {
		return err
	}

	return c.JSON(user)
}

func (s *HTTPServer) handleNotFound(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, "resource not found")
}
