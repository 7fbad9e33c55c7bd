package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/server/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	localRequestID = "request_id"
	localUserID    = "user_id"
	localUserEmail = "user_email"
)

// requestIDMiddleware makes sure every request carries an id, honoring a
// client-supplied X-Request-ID when present.
func (s *HTTPServer) requestIDMiddleware(c *fiber.Ctx) error {
	id := c.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(localRequestID, id)
	c.Set(headerRequestID, id)
	return c.Next()
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localRequestID).(string); ok {
		return id
	}
	return ""
}

// authMiddleware validates the bearer token and stores the caller identity
// in locals for downstream handlers.
func (s *HTTPServer) authMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Authorization header with bearer token is required")
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return common.ErrInvalidToken
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localUserEmail, claims.Email)
	return c.Next()
}

func authenticatedUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localUserID).(string); ok {
		return id
	}
	return ""
}
