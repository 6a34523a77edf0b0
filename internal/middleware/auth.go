package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"saveit/internal/db"
	"saveit/internal/models"
)

// SessionUserKey is the session key holding the signed-in user's OIDC subject.
const SessionUserKey = "user_sub"

// UserLookup resolves a session's subject to a user.
type UserLookup interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	users UserLookup
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// sessionUser returns the signed-in user or nil. A session whose user no
// longer exists is destroyed.
func (m *AuthMiddleware) sessionUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, _ := sess.Get(SessionUserKey).(string)
	if sub == "" {
		return nil
	}

	user, err := m.users.GetUserBySub(c.Context(), sub)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			sess.Destroy()
		} else {
			slog.Error("failed to load session user", "error", err)
		}
		return nil
	}
	return user
}

// RequireAuth ensures the user is authenticated, answering 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.sessionUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.sessionUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}
