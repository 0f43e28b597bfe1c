package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/config"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/types"
)

var authCfg *config.Config

// UseConfig supplies the configuration the auth middleware needs to
// initialize the Authorizer client on the first authenticated request.
func UseConfig(cfg *config.Config) {
	authCfg = cfg
}

// AuthUser validates that the request has user role authorization
func AuthUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, []string{"user"}, "data.authorization.user")
	}
}

// AuthManager validates that the request has manager role authorization
func AuthManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, []string{"manager"}, "data.authorization.manager")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Initialize the Authorizer client lazily, from request context
	if !services.IsAuthorizerInitialized() && authCfg != nil {
		if err := services.InitAuthorizer(authCfg, c.Protocol(), c.Hostname()); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Authorizer unavailable: %v", err),
				Type:    errorType,
			}
		}
	}

	// Validate session
	user, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	// Set identity in context
	c.Locals("userID", user.ID)
	c.Locals("userEmail", user.Email)

	return c.Next()
}
