package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/utils"
)

// RequireRole lets the request through only when the token's role matches.
// It must run after Protected.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, got, ok := Principal(c)
		if !ok {
			return unauthorized(c, "No authentication token")
		}
		if got != role {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: fmt.Sprintf("Only %ss can perform this action.", role),
				Error:   string(apperr.KindForbidden),
			})
		}
		return c.Next()
	}
}
