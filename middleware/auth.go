package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/redis"
	"github.com/meinhoongagan/feastbook/utils"
)

// Keys under which Protected stores the principal in fiber locals.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// Protected accepts a valid, unrevoked access token and stores the principal
// in locals.
func Protected(secret string, denylist redis.TokenDenylist, log *zap.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		ErrorHandler:   jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "No authentication token")
			}
			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}

			claims, err := utils.ClaimsFromMap(mapClaims)
			if err != nil {
				log.Debug("rejecting token", zap.Error(err))
				return unauthorized(c, "Invalid token claims")
			}
			if claims.Type != utils.TokenAccess {
				return unauthorized(c, "Access token required")
			}

			revoked, err := denylist.Revoked(c.UserContext(), claims.ID)
			if err != nil {
				log.Error("token denylist lookup failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
					Message: "Could not verify session.",
					Error:   string(apperr.KindBackend),
				})
			}
			if revoked {
				return unauthorized(c, "Session has ended. Please log in again.")
			}

			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalRole, claims.Role)
			c.Locals(LocalClaims, claims)
			return c.Next()
		},
	})
}

// Principal returns what Protected stored in locals.
func Principal(c *fiber.Ctx) (uuid.UUID, models.Role, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := c.Locals(LocalRole).(models.Role)
	return id, role, ok
}

// TokenClaims returns the claims of the token that authenticated the request.
func TokenClaims(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*utils.Claims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: message,
		Error:   string(apperr.KindAuthentication),
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return unauthorized(c, "Invalid or expired token")
}
