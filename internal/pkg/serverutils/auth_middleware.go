package serverutils

import (
	"watch-party-be/internal/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by BearerAuthMiddleware.
const (
	LocalAuthUser  = "auth_user"
	LocalAuthToken = "auth_token"
)

// BearerAuthMiddleware verifies the bearer token against the external
// identity service and stores the resolved user plus the raw token on the
// request context. The token is opaque here; it is never parsed locally.
func BearerAuthMiddleware(client *identity.Client) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		token := authHeader[7:]

		user, err := client.Verify(ctx.UserContext(), token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Could not validate credentials"))
		}

		ctx.Locals(LocalAuthUser, user)
		ctx.Locals(LocalAuthToken, token)
		return ctx.Next()
	}
}
