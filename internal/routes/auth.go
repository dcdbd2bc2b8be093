package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sellerbridge/sellerbridge/internal/identity"
	"github.com/sellerbridge/sellerbridge/internal/middleware"
)

// RegisterAuthRoutes wires the login-upsert endpoint. The bearer credential
// is verified by the gate; the handler only materializes the local record.
func RegisterAuthRoutes(r fiber.Router, users *identity.Service, rateLimiter, gate fiber.Handler) {
	r.Post("/auth/login", rateLimiter, gate, func(c *fiber.Ctx) error {
		ident, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}

		user, err := users.EnsureUser(c.UserContext(), ident)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "something went wrong")
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"id":                 user.ID,
			"email":              user.Email,
			"name":               user.Name,
			"payment_account_id": user.PaymentAccountID,
		})
	})
}
