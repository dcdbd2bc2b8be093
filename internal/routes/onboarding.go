package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sellerbridge/sellerbridge/internal/onboarding"
)

// RegisterOnboardingRoutes wires the seller payment-onboarding endpoints.
func RegisterOnboardingRoutes(r fiber.Router, h *onboarding.Handler) {
	r.Post("/sellers/onboarding", h.CreateLink)
	r.Get("/sellers/account", h.AccountStatus)
}
