package onboarding

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sellerbridge/sellerbridge/internal/identity"
	"github.com/sellerbridge/sellerbridge/internal/middleware"
)

// Handler exposes HTTP endpoints for seller payment onboarding.
type Handler struct {
	service *Service
}

// NewHandler constructs an onboarding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLink ensures the seller has a payment account and returns a fresh
// onboarding link.
func (h *Handler) CreateLink(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	link, err := h.service.EnsureOnboardingLink(c.UserContext(), ident.Subject)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		case errors.Is(err, ErrProvisioningFailed):
			return fiber.NewError(http.StatusInternalServerError, "failed to create payment account link")
		default:
			return fiber.NewError(http.StatusInternalServerError, "failed to create payment account link")
		}
	}

	return c.Status(http.StatusOK).JSON(AccountLinkResponse{AccountLinkURL: link})
}

// AccountStatus reports the seller's payment account state. Never-onboarded
// sellers get an explicit null account rather than an error.
func (h *Handler) AccountStatus(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	status, err := h.service.AccountStatus(c.UserContext(), ident.Subject)
	if err != nil {
		if errors.Is(err, ErrRetrievalFailed) {
			return fiber.NewError(http.StatusInternalServerError, "failed to retrieve account status")
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to retrieve account status")
	}

	if !status.HasAccount {
		return c.Status(http.StatusOK).JSON(fiber.Map{"account": nil})
	}

	return c.Status(http.StatusOK).JSON(AccountStatusResponse{
		ID:             status.ID,
		Verified:       status.Verified,
		PayoutsEnabled: status.PayoutsEnabled,
		ChargesEnabled: status.ChargesEnabled,
	})
}
