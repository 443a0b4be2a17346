package middleware

import (
	"context"

	common_models "deskwise/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

const (
	OrgHeader   = "X-Org-ID"
	ActorHeader = "X-User-ID"
)

// TenantMiddleware copies the organisation and acting user headers set by
// the gateway onto the request context. Requests without an organisation
// are rejected.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID := c.Get(OrgHeader)
		if orgID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": OrgHeader + " header is required",
			})
		}

		ctx := context.WithValue(c.UserContext(), common_models.TenantIDKey, orgID)
		if actor := c.Get(ActorHeader); actor != "" {
			ctx = context.WithValue(ctx, common_models.ActorIDKey, actor)
		}
		c.SetUserContext(ctx)
		c.Locals("orgID", orgID)
		return c.Next()
	}
}

// OrgID returns the organisation resolved by TenantMiddleware.
func OrgID(c *fiber.Ctx) string {
	return common_models.TenantFromContext(c.UserContext())
}
