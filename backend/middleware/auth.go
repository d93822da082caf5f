package middleware

import (
	"coursepanel/backend/config"
	"coursepanel/backend/store"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("userId", userID)
		return c.Next()
	}
}

// AdminMiddleware allows only users whose role is admin through.
func AdminMiddleware(cfg *config.Config, users *store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, ok := users.FetchByID(userID)
		if !ok || user.RoleName != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - Admin access required",
			})
		}

		c.Locals("userId", userID)
		return c.Next()
	}
}
