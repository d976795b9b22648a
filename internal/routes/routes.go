package routes

import (
	"metering-dashboard/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, dashboard controller.DashboardController) {
	app.Get("/dashboard/summary", dashboard.GetSummary)
	app.Get("/dashboard/tenants", dashboard.GetTenantUsage)
	app.Get("/dashboard/aggregates", dashboard.GetAggregates)
	app.Get("/events", dashboard.ListEvents)
	app.Post("/quota/check", dashboard.CheckQuota)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
