package fees

import (
	"kisa-schools/app/config"
	"kisa-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupFeesRoutes sets up the fee ledger routes
func SetupFeesRoutes(app *fiber.App) {
	fees := app.Group("/fees")
	fees.Use(auth.AuthMiddleware)

	feesAPI := app.Group("/api/fees")
	feesAPI.Use(auth.AuthMiddleware)

	// Web routes
	fees.Get("/", func(c *fiber.Ctx) error {
		return c.Render("fees/index", fiber.Map{
			"Title":       "Fees Management - Kisa Schools",
			"CurrentPage": "fees",
		})
	})

	// API routes
	feesAPI.Get("/summary", func(c *fiber.Ctx) error {
		return GetFeeSummaryAPI(c, config.GetDB())
	})

	feesAPI.Get("/assignments", func(c *fiber.Ctx) error {
		return GetFeeAssignmentsAPI(c, config.GetDB())
	})

	feesAPI.Get("/payments", func(c *fiber.Ctx) error {
		return GetFeePaymentsAPI(c, config.GetDB())
	})

	feesAPI.Post("/payments", auth.RequirePermission("fees.record_payment"), func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, config.GetDB())
	})
}
