package dashboard

import (
	"log"

	"kisa-schools/app/config"
	"kisa-schools/app/database"
	"kisa-schools/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard renders the dashboard page
func GetDashboard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	return c.Render("dashboard/index", fiber.Map{
		"Title":       "Dashboard - Kisa Schools",
		"CurrentPage": "dashboard",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
	})
}

// GetDashboardStatsAPI returns dashboard counters and recent activity as JSON
func GetDashboardStatsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	counts := database.GetDashboardCounts(db)

	activities, err := database.GetRecentActivities(db, 6)
	if err != nil {
		log.Printf("Failed to load recent activities: %v", err)
		activities = []*models.Activity{}
	}

	return c.JSON(fiber.Map{
		"counts":            counts,
		"recent_activities": activities,
	})
}
