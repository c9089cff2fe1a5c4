package permissions

import (
	"kisa-schools/app/config"
	"kisa-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupPermissionsRoutes sets up role and permission management routes
func SetupPermissionsRoutes(app *fiber.App) {
	roles := app.Group("/roles")
	roles.Use(auth.AuthMiddleware)

	rolesAPI := app.Group("/api/roles")
	rolesAPI.Use(auth.AuthMiddleware)

	permissionsAPI := app.Group("/api/permissions")
	permissionsAPI.Use(auth.AuthMiddleware)

	// Web routes
	roles.Get("/", func(c *fiber.Ctx) error {
		return c.Render("permissions/index", fiber.Map{
			"Title":       "Roles & Permissions - Kisa Schools",
			"CurrentPage": "roles",
		})
	})

	// API routes
	rolesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetRolesAPI(c, config.GetDB())
	})

	rolesAPI.Post("/", auth.RequirePermission("settings.manage_roles"), func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		return CreateRoleAPI(c, config.GetDB(), userID)
	})

	rolesAPI.Get("/:id/permissions", func(c *fiber.Ctx) error {
		return GetRolePermissionsAPI(c, config.GetDB())
	})

	rolesAPI.Put("/:id/permissions", auth.RequirePermission("settings.manage_roles"), func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		return SaveRolePermissionsAPI(c, config.GetDB(), userID)
	})

	permissionsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetPermissionsAPI(c, config.GetDB())
	})

	permissionsAPI.Post("/", auth.RequirePermission("settings.manage_roles"), func(c *fiber.Ctx) error {
		return CreatePermissionAPI(c, config.GetDB())
	})
}
