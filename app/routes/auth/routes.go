package auth

import (
	"strings"

	"kisa-schools/app/config"
	"kisa-schools/app/database"
	"kisa-schools/app/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Get("/login", ShowLoginPage)
	auth.Post("/login", LoginAPI)
	auth.Post("/logout", LogoutAPI)
}

func ShowLoginPage(c *fiber.Ctx) error {
	// Check if already logged in
	if tokenString := c.Cookies("jwt_token"); tokenString != "" {
		if _, err := ValidateJWT(tokenString); err == nil {
			return c.Redirect("/dashboard")
		}
	}

	return c.Render("auth/login", fiber.Map{
		"Title": "Login - Kisa Schools",
	}, "")
}

// AuthMiddleware validates the JWT and sets user context.
func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	// First try cookie, then Authorization header
	tokenString = c.Cookies("jwt_token")
	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	isAPIRequest := strings.HasPrefix(c.Path(), "/api/")

	if tokenString == "" {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"error": "No token found"})
		}
		return c.Redirect("/auth/login")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
		}
		return c.Redirect("/auth/login")
	}

	user := &models.User{
		ID:        claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		IsActive:  true,
	}

	roles := make([]*models.Role, len(claims.Roles))
	for i, roleName := range claims.Roles {
		roles[i] = &models.Role{Name: roleName}
	}
	user.Roles = roles

	c.Locals("user_id", user.ID)
	c.Locals("user_email", user.Email)
	c.Locals("user_roles", roles)
	c.Locals("user", user)

	return c.Next()
}

// RequirePermission allows the request only when one of the caller's roles
// grants the permission key. The admin role passes unconditionally so a
// fresh install can be configured before any permissions exist.
func RequirePermission(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(int)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		if roles, ok := c.Locals("user_roles").([]*models.Role); ok {
			for _, role := range roles {
				if role.Name == "admin" {
					return c.Next()
				}
			}
		}

		keys, err := database.GetUserPermissionKeys(config.GetDB(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check permissions")
		}
		if _, granted := keys[key]; !granted {
			return fiber.NewError(fiber.StatusForbidden, "Permission denied")
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id. Write operations
// thread this through explicitly; there is no process-wide default identity.
func CurrentUserID(c *fiber.Ctx) (int, bool) {
	id, ok := c.Locals("user_id").(int)
	return id, ok
}
