package permissions

import (
	"database/sql"
	"errors"
	"log"

	"kisa-schools/app/database"
	"kisa-schools/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetRolesAPI returns all roles ordered by name.
func GetRolesAPI(c *fiber.Ctx, db *sql.DB) error {
	roles, err := database.GetAllRoles(db)
	if err != nil {
		log.Printf("Failed to load roles: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load roles")
	}
	if roles == nil {
		roles = []*models.Role{}
	}
	return c.JSON(roles)
}

// GetPermissionsAPI returns all permissions ordered by module then name.
// When a role_id query parameter is supplied, the Selected flag is populated
// against that role's current grant set.
func GetPermissionsAPI(c *fiber.Ctx, db *sql.DB) error {
	perms, err := database.GetAllPermissions(db)
	if err != nil {
		log.Printf("Failed to load permissions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load permissions")
	}
	if perms == nil {
		perms = []*models.Permission{}
	}

	if roleID := c.QueryInt("role_id"); roleID > 0 {
		keys, err := database.GetPermissionKeysForRole(db, roleID)
		if err != nil {
			log.Printf("Failed to load role permissions: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load role permissions")
		}
		for _, p := range perms {
			_, p.Selected = keys[p.Key]
		}
	}
	return c.JSON(perms)
}

// GetRolePermissionsAPI returns the permission keys granted to a role.
func GetRolePermissionsAPI(c *fiber.Ctx, db *sql.DB) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid role id")
	}

	keys, err := database.GetPermissionKeysForRole(db, roleID)
	if err != nil {
		log.Printf("Failed to load role permissions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load role permissions")
	}

	keyList := make([]string, 0, len(keys))
	for key := range keys {
		keyList = append(keyList, key)
	}
	return c.JSON(fiber.Map{"role_id": roleID, "permission_keys": keyList})
}

// SaveRolePermissionsRequest carries the full replacement grant set.
type SaveRolePermissionsRequest struct {
	PermissionKeys []string `json:"permission_keys"`
}

// SaveRolePermissionsAPI replaces a role's entire grant set. An empty list
// clears all grants. The updater identity comes from the authenticated
// caller.
func SaveRolePermissionsAPI(c *fiber.Ctx, db *sql.DB, updatedBy int) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid role id")
	}

	var req SaveRolePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := database.SaveRolePermissions(db, roleID, req.PermissionKeys, updatedBy); err != nil {
		log.Printf("Failed to save role permissions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save role permissions")
	}

	return c.JSON(fiber.Map{"message": "Permissions saved", "role_id": roleID})
}

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateRoleAPI creates a new role.
func CreateRoleAPI(c *fiber.Ctx, db *sql.DB, createdBy int) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Role name is required")
	}

	role, err := database.CreateRole(db, req.Name, req.Description, createdBy)
	if err != nil {
		log.Printf("Failed to create role: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create role")
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// CreatePermissionRequest is the payload for creating a permission.
type CreatePermissionRequest struct {
	Module      string `json:"module" validate:"required"`
	Key         string `json:"permission_key" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreatePermissionAPI creates a new permission. The permission key is
// globally unique; a duplicate fails with 409.
func CreatePermissionAPI(c *fiber.Ctx, db *sql.DB) error {
	var req CreatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Module, permission key and name are required")
	}

	perm, err := database.CreatePermission(db, req.Module, req.Key, req.Name, req.Description)
	if err != nil {
		log.Printf("Failed to create permission: %v", err)
		if errors.Is(err, database.ErrDuplicateKey) {
			return fiber.NewError(fiber.StatusConflict, "Permission key already exists")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create permission")
	}

	return c.Status(fiber.StatusCreated).JSON(perm)
}
