package models

// Role represents a user role (e.g., admin, bursar)
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Permission represents a fine-grained action a role can perform. Key is the
// globally unique permission key (e.g. "fees.view").
type Permission struct {
	ID          int    `json:"id"`
	Module      string `json:"module" validate:"required"`
	Key         string `json:"permission_key" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`

	// Selected is UI state for the role-permission editor. It is never
	// persisted; callers populate it per role before display.
	Selected bool `json:"selected"`
}

// RolePermission is the junction row granting one permission to one role.
// Grant sets are replaced wholesale by SaveRolePermissions, never patched
// row by row.
type RolePermission struct {
	ID           int    `json:"id"`
	RoleID       int    `json:"role_id"`
	PermissionID int    `json:"permission_id"`
	UpdatedBy    *int   `json:"updated_by,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}
