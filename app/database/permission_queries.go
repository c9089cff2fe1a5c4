package database

import (
	"database/sql"
	"strings"
	"time"

	"kisa-schools/app/models"
)

// GetAllRoles returns every role ordered by name.
func GetAllRoles(db *sql.DB) ([]*models.Role, error) {
	rows, err := db.Query(`
		SELECT id, name, description, created_at, updated_at
		FROM roles
		ORDER BY name`)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		var description sql.NullString
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&role.ID, &role.Name, &description, &createdAt, &updatedAt); err != nil {
			return nil, translateDBError(err)
		}
		role.Description = description.String
		if createdAt.Valid {
			role.CreatedAt = createdAt.Time.Format("2006-01-02 15:04")
		}
		if updatedAt.Valid {
			role.UpdatedAt = updatedAt.Time.Format("2006-01-02 15:04")
		}
		roles = append(roles, role)
	}
	return roles, translateDBError(rows.Err())
}

// GetAllPermissions returns every permission ordered by module then name.
// Selected defaults to false; callers flip it per role before display.
func GetAllPermissions(db *sql.DB) ([]*models.Permission, error) {
	rows, err := db.Query(`
		SELECT id, module, permission_key, name, description
		FROM permissions
		ORDER BY module, name`)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var permissions []*models.Permission
	for rows.Next() {
		p := &models.Permission{}
		var description sql.NullString

		if err := rows.Scan(&p.ID, &p.Module, &p.Key, &p.Name, &description); err != nil {
			return nil, translateDBError(err)
		}
		p.Description = description.String
		permissions = append(permissions, p)
	}
	return permissions, translateDBError(rows.Err())
}

// GetPermissionKeysForRole returns the set of permission keys currently
// granted to a role.
func GetPermissionKeysForRole(db *sql.DB, roleID int) (map[string]struct{}, error) {
	rows, err := db.Query(`
		SELECT p.permission_key
		FROM role_permissions rp
		JOIN permissions p ON rp.permission_id = p.id
		WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, translateDBError(err)
		}
		if key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys, translateDBError(rows.Err())
}

// SaveRolePermissions replaces a role's entire grant set: every existing
// role_permissions row for the role is deleted, then one row is inserted per
// supplied key, all in a single transaction. A key with no matching
// permission inserts nothing. On any failure the prior grant set is left
// intact.
func SaveRolePermissions(db *sql.DB, roleID int, permissionKeys []string, updatedBy int) error {
	tx, err := db.Begin()
	if err != nil {
		return translateDBError(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return translateDBError(err)
	}

	insertQuery := `
		INSERT INTO role_permissions (role_id, permission_id, updated_by, updated_at)
		SELECT $1, p.id, $2, $3
		FROM permissions p
		WHERE p.permission_key = $4`
	now := time.Now()
	for _, key := range permissionKeys {
		if _, err := tx.Exec(insertQuery, roleID, updatedBy, now, key); err != nil {
			return translateDBError(err)
		}
	}

	return translateDBError(tx.Commit())
}

// CreateRole inserts a new role. A blank description is stored as NULL.
func CreateRole(db *sql.DB, name, description string, createdBy int) (*models.Role, error) {
	role := &models.Role{Name: name, Description: strings.TrimSpace(description)}
	now := time.Now()

	err := db.QueryRow(`
		INSERT INTO roles (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id`,
		name, nullIfBlank(description), now,
	).Scan(&role.ID)
	if err != nil {
		return nil, translateDBError(err)
	}
	role.CreatedAt = now.Format("2006-01-02 15:04")
	role.UpdatedAt = role.CreatedAt
	return role, nil
}

// CreatePermission inserts a new permission. The permission key is unique;
// inserting a duplicate fails with ErrDuplicateKey.
func CreatePermission(db *sql.DB, module, key, name, description string) (*models.Permission, error) {
	p := &models.Permission{Module: module, Key: key, Name: name, Description: strings.TrimSpace(description)}

	err := db.QueryRow(`
		INSERT INTO permissions (module, permission_key, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		module, key, name, nullIfBlank(description),
	).Scan(&p.ID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return p, nil
}

func nullIfBlank(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
