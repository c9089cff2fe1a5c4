package database

import (
	"database/sql"
	"time"

	"kisa-schools/app/models"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID int) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	return user, nil
}

// CreateUser inserts a user with a bcrypt-hashed password.
func CreateUser(db *sql.DB, user *models.User) error {
	hashed, err := HashPassword(user.Password)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (email, password, first_name, last_name, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			  RETURNING id`
	err = db.QueryRow(query, user.Email, hashed, user.FirstName, user.LastName).Scan(&user.ID)
	if err != nil {
		return translateDBError(err)
	}
	user.Password = hashed
	return nil
}

// AssignRoleByName grants a role to a user, creating the role if it does not
// exist yet.
func AssignRoleByName(db *sql.DB, userID int, roleName string) error {
	var roleID int
	err := db.QueryRow(`SELECT id FROM roles WHERE name = $1`, roleName).Scan(&roleID)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`
			INSERT INTO roles (name, created_at, updated_at)
			VALUES ($1, NOW(), NOW()) RETURNING id`, roleName).Scan(&roleID)
	}
	if err != nil {
		return translateDBError(err)
	}

	_, err = db.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
	return translateDBError(err)
}

// GetUserRoles returns the roles assigned to a user.
func GetUserRoles(db *sql.DB, userID int) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, translateDBError(err)
		}
		roles = append(roles, &role)
	}
	return roles, translateDBError(rows.Err())
}

// GetUserPermissionKeys returns the union of permission keys granted through
// all of a user's roles.
func GetUserPermissionKeys(db *sql.DB, userID int) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT p.permission_key
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1`
	rows, err := db.Query(query, userID)
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
		keys[key] = struct{}{}
	}
	return keys, translateDBError(rows.Err())
}

func CreateSession(db *sql.DB, sessionID string, userID int, expiresAt time.Time) error {
	query := `INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, NOW())`
	_, err := db.Exec(query, sessionID, userID, expiresAt)
	return translateDBError(err)
}

func GetSessionByID(db *sql.DB, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1 AND expires_at > NOW()`

	err := db.QueryRow(query, sessionID).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	return session, nil
}

func DeleteSession(db *sql.DB, sessionID string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
	return translateDBError(err)
}
