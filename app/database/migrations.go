package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the role/permission schema objects if they are
// missing. It is idempotent and safe to re-run; it is called once at startup,
// before the server accepts traffic, so a broken schema fails fast instead of
// surfacing per-request.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	migrations := []struct {
		table  string
		create string
	}{
		{
			table: "roles",
			create: `
				CREATE TABLE IF NOT EXISTS roles (
					id SERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					description TEXT NULL,
					created_at TIMESTAMP NULL,
					updated_at TIMESTAMP NULL
				)`,
		},
		{
			table: "permissions",
			create: `
				CREATE TABLE IF NOT EXISTS permissions (
					id SERIAL PRIMARY KEY,
					module VARCHAR(100) NOT NULL,
					permission_key VARCHAR(150) NOT NULL UNIQUE,
					name VARCHAR(150) NOT NULL,
					description TEXT NULL
				)`,
		},
		{
			table: "role_permissions",
			create: `
				CREATE TABLE IF NOT EXISTS role_permissions (
					id SERIAL PRIMARY KEY,
					role_id INT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
					permission_id INT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
					updated_by INT NULL,
					updated_at TIMESTAMP NULL
				)`,
		},
		{
			table: "users",
			create: `
				CREATE TABLE IF NOT EXISTS users (
					id SERIAL PRIMARY KEY,
					email VARCHAR(150) NOT NULL UNIQUE,
					password VARCHAR(100) NOT NULL,
					first_name VARCHAR(100) NOT NULL DEFAULT '',
					last_name VARCHAR(100) NOT NULL DEFAULT '',
					is_active BOOLEAN NOT NULL DEFAULT true,
					is_deleted BOOLEAN NOT NULL DEFAULT false,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				)`,
		},
		{
			table: "user_roles",
			create: `
				CREATE TABLE IF NOT EXISTS user_roles (
					id SERIAL PRIMARY KEY,
					user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					role_id INT NOT NULL REFERENCES roles(id) ON DELETE CASCADE
				)`,
		},
		{
			table: "sessions",
			create: `
				CREATE TABLE IF NOT EXISTS sessions (
					id UUID PRIMARY KEY,
					user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					expires_at TIMESTAMP NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT NOW()
				)`,
		},
	}

	for _, m := range migrations {
		exists, err := tableExists(db, m.table)
		if err != nil {
			log.Printf("Failed to check table %s: %v", m.table, err)
			return translateDBError(err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(m.create); err != nil {
			log.Printf("Failed to create table %s: %v", m.table, err)
			return translateDBError(err)
		}
		log.Printf("Created table %s", m.table)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
