package database

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// testDB opens the database named by TEST_DATABASE_URL and prepares a clean
// schema. Tests that need a live PostgreSQL are skipped when the variable is
// unset.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	setupTestSchema(t, db)
	return db
}

// setupTestSchema creates the externally-owned tables the fee ledger joins
// against, runs the role/permission migrations, and truncates everything so
// each test starts empty.
func setupTestSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id SERIAL PRIMARY KEY,
			student_name TEXT NOT NULL,
			gr_no TEXT,
			class_id INT,
			section_id INT,
			is_deleted BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS fee_structures (
			id SERIAL PRIMARY KEY,
			amount NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS student_fee_assignments (
			id SERIAL PRIMARY KEY,
			student_id INT,
			fee_structure_id INT,
			due_date DATE,
			status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS fee_payments (
			id SERIAL PRIMARY KEY,
			student_fee_assignment_id INT NOT NULL REFERENCES student_fee_assignments(id),
			payment_date TIMESTAMP,
			amount NUMERIC NOT NULL,
			payment_method TEXT,
			transaction_ref TEXT,
			recorded_by INT,
			created_at TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	truncate := `TRUNCATE fee_payments, student_fee_assignments, fee_structures,
		students, classes, sections, role_permissions, permissions, roles
		RESTART IDENTITY CASCADE`
	if _, err := db.Exec(truncate); err != nil {
		t.Fatalf("failed to truncate test tables: %v", err)
	}
}

// seedAssignment inserts a student with class/section context, a fee
// structure of the given amount and one assignment, returning the
// assignment id.
func seedAssignment(t *testing.T, db *sql.DB, amount float64) int {
	t.Helper()

	var classID, sectionID, studentID, structureID, assignmentID int
	if err := db.QueryRow(`INSERT INTO classes (name) VALUES ('Grade 5') RETURNING id`).Scan(&classID); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if err := db.QueryRow(`INSERT INTO sections (name) VALUES ('A') RETURNING id`).Scan(&sectionID); err != nil {
		t.Fatalf("seed section: %v", err)
	}
	err := db.QueryRow(`
		INSERT INTO students (student_name, gr_no, class_id, section_id)
		VALUES ('Amina Yusuf', 'GR-1001', $1, $2) RETURNING id`, classID, sectionID).Scan(&studentID)
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	if err := db.QueryRow(`INSERT INTO fee_structures (amount) VALUES ($1) RETURNING id`, amount).Scan(&structureID); err != nil {
		t.Fatalf("seed fee structure: %v", err)
	}
	err = db.QueryRow(`
		INSERT INTO student_fee_assignments (student_id, fee_structure_id, due_date, status)
		VALUES ($1, $2, CURRENT_DATE + 30, 'Pending') RETURNING id`, studentID, structureID).Scan(&assignmentID)
	if err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return assignmentID
}
