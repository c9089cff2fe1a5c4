package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"kisa-schools/app/models"
)

// GetDashboardCounts returns the headline counters for the admin dashboard.
// A failing counter is logged and reported as zero so one missing table does
// not blank the whole page.
func GetDashboardCounts(db *sql.DB) *models.DashboardCounts {
	counts := &models.DashboardCounts{}

	counts.TotalStudents = countOrZero(db,
		`SELECT COUNT(*) FROM students WHERE is_deleted = false OR is_deleted IS NULL`)
	counts.TotalTeachers = countOrZero(db,
		`SELECT COUNT(*) FROM teachers WHERE is_active = true OR is_active IS NULL`)
	counts.TotalDonors = countOrZero(db,
		`SELECT COUNT(*) FROM donors`)
	counts.TotalUsers = countOrZero(db,
		`SELECT COUNT(*) FROM users WHERE is_deleted = false OR is_deleted IS NULL`)
	counts.PendingFees = countOrZero(db,
		`SELECT COUNT(*) FROM student_fee_assignments WHERE status IS NULL OR status <> 'Paid'`)

	return counts
}

// GetRecentActivities returns the newest activity feed entries: student
// registrations, fee payments and donor additions, merged and sorted by time.
func GetRecentActivities(db *sql.DB, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = 6
	}

	query := `
		SELECT activity, activity_time
		FROM (
			SELECT 'Student registered: ' || student_name AS activity,
			       created_at AS activity_time
			FROM students

			UNION ALL

			SELECT 'Fee payment received from ' || COALESCE(s.student_name, 'Student') AS activity,
			       fp.payment_date AS activity_time
			FROM fee_payments fp
			LEFT JOIN student_fee_assignments sfa ON fp.student_fee_assignment_id = sfa.id
			LEFT JOIN students s ON sfa.student_id = s.id

			UNION ALL

			SELECT 'New donor added: ' || name AS activity,
			       created_at AS activity_time
			FROM donors
		) activities
		WHERE activity_time IS NOT NULL
		ORDER BY activity_time DESC
		LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		var text sql.NullString
		var at sql.NullTime

		if err := rows.Scan(&text, &at); err != nil {
			return nil, translateDBError(err)
		}
		a.Activity = stringOr(text, "Recent update")
		a.TimeAgo = "recently"
		if at.Valid {
			a.RawTime = at.Time
			a.TimeAgo = timeAgo(at.Time)
		}
		activities = append(activities, a)
	}
	return activities, translateDBError(rows.Err())
}

func countOrZero(db *sql.DB, query string) int {
	var count int
	if err := db.QueryRow(query).Scan(&count); err != nil {
		log.Printf("Dashboard count failed (%s): %v", query, err)
		return 0
	}
	return count
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
