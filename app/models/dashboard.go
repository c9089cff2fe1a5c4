package models

import "time"

// DashboardCounts are the headline counters on the admin dashboard.
type DashboardCounts struct {
	TotalStudents int `json:"total_students"`
	TotalTeachers int `json:"total_teachers"`
	TotalDonors   int `json:"total_donors"`
	TotalUsers    int `json:"total_users"`
	PendingFees   int `json:"pending_fees"`
}

// Activity is a recent-activity feed entry.
type Activity struct {
	Activity string    `json:"activity"`
	TimeAgo  string    `json:"time_ago"`
	RawTime  time.Time `json:"-"`
}
