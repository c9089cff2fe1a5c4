package models

import "time"

// Fee assignment status values. Status is derived from the payment history
// and never set directly by callers.
const (
	FeeStatusPending = "Pending"
	FeeStatusPartial = "Partial"
	FeeStatusPaid    = "Paid"
)

// FeeSummary holds the school-wide fee totals shown on the finance screen.
type FeeSummary struct {
	TotalAssigned  float64 `json:"total_assigned"`
	TotalCollected float64 `json:"total_collected"`
	TotalPending   float64 `json:"total_pending"`
}

// FeeAssignment is one student's obligation to pay a fee structure, with the
// paid amount aggregated from its payments. Student/class/section columns are
// denormalized display values owned by the student module; this module never
// writes them.
type FeeAssignment struct {
	ID             int        `json:"id"`
	StudentName    string     `json:"student_name"`
	GrNo           string     `json:"gr_no"`
	ClassName      string     `json:"class_name"`
	SectionName    string     `json:"section_name"`
	AssignedAmount float64    `json:"assigned_amount"`
	PaidAmount     float64    `json:"paid_amount"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Status         string     `json:"status"`
}

// Balance returns the amount still owed on the assignment.
func (a *FeeAssignment) Balance() float64 {
	return a.AssignedAmount - a.PaidAmount
}

// FeePayment is a single payment against a fee assignment. Payments are
// immutable once recorded.
type FeePayment struct {
	ID             int       `json:"id"`
	AssignmentID   int       `json:"assignment_id" validate:"required,gt=0"`
	StudentName    string    `json:"student_name,omitempty"`
	GrNo           string    `json:"gr_no,omitempty"`
	ClassName      string    `json:"class_name,omitempty"`
	SectionName    string    `json:"section_name,omitempty"`
	Amount         float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate    time.Time `json:"payment_date"`
	PaymentMethod  string    `json:"payment_method"`
	TransactionRef string    `json:"transaction_ref"`
	RecordedBy     *int      `json:"recorded_by,omitempty"`
}
