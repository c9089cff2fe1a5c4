package database

import (
	"errors"
	"testing"
	"time"

	"kisa-schools/app/models"
)

func TestFeeStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		assigned float64
		paid     float64
		want     string
	}{
		{"nothing paid", 5000, 0, models.FeeStatusPending},
		{"negative paid", 5000, -10, models.FeeStatusPending},
		{"partial", 5000, 2000, models.FeeStatusPartial},
		{"exactly paid", 5000, 5000, models.FeeStatusPaid},
		{"overpaid", 5000, 5100, models.FeeStatusPaid},
		{"zero assigned zero paid", 0, 0, models.FeeStatusPending},
		{"zero assigned with payment", 0, 100, models.FeeStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeeStatusFor(tt.assigned, tt.paid); got != tt.want {
				t.Errorf("FeeStatusFor(%v, %v) = %q, want %q", tt.assigned, tt.paid, got, tt.want)
			}
		})
	}
}

func TestAssignmentBalance(t *testing.T) {
	a := &models.FeeAssignment{AssignedAmount: 5000, PaidAmount: 2000}
	if got := a.Balance(); got != 3000 {
		t.Errorf("Balance() = %v, want 3000", got)
	}
}

func TestAddFeePaymentRejectsNonPositiveAmount(t *testing.T) {
	// Validation fires before any database access.
	for _, amount := range []float64{0, -50} {
		err := AddFeePayment(nil, &models.FeePayment{AssignmentID: 1, Amount: amount})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddFeePayment(amount=%v) = %v, want ErrInvalidInput", amount, err)
		}
	}
}

func TestAddFeePaymentStatusTransitions(t *testing.T) {
	db := testDB(t)
	assignmentID := seedAssignment(t, db, 5000)

	pay := func(amount float64) {
		t.Helper()
		recordedBy := 7
		err := AddFeePayment(db, &models.FeePayment{
			AssignmentID:  assignmentID,
			Amount:        amount,
			PaymentDate:   time.Now(),
			PaymentMethod: "Cash",
			RecordedBy:    &recordedBy,
		})
		if err != nil {
			t.Fatalf("AddFeePayment(%v): %v", amount, err)
		}
	}
	status := func() string {
		t.Helper()
		var s string
		if err := db.QueryRow(`SELECT status FROM student_fee_assignments WHERE id = $1`, assignmentID).Scan(&s); err != nil {
			t.Fatalf("read status: %v", err)
		}
		return s
	}

	pay(2000)
	if got := status(); got != models.FeeStatusPartial {
		t.Errorf("after 2000 paid, status = %q, want Partial", got)
	}

	pay(3000)
	if got := status(); got != models.FeeStatusPaid {
		t.Errorf("after 5000 paid, status = %q, want Paid", got)
	}

	// Overpayment keeps the assignment Paid.
	pay(100)
	if got := status(); got != models.FeeStatusPaid {
		t.Errorf("after overpayment, status = %q, want Paid", got)
	}

	// The status always reflects the full payment sum.
	assignments, err := GetFeeAssignments(db)
	if err != nil {
		t.Fatalf("GetFeeAssignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(assignments))
	}
	if assignments[0].PaidAmount != 5100 {
		t.Errorf("PaidAmount = %v, want 5100", assignments[0].PaidAmount)
	}
	if assignments[0].Balance() != -100 {
		t.Errorf("Balance() = %v, want -100", assignments[0].Balance())
	}
}

func TestAddFeePaymentRollsBackOnMissingAssignment(t *testing.T) {
	db := testDB(t)
	seedAssignment(t, db, 5000)

	err := AddFeePayment(db, &models.FeePayment{
		AssignmentID: 9999,
		Amount:       100,
		PaymentDate:  time.Now(),
	})
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("AddFeePayment for missing assignment = %v, want ErrForeignKey", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM fee_payments`).Scan(&count); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Errorf("payment row persisted after failed transaction, count = %d", count)
	}
}

func TestGetFeeSummaryFloorsPendingAtZero(t *testing.T) {
	db := testDB(t)
	assignmentID := seedAssignment(t, db, 1000)

	// Overpay the only assignment so collections exceed assignments.
	err := AddFeePayment(db, &models.FeePayment{
		AssignmentID: assignmentID,
		Amount:       1500,
		PaymentDate:  time.Now(),
	})
	if err != nil {
		t.Fatalf("AddFeePayment: %v", err)
	}

	summary, err := GetFeeSummary(db)
	if err != nil {
		t.Fatalf("GetFeeSummary: %v", err)
	}
	if summary.TotalAssigned != 1000 {
		t.Errorf("TotalAssigned = %v, want 1000", summary.TotalAssigned)
	}
	if summary.TotalCollected != 1500 {
		t.Errorf("TotalCollected = %v, want 1500", summary.TotalCollected)
	}
	if summary.TotalPending != 0 {
		t.Errorf("TotalPending = %v, want 0", summary.TotalPending)
	}
}

func TestGetFeeAssignmentsShowsZeroPaidForUnpaid(t *testing.T) {
	db := testDB(t)
	seedAssignment(t, db, 2500)

	assignments, err := GetFeeAssignments(db)
	if err != nil {
		t.Fatalf("GetFeeAssignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(assignments))
	}
	a := assignments[0]
	if a.PaidAmount != 0 {
		t.Errorf("PaidAmount = %v, want 0", a.PaidAmount)
	}
	if a.StudentName != "Amina Yusuf" || a.ClassName != "Grade 5" || a.SectionName != "A" {
		t.Errorf("unexpected display columns: %+v", a)
	}
	if a.Status != models.FeeStatusPending {
		t.Errorf("Status = %q, want Pending", a.Status)
	}
}

func TestGetFeePaymentsNewestFirst(t *testing.T) {
	db := testDB(t)
	assignmentID := seedAssignment(t, db, 5000)

	older := time.Now().AddDate(0, 0, -2)
	newer := time.Now()
	for _, p := range []struct {
		amount float64
		date   time.Time
	}{{1000, older}, {2000, newer}} {
		err := AddFeePayment(db, &models.FeePayment{
			AssignmentID:  assignmentID,
			Amount:        p.amount,
			PaymentDate:   p.date,
			PaymentMethod: "Bank",
		})
		if err != nil {
			t.Fatalf("AddFeePayment: %v", err)
		}
	}

	payments, err := GetFeePayments(db)
	if err != nil {
		t.Fatalf("GetFeePayments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	if payments[0].Amount != 2000 || payments[1].Amount != 1000 {
		t.Errorf("payments not ordered newest first: %v then %v", payments[0].Amount, payments[1].Amount)
	}
	if payments[0].StudentName != "Amina Yusuf" {
		t.Errorf("StudentName = %q, want Amina Yusuf", payments[0].StudentName)
	}
}
