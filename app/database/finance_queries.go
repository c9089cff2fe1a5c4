package database

import (
	"database/sql"
	"fmt"
	"time"

	"kisa-schools/app/models"
)

// GetFeeSummary returns the school-wide assigned/collected/pending totals.
// TotalPending floors at zero so overpayments never report a negative
// outstanding balance.
func GetFeeSummary(db *sql.DB) (*models.FeeSummary, error) {
	summary := &models.FeeSummary{}

	err := db.QueryRow(`
		SELECT COALESCE(SUM(fs.amount), 0)
		FROM student_fee_assignments sfa
		JOIN fee_structures fs ON sfa.fee_structure_id = fs.id
	`).Scan(&summary.TotalAssigned)
	if err != nil {
		return nil, translateDBError(err)
	}

	err = db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM fee_payments`).
		Scan(&summary.TotalCollected)
	if err != nil {
		return nil, translateDBError(err)
	}

	summary.TotalPending = summary.TotalAssigned - summary.TotalCollected
	if summary.TotalPending < 0 {
		summary.TotalPending = 0
	}
	return summary, nil
}

// GetFeeAssignments returns every fee assignment with its paid amount
// aggregated over payments. Assignments with no payments appear with a paid
// amount of zero. Ordered by due date descending with NULL due dates last,
// then id descending.
func GetFeeAssignments(db *sql.DB) ([]*models.FeeAssignment, error) {
	query := `
		SELECT sfa.id,
		       s.student_name,
		       s.gr_no,
		       c.name AS class_name,
		       se.name AS section_name,
		       fs.amount AS assigned_amount,
		       sfa.due_date,
		       sfa.status,
		       COALESCE(SUM(fp.amount), 0) AS paid_amount
		FROM student_fee_assignments sfa
		JOIN fee_structures fs ON sfa.fee_structure_id = fs.id
		LEFT JOIN students s ON sfa.student_id = s.id
		LEFT JOIN classes c ON s.class_id = c.id
		LEFT JOIN sections se ON s.section_id = se.id
		LEFT JOIN fee_payments fp ON fp.student_fee_assignment_id = sfa.id
		GROUP BY sfa.id, s.student_name, s.gr_no, c.name, se.name, fs.amount, sfa.due_date, sfa.status
		ORDER BY sfa.due_date DESC NULLS LAST, sfa.id DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var assignments []*models.FeeAssignment
	for rows.Next() {
		a := &models.FeeAssignment{}
		var studentName, grNo, className, sectionName, status sql.NullString
		var dueDate sql.NullTime

		err := rows.Scan(
			&a.ID, &studentName, &grNo, &className, &sectionName,
			&a.AssignedAmount, &dueDate, &status, &a.PaidAmount,
		)
		if err != nil {
			return nil, translateDBError(err)
		}

		a.StudentName = stringOr(studentName, "Unknown")
		a.GrNo = stringOr(grNo, "N/A")
		a.ClassName = stringOr(className, "N/A")
		a.SectionName = stringOr(sectionName, "N/A")
		a.Status = stringOr(status, models.FeeStatusPending)
		if dueDate.Valid {
			d := dueDate.Time
			a.DueDate = &d
		}
		assignments = append(assignments, a)
	}
	return assignments, translateDBError(rows.Err())
}

// GetFeePayments returns all recorded payments with student/class/section
// context, newest first.
func GetFeePayments(db *sql.DB) ([]*models.FeePayment, error) {
	query := `
		SELECT fp.id,
		       fp.student_fee_assignment_id,
		       fp.payment_date,
		       fp.amount,
		       fp.payment_method,
		       fp.transaction_ref,
		       fp.recorded_by,
		       s.student_name,
		       s.gr_no,
		       c.name AS class_name,
		       se.name AS section_name
		FROM fee_payments fp
		LEFT JOIN student_fee_assignments sfa ON fp.student_fee_assignment_id = sfa.id
		LEFT JOIN students s ON sfa.student_id = s.id
		LEFT JOIN classes c ON s.class_id = c.id
		LEFT JOIN sections se ON s.section_id = se.id
		ORDER BY fp.payment_date DESC, fp.id DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var payments []*models.FeePayment
	for rows.Next() {
		p := &models.FeePayment{}
		var assignmentID, recordedBy sql.NullInt64
		var method, ref, studentName, grNo, className, sectionName sql.NullString
		var paymentDate sql.NullTime

		err := rows.Scan(
			&p.ID, &assignmentID, &paymentDate, &p.Amount, &method, &ref,
			&recordedBy, &studentName, &grNo, &className, &sectionName,
		)
		if err != nil {
			return nil, translateDBError(err)
		}

		if assignmentID.Valid {
			p.AssignmentID = int(assignmentID.Int64)
		}
		if paymentDate.Valid {
			p.PaymentDate = paymentDate.Time
		} else {
			p.PaymentDate = time.Now()
		}
		p.PaymentMethod = stringOr(method, "N/A")
		p.TransactionRef = stringOr(ref, "")
		p.StudentName = stringOr(studentName, "Unknown")
		p.GrNo = stringOr(grNo, "N/A")
		p.ClassName = stringOr(className, "N/A")
		p.SectionName = stringOr(sectionName, "N/A")
		if recordedBy.Valid {
			rb := int(recordedBy.Int64)
			p.RecordedBy = &rb
		}
		payments = append(payments, p)
	}
	return payments, translateDBError(rows.Err())
}

// AddFeePayment records a payment and recomputes the assignment status in one
// transaction. Either both the payment row and the status update are
// persisted, or neither is.
func AddFeePayment(db *sql.DB, payment *models.FeePayment) error {
	if payment.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be greater than zero", ErrInvalidInput)
	}

	tx, err := db.Begin()
	if err != nil {
		return translateDBError(err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO fee_payments (student_fee_assignment_id, payment_date, amount, payment_method, transaction_ref, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`
	err = tx.QueryRow(query,
		payment.AssignmentID,
		payment.PaymentDate,
		payment.Amount,
		payment.PaymentMethod,
		payment.TransactionRef,
		payment.RecordedBy,
	).Scan(&payment.ID)
	if err != nil {
		return translateDBError(err)
	}

	if err := updateAssignmentStatus(tx, payment.AssignmentID); err != nil {
		return err
	}

	return translateDBError(tx.Commit())
}

// updateAssignmentStatus re-derives the assignment status from the source
// rows: the assigned amount via the fee structure and the full payment sum,
// not just the latest insert. Running it twice with no new payments is a
// no-op, so concurrent recomputes converge on the same status.
func updateAssignmentStatus(tx *sql.Tx, assignmentID int) error {
	var assignedAmount float64
	err := tx.QueryRow(`
		SELECT fs.amount
		FROM student_fee_assignments sfa
		JOIN fee_structures fs ON sfa.fee_structure_id = fs.id
		WHERE sfa.id = $1
	`, assignmentID).Scan(&assignedAmount)
	if err == sql.ErrNoRows {
		assignedAmount = 0
	} else if err != nil {
		return translateDBError(err)
	}

	var paidAmount float64
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM fee_payments WHERE student_fee_assignment_id = $1
	`, assignmentID).Scan(&paidAmount)
	if err != nil {
		return translateDBError(err)
	}

	status := FeeStatusFor(assignedAmount, paidAmount)

	_, err = tx.Exec(`UPDATE student_fee_assignments SET status = $1 WHERE id = $2`,
		status, assignmentID)
	return translateDBError(err)
}

// FeeStatusFor classifies an assignment: Pending when nothing is paid, Paid
// when the paid sum covers the assigned amount, Partial otherwise.
func FeeStatusFor(assignedAmount, paidAmount float64) string {
	switch {
	case paidAmount <= 0:
		return models.FeeStatusPending
	case paidAmount >= assignedAmount:
		return models.FeeStatusPaid
	default:
		return models.FeeStatusPartial
	}
}

func stringOr(s sql.NullString, fallback string) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return fallback
}
