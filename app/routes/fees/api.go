package fees

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"kisa-schools/app/database"
	"kisa-schools/app/models"
	"kisa-schools/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetFeeSummaryAPI returns the school-wide assigned/collected/pending totals.
func GetFeeSummaryAPI(c *fiber.Ctx, db *sql.DB) error {
	summary, err := database.GetFeeSummary(db)
	if err != nil {
		log.Printf("Failed to load fee summary: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load fee summary")
	}
	return c.JSON(summary)
}

// GetFeeAssignmentsAPI returns all fee assignments with aggregated paid
// amounts, newest due date first.
func GetFeeAssignmentsAPI(c *fiber.Ctx, db *sql.DB) error {
	assignments, err := database.GetFeeAssignments(db)
	if err != nil {
		log.Printf("Failed to load fee assignments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load fee assignments")
	}
	if assignments == nil {
		assignments = []*models.FeeAssignment{}
	}
	return c.JSON(assignments)
}

// GetFeePaymentsAPI returns all recorded payments, newest first.
func GetFeePaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	payments, err := database.GetFeePayments(db)
	if err != nil {
		log.Printf("Failed to load fee payments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load fee payments")
	}
	if payments == nil {
		payments = []*models.FeePayment{}
	}
	return c.JSON(payments)
}

// RecordPaymentRequest is the payload for recording a fee payment.
type RecordPaymentRequest struct {
	AssignmentID  int     `json:"assignment_id" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
	TransactionRef string `json:"transaction_ref"`
}

// RecordPaymentAPI records a payment against an assignment. The payment row
// and the recomputed assignment status are committed together; the recorder
// identity comes from the authenticated caller.
func RecordPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Assignment id and a positive amount are required")
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Payment date must be YYYY-MM-DD")
		}
		paymentDate = parsed
	}

	payment := &models.FeePayment{
		AssignmentID:   req.AssignmentID,
		Amount:         req.Amount,
		PaymentDate:    paymentDate,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: req.TransactionRef,
	}
	if userID, ok := auth.CurrentUserID(c); ok {
		payment.RecordedBy = &userID
	}

	if err := database.AddFeePayment(db, payment); err != nil {
		log.Printf("Failed to record fee payment: %v", err)
		switch {
		case errors.Is(err, database.ErrInvalidInput):
			return fiber.NewError(fiber.StatusBadRequest, "Payment amount must be greater than zero")
		case errors.Is(err, database.ErrForeignKey):
			return fiber.NewError(fiber.StatusNotFound, "Fee assignment not found")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded",
		"payment": payment,
	})
}
