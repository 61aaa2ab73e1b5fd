package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
)

// Review states of a reported payment
const (
	PaymentPendingReview = "pending_review"
	PaymentApproved      = "approved"
	PaymentRejected      = "rejected"
)

// Payment is a reported payment against one installment. It stays in
// pending_review until an admin approves or rejects it; only approval
// touches the installment.
type Payment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         string          `json:"loan_id" db:"loan_id"`
	InstallmentID  uuid.UUID       `json:"installment_id" db:"installment_id"`
	SequenceNumber int             `json:"sequence_number" db:"sequence_number"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Method         string          `json:"method" db:"method"`
	Note           string          `json:"note,omitempty" db:"note"`
	SubmittedBy    string          `json:"submitted_by" db:"submitted_by"`
	ReviewStatus   string          `json:"review_status" db:"review_status"`
	ReviewedBy     string          `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewComment  string          `json:"review_comment,omitempty" db:"review_comment"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type SubmitPaymentRequest struct {
	SequenceNumber int             `json:"sequence_number" validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Method         string          `json:"method" validate:"required,oneof=cash transfer card"`
	Note           string          `json:"note,omitempty"`
	SubmittedBy    string          `json:"submitted_by" validate:"required"`
}

type ReviewPaymentRequest struct {
	ReviewedBy string `json:"reviewed_by" validate:"required"`
	Comment    string `json:"comment,omitempty"`
}
