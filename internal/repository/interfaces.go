package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// CreateWithSchedule stores a loan and its freshly generated
	// schedule in one transaction, so no loan row can exist without
	// its installments
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// UpdateStatus updates a loan's lifecycle status
	UpdateStatus(ctx context.Context, loanID string, status string) error

	// GetInstallmentsByLoanID retrieves a loan's schedule ordered by sequence number
	GetInstallmentsByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error)

	// GetInstallment retrieves one installment row by ID
	GetInstallment(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// UpdateInstallmentPayment updates the mutable fields of an installment
	UpdateInstallmentPayment(ctx context.Context, id uuid.UUID, status domain.InstallmentStatus, amountPaid decimal.Decimal) error

	// MarkOverdueBefore flips pending/partial installments due before
	// the cutoff to overdue, returning the loan ID of every changed
	// row (one entry per row, so duplicates mean multiple rows)
	MarkOverdueBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// PaymentRepository defines the interface for reported-payment data operations
type PaymentRepository interface {
	// Create creates a new payment record awaiting review
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// GetByLoanID retrieves all payments reported against a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)

	// UpdateReview records the outcome of an admin review
	UpdateReview(ctx context.Context, id uuid.UUID, status, reviewedBy, comment string, reviewedAt time.Time) error
}
