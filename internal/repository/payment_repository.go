package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/credovia/loan-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, installment_id, sequence_number, amount, method,
			note, submitted_by, review_status, reviewed_by, review_comment, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.InstallmentID,
		payment.SequenceNumber,
		payment.Amount,
		payment.Method,
		payment.Note,
		payment.SubmittedBy,
		payment.ReviewStatus,
		payment.ReviewedBy,
		payment.ReviewComment,
		payment.ReviewedAt,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_id, sequence_number, amount, method,
			note, submitted_by, review_status, reviewed_by, review_comment, reviewed_at, created_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_id, sequence_number, amount, method,
			note, submitted_by, review_status, reviewed_by, review_comment, reviewed_at, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY created_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) UpdateReview(ctx context.Context, id uuid.UUID, status, reviewedBy, comment string, reviewedAt time.Time) error {
	query := `
		UPDATE payments
		SET review_status = $2, reviewed_by = $3, review_comment = $4, reviewed_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, reviewedBy, comment, reviewedAt)
	return err
}
