package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error {
	loanQuery := `
		INSERT INTO loans (id, loan_id, principal, annual_rate_percent, installment_count, cadence,
			first_due_date, skip_weekends, weekend_adjustment, fixed_installment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	installmentQuery := `
		INSERT INTO installments (id, loan_id, sequence_number, due_date, opening_balance,
			interest_portion, principal_portion, total_due, closing_balance, status, amount_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.LoanID,
		loan.Principal,
		loan.AnnualRatePercent,
		loan.InstallmentCount,
		loan.Cadence,
		loan.FirstDueDate,
		loan.SkipWeekends,
		loan.WeekendAdjustment,
		loan.FixedInstallment,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, inst := range installments {
		_, err = tx.ExecContext(ctx, installmentQuery,
			inst.ID,
			inst.LoanID,
			inst.SequenceNumber,
			inst.DueDate,
			inst.OpeningBalance,
			inst.InterestPortion,
			inst.PrincipalPortion,
			inst.TotalDue,
			inst.ClosingBalance,
			inst.Status,
			inst.AmountPaid,
			inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT id, loan_id, principal, annual_rate_percent, installment_count, cadence,
			first_due_date, skip_weekends, weekend_adjustment, fixed_installment, status, created_at, updated_at
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID string, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, status, time.Now())
	return err
}

func (r *loanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, sequence_number, due_date, opening_balance,
			interest_portion, principal_portion, total_due, closing_balance, status, amount_paid, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence_number
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, loanID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetInstallment(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, sequence_number, due_date, opening_balance,
			interest_portion, principal_portion, total_due, closing_balance, status, amount_paid, created_at
		FROM installments
		WHERE id = $1
	`

	var inst domain.Installment
	err := r.db.GetContext(ctx, &inst, query, id)
	if err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *loanRepository) UpdateInstallmentPayment(ctx context.Context, id uuid.UUID, status domain.InstallmentStatus, amountPaid decimal.Decimal) error {
	query := `
		UPDATE installments
		SET status = $2, amount_paid = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, amountPaid)
	return err
}

func (r *loanRepository) MarkOverdueBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		UPDATE installments
		SET status = $1
		WHERE status IN ($2, $3) AND due_date < $4
		RETURNING loan_id
	`

	var loanIDs []string
	err := r.db.SelectContext(ctx, &loanIDs, query,
		domain.InstallmentOverdue,
		domain.InstallmentPending,
		domain.InstallmentPartial,
		cutoff,
	)
	if err != nil {
		return nil, err
	}

	return loanIDs, nil
}
