package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/amortization"
	"github.com/credovia/loan-engine/internal/config"
	"github.com/credovia/loan-engine/internal/domain"
	"github.com/credovia/loan-engine/internal/repository"
	customError "github.com/credovia/loan-engine/pkg/errors"
)

const scheduleCacheTTL = 10 * time.Minute

// BillingService orchestrates schedule generation, schedule reads and
// the payment review workflow. The amortization math itself lives in
// internal/amortization; this layer owns persistence and caching.
type BillingService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	redis       *redis.Client
	config      *config.Config
}

func NewBillingService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *BillingService {
	return &BillingService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		redis:       redisClient,
		config:      cfg,
	}
}

// CreateLoan creates a loan and its full amortization schedule in one
// shot. The schedule is generated atomically at approval time and is
// never regenerated afterwards.
func (s *BillingService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.Installment, error) {
	existingLoan, err := s.loanRepo.GetByLoanID(ctx, request.LoanID)
	if err == nil && existingLoan != nil {
		return nil, nil, customError.WrapLoanAlreadyExists(request.LoanID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	terms, err := s.termsFromRequest(request)
	if err != nil {
		return nil, nil, err
	}

	schedule, err := amortization.Generate(request.LoanID, terms)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	for _, inst := range schedule {
		inst.CreatedAt = now
	}

	loan := &domain.Loan{
		ID:                uuid.New(),
		LoanID:            request.LoanID,
		Principal:         terms.Principal,
		AnnualRatePercent: terms.AnnualRatePercent,
		InstallmentCount:  terms.InstallmentCount,
		Cadence:           terms.Cadence,
		FirstDueDate:      terms.FirstDueDate,
		SkipWeekends:      terms.SkipWeekends,
		WeekendAdjustment: terms.WeekendAdjustment,
		FixedInstallment:  schedule[0].TotalDue,
		Status:            domain.LoanStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = s.loanRepo.CreateWithSchedule(ctx, loan, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, request.LoanID, schedule)

	return loan, schedule, nil
}

// termsFromRequest builds LoanTerms from the request, filling gaps
// with the configured business defaults. Generation only ever sees
// the resulting explicit value.
func (s *BillingService) termsFromRequest(request *domain.CreateLoanRequest) (domain.LoanTerms, error) {
	firstDue, err := time.Parse("2006-01-02", request.FirstDueDate)
	if err != nil {
		return domain.LoanTerms{}, customError.WrapInvalidTerms("first_due_date must be formatted as YYYY-MM-DD")
	}

	rate := request.AnnualRatePercent
	if rate.IsZero() && s.config != nil {
		rate = s.config.DefaultAnnualRate()
	}

	skipWeekends := s.config != nil && s.config.Business.DefaultSkipWeekends
	if request.SkipWeekends != nil {
		skipWeekends = *request.SkipWeekends
	}

	adjustment := request.WeekendAdjustment
	if adjustment == "" && s.config != nil {
		adjustment = s.config.DefaultWeekendAdjustment()
	}

	terms := domain.LoanTerms{
		Principal:         request.Principal,
		AnnualRatePercent: rate,
		InstallmentCount:  request.InstallmentCount,
		Cadence:           request.Cadence,
		FirstDueDate:      firstDue,
		SkipWeekends:      skipWeekends,
		WeekendAdjustment: adjustment,
	}

	return terms, terms.Validate()
}

// GetSchedule returns a loan's full schedule, reading through the
// Redis cache when one is configured.
func (s *BillingService) GetSchedule(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	if cached, ok := s.cachedSchedule(ctx, loanID); ok {
		return cached, nil
	}

	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	schedule, err := s.loanRepo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, loanID, schedule)

	return schedule, nil
}

// GetOutstanding returns the remaining loan balance: the opening
// balance of the first installment still expecting money.
func (s *BillingService) GetOutstanding(ctx context.Context, loanID string) (decimal.Decimal, error) {
	schedule, err := s.GetSchedule(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	return amortization.OutstandingBalance(schedule), nil
}

// GetProgress returns payment progress and schedule aggregates.
func (s *BillingService) GetProgress(ctx context.Context, loanID string) (*domain.ProgressResponse, error) {
	schedule, err := s.GetSchedule(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return &domain.ProgressResponse{
		LoanID:          loanID,
		ProgressPercent: amortization.ProgressPercent(schedule),
		TotalDue:        amortization.TotalDue(schedule),
		TotalInterest:   amortization.TotalInterest(schedule),
		NextDue:         amortization.NextDueInstallment(schedule),
	}, nil
}

// SubmitPayment records a reported payment against an installment.
// The installment itself is untouched until an admin approves the
// payment.
func (s *BillingService) SubmitPayment(ctx context.Context, loanID string, request *domain.SubmitPaymentRequest) (*domain.Payment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	schedule, err := s.loanRepo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var target *domain.Installment
	for _, inst := range schedule {
		if inst.SequenceNumber == request.SequenceNumber {
			target = inst
			break
		}
	}
	if target == nil {
		return nil, customError.WrapInstallmentNotFound(loanID, request.SequenceNumber)
	}

	// Dry-run the transition so a payment against a settled row is
	// rejected at submission time, not at review time.
	if _, err = domain.NextStatus(target.Status, paymentEvent(target, request.Amount)); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:             uuid.New(),
		LoanID:         loanID,
		InstallmentID:  target.ID,
		SequenceNumber: target.SequenceNumber,
		Amount:         request.Amount,
		Method:         request.Method,
		Note:           request.Note,
		SubmittedBy:    request.SubmittedBy,
		ReviewStatus:   domain.PaymentPendingReview,
		CreatedAt:      time.Now(),
	}

	if err = s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payment, nil
}

// ApprovePayment confirms a reported payment and applies it to its
// installment through the status state machine. When the last row
// settles, the loan is marked paid.
func (s *BillingService) ApprovePayment(ctx context.Context, paymentID uuid.UUID, request *domain.ReviewPaymentRequest) (*domain.Payment, error) {
	payment, err := s.getPendingPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	inst, err := s.loanRepo.GetInstallment(ctx, payment.InstallmentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	newStatus, err := domain.NextStatus(inst.Status, paymentEvent(inst, payment.Amount))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = s.paymentRepo.UpdateReview(ctx, payment.ID, domain.PaymentApproved, request.ReviewedBy, request.Comment, now); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	newPaid := inst.AmountPaid.Add(payment.Amount)
	if err = s.loanRepo.UpdateInstallmentPayment(ctx, inst.ID, newStatus, newPaid); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateSchedule(ctx, payment.LoanID)

	if newStatus == domain.InstallmentPaid {
		if err = s.closeLoanIfSettled(ctx, payment.LoanID); err != nil {
			return nil, err
		}
	}

	payment.ReviewStatus = domain.PaymentApproved
	payment.ReviewedBy = request.ReviewedBy
	payment.ReviewComment = request.Comment
	payment.ReviewedAt = &now

	return payment, nil
}

// RejectPayment declines a reported payment. The installment keeps
// its current status and paid amount.
func (s *BillingService) RejectPayment(ctx context.Context, paymentID uuid.UUID, request *domain.ReviewPaymentRequest) (*domain.Payment, error) {
	payment, err := s.getPendingPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = s.paymentRepo.UpdateReview(ctx, payment.ID, domain.PaymentRejected, request.ReviewedBy, request.Comment, now); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payment.ReviewStatus = domain.PaymentRejected
	payment.ReviewedBy = request.ReviewedBy
	payment.ReviewComment = request.Comment
	payment.ReviewedAt = &now

	return payment, nil
}

// MarkOverdueInstallments flips every pending or partial installment
// whose due date has passed to overdue, then drops the cached schedule
// of every touched loan. The scheduler calls this once a day; the
// amortization core itself never runs a clock.
func (s *BillingService) MarkOverdueInstallments(ctx context.Context, now time.Time) (int64, error) {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	loanIDs, err := s.loanRepo.MarkOverdueBefore(ctx, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	seen := make(map[string]struct{}, len(loanIDs))
	for _, loanID := range loanIDs {
		if _, ok := seen[loanID]; ok {
			continue
		}
		seen[loanID] = struct{}{}
		s.invalidateSchedule(ctx, loanID)
	}

	return int64(len(loanIDs)), nil
}

// paymentEvent decides whether applying amount settles the row in full.
func paymentEvent(inst *domain.Installment, amount decimal.Decimal) domain.StatusEvent {
	if inst.AmountPaid.Add(amount).GreaterThanOrEqual(inst.TotalDue) {
		return domain.EventFullPayment
	}
	return domain.EventPartialPayment
}

func (s *BillingService) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *BillingService) getPendingPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if payment.ReviewStatus != domain.PaymentPendingReview {
		return nil, customError.WrapPaymentAlreadyReviewed(paymentID.String(), payment.ReviewStatus)
	}

	return payment, nil
}

func (s *BillingService) closeLoanIfSettled(ctx context.Context, loanID string) error {
	schedule, err := s.loanRepo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, inst := range schedule {
		if inst.Status != domain.InstallmentPaid {
			return nil
		}
	}

	if err = s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusPaid); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// Schedule cache. The service works without Redis: a nil client just
// skips caching.

func scheduleCacheKey(loanID string) string {
	return fmt.Sprintf("schedule:%s", loanID)
}

func (s *BillingService) cachedSchedule(ctx context.Context, loanID string) ([]*domain.Installment, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, scheduleCacheKey(loanID)).Bytes()
	if err != nil {
		return nil, false
	}

	var schedule []*domain.Installment
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, false
	}

	return schedule, true
}

func (s *BillingService) cacheSchedule(ctx context.Context, loanID string, schedule []*domain.Installment) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(schedule)
	if err != nil {
		return
	}

	s.redis.Set(ctx, scheduleCacheKey(loanID), raw, scheduleCacheTTL)
}

func (s *BillingService) invalidateSchedule(ctx context.Context, loanID string) {
	if s.redis == nil {
		return
	}

	s.redis.Del(ctx, scheduleCacheKey(loanID))
}
