package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
	"github.com/credovia/loan-engine/internal/service"
	customError "github.com/credovia/loan-engine/pkg/errors"
	"github.com/credovia/loan-engine/pkg/response"
)

type BillingHandler struct {
	service   *service.BillingService
	validator *validator.Validate
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	v := validator.New()

	// Let validator treat decimal.Decimal fields as their float value
	// so numeric tags (gt, gte) work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &BillingHandler{
		service:   svc,
		validator: v,
	}
}

// CreateLoan handles POST /loans: validates terms, generates the full
// amortization schedule and persists both.
func (h *BillingHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

// GetSchedule handles GET /loans/{loanId}/schedule.
func (h *BillingHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

// GetOutstanding handles GET /loans/{loanId}/outstanding.
func (h *BillingHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{LoanID: loanID, Outstanding: outstanding})
}

// GetProgress handles GET /loans/{loanId}/progress.
func (h *BillingHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	progress, err := h.service.GetProgress(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, progress)
}

// SubmitPayment handles POST /loans/{loanId}/payments.
func (h *BillingHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	payment, err := h.service.SubmitPayment(r.Context(), loanID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, payment)
}

// ApprovePayment handles POST /payments/{paymentId}/approve.
func (h *BillingHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.reviewPayment(w, r, h.service.ApprovePayment)
}

// RejectPayment handles POST /payments/{paymentId}/reject.
func (h *BillingHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.reviewPayment(w, r, h.service.RejectPayment)
}

func (h *BillingHandler) reviewPayment(
	w http.ResponseWriter,
	r *http.Request,
	review func(context.Context, uuid.UUID, *domain.ReviewPaymentRequest) (*domain.Payment, error),
) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var request domain.ReviewPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	payment, err := review(r.Context(), paymentID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, payment)
}

// writeBusinessError maps the service error taxonomy to HTTP statuses.
func writeBusinessError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeLoanNotFound,
		customError.ErrCodeInstallmentNotFound,
		customError.ErrCodePaymentNotFound:
		response.NotFound(w, bizErr.Message)
	case customError.ErrCodeLoanAlreadyExists,
		customError.ErrCodePaymentAlreadyReviewed:
		response.Conflict(w, bizErr.Message, bizErr.Err)
	case customError.ErrCodeInvalidTerms,
		customError.ErrCodeInvalidPaymentAmount:
		response.BadRequest(w, bizErr.Message, bizErr.Err)
	case customError.ErrCodeInvalidTransition:
		response.UnprocessableEntity(w, bizErr.Message, bizErr.Err)
	default:
		response.InternalServerError(w, bizErr.Message, bizErr.Err)
	}
}
