package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credovia/loan-engine/internal/domain"
	"github.com/credovia/loan-engine/internal/service"
	"github.com/credovia/loan-engine/tests/mocks"
)

func newTestRouter() (*mux.Router, *mocks.MockLoanRepository, *mocks.MockPaymentRepository) {
	loanRepo := &mocks.MockLoanRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	svc := service.NewBillingService(loanRepo, paymentRepo, nil, nil)
	h := NewBillingHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/loans", h.CreateLoan).Methods("POST")
	router.HandleFunc("/api/v1/loans/{loanId}/schedule", h.GetSchedule).Methods("GET")
	router.HandleFunc("/api/v1/loans/{loanId}/outstanding", h.GetOutstanding).Methods("GET")

	return router, loanRepo, paymentRepo
}

func TestCreateLoanHandler_Success(t *testing.T) {
	router, loanRepo, _ := newTestRouter()

	loanRepo.On("GetByLoanID", mock.Anything, "LOAN123").Return(nil, sql.ErrNoRows)
	loanRepo.On("CreateWithSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	body := map[string]interface{}{
		"loan_id":             "LOAN123",
		"principal":           "1200",
		"annual_rate_percent": "12",
		"installment_count":   12,
		"cadence":             "monthly",
		"first_due_date":      "2024-01-15",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Loan     *domain.Loan          `json:"loan"`
			Schedule []*domain.Installment `json:"schedule"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "LOAN123", resp.Data.Loan.LoanID)
	assert.Len(t, resp.Data.Schedule, 12)
}

func TestCreateLoanHandler_ValidationFailure(t *testing.T) {
	router, loanRepo, _ := newTestRouter()

	body := map[string]interface{}{
		"loan_id":           "LOAN123",
		"principal":         "1200",
		"installment_count": 12,
		"cadence":           "quarterly",
		"first_due_date":    "2024-01-15",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	loanRepo.AssertNotCalled(t, "CreateWithSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateLoanHandler_Conflict(t *testing.T) {
	router, loanRepo, _ := newTestRouter()

	loanRepo.On("GetByLoanID", mock.Anything, "LOAN123").Return(&domain.Loan{LoanID: "LOAN123"}, nil)

	body := map[string]interface{}{
		"loan_id":             "LOAN123",
		"principal":           "1200",
		"annual_rate_percent": "12",
		"installment_count":   12,
		"cadence":             "monthly",
		"first_due_date":      "2024-01-15",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetScheduleHandler_NotFound(t *testing.T) {
	router, loanRepo, _ := newTestRouter()

	loanRepo.On("GetByLoanID", mock.Anything, "MISSING").Return(nil, sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/MISSING/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
