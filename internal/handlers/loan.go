package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/energyhub-backend/internal/dto"
	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/internal/response"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

type LoanService interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest) (*models.LoanApplication, error)
	ListLoans(ctx context.Context) ([]*models.LoanApplication, error)
	GetLoan(ctx context.Context, id int64) (*models.LoanApplication, error)
}

type loanHandlers struct {
	ResponseHandler response.ResponseHandler
	LoanSvc         LoanService
}

func NewLoanHandlers(deps *Deps) *loanHandlers {
	return &loanHandlers{
		ResponseHandler: deps.ResponseHandler,
		LoanSvc:         deps.LoanSvc,
	}
}

func (h *loanHandlers) LoanRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateLoan)
	r.Get("/", h.ListLoans)
	r.Get("/{loanId}", h.GetLoan)
	return r
}

func (h *loanHandlers) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromContext(r.Context()).Debug("failed to decode loan request", "error", err)
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	loan, err := h.LoanSvc.CreateLoan(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, loan)
}

func (h *loanHandlers) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.LoanSvc.ListLoans(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loans)
}

func (h *loanHandlers) GetLoan(w http.ResponseWriter, r *http.Request) {
	// ids are int64 millisecond timestamps; anything else can never match
	id, err := strconv.ParseInt(chi.URLParam(r, "loanId"), 10, 64)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError("Loan not found"))
		return
	}

	loan, err := h.LoanSvc.GetLoan(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loan)
}
