package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/energyhub-backend/internal/dto"
	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
)

// --- Stubs ---

type stubLoanService struct {
	createCalled bool
	createReq    dto.CreateLoanRequest
	createLoan   *models.LoanApplication
	createErr    error

	listLoans []*models.LoanApplication
	listErr   error

	getCalled bool
	getID     int64
	getLoan   *models.LoanApplication
	getErr    error
}

func (s *stubLoanService) CreateLoan(_ context.Context, req dto.CreateLoanRequest) (*models.LoanApplication, error) {
	s.createCalled = true
	s.createReq = req
	return s.createLoan, s.createErr
}

func (s *stubLoanService) ListLoans(_ context.Context) ([]*models.LoanApplication, error) {
	return s.listLoans, s.listErr
}

func (s *stubLoanService) GetLoan(_ context.Context, id int64) (*models.LoanApplication, error) {
	s.getCalled = true
	s.getID = id
	return s.getLoan, s.getErr
}

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func newLoanHandlersForTest(svc *stubLoanService, resp *stubResponseHandler) *loanHandlers {
	return NewLoanHandlers(&Deps{ResponseHandler: resp, LoanSvc: svc})
}

// --- Tests ---

func TestCreateLoan_OK(t *testing.T) {
	created := &models.LoanApplication{ID: 1700000000000, Name: "A", Status: models.LoanStatusPending}
	svc := &stubLoanService{createLoan: created}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	body := `{"name":"A","email":"a@x.com","product":"Panel-X","amount":500,"term":"12","notes":"asap"}`
	req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateLoan(rr, req)

	if !svc.createCalled {
		t.Fatal("expected CreateLoan to be called on service")
	}
	if svc.createReq.Name != "A" || svc.createReq.Amount != float64(500) || svc.createReq.Term != "12" {
		t.Fatalf("service received wrong request: %+v", svc.createReq)
	}
	if svc.createReq.Notes != "asap" {
		t.Fatalf("notes not forwarded: %+v", svc.createReq)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if resp.writeSuccessData != created {
		t.Fatalf("expected created loan to be written")
	}
}

func TestCreateLoan_InvalidJSON(t *testing.T) {
	svc := &stubLoanService{}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.CreateLoan(rr, req)

	if svc.createCalled {
		t.Fatal("CreateLoan should not be called on service when JSON invalid")
	}
	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestCreateLoan_ServiceError(t *testing.T) {
	svcErr := errs.NewValidationError("Missing required fields")
	svc := &stubLoanService{createErr: svcErr}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader(`{"name":"A"}`))
	rr := httptest.NewRecorder()
	h.CreateLoan(rr, req)

	if !resp.handleErrorCalled || !errors.Is(resp.handleError, svcErr) {
		t.Fatalf("expected service error to be delegated, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on service error")
	}
}

func TestListLoans_OK(t *testing.T) {
	loans := []*models.LoanApplication{{ID: 1}, {ID: 2}}
	svc := &stubLoanService{listLoans: loans}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	rr := httptest.NewRecorder()
	h.ListLoans(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200")
	}
	got, ok := resp.writeSuccessData.([]*models.LoanApplication)
	if !ok || len(got) != 2 {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestListLoans_ServiceError(t *testing.T) {
	svc := &stubLoanService{listErr: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	rr := httptest.NewRecorder()
	h.ListLoans(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestGetLoan_OK(t *testing.T) {
	loan := &models.LoanApplication{ID: 1700000000000}
	svc := &stubLoanService{getLoan: loan}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/loans/1700000000000", nil)
	req = withChiParam(req, "loanId", "1700000000000")
	rr := httptest.NewRecorder()
	h.GetLoan(rr, req)

	if svc.getID != 1700000000000 {
		t.Fatalf("expected id 1700000000000, got %d", svc.getID)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessData != loan {
		t.Fatalf("expected loan to be written")
	}
}

func TestGetLoan_NonNumericID(t *testing.T) {
	for _, raw := range []string{"abc", "12.5", "", "99999999999999999999"} {
		svc := &stubLoanService{}
		resp := &stubResponseHandler{}
		h := newLoanHandlersForTest(svc, resp)

		req := httptest.NewRequest(http.MethodGet, "/api/loans/x", nil)
		req = withChiParam(req, "loanId", raw)
		rr := httptest.NewRecorder()
		h.GetLoan(rr, req)

		if svc.getCalled {
			t.Fatalf("%q: service should not be called", raw)
		}
		var nf *errs.NotFoundError
		if !errors.As(resp.handleError, &nf) {
			t.Fatalf("%q: expected NotFoundError, got %v", raw, resp.handleError)
		}
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	svc := &stubLoanService{getErr: errs.NewNotFoundError("Loan not found")}
	resp := &stubResponseHandler{}
	h := newLoanHandlersForTest(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/loans/0", nil)
	req = withChiParam(req, "loanId", "0")
	rr := httptest.NewRecorder()
	h.GetLoan(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on not found")
	}
}
