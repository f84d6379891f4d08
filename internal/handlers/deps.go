package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/energyhub-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	LoanSvc         LoanService
}
