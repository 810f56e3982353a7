package accept_quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) AcceptQuote(ctx context.Context, quotationID, quoteID string, customerID int64) (*models.ResolutionResponse, error) {
	args := m.Called(ctx, quotationID, quoteID, customerID)
	if v := args.Get(0); v != nil {
		return v.(*models.ResolutionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/q-1/quotes/quote-1/accept", nil)
	r = mux.SetURLVars(r, map[string]string{"quotationId": "q-1", "quoteId": "quote-1"})
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_Accepted(t *testing.T) {
	svc := &mockService{}
	svc.On("AcceptQuote", mock.Anything, "q-1", "quote-1", int64(100)).Return(&models.ResolutionResponse{
		Quotation:         models.QuotationResponse{ID: "q-1", Status: "accepted"},
		NotificationsSent: 3,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(100))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notificationsSent":3`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "second accept", err: fmt.Errorf("%w: already accepted", quotations.ErrConflict), status: http.StatusConflict},
		{name: "not owner", err: quotations.ErrAccessDenied, status: http.StatusForbidden},
		{name: "no quotation", err: quotations.ErrQuotationNotFound, status: http.StatusNotFound},
		{name: "no quote", err: quotations.ErrQuoteNotFound, status: http.StatusNotFound},
		{name: "quote pending", err: quotations.ErrInvalidState, status: http.StatusUnprocessableEntity},
		{name: "timeout", err: quotations.ErrTransient, status: http.StatusServiceUnavailable},
		{name: "db down", err: quotations.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("AcceptQuote", mock.Anything, "q-1", "quote-1", int64(100)).Return(nil, tc.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(100))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandle_MissingUser(t *testing.T) {
	svc := &mockService{}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(0))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "AcceptQuote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
