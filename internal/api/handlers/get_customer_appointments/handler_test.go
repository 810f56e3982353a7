package get_customer_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) ListByCustomer(ctx context.Context, customerID int64) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, customerID)
	if v := args.Get(0); v != nil {
		return v.(*models.AppointmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(pathUserID string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+pathUserID+"/appointments", nil)
	r = mux.SetURLVars(r, map[string]string{"userId": pathUserID})
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestHandle_Own(t *testing.T) {
	svc := &mockService{}
	svc.On("ListByCustomer", mock.Anything, int64(100)).
		Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}, Total: 0}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest("100", 100))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"appointments":[],"total":0}`, rec.Body.String())
}

func TestHandle_Foreign(t *testing.T) {
	svc := &mockService{}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest("200", 100))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
}
