package estimate_duration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-QuoteService/internal/service/settings"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) EstimateDuration(ctx context.Context, workshopID int64, req *models.EstimateDurationRequest) (*models.DurationEstimateResponse, error) {
	args := m.Called(ctx, workshopID, req)
	if v := args.Get(0); v != nil {
		return v.(*models.DurationEstimateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/workshops/10/duration-estimate", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"workshopId": "10"})
}

func TestHandle_EmptyBodyUsesDefault(t *testing.T) {
	svc := &mockService{}
	svc.On("EstimateDuration", mock.Anything, int64(10), &models.EstimateDurationRequest{}).
		Return(&models.DurationEstimateResponse{ServiceTypes: []string{}, DurationMinutes: 30, DurationHours: 0.5}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"serviceTypes":[],"durationMinutes":30,"durationHours":0.5}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_UnknownService(t *testing.T) {
	svc := &mockService{}
	svc.On("EstimateDuration", mock.Anything, int64(10), mock.Anything).Return(nil, settings.ErrInvalidInput)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(`{"serviceTypes":["body_work"]}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
