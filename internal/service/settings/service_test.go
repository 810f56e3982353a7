package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
	"github.com/m04kA/SMC-QuoteService/pkg/ptr"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

const (
	workshopID = int64(10)
	ownerID    = int64(501)
	managerID  = int64(777)
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) GetByWorkshopID(ctx context.Context, id int64) (*domain.AppointmentSettings, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.AppointmentSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateIfNotExists(ctx context.Context, s *domain.AppointmentSettings) (*domain.AppointmentSettings, error) {
	args := m.Called(ctx, s)
	if res := args.Get(0); res != nil {
		return res.(*domain.AppointmentSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, s *domain.AppointmentSettings) error {
	return m.Called(ctx, s).Error(0)
}

type mockWorkshopClient struct{ mock.Mock }

func (m *mockWorkshopClient) GetWorkshop(ctx context.Context, id int64) (*workshopservice.Workshop, error) {
	args := m.Called(ctx, id)
	if w := args.Get(0); w != nil {
		return w.(*workshopservice.Workshop), args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(t *testing.T) (*Service, *mockRepo, *mockWorkshopClient) {
	t.Helper()
	repo := &mockRepo{}
	client := &mockWorkshopClient{}
	client.On("GetWorkshop", mock.Anything, workshopID).Return(&workshopservice.Workshop{
		ID: workshopID, Name: "Fast Service", OwnerID: ownerID, ManagerIDs: []int64{managerID},
	}, nil).Maybe()
	return NewService(repo, client, domain.NewSchedulingDefaults(), logger.NewNop()), repo, client
}

func storedSettings() *domain.AppointmentSettings {
	return domain.NewSchedulingDefaults().NewDefaultSettings(workshopID)
}

func TestLoad_CreatesDefaultsLazily(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
	repo.On("CreateIfNotExists", mock.Anything, mock.MatchedBy(func(s *domain.AppointmentSettings) bool {
		return s.WorkshopID == workshopID && s.Enabled
	})).Return(storedSettings(), nil).Once()

	s, err := svc.Load(context.Background(), workshopID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDurationMinutes, s.Slot.DefaultDurationMinutes)
	assert.Equal(t, domain.DefaultMinAdvanceHours, s.Booking.MinAdvanceHours)
	repo.AssertExpectations(t)
}

func TestLoad_NormalizesStoredValues(t *testing.T) {
	svc, repo, _ := newService(t)
	stored := storedSettings()
	stored.Slot.SlotIntervalMinutes = 0
	stored.Slot.MaxConcurrentAppointments = 0
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(stored, nil)

	s, err := svc.Load(context.Background(), workshopID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotIntervalMinutes, s.Slot.SlotIntervalMinutes)
	assert.Equal(t, 1, s.Slot.MaxConcurrentAppointments)
}

func TestLoad_RepositoryError(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.On("GetByWorkshopID", mock.Anything, workshopID).
		Return(nil, fmt.Errorf("%w: %w", settingsRepo.ErrScanRow, context.DeadlineExceeded))

	_, err := svc.Load(context.Background(), workshopID)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(storedSettings(), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.AppointmentSettings) bool {
		return s.Slot.SlotIntervalMinutes == 15 && s.Booking.RequireConfirmation && s.Slot.AllowOverlapping
	})).Return(nil).Once()

	resp, err := svc.Update(context.Background(), workshopID, &models.UpdateSettingsRequest{
		UserID: managerID,
		Slot: &models.SlotSettingsPatch{
			SlotIntervalMinutes:       ptr.Ptr(15),
			MaxConcurrentAppointments: ptr.Ptr(3),
			AllowOverlapping:          ptr.Ptr(true),
		},
		Booking: &models.BookingSettingsPatch{RequireConfirmation: ptr.Ptr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Slot.SlotIntervalMinutes)
	assert.Equal(t, 3, resp.Slot.MaxConcurrentAppointments)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.Slot.DefaultDurationMinutes, "untouched fields are kept")
	repo.AssertExpectations(t)
}

func TestUpdate_Rejections(t *testing.T) {
	svc, repo, _ := newService(t)
	_, err := svc.Update(context.Background(), workshopID, &models.UpdateSettingsRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)
	repo.AssertNotCalled(t, "GetByWorkshopID", mock.Anything, mock.Anything)

	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{"interval too small", &models.UpdateSettingsRequest{Slot: &models.SlotSettingsPatch{SlotIntervalMinutes: ptr.Ptr(1)}}},
		{"buffer too large", &models.UpdateSettingsRequest{Slot: &models.SlotSettingsPatch{BufferMinutes: ptr.Ptr(500)}}},
		{"min advance exceeds max days", &models.UpdateSettingsRequest{Booking: &models.BookingSettingsPatch{
			MinAdvanceHours: ptr.Ptr(49), MaxAdvanceDays: ptr.Ptr(2),
		}}},
		{"bad service duration", &models.UpdateSettingsRequest{Slot: &models.SlotSettingsPatch{
			ServiceDurations: &map[string]int{"oil_change": 0},
		}}},
		{"break outside hours", &models.UpdateSettingsRequest{CustomAvailability: &domain.WeeklySchedule{
			Monday: domain.DaySchedule{
				IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("18:00"),
				BreakStart: tsPtr("08:00"), BreakEnd: tsPtr("10:00"),
			},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(storedSettings(), nil)

			tt.req.UserID = ownerID
			_, err := svc.Update(context.Background(), workshopID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_WorkshopErrors(t *testing.T) {
	repo := &mockRepo{}
	client := &mockWorkshopClient{}
	svc := NewService(repo, client, domain.NewSchedulingDefaults(), logger.NewNop())

	client.On("GetWorkshop", mock.Anything, int64(1)).Return(nil, workshopservice.ErrWorkshopNotFound)
	client.On("GetWorkshop", mock.Anything, int64(2)).Return(nil, fmt.Errorf("%w: 503", workshopservice.ErrUnavailable))

	_, err := svc.Update(context.Background(), 1, &models.UpdateSettingsRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrWorkshopNotFound)

	_, err = svc.Update(context.Background(), 2, &models.UpdateSettingsRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrTransient)
}

func TestAddAndRemoveException(t *testing.T) {
	svc, repo, _ := newService(t)
	stored := storedSettings()
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.AddException(context.Background(), workshopID, &models.AddExceptionRequest{
		UserID: ownerID, Date: "2025-12-31", Type: "modified_hours", OpenTime: ptr.Ptr("10:00"), CloseTime: ptr.Ptr("14:00"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2025-12-31", resp.Date)
	require.NotNil(t, resp.OpenTime)
	assert.Equal(t, "10:00", *resp.OpenTime)
	require.Len(t, stored.Exceptions, 1)

	_, err = svc.AddException(context.Background(), workshopID, &models.AddExceptionRequest{
		UserID: ownerID, Date: "2025-12-31", Type: "holiday",
	})
	assert.ErrorIs(t, err, ErrExceptionExists)

	assert.ErrorIs(t, svc.RemoveException(context.Background(), workshopID, ownerID, "unknown"), ErrExceptionNotFound)
	require.NoError(t, svc.RemoveException(context.Background(), workshopID, ownerID, resp.ID))
	assert.Empty(t, stored.Exceptions)
}

func TestAddException_Validation(t *testing.T) {
	svc, _, _ := newService(t)

	tests := []struct {
		name string
		req  *models.AddExceptionRequest
	}{
		{"bad date", &models.AddExceptionRequest{Date: "31.12.2025", Type: "closed"}},
		{"bad type", &models.AddExceptionRequest{Date: "2025-12-31", Type: "vacation"}},
		{"modified without hours", &models.AddExceptionRequest{Date: "2025-12-31", Type: "modified_hours"}},
		{"reversed hours", &models.AddExceptionRequest{
			Date: "2025-12-31", Type: "modified_hours", OpenTime: ptr.Ptr("15:00"), CloseTime: ptr.Ptr("10:00"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.UserID = ownerID
			_, err := svc.AddException(context.Background(), workshopID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	svc, repo, _ := newService(t)
	stored := storedSettings()
	stored.Slot.ServiceDurations = map[string]int{"diagnostic": 45}
	stored.EnabledServices = []string{"diagnostic", "oil_change"}
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(stored, nil)

	resp, err := svc.EstimateDuration(context.Background(), workshopID, &models.EstimateDurationRequest{
		ServiceTypes: []string{"diagnostic", "oil_change"},
	})
	require.NoError(t, err)
	assert.Equal(t, 75, resp.DurationMinutes)
	assert.InDelta(t, 1.25, resp.DurationHours, 0.0001)

	_, err = svc.EstimateDuration(context.Background(), workshopID, &models.EstimateDurationRequest{
		ServiceTypes: []string{"body_work"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

}

func TestEstimateDuration_NoServicesFallsBackToDefault(t *testing.T) {
	svc, repo, _ := newService(t)
	stored := storedSettings()
	stored.Slot.DefaultDurationMinutes = 45
	repo.On("GetByWorkshopID", mock.Anything, workshopID).Return(stored, nil)

	for name, req := range map[string]*models.EstimateDurationRequest{
		"empty list": {ServiceTypes: []string{}},
		"no field":   {},
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := svc.EstimateDuration(context.Background(), workshopID, req)
			require.NoError(t, err)
			assert.Equal(t, stored.Slot.DefaultDurationMinutes, resp.DurationMinutes)
			assert.InDelta(t, 0.75, resp.DurationHours, 0.0001)
			assert.Equal(t, []string{}, resp.ServiceTypes)
		})
	}
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}
