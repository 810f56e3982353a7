package validate_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/pkg/ptr"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) GetByWorkshopWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) Load(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error) {
	args := m.Called(ctx, workshopID)
	if v := args.Get(0); v != nil {
		return v.(*domain.AppointmentSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockWorkshopClient struct{ mock.Mock }

func (m *mockWorkshopClient) GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error) {
	args := m.Called(ctx, workshopID)
	if v := args.Get(0); v != nil {
		return v.(*workshopservice.Workshop), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeMetrics struct{ results []string }

func (m *fakeMetrics) RecordSlotValidation(result string) { m.results = append(m.results, result) }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const workshopID int64 = 10

// 2025-10-20 - понедельник
var monday = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *mockAppointmentRepo
	settings *mockSettings
	client   *mockWorkshopClient
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture(settings *domain.AppointmentSettings) *fixture {
	f := &fixture{
		repo:     &mockAppointmentRepo{},
		settings: &mockSettings{},
		client:   &mockWorkshopClient{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.settings, f.client, f.metrics, domain.NewSchedulingDefaults(), nopLogger{})
	f.uc.timeProvider = fixedClock{now: monday.AddDate(0, 0, -7)}

	open := workshopservice.DayHours{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("17:00")}
	f.settings.On("Load", mock.Anything, workshopID).Return(settings, nil)
	f.client.On("GetWorkshop", mock.Anything, workshopID).Return(&workshopservice.Workshop{
		ID: workshopID,
		WorkingHours: workshopservice.WorkingHours{
			Monday: open, Tuesday: open, Wednesday: open, Thursday: open, Friday: open,
		},
	}, nil)
	return f
}

func defaultSettings() *domain.AppointmentSettings {
	return domain.NewSchedulingDefaults().NewDefaultSettings(workshopID)
}

func bookedAt(start string, minutes int) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		WorkshopID:      workshopID,
		ScheduledDate:   monday,
		StartTime:       types.TimeString(start),
		DurationMinutes: minutes,
		Status:          domain.AppointmentConfirmed,
	}
}

func TestExecute_Available(t *testing.T) {
	f := newFixture(defaultSettings())
	f.repo.On("GetByWorkshopWithFilter", mock.Anything, domain.AppointmentsFilter{
		WorkshopID: workshopID, StartDate: monday, EndDate: monday,
	}).Return([]*domain.Appointment{bookedAt("10:00", 60)}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		WorkshopID:    workshopID,
		Date:          monday,
		StartTime:     "11:00",
		DurationHours: ptr.Ptr(1.0),
	})
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Empty(t, resp.Code)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Empty(t, resp.Alternatives)
	assert.Equal(t, []string{"available"}, f.metrics.results)
	f.repo.AssertExpectations(t)
}

func TestExecute_ConflictWithAlternatives(t *testing.T) {
	f := newFixture(defaultSettings())
	f.repo.On("GetByWorkshopWithFilter", mock.Anything, domain.AppointmentsFilter{
		WorkshopID: workshopID, StartDate: monday, EndDate: monday.AddDate(0, 0, domain.DefaultAlternativesHorizon),
	}).Return([]*domain.Appointment{bookedAt("10:00", 60)}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		WorkshopID:          workshopID,
		Date:                monday,
		StartTime:           "10:00",
		DurationHours:       ptr.Ptr(1.0),
		IncludeAlternatives: true,
	})
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, "conflict", resp.Code)
	assert.NotEmpty(t, resp.Reason)

	// сначала тот же день, по порядку, не больше MaxAlternatives
	require.Len(t, resp.Alternatives, domain.DefaultMaxAlternatives)
	got := make([]string, 0, len(resp.Alternatives))
	for _, a := range resp.Alternatives {
		assert.Equal(t, monday, a.Date)
		got = append(got, a.StartTime.String())
	}
	assert.Equal(t, []string{"09:00", "11:00", "11:30", "12:00", "12:30"}, got)
	assert.Equal(t, "10:00", resp.Alternatives[0].EndTime.String())

	assert.Equal(t, []string{"conflict"}, f.metrics.results)
}

func TestExecute_ClosedDay(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	f := newFixture(defaultSettings())
	f.repo.On("GetByWorkshopWithFilter", mock.Anything, mock.Anything).Return([]*domain.Appointment{}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		WorkshopID:   workshopID,
		Date:         saturday,
		StartTime:    "10:00",
		ServiceTypes: []string{"oil_change"},
	})
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, "closed", resp.Code)
	assert.Equal(t, 30, resp.DurationMinutes)
}

func TestExecute_BookingDisabledHasNoAlternatives(t *testing.T) {
	settings := defaultSettings()
	settings.Enabled = false
	f := newFixture(settings)
	f.repo.On("GetByWorkshopWithFilter", mock.Anything, mock.Anything).Return([]*domain.Appointment{}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		WorkshopID:          workshopID,
		Date:                monday,
		StartTime:           "10:00",
		IncludeAlternatives: true,
	})
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, "booking_disabled", resp.Code)
	assert.Empty(t, resp.Alternatives)
}

func TestExecute_Validation(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{name: "no workshop", req: Request{Date: monday, StartTime: "10:00"}},
		{name: "no date", req: Request{WorkshopID: workshopID, StartTime: "10:00"}},
		{name: "no start", req: Request{WorkshopID: workshopID, Date: monday}},
		{name: "bad start", req: Request{WorkshopID: workshopID, Date: monday, StartTime: "25:61"}},
		{name: "bad duration", req: Request{WorkshopID: workshopID, Date: monday, StartTime: "10:00", DurationHours: ptr.Ptr(0.1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewUseCase(&mockAppointmentRepo{}, &mockSettings{}, &mockWorkshopClient{}, &fakeMetrics{},
				domain.NewSchedulingDefaults(), nopLogger{})
			_, err := uc.Execute(context.Background(), &tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_WorkshopNotFound(t *testing.T) {
	f := &fixture{repo: &mockAppointmentRepo{}, settings: &mockSettings{}, client: &mockWorkshopClient{}, metrics: &fakeMetrics{}}
	f.uc = NewUseCase(f.repo, f.settings, f.client, f.metrics, domain.NewSchedulingDefaults(), nopLogger{})
	f.settings.On("Load", mock.Anything, workshopID).Return(defaultSettings(), nil)
	f.client.On("GetWorkshop", mock.Anything, workshopID).Return(nil, workshopservice.ErrWorkshopNotFound)

	_, err := f.uc.Execute(context.Background(), &Request{WorkshopID: workshopID, Date: monday, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrWorkshopNotFound)
	assert.Empty(t, f.metrics.results)
}
