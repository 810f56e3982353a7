package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	workshopClient "github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/availability"
)

// UseCase use case расчёта свободных слотов мастерской
type UseCase struct {
	appointmentRepo AppointmentRepository
	settings        SettingsProvider
	workshopClient  WorkshopServiceClient
	defaults        domain.SchedulingDefaults
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	settings SettingsProvider,
	workshopClient WorkshopServiceClient,
	defaults domain.SchedulingDefaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		settings:        settings,
		workshopClient:  workshopClient,
		defaults:        defaults,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute считает слоты на каждый день периода
// Расчёт - чистая функция от настроек, часов работы и записей; кеша нет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: workshop=%d, period=%s..%s",
		req.WorkshopID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки мастерской
	settings, err := uc.settings.Load(ctx, req.WorkshopID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to load settings for workshop=%d: %v", req.WorkshopID, err)
		return nil, wrapError("failed to load settings", err)
	}

	// 3. Часы работы мастерской нужны только если мастерская не задала своё расписание
	var workshop *domain.Workshop
	if settings.UseWorkshopHours {
		w, err := uc.workshopClient.GetWorkshop(ctx, req.WorkshopID)
		if err != nil {
			if errors.Is(err, workshopClient.ErrWorkshopNotFound) {
				uc.logger.Warn("GetAvailability: workshop id=%d not found", req.WorkshopID)
				return nil, ErrWorkshopNotFound
			}
			uc.logger.Error("GetAvailability: failed to get workshop id=%d: %v", req.WorkshopID, err)
			return nil, wrapError("failed to get workshop", err)
		}
		workshop = w.ToDomain()
	}

	// 4. Длительность
	duration := availability.EstimateDuration(settings, uc.defaults, req.ServiceTypes)
	if req.DurationHours != nil {
		duration = availability.MinutesFromHours(*req.DurationHours)
	}

	// 5. Записи за период
	appointments, err := uc.appointmentRepo.GetByWorkshopWithFilter(ctx, domain.AppointmentsFilter{
		WorkshopID: req.WorkshopID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments for workshop=%d: %v", req.WorkshopID, err)
		return nil, wrapError("failed to get appointments", err)
	}

	// 6. Расчёт
	days := availability.Compute(availability.Input{
		Settings:     settings,
		Workshop:     workshop,
		Appointments: appointments,
		Defaults:     uc.defaults,
		Now:          uc.timeProvider.Now(),
	}, availability.Range{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DurationMinutes: duration,
	})

	resp := &Response{
		WorkshopID:      req.WorkshopID,
		DurationMinutes: duration,
		Days:            make([]Day, 0, len(days)),
	}
	total := 0
	for i := range days {
		day := toDay(&days[i])
		total += day.AvailableCount
		resp.Days = append(resp.Days, day)
	}

	uc.logger.Info("GetAvailability: workshop=%d, %d days, %d available slots of %d minutes",
		req.WorkshopID, len(resp.Days), total, duration)
	return resp, nil
}

func toDay(d *domain.DaySlots) Day {
	slots := make([]Slot, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, Slot{
			StartTime: s.Start,
			EndTime:   s.End,
			Available: s.Available,
			Reason:    s.Reason,
		})
	}
	return Day{
		Date:           d.Date,
		Closed:         d.Closed,
		AvailableCount: d.AvailableCount(),
		Slots:          slots,
	}
}

func wrapError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, workshopClient.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrTransient, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}
