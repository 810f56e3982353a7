package validate_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	workshopClient "github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/availability"
)

const resultAvailable = "available"

// UseCase use case проверки конкретного слота
type UseCase struct {
	appointmentRepo AppointmentRepository
	settings        SettingsProvider
	workshopClient  WorkshopServiceClient
	metrics         MetricsRecorder
	defaults        domain.SchedulingDefaults
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	settings SettingsProvider,
	workshopClient WorkshopServiceClient,
	metrics MetricsRecorder,
	defaults domain.SchedulingDefaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		settings:        settings,
		workshopClient:  workshopClient,
		metrics:         metrics,
		defaults:        defaults,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute проверяет слот и при недоступности подбирает альтернативы
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateSlot: workshop=%d, date=%s, time=%s",
		req.WorkshopID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки мастерской
	settings, err := uc.settings.Load(ctx, req.WorkshopID)
	if err != nil {
		uc.logger.Error("ValidateSlot: failed to load settings for workshop=%d: %v", req.WorkshopID, err)
		return nil, wrapError("failed to load settings", err)
	}

	// 3. Часы работы мастерской
	var workshop *domain.Workshop
	if settings.UseWorkshopHours {
		w, err := uc.workshopClient.GetWorkshop(ctx, req.WorkshopID)
		if err != nil {
			if errors.Is(err, workshopClient.ErrWorkshopNotFound) {
				uc.logger.Warn("ValidateSlot: workshop id=%d not found", req.WorkshopID)
				return nil, ErrWorkshopNotFound
			}
			uc.logger.Error("ValidateSlot: failed to get workshop id=%d: %v", req.WorkshopID, err)
			return nil, wrapError("failed to get workshop", err)
		}
		workshop = w.ToDomain()
	}

	// 4. Длительность
	duration := availability.EstimateDuration(settings, uc.defaults, req.ServiceTypes)
	if req.DurationHours != nil {
		duration = availability.MinutesFromHours(*req.DurationHours)
	}

	// 5. Записи: на день слота, а для альтернатив - до горизонта поиска
	endDate := req.Date
	if req.IncludeAlternatives {
		endDate = req.Date.AddDate(0, 0, uc.horizonDays())
	}
	appointments, err := uc.appointmentRepo.GetByWorkshopWithFilter(ctx, domain.AppointmentsFilter{
		WorkshopID: req.WorkshopID,
		StartDate:  req.Date,
		EndDate:    endDate,
	})
	if err != nil {
		uc.logger.Error("ValidateSlot: failed to get appointments for workshop=%d: %v", req.WorkshopID, err)
		return nil, wrapError("failed to get appointments", err)
	}

	// 6. Проверка
	result := availability.ValidateSlot(availability.Input{
		Settings:     settings,
		Workshop:     workshop,
		Appointments: appointments,
		Defaults:     uc.defaults,
		Now:          uc.timeProvider.Now(),
	}, availability.SlotRequest{
		Date:                req.Date,
		Start:               req.StartTime,
		DurationMinutes:     duration,
		IncludeAlternatives: req.IncludeAlternatives,
	})

	if result.Available {
		uc.metrics.RecordSlotValidation(resultAvailable)
		uc.logger.Info("ValidateSlot: workshop=%d, %s %s available", req.WorkshopID,
			req.Date.Format(domain.DateFormat), req.StartTime)
	} else {
		uc.metrics.RecordSlotValidation(string(result.Code))
		uc.logger.Info("ValidateSlot: workshop=%d, %s %s unavailable (%s), %d alternatives", req.WorkshopID,
			req.Date.Format(domain.DateFormat), req.StartTime, result.Code, len(result.Alternatives))
	}

	return toResponse(result, duration), nil
}

func (uc *UseCase) horizonDays() int {
	if uc.defaults.AlternativesHorizonDays > 0 {
		return uc.defaults.AlternativesHorizonDays
	}
	return domain.DefaultAlternativesHorizon
}

func toResponse(r availability.Result, duration int) *Response {
	resp := &Response{
		Available:       r.Available,
		Code:            string(r.Code),
		Reason:          r.Reason,
		DurationMinutes: duration,
		Alternatives:    make([]Alternative, 0, len(r.Alternatives)),
	}
	for _, a := range r.Alternatives {
		resp.Alternatives = append(resp.Alternatives, Alternative{
			Date:      a.Date,
			StartTime: a.Start,
			EndTime:   a.End,
		})
	}
	return resp
}

func wrapError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, workshopClient.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrTransient, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}
