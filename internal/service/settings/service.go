package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/availability"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Service сервис настроек записи мастерской
type Service struct {
	settingsRepo   SettingsRepository
	workshopClient WorkshopServiceClient
	defaults       domain.SchedulingDefaults
	logger         Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	workshopClient WorkshopServiceClient,
	defaults domain.SchedulingDefaults,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo:   settingsRepo,
		workshopClient: workshopClient,
		defaults:       defaults,
		logger:         logger,
	}
}

// Load возвращает настройки мастерской, создавая дефолтные при первом обращении
// Незаполненные поля нормализуются значениями из конфигурации
func (s *Service) Load(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error) {
	settings, err := s.settingsRepo.GetByWorkshopID(ctx, workshopID)
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Info("Load: creating default settings for workshop=%d", workshopID)
		settings, err = s.settingsRepo.CreateIfNotExists(ctx, s.defaults.NewDefaultSettings(workshopID))
	}
	if err != nil {
		s.logger.Error("Load: repository error for workshop=%d: %v", workshopID, err)
		return nil, wrapError("Load", err)
	}

	s.defaults.Normalize(settings)
	return settings, nil
}

// Get настройки записи мастерской
// Публичный метод: клиенту нужны правила записи
func (s *Service) Get(ctx context.Context, workshopID int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for workshop=%d", workshopID)

	settings, err := s.Load(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки
// Доступно только владельцу и менеджерам мастерской
func (s *Service) Update(ctx context.Context, workshopID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for workshop=%d by user=%d", workshopID, req.UserID)

	if err := s.authorize(ctx, "Update", workshopID, req.UserID); err != nil {
		return nil, err
	}

	settings, err := s.Load(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(settings)
	if err := validateSettings(settings); err != nil {
		s.logger.Warn("Update: validation failed for workshop=%d: %v", workshopID, err)
		return nil, err
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		s.logger.Error("Update: repository error for workshop=%d: %v", workshopID, err)
		return nil, wrapError("Update", err)
	}

	s.logger.Info("Update: settings updated for workshop=%d", workshopID)
	return models.FromDomainSettings(settings), nil
}

// AddException добавляет исключение из расписания
// На одну дату допускается одно исключение
func (s *Service) AddException(ctx context.Context, workshopID int64, req *models.AddExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("AddException: workshop=%d, date=%s, type=%s by user=%d", workshopID, req.Date, req.Type, req.UserID)

	exception, err := s.parseException(req)
	if err != nil {
		s.logger.Warn("AddException: validation failed: %v", err)
		return nil, err
	}

	if err := s.authorize(ctx, "AddException", workshopID, req.UserID); err != nil {
		return nil, err
	}

	settings, err := s.Load(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	if settings.ExceptionFor(exception.Date) != nil {
		s.logger.Warn("AddException: workshop=%d already has an exception on %s", workshopID, req.Date)
		return nil, ErrExceptionExists
	}

	settings.Exceptions = append(settings.Exceptions, *exception)
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		s.logger.Error("AddException: repository error for workshop=%d: %v", workshopID, err)
		return nil, wrapError("AddException", err)
	}

	s.logger.Info("AddException: exception id=%s added for workshop=%d", exception.ID, workshopID)
	resp := models.FromDomainException(*exception)
	return &resp, nil
}

// RemoveException удаляет исключение из расписания
func (s *Service) RemoveException(ctx context.Context, workshopID, userID int64, exceptionID string) error {
	s.logger.Info("RemoveException: workshop=%d, exception id=%s by user=%d", workshopID, exceptionID, userID)

	if err := s.authorize(ctx, "RemoveException", workshopID, userID); err != nil {
		return err
	}

	settings, err := s.Load(ctx, workshopID)
	if err != nil {
		return err
	}

	kept := make([]domain.AvailabilityException, 0, len(settings.Exceptions))
	for _, e := range settings.Exceptions {
		if e.ID != exceptionID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(settings.Exceptions) {
		s.logger.Warn("RemoveException: exception id=%s not found for workshop=%d", exceptionID, workshopID)
		return ErrExceptionNotFound
	}

	settings.Exceptions = kept
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		s.logger.Error("RemoveException: repository error for workshop=%d: %v", workshopID, err)
		return wrapError("RemoveException", err)
	}

	return nil
}

// EstimateDuration оценка длительности набора услуг с учётом настроек мастерской
// Пустой список услуг - длительность по умолчанию
func (s *Service) EstimateDuration(ctx context.Context, workshopID int64, req *models.EstimateDurationRequest) (*models.DurationEstimateResponse, error) {
	s.logger.Info("EstimateDuration: workshop=%d, services=%v", workshopID, req.ServiceTypes)

	settings, err := s.Load(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	for _, st := range req.ServiceTypes {
		if !settings.IsServiceEnabled(st) {
			s.logger.Warn("EstimateDuration: service %s is not enabled for workshop=%d", st, workshopID)
			return nil, fmt.Errorf("%w: service %s is not offered by the workshop", ErrInvalidInput, st)
		}
	}

	serviceTypes := req.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}

	minutes := availability.EstimateDuration(settings, s.defaults, serviceTypes)
	return &models.DurationEstimateResponse{
		ServiceTypes:    serviceTypes,
		DurationMinutes: minutes,
		DurationHours:   availability.HoursFromMinutes(minutes),
	}, nil
}

// authorize проверяет, что пользователь управляет мастерской
func (s *Service) authorize(ctx context.Context, op string, workshopID, userID int64) error {
	workshop, err := s.workshopClient.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, workshopservice.ErrWorkshopNotFound) {
			s.logger.Warn("%s: workshop id=%d not found", op, workshopID)
			return ErrWorkshopNotFound
		}
		s.logger.Error("%s: failed to get workshop id=%d: %v", op, workshopID, err)
		return wrapError(op, err)
	}

	if !workshop.ToDomain().CanManage(userID) {
		s.logger.Warn("%s: user=%d is not a manager of workshop=%d", op, userID, workshopID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) parseException(req *models.AddExceptionRequest) (*domain.AvailabilityException, error) {
	loc := s.defaults.Location
	if loc == nil {
		loc = time.UTC
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	excType := domain.ExceptionType(req.Type)
	if !excType.IsValid() {
		return nil, fmt.Errorf("%w: unknown exception type %q", ErrInvalidInput, req.Type)
	}

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	exception := &domain.AvailabilityException{
		ID:     uuid.NewString(),
		Date:   date,
		Type:   excType,
		Reason: reason,
	}

	if excType == domain.ExceptionModifiedHours {
		if req.OpenTime == nil || req.CloseTime == nil {
			return nil, fmt.Errorf("%w: modified_hours requires openTime and closeTime", ErrInvalidInput)
		}
		open, errOpen := types.NewTimeStringFromString(*req.OpenTime)
		closeAt, errClose := types.NewTimeStringFromString(*req.CloseTime)
		if errOpen != nil || errClose != nil {
			return nil, fmt.Errorf("%w: time must be in HH:MM format", ErrInvalidInput)
		}
		if !open.IsBefore(closeAt) {
			return nil, fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
		}
		exception.OpenTime = &open
		exception.CloseTime = &closeAt
	}

	return exception, nil
}

// validateSettings проверяет диапазоны значений после применения изменений
func validateSettings(s *domain.AppointmentSettings) error {
	slot := s.Slot
	if slot.DefaultDurationMinutes < domain.MinSlotIntervalMinutes || slot.DefaultDurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxDurationMinutes)
	}
	if slot.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || slot.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}
	if slot.BufferMinutes < 0 || slot.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if slot.MaxConcurrentAppointments < 1 || slot.MaxConcurrentAppointments > domain.MaxConcurrentLimit {
		return fmt.Errorf("%w: maxConcurrentAppointments must be between 1 and %d", ErrInvalidInput, domain.MaxConcurrentLimit)
	}
	for service, minutes := range slot.ServiceDurations {
		if strings.TrimSpace(service) == "" || minutes <= 0 || minutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: invalid duration for service %q", ErrInvalidInput, service)
		}
	}

	b := s.Booking
	if b.MinAdvanceHours < 0 {
		return fmt.Errorf("%w: minAdvanceHours must not be negative", ErrInvalidInput)
	}
	if b.MaxAdvanceDays < 0 || b.MaxAdvanceDays > domain.MaxAdvanceDaysLimit {
		return fmt.Errorf("%w: maxAdvanceDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceDaysLimit)
	}
	if b.MaxAdvanceDays > 0 && b.MinAdvanceHours > b.MaxAdvanceDays*24 {
		return fmt.Errorf("%w: minAdvanceHours exceeds maxAdvanceDays", ErrInvalidInput)
	}
	if b.CancellationDeadlineHours < 0 || b.RescheduleDeadlineHours < 0 || b.ReminderHoursBefore < 0 {
		return fmt.Errorf("%w: deadlines must not be negative", ErrInvalidInput)
	}

	if s.Deposit.Amount < 0 || s.Deposit.Percent < 0 || s.Deposit.Percent > 100 {
		return fmt.Errorf("%w: invalid deposit policy", ErrInvalidInput)
	}

	return validateWeek(s.CustomAvailability)
}

func validateWeek(w domain.WeeklySchedule) error {
	days := map[string]domain.DaySchedule{
		"monday": w.Monday, "tuesday": w.Tuesday, "wednesday": w.Wednesday, "thursday": w.Thursday,
		"friday": w.Friday, "saturday": w.Saturday, "sunday": w.Sunday,
	}
	for name, d := range days {
		if !d.IsOpen {
			continue
		}
		if d.OpenTime == nil || d.CloseTime == nil {
			return fmt.Errorf("%w: %s: openTime and closeTime are required", ErrInvalidInput, name)
		}
		// 00:00 в closeTime означает конец суток
		closeMin := d.CloseTime.Minutes()
		if closeMin == 0 {
			closeMin = types.MinutesPerDay
		}
		if d.OpenTime.Minutes() >= closeMin {
			return fmt.Errorf("%w: %s: openTime must be before closeTime", ErrInvalidInput, name)
		}
		if d.BreakStart != nil || d.BreakEnd != nil {
			if !d.HasBreak() {
				return fmt.Errorf("%w: %s: breakStart and breakEnd go together", ErrInvalidInput, name)
			}
			bs, be := d.BreakStart.Minutes(), d.BreakEnd.Minutes()
			if bs >= be || bs < d.OpenTime.Minutes() || be > closeMin {
				return fmt.Errorf("%w: %s: break must lie within working hours", ErrInvalidInput, name)
			}
		}
	}
	return nil
}

func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, workshopservice.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrTransient, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
