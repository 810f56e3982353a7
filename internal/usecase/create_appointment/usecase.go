package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	quotationRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/quotation"
	workshopClient "github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/availability"
	"github.com/m04kA/SMC-QuoteService/pkg/redislock"
	"github.com/m04kA/SMC-QuoteService/pkg/txmanager"
)

// lockKeyFormat блокировка на мастерскую и день записи
const lockKeyFormat = "appointment:workshop:%d:date:%s"

// UseCase use case для создания записи на обслуживание
type UseCase struct {
	appointmentRepo AppointmentRepository
	settings        SettingsProvider
	quotations      QuotationReader
	workshopClient  WorkshopServiceClient
	locker          Locker
	txManager       TransactionManager
	defaults        domain.SchedulingDefaults
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// locker может быть redislock.NopLocker, тогда гонки разрешает сериализуемая транзакция
func NewUseCase(
	appointmentRepo AppointmentRepository,
	settings SettingsProvider,
	quotations QuotationReader,
	workshopClient WorkshopServiceClient,
	locker Locker,
	txManager TransactionManager,
	defaults domain.SchedulingDefaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		settings:        settings,
		quotations:      quotations,
		workshopClient:  workshopClient,
		locker:          locker,
		txManager:       txManager,
		defaults:        defaults,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Слот перепроверяется внутри сериализуемой транзакции под блокировкой мастерская+день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, workshop=%d, date=%s, time=%s",
		req.CustomerID, req.WorkshopID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Привязка к запросу на расчёт
	var acceptedQuote *domain.Quote
	serviceTypes := req.ServiceTypes
	if req.QuotationID != nil {
		q, err := uc.quotations.GetByID(ctx, *req.QuotationID)
		if err != nil {
			if errors.Is(err, quotationRepo.ErrQuotationNotFound) {
				uc.logger.Warn("CreateAppointment: quotation id=%s not found", *req.QuotationID)
				return nil, ErrQuotationNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get quotation id=%s: %v", *req.QuotationID, err)
			return nil, wrapError("failed to get quotation", err)
		}

		acceptedQuote, err = validateQuotation(q, req.CustomerID, req.WorkshopID)
		if err != nil {
			uc.logger.Warn("CreateAppointment: quotation id=%s rejected: %v", *req.QuotationID, err)
			return nil, err
		}
		if len(serviceTypes) == 0 {
			serviceTypes = q.ServiceTypes
		}
	}

	// 3. Мастерская (часы работы) - внешний вызов до транзакции
	workshopResp, err := uc.workshopClient.GetWorkshop(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, workshopClient.ErrWorkshopNotFound) {
			uc.logger.Warn("CreateAppointment: workshop id=%d not found", req.WorkshopID)
			return nil, ErrWorkshopNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get workshop id=%d: %v", req.WorkshopID, err)
		return nil, wrapError("failed to get workshop", err)
	}
	workshop := workshopResp.ToDomain()

	// 4. Блокировка мастерская+день
	key := fmt.Sprintf(lockKeyFormat, req.WorkshopID, req.Date.Format(domain.DateFormat))
	release, err := uc.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, redislock.ErrNotAcquired) {
			uc.logger.Warn("CreateAppointment: lock %s is busy", key)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		uc.logger.Error("CreateAppointment: failed to acquire lock %s: %v", key, err)
		return nil, wrapError("failed to acquire lock", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateAppointment: failed to release lock %s: %v", key, err)
		}
	}()

	now := uc.timeProvider.Now()
	var result *domain.Appointment

	// 5. Перепроверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Актуальные настройки
		settings, err := uc.settings.Load(txCtx, req.WorkshopID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to load settings for workshop=%d: %v", req.WorkshopID, err)
			return wrapError("failed to load settings", err)
		}

		duration := resolveDuration(req, settings, uc.defaults, serviceTypes, acceptedQuote)

		// 5.2. Записи этого дня с блокировкой строк (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByWorkshopWithFilter(txCtx, domain.AppointmentsFilter{
			WorkshopID: req.WorkshopID,
			StartDate:  req.Date,
			EndDate:    req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return wrapError("failed to get appointments", err)
		}

		// 5.3. Та же проверка, что и в validate_slot, но без альтернатив
		check := availability.ValidateSlot(availability.Input{
			Settings:     settings,
			Workshop:     workshop,
			Appointments: appointments,
			Defaults:     uc.defaults,
			Now:          now,
		}, availability.SlotRequest{
			Date:            req.Date,
			Start:           req.StartTime,
			DurationMinutes: duration,
		})
		if !check.Available {
			uc.logger.Warn("CreateAppointment: slot %s %s unavailable: %s",
				req.Date.Format(domain.DateFormat), req.StartTime, check.Reason)
			return &SlotUnavailableError{Code: string(check.Code), Reason: check.Reason}
		}

		// 5.4. Сохраняем запись
		status := domain.AppointmentConfirmed
		if settings.Booking.RequireConfirmation {
			status = domain.AppointmentPending
		}

		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			WorkshopID:      req.WorkshopID,
			CustomerID:      req.CustomerID,
			QuotationID:     req.QuotationID,
			ScheduledDate:   req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          status,
			ServiceTypes:    serviceTypes,
			Notes:           req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return wrapError("failed to create appointment", err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateAppointment: serialization conflict for %s", key)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		if isOwnError(err) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, wrapError("transaction failed", err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, status=%s", result.ID, result.Status)

	return &Response{
		ID:              result.ID,
		WorkshopID:      result.WorkshopID,
		CustomerID:      result.CustomerID,
		QuotationID:     result.QuotationID,
		ScheduledDate:   result.ScheduledDate,
		StartTime:       result.StartTime,
		EndTime:         result.StartTime.AddMinutes(result.DurationMinutes),
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceTypes:    result.ServiceTypes,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveDuration длительность: явная -> по услугам -> по принятому предложению -> по умолчанию
func resolveDuration(
	req *Request,
	settings *domain.AppointmentSettings,
	defaults domain.SchedulingDefaults,
	serviceTypes []string,
	quote *domain.Quote,
) int {
	if req.DurationHours != nil {
		return availability.MinutesFromHours(*req.DurationHours)
	}
	if len(req.ServiceTypes) == 0 && quote != nil && quote.EstimatedDurationMinutes > 0 {
		return quote.EstimatedDurationMinutes
	}
	return availability.EstimateDuration(settings, defaults, serviceTypes)
}

func isOwnError(err error) bool {
	for _, target := range []error{ErrSlotNotAvailable, ErrTransient, ErrInternal} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func wrapError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, workshopClient.ErrUnavailable) || errors.Is(err, txmanager.ErrSerialization) {
		return fmt.Errorf("%w: %s: %v", ErrTransient, msg, err)
	}
	// причина сохраняется: txmanager распознаёт по ней конфликт сериализации
	return fmt.Errorf("%w: %s: %w", ErrInternal, msg, err)
}
