package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/appointment"
	workshopClient "github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
)

// defaultCancelReason причина, если клиент или мастерская её не указали
const defaultCancelReason = "cancelled"

// Service сервис для работы с записями на обслуживание
type Service struct {
	appointmentRepo AppointmentRepository
	settings        SettingsProvider
	workshopClient  WorkshopServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	settings SettingsProvider,
	workshopClient WorkshopServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		settings:        settings,
		workshopClient:  workshopClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видна клиенту-владельцу и сотрудникам мастерской
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.CustomerID != userID {
		if err := s.checkManagerAccess(ctx, appointment.WorkshopID, userID); err != nil {
			return nil, err
		}
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByCustomer история записей клиента
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: fetching appointments for customer=%d", customerID)

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, wrapError("ListByCustomer", err)
	}

	s.logger.Info("ListByCustomer: fetched %d appointments for customer=%d", len(appointments), customerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListForWorkshop записи мастерской за период, только для сотрудников мастерской
func (s *Service) ListForWorkshop(ctx context.Context, req *models.WorkshopAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForWorkshop: workshop=%d, user=%d, period=%s..%s, includeInactive=%t",
		req.WorkshopID, req.UserID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.IncludeInactive)

	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: invalid period", ErrInvalidInput)
	}
	if days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1; days > domain.MaxAvailabilityRangeDays {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, domain.MaxAvailabilityRangeDays)
	}

	if err := s.checkManagerAccess(ctx, req.WorkshopID, req.UserID); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByWorkshopWithFilter(ctx, domain.AppointmentsFilter{
		WorkshopID:      req.WorkshopID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("ListForWorkshop: repository error for workshop=%d: %v", req.WorkshopID, err)
		return nil, wrapError("ListForWorkshop", err)
	}

	s.logger.Info("ListForWorkshop: fetched %d appointments for workshop=%d", len(appointments), req.WorkshopID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент должен уложиться в срок отмены из настроек мастерской,
// сотрудник мастерской может отменить активную запись в любое время
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if reason == "" {
		reason = defaultCancelReason
	}

	appointment, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	now := s.timeProvider.Now()

	if appointment.CustomerID == req.UserID {
		settings, err := s.settings.Load(ctx, appointment.WorkshopID)
		if err != nil {
			s.logger.Error("Cancel: failed to load settings for workshop=%d: %v", appointment.WorkshopID, err)
			return wrapError("Cancel", err)
		}
		if !appointment.CanBeCancelled(now, settings.Booking.CancellationDeadlineHours) {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled by customer, status=%s",
				id, appointment.Status)
			return fmt.Errorf("%w: cancellation is allowed at least %d hours before start",
				ErrCannotCancel, settings.Booking.CancellationDeadlineHours)
		}
	} else {
		if err := s.checkManagerAccess(ctx, appointment.WorkshopID, req.UserID); err != nil {
			return err
		}
		if !appointment.IsActive() || appointment.Status == domain.AppointmentCompleted {
			s.logger.Warn("Cancel: appointment id=%d is not active, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}
	}

	if err := s.appointmentRepo.Cancel(ctx, id, reason, now); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Запись отменили параллельно
			s.logger.Warn("Cancel: appointment id=%d is no longer active", id)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return wrapError("Cancel", err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, wrapError(op, err)
	}
	return appointment, nil
}

// checkManagerAccess проверяет, что пользователь - владелец или менеджер мастерской
func (s *Service) checkManagerAccess(ctx context.Context, workshopID int64, userID int64) error {
	w, err := s.workshopClient.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, workshopClient.ErrWorkshopNotFound) {
			s.logger.Warn("checkManagerAccess: workshop id=%d not found", workshopID)
			return ErrWorkshopNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get workshop id=%d: %v", workshopID, err)
		return wrapError("checkManagerAccess", err)
	}

	if !w.ToDomain().CanManage(userID) {
		s.logger.Warn("checkManagerAccess: user=%d cannot manage workshop=%d", userID, workshopID)
		return ErrAccessDenied
	}

	return nil
}

func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, workshopClient.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrTransient, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
