package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/userservice"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/notifications"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

// DefaultNotificationsLimit сколько уведомлений отдаётся мастерской за раз
const DefaultNotificationsLimit = 50

// Config параметры сервиса запросов
type Config struct {
	ExpiryDays int    // срок жизни запроса, 0 - бессрочно
	Currency   string // валюта предложения по умолчанию
}

// Service сервис запросов на расчёт стоимости
// Агрегат Quotation меняется только через свои методы, запись - условная по version
type Service struct {
	quotationRepo    QuotationRepository
	notificationRepo NotificationRepository
	publisher        Publisher
	workshopClient   WorkshopServiceClient
	userClient       UserServiceClient
	txManager        TransactionManager
	metrics          MetricsRecorder
	timeProvider     TimeProvider
	cfg              Config
	logger           Logger
}

// NewService создает новый экземпляр сервиса запросов
func NewService(
	quotationRepo QuotationRepository,
	notificationRepo NotificationRepository,
	publisher Publisher,
	workshopClient WorkshopServiceClient,
	userClient UserServiceClient,
	txManager TransactionManager,
	metrics MetricsRecorder,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}
	return &Service{
		quotationRepo:    quotationRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		workshopClient:   workshopClient,
		userClient:       userClient,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		cfg:              cfg,
		logger:           logger,
	}
}

// Create создает запрос и рассылает его выбранным мастерским
// Описание автомобиля берётся из UserService; при его недоступности запрос создаётся без описания
func (s *Service) Create(ctx context.Context, req *models.CreateQuotationRequest) (*models.QuotationResponse, error) {
	s.logger.Info("Create: customer=%d, car=%d, targets=%v", req.CustomerID, req.CarID, req.TargetWorkshopIDs)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	carSummary := ""
	car, err := s.userClient.GetCarWithGracefulDegradation(ctx, req.CustomerID, req.CarID)
	switch {
	case err == nil:
		carSummary = car.Summary()
	case errors.Is(err, userservice.ErrCarNotFound):
		s.logger.Warn("Create: car id=%d not found for customer=%d", req.CarID, req.CustomerID)
		return nil, ErrCarNotFound
	default:
		s.logger.Warn("Create: car summary unavailable for customer=%d: %v", req.CustomerID, err)
	}

	now := s.timeProvider.Now()
	expiryDays := s.cfg.ExpiryDays
	if req.ExpiresInDays != nil {
		expiryDays = *req.ExpiresInDays
	}
	var expiresAt *time.Time
	if expiryDays > 0 {
		at := now.AddDate(0, 0, expiryDays)
		expiresAt = &at
	}

	serviceTypes := req.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}

	q, err := domain.NewQuotation(req.CustomerID, req.CarID, carSummary, req.Description, serviceTypes, req.TargetWorkshopIDs, now, expiresAt)
	if err != nil {
		s.logger.Warn("Create: invalid quotation for customer=%d: %v", req.CustomerID, err)
		return nil, mapError("Create", err)
	}

	if err := s.quotationRepo.Create(ctx, q); err != nil {
		s.logger.Error("Create: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, mapError("Create", err)
	}

	s.logger.Info("Create: quotation id=%s created for customer=%d", q.ID, req.CustomerID)
	resp := models.FromDomainQuotation(q, now)
	return &resp, nil
}

// GetByID возвращает запрос его владельцу
func (s *Service) GetByID(ctx context.Context, quotationID string, customerID int64) (*models.QuotationResponse, error) {
	s.logger.Info("GetByID: fetching quotation id=%s for customer=%d", quotationID, customerID)

	q, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, s.repoError("GetByID", quotationID, err)
	}

	if q.CustomerID != customerID {
		s.logger.Warn("GetByID: access denied for customer=%d to quotation id=%s", customerID, quotationID)
		return nil, ErrAccessDenied
	}

	resp := models.FromDomainQuotation(q, s.timeProvider.Now())
	return &resp, nil
}

// ListByCustomer запросы клиента, новые первыми
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) (*models.QuotationListResponse, error) {
	s.logger.Info("ListByCustomer: fetching quotations for customer=%d", customerID)

	list, err := s.quotationRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, mapError("ListByCustomer", err)
	}

	s.logger.Info("ListByCustomer: fetched %d quotations for customer=%d", len(list), customerID)
	return models.FromDomainQuotationList(list, s.timeProvider.Now()), nil
}

// ListForWorkshop активные входящие запросы мастерской
func (s *Service) ListForWorkshop(ctx context.Context, workshopID, userID int64) (*models.QuotationListResponse, error) {
	s.logger.Info("ListForWorkshop: fetching quotations for workshop=%d, user=%d", workshopID, userID)

	if _, err := s.authorizeWorkshop(ctx, "ListForWorkshop", workshopID, userID); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	list, err := s.quotationRepo.ListActiveForWorkshop(ctx, workshopID, now)
	if err != nil {
		s.logger.Error("ListForWorkshop: repository error for workshop=%d: %v", workshopID, err)
		return nil, mapError("ListForWorkshop", err)
	}

	s.logger.Info("ListForWorkshop: fetched %d quotations for workshop=%d", len(list), workshopID)
	return models.FromDomainWorkshopQuotationList(list, workshopID, now), nil
}

// GetForWorkshop запрос глазами мастерской; фиксирует просмотр
func (s *Service) GetForWorkshop(ctx context.Context, quotationID string, workshopID, userID int64) (*models.QuotationResponse, error) {
	s.logger.Info("GetForWorkshop: quotation id=%s, workshop=%d, user=%d", quotationID, workshopID, userID)

	if _, err := s.authorizeWorkshop(ctx, "GetForWorkshop", workshopID, userID); err != nil {
		return nil, err
	}

	q, err := s.markViewed(ctx, quotationID, workshopID)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainQuotationForWorkshop(q, workshopID, s.timeProvider.Now())
	return &resp, nil
}

// markViewed отмечает, что мастерская открыла запрос
// Идемпотентна: повторный просмотр ничего не записывает
func (s *Service) markViewed(ctx context.Context, quotationID string, workshopID int64) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, s.repoError("MarkViewed", quotationID, err)
	}

	// Завершённый запрос не перезаписываем: CAS всё равно отвергнет запись
	if q.IsFinalized() {
		if !q.IsTargeted(workshopID) {
			return nil, mapError("MarkViewed", domain.ErrWorkshopNotTargeted)
		}
		return q, nil
	}

	changed, err := q.MarkViewed(workshopID, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("MarkViewed: workshop=%d rejected for quotation id=%s: %v", workshopID, quotationID, err)
		return nil, mapError("MarkViewed", err)
	}
	if !changed {
		return q, nil
	}

	if err := s.quotationRepo.Update(ctx, q); err != nil {
		// Просмотр не критичен: при гонке отдаём прочитанное состояние
		s.logger.Warn("MarkViewed: failed to persist view for quotation id=%s: %v", quotationID, err)
		return q, nil
	}

	s.logger.Info("MarkViewed: quotation id=%s viewed by workshop=%d", quotationID, workshopID)
	return q, nil
}

// SubmitQuote создает или обновляет предложение мастерской
// Название мастерской денормализуется в предложение на момент отправки
func (s *Service) SubmitQuote(ctx context.Context, quotationID string, req *models.SubmitQuoteRequest) (*models.SubmitQuoteResponse, error) {
	s.logger.Info("SubmitQuote: quotation id=%s, workshop=%d, user=%d, amount=%.2f",
		quotationID, req.WorkshopID, req.UserID, req.TotalAmount)

	if err := validateSubmitRequest(req); err != nil {
		s.logger.Warn("SubmitQuote: validation failed: %v", err)
		return nil, err
	}

	workshop, err := s.authorizeWorkshop(ctx, "SubmitQuote", req.WorkshopID, req.UserID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.Currency
	}

	var (
		quote   domain.Quote
		created bool
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		q, err := s.quotationRepo.GetByID(txCtx, quotationID)
		if err != nil {
			return err
		}

		quote, created, err = q.SubmitQuote(domain.QuoteBid{
			WorkshopID:               req.WorkshopID,
			WorkshopName:             workshop.Name,
			TotalAmount:              req.TotalAmount,
			Currency:                 currency,
			EstimatedDurationMinutes: req.EstimatedDurationMinutes,
			Notes:                    req.Notes,
		}, s.timeProvider.Now())
		if err != nil {
			return err
		}

		return s.quotationRepo.Update(txCtx, q)
	})
	if err != nil {
		mapped := mapError("SubmitQuote", err)
		s.logger.Warn("SubmitQuote: quotation id=%s, workshop=%d failed: %v", quotationID, req.WorkshopID, err)
		return nil, mapped
	}

	kind := "updated"
	if created {
		kind = "created"
	}
	s.metrics.RecordQuoteSubmitted(kind)

	s.logger.Info("SubmitQuote: quote id=%s %s for quotation id=%s", quote.ID, kind, quotationID)
	return &models.SubmitQuoteResponse{Quote: models.FromDomainQuote(quote), Created: created}, nil
}

// AcceptQuote выбор победителя клиентом
// Чтение, проверка, условная запись и outbox уведомлений выполняются в одной транзакции.
// Из двух параллельных выборов проходит ровно один, второй получает ErrConflict без повтора
func (s *Service) AcceptQuote(ctx context.Context, quotationID, quoteID string, customerID int64) (*models.ResolutionResponse, error) {
	s.logger.Info("AcceptQuote: quotation id=%s, quote id=%s, customer=%d", quotationID, quoteID, customerID)

	var (
		result *domain.Quotation
		issued []domain.Notification
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		q, err := s.quotationRepo.GetByID(txCtx, quotationID)
		if err != nil {
			return err
		}

		now := s.timeProvider.Now()
		outcome, err := q.AcceptQuote(quoteID, customerID, now)
		if err != nil {
			return err
		}

		if err := s.quotationRepo.Update(txCtx, q); err != nil {
			return err
		}

		issued = notifications.BuildAcceptNotifications(domain.QuoteAcceptedEvent{
			QuotationID: q.ID,
			CarSummary:  q.CarSummary,
			Winner:      outcome.Winner,
			Losers:      outcome.Losers,
			OccurredAt:  now,
		})
		if err := s.notificationRepo.CreateBatch(txCtx, issued); err != nil {
			return err
		}

		result = q
		return nil
	})

	if err != nil {
		mapped := mapError("AcceptQuote", err)
		s.metrics.RecordQuoteResolution("accept", resolutionOutcome(mapped))
		if errors.Is(mapped, ErrInternal) {
			s.logger.Error("AcceptQuote: quotation id=%s failed: %v", quotationID, err)
		} else {
			s.logger.Warn("AcceptQuote: quotation id=%s rejected: %v", quotationID, err)
		}
		return nil, mapped
	}

	s.metrics.RecordQuoteResolution("accept", resolutionOutcome(nil))
	s.logger.Info("AcceptQuote: quote id=%s accepted, %d notifications issued", quoteID, len(issued))

	s.publish(ctx, issued)

	return &models.ResolutionResponse{
		Quotation:         models.FromDomainQuotation(result, s.timeProvider.Now()),
		NotificationsSent: len(issued),
	}, nil
}

// DeclineQuote ручное отклонение предложения клиентом
func (s *Service) DeclineQuote(ctx context.Context, quotationID, quoteID string, req *models.DeclineQuoteRequest) (*models.ResolutionResponse, error) {
	s.logger.Info("DeclineQuote: quotation id=%s, quote id=%s, customer=%d", quotationID, quoteID, req.CustomerID)

	var (
		result *domain.Quotation
		issued []domain.Notification
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		q, err := s.quotationRepo.GetByID(txCtx, quotationID)
		if err != nil {
			return err
		}

		now := s.timeProvider.Now()
		declined, err := q.DeclineQuote(quoteID, req.CustomerID, req.Reason, now)
		if err != nil {
			return err
		}

		if err := s.quotationRepo.Update(txCtx, q); err != nil {
			return err
		}

		issued = []domain.Notification{notifications.BuildDeclineNotification(domain.QuoteDeclinedEvent{
			QuotationID: q.ID,
			CarSummary:  q.CarSummary,
			Quote:       declined,
			OccurredAt:  now,
		})}
		if err := s.notificationRepo.CreateBatch(txCtx, issued); err != nil {
			return err
		}

		result = q
		return nil
	})

	if err != nil {
		mapped := mapError("DeclineQuote", err)
		s.metrics.RecordQuoteResolution("decline", resolutionOutcome(mapped))
		s.logger.Warn("DeclineQuote: quotation id=%s, quote id=%s failed: %v", quotationID, quoteID, err)
		return nil, mapped
	}

	s.metrics.RecordQuoteResolution("decline", resolutionOutcome(nil))
	s.logger.Info("DeclineQuote: quote id=%s declined", quoteID)

	s.publish(ctx, issued)

	return &models.ResolutionResponse{
		Quotation:         models.FromDomainQuotation(result, s.timeProvider.Now()),
		NotificationsSent: len(issued),
	}, nil
}

// Cancel отмена запроса клиентом до выбора победителя
func (s *Service) Cancel(ctx context.Context, quotationID string, customerID int64) error {
	s.logger.Info("Cancel: quotation id=%s, customer=%d", quotationID, customerID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		q, err := s.quotationRepo.GetByID(txCtx, quotationID)
		if err != nil {
			return err
		}

		if q.Status == domain.QuotationCancelled {
			if q.CustomerID != customerID {
				return domain.ErrNotQuotationOwner
			}
			return nil
		}

		if err := q.Cancel(customerID, s.timeProvider.Now()); err != nil {
			return err
		}
		return s.quotationRepo.Update(txCtx, q)
	})
	if err != nil {
		s.logger.Warn("Cancel: quotation id=%s failed: %v", quotationID, err)
		return mapError("Cancel", err)
	}

	s.logger.Info("Cancel: quotation id=%s cancelled", quotationID)
	return nil
}

// ListNotifications уведомления мастерской, новые первыми
func (s *Service) ListNotifications(ctx context.Context, workshopID, userID int64, limit uint64) (*models.NotificationListResponse, error) {
	s.logger.Info("ListNotifications: workshop=%d, user=%d", workshopID, userID)

	if _, err := s.authorizeWorkshop(ctx, "ListNotifications", workshopID, userID); err != nil {
		return nil, err
	}

	if limit == 0 || limit > DefaultNotificationsLimit {
		limit = DefaultNotificationsLimit
	}

	list, err := s.notificationRepo.ListByWorkshop(ctx, workshopID, limit)
	if err != nil {
		s.logger.Error("ListNotifications: repository error for workshop=%d: %v", workshopID, err)
		return nil, mapError("ListNotifications", err)
	}

	return models.FromDomainNotifications(list), nil
}

// publish best-effort отправка после коммита
// Неотправленные уведомления остаются в outbox для relay
func (s *Service) publish(ctx context.Context, issued []domain.Notification) {
	for _, n := range issued {
		s.metrics.RecordNotification(string(n.Type))
	}

	ids, err := s.publisher.Publish(ctx, issued)
	if err != nil {
		s.logger.Warn("publish: %d of %d notifications sent, rest left in outbox: %v", len(ids), len(issued), err)
	}
	if len(ids) == 0 {
		return
	}

	if err := s.notificationRepo.MarkPublished(ctx, ids, s.timeProvider.Now()); err != nil {
		s.logger.Warn("publish: failed to mark %d notifications as published: %v", len(ids), err)
	}
}

// authorizeWorkshop проверяет, что пользователь управляет мастерской
func (s *Service) authorizeWorkshop(ctx context.Context, op string, workshopID, userID int64) (*workshopservice.Workshop, error) {
	workshop, err := s.workshopClient.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, workshopservice.ErrWorkshopNotFound) {
			s.logger.Warn("%s: workshop id=%d not found", op, workshopID)
			return nil, ErrWorkshopNotFound
		}
		s.logger.Error("%s: failed to get workshop id=%d: %v", op, workshopID, err)
		return nil, mapError(op, err)
	}

	if !workshop.ToDomain().CanManage(userID) {
		s.logger.Warn("%s: user=%d is not a manager of workshop=%d", op, userID, workshopID)
		return nil, ErrAccessDenied
	}

	return workshop, nil
}

func (s *Service) repoError(op, quotationID string, err error) error {
	mapped := mapError(op, err)
	if errors.Is(mapped, ErrQuotationNotFound) {
		s.logger.Warn("%s: quotation id=%s not found", op, quotationID)
	} else {
		s.logger.Error("%s: repository error for quotation id=%s: %v", op, quotationID, err)
	}
	return mapped
}

func validateCreateRequest(req *models.CreateQuotationRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if req.CarID <= 0 {
		return fmt.Errorf("%w: carId must be positive", ErrInvalidInput)
	}
	if len(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}
	if req.ExpiresInDays != nil && (*req.ExpiresInDays < 1 || *req.ExpiresInDays > domain.MaxQuotationExpiryDays) {
		return fmt.Errorf("%w: expiresInDays must be between 1 and %d", ErrInvalidInput, domain.MaxQuotationExpiryDays)
	}
	for _, st := range req.ServiceTypes {
		if strings.TrimSpace(st) == "" {
			return fmt.Errorf("%w: empty service type", ErrInvalidInput)
		}
	}
	return nil
}

func validateSubmitRequest(req *models.SubmitQuoteRequest) error {
	if req.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshopId must be positive", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}
	if c := strings.TrimSpace(req.Currency); c != "" && len(c) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	return nil
}
