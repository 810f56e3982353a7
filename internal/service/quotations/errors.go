package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	quotationRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/quotation"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/pkg/txmanager"
)

var (
	// ErrQuotationNotFound возвращается, когда запрос не найден
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrQuoteNotFound возвращается, когда предложение не найдено в запросе
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrCarNotFound возвращается, когда автомобиль не найден у клиента
	ErrCarNotFound = errors.New("car not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict запрос уже завершён, истёк, отменён или изменён параллельно
	ErrConflict = errors.New("quotation conflict")

	// ErrInvalidState предложение в статусе, не допускающем операцию
	ErrInvalidState = errors.New("invalid quote state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrTransient временная ошибка (таймаут, конфликт сериализации, недоступность зависимости), можно повторить
	ErrTransient = errors.New("service: temporary failure")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// mapError сводит ошибки агрегата и репозиториев к ошибкам сервиса
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuote), errors.Is(err, domain.ErrInvalidQuotation):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrNotQuotationOwner), errors.Is(err, domain.ErrWorkshopNotTargeted):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case errors.Is(err, quotationRepo.ErrQuotationNotFound):
		return ErrQuotationNotFound
	case errors.Is(err, domain.ErrQuoteNotFound):
		return ErrQuoteNotFound
	case errors.Is(err, domain.ErrQuotationFinalized),
		errors.Is(err, domain.ErrQuotationExpired),
		errors.Is(err, domain.ErrQuotationCancelled),
		errors.Is(err, quotationRepo.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, domain.ErrInvalidQuoteState), errors.Is(err, domain.ErrInvalidQuotationState):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	case isTransient(err):
		return fmt.Errorf("%w: %s: %v", ErrTransient, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

func isTransient(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, txmanager.ErrSerialization) ||
		errors.Is(err, workshopservice.ErrUnavailable)
}

// resolutionOutcome метка исхода для метрик accept/decline
func resolutionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInternal), errors.Is(err, ErrTransient):
		return "error"
	default:
		return "rejected"
	}
}
