package create_appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("create_appointment: workshop not found")

	// ErrQuotationNotFound возвращается, когда привязываемый запрос не найден
	ErrQuotationNotFound = errors.New("create_appointment: quotation not found")

	// ErrAccessDenied возвращается, когда запрос принадлежит другому клиенту
	ErrAccessDenied = errors.New("create_appointment: access denied")

	// ErrQuotationMismatch возвращается, когда в запросе не принято предложение этой мастерской
	ErrQuotationMismatch = errors.New("create_appointment: quotation has no accepted quote from this workshop")

	// ErrSlotNotAvailable возвращается, когда слот недоступен на момент записи
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrTransient временная ошибка: блокировка занята, конфликт сериализации, таймаут
	ErrTransient = errors.New("create_appointment: temporary failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// SlotUnavailableError причина, по которой слот не прошёл повторную проверку
type SlotUnavailableError struct {
	Code   string
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrSlotNotAvailable, e.Reason, e.Code)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrSlotNotAvailable)
func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotNotAvailable
}
