package validate_slot

import "errors"

var (
	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("validate_slot: workshop not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_slot: invalid input data")

	// ErrTransient временная ошибка (таймаут, недоступность WorkshopService)
	ErrTransient = errors.New("validate_slot: temporary failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_slot: internal error")
)
