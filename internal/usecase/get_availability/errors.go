package get_availability

import "errors"

var (
	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("get_availability: workshop not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrTransient временная ошибка (таймаут, недоступность WorkshopService)
	ErrTransient = errors.New("get_availability: temporary failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
