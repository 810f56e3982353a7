package settings

import "errors"

var (
	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrAccessDenied возвращается, когда пользователь не управляет мастерской
	ErrAccessDenied = errors.New("access denied")

	// ErrExceptionNotFound возвращается, когда исключение из расписания не найдено
	ErrExceptionNotFound = errors.New("availability exception not found")

	// ErrExceptionExists на эту дату уже есть исключение
	ErrExceptionExists = errors.New("availability exception already exists for this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrTransient временная ошибка, запрос можно повторить
	ErrTransient = errors.New("service: temporary failure")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
