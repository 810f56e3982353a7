package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel запись уже неактивна или срок отмены клиентом прошёл
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrTransient временная ошибка (таймаут, недоступность WorkshopService)
	ErrTransient = errors.New("service: temporary failure")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
