package workshopservice

import "errors"

var (
	// ErrWorkshopNotFound возвращается, когда мастерская не найдена
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("workshopservice client: internal error")

	// ErrUnavailable сервис недоступен (сетевая ошибка, таймаут, 5xx), запрос можно повторить
	ErrUnavailable = errors.New("workshopservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("workshopservice client: invalid response")
)
