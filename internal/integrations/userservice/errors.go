package userservice

import "errors"

var (
	// ErrCarNotFound возвращается, когда автомобиль не найден у пользователя
	ErrCarNotFound = errors.New("car not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// UserService недоступен, запрос создаётся без описания автомобиля
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
