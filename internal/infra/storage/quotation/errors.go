package quotation

import "errors"

var (
	// ErrQuotationNotFound возвращается, когда запрос не найден
	ErrQuotationNotFound = errors.New("quotation.repository: quotation not found")

	// ErrConflict условное обновление не применилось: версия изменилась или запрос уже завершён
	ErrConflict = errors.New("quotation.repository: concurrent modification")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("quotation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("quotation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("quotation.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации/десериализации предложений
	ErrEncode = errors.New("quotation.repository: failed to encode quotes")
)
