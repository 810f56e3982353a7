package remove_exception

import "context"

type SettingsService interface {
	RemoveException(ctx context.Context, workshopID, userID int64, exceptionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
