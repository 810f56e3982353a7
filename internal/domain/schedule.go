package domain

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen     bool              `json:"isOpen"`
	OpenTime   *types.TimeString `json:"openTime,omitempty"`
	CloseTime  *types.TimeString `json:"closeTime,omitempty"`
	BreakStart *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd   *types.TimeString `json:"breakEnd,omitempty"`
}

// HasBreak возвращает true, если задан перерыв
func (d DaySchedule) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil
}

// WeeklySchedule расписание работы на неделю
type WeeklySchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForDate возвращает расписание на день недели указанной даты
func (w WeeklySchedule) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// IsEmpty true, если ни один день не открыт
func (w WeeklySchedule) IsEmpty() bool {
	for _, d := range []DaySchedule{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday} {
		if d.IsOpen {
			return false
		}
	}
	return true
}

// Workshop мастерская (данные из WorkshopService)
type Workshop struct {
	ID             int64
	Name           string
	OwnerID        int64
	ManagerIDs     []int64
	OperatingHours WeeklySchedule
}

// CanManage проверяет, что пользователь владелец или менеджер мастерской
func (w *Workshop) CanManage(userID int64) bool {
	if w.OwnerID == userID {
		return true
	}
	for _, id := range w.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
