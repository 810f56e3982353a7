package workshopservice

import (
	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Workshop модель мастерской из WorkshopService
type Workshop struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	OwnerID      int64        `json:"owner_id"`
	ManagerIDs   []int64      `json:"manager_ids"`
	WorkingHours WorkingHours `json:"working_hours"`
}

// WorkingHours часы работы по дням недели
type WorkingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// DayHours часы работы на день ("HH:MM")
type DayHours struct {
	IsOpen     bool    `json:"is_open"`
	OpenTime   *string `json:"open_time,omitempty"`
	CloseTime  *string `json:"close_time,omitempty"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

// ErrorResponse модель ошибки от WorkshopService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует ответ WorkshopService в доменную модель
// Некорректное время дня делает день закрытым
func (w *Workshop) ToDomain() *domain.Workshop {
	h := w.WorkingHours
	return &domain.Workshop{
		ID:         w.ID,
		Name:       w.Name,
		OwnerID:    w.OwnerID,
		ManagerIDs: w.ManagerIDs,
		OperatingHours: domain.WeeklySchedule{
			Monday:    h.Monday.toDomain(),
			Tuesday:   h.Tuesday.toDomain(),
			Wednesday: h.Wednesday.toDomain(),
			Thursday:  h.Thursday.toDomain(),
			Friday:    h.Friday.toDomain(),
			Saturday:  h.Saturday.toDomain(),
			Sunday:    h.Sunday.toDomain(),
		},
	}
}

func (d DayHours) toDomain() domain.DaySchedule {
	if !d.IsOpen {
		return domain.DaySchedule{IsOpen: false}
	}

	open, okOpen := parseTime(d.OpenTime)
	closeAt, okClose := parseTime(d.CloseTime)
	if !okOpen || !okClose {
		return domain.DaySchedule{IsOpen: false}
	}

	result := domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closeAt}

	breakStart, okStart := parseTime(d.BreakStart)
	breakEnd, okEnd := parseTime(d.BreakEnd)
	if okStart && okEnd {
		result.BreakStart = breakStart
		result.BreakEnd = breakEnd
	}

	return result
}

func parseTime(s *string) (*types.TimeString, bool) {
	if s == nil {
		return nil, false
	}
	t, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
