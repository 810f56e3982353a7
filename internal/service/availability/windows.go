package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// window открытый интервал работы в минутах от полуночи [start, end)
type window struct {
	start int
	end   int
}

func (w window) contains(start, end int) bool {
	return start >= w.start && end <= w.end
}

// dayWindows возвращает открытые окна на дату
// Порядок: базовое расписание (часы мастерской или своё), затем исключение на дату, затем перерыв
// Пустой результат означает, что мастерская закрыта; closedReason поясняет почему
func dayWindows(in Input, date time.Time) (windows []window, closedReason string) {
	schedule, ok := baseSchedule(in, date)

	if exc := in.Settings.ExceptionFor(date); exc != nil {
		switch {
		case exc.ClosesDay():
			return nil, exceptionReason(exc)
		case exc.Type == domain.ExceptionModifiedHours:
			if exc.OpenTime == nil || exc.CloseTime == nil {
				return nil, exceptionReason(exc)
			}
			// Изменённые часы заменяют окно целиком, перерыв не наследуется
			schedule = domain.DaySchedule{IsOpen: true, OpenTime: exc.OpenTime, CloseTime: exc.CloseTime}
			ok = true
		}
	}

	if !ok || !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return nil, ReasonClosed
	}

	open := schedule.OpenTime.Minutes()
	closeAt := schedule.CloseTime.Minutes()
	// 00:00 как время закрытия означает конец суток
	if closeAt == 0 {
		closeAt = types.MinutesPerDay
	}
	if closeAt <= open {
		return nil, ReasonClosed
	}

	if !schedule.HasBreak() {
		return []window{{start: open, end: closeAt}}, ""
	}

	breakStart := schedule.BreakStart.Minutes()
	breakEnd := schedule.BreakEnd.Minutes()
	if breakEnd <= breakStart {
		return []window{{start: open, end: closeAt}}, ""
	}

	result := make([]window, 0, 2)
	if breakStart > open {
		result = append(result, window{start: open, end: min(breakStart, closeAt)})
	}
	if breakEnd < closeAt {
		result = append(result, window{start: max(breakEnd, open), end: closeAt})
	}
	if len(result) == 0 {
		return nil, ReasonClosed
	}
	return result, ""
}

func baseSchedule(in Input, date time.Time) (domain.DaySchedule, bool) {
	if in.Settings.UseWorkshopHours {
		if in.Workshop == nil {
			return domain.DaySchedule{}, false
		}
		return in.Workshop.OperatingHours.ForDate(date), true
	}
	return in.Settings.CustomAvailability.ForDate(date), true
}

func exceptionReason(exc *domain.AvailabilityException) string {
	if exc.Reason == "" {
		return ReasonClosed
	}
	return fmt.Sprintf("%s: %s", ReasonClosed, exc.Reason)
}
