package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Compute считает слоты по дням для периода [StartDate, EndDate]
// Для каждого дня: окна работы -> исключения -> генерация стартов с шагом slotInterval ->
// проверка окна записи и пересечений с существующими записями
func Compute(in Input, r Range) []domain.DaySlots {
	loc := location(in)
	start := dateOnly(r.StartDate, loc)
	end := dateOnly(r.EndDate, loc)

	byDate := groupByDate(in.Appointments, loc)

	result := make([]domain.DaySlots, 0, int(end.Sub(start).Hours()/24)+1)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		result = append(result, computeDay(in, date, r.DurationMinutes, byDate[dateKey(date)]))
	}

	return result
}

func computeDay(in Input, date time.Time, duration int, appointments []*domain.Appointment) domain.DaySlots {
	day := domain.DaySlots{Date: date, Slots: []domain.Slot{}}

	windows, _ := dayWindows(in, date)
	if len(windows) == 0 {
		day.Closed = true
		return day
	}

	interval := in.Settings.Slot.SlotIntervalMinutes
	if interval <= 0 {
		interval = in.Defaults.SlotIntervalMinutes
	}
	if interval <= 0 {
		interval = domain.DefaultSlotIntervalMinutes
	}

	for _, w := range windows {
		// Слот предлагается, только если вся длительность помещается до перерыва или закрытия
		for startMin := w.start; startMin+duration <= w.end; startMin += interval {
			slot := domain.Slot{
				Start:     types.FromMinutes(startMin),
				End:       types.FromMinutes(startMin + duration),
				Available: true,
			}

			if _, reason, ok := checkAdvance(in, date, startMin); !ok {
				slot.Available = false
				slot.Reason = reason
			} else if _, reason, ok := checkCapacity(in, startMin, startMin+duration, appointments); !ok {
				slot.Available = false
				slot.Reason = reason
			}

			day.Slots = append(day.Slots, slot)
		}
	}

	return day
}

// checkAdvance проверяет окно предварительной записи относительно now
func checkAdvance(in Input, date time.Time, startMin int) (ReasonCode, string, bool) {
	appointmentAt := date.Add(time.Duration(startMin) * time.Minute)
	hoursAdvance := appointmentAt.Sub(in.Now).Hours()

	if hoursAdvance < 0 {
		return CodeInPast, ReasonInPast, false
	}

	minHours := in.Settings.Booking.MinAdvanceHours
	if hoursAdvance < float64(minHours) {
		return CodeTooSoon, fmt.Sprintf("appointments must be booked at least %d hours in advance", minHours), false
	}

	maxDays := in.Settings.Booking.MaxAdvanceDays
	if maxDays > 0 && hoursAdvance/24 > float64(maxDays) {
		return CodeTooFar, fmt.Sprintf("appointments cannot be booked more than %d days in advance", maxDays), false
	}

	return "", "", true
}

// checkCapacity проверяет пересечения с существующими записями того же дня
// Без разрешения пересечений любая накладка - конфликт,
// иначе сравнивается пиковое число одновременных записей с maxConcurrent
func checkCapacity(in Input, startMin, endMin int, appointments []*domain.Appointment) (ReasonCode, string, bool) {
	peak := peakConcurrency(startMin, endMin, in.Settings.Slot.BufferMinutes, appointments)
	if peak == 0 {
		return "", "", true
	}

	if !in.Settings.Slot.AllowOverlapping {
		return CodeConflict, ReasonConflict, false
	}

	if peak >= in.Settings.EffectiveMaxConcurrent() {
		return CodeMaxConcurrent, ReasonMaxConcurrent, false
	}

	return "", "", true
}

// peakConcurrency максимальное число активных записей, одновременно пересекающихся
// с интервалом [startMin, endMin) в какой-либо момент
// Буфер продлевает и кандидата, и существующие записи: между ними должен оставаться зазор не меньше буфера
func peakConcurrency(startMin, endMin, buffer int, appointments []*domain.Appointment) int {
	type event struct {
		at    int
		delta int
	}

	candEnd := endMin + buffer
	events := make([]event, 0, len(appointments)*2)

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		aStart := a.StartMinute()
		aEnd := a.EndMinute() + buffer
		if !types.MinuteRangesOverlap(startMin, candEnd, aStart, aEnd) {
			continue
		}
		events = append(events,
			event{at: max(aStart, startMin), delta: 1},
			event{at: min(aEnd, candEnd), delta: -1},
		)
	}

	// Полуоткрытые интервалы: окончание в момент t обрабатывается раньше начала в момент t
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	peak, current := 0, 0
	for _, e := range events {
		current += e.delta
		if current > peak {
			peak = current
		}
	}

	return peak
}

func groupByDate(appointments []*domain.Appointment, loc *time.Location) map[string][]*domain.Appointment {
	result := make(map[string][]*domain.Appointment)
	for _, a := range appointments {
		key := dateKey(dateOnly(a.ScheduledDate, loc))
		result[key] = append(result[key], a)
	}
	return result
}

func location(in Input) *time.Location {
	if in.Defaults.Location != nil {
		return in.Defaults.Location
	}
	return time.UTC
}

// dateOnly полночь указанного календарного дня в часовом поясе мастерской
func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dateKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}
