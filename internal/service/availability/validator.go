package availability

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// ValidateSlot проверяет конкретный слот
// Порядок проверок (побеждает первая неудачная):
// 1. запись включена
// 2. день открыт и слот целиком помещается в рабочее окно
// 3. окно предварительной записи
// 4. пересечения с существующими записями
func ValidateSlot(in Input, req SlotRequest) Result {
	res := validate(in, req)
	if res.Available || !req.IncludeAlternatives || res.Code == CodeBookingDisabled {
		return res
	}

	res.Alternatives = FindAlternatives(in, req)
	return res
}

func validate(in Input, req SlotRequest) Result {
	if !in.Settings.Enabled {
		return unavailable(CodeBookingDisabled, ReasonBookingDisabled)
	}

	loc := location(in)
	date := dateOnly(req.Date, loc)

	windows, closedReason := dayWindows(in, date)
	if len(windows) == 0 {
		return unavailable(CodeClosed, closedReason)
	}

	startMin := req.Start.Minutes()
	endMin := startMin + req.DurationMinutes
	if !fitsAny(windows, startMin, endMin) {
		return unavailable(CodeOutsideHours, ReasonOutsideHours)
	}

	if code, reason, ok := checkAdvance(in, date, startMin); !ok {
		return unavailable(code, reason)
	}

	sameDay := groupByDate(in.Appointments, loc)[dateKey(date)]
	if code, reason, ok := checkCapacity(in, startMin, endMin, sameDay); !ok {
		return unavailable(code, reason)
	}

	return Result{Available: true}
}

// FindAlternatives ищет свободные слоты той же длительности
// Сначала в тот же день, затем вперёд до горизонта, в хронологическом порядке
func FindAlternatives(in Input, req SlotRequest) []domain.SlotRef {
	limit := in.Defaults.MaxAlternatives
	if limit <= 0 {
		limit = domain.DefaultMaxAlternatives
	}
	horizon := in.Defaults.AlternativesHorizonDays
	if horizon <= 0 {
		horizon = domain.DefaultAlternativesHorizon
	}

	date := dateOnly(req.Date, location(in))

	result := collectAvailable(Compute(in, Range{StartDate: date, EndDate: date, DurationMinutes: req.DurationMinutes}), req, limit)
	if len(result) > 0 {
		return result
	}

	next := date.AddDate(0, 0, 1)
	last := date.AddDate(0, 0, horizon)
	return collectAvailable(Compute(in, Range{StartDate: next, EndDate: last, DurationMinutes: req.DurationMinutes}), req, limit)
}

func collectAvailable(days []domain.DaySlots, req SlotRequest, limit int) []domain.SlotRef {
	result := make([]domain.SlotRef, 0, limit)
	for _, day := range days {
		for _, slot := range day.Slots {
			if !slot.Available {
				continue
			}
			// сам запрошенный слот альтернативой не считается
			if sameDate(day.Date, req.Date) && slot.Start == req.Start {
				continue
			}
			result = append(result, domain.SlotRef{Date: day.Date, Start: slot.Start, End: slot.End})
			if len(result) >= limit {
				return result
			}
		}
	}
	return result
}

func fitsAny(windows []window, start, end int) bool {
	for _, w := range windows {
		if w.contains(start, end) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
