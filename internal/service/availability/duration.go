package availability

import (
	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// EstimateDuration оценка длительности набора услуг в минутах
// Длительность услуги: настройка мастерской -> справочник -> длительность по умолчанию
// Итог не меньше длительности по умолчанию, повторяющиеся услуги учитываются один раз
func EstimateDuration(settings *domain.AppointmentSettings, defaults domain.SchedulingDefaults, serviceTypes []string) int {
	defaultDuration := defaults.DefaultDurationMinutes
	if settings != nil && settings.Slot.DefaultDurationMinutes > 0 {
		defaultDuration = settings.Slot.DefaultDurationMinutes
	}
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultDurationMinutes
	}

	seen := make(map[string]struct{}, len(serviceTypes))
	total := 0
	for _, st := range serviceTypes {
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		total += serviceDuration(settings, defaults, st, defaultDuration)
	}

	return max(total, defaultDuration)
}

func serviceDuration(settings *domain.AppointmentSettings, defaults domain.SchedulingDefaults, serviceType string, fallback int) int {
	if settings != nil {
		if d, ok := settings.Slot.ServiceDurations[serviceType]; ok && d > 0 {
			return d
		}
	}
	if d, ok := defaults.ServiceDurations[serviceType]; ok && d > 0 {
		return d
	}
	return fallback
}

// HoursFromMinutes перевод в часы для внешнего API
func HoursFromMinutes(minutes int) float64 {
	return float64(minutes) / 60
}

// MinutesFromHours перевод часов из запроса в минуты (с округлением до минуты)
func MinutesFromHours(hours float64) int {
	return int(hours*60 + 0.5)
}
