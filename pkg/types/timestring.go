package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках, используется для арифметики по модулю
const MinutesPerDay = 24 * 60

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM"
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит строку "HH:MM" (или "HH:MM:SS" из БД)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") {
		s = s[:5]
	}

	if _, err := time.Parse("15:04", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return TimeString(s), nil
}

// FromMinutes создает TimeString из количества минут от полуночи (по модулю суток)
func FromMinutes(minutes int) TimeString {
	m := normalize(minutes)
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// Minutes возвращает количество минут от полуночи
// Для некорректной строки возвращает 0
func (t TimeString) Minutes() int {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes прибавляет минуты к времени суток
// Переход через полночь обрабатывается по модулю 1440, отрицательные значения допустимы
func (t TimeString) AddMinutes(minutes int) TimeString {
	return FromMinutes(t.Minutes() + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(t))
	return err
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// On возвращает момент времени на указанную дату в её часовом поясе
func (t TimeString) On(date time.Time) time.Time {
	m := t.Minutes()
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location())
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner (Postgres TIME приходит как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

// RangesOverlap проверяет пересечение полуоткрытых интервалов [startA, endA) и [startB, endB)
// Интервалы, которые только граничат (конец одного равен началу другого), НЕ пересекаются
func RangesOverlap(startA, endA, startB, endB TimeString) bool {
	return MinuteRangesOverlap(startA.Minutes(), endA.Minutes(), startB.Minutes(), endB.Minutes())
}

// MinuteRangesOverlap то же, что RangesOverlap, но для минут от полуночи
// Используется там, где конец интервала может выходить за 24:00
func MinuteRangesOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

func normalize(minutes int) int {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
