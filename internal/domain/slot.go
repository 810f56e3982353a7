package domain

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Slot кандидат на запись
type Slot struct {
	Start     types.TimeString
	End       types.TimeString
	Available bool
	Reason    string // почему слот недоступен, пусто для доступного
}

// DaySlots слоты одного дня
type DaySlots struct {
	Date   time.Time
	Closed bool
	Slots  []Slot
}

// AvailableCount количество свободных слотов
func (d *DaySlots) AvailableCount() int {
	count := 0
	for _, s := range d.Slots {
		if s.Available {
			count++
		}
	}
	return count
}

// SlotRef ссылка на конкретный слот (дата + время), используется в альтернативах
type SlotRef struct {
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}
