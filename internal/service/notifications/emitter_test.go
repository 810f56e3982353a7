package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/ptr"
)

var occurredAt = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func quote(id string, workshopID int64, name string, amount float64) domain.Quote {
	return domain.Quote{
		ID:           id,
		WorkshopID:   workshopID,
		WorkshopName: name,
		TotalAmount:  amount,
		Currency:     "RUB",
	}
}

func TestBuildAcceptNotifications(t *testing.T) {
	event := domain.QuoteAcceptedEvent{
		QuotationID: "q-1",
		CarSummary:  "Toyota Camry 2018",
		Winner:      quote("a", 1, "Fast Service", 10000),
		Losers: []domain.Quote{
			quote("b", 2, "Garage", 12500.5),
			quote("c", 3, "Auto Pro", 9000),
		},
		OccurredAt: occurredAt,
	}

	got := BuildAcceptNotifications(event)

	require.Len(t, got, 3)

	winner := got[0]
	assert.Equal(t, domain.NotificationQuoteAccepted, winner.Type)
	assert.Equal(t, int64(1), winner.WorkshopID)
	assert.Equal(t, "a", winner.QuoteID)
	assert.Equal(t, 10000.0, winner.Amount)
	assert.Equal(t, "Toyota Camry 2018", winner.CarSummary)
	assert.Contains(t, winner.Message, "Toyota Camry 2018")
	assert.Nil(t, winner.WinningAmount)
	assert.Nil(t, winner.PriceDifference)
	assert.Equal(t, occurredAt, winner.CreatedAt)

	loser := got[1]
	assert.Equal(t, domain.NotificationQuoteNotSelected, loser.Type)
	assert.Equal(t, int64(2), loser.WorkshopID)
	assert.Equal(t, "b", loser.QuoteID)
	assert.Equal(t, 12500.5, loser.Amount)
	assert.Equal(t, 10000.0, ptr.Value(loser.WinningAmount))
	assert.Equal(t, "Fast Service", ptr.Value(loser.WinningWorkshopName))
	assert.Equal(t, 2500.5, ptr.Value(loser.PriceDifference))
	assert.Contains(t, loser.Message, "Fast Service")

	// более дешёвое проигравшее предложение даёт отрицательную разницу
	assert.Equal(t, -1000.0, ptr.Value(got[2].PriceDifference))

	ids := map[string]struct{}{}
	for _, n := range got {
		assert.Equal(t, "q-1", n.QuotationID)
		assert.NotEmpty(t, n.ID)
		ids[n.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
}

func TestBuildAcceptNotifications_NoCompetitors(t *testing.T) {
	got := BuildAcceptNotifications(domain.QuoteAcceptedEvent{
		QuotationID: "q-1",
		Winner:      quote("a", 1, "", 5000),
		OccurredAt:  occurredAt,
	})

	require.Len(t, got, 1)
	assert.Equal(t, domain.NotificationQuoteAccepted, got[0].Type)
	assert.Contains(t, got[0].Message, "автомобиль")
}

func TestBuildDeclineNotification(t *testing.T) {
	declined := quote("b", 2, "Garage", 7000)
	declined.Status = domain.QuoteDeclined
	declined.DeclineReason = ptr.Ptr("too expensive")

	got := BuildDeclineNotification(domain.QuoteDeclinedEvent{
		QuotationID: "q-1",
		CarSummary:  "Lada Vesta 2020",
		Quote:       declined,
		OccurredAt:  occurredAt,
	})

	assert.Equal(t, domain.NotificationQuoteDeclined, got.Type)
	assert.Equal(t, int64(2), got.WorkshopID)
	assert.Equal(t, "b", got.QuoteID)
	assert.Equal(t, 7000.0, got.Amount)
	assert.Contains(t, got.Message, "too expensive")
	assert.Nil(t, got.WinningAmount)
}
