package notifications

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// BuildAcceptNotifications уведомления по итогам выбора победителя:
// одно для мастерской-победителя и по одному для каждой мастерской, чьё предложение отклонено
func BuildAcceptNotifications(event domain.QuoteAcceptedEvent) []domain.Notification {
	winner := event.Winner
	result := make([]domain.Notification, 0, len(event.Losers)+1)

	result = append(result, domain.Notification{
		ID:          uuid.NewString(),
		WorkshopID:  winner.WorkshopID,
		Type:        domain.NotificationQuoteAccepted,
		QuotationID: event.QuotationID,
		QuoteID:     winner.ID,
		Title:       "Ваше предложение принято",
		Message: fmt.Sprintf("Клиент выбрал ваше предложение на %s за %s",
			carOrDefault(event.CarSummary), formatAmount(winner.TotalAmount, winner.Currency)),
		Amount:     winner.TotalAmount,
		Currency:   winner.Currency,
		CarSummary: event.CarSummary,
		CreatedAt:  event.OccurredAt,
	})

	for _, loser := range event.Losers {
		winningAmount := winner.TotalAmount
		winningName := winner.WorkshopName
		diff := roundMoney(loser.TotalAmount - winner.TotalAmount)

		result = append(result, domain.Notification{
			ID:          uuid.NewString(),
			WorkshopID:  loser.WorkshopID,
			Type:        domain.NotificationQuoteNotSelected,
			QuotationID: event.QuotationID,
			QuoteID:     loser.ID,
			Title:       "Клиент выбрал другое предложение",
			Message: fmt.Sprintf("Ваше предложение %s на %s не выбрано. Выбрано предложение %s за %s",
				formatAmount(loser.TotalAmount, loser.Currency), carOrDefault(event.CarSummary),
				workshopOrDefault(winningName), formatAmount(winningAmount, winner.Currency)),
			Amount:              loser.TotalAmount,
			WinningAmount:       &winningAmount,
			WinningWorkshopName: &winningName,
			PriceDifference:     &diff,
			Currency:            loser.Currency,
			CarSummary:          event.CarSummary,
			CreatedAt:           event.OccurredAt,
		})
	}

	return result
}

// BuildDeclineNotification уведомление о ручном отклонении предложения клиентом
func BuildDeclineNotification(event domain.QuoteDeclinedEvent) domain.Notification {
	quote := event.Quote
	message := fmt.Sprintf("Клиент отклонил ваше предложение %s на %s",
		formatAmount(quote.TotalAmount, quote.Currency), carOrDefault(event.CarSummary))
	if quote.DeclineReason != nil && *quote.DeclineReason != "" {
		message = fmt.Sprintf("%s. Причина: %s", message, *quote.DeclineReason)
	}

	return domain.Notification{
		ID:          uuid.NewString(),
		WorkshopID:  quote.WorkshopID,
		Type:        domain.NotificationQuoteDeclined,
		QuotationID: event.QuotationID,
		QuoteID:     quote.ID,
		Title:       "Предложение отклонено",
		Message:     message,
		Amount:      quote.TotalAmount,
		Currency:    quote.Currency,
		CarSummary:  event.CarSummary,
		CreatedAt:   event.OccurredAt,
	}
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func carOrDefault(car string) string {
	if car == "" {
		return "автомобиль"
	}
	return car
}

func workshopOrDefault(name string) string {
	if name == "" {
		return "другой мастерской"
	}
	return name
}
