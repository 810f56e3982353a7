package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestQuotation(t *testing.T, targets ...int64) *Quotation {
	t.Helper()
	expires := testNow.Add(7 * 24 * time.Hour)
	q, err := NewQuotation(100, 200, "Toyota Camry 2018", "brakes squeak", []string{"brake_service"}, targets, testNow, &expires)
	require.NoError(t, err)
	return q
}

func submit(t *testing.T, q *Quotation, workshopID int64, amount float64) Quote {
	t.Helper()
	quote, _, err := q.SubmitQuote(QuoteBid{
		WorkshopID:               workshopID,
		WorkshopName:             "Workshop",
		TotalAmount:              amount,
		EstimatedDurationMinutes: 90,
	}, testNow)
	require.NoError(t, err)
	return quote
}

func TestNewQuotation_Validation(t *testing.T) {
	_, err := NewQuotation(1, 1, "", "", nil, nil, testNow, nil)
	assert.ErrorIs(t, err, ErrInvalidQuotation)

	_, err = NewQuotation(1, 1, "", "", nil, []int64{5, 5}, testNow, nil)
	assert.ErrorIs(t, err, ErrInvalidQuotation)

	past := testNow.Add(-time.Hour)
	_, err = NewQuotation(1, 1, "", "", nil, []int64{5}, testNow, &past)
	assert.ErrorIs(t, err, ErrInvalidQuotation)
}

func TestSubmitQuote_IdempotentPerWorkshop(t *testing.T) {
	q := newTestQuotation(t, 1, 2)

	first, created, err := q.SubmitQuote(QuoteBid{WorkshopID: 1, TotalAmount: 100, EstimatedDurationMinutes: 60}, testNow)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, QuotationQuoted, q.Status)

	second, created, err := q.SubmitQuote(QuoteBid{WorkshopID: 1, TotalAmount: 80, EstimatedDurationMinutes: 45}, testNow)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, q.Quotes, 1)
	assert.Equal(t, 80.0, q.Quotes[0].TotalAmount)
	assert.Equal(t, DefaultCurrency, q.Quotes[0].Currency)
}

func TestSubmitQuote_Rejections(t *testing.T) {
	q := newTestQuotation(t, 1)

	_, _, err := q.SubmitQuote(QuoteBid{WorkshopID: 9, TotalAmount: 100, EstimatedDurationMinutes: 60}, testNow)
	assert.ErrorIs(t, err, ErrWorkshopNotTargeted)

	_, _, err = q.SubmitQuote(QuoteBid{WorkshopID: 1, TotalAmount: 0, EstimatedDurationMinutes: 60}, testNow)
	assert.ErrorIs(t, err, ErrInvalidQuote)

	_, _, err = q.SubmitQuote(QuoteBid{WorkshopID: 1, TotalAmount: 10, EstimatedDurationMinutes: 60}, testNow.Add(8*24*time.Hour))
	assert.ErrorIs(t, err, ErrQuotationExpired)
}

func TestAcceptQuote_DeclinesCompetitors(t *testing.T) {
	q := newTestQuotation(t, 1, 2, 3)
	a := submit(t, q, 1, 100)
	b := submit(t, q, 2, 120)
	c := submit(t, q, 3, 90)

	outcome, err := q.AcceptQuote(a.ID, 100, testNow)
	require.NoError(t, err)

	assert.Equal(t, a.ID, outcome.Winner.ID)
	assert.Len(t, outcome.Losers, 2)
	assert.Equal(t, QuotationAccepted, q.Status)
	require.NotNil(t, q.AcceptedQuoteID)
	assert.Equal(t, a.ID, *q.AcceptedQuoteID)

	gotB, _ := q.QuoteByID(b.ID)
	gotC, _ := q.QuoteByID(c.ID)
	assert.Equal(t, QuoteDeclined, gotB.Status)
	assert.Equal(t, QuoteDeclined, gotC.Status)
	assert.Equal(t, ReasonAnotherQuoteAccepted, *gotB.DeclineReason)
	assert.Equal(t, 1, q.AcceptedCount())

	_, err = q.AcceptQuote(b.ID, 100, testNow)
	assert.ErrorIs(t, err, ErrQuotationFinalized)
	assert.Equal(t, 1, q.AcceptedCount())

	_, _, err = q.SubmitQuote(QuoteBid{WorkshopID: 2, TotalAmount: 50, EstimatedDurationMinutes: 60}, testNow)
	assert.ErrorIs(t, err, ErrQuotationFinalized)
}

func TestAcceptQuote_Errors(t *testing.T) {
	q := newTestQuotation(t, 1, 2)
	a := submit(t, q, 1, 100)

	_, err := q.AcceptQuote(a.ID, 999, testNow)
	assert.ErrorIs(t, err, ErrNotQuotationOwner)

	_, err = q.AcceptQuote("missing", 100, testNow)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	_, err = q.DeclineQuote(a.ID, 100, "", testNow)
	require.NoError(t, err)

	_, err = q.AcceptQuote(a.ID, 100, testNow)
	assert.ErrorIs(t, err, ErrInvalidQuoteState)
}

func TestDeclineQuote_Expired(t *testing.T) {
	q := newTestQuotation(t, 1)
	a := submit(t, q, 1, 100)

	_, err := q.DeclineQuote(a.ID, 100, "", testNow.Add(8*24*time.Hour))
	assert.ErrorIs(t, err, ErrQuotationExpired)

	got, ok := q.QuoteByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, QuoteSubmitted, got.Status)
	assert.Equal(t, QuotationQuoted, q.Status)
}

func TestDeclineQuote_StatusTransitions(t *testing.T) {
	t.Run("only quote declined", func(t *testing.T) {
		q := newTestQuotation(t, 1)
		a := submit(t, q, 1, 100)

		declined, err := q.DeclineQuote(a.ID, 100, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, ReasonDeclinedByCustomer, *declined.DeclineReason)
		assert.Equal(t, QuotationDeclined, q.Status)
	})

	t.Run("one of two declined", func(t *testing.T) {
		q := newTestQuotation(t, 1, 2)
		a := submit(t, q, 1, 100)
		submit(t, q, 2, 110)

		_, err := q.DeclineQuote(a.ID, 100, "too expensive", testNow)
		require.NoError(t, err)
		assert.Equal(t, QuotationQuoted, q.Status)
		assert.Equal(t, 0, q.AcceptedCount())
	})

	t.Run("declined quote cannot be resubmitted", func(t *testing.T) {
		q := newTestQuotation(t, 1, 2)
		a := submit(t, q, 1, 100)
		_, err := q.DeclineQuote(a.ID, 100, "", testNow)
		require.NoError(t, err)

		_, _, err = q.SubmitQuote(QuoteBid{WorkshopID: 1, TotalAmount: 90, EstimatedDurationMinutes: 60}, testNow)
		assert.ErrorIs(t, err, ErrInvalidQuoteState)
	})
}

func TestMarkViewed(t *testing.T) {
	q := newTestQuotation(t, 1, 2)

	changed, err := q.MarkViewed(1, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, QuotationViewed, q.Status)

	changed, err = q.MarkViewed(1, testNow)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = q.MarkViewed(7, testNow)
	assert.ErrorIs(t, err, ErrWorkshopNotTargeted)
}

func TestEffectiveStatus_LazyExpiry(t *testing.T) {
	q := newTestQuotation(t, 1)
	assert.Equal(t, QuotationPending, q.EffectiveStatus(testNow))
	assert.Equal(t, QuotationExpired, q.EffectiveStatus(testNow.Add(7*24*time.Hour)))

	a := submit(t, q, 1, 100)
	_, err := q.AcceptQuote(a.ID, 100, testNow)
	require.NoError(t, err)
	assert.Equal(t, QuotationAccepted, q.EffectiveStatus(testNow.Add(30*24*time.Hour)))
}
