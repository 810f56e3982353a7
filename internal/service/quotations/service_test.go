package quotations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	quotationRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/quotation"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/userservice"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
)

const (
	customerID = int64(100)
	carID      = int64(200)
	ownerA     = int64(501)
	ownerB     = int64(502)
	workshopA  = int64(10)
	workshopB  = int64(20)
)

var baseTime = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

// memQuotationRepo хранит запросы в памяти и повторяет условную запись по version
type memQuotationRepo struct {
	mu      sync.Mutex
	items   map[string]*domain.Quotation
	barrier *sync.WaitGroup // если задан, GetByID ждёт всех читателей
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{items: map[string]*domain.Quotation{}}
}

func cloneQuotation(q *domain.Quotation) *domain.Quotation {
	c := *q
	c.Quotes = append([]domain.Quote(nil), q.Quotes...)
	c.ViewedBy = append([]int64(nil), q.ViewedBy...)
	c.TargetWorkshopIDs = append([]int64(nil), q.TargetWorkshopIDs...)
	c.ServiceTypes = append([]string(nil), q.ServiceTypes...)
	return &c
}

func (r *memQuotationRepo) Create(_ context.Context, q *domain.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.Version = 1
	r.items[q.ID] = cloneQuotation(q)
	return nil
}

func (r *memQuotationRepo) GetByID(_ context.Context, id string) (*domain.Quotation, error) {
	r.mu.Lock()
	q, ok := r.items[id]
	var c *domain.Quotation
	if ok {
		c = cloneQuotation(q)
	}
	r.mu.Unlock()

	if r.barrier != nil {
		r.barrier.Done()
		r.barrier.Wait()
	}

	if !ok {
		return nil, fmt.Errorf("%w: id=%s", quotationRepo.ErrQuotationNotFound, id)
	}
	return c, nil
}

func (r *memQuotationRepo) Update(_ context.Context, q *domain.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[q.ID]
	if !ok || cur.Version != q.Version || cur.IsFinalized() {
		return fmt.Errorf("%w: id=%s", quotationRepo.ErrConflict, q.ID)
	}
	q.Version++
	r.items[q.ID] = cloneQuotation(q)
	return nil
}

func (r *memQuotationRepo) ListByCustomer(_ context.Context, id int64) ([]*domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Quotation
	for _, q := range r.items {
		if q.CustomerID == id {
			result = append(result, cloneQuotation(q))
		}
	}
	return result, nil
}

func (r *memQuotationRepo) ListActiveForWorkshop(_ context.Context, workshopID int64, now time.Time) ([]*domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Quotation
	for _, q := range r.items {
		if q.IsTargeted(workshopID) && !q.IsExpired(now) {
			result = append(result, cloneQuotation(q))
		}
	}
	return result, nil
}

func (r *memQuotationRepo) get(id string) *domain.Quotation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneQuotation(r.items[id])
}

type memNotificationRepo struct {
	mu        sync.Mutex
	items     []domain.Notification
	published map[string]time.Time
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{published: map[string]time.Time{}}
}

func (r *memNotificationRepo) CreateBatch(_ context.Context, list []domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, list...)
	return nil
}

func (r *memNotificationRepo) MarkPublished(_ context.Context, ids []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.published[id] = at
	}
	return nil
}

func (r *memNotificationRepo) ListByWorkshop(_ context.Context, workshopID int64, limit uint64) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Notification
	for _, n := range r.items {
		if n.WorkshopID == workshopID && uint64(len(result)) < limit {
			result = append(result, n)
		}
	}
	return result, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, list []domain.Notification) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	ids := make([]string, 0, len(list))
	for _, n := range list {
		p.sent = append(p.sent, n)
		ids = append(ids, n.ID)
	}
	return ids, nil
}

type mockWorkshopClient struct{ mock.Mock }

func (m *mockWorkshopClient) GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error) {
	args := m.Called(ctx, workshopID)
	if w := args.Get(0); w != nil {
		return w.(*workshopservice.Workshop), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserClient struct{ mock.Mock }

func (m *mockUserClient) GetCarWithGracefulDegradation(ctx context.Context, userID, carID int64) (*userservice.Car, error) {
	args := m.Called(ctx, userID, carID)
	if c := args.Get(0); c != nil {
		return c.(*userservice.Car), args.Error(1)
	}
	return nil, args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	mu          sync.Mutex
	submitted   map[string]int
	resolutions map[string]int
	issued      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{submitted: map[string]int{}, resolutions: map[string]int{}, issued: map[string]int{}}
}

func (m *fakeMetrics) RecordQuoteSubmitted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted[kind]++
}

func (m *fakeMetrics) RecordQuoteResolution(action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[action+":"+outcome]++
}

func (m *fakeMetrics) RecordNotification(notificationType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued[notificationType]++
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type fixture struct {
	svc       *Service
	repo      *memQuotationRepo
	notifs    *memNotificationRepo
	publisher *fakePublisher
	workshops *mockWorkshopClient
	users     *mockUserClient
	metrics   *fakeMetrics
	clock     *fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newMemQuotationRepo(),
		notifs:    newMemNotificationRepo(),
		publisher: &fakePublisher{},
		workshops: &mockWorkshopClient{},
		users:     &mockUserClient{},
		metrics:   newFakeMetrics(),
		clock:     &fixedClock{now: baseTime},
	}
	f.svc = NewService(f.repo, f.notifs, f.publisher, f.workshops, f.users, passthroughTx{}, f.metrics,
		Config{ExpiryDays: 7, Currency: "RUB"}, logger.NewNop())
	f.svc.timeProvider = f.clock

	f.workshops.On("GetWorkshop", mock.Anything, workshopA).
		Return(&workshopservice.Workshop{ID: workshopA, Name: "Fast Service", OwnerID: ownerA}, nil).Maybe()
	f.workshops.On("GetWorkshop", mock.Anything, workshopB).
		Return(&workshopservice.Workshop{ID: workshopB, Name: "Garage B", OwnerID: ownerB}, nil).Maybe()
	return f
}

func (f *fixture) createQuotation(t *testing.T, targets ...int64) string {
	t.Helper()
	f.users.On("GetCarWithGracefulDegradation", mock.Anything, customerID, carID).
		Return(&userservice.Car{ID: carID, Brand: "Toyota", Model: "Camry", Year: 2018}, nil).Maybe()

	resp, err := f.svc.Create(context.Background(), &models.CreateQuotationRequest{
		CustomerID:        customerID,
		CarID:             carID,
		Description:       "brakes squeak",
		ServiceTypes:      []string{"brake_service"},
		TargetWorkshopIDs: targets,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) submit(t *testing.T, quotationID string, workshopID, userID int64, amount float64) models.QuoteResponse {
	t.Helper()
	resp, err := f.svc.SubmitQuote(context.Background(), quotationID, &models.SubmitQuoteRequest{
		WorkshopID:               workshopID,
		UserID:                   userID,
		TotalAmount:              amount,
		EstimatedDurationMinutes: 90,
	})
	require.NoError(t, err)
	return resp.Quote
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)

	stored := f.repo.get(id)
	assert.Equal(t, domain.QuotationPending, stored.Status)
	assert.Equal(t, "Toyota Camry 2018", stored.CarSummary)
	require.NotNil(t, stored.ExpiresAt)
	assert.True(t, stored.ExpiresAt.Equal(baseTime.AddDate(0, 0, 7)))
	assert.Equal(t, int64(1), stored.Version)
}

func TestCreate_CarLookup(t *testing.T) {
	t.Run("car not found", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetCarWithGracefulDegradation", mock.Anything, customerID, carID).
			Return(nil, userservice.ErrCarNotFound)

		_, err := f.svc.Create(context.Background(), &models.CreateQuotationRequest{
			CustomerID: customerID, CarID: carID, TargetWorkshopIDs: []int64{workshopA},
		})
		assert.ErrorIs(t, err, ErrCarNotFound)
	})

	t.Run("user service degraded", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetCarWithGracefulDegradation", mock.Anything, customerID, carID).
			Return(nil, fmt.Errorf("%w: timeout", userservice.ErrServiceDegraded))

		resp, err := f.svc.Create(context.Background(), &models.CreateQuotationRequest{
			CustomerID: customerID, CarID: carID, TargetWorkshopIDs: []int64{workshopA},
		})
		require.NoError(t, err)
		assert.Empty(t, resp.CarSummary)
	})
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetCarWithGracefulDegradation", mock.Anything, customerID, carID).
		Return(&userservice.Car{ID: carID, Brand: "Lada"}, nil)

	_, err := f.svc.Create(context.Background(), &models.CreateQuotationRequest{CustomerID: customerID, CarID: carID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Create(context.Background(), &models.CreateQuotationRequest{
		CustomerID: customerID, CarID: carID, TargetWorkshopIDs: []int64{workshopA, workshopA},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	days := 0
	_, err = f.svc.Create(context.Background(), &models.CreateQuotationRequest{
		CustomerID: customerID, CarID: carID, TargetWorkshopIDs: []int64{workshopA}, ExpiresInDays: &days,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitQuote_CreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)

	first, err := f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 5000, EstimatedDurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "Fast Service", first.Quote.WorkshopName)
	assert.Equal(t, "RUB", first.Quote.Currency)

	second, err := f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 4500, Currency: "usd", EstimatedDurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Quote.ID, second.Quote.ID)
	assert.Equal(t, "USD", second.Quote.Currency)

	stored := f.repo.get(id)
	require.Len(t, stored.Quotes, 1)
	assert.Equal(t, 4500.0, stored.Quotes[0].TotalAmount)
	assert.Equal(t, domain.QuotationQuoted, stored.Status)
	assert.Equal(t, 1, f.metrics.submitted["created"])
	assert.Equal(t, 1, f.metrics.submitted["updated"])
}

func TestSubmitQuote_Rejections(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA)

	_, err := f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerB, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrAccessDenied, "user does not manage the workshop")

	_, err = f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopB, UserID: ownerB, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrAccessDenied, "workshop is not targeted")

	_, err = f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 0, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SubmitQuote(context.Background(), "missing", &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrQuotationNotFound)

	f.clock.now = baseTime.AddDate(0, 0, 8)
	_, err = f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrConflict, "expired quotation")
}

func TestSubmitQuote_WorkshopServiceErrors(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, 30, 40)

	f.workshops.On("GetWorkshop", mock.Anything, int64(30)).
		Return(nil, fmt.Errorf("%w: connection refused", workshopservice.ErrUnavailable))
	f.workshops.On("GetWorkshop", mock.Anything, int64(40)).
		Return(nil, workshopservice.ErrWorkshopNotFound)

	_, err := f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: 30, UserID: 1, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrTransient)

	_, err = f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: 40, UserID: 1, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrWorkshopNotFound)
}

func TestAcceptQuote(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)
	winner := f.submit(t, id, workshopA, ownerA, 4000)
	loser := f.submit(t, id, workshopB, ownerB, 5500)

	resp, err := f.svc.AcceptQuote(context.Background(), id, winner.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.QuotationAccepted), resp.Quotation.Status)
	assert.Equal(t, 2, resp.NotificationsSent)

	stored := f.repo.get(id)
	assert.Equal(t, 1, stored.AcceptedCount())
	require.NotNil(t, stored.AcceptedQuoteID)
	assert.Equal(t, winner.ID, *stored.AcceptedQuoteID)
	other, ok := stored.QuoteByID(loser.ID)
	require.True(t, ok)
	assert.Equal(t, domain.QuoteDeclined, other.Status)

	require.Len(t, f.notifs.items, 2)
	assert.Equal(t, domain.NotificationQuoteAccepted, f.notifs.items[0].Type)
	assert.Equal(t, workshopA, f.notifs.items[0].WorkshopID)
	assert.Equal(t, domain.NotificationQuoteNotSelected, f.notifs.items[1].Type)
	assert.Equal(t, workshopB, f.notifs.items[1].WorkshopID)
	require.NotNil(t, f.notifs.items[1].PriceDifference)
	assert.InDelta(t, 1500.0, *f.notifs.items[1].PriceDifference, 0.001)

	assert.Len(t, f.publisher.sent, 2)
	assert.Len(t, f.notifs.published, 2)
	assert.Equal(t, 1, f.metrics.resolutions["accept:success"])
	assert.Equal(t, 1, f.metrics.issued[string(domain.NotificationQuoteNotSelected)])
}

func TestAcceptQuote_Rejections(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)
	first := f.submit(t, id, workshopA, ownerA, 4000)
	second := f.submit(t, id, workshopB, ownerB, 5000)

	_, err := f.svc.AcceptQuote(context.Background(), id, first.ID, customerID+1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.AcceptQuote(context.Background(), id, "unknown", customerID)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	_, err = f.svc.AcceptQuote(context.Background(), id, first.ID, customerID)
	require.NoError(t, err)

	_, err = f.svc.AcceptQuote(context.Background(), id, second.ID, customerID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, f.metrics.resolutions["accept:conflict"])
	assert.Equal(t, 2, f.metrics.resolutions["accept:rejected"])

	// Новые предложения в завершённый запрос не принимаются
	_, err = f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopB, UserID: ownerB, TotalAmount: 3000, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAcceptQuote_ConcurrentAcceptsHaveSingleWinner(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)
	first := f.submit(t, id, workshopA, ownerA, 4000)
	second := f.submit(t, id, workshopB, ownerB, 5000)

	// Оба вызова читают одну и ту же версию до записи
	f.repo.barrier = &sync.WaitGroup{}
	f.repo.barrier.Add(2)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, quoteID := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, quoteID string) {
			defer wg.Done()
			_, errs[i] = f.svc.AcceptQuote(context.Background(), id, quoteID, customerID)
		}(i, quoteID)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)

	f.repo.barrier = nil
	stored := f.repo.get(id)
	assert.Equal(t, 1, stored.AcceptedCount())
	assert.Equal(t, domain.QuotationAccepted, stored.Status)
	assert.Len(t, f.notifs.items, 2, "notifications are written only for the winning transition")
}

func TestAcceptQuote_PublishFailureKeepsOutbox(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA)
	quote := f.submit(t, id, workshopA, ownerA, 4000)
	f.publisher.err = errors.New("broker down")

	_, err := f.svc.AcceptQuote(context.Background(), id, quote.ID, customerID)
	require.NoError(t, err)
	assert.Len(t, f.notifs.items, 1)
	assert.Empty(t, f.notifs.published)
}

func TestDeclineQuote(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)
	quoteA := f.submit(t, id, workshopA, ownerA, 4000)
	quoteB := f.submit(t, id, workshopB, ownerB, 5000)

	resp, err := f.svc.DeclineQuote(context.Background(), id, quoteA.ID, &models.DeclineQuoteRequest{
		CustomerID: customerID, Reason: "too expensive",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.QuotationQuoted), resp.Quotation.Status)
	require.Len(t, f.notifs.items, 1)
	assert.Equal(t, domain.NotificationQuoteDeclined, f.notifs.items[0].Type)
	assert.Contains(t, f.notifs.items[0].Message, "too expensive")

	_, err = f.svc.DeclineQuote(context.Background(), id, quoteA.ID, &models.DeclineQuoteRequest{CustomerID: customerID})
	assert.ErrorIs(t, err, ErrInvalidState)

	resp, err = f.svc.DeclineQuote(context.Background(), id, quoteB.ID, &models.DeclineQuoteRequest{CustomerID: customerID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.QuotationDeclined), resp.Quotation.Status)
	assert.Equal(t, 2, f.metrics.resolutions["decline:success"])
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA)

	resp, err := f.svc.GetByID(context.Background(), id, customerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.QuotationPending), resp.Status)

	f.clock.now = baseTime.AddDate(0, 0, 7)
	resp, err = f.svc.GetByID(context.Background(), id, customerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.QuotationExpired), resp.Status)
	assert.Equal(t, domain.QuotationPending, f.repo.get(id).Status, "expiry is not persisted")

	_, err = f.svc.GetByID(context.Background(), id, customerID+1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), "missing", customerID)
	assert.ErrorIs(t, err, ErrQuotationNotFound)
}

func TestGetForWorkshop_MarksViewedAndHidesCompetitors(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA, workshopB)
	f.submit(t, id, workshopB, ownerB, 5000)

	resp, err := f.svc.GetForWorkshop(context.Background(), id, workshopA, ownerA)
	require.NoError(t, err)
	assert.Empty(t, resp.Quotes)

	stored := f.repo.get(id)
	assert.Equal(t, []int64{workshopA}, stored.ViewedBy)
	version := stored.Version

	_, err = f.svc.GetForWorkshop(context.Background(), id, workshopA, ownerA)
	require.NoError(t, err)
	assert.Equal(t, version, f.repo.get(id).Version, "repeated view is not written")

	resp, err = f.svc.GetForWorkshop(context.Background(), id, workshopB, ownerB)
	require.NoError(t, err)
	require.Len(t, resp.Quotes, 1)
	assert.Equal(t, workshopB, resp.Quotes[0].WorkshopID)
}

func TestListForWorkshop(t *testing.T) {
	f := newFixture(t)
	f.createQuotation(t, workshopA)
	f.createQuotation(t, workshopB)

	resp, err := f.svc.ListForWorkshop(context.Background(), workshopA, ownerA)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = f.svc.ListForWorkshop(context.Background(), workshopA, ownerB)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA)

	assert.ErrorIs(t, f.svc.Cancel(context.Background(), id, customerID+1), ErrAccessDenied)
	require.NoError(t, f.svc.Cancel(context.Background(), id, customerID))
	require.NoError(t, f.svc.Cancel(context.Background(), id, customerID))
	assert.Equal(t, domain.QuotationCancelled, f.repo.get(id).Status)

	_, err := f.svc.SubmitQuote(context.Background(), id, &models.SubmitQuoteRequest{
		WorkshopID: workshopA, UserID: ownerA, TotalAmount: 100, EstimatedDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestListNotifications(t *testing.T) {
	f := newFixture(t)
	id := f.createQuotation(t, workshopA)
	quote := f.submit(t, id, workshopA, ownerA, 4000)
	_, err := f.svc.AcceptQuote(context.Background(), id, quote.ID, customerID)
	require.NoError(t, err)

	resp, err := f.svc.ListNotifications(context.Background(), workshopA, ownerA, 0)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, string(domain.NotificationQuoteAccepted), resp.Notifications[0].Type)
}

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("op", context.DeadlineExceeded), ErrTransient)
	assert.ErrorIs(t, mapError("op", fmt.Errorf("%w: x", domain.ErrInvalidQuoteState)), ErrInvalidState)
	assert.ErrorIs(t, mapError("op", errors.New("boom")), ErrInternal)
}
