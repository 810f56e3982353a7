package workshopservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/pkg/logger"
)

const workshopJSON = `{
	"id": 5,
	"name": "Fast Service",
	"owner_id": 10,
	"manager_ids": [11, 12],
	"working_hours": {
		"monday": {"is_open": true, "open_time": "09:00", "close_time": "18:00", "break_start": "13:00", "break_end": "14:00"},
		"tuesday": {"is_open": true, "open_time": "09:00:00", "close_time": "18:00:00"},
		"wednesday": {"is_open": true, "open_time": "bad", "close_time": "18:00"},
		"sunday": {"is_open": false}
	}
}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/workshops/5":
			_, _ = w.Write([]byte(workshopJSON))
		case "/internal/workshops/404":
			w.WriteHeader(http.StatusNotFound)
		case "/internal/workshops/400":
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetWorkshop(t *testing.T) {
	client := NewClient(newServer(t).URL, time.Second, logger.NewNop())

	w, err := client.GetWorkshop(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Fast Service", w.Name)

	d := w.ToDomain()
	assert.True(t, d.CanManage(10))
	assert.True(t, d.CanManage(12))
	assert.False(t, d.CanManage(13))

	monday := d.OperatingHours.Monday
	require.True(t, monday.IsOpen)
	assert.Equal(t, "09:00", monday.OpenTime.String())
	require.True(t, monday.HasBreak())
	assert.Equal(t, "13:00", monday.BreakStart.String())

	assert.Equal(t, "18:00", d.OperatingHours.Tuesday.CloseTime.String())
	assert.False(t, d.OperatingHours.Tuesday.HasBreak())
	// некорректное время - день считается закрытым
	assert.False(t, d.OperatingHours.Wednesday.IsOpen)
	assert.False(t, d.OperatingHours.Sunday.IsOpen)
}

func TestGetWorkshop_Errors(t *testing.T) {
	client := NewClient(newServer(t).URL, time.Second, logger.NewNop())

	_, err := client.GetWorkshop(context.Background(), 404)
	assert.ErrorIs(t, err, ErrWorkshopNotFound)

	_, err = client.GetWorkshop(context.Background(), 400)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.GetWorkshop(context.Background(), 502)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetWorkshop_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetWorkshop(ctx, 5)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
