package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

var (
	now  = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	date = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
)

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns).
		AddRow(int64(1), int64(5), int64(100), nil, date, "10:00:00", 90, "confirmed", "{oil_change,diagnostic}", nil, nil, nil, now, now).
		AddRow(int64(2), int64(5), int64(101), "q-1", date, "13:30:00", 60, "pending", "{}", "call before", nil, nil, now, now)
}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	a, err := repo.Create(context.Background(), &domain.Appointment{
		WorkshopID:      5,
		CustomerID:      100,
		ScheduledDate:   date,
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          domain.AppointmentConfirmed,
		ServiceTypes:    []string{"oil_change"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, now, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByWorkshopWithFilter_LocksSingleDayInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM appointments WHERE workshop_id = \$1 AND scheduled_date >= \$2 AND scheduled_date <= \$3 AND status NOT IN \(\$4,\$5\) ORDER BY scheduled_date ASC, start_time ASC FOR UPDATE`).
		WithArgs(int64(5), date, date, "cancelled", "no_show").
		WillReturnRows(appointmentRows())

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	result, err := repo.GetByWorkshopWithFilter(ctx, domain.AppointmentsFilter{WorkshopID: 5, StartDate: date, EndDate: date})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, types.TimeString("10:00"), result[0].StartTime)
	assert.Equal(t, []string{"oil_change", "diagnostic"}, result[0].ServiceTypes)
	assert.Nil(t, result[0].QuotationID)
	assert.Equal(t, "q-1", *result[1].QuotationID)
	assert.Equal(t, "call before", *result[1].Notes)
	assert.Equal(t, 14*60, result[1].EndMinute())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByWorkshopWithFilter_RangeWithoutLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`ORDER BY scheduled_date ASC, start_time ASC$`).
		WillReturnRows(sqlmock.NewRows(columns))

	result, err := repo.GetByWorkshopWithFilter(context.Background(), domain.AppointmentsFilter{
		WorkshopID:      5,
		StartDate:       date,
		EndDate:         date.AddDate(0, 0, 6),
		IncludeInactive: true,
	})

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = repo.GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = $3, updated_at = $4 WHERE id = $5 AND status NOT IN ($6,$7,$8)")).
		WithArgs("cancelled", "changed plans", now, now, int64(1), "cancelled", "no_show", "completed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Cancel(context.Background(), 1, "changed plans", now))
	assert.ErrorIs(t, repo.Cancel(context.Background(), 1, "again", now), ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
