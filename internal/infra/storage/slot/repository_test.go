package slot

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *dbmetrics.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), mock, wrapped
}

func TestRepository_FindOverlapping_ExcursionOrCaptain(t *testing.T) {
	repo, mock, _ := newRepo(t)
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM excursion_slots WHERE status <> \$1 AND start_at < \$2 AND end_at > \$3 AND \(excursion_id = \$4 OR captain_id = \$5\) AND id <> \$6 ORDER BY start_at ASC`).
		WithArgs("cancelled", end, start, int64(1), int64(9), int64(5)).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(int64(4), int64(2), int64(9), start.Add(time.Hour), end.Add(time.Hour), 10, 0, "scheduled", now, now))

	slots, err := repo.FindOverlapping(context.Background(), start, end, 1, ptr.Ptr(int64(9)), 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(9), *slots[0].CaptainID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverlapping_WithoutCaptain(t *testing.T) {
	repo, mock, _ := newRepo(t)
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE status <> \$1 AND start_at < \$2 AND end_at > \$3 AND \(excursion_id = \$4\) ORDER BY`).
		WillReturnRows(sqlmock.NewRows(slotColumns))

	slots, err := repo.FindOverlapping(context.Background(), start, start.Add(time.Hour), 1, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindCaptainOverlapping(t *testing.T) {
	repo, mock, _ := newRepo(t)
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM excursion_slots WHERE status <> \$1 AND start_at < \$2 AND end_at > \$3 AND captain_id = \$4 AND id <> \$5 ORDER BY start_at ASC`).
		WithArgs("cancelled", end, start, int64(9), int64(5)).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(int64(4), int64(2), int64(9), start.Add(time.Hour), end.Add(time.Hour), 10, 0, "scheduled", now, now))

	slots, err := repo.FindCaptainOverlapping(context.Background(), start, end, 9, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(4), slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_LocksInsideTransaction(t *testing.T) {
	repo, mock, db := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM excursion_slots WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(int64(3), int64(1), nil, now, now.Add(time.Hour), 12, 900, "scheduled", now, now))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	s, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, s.CaptainID)
	assert.True(t, s.HasWeightLimit())
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_Concurrent(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec(`UPDATE excursion_slots SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs(domain.SlotCancelled, int64(3), domain.SlotScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 3, domain.SlotScheduled, domain.SlotCancelled)
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestRepository_List_Filter(t *testing.T) {
	repo, mock, _ := newRepo(t)
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`FROM excursion_slots WHERE start_at >= \$1 AND start_at < \$2 AND status IN \(\$3\) ORDER BY start_at ASC, id ASC`).
		WithArgs(from, to, "scheduled").
		WillReturnRows(sqlmock.NewRows(slotColumns))

	_, err := repo.List(context.Background(), domain.SlotFilter{
		From:     &from,
		To:       &to,
		Statuses: []domain.SlotStatus{domain.SlotScheduled},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
