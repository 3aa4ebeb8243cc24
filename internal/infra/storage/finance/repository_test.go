package finance

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_CreateSalary_Duplicate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO salaries`).WillReturnError(&pq.Error{Code: "23505", Constraint: "salaries_slot_id_key"})

	_, err := repo.CreateSalary(context.Background(), &domain.Salary{
		CaptainID: 2,
		SlotID:    5,
		Amount:    decimal.NewFromInt(3000),
		Status:    domain.SalaryAccrued,
	})
	assert.ErrorIs(t, err, ErrSalaryExists)
}

func TestRepository_MarkSalaryPaid(t *testing.T) {
	repo, mock := newRepo(t)
	paidAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE salaries SET status = \$1, paid_at = \$2 WHERE id = \$3 AND status = \$4`).
		WithArgs(domain.SalaryPaid, paidAt, int64(6), domain.SalaryAccrued).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkSalaryPaid(context.Background(), 6, paidAt))

	mock.ExpectExec(`UPDATE salaries`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkSalaryPaid(context.Background(), 6, paidAt), ErrSalaryAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListExpenses(t *testing.T) {
	repo, mock := newRepo(t)
	period := domain.Period{
		From: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	spent := period.From.Add(48 * time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM expenses WHERE spent_at >= \$1 AND spent_at < \$2 ORDER BY spent_at ASC, id ASC`).
		WithArgs(period.From, period.To).
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(int64(1), "топливо", "12000.00", nil, int64(3), int64(1), spent, spent))

	list, err := repo.ListExpenses(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "топливо", list[0].Category)
	assert.Equal(t, int64(3), *list[0].SlotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
