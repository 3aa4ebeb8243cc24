package promocode

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestRepository_IncrementUsage(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE promo_codes SET used_count = used_count \+ 1 WHERE id = \$1 AND is_active = \$2 AND \(usage_limit IS NULL OR used_count < usage_limit\)`).
		WithArgs(int64(4), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementUsage(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementUsage_LimitReached(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE promo_codes`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementUsage(context.Background(), 4)
	assert.ErrorIs(t, err, ErrUsageLimitReached)
}

func TestRepository_GetByCode(t *testing.T) {
	repo, mock := newRepo(t)
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM promo_codes WHERE code = \$1`).
		WithArgs("SUMMER10").
		WillReturnRows(sqlmock.NewRows(promoColumns).
			AddRow(int64(4), "SUMMER10", "percent", "10.00", from, nil, 100, 7, true, from))

	p, err := repo.GetByCode(context.Background(), "SUMMER10")
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountPercent, p.DiscountType)
	assert.True(t, p.DiscountValue.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, p.ValidUntil)
	assert.Equal(t, 93, *p.RemainingUses())
}

func TestRepository_GetByCode_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM promo_codes`).WillReturnRows(sqlmock.NewRows(promoColumns))

	_, err := repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrPromoNotFound)
}
