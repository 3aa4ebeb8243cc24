package notification

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notifications \(user_id,kind,message,status\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, created_at`).
		WithArgs(int64(5), domain.NotifyBookingCreated, "Бронь №1 создана", domain.NotificationSkipped).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(77), now))

	n, err := repo.Create(context.Background(), &domain.Notification{
		UserID:  5,
		Kind:    domain.NotifyBookingCreated,
		Message: "Бронь №1 создана",
		Status:  domain.NotificationSkipped,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
