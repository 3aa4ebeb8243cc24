package payment

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

// Repository репозиторий оплат и возвратов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает оплату или возврат
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("booking_id", "amount", "method", "kind", "external_id").
		Values(payment.BookingID, payment.Amount, payment.Method, payment.Kind, payment.ExternalID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return payment, nil
}

// ListByBooking получает движения денег по бронированию в порядке создания
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "amount", "method", "kind", "external_id", "created_at").
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Kind, &p.ExternalID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %w", ErrScanRow, err)
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}

// Balance сумма оплат за вычетом возвратов по бронированию
func (r *Repository) Balance(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(CASE WHEN kind = 'refund' THEN -amount ELSE amount END), 0)",
	).
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Balance - build select query: %w", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("%w: Balance - scan sum: %w", ErrScanRow, err)
	}

	return balance, nil
}

// SlotBalance чистая выручка слота: оплаты минус возвраты по всем его броням
func (r *Repository) SlotBalance(ctx context.Context, slotID int64) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(CASE WHEN p.kind = 'refund' THEN -p.amount ELSE p.amount END), 0)",
	).
		From("payments p").
		Join("bookings b ON b.id = p.booking_id").
		Where(squirrel.Eq{"b.slot_id": slotID}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: SlotBalance - build select query: %w", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("%w: SlotBalance - scan sum: %w", ErrScanRow, err)
	}

	return balance, nil
}
