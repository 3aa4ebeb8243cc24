package report

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

// Repository агрегирующие запросы для отчетов
// Брони и начисления относятся к периоду по времени начала слота, оплаты и расходы - по своей дате
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BookingStats количество броней и пассажиров по экскурсиям
func (r *Repository) BookingStats(ctx context.Context, period domain.Period) ([]domain.ExcursionBookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupying := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		occupying[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("e.id", "e.name", "COUNT(b.id)", "COALESCE(SUM(b.people_count), 0)").
		From("bookings b").
		Join("excursion_slots s ON s.id = b.slot_id").
		Join("excursions e ON e.id = s.excursion_id").
		Where(squirrel.GtOrEq{"s.start_at": period.From}).
		Where(squirrel.Lt{"s.start_at": period.To}).
		Where(squirrel.Eq{"b.status": occupying}).
		GroupBy("e.id", "e.name").
		OrderBy("e.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BookingStats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: BookingStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]domain.ExcursionBookingStats, 0)
	for rows.Next() {
		var s domain.ExcursionBookingStats
		if err := rows.Scan(&s.ExcursionID, &s.ExcursionName, &s.Bookings, &s.People); err != nil {
			return nil, fmt.Errorf("%w: BookingStats - scan row: %w", ErrScanRow, err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: BookingStats - rows error: %w", ErrScanRow, err)
	}

	return stats, nil
}

// PaymentStats оплаты и возвраты по экскурсиям
func (r *Repository) PaymentStats(ctx context.Context, period domain.Period) ([]domain.ExcursionPaymentStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.excursion_id",
		"COALESCE(SUM(CASE WHEN p.kind = 'payment' THEN p.amount ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN p.kind = 'refund' THEN p.amount ELSE 0 END), 0)",
	).
		From("payments p").
		Join("bookings b ON b.id = p.booking_id").
		Join("excursion_slots s ON s.id = b.slot_id").
		Where(squirrel.GtOrEq{"p.created_at": period.From}).
		Where(squirrel.Lt{"p.created_at": period.To}).
		GroupBy("s.excursion_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: PaymentStats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: PaymentStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]domain.ExcursionPaymentStats, 0)
	for rows.Next() {
		var s domain.ExcursionPaymentStats
		if err := rows.Scan(&s.ExcursionID, &s.Gross, &s.Refunds); err != nil {
			return nil, fmt.Errorf("%w: PaymentStats - scan row: %w", ErrScanRow, err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: PaymentStats - rows error: %w", ErrScanRow, err)
	}

	return stats, nil
}

// ExpensesTotal сумма расходов за период
func (r *Repository) ExpensesTotal(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	query, args, err := psqlbuilder.Select("COALESCE(SUM(amount), 0)").
		From("expenses").
		Where(squirrel.GtOrEq{"spent_at": period.From}).
		Where(squirrel.Lt{"spent_at": period.To}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: ExpensesTotal - build select query: %w", ErrBuildQuery, err)
	}

	return r.sum(ctx, "ExpensesTotal", query, args)
}

// SalariesTotal сумма начислений капитанам за слоты периода
func (r *Repository) SalariesTotal(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	query, args, err := psqlbuilder.Select("COALESCE(SUM(sal.amount), 0)").
		From("salaries sal").
		Join("excursion_slots s ON s.id = sal.slot_id").
		Where(squirrel.GtOrEq{"s.start_at": period.From}).
		Where(squirrel.Lt{"s.start_at": period.To}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: SalariesTotal - build select query: %w", ErrBuildQuery, err)
	}

	return r.sum(ctx, "SalariesTotal", query, args)
}

// CaptainPayroll начисления по капитанам за слоты периода
func (r *Repository) CaptainPayroll(ctx context.Context, period domain.Period) ([]domain.CaptainPayrollStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"u.id",
		"u.full_name",
		"COUNT(sal.id)",
		"COALESCE(SUM(pax.people), 0)",
		"COALESCE(SUM(sal.amount), 0)",
		"COALESCE(SUM(CASE WHEN sal.status = 'paid' THEN sal.amount ELSE 0 END), 0)",
	).
		From("salaries sal").
		Join("excursion_slots s ON s.id = sal.slot_id").
		Join("users u ON u.id = sal.captain_id").
		LeftJoin("(SELECT slot_id, SUM(people_count) AS people FROM bookings WHERE status = 'completed' GROUP BY slot_id) pax ON pax.slot_id = sal.slot_id").
		Where(squirrel.GtOrEq{"s.start_at": period.From}).
		Where(squirrel.Lt{"s.start_at": period.To}).
		GroupBy("u.id", "u.full_name").
		OrderBy("u.full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CaptainPayroll - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CaptainPayroll - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]domain.CaptainPayrollStats, 0)
	for rows.Next() {
		var s domain.CaptainPayrollStats
		if err := rows.Scan(&s.CaptainID, &s.CaptainName, &s.Slots, &s.Passengers, &s.Accrued, &s.Paid); err != nil {
			return nil, fmt.Errorf("%w: CaptainPayroll - scan row: %w", ErrScanRow, err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CaptainPayroll - rows error: %w", ErrScanRow, err)
	}

	return stats, nil
}

func (r *Repository) sum(ctx context.Context, op, query string, args []interface{}) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var total decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s - scan sum: %w", ErrScanRow, op, err)
	}

	return total, nil
}
