package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/pgerr"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"slot_id",
	"client_id",
	"booked_by_id",
	"people_count",
	"total_weight_kg",
	"base_amount",
	"age_discount_amount",
	"promo_discount_amount",
	"total_price",
	"promo_code_id",
	"status",
	"payment_status",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и их пассажирами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с пассажирами
// Должен вызываться внутри транзакции: бронь и пассажиры пишутся двумя запросами
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"slot_id",
			"client_id",
			"booked_by_id",
			"people_count",
			"total_weight_kg",
			"base_amount",
			"age_discount_amount",
			"promo_discount_amount",
			"total_price",
			"promo_code_id",
			"status",
			"payment_status",
		).
		Values(
			booking.SlotID,
			booking.ClientID,
			booking.BookedByID,
			booking.PeopleCount,
			booking.TotalWeightKg,
			booking.BaseAmount,
			booking.AgeDiscountAmount,
			booking.PromoDiscountAmount,
			booking.TotalPrice,
			booking.PromoCodeID,
			booking.Status,
			booking.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrAlreadyBooked
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if len(booking.Passengers) == 0 {
		return booking, nil
	}

	insert := psqlbuilder.Insert("booking_passengers").
		Columns("booking_id", "user_id", "age_years", "weight_kg", "discount_percent", "price")
	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		insert = insert.Values(p.BookingID, p.UserID, p.AgeYears, p.WeightKg, p.DiscountPercent, p.Price)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build passengers insert: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert passengers: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с пассажирами
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	if err := r.loadPassengers(ctx, executor, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// List получает бронирования по фильтру
//
// Примеры:
//
//	// все занимающие места брони слота
//	repo.List(ctx, domain.BookingFilter{SlotID: &slotID, OnlyOccupying: true})
//
//	// активные брони клиента
//	status := domain.BookingActive
//	repo.List(ctx, domain.BookingFilter{ClientID: &userID, Status: &status})
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at ASC", "id ASC")

	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.OnlyOccupying {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.OccupyingStatuses)})
	}

	// Брони слота в транзакции блокируются, чтобы параллельная запись не прошла мимо проверки мест
	if dbmetrics.IsInTransaction(ctx) && filter.SlotID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	bookings, err := r.query(ctx, executor, query, args)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	if err := r.loadPassengers(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// GetByUserID получает бронирования, где пользователь держатель или пассажир
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Or{
			squirrel.Eq{"client_id": userID},
			squirrel.Expr("id IN (SELECT booking_id FROM booking_passengers WHERE user_id = ?)", userID),
		}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	bookings, err := r.query(ctx, executor, query, args)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}

	if err := r.loadPassengers(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// OccupancyBySlots суммирует занятые места и вес по слотам
// Слоты без броней в результат не попадают
func (r *Repository) OccupancyBySlots(ctx context.Context, slotIDs []int64) (map[int64]capacity.Occupancy, error) {
	result := make(map[int64]capacity.Occupancy, len(slotIDs))
	if len(slotIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_id",
		"COALESCE(SUM(people_count), 0)",
		"COALESCE(SUM(total_weight_kg), 0)",
	).
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.Eq{"status": statusStrings(domain.OccupyingStatuses)}).
		GroupBy("slot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyBySlots - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyBySlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var occ capacity.Occupancy
		if err := rows.Scan(&slotID, &occ.People, &occ.WeightKg); err != nil {
			return nil, fmt.Errorf("%w: OccupancyBySlots - scan row: %w", ErrScanRow, err)
		}
		result[slotID] = occ
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupancyBySlots - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if !domain.ValidBookingStatus(status) {
		return ErrInvalidStatus
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет активное бронирование с указанием причины
// paymentStatus - итоговый статус оплаты (оплаченная бронь становится refunded)
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingCancelled).
		Set("payment_status", paymentStatus).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.BookingActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, executor, "Cancel", query, args)
	if errors.Is(err, ErrBookingNotFound) {
		return ErrCannotCancel
	}
	return err
}

// UpdatePaymentStatus обновляет статус оплаты
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdatePaymentStatus", query, args)
}

// CompleteBySlot переводит все активные брони слота в completed
// Возвращает количество обновленных броней
func (r *Repository) CompleteBySlot(ctx context.Context, slotID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_id": slotID, "status": domain.BookingActive}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteBySlot - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteBySlot - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteBySlot - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// loadPassengers подгружает пассажиров одним запросом для всех броней
func (r *Repository) loadPassengers(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"user_id",
		"age_years",
		"weight_kg",
		"discount_percent",
		"price",
	).
		From("booking_passengers").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadPassengers - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadPassengers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.BookingPassenger
		if err := rows.Scan(&p.BookingID, &p.UserID, &p.AgeYears, &p.WeightKg, &p.DiscountPercent, &p.Price); err != nil {
			return fmt.Errorf("%w: loadPassengers - scan row: %w", ErrScanRow, err)
		}
		if b, ok := byID[p.BookingID]; ok {
			b.Passengers = append(b.Passengers, p)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadPassengers - rows error: %w", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.ClientID,
		&booking.BookedByID,
		&booking.PeopleCount,
		&booking.TotalWeightKg,
		&booking.BaseAmount,
		&booking.AgeDiscountAmount,
		&booking.PromoDiscountAmount,
		&booking.TotalPrice,
		&booking.PromoCodeID,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
