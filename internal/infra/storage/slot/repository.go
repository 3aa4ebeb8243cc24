package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"excursion_id",
	"captain_id",
	"start_at",
	"end_at",
	"max_people",
	"max_weight_kg",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов экскурсий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("excursion_slots").
		Columns("excursion_id", "captain_id", "start_at", "end_at", "max_people", "max_weight_kg", "status").
		Values(slot.ExcursionID, slot.CaptainID, slot.StartAt, slot.EndAt, slot.MaxPeople, slot.MaxWeightKg, slot.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE): на ней сериализуются брони одного слота
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("excursion_slots").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// List получает слоты по фильтру, отсортированные по времени начала
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("excursion_slots").
		OrderBy("start_at ASC", "id ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.ExcursionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"excursion_id": *filter.ExcursionID})
	}
	if filter.CaptainID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"captain_id": *filter.CaptainID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	return r.list(ctx, "List", selectBuilder)
}

// FindOverlapping ищет неотмененные слоты, пересекающиеся с [start, end)
// и принадлежащие той же экскурсии или тому же капитану
func (r *Repository) FindOverlapping(ctx context.Context, start, end time.Time, excursionID int64, captainID *int64, excludeID int64) ([]*domain.Slot, error) {
	owner := squirrel.Or{squirrel.Eq{"excursion_id": excursionID}}
	if captainID != nil {
		owner = append(owner, squirrel.Eq{"captain_id": *captainID})
	}
	return r.overlapping(ctx, "FindOverlapping", start, end, owner, excludeID)
}

// FindCaptainOverlapping ищет неотмененные слоты капитана, пересекающиеся с [start, end)
func (r *Repository) FindCaptainOverlapping(ctx context.Context, start, end time.Time, captainID int64, excludeID int64) ([]*domain.Slot, error) {
	return r.overlapping(ctx, "FindCaptainOverlapping", start, end, squirrel.Eq{"captain_id": captainID}, excludeID)
}

func (r *Repository) overlapping(ctx context.Context, op string, start, end time.Time, owner squirrel.Sqlizer, excludeID int64) ([]*domain.Slot, error) {
	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("excursion_slots").
		Where(squirrel.NotEq{"status": string(domain.SlotCancelled)}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		Where(owner).
		OrderBy("start_at ASC")

	if excludeID != 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": excludeID})
	}

	return r.list(ctx, op, selectBuilder)
}

// UpdateStatus меняет статус слота, если он все еще равен from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error {
	query, args, err := psqlbuilder.Update("excursion_slots").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, "UpdateStatus", query, args)
	if errors.Is(err, ErrSlotNotFound) {
		return ErrStatusChanged
	}
	return err
}

// UpdateCaptain назначает (или снимает при nil) капитана слота
func (r *Repository) UpdateCaptain(ctx context.Context, id int64, captainID *int64) error {
	query, args, err := psqlbuilder.Update("excursion_slots").
		Set("captain_id", captainID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCaptain - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdateCaptain", query, args)
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return slots, nil
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(
		&s.ID,
		&s.ExcursionID,
		&s.CaptainID,
		&s.StartAt,
		&s.EndAt,
		&s.MaxPeople,
		&s.MaxWeightKg,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
