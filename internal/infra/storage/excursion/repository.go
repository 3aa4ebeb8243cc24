package excursion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/pgerr"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

var excursionColumns = []string{
	"id",
	"name",
	"description",
	"base_price",
	"duration_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий экскурсий (маршрутов)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория экскурсий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает экскурсию
func (r *Repository) Create(ctx context.Context, excursion *domain.Excursion) (*domain.Excursion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("excursions").
		Columns("name", "description", "base_price", "duration_minutes", "is_active").
		Values(excursion.Name, excursion.Description, excursion.BasePrice, excursion.DurationMinutes, excursion.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&excursion.ID, &excursion.CreatedAt, &excursion.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return excursion, nil
}

// GetByID получает экскурсию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(excursionColumns...).
		From("excursions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var e domain.Excursion
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.BasePrice,
		&e.DurationMinutes,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExcursionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan excursion: %w", ErrScanRow, err)
	}

	return &e, nil
}

// List получает экскурсии, опционально только активные
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Excursion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(excursionColumns...).
		From("excursions").
		OrderBy("name ASC")
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	excursions := make([]*domain.Excursion, 0)
	for rows.Next() {
		var e domain.Excursion
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Description,
			&e.BasePrice,
			&e.DurationMinutes,
			&e.IsActive,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		excursions = append(excursions, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return excursions, nil
}

// Update обновляет экскурсию целиком
func (r *Repository) Update(ctx context.Context, excursion *domain.Excursion) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("excursions").
		Set("name", excursion.Name).
		Set("description", excursion.Description).
		Set("base_price", excursion.BasePrice).
		Set("duration_minutes", excursion.DurationMinutes).
		Set("is_active", excursion.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": excursion.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if pgerr.IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrExcursionNotFound
	}

	return nil
}
