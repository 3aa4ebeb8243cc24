package user

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

var userColumns = []string{
	"id",
	"chat_id",
	"role",
	"full_name",
	"phone",
	"birth_date",
	"weight_kg",
	"is_virtual",
	"link_token",
	"created_by_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий пользователей
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает пользователя
// Повторный chat_id возвращает ErrChatAlreadyBound
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns(
			"chat_id",
			"role",
			"full_name",
			"phone",
			"birth_date",
			"weight_kg",
			"is_virtual",
			"link_token",
			"created_by_id",
		).
		Values(
			user.ChatID,
			user.Role,
			user.FullName,
			user.Phone,
			user.BirthDate,
			user.WeightKg,
			user.IsVirtual,
			user.LinkToken,
			user.CreatedByID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrChatAlreadyBound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return user, nil
}

// GetByID получает пользователя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByChatID получает пользователя по идентификатору чата
func (r *Repository) GetByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	return r.getOne(ctx, "GetByChatID", squirrel.Eq{"chat_id": chatID}, false)
}

// GetByLinkToken получает виртуального пользователя по токену привязки
// Внутри транзакции строка блокируется, чтобы токен нельзя было использовать дважды
func (r *Repository) GetByLinkToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, "GetByLinkToken", squirrel.Eq{"link_token": token}, dbmetrics.IsInTransaction(ctx))
}

// GetByIDs получает пользователей по списку ID
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return r.list(ctx, "GetByIDs", squirrel.Eq{"id": ids}, "id ASC")
}

// ListByCreator пользователи, зарегистрированные через указанного пользователя
func (r *Repository) ListByCreator(ctx context.Context, creatorID int64) ([]*domain.User, error) {
	return r.list(ctx, "ListByCreator", squirrel.Eq{"created_by_id": creatorID}, "id ASC")
}

// ListByRole пользователи с указанной ролью
func (r *Repository) ListByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error) {
	return r.list(ctx, "ListByRole", squirrel.Eq{"role": role}, "full_name ASC")
}

// UpdateProfile обновляет анкетные данные пользователя
func (r *Repository) UpdateProfile(ctx context.Context, user *domain.User) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("full_name", user.FullName).
		Set("phone", user.Phone).
		Set("birth_date", user.BirthDate).
		Set("weight_kg", user.WeightKg).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateProfile", query, args)
}

// UpdateRole меняет роль пользователя
func (r *Repository) UpdateRole(ctx context.Context, id int64, role domain.UserRole) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("role", role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateRole - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateRole", query, args)
}

// LinkChat привязывает чат к виртуальному пользователю и гасит токен
func (r *Repository) LinkChat(ctx context.Context, id int64, chatID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("chat_id", chatID).
		Set("is_virtual", false).
		Set("link_token", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"link_token": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkChat - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if pgerr.IsUniqueViolation(err) {
		return ErrChatAlreadyBound
	}
	if err != nil {
		return fmt.Errorf("%w: LinkChat - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: LinkChat - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(userColumns...).
		From("users").
		Where(where)
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	user, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %w", ErrScanRow, op, err)
	}

	return user, nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer, orderBy string) ([]*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy(orderBy).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return users, nil
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
		return ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.ChatID,
		&u.Role,
		&u.FullName,
		&u.Phone,
		&u.BirthDate,
		&u.WeightKg,
		&u.IsVirtual,
		&u.LinkToken,
		&u.CreatedByID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
