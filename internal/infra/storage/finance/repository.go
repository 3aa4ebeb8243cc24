package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/pgerr"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/psqlbuilder"
)

var salaryColumns = []string{"id", "captain_id", "slot_id", "amount", "status", "paid_at", "created_at"}

var expenseColumns = []string{"id", "category", "amount", "description", "slot_id", "created_by_id", "spent_at", "created_at"}

// Repository репозиторий начислений капитанам и расходов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateSalary начисляет капитану за слот. Второе начисление за слот - ErrSalaryExists
func (r *Repository) CreateSalary(ctx context.Context, salary *domain.Salary) (*domain.Salary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("salaries").
		Columns("captain_id", "slot_id", "amount", "status").
		Values(salary.CaptainID, salary.SlotID, salary.Amount, salary.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSalary - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&salary.ID, &salary.CreatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrSalaryExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSalary - execute insert: %w", ErrExecQuery, err)
	}

	return salary, nil
}

// GetSalaryByID получает начисление по ID
func (r *Repository) GetSalaryByID(ctx context.Context, id int64) (*domain.Salary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(salaryColumns...).
		From("salaries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSalaryByID - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.Salary
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.CaptainID, &s.SlotID, &s.Amount, &s.Status, &s.PaidAt, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSalaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSalaryByID - scan salary: %w", ErrScanRow, err)
	}

	return &s, nil
}

// MarkSalaryPaid отмечает начисление выплаченным
func (r *Repository) MarkSalaryPaid(ctx context.Context, id int64, paidAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("salaries").
		Set("status", domain.SalaryPaid).
		Set("paid_at", paidAt).
		Where(squirrel.Eq{"id": id, "status": domain.SalaryAccrued}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkSalaryPaid - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkSalaryPaid - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkSalaryPaid - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSalaryAlreadyPaid
	}

	return nil
}

// ListSalariesByCaptain начисления капитана, начиная с последних
func (r *Repository) ListSalariesByCaptain(ctx context.Context, captainID int64) ([]*domain.Salary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(salaryColumns...).
		From("salaries").
		Where(squirrel.Eq{"captain_id": captainID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalariesByCaptain - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalariesByCaptain - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	salaries := make([]*domain.Salary, 0)
	for rows.Next() {
		var s domain.Salary
		if err := rows.Scan(&s.ID, &s.CaptainID, &s.SlotID, &s.Amount, &s.Status, &s.PaidAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListSalariesByCaptain - scan row: %w", ErrScanRow, err)
		}
		salaries = append(salaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSalariesByCaptain - rows error: %w", ErrScanRow, err)
	}

	return salaries, nil
}

// CreateExpense записывает расход
func (r *Repository) CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("expenses").
		Columns("category", "amount", "description", "slot_id", "created_by_id", "spent_at").
		Values(expense.Category, expense.Amount, expense.Description, expense.SlotID, expense.CreatedByID, expense.SpentAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateExpense - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&expense.ID, &expense.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateExpense - execute insert: %w", ErrExecQuery, err)
	}

	return expense, nil
}

// ListExpenses расходы за период [From, To)
func (r *Repository) ListExpenses(ctx context.Context, period domain.Period) ([]*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.GtOrEq{"spent_at": period.From}).
		Where(squirrel.Lt{"spent_at": period.To}).
		OrderBy("spent_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpenses - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpenses - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.SlotID, &e.CreatedByID, &e.SpentAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListExpenses - scan row: %w", ErrScanRow, err)
		}
		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpenses - rows error: %w", ErrScanRow, err)
	}

	return expenses, nil
}
