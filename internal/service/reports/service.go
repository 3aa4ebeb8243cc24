package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	financeRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/finance"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/reports/models"
)

// Service финансовые отчеты, расходы и выплаты капитанам
type Service struct {
	reportRepo    ReportRepository
	financeRepo   FinanceRepository
	excursionRepo ExcursionRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса отчетов
func NewService(reportRepo ReportRepository, financeRepo FinanceRepository, excursionRepo ExcursionRepository, logger Logger) *Service {
	return &Service{
		reportRepo:    reportRepo,
		financeRepo:   financeRepo,
		excursionRepo: excursionRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Revenue выручка по экскурсиям за [from, to)
// Прибыль = чистая выручка - расходы - начисленные зарплаты
func (s *Service) Revenue(ctx context.Context, from, to time.Time) (*models.RevenueReport, error) {
	s.logger.Info("Revenue: period %s - %s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	period := domain.Period{From: from, To: to}
	if !period.IsValid() {
		return nil, ErrInvalidPeriod
	}

	bookingStats, err := s.reportRepo.BookingStats(ctx, period)
	if err != nil {
		return nil, s.internal("Revenue - booking stats", err)
	}
	paymentStats, err := s.reportRepo.PaymentStats(ctx, period)
	if err != nil {
		return nil, s.internal("Revenue - payment stats", err)
	}
	expenses, err := s.reportRepo.ExpensesTotal(ctx, period)
	if err != nil {
		return nil, s.internal("Revenue - expenses", err)
	}
	salaries, err := s.reportRepo.SalariesTotal(ctx, period)
	if err != nil {
		return nil, s.internal("Revenue - salaries", err)
	}

	type row struct {
		name     string
		bookings int
		people   int
		gross    decimal.Decimal
		refunds  decimal.Decimal
	}
	rows := make(map[int64]*row)
	for _, b := range bookingStats {
		rows[b.ExcursionID] = &row{name: b.ExcursionName, bookings: b.Bookings, people: b.People}
	}
	for _, p := range paymentStats {
		r, ok := rows[p.ExcursionID]
		if !ok {
			r = &row{name: s.excursionName(ctx, p.ExcursionID)}
			rows[p.ExcursionID] = r
		}
		r.gross = p.Gross
		r.refunds = p.Refunds
	}

	report := &models.RevenueReport{
		From:       from,
		To:         to,
		Excursions: make([]models.ExcursionRevenue, 0, len(rows)),
	}

	gross, refunds := decimal.Zero, decimal.Zero
	for id, r := range rows {
		report.Excursions = append(report.Excursions, models.ExcursionRevenue{
			ExcursionID:   id,
			ExcursionName: r.name,
			Bookings:      r.bookings,
			People:        r.people,
			Gross:         r.gross.StringFixed(2),
			Refunds:       r.refunds.StringFixed(2),
			Net:           r.gross.Sub(r.refunds).StringFixed(2),
		})
		report.Totals.Bookings += r.bookings
		report.Totals.People += r.people
		gross = gross.Add(r.gross)
		refunds = refunds.Add(r.refunds)
	}
	sort.Slice(report.Excursions, func(i, j int) bool {
		return report.Excursions[i].ExcursionName < report.Excursions[j].ExcursionName
	})

	net := gross.Sub(refunds)
	report.Totals.Gross = gross.StringFixed(2)
	report.Totals.Refunds = refunds.StringFixed(2)
	report.Totals.Net = net.StringFixed(2)
	report.Expenses = expenses.StringFixed(2)
	report.Salaries = salaries.StringFixed(2)
	report.Profit = net.Sub(expenses).Sub(salaries).StringFixed(2)

	return report, nil
}

// CaptainPayroll начисления и выплаты капитанам за [from, to)
func (s *Service) CaptainPayroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error) {
	period := domain.Period{From: from, To: to}
	if !period.IsValid() {
		return nil, ErrInvalidPeriod
	}

	stats, err := s.reportRepo.CaptainPayroll(ctx, period)
	if err != nil {
		return nil, s.internal("CaptainPayroll", err)
	}

	report := &models.PayrollReport{
		From:     from,
		To:       to,
		Captains: make([]models.CaptainPayrollEntry, len(stats)),
	}
	for i, c := range stats {
		report.Captains[i] = models.CaptainPayrollEntry{
			CaptainID:   c.CaptainID,
			CaptainName: c.CaptainName,
			Slots:       c.Slots,
			Passengers:  c.Passengers,
			Accrued:     c.Accrued.StringFixed(2),
			Paid:        c.Paid.StringFixed(2),
			Outstanding: c.Accrued.Sub(c.Paid).StringFixed(2),
		}
	}
	return report, nil
}

// AddExpense регистрирует операционный расход
func (s *Service) AddExpense(ctx context.Context, req *models.AddExpenseRequest) (*models.ExpenseResponse, error) {
	s.logger.Info("AddExpense: category=%q amount=%s by user=%d", req.Category, req.Amount, req.CreatedByID)

	category := strings.TrimSpace(req.Category)
	if category == "" || utf8.RuneCountInString(category) > domain.MaxExpenseCategoryLength {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}

	spentAt := s.timeProvider.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense, err := s.financeRepo.CreateExpense(ctx, &domain.Expense{
		Category:    category,
		Amount:      amount.Round(2),
		Description: req.Description,
		SlotID:      req.SlotID,
		CreatedByID: req.CreatedByID,
		SpentAt:     spentAt,
	})
	if err != nil {
		return nil, s.internal("AddExpense", err)
	}
	return models.FromDomainExpense(expense), nil
}

// ListExpenses расходы за [from, to)
func (s *Service) ListExpenses(ctx context.Context, from, to time.Time) ([]*models.ExpenseResponse, error) {
	period := domain.Period{From: from, To: to}
	if !period.IsValid() {
		return nil, ErrInvalidPeriod
	}

	list, err := s.financeRepo.ListExpenses(ctx, period)
	if err != nil {
		return nil, s.internal("ListExpenses", err)
	}
	out := make([]*models.ExpenseResponse, len(list))
	for i, e := range list {
		out[i] = models.FromDomainExpense(e)
	}
	return out, nil
}

// MarkSalaryPaid отмечает начисление выплаченным
func (s *Service) MarkSalaryPaid(ctx context.Context, salaryID int64) (*models.SalaryResponse, error) {
	s.logger.Info("MarkSalaryPaid: salary id=%d", salaryID)

	salary, err := s.financeRepo.GetSalaryByID(ctx, salaryID)
	if err != nil {
		if errors.Is(err, financeRepo.ErrSalaryNotFound) {
			return nil, ErrSalaryNotFound
		}
		return nil, s.internal("MarkSalaryPaid - get salary", err)
	}
	if salary.Status == domain.SalaryPaid {
		return nil, ErrSalaryAlreadyPaid
	}

	paidAt := s.timeProvider.Now()
	if err := s.financeRepo.MarkSalaryPaid(ctx, salaryID, paidAt); err != nil {
		if errors.Is(err, financeRepo.ErrSalaryAlreadyPaid) {
			return nil, ErrSalaryAlreadyPaid
		}
		return nil, s.internal("MarkSalaryPaid", err)
	}

	salary.Status = domain.SalaryPaid
	salary.PaidAt = &paidAt
	return models.FromDomainSalary(salary), nil
}

// ListCaptainSalaries начисления капитана
func (s *Service) ListCaptainSalaries(ctx context.Context, captainID int64) ([]*models.SalaryResponse, error) {
	list, err := s.financeRepo.ListSalariesByCaptain(ctx, captainID)
	if err != nil {
		return nil, s.internal("ListCaptainSalaries", err)
	}
	out := make([]*models.SalaryResponse, len(list))
	for i, salary := range list {
		out[i] = models.FromDomainSalary(salary)
	}
	return out, nil
}

func (s *Service) excursionName(ctx context.Context, id int64) string {
	excursion, err := s.excursionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("excursionName: excursion id=%d: %v", id, err)
		return ""
	}
	return excursion.Name
}

func (s *Service) internal(op string, err error) error {
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
