package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	financeRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/finance"
	slotRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/slot"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/slots/models"
)

const slotCancelledReason = "экскурсия отменена"

// PayrollRule правило начисления капитану за проведенный слот
type PayrollRule struct {
	BaseRate       decimal.Decimal
	RevenuePercent int
}

// Repositories зависимости сервиса от хранилища
type Repositories struct {
	Slots      SlotRepository
	Excursions ExcursionRepository
	Users      UserRepository
	Bookings   BookingRepository
	Payments   PaymentRepository
	Salaries   SalaryRepository
}

// Service сервис управления слотами экскурсий
type Service struct {
	slotRepo      SlotRepository
	excursionRepo ExcursionRepository
	userRepo      UserRepository
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	salaryRepo    SalaryRepository
	refunder      Refunder
	notifier      Notifier
	metrics       Metrics
	txManager     TransactionManager
	timeProvider  TimeProvider
	payroll       PayrollRule
	logger        Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	repos Repositories,
	refunder Refunder,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	payroll PayrollRule,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      repos.Slots,
		excursionRepo: repos.Excursions,
		userRepo:      repos.Users,
		bookingRepo:   repos.Bookings,
		paymentRepo:   repos.Payments,
		salaryRepo:    repos.Salaries,
		refunder:      refunder,
		notifier:      notifier,
		metrics:       metrics,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		payroll:       payroll,
		logger:        logger,
	}
}

// GetByID получает слот
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot, s.excursionName(ctx, slot.ExcursionID)), nil
}

// ListUpcoming слоты, которые еще не завершены, в заданном интервале начала
func (s *Service) ListUpcoming(ctx context.Context, req *models.ListSlotsRequest) ([]*models.SlotResponse, error) {
	from := s.timeProvider.Now()
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil && !req.To.After(from) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	return s.list(ctx, domain.SlotFilter{
		From:        &from,
		To:          req.To,
		ExcursionID: req.ExcursionID,
		Statuses:    []domain.SlotStatus{domain.SlotScheduled, domain.SlotInProgress},
	})
}

// ListByCaptain расписание капитана начиная с from
func (s *Service) ListByCaptain(ctx context.Context, captainID int64, from time.Time) ([]*models.SlotResponse, error) {
	return s.list(ctx, domain.SlotFilter{
		From:      &from,
		CaptainID: &captainID,
		Statuses:  []domain.SlotStatus{domain.SlotScheduled, domain.SlotInProgress, domain.SlotCompleted},
	})
}

// AssignCaptain назначает (или снимает при nil) капитана слота
// Капитан не может вести два пересекающихся по времени слота
func (s *Service) AssignCaptain(ctx context.Context, slotID int64, captainID *int64) (*models.SlotResponse, error) {
	s.logger.Info("AssignCaptain: slot id=%d captain=%v", slotID, captainID)

	var slot *domain.Slot

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Блокируем слот
		slot, err = s.getSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if slot.IsFinal() {
			return ErrSlotFinished
		}

		if captainID != nil {
			// 2. Проверяем роль
			captain, err := s.userRepo.GetByID(txCtx, *captainID)
			if err != nil {
				if errors.Is(err, userRepo.ErrUserNotFound) {
					return ErrCaptainNotFound
				}
				return fmt.Errorf("%w: AssignCaptain - get captain: %w", ErrInternal, err)
			}
			if !captain.IsCaptain() {
				return ErrCaptainNotFound
			}

			// 3. Капитан свободен в это время
			conflicts, err := s.slotRepo.FindCaptainOverlapping(txCtx, slot.StartAt, slot.EndAt, *captainID, slot.ID)
			if err != nil {
				return fmt.Errorf("%w: AssignCaptain - find overlapping: %w", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				s.logger.Warn("AssignCaptain: captain id=%d busy in slot id=%d", *captainID, conflicts[0].ID)
				return ErrSlotConflict
			}
		}

		if err := s.slotRepo.UpdateCaptain(txCtx, slot.ID, captainID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: AssignCaptain - update: %w", ErrInternal, err)
		}
		slot.CaptainID = captainID
		return nil
	})
	if err != nil {
		s.logError("AssignCaptain", slotID, err)
		return nil, err
	}

	return models.FromDomainSlot(slot, s.excursionName(ctx, slot.ExcursionID)), nil
}

// cancelledBooking отмененная бронь для уведомления после коммита
type cancelledBooking struct {
	clientID  int64
	bookingID int64
	refunded  decimal.Decimal
}

// ChangeStatus переводит слот в новый статус
// Отмена слота отменяет действующие брони с возвратом оплаты,
// завершение закрывает брони и начисляет зарплату капитану
func (s *Service) ChangeStatus(ctx context.Context, slotID int64, status string) (*models.ChangeStatusResponse, error) {
	s.logger.Info("ChangeStatus: slot id=%d to status=%s", slotID, status)

	next := domain.SlotStatus(status)
	if !domain.ValidSlotStatus(next) {
		return nil, fmt.Errorf("%w: unknown slot status", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	resp := &models.ChangeStatusResponse{SlotID: slotID, Status: status}

	var (
		slot      *domain.Slot
		cancelled []cancelledBooking
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Блокируем слот и проверяем переход
		slot, err = s.getSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if !slot.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := s.slotRepo.UpdateStatus(txCtx, slot.ID, slot.Status, next); err != nil {
			if errors.Is(err, slotRepo.ErrStatusChanged) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("%w: ChangeStatus - update status: %w", ErrInternal, err)
		}

		switch next {
		case domain.SlotCancelled:
			// 2. Отменяем брони с возвратом
			cancelled, err = s.cancelBookings(txCtx, slot.ID, now)
			if err != nil {
				return err
			}
			total := decimal.Zero
			for _, c := range cancelled {
				total = total.Add(c.refunded)
			}
			resp.CancelledBookings = len(cancelled)
			resp.Refunded = total.StringFixed(2)

		case domain.SlotCompleted:
			// 2. Закрываем брони и начисляем зарплату
			completed, err := s.bookingRepo.CompleteBySlot(txCtx, slot.ID)
			if err != nil {
				return fmt.Errorf("%w: ChangeStatus - complete bookings: %w", ErrInternal, err)
			}
			resp.CompletedBookings = completed

			salary, err := s.accrueSalary(txCtx, slot)
			if err != nil {
				return err
			}
			if salary != nil {
				amount := salary.Amount.StringFixed(2)
				resp.SalaryAccrued = &amount
			}
		}
		return nil
	})
	if err != nil {
		s.logError("ChangeStatus", slotID, err)
		return nil, err
	}

	if len(cancelled) > 0 {
		name := s.excursionName(ctx, slot.ExcursionID)
		for _, c := range cancelled {
			s.metrics.ObserveBooking("cancelled")
			s.notifier.SlotCancelled(ctx, c.clientID, c.bookingID, name, slot.StartAt, c.refunded)
		}
	}

	s.logger.Info("ChangeStatus: slot id=%d is now %s", slotID, next)
	return resp, nil
}

func (s *Service) cancelBookings(ctx context.Context, slotID int64, at time.Time) ([]cancelledBooking, error) {
	active := domain.BookingActive
	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{SlotID: &slotID, Status: &active})
	if err != nil {
		return nil, fmt.Errorf("%w: cancelBookings - list: %w", ErrInternal, err)
	}

	result := make([]cancelledBooking, 0, len(bookings))
	for _, b := range bookings {
		refunded, err := s.refunder.Refund(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: cancelBookings - refund booking id=%d: %w", ErrInternal, b.ID, err)
		}
		paymentStatus := b.PaymentStatus
		if refunded.IsPositive() {
			paymentStatus = domain.PaymentRefunded
		}
		if err := s.bookingRepo.Cancel(ctx, b.ID, slotCancelledReason, paymentStatus, at); err != nil {
			return nil, fmt.Errorf("%w: cancelBookings - cancel booking id=%d: %w", ErrInternal, b.ID, err)
		}
		result = append(result, cancelledBooking{clientID: b.ClientID, bookingID: b.ID, refunded: refunded})
	}
	return result, nil
}

// accrueSalary начисляет зарплату капитану слота. Без капитана начисления нет
func (s *Service) accrueSalary(ctx context.Context, slot *domain.Slot) (*domain.Salary, error) {
	if slot.CaptainID == nil {
		s.logger.Warn("accrueSalary: slot id=%d has no captain", slot.ID)
		return nil, nil
	}

	revenue, err := s.paymentRepo.SlotBalance(ctx, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: accrueSalary - slot balance: %w", ErrInternal, err)
	}

	salary, err := s.salaryRepo.CreateSalary(ctx, &domain.Salary{
		CaptainID: *slot.CaptainID,
		SlotID:    slot.ID,
		Amount:    pricing.CaptainSalary(s.payroll.BaseRate, s.payroll.RevenuePercent, revenue),
		Status:    domain.SalaryAccrued,
	})
	if err != nil {
		if errors.Is(err, financeRepo.ErrSalaryExists) {
			s.logger.Warn("accrueSalary: salary for slot id=%d already accrued", slot.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: accrueSalary - create salary: %w", ErrInternal, err)
	}

	s.logger.Info("accrueSalary: captain id=%d accrued %s for slot id=%d (revenue %s)",
		salary.CaptainID, salary.Amount.StringFixed(2), slot.ID, revenue.StringFixed(2))
	return salary, nil
}

func (s *Service) list(ctx context.Context, filter domain.SlotFilter) ([]*models.SlotResponse, error) {
	list, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list: repository error: %v", err)
		return nil, fmt.Errorf("%w: list slots: %w", ErrInternal, err)
	}

	names := make(map[int64]string)
	out := make([]*models.SlotResponse, len(list))
	for i, slot := range list {
		name, ok := names[slot.ExcursionID]
		if !ok {
			name = s.excursionName(ctx, slot.ExcursionID)
			names[slot.ExcursionID] = name
		}
		out[i] = models.FromDomainSlot(slot, name)
	}
	return out, nil
}

func (s *Service) getSlot(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: get slot: %w", ErrInternal, err)
	}
	return slot, nil
}

// excursionName название экскурсии для ответов и уведомлений, пустое при ошибке
func (s *Service) excursionName(ctx context.Context, id int64) string {
	excursion, err := s.excursionRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, excursionRepo.ErrExcursionNotFound) {
			s.logger.Error("excursionName: excursion id=%d: %v", id, err)
		}
		return ""
	}
	return excursion.Name
}

func (s *Service) logError(op string, slotID int64, err error) {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: slot id=%d: %v", op, slotID, err)
		return
	}
	s.logger.Warn("%s: slot id=%d: %v", op, slotID, err)
}
