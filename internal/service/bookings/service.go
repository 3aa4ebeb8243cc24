package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	slotRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/slot"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
)

const (
	reasonByClient = "отменено клиентом"
	reasonByAdmin  = "отменено администратором"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	slotRepo       SlotRepository
	userRepo       UserRepository
	refunder       Refunder
	notifier       Notifier
	metrics        Metrics
	txManager      TransactionManager
	timeProvider   TimeProvider
	cancelDeadline time.Duration
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	userRepo UserRepository,
	refunder Refunder,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	cancelDeadline time.Duration,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		userRepo:       userRepo,
		refunder:       refunder,
		notifier:       notifier,
		metrics:        metrics,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		cancelDeadline: cancelDeadline,
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может держатель, пассажир или администратор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.HasPassenger(userID) {
		if err := s.requireAdmin(ctx, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, err
		}
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя (как держателя и как пассажира)
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetSlotBookings список бронирований слота
// Доступно администратору и капитану этого слота
func (s *Service) GetSlotBookings(ctx context.Context, slotID int64, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetSlotBookings: slot id=%d requested by user=%d", slotID, userID)

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetSlotBookings: failed to get slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlotBookings - get slot: %w", ErrInternal, err)
	}

	if slot.CaptainID == nil || *slot.CaptainID != userID {
		if err := s.requireAdmin(ctx, userID); err != nil {
			s.logger.Warn("GetSlotBookings: access denied for user=%d to slot id=%d", userID, slotID)
			return nil, err
		}
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{SlotID: &slotID})
	if err != nil {
		s.logger.Error("GetSlotBookings: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlotBookings - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Держатель может отменить действующую бронь не позже чем за cancelDeadline до начала,
// администратор отменяет в любой момент. Оплаченная сумма возвращается, промокод не восстанавливается
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.CancelBookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	var (
		booking  *domain.Booking
		slot     *domain.Slot
		refunded decimal.Decimal
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Блокируем бронирование
		booking, err = s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		// 2. Проверяем права: держатель или администратор
		isAdmin := false
		if booking.ClientID != req.UserID {
			if err := s.requireAdmin(txCtx, req.UserID); err != nil {
				return err
			}
			isAdmin = true
		}

		if !booking.CanBeCancelled() {
			return ErrCannotCancel
		}

		// 3. Держатель не может отменить слишком поздно
		slot, err = s.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - get slot: %w", ErrInternal, err)
		}
		if !isAdmin && now.After(slot.StartAt.Add(-s.cancelDeadline)) {
			return ErrCancelDeadlinePassed
		}

		if reason == "" {
			reason = reasonByClient
			if isAdmin {
				reason = reasonByAdmin
			}
		}

		// 4. Возвращаем оплату
		refunded, err = s.refunder.Refund(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - refund: %w", ErrInternal, err)
		}
		paymentStatus := booking.PaymentStatus
		if refunded.IsPositive() {
			paymentStatus = domain.PaymentRefunded
		}

		// 5. Отменяем
		if err := s.bookingRepo.Cancel(txCtx, booking.ID, reason, paymentStatus, now); err != nil {
			if errors.Is(err, bookingRepo.ErrCannotCancel) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}
		booking.Status = domain.BookingCancelled
		booking.PaymentStatus = paymentStatus
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Cancel: booking id=%d: %v", bookingID, err)
		} else {
			s.logger.Warn("Cancel: booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	s.metrics.ObserveBooking("cancelled")
	s.notifier.BookingCancelled(ctx, booking.ClientID, booking.ID, slot.StartAt, reason, refunded)

	s.logger.Info("Cancel: cancelled booking id=%d, refunded=%s", bookingID, refunded.StringFixed(2))
	return &models.CancelBookingResponse{
		BookingID:     booking.ID,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		Refunded:      refunded.StringFixed(2),
	}, nil
}

// MarkNoShow отмечает неявку пассажиров после начала слота
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, adminID int64) error {
	s.logger.Info("MarkNoShow: booking id=%d by user=%d", bookingID, adminID)

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	now := s.timeProvider.Now()

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if !booking.OccupiesSlot() {
			return ErrCannotMarkNoShow
		}

		slot, err := s.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("%w: MarkNoShow - get slot: %w", ErrInternal, err)
		}
		if now.Before(slot.StartAt) {
			return ErrCannotMarkNoShow
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.BookingNoShow); err != nil {
			return fmt.Errorf("%w: MarkNoShow - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("MarkNoShow: booking id=%d: %v", bookingID, err)
		return err
	}

	s.metrics.ObserveBooking("no_show")
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

// requireAdmin проверяет, что пользователь администратор
func (s *Service) requireAdmin(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: requireAdmin - get user: %w", ErrInternal, err)
	}
	if !user.IsAdmin() {
		return ErrAccessDenied
	}
	return nil
}
