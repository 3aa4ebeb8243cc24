package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/payments/models"
)

// Service сервис приема оплат и возвратов
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Register регистрирует оплату по бронированию
// Когда сумма оплат за вычетом возвратов покрывает стоимость, бронь становится оплаченной
func (s *Service) Register(ctx context.Context, req *models.RegisterPaymentRequest) (*models.RegisterPaymentResponse, error) {
	s.logger.Info("Register: payment for booking id=%d amount=%s method=%s", req.BookingID, req.Amount, req.Method)

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}
	amount = amount.Round(2)

	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method)))
	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method", ErrInvalidInput)
	}

	var (
		booking *domain.Booking
		payment *domain.Payment
		paid    decimal.Decimal
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err = s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Register - get booking: %w", ErrInternal, err)
		}
		if !booking.OccupiesSlot() {
			return ErrBookingNotPayable
		}

		// 2. Проверяем, что не переплачиваем
		balance, err := s.paymentRepo.Balance(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: Register - balance: %w", ErrInternal, err)
		}
		paid = balance.Add(amount)
		if paid.GreaterThan(booking.TotalPrice) {
			return ErrOverpayment
		}

		// 3. Записываем платеж
		payment, err = s.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID:  booking.ID,
			Amount:     amount,
			Method:     method,
			Kind:       domain.KindPayment,
			ExternalID: req.ExternalID,
		})
		if err != nil {
			return fmt.Errorf("%w: Register - create payment: %w", ErrInternal, err)
		}

		// 4. Отмечаем оплату полностью
		if !paid.LessThan(booking.TotalPrice) && !booking.IsPaid() {
			if err := s.bookingRepo.UpdatePaymentStatus(txCtx, booking.ID, domain.PaymentPaid); err != nil {
				return fmt.Errorf("%w: Register - update payment status: %w", ErrInternal, err)
			}
			booking.PaymentStatus = domain.PaymentPaid
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Register: booking id=%d: %v", req.BookingID, err)
		} else {
			s.logger.Warn("Register: booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	s.notifier.PaymentReceived(ctx, booking.ClientID, booking.ID, amount, booking.IsPaid())

	s.logger.Info("Register: payment id=%d registered, booking id=%d paid=%s of %s",
		payment.ID, booking.ID, paid.StringFixed(2), booking.TotalPrice.StringFixed(2))
	return &models.RegisterPaymentResponse{
		Payment:       models.FromDomainPayment(payment),
		Paid:          paid.StringFixed(2),
		Outstanding:   booking.TotalPrice.Sub(paid).StringFixed(2),
		PaymentStatus: string(booking.PaymentStatus),
	}, nil
}

// ListByBooking платежи и возвраты по бронированию
func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]*models.PaymentResponse, error) {
	list, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainPaymentList(list), nil
}

// Refund возвращает всю оплаченную сумму по бронированию
// Вызывается внутри транзакции отмены. Возвращает сумму возврата (ноль, если оплат не было)
func (s *Service) Refund(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	list, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Refund - list payments: %w", ErrInternal, err)
	}

	balance := decimal.Zero
	var method domain.PaymentMethod
	for _, p := range list {
		balance = balance.Add(p.SignedAmount())
		if p.Kind == domain.KindPayment {
			method = p.Method
		}
	}
	if !balance.IsPositive() {
		return decimal.Zero, nil
	}

	if _, err := s.paymentRepo.Create(ctx, &domain.Payment{
		BookingID: bookingID,
		Amount:    balance,
		Method:    method,
		Kind:      domain.KindRefund,
	}); err != nil {
		return decimal.Zero, fmt.Errorf("%w: Refund - create refund: %w", ErrInternal, err)
	}

	s.logger.Info("Refund: booking id=%d refunded %s", bookingID, balance.StringFixed(2))
	return balance, nil
}
