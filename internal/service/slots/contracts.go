package slots

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	FindCaptainOverlapping(ctx context.Context, start, end time.Time, captainID int64, excludeID int64) ([]*domain.Slot, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error
	UpdateCaptain(ctx context.Context, id int64, captainID *int64) error
}

// ExcursionRepository интерфейс репозитория экскурсий
type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus, at time.Time) error
	CompleteBySlot(ctx context.Context, slotID int64) (int64, error)
}

// PaymentRepository выручка по слоту
type PaymentRepository interface {
	SlotBalance(ctx context.Context, slotID int64) (decimal.Decimal, error)
}

// SalaryRepository начисления капитанам
type SalaryRepository interface {
	CreateSalary(ctx context.Context, salary *domain.Salary) (*domain.Salary, error)
}

// Refunder возврат оплаченной суммы внутри транзакции
type Refunder interface {
	Refund(ctx context.Context, bookingID int64) (decimal.Decimal, error)
}

// Notifier уведомления пользователям
type Notifier interface {
	SlotCancelled(ctx context.Context, userID, bookingID int64, excursionName string, startAt time.Time, refunded decimal.Decimal) domain.NotificationStatus
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	ObserveBooking(result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
