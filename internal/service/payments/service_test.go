package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/payments/models"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
)

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	args := m.Called(ctx, p)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	p.ID = 500
	return p, nil
}

func (m *paymentRepoMock) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *paymentRepoMock) Balance(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) PaymentReceived(ctx context.Context, userID, bookingID int64, amount decimal.Decimal, fullyPaid bool) domain.NotificationStatus {
	m.Called(ctx, userID, bookingID, amount.StringFixed(2), fullyPaid)
	return domain.NotificationSent
}

type txStub struct{}

func (txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		ClientID:      3,
		TotalPrice:    dec("3000"),
		Status:        domain.BookingActive,
		PaymentStatus: domain.PaymentNotPaid,
	}
}

func TestRegister_FullPaymentMarksPaid(t *testing.T) {
	bookings, payments, notifier := new(bookingRepoMock), new(paymentRepoMock), new(notifierMock)
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(7)).Return(activeBooking(), nil)
	payments.On("Balance", ctx, int64(7)).Return(dec("1000"), nil)
	payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Kind == domain.KindPayment && p.Amount.Equal(dec("2000")) && p.Method == domain.MethodCard
	})).Return(nil)
	bookings.On("UpdatePaymentStatus", ctx, int64(7), domain.PaymentPaid).Return(nil)
	notifier.On("PaymentReceived", ctx, int64(3), int64(7), "2000.00", true).Return()

	s := NewService(bookings, payments, notifier, txStub{}, logger.Nop{})
	resp, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "2000", Method: "Card"})
	require.NoError(t, err)
	assert.Equal(t, "3000.00", resp.Paid)
	assert.Equal(t, "0.00", resp.Outstanding)
	assert.Equal(t, "paid", resp.PaymentStatus)
	bookings.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRegister_PartialPayment(t *testing.T) {
	bookings, payments, notifier := new(bookingRepoMock), new(paymentRepoMock), new(notifierMock)
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(7)).Return(activeBooking(), nil)
	payments.On("Balance", ctx, int64(7)).Return(decimal.Zero, nil)
	payments.On("Create", ctx, mock.Anything).Return(nil)
	notifier.On("PaymentReceived", ctx, int64(3), int64(7), "500.00", false).Return()

	s := NewService(bookings, payments, notifier, txStub{}, logger.Nop{})
	resp, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "500", Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "2500.00", resp.Outstanding)
	assert.Equal(t, "not_paid", resp.PaymentStatus)
	bookings.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_Overpayment(t *testing.T) {
	bookings, payments := new(bookingRepoMock), new(paymentRepoMock)
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(7)).Return(activeBooking(), nil)
	payments.On("Balance", ctx, int64(7)).Return(dec("2500"), nil)

	s := NewService(bookings, payments, new(notifierMock), txStub{}, logger.Nop{})
	_, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "600", Method: "cash"})
	assert.ErrorIs(t, err, ErrOverpayment)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid amount", func(t *testing.T) {
		s := NewService(new(bookingRepoMock), new(paymentRepoMock), new(notifierMock), txStub{}, logger.Nop{})
		_, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "-1", Method: "cash"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid method", func(t *testing.T) {
		s := NewService(new(bookingRepoMock), new(paymentRepoMock), new(notifierMock), txStub{}, logger.Nop{})
		_, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "1", Method: "barter"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("booking not found", func(t *testing.T) {
		bookings := new(bookingRepoMock)
		bookings.On("GetByID", ctx, int64(7)).Return(nil, bookingRepo.ErrBookingNotFound)
		s := NewService(bookings, new(paymentRepoMock), new(notifierMock), txStub{}, logger.Nop{})
		_, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "1", Method: "cash"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		b := activeBooking()
		b.Status = domain.BookingCancelled
		bookings := new(bookingRepoMock)
		bookings.On("GetByID", ctx, int64(7)).Return(b, nil)
		s := NewService(bookings, new(paymentRepoMock), new(notifierMock), txStub{}, logger.Nop{})
		_, err := s.Register(ctx, &models.RegisterPaymentRequest{BookingID: 7, Amount: "1", Method: "cash"})
		assert.ErrorIs(t, err, ErrBookingNotPayable)
	})
}

func TestRefund(t *testing.T) {
	payments := new(paymentRepoMock)
	ctx := context.Background()

	payments.On("ListByBooking", ctx, int64(7)).Return([]*domain.Payment{
		{Amount: dec("1000"), Method: domain.MethodCash, Kind: domain.KindPayment},
		{Amount: dec("2000"), Method: domain.MethodCard, Kind: domain.KindPayment},
	}, nil)
	payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Kind == domain.KindRefund && p.Amount.Equal(dec("3000")) && p.Method == domain.MethodCard
	})).Return(nil)

	s := NewService(new(bookingRepoMock), payments, new(notifierMock), txStub{}, logger.Nop{})
	refunded, err := s.Refund(ctx, 7)
	require.NoError(t, err)
	assert.True(t, refunded.Equal(dec("3000")))
	payments.AssertExpectations(t)
}

func TestRefund_NothingPaid(t *testing.T) {
	payments := new(paymentRepoMock)
	ctx := context.Background()
	payments.On("ListByBooking", ctx, int64(7)).Return([]*domain.Payment{}, nil)

	s := NewService(new(bookingRepoMock), payments, new(notifierMock), txStub{}, logger.Nop{})
	refunded, err := s.Refund(ctx, 7)
	require.NoError(t, err)
	assert.True(t, refunded.IsZero())
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
