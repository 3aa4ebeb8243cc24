package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *bookingRepoMock) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *bookingRepoMock) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *bookingRepoMock) Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus, at time.Time) error {
	return m.Called(ctx, id, reason, paymentStatus, at).Error(0)
}

type slotRepoMock struct{ mock.Mock }

func (m *slotRepoMock) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Slot)
	return s, args.Error(1)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type refunderMock struct{ mock.Mock }

func (m *refunderMock) Refund(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) BookingCancelled(ctx context.Context, userID, bookingID int64, startAt time.Time, reason string, refunded decimal.Decimal) domain.NotificationStatus {
	m.Called(ctx, userID, bookingID, reason, refunded.StringFixed(2))
	return domain.NotificationSent
}

type metricsStub struct{ results []string }

func (m *metricsStub) ObserveBooking(result string) { m.results = append(m.results, result) }

type txStub struct{}

func (txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *bookingRepoMock
	slots    *slotRepoMock
	users    *userRepoMock
	refunder *refunderMock
	notifier *notifierMock
	metrics  *metricsStub
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		bookings: new(bookingRepoMock),
		slots:    new(slotRepoMock),
		users:    new(userRepoMock),
		refunder: new(refunderMock),
		notifier: new(notifierMock),
		metrics:  &metricsStub{},
	}
	f.service = NewService(f.bookings, f.slots, f.users, f.refunder, f.notifier, f.metrics, txStub{}, 24*time.Hour, logger.Nop{})
	f.service.timeProvider = fixedTime{now: now}
	return f
}

func booking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		SlotID:        10,
		ClientID:      3,
		TotalPrice:    decimal.NewFromInt(2000),
		Status:        domain.BookingActive,
		PaymentStatus: domain.PaymentPaid,
		Passengers:    []domain.BookingPassenger{{UserID: 3}, {UserID: 4}},
	}
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.users.On("GetByID", ctx, int64(9)).Return(&domain.User{ID: 9, Role: domain.RoleClient}, nil)
	f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleAdmin}, nil)

	_, err := f.service.GetByID(ctx, 1, 4)
	require.NoError(t, err, "passenger can see the booking")

	_, err = f.service.GetByID(ctx, 1, 8)
	require.NoError(t, err, "admin can see the booking")

	_, err = f.service.GetByID(ctx, 1, 9)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_UnknownRequesterDenied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.users.On("GetByID", ctx, int64(77)).Return(nil, userRepo.ErrUserNotFound)

	_, err := f.service.GetByID(ctx, 1, 77)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	f := newFixture()
	_, err := f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 3, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSlotBookings_Captain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, CaptainID: ptr.Ptr(int64(5))}, nil)
	f.bookings.On("List", ctx, domain.BookingFilter{SlotID: ptr.Ptr(int64(10))}).Return([]*domain.Booking{booking()}, nil)

	resp, err := f.service.GetSlotBookings(ctx, 10, 5)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, "2000.00", resp.Bookings[0].TotalPrice)
}

func TestCancel_ByHolderRefundsPaidBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, StartAt: now.Add(48 * time.Hour)}, nil)
	f.refunder.On("Refund", ctx, int64(1)).Return(decimal.NewFromInt(2000), nil)
	f.bookings.On("Cancel", ctx, int64(1), reasonByClient, domain.PaymentRefunded, now).Return(nil)
	f.notifier.On("BookingCancelled", ctx, int64(3), int64(1), reasonByClient, "2000.00").Return()

	resp, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "refunded", resp.PaymentStatus)
	assert.Equal(t, "2000.00", resp.Refunded)
	assert.Equal(t, []string{"cancelled"}, f.metrics.results)
	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCancel_HolderAfterDeadline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, StartAt: now.Add(3 * time.Hour)}, nil)

	_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 3})
	assert.ErrorIs(t, err, ErrCancelDeadlinePassed)
	f.refunder.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestCancel_AdminIgnoresDeadline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := booking()
	b.PaymentStatus = domain.PaymentNotPaid

	f.bookings.On("GetByID", ctx, int64(1)).Return(b, nil)
	f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleAdmin}, nil)
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, StartAt: now.Add(time.Hour)}, nil)
	f.refunder.On("Refund", ctx, int64(1)).Return(decimal.Zero, nil)
	f.bookings.On("Cancel", ctx, int64(1), "шторм", domain.PaymentNotPaid, now).Return(nil)
	f.notifier.On("BookingCancelled", ctx, int64(3), int64(1), "шторм", "0.00").Return()

	resp, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 8, CancellationReason: " шторм "})
	require.NoError(t, err)
	assert.Equal(t, "not_paid", resp.PaymentStatus)
}

func TestCancel_NotActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := booking()
	b.Status = domain.BookingCancelled
	f.bookings.On("GetByID", ctx, int64(1)).Return(b, nil)

	_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 3})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StrangerDenied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.users.On("GetByID", ctx, int64(4)).Return(&domain.User{ID: 4, Role: domain.RoleClient}, nil)

	_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 4})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(1)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: 3})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleAdmin}, nil)
	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, StartAt: now.Add(-time.Hour)}, nil)
	f.bookings.On("UpdateStatus", ctx, int64(1), domain.BookingNoShow).Return(nil)

	require.NoError(t, f.service.MarkNoShow(ctx, 1, 8))
	f.bookings.AssertExpectations(t)
}

func TestMarkNoShow_BeforeStart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleAdmin}, nil)
	f.bookings.On("GetByID", ctx, int64(1)).Return(booking(), nil)
	f.slots.On("GetByID", ctx, int64(10)).Return(&domain.Slot{ID: 10, StartAt: now.Add(time.Hour)}, nil)

	assert.ErrorIs(t, f.service.MarkNoShow(ctx, 1, 8), ErrCannotMarkNoShow)
}
