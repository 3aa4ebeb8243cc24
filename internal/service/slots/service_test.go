package slots

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	financeRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/finance"
	slotRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/slot"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

type slotRepoMock struct{ mock.Mock }

func (m *slotRepoMock) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Slot)
	return s, args.Error(1)
}

func (m *slotRepoMock) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Slot), args.Error(1)
}

func (m *slotRepoMock) FindCaptainOverlapping(ctx context.Context, start, end time.Time, captainID int64, excludeID int64) ([]*domain.Slot, error) {
	args := m.Called(ctx, start, end, captainID, excludeID)
	return args.Get(0).([]*domain.Slot), args.Error(1)
}

func (m *slotRepoMock) UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *slotRepoMock) UpdateCaptain(ctx context.Context, id int64, captainID *int64) error {
	return m.Called(ctx, id, captainID).Error(0)
}

type excursionRepoMock struct{ mock.Mock }

func (m *excursionRepoMock) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.Excursion)
	return e, args.Error(1)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *bookingRepoMock) Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus, at time.Time) error {
	return m.Called(ctx, id, reason, paymentStatus, at).Error(0)
}

func (m *bookingRepoMock) CompleteBySlot(ctx context.Context, slotID int64) (int64, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(int64), args.Error(1)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) SlotBalance(ctx context.Context, slotID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type salaryRepoMock struct{ mock.Mock }

func (m *salaryRepoMock) CreateSalary(ctx context.Context, salary *domain.Salary) (*domain.Salary, error) {
	args := m.Called(ctx, salary)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	salary.ID = 1
	return salary, nil
}

type refunderMock struct{ mock.Mock }

func (m *refunderMock) Refund(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) SlotCancelled(ctx context.Context, userID, bookingID int64, excursionName string, startAt time.Time, refunded decimal.Decimal) domain.NotificationStatus {
	m.Called(ctx, userID, bookingID, excursionName, refunded.StringFixed(2))
	return domain.NotificationSent
}

type metricsStub struct{ results []string }

func (m *metricsStub) ObserveBooking(result string) { m.results = append(m.results, result) }

type txStub struct{}

func (txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (txStub) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	slots      *slotRepoMock
	excursions *excursionRepoMock
	users      *userRepoMock
	bookings   *bookingRepoMock
	payments   *paymentRepoMock
	salaries   *salaryRepoMock
	refunder   *refunderMock
	notifier   *notifierMock
	metrics    *metricsStub
	service    *Service
}

func newFixture() *fixture {
	f := &fixture{
		slots:      new(slotRepoMock),
		excursions: new(excursionRepoMock),
		users:      new(userRepoMock),
		bookings:   new(bookingRepoMock),
		payments:   new(paymentRepoMock),
		salaries:   new(salaryRepoMock),
		refunder:   new(refunderMock),
		notifier:   new(notifierMock),
		metrics:    &metricsStub{},
	}
	f.service = NewService(Repositories{
		Slots:      f.slots,
		Excursions: f.excursions,
		Users:      f.users,
		Bookings:   f.bookings,
		Payments:   f.payments,
		Salaries:   f.salaries,
	}, f.refunder, f.notifier, f.metrics, txStub{}, PayrollRule{
		BaseRate:       decimal.NewFromInt(1500),
		RevenuePercent: 10,
	}, logger.Nop{})
	f.service.timeProvider = fixedTime{now: now}
	return f
}

func slot(status domain.SlotStatus) *domain.Slot {
	return &domain.Slot{
		ID:          10,
		ExcursionID: 2,
		CaptainID:   ptr.Ptr(int64(7)),
		StartAt:     now.Add(2 * time.Hour),
		EndAt:       now.Add(4 * time.Hour),
		MaxPeople:   12,
		Status:      status,
	}
}

func TestChangeStatus_CancelRefundsAndNotifies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := domain.BookingActive

	f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)
	f.slots.On("UpdateStatus", ctx, int64(10), domain.SlotScheduled, domain.SlotCancelled).Return(nil)
	f.bookings.On("List", ctx, domain.BookingFilter{SlotID: ptr.Ptr(int64(10)), Status: &active}).Return([]*domain.Booking{
		{ID: 1, ClientID: 3, PaymentStatus: domain.PaymentPaid},
		{ID: 2, ClientID: 4, PaymentStatus: domain.PaymentNotPaid},
	}, nil)
	f.refunder.On("Refund", ctx, int64(1)).Return(decimal.NewFromInt(3000), nil)
	f.refunder.On("Refund", ctx, int64(2)).Return(decimal.Zero, nil)
	f.bookings.On("Cancel", ctx, int64(1), slotCancelledReason, domain.PaymentRefunded, now).Return(nil)
	f.bookings.On("Cancel", ctx, int64(2), slotCancelledReason, domain.PaymentNotPaid, now).Return(nil)
	f.excursions.On("GetByID", ctx, int64(2)).Return(&domain.Excursion{ID: 2, Name: "Закат"}, nil)
	f.notifier.On("SlotCancelled", ctx, int64(3), int64(1), "Закат", "3000.00").Return()
	f.notifier.On("SlotCancelled", ctx, int64(4), int64(2), "Закат", "0.00").Return()

	resp, err := f.service.ChangeStatus(ctx, 10, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CancelledBookings)
	assert.Equal(t, "3000.00", resp.Refunded)
	assert.Equal(t, []string{"cancelled", "cancelled"}, f.metrics.results)
	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestChangeStatus_CompleteAccruesSalary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotInProgress), nil)
	f.slots.On("UpdateStatus", ctx, int64(10), domain.SlotInProgress, domain.SlotCompleted).Return(nil)
	f.bookings.On("CompleteBySlot", ctx, int64(10)).Return(int64(3), nil)
	f.payments.On("SlotBalance", ctx, int64(10)).Return(decimal.NewFromInt(9000), nil)
	f.salaries.On("CreateSalary", ctx, mock.MatchedBy(func(s *domain.Salary) bool {
		return s.CaptainID == 7 && s.SlotID == 10 && s.Amount.Equal(decimal.NewFromInt(2400)) && s.Status == domain.SalaryAccrued
	})).Return(nil)

	resp, err := f.service.ChangeStatus(ctx, 10, "completed")
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.CompletedBookings)
	require.NotNil(t, resp.SalaryAccrued)
	assert.Equal(t, "2400.00", *resp.SalaryAccrued)
	f.salaries.AssertExpectations(t)
}

func TestChangeStatus_CompleteWithExistingSalary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotInProgress), nil)
	f.slots.On("UpdateStatus", ctx, int64(10), domain.SlotInProgress, domain.SlotCompleted).Return(nil)
	f.bookings.On("CompleteBySlot", ctx, int64(10)).Return(int64(0), nil)
	f.payments.On("SlotBalance", ctx, int64(10)).Return(decimal.Zero, nil)
	f.salaries.On("CreateSalary", ctx, mock.Anything).Return(financeRepo.ErrSalaryExists)

	resp, err := f.service.ChangeStatus(ctx, 10, "completed")
	require.NoError(t, err)
	assert.Nil(t, resp.SalaryAccrued)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)

	_, err := f.service.ChangeStatus(ctx, 10, "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.ChangeStatus(ctx, 10, "sunk")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangeStatus_ConcurrentChange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)
	f.slots.On("UpdateStatus", ctx, int64(10), domain.SlotScheduled, domain.SlotInProgress).Return(slotRepo.ErrStatusChanged)

	_, err := f.service.ChangeStatus(ctx, 10, "in_progress")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAssignCaptain(t *testing.T) {
	ctx := context.Background()
	s := slot(domain.SlotScheduled)

	t.Run("ok", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)
		f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleCaptain}, nil)
		f.slots.On("FindCaptainOverlapping", ctx, s.StartAt, s.EndAt, int64(8), int64(10)).Return([]*domain.Slot{}, nil)
		f.slots.On("UpdateCaptain", ctx, int64(10), ptr.Ptr(int64(8))).Return(nil)
		f.excursions.On("GetByID", ctx, int64(2)).Return(&domain.Excursion{ID: 2, Name: "Закат"}, nil)

		resp, err := f.service.AssignCaptain(ctx, 10, ptr.Ptr(int64(8)))
		require.NoError(t, err)
		assert.Equal(t, int64(8), *resp.CaptainID)
		assert.Equal(t, "Закат", resp.ExcursionName)
	})

	t.Run("not a captain", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)
		f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleClient}, nil)

		_, err := f.service.AssignCaptain(ctx, 10, ptr.Ptr(int64(8)))
		assert.ErrorIs(t, err, ErrCaptainNotFound)
	})

	t.Run("busy captain", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotScheduled), nil)
		f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8, Role: domain.RoleCaptain}, nil)
		f.slots.On("FindCaptainOverlapping", ctx, s.StartAt, s.EndAt, int64(8), int64(10)).
			Return([]*domain.Slot{{ID: 11}}, nil)

		_, err := f.service.AssignCaptain(ctx, 10, ptr.Ptr(int64(8)))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("finished slot", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", ctx, int64(10)).Return(slot(domain.SlotCompleted), nil)

		_, err := f.service.AssignCaptain(ctx, 10, nil)
		assert.ErrorIs(t, err, ErrSlotFinished)
	})
}
