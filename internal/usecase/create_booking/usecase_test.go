package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	promoRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/promocode"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/txmanager"
)

type slotRepoMock struct{ mock.Mock }

func (m *slotRepoMock) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Slot)
	return s, args.Error(1)
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

func (m *userRepoMock) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*domain.User), args.Error(1)
}

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	booking.ID = 501
	booking.CreatedAt = now
	return booking, nil
}

func (m *bookingRepoMock) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type promoRepoMock struct{ mock.Mock }

func (m *promoRepoMock) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*domain.PromoCode)
	return p, args.Error(1)
}

func (m *promoRepoMock) IncrementUsage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) BookingCreated(ctx context.Context, userID, bookingID int64, excursionName string, startAt time.Time, people int, total decimal.Decimal) domain.NotificationStatus {
	m.Called(ctx, userID, bookingID, excursionName, people, total.StringFixed(2))
	return domain.NotificationSent
}

type metricsStub struct{ results []string }

func (m *metricsStub) ObserveBooking(result string) { m.results = append(m.results, result) }

type txStub struct{}

func (txStub) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now     = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	startAt = time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)
)

type env struct {
	slots      *slotRepoMock
	excursions *excursionRepoMock
	users      *userRepoMock
	bookings   *bookingRepoMock
	promos     *promoRepoMock
	notifier   *notifierMock
	metrics    *metricsStub
	uc         *UseCase
}

func newEnv(rules Rules) *env {
	e := &env{
		slots:      new(slotRepoMock),
		excursions: new(excursionRepoMock),
		users:      new(userRepoMock),
		bookings:   new(bookingRepoMock),
		promos:     new(promoRepoMock),
		notifier:   new(notifierMock),
		metrics:    &metricsStub{},
	}
	e.uc = NewUseCase(
		Repositories{Slots: e.slots, Excursions: e.excursions, Users: e.users, Bookings: e.bookings, PromoCodes: e.promos},
		pricing.NewCalculator(nil),
		e.notifier,
		e.metrics,
		txStub{},
		rules,
		logger.Nop{},
	)
	e.uc.timeProvider = fixedTime{now: now}
	return e
}

var defaultRules = Rules{MinBookingNotice: time.Hour, DefaultWeightKg: 75, MaxPassengers: 5}

func slot() *domain.Slot {
	return &domain.Slot{
		ID: 10, ExcursionID: 3, CaptainID: ptr.Ptr(int64(7)),
		StartAt: startAt, EndAt: startAt.Add(2 * time.Hour),
		MaxPeople: 6, MaxWeightKg: 400, Status: domain.SlotScheduled,
	}
}

func excursion() *domain.Excursion {
	return &domain.Excursion{ID: 3, Name: "Закат на заливе", BasePrice: decimal.NewFromInt(1000), DurationMinutes: 120, IsActive: true}
}

// holder без даты рождения и веса, child - ребенок 5 лет, записанный держателем
func people() (*domain.User, *domain.User) {
	holder := &domain.User{ID: 1, FullName: "Анна Смирнова", Role: domain.RoleClient}
	child := &domain.User{
		ID: 2, FullName: "Миша Смирнов", Role: domain.RoleClient, IsVirtual: true,
		BirthDate: ptr.Ptr(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)),
		WeightKg:  ptr.Ptr(20), CreatedByID: ptr.Ptr(int64(1)),
	}
	return holder, child
}

func slotFilter() domain.BookingFilter {
	return domain.BookingFilter{SlotID: ptr.Ptr(int64(10)), OnlyOccupying: true}
}

// happyPath настраивает моки до шага проверки промокода
func (e *env) happyPath(ctx context.Context, existing []*domain.Booking) {
	holder, child := people()
	e.slots.On("GetByID", ctx, int64(10)).Return(slot(), nil)
	e.excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
	e.users.On("GetByID", ctx, int64(1)).Return(holder, nil)
	e.users.On("GetByIDs", ctx, []int64{1, 2}).Return([]*domain.User{holder, child}, nil)
	e.bookings.On("List", ctx, slotFilter()).Return(existing, nil)
}

func TestExecute_Success(t *testing.T) {
	ctx := context.Background()
	e := newEnv(defaultRules)
	e.happyPath(ctx, []*domain.Booking{
		{ID: 90, ClientID: 50, Status: domain.BookingActive, PeopleCount: 2, TotalWeightKg: 160},
	})

	promo := &domain.PromoCode{
		ID: 4, Code: "SUMMER10", DiscountType: domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10), ValidFrom: now.AddDate(0, -1, 0), IsActive: true,
	}
	e.promos.On("GetByCode", ctx, "SUMMER10").Return(promo, nil)
	e.promos.On("IncrementUsage", ctx, int64(4)).Return(nil)

	e.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.SlotID == 10 && b.ClientID == 1 && b.BookedByID == 1 &&
			b.PeopleCount == 2 && b.TotalWeightKg == 95 &&
			b.TotalPrice.Equal(decimal.NewFromInt(1350)) &&
			b.PromoCodeID != nil && *b.PromoCodeID == 4 &&
			len(b.Passengers) == 2 && b.Passengers[1].DiscountPercent == 50
	})).Return(nil)
	e.notifier.On("BookingCreated", ctx, int64(1), int64(501), "Закат на заливе", 2, "1350.00").Return()

	resp, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2, 2}, PromoCode: ptr.Ptr(" summer10 ")})
	require.NoError(t, err)

	assert.Equal(t, int64(501), resp.BookingID)
	assert.Equal(t, "2000.00", resp.BaseAmount.StringFixed(2))
	assert.Equal(t, "500.00", resp.AgeDiscountAmount.StringFixed(2))
	assert.Equal(t, "150.00", resp.PromoDiscountAmount.StringFixed(2))
	assert.Equal(t, "1350.00", resp.Total.StringFixed(2))
	assert.Equal(t, 2, resp.SeatsLeft)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "not_paid", resp.PaymentStatus)
	require.Len(t, resp.Passengers, 2)
	assert.Equal(t, 75, resp.Passengers[0].WeightKg)
	assert.Nil(t, resp.Passengers[0].AgeYears)
	assert.Equal(t, 5, *resp.Passengers[1].AgeYears)
	assert.Equal(t, []string{"created"}, e.metrics.results)

	e.promos.AssertExpectations(t)
	e.bookings.AssertExpectations(t)
	e.notifier.AssertExpectations(t)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	e := newEnv(defaultRules)
	e.happyPath(ctx, []*domain.Booking{})

	resp, err := e.uc.Preview(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.BookingID)
	assert.Equal(t, "1500.00", resp.Total.StringFixed(2))
	assert.Equal(t, 6, resp.SeatsLeft)
	e.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	e.promos.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	assert.Empty(t, e.metrics.results)
}

func TestPreview_PromoIsNotConsumed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(defaultRules)
	e.happyPath(ctx, []*domain.Booking{})
	e.promos.On("GetByCode", ctx, "FIX300").Return(&domain.PromoCode{
		ID: 5, Code: "FIX300", DiscountType: domain.DiscountFixed,
		DiscountValue: decimal.NewFromInt(300), ValidFrom: now.Add(-time.Hour), IsActive: true,
	}, nil)

	resp, err := e.uc.Preview(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}, PromoCode: ptr.Ptr("fix300")})
	require.NoError(t, err)
	assert.Equal(t, "1200.00", resp.Total.StringFixed(2))
	require.NotNil(t, resp.PromoCode)
	assert.Equal(t, "FIX300", *resp.PromoCode)
	e.promos.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func TestExecute_CapacityErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("not enough seats", func(t *testing.T) {
		e := newEnv(defaultRules)
		e.happyPath(ctx, []*domain.Booking{
			{ID: 90, ClientID: 50, Status: domain.BookingActive, PeopleCount: 5, TotalWeightKg: 300},
		})

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
		assert.ErrorIs(t, err, ErrNotEnoughSeats)
		assert.Equal(t, []string{"rejected"}, e.metrics.results)
	})

	t.Run("weight exceeded", func(t *testing.T) {
		e := newEnv(defaultRules)
		e.happyPath(ctx, []*domain.Booking{
			{ID: 90, ClientID: 50, Status: domain.BookingActive, PeopleCount: 2, TotalWeightKg: 310},
		})

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
		assert.ErrorIs(t, err, ErrWeightExceeded)
	})

	t.Run("cancelled bookings free seats", func(t *testing.T) {
		e := newEnv(defaultRules)
		e.happyPath(ctx, []*domain.Booking{
			{ID: 90, ClientID: 50, Status: domain.BookingCancelled, PeopleCount: 6, TotalWeightKg: 400},
		})

		resp, err := e.uc.Preview(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
		require.NoError(t, err)
		assert.Equal(t, 6, resp.SeatsLeft)
	})
}

func TestExecute_AlreadyBooked(t *testing.T) {
	ctx := context.Background()

	t.Run("passenger in another booking", func(t *testing.T) {
		e := newEnv(defaultRules)
		e.happyPath(ctx, []*domain.Booking{
			{ID: 90, ClientID: 50, Status: domain.BookingActive, PeopleCount: 2,
				Passengers: []domain.BookingPassenger{{UserID: 50}, {UserID: 2}}},
		})

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	})

	t.Run("unique index race", func(t *testing.T) {
		e := newEnv(defaultRules)
		e.happyPath(ctx, []*domain.Booking{})
		e.bookings.On("Create", ctx, mock.Anything).Return(bookingRepo.ErrAlreadyBooked)

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Equal(t, []string{"rejected"}, e.metrics.results)
		e.notifier.AssertNotCalled(t, "BookingCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExecute_PassengerNotAllowed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(defaultRules)
	holder, _ := people()
	stranger := &domain.User{ID: 3, FullName: "Чужой", CreatedByID: ptr.Ptr(int64(99))}

	e.slots.On("GetByID", ctx, int64(10)).Return(slot(), nil)
	e.excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
	e.users.On("GetByID", ctx, int64(1)).Return(holder, nil)
	e.users.On("GetByIDs", ctx, []int64{1, 3}).Return([]*domain.User{holder, stranger}, nil)

	_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 3}})
	assert.ErrorIs(t, err, ErrPassengerNotAllowed)
}

func TestExecute_SlotChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("too late", func(t *testing.T) {
		e := newEnv(defaultRules)
		s := slot()
		s.StartAt = now.Add(30 * time.Minute)
		e.slots.On("GetByID", ctx, int64(10)).Return(s, nil)

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1})
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("cancelled slot", func(t *testing.T) {
		e := newEnv(defaultRules)
		s := slot()
		s.Status = domain.SlotCancelled
		e.slots.On("GetByID", ctx, int64(10)).Return(s, nil)

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1})
		assert.ErrorIs(t, err, ErrSlotNotBookable)
	})

	t.Run("inactive excursion", func(t *testing.T) {
		e := newEnv(defaultRules)
		ex := excursion()
		ex.IsActive = false
		e.slots.On("GetByID", ctx, int64(10)).Return(slot(), nil)
		e.excursions.On("GetByID", ctx, int64(3)).Return(ex, nil)

		_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1})
		assert.ErrorIs(t, err, ErrExcursionInactive)
	})
}

func TestExecute_PromoErrors(t *testing.T) {
	ctx := context.Background()
	base := func() *domain.PromoCode {
		return &domain.PromoCode{
			ID: 4, Code: "SUMMER10", DiscountType: domain.DiscountPercent,
			DiscountValue: decimal.NewFromInt(10), ValidFrom: now.AddDate(0, -1, 0), IsActive: true,
		}
	}

	tests := []struct {
		name    string
		promo   func() *domain.PromoCode
		repoErr error
		incrErr error
		want    error
	}{
		{name: "not found", repoErr: promoRepo.ErrPromoNotFound, want: ErrPromoInvalid},
		{name: "expired", promo: func() *domain.PromoCode {
			p := base()
			p.ValidUntil = ptr.Ptr(now.Add(-time.Minute))
			return p
		}, want: ErrPromoExpired},
		{name: "exhausted", promo: func() *domain.PromoCode {
			p := base()
			p.UsageLimit = ptr.Ptr(3)
			p.UsedCount = 3
			return p
		}, want: ErrPromoExhausted},
		{name: "lost race on last use", promo: base, incrErr: promoRepo.ErrUsageLimitReached, want: ErrPromoExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(defaultRules)
			e.happyPath(ctx, []*domain.Booking{})
			if tt.repoErr != nil {
				e.promos.On("GetByCode", ctx, "SUMMER10").Return(nil, tt.repoErr)
			} else {
				e.promos.On("GetByCode", ctx, "SUMMER10").Return(tt.promo(), nil)
			}
			e.promos.On("IncrementUsage", ctx, int64(4)).Return(tt.incrErr)

			_, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}, PromoCode: ptr.Ptr("SUMMER10")})
			assert.ErrorIs(t, err, tt.want)
			e.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv(Rules{MaxPassengers: 2})

	_, err := e.uc.Execute(context.Background(), &Request{SlotID: 0, HolderID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2, 3}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 75, e.uc.rules.DefaultWeightKg)
}

func TestExecute_FreeBookingIsPaid(t *testing.T) {
	ctx := context.Background()
	e := newEnv(defaultRules)
	e.happyPath(ctx, []*domain.Booking{})
	e.promos.On("GetByCode", ctx, "GIFT").Return(&domain.PromoCode{
		ID: 6, Code: "GIFT", DiscountType: domain.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5000), ValidFrom: now.Add(-time.Hour), IsActive: true,
	}, nil)
	e.promos.On("IncrementUsage", ctx, int64(6)).Return(nil)
	e.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TotalPrice.IsZero() && b.PaymentStatus == domain.PaymentPaid
	})).Return(nil)
	e.notifier.On("BookingCreated", ctx, int64(1), int64(501), "Закат на заливе", 2, "0.00").Return()

	resp, err := e.uc.Execute(ctx, &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}, PromoCode: ptr.Ptr("gift")})
	require.NoError(t, err)

	assert.Equal(t, "0.00", resp.Total.StringFixed(2))
	assert.Equal(t, "paid", resp.PaymentStatus)
	e.bookings.AssertExpectations(t)
}

func TestExecute_RetriesSerializationConflict(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	e := newEnv(defaultRules)
	e.uc.txManager = txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil))

	// В транзакции контекст другой, поэтому сравниваем только аргументы
	holder, child := people()
	e.slots.On("GetByID", mock.Anything, int64(10)).Return(slot(), nil)
	e.excursions.On("GetByID", mock.Anything, int64(3)).Return(excursion(), nil)
	e.users.On("GetByID", mock.Anything, int64(1)).Return(holder, nil)
	e.users.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]*domain.User{holder, child}, nil)
	e.bookings.On("List", mock.Anything, slotFilter()).Return([]*domain.Booking{}, nil)

	conflict := fmt.Errorf("%w: Create - execute insert: %w", bookingRepo.ErrExecQuery,
		&pq.Error{Code: "40001", Message: "could not serialize access"})
	e.bookings.On("Create", mock.Anything, mock.Anything).Return(conflict).Once()
	e.bookings.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	e.notifier.On("BookingCreated", mock.Anything, int64(1), int64(501), "Закат на заливе", 2, "1500.00").Return()

	resp, err := e.uc.Execute(context.Background(), &Request{SlotID: 10, HolderID: 1, PassengerIDs: []int64{1, 2}})
	require.NoError(t, err)

	assert.Equal(t, int64(501), resp.BookingID)
	assert.Equal(t, []string{"created"}, e.metrics.results)
	e.bookings.AssertNumberOfCalls(t, "Create", 2)
	e.slots.AssertNumberOfCalls(t, "GetByID", 2)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
