package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

type slotRepoMock struct{ mock.Mock }

func (m *slotRepoMock) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Slot), args.Error(1)
}

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) OccupancyBySlots(ctx context.Context, slotIDs []int64) (map[int64]capacity.Occupancy, error) {
	args := m.Called(ctx, slotIDs)
	return args.Get(0).(map[int64]capacity.Occupancy), args.Error(1)
}

type excursionRepoMock struct{ mock.Mock }

func (m *excursionRepoMock) List(ctx context.Context, activeOnly bool) ([]*domain.Excursion, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*domain.Excursion), args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func newUseCase(slots *slotRepoMock, bookings *bookingRepoMock, excursions *excursionRepoMock) *UseCase {
	uc := NewUseCase(slots, bookings, excursions, Rules{MinBookingNotice: time.Hour}, logger.Nop{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	slots, bookings, excursions := new(slotRepoMock), new(bookingRepoMock), new(excursionRepoMock)

	at := func(day, hour int) time.Time { return time.Date(2026, 7, day, hour, 0, 0, 0, time.UTC) }

	excursions.On("List", ctx, true).Return([]*domain.Excursion{
		{ID: 1, Name: "Закат", BasePrice: decimal.NewFromInt(1500), IsActive: true},
	}, nil)
	slots.On("List", ctx, mock.MatchedBy(func(f domain.SlotFilter) bool {
		return f.From.Equal(now.Add(time.Hour)) && f.To.Equal(now.AddDate(0, 0, 7)) &&
			f.ExcursionID == nil && len(f.Statuses) == 1 && f.Statuses[0] == domain.SlotScheduled
	})).Return([]*domain.Slot{
		{ID: 11, ExcursionID: 1, StartAt: at(2, 18), EndAt: at(2, 20), MaxPeople: 8, MaxWeightKg: 700, CaptainID: ptr.Ptr(int64(7))},
		{ID: 12, ExcursionID: 1, StartAt: at(3, 18), EndAt: at(3, 20), MaxPeople: 4},
		{ID: 13, ExcursionID: 2, StartAt: at(3, 19), EndAt: at(3, 21), MaxPeople: 4},
	}, nil)
	bookings.On("OccupancyBySlots", ctx, []int64{11, 12, 13}).Return(map[int64]capacity.Occupancy{
		11: {People: 3, WeightKg: 250},
		12: {People: 4, WeightKg: 300},
	}, nil)

	resp, err := newUseCase(slots, bookings, excursions).Execute(ctx, &Request{UserID: 5})
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Hour), resp.From)
	require.Len(t, resp.Slots, 2, "slot of inactive excursion is hidden")

	first := resp.Slots[0]
	assert.Equal(t, "Закат", first.ExcursionName)
	assert.Equal(t, 5, first.SeatsLeft)
	assert.True(t, first.WeightLimited)
	assert.Equal(t, 450, first.WeightLeftKg)
	assert.False(t, first.IsFull)
	assert.True(t, first.HasCaptain)
	assert.Equal(t, "1500.00", first.Price.StringFixed(2))

	full := resp.Slots[1]
	assert.True(t, full.IsFull, "full slot is flagged, not hidden")
	assert.Equal(t, 0, full.SeatsLeft)
	assert.False(t, full.WeightLimited)
}

func TestExecute_FromDate(t *testing.T) {
	ctx := context.Background()
	slots, bookings, excursions := new(slotRepoMock), new(bookingRepoMock), new(excursionRepoMock)
	from := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)

	excursions.On("List", ctx, true).Return([]*domain.Excursion{}, nil)
	slots.On("List", ctx, mock.MatchedBy(func(f domain.SlotFilter) bool {
		return f.From.Equal(from) && f.To.Equal(from.AddDate(0, 0, 2)) && *f.ExcursionID == 1
	})).Return([]*domain.Slot{}, nil)
	bookings.On("OccupancyBySlots", ctx, []int64{}).Return(map[int64]capacity.Occupancy{}, nil)

	resp, err := newUseCase(slots, bookings, excursions).Execute(ctx, &Request{From: from, Days: 2, ExcursionID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, from.AddDate(0, 0, 2), resp.To)
}

func TestExecute_Validation(t *testing.T) {
	uc := newUseCase(new(slotRepoMock), new(bookingRepoMock), new(excursionRepoMock))
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Days: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{Days: 40})
	assert.ErrorIs(t, err, ErrWindowTooLong)

	_, err = uc.Execute(ctx, &Request{From: now.AddDate(0, 0, -3), Days: 1})
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, domain.DefaultSearchWindowDays, uc.rules.SearchWindowDays)
}
