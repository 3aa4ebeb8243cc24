package create_slot

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

type slotRepoMock struct{ mock.Mock }

func (m *slotRepoMock) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	args := m.Called(ctx, slot)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	slot.ID = 77
	return slot, nil
}

func (m *slotRepoMock) FindOverlapping(ctx context.Context, start, end time.Time, excursionID int64, captainID *int64, excludeID int64) ([]*domain.Slot, error) {
	args := m.Called(ctx, start, end, excursionID, captainID, excludeID)
	return args.Get(0).([]*domain.Slot), args.Error(1)
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

type txStub struct{}

func (txStub) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now   = time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	start = time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)
)

func newUseCase(slots *slotRepoMock, excursions *excursionRepoMock, users *userRepoMock) *UseCase {
	uc := NewUseCase(slots, excursions, users, txStub{}, logger.Nop{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func excursion() *domain.Excursion {
	return &domain.Excursion{ID: 3, Name: "Закат", BasePrice: decimal.NewFromInt(1500), DurationMinutes: 90, IsActive: true}
}

func TestExecute_DefaultEnd(t *testing.T) {
	ctx := context.Background()
	slots, excursions, users := new(slotRepoMock), new(excursionRepoMock), new(userRepoMock)
	captainID := ptr.Ptr(int64(7))
	end := start.Add(90 * time.Minute)

	excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
	users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleCaptain}, nil)
	slots.On("FindOverlapping", ctx, start, end, int64(3), captainID, int64(0)).Return([]*domain.Slot{}, nil)
	slots.On("Create", ctx, mock.MatchedBy(func(s *domain.Slot) bool {
		return s.EndAt.Equal(end) && s.Status == domain.SlotScheduled && s.MaxPeople == 8 && *s.CaptainID == 7
	})).Return(nil)

	resp, err := newUseCase(slots, excursions, users).Execute(ctx, &Request{
		ExcursionID: 3, StartAt: start, MaxPeople: 8, MaxWeightKg: 700, CaptainID: captainID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), resp.SlotID)
	assert.Equal(t, end, resp.EndAt)
	assert.Equal(t, "Закат", resp.ExcursionName)
	assert.Equal(t, "scheduled", resp.Status)
	slots.AssertExpectations(t)
}

func TestExecute_Conflict(t *testing.T) {
	ctx := context.Background()
	slots, excursions := new(slotRepoMock), new(excursionRepoMock)
	end := start.Add(2 * time.Hour)

	excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
	slots.On("FindOverlapping", ctx, start, end, int64(3), (*int64)(nil), int64(0)).Return([]*domain.Slot{
		{ID: 5, StartAt: start.Add(time.Hour), EndAt: start.Add(3 * time.Hour)},
	}, nil)

	_, err := newUseCase(slots, excursions, new(userRepoMock)).Execute(ctx, &Request{
		ExcursionID: 3, StartAt: start, EndAt: &end, MaxPeople: 8,
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	slots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_Captain(t *testing.T) {
	ctx := context.Background()

	t.Run("not a captain", func(t *testing.T) {
		excursions, users := new(excursionRepoMock), new(userRepoMock)
		excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
		users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleClient}, nil)

		_, err := newUseCase(new(slotRepoMock), excursions, users).Execute(ctx, &Request{
			ExcursionID: 3, StartAt: start, MaxPeople: 8, CaptainID: ptr.Ptr(int64(7)),
		})
		assert.ErrorIs(t, err, ErrCaptainNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		excursions, users := new(excursionRepoMock), new(userRepoMock)
		excursions.On("GetByID", ctx, int64(3)).Return(excursion(), nil)
		users.On("GetByID", ctx, int64(7)).Return(nil, userRepo.ErrUserNotFound)

		_, err := newUseCase(new(slotRepoMock), excursions, users).Execute(ctx, &Request{
			ExcursionID: 3, StartAt: start, MaxPeople: 8, CaptainID: ptr.Ptr(int64(7)),
		})
		assert.ErrorIs(t, err, ErrCaptainNotFound)
	})
}

func TestExecute_Validation(t *testing.T) {
	uc := newUseCase(new(slotRepoMock), new(excursionRepoMock), new(userRepoMock))
	ctx := context.Background()
	before := start.Add(-time.Hour)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"no excursion", &Request{StartAt: start, MaxPeople: 1}, ErrInvalidInput},
		{"zero people", &Request{ExcursionID: 3, StartAt: start}, ErrInvalidInput},
		{"negative weight", &Request{ExcursionID: 3, StartAt: start, MaxPeople: 1, MaxWeightKg: -1}, ErrInvalidInput},
		{"end before start", &Request{ExcursionID: 3, StartAt: start, EndAt: &before, MaxPeople: 1}, ErrInvalidInput},
		{"in the past", &Request{ExcursionID: 3, StartAt: now.Add(-time.Minute), MaxPeople: 1}, ErrStartInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
