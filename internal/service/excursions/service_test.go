package excursions

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions/models"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/ptr"
)

// memRepo простое хранилище экскурсий в памяти
type memRepo struct {
	items  map[int64]*domain.Excursion
	nextID int64
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[int64]*domain.Excursion{}, nextID: 1}
}

func (r *memRepo) Create(_ context.Context, e *domain.Excursion) (*domain.Excursion, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.items {
		if existing.Name == e.Name {
			return nil, excursionRepo.ErrDuplicateName
		}
	}
	e.ID = r.nextID
	r.nextID++
	copied := *e
	r.items[e.ID] = &copied
	return e, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Excursion, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, excursionRepo.ErrExcursionNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *memRepo) List(_ context.Context, activeOnly bool) ([]*domain.Excursion, error) {
	out := make([]*domain.Excursion, 0)
	for _, e := range r.items {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, e *domain.Excursion) error {
	if _, ok := r.items[e.ID]; !ok {
		return excursionRepo.ErrExcursionNotFound
	}
	copied := *e
	r.items[e.ID] = &copied
	return nil
}

func TestCreateAndUpdate(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, logger.Nop{})
	ctx := context.Background()

	created, err := s.Create(ctx, &models.CreateExcursionRequest{
		Name:            " Закат на заливе ",
		BasePrice:       "4000",
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "Закат на заливе", created.Name)
	assert.Equal(t, "4000.00", created.BasePrice)
	assert.True(t, created.IsActive)

	updated, err := s.Update(ctx, created.ID, &models.UpdateExcursionRequest{
		BasePrice: ptr.Ptr("4500.5"),
		IsActive:  ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "4500.50", updated.BasePrice)
	assert.False(t, updated.IsActive)
	assert.True(t, repo.items[created.ID].BasePrice.Equal(decimal.RequireFromString("4500.5")))

	active, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreate_Validation(t *testing.T) {
	s := NewService(newMemRepo(), logger.Nop{})
	ctx := context.Background()

	cases := []models.CreateExcursionRequest{
		{Name: "", BasePrice: "100", DurationMinutes: 60},
		{Name: "A", BasePrice: "-1", DurationMinutes: 60},
		{Name: "A", BasePrice: "abc", DurationMinutes: 60},
		{Name: "A", BasePrice: "100", DurationMinutes: 10},
		{Name: "A", BasePrice: "100", DurationMinutes: 1441},
	}
	for _, req := range cases {
		req := req
		_, err := s.Create(ctx, &req)
		assert.ErrorIs(t, err, ErrInvalidInput, "request %+v", req)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	s := NewService(newMemRepo(), logger.Nop{})
	ctx := context.Background()
	req := &models.CreateExcursionRequest{Name: "Острова", BasePrice: "0", DurationMinutes: 240}

	_, err := s.Create(ctx, req)
	require.NoError(t, err)
	_, err = s.Create(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestGetByID_Errors(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, logger.Nop{})

	_, err := s.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrExcursionNotFound)

	repo.err = errors.New("db down")
	_, err = s.Create(context.Background(), &models.CreateExcursionRequest{Name: "X", BasePrice: "1", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrInternal)
}
