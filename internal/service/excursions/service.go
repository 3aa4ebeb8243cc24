package excursions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions/models"
)

// Service сервис каталога экскурсий
type Service struct {
	excursionRepo ExcursionRepository
	logger        Logger
}

// NewService создает новый экземпляр сервиса экскурсий
func NewService(excursionRepo ExcursionRepository, logger Logger) *Service {
	return &Service{
		excursionRepo: excursionRepo,
		logger:        logger,
	}
}

// Create создает экскурсию
func (s *Service) Create(ctx context.Context, req *models.CreateExcursionRequest) (*models.ExcursionResponse, error) {
	s.logger.Info("Create: excursion name=%q", req.Name)

	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(req.BasePrice)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(req.DurationMinutes); err != nil {
		return nil, err
	}

	created, err := s.excursionRepo.Create(ctx, &domain.Excursion{
		Name:            name,
		Description:     req.Description,
		BasePrice:       price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	})
	if err != nil {
		if errors.Is(err, excursionRepo.ErrDuplicateName) {
			s.logger.Warn("Create: excursion name=%q already exists", name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: created excursion id=%d", created.ID)
	return models.FromDomainExcursion(created), nil
}

// Update обновляет переданные поля экскурсии
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateExcursionRequest) (*models.ExcursionResponse, error) {
	s.logger.Info("Update: excursion id=%d", id)

	excursion, err := s.getExcursion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		excursion.Name = name
	}
	if req.Description != nil {
		excursion.Description = req.Description
	}
	if req.BasePrice != nil {
		price, err := parsePrice(*req.BasePrice)
		if err != nil {
			return nil, err
		}
		excursion.BasePrice = price
	}
	if req.DurationMinutes != nil {
		if err := validateDuration(*req.DurationMinutes); err != nil {
			return nil, err
		}
		excursion.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		excursion.IsActive = *req.IsActive
	}

	if err := s.excursionRepo.Update(ctx, excursion); err != nil {
		switch {
		case errors.Is(err, excursionRepo.ErrDuplicateName):
			return nil, ErrDuplicateName
		case errors.Is(err, excursionRepo.ErrExcursionNotFound):
			return nil, ErrExcursionNotFound
		}
		s.logger.Error("Update: repository error for excursion id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainExcursion(excursion), nil
}

// GetByID получает экскурсию
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ExcursionResponse, error) {
	excursion, err := s.getExcursion(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainExcursion(excursion), nil
}

// List список экскурсий
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*models.ExcursionResponse, error) {
	list, err := s.excursionRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainExcursionList(list), nil
}

func (s *Service) getExcursion(ctx context.Context, id int64) (*domain.Excursion, error) {
	excursion, err := s.excursionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, excursionRepo.ErrExcursionNotFound) {
			s.logger.Warn("excursion id=%d not found", id)
			return nil, ErrExcursionNotFound
		}
		s.logger.Error("repository error for excursion id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get excursion: %w", ErrInternal, err)
	}
	return excursion, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxExcursionNameLength {
		return "", fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	return name, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: base price must be a number", ErrInvalidInput)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: base price must not be negative", ErrInvalidInput)
	}
	return price.Round(2), nil
}

func validateDuration(minutes int) error {
	if minutes < domain.MinExcursionDurationMinutes || minutes > domain.MaxExcursionDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinExcursionDurationMinutes, domain.MaxExcursionDurationMinutes)
	}
	return nil
}
