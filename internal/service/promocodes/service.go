package promocodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	promoRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/promocode"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/promocodes/models"
)

var hundred = decimal.NewFromInt(100)

// Service сервис управления промокодами
type Service struct {
	promoRepo    PromoCodeRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса промокодов
func NewService(promoRepo PromoCodeRepository, logger Logger) *Service {
	return &Service{
		promoRepo:    promoRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create заводит новый промокод
func (s *Service) Create(ctx context.Context, req *models.CreatePromoCodeRequest) (*models.PromoCodeResponse, error) {
	code := domain.NormalizePromoCode(req.Code)
	s.logger.Info("Create: promo code=%s type=%s value=%s", code, req.DiscountType, req.DiscountValue)

	promo, err := s.buildPromo(code, req)
	if err != nil {
		s.logger.Warn("Create: invalid promo code=%s: %v", code, err)
		return nil, err
	}

	created, err := s.promoRepo.Create(ctx, promo)
	if err != nil {
		if errors.Is(err, promoRepo.ErrDuplicateCode) {
			s.logger.Warn("Create: promo code=%s already exists", code)
			return nil, ErrPromoExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: created promo code id=%d", created.ID)
	return models.FromDomainPromoCode(created), nil
}

// Deactivate отключает промокод
func (s *Service) Deactivate(ctx context.Context, code string) error {
	code = domain.NormalizePromoCode(code)
	s.logger.Info("Deactivate: promo code=%s", code)

	if err := s.promoRepo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			return ErrPromoNotFound
		}
		s.logger.Error("Deactivate: repository error for code=%s: %v", code, err)
		return fmt.Errorf("%w: Deactivate - repository error: %w", ErrInternal, err)
	}
	return nil
}

// List список промокодов
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*models.PromoCodeResponse, error) {
	list, err := s.promoRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainPromoCodeList(list), nil
}

// Check проверяет, что промокод можно применить сейчас, не расходуя его
func (s *Service) Check(ctx context.Context, code string) (*models.PromoCodeResponse, error) {
	code = domain.NormalizePromoCode(code)

	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			return nil, ErrPromoNotFound
		}
		s.logger.Error("Check: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: Check - repository error: %w", ErrInternal, err)
	}

	if err := pricing.CheckPromo(promo, s.timeProvider.Now()); err != nil {
		s.logger.Info("Check: promo code=%s rejected: %v", code, err)
		return nil, MapPromoError(err)
	}
	return models.FromDomainPromoCode(promo), nil
}

// MapPromoError переводит ошибки проверки промокода в ошибки сервиса
func MapPromoError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrPromoExpired):
		return ErrPromoExpired
	case errors.Is(err, pricing.ErrPromoExhausted), errors.Is(err, promoRepo.ErrUsageLimitReached):
		return ErrPromoExhausted
	case errors.Is(err, pricing.ErrPromoInactive), errors.Is(err, pricing.ErrPromoNotStarted):
		return ErrPromoInvalid
	case errors.Is(err, promoRepo.ErrPromoNotFound):
		return ErrPromoNotFound
	}
	return err
}

func (s *Service) buildPromo(code string, req *models.CreatePromoCodeRequest) (*domain.PromoCode, error) {
	if code == "" || utf8.RuneCountInString(code) > domain.MaxPromoCodeLength || strings.ContainsAny(code, " \t") {
		return nil, fmt.Errorf("%w: code must be a single word up to %d characters", ErrInvalidInput, domain.MaxPromoCodeLength)
	}

	discountType := domain.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType)))
	if !domain.ValidDiscountType(discountType) {
		return nil, fmt.Errorf("%w: discount type must be percent or fixed", ErrInvalidInput)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(req.DiscountValue))
	if err != nil || !value.IsPositive() {
		return nil, fmt.Errorf("%w: discount value must be positive", ErrInvalidInput)
	}
	if discountType == domain.DiscountPercent && value.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: percent discount must not exceed 100", ErrInvalidInput)
	}

	validFrom := s.timeProvider.Now()
	if req.ValidFrom != nil {
		validFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil && !req.ValidUntil.After(validFrom) {
		return nil, fmt.Errorf("%w: validUntil must be after validFrom", ErrInvalidInput)
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return nil, fmt.Errorf("%w: usage limit must be positive", ErrInvalidInput)
	}

	return &domain.PromoCode{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value.Round(2),
		ValidFrom:     validFrom,
		ValidUntil:    req.ValidUntil,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
	}, nil
}
