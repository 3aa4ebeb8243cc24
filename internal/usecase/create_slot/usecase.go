package create_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
)

// UseCase use case для создания слота экскурсии
type UseCase struct {
	slotRepo      SlotRepository
	excursionRepo ExcursionRepository
	userRepo      UserRepository
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	excursionRepo ExcursionRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		excursionRepo: excursionRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания слота
// Проверка пересечений и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSlot: excursion=%d, start=%s, captain=%v, maxPeople=%d, maxWeight=%d",
		req.ExcursionID, req.StartAt.Format(domain.DateTimeFormat), req.CaptainID, req.MaxPeople, req.MaxWeightKg)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Слот создается только в будущем
	if !req.StartAt.After(uc.timeProvider.Now()) {
		return nil, ErrStartInPast
	}

	// 3. Экскурсия
	excursion, err := uc.excursionRepo.GetByID(ctx, req.ExcursionID)
	if err != nil {
		if errors.Is(err, excursionRepo.ErrExcursionNotFound) {
			return nil, ErrExcursionNotFound
		}
		uc.logger.Error("CreateSlot: failed to get excursion id=%d: %v", req.ExcursionID, err)
		return nil, fmt.Errorf("%w: failed to get excursion: %w", ErrInternal, err)
	}
	if !excursion.IsActive {
		return nil, ErrExcursionInactive
	}

	// 4. Капитан должен иметь роль captain
	if req.CaptainID != nil {
		captain, err := uc.userRepo.GetByID(ctx, *req.CaptainID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return nil, ErrCaptainNotFound
			}
			uc.logger.Error("CreateSlot: failed to get captain id=%d: %v", *req.CaptainID, err)
			return nil, fmt.Errorf("%w: failed to get captain: %w", ErrInternal, err)
		}
		if !captain.IsCaptain() {
			uc.logger.Warn("CreateSlot: user id=%d has role %s", captain.ID, captain.Role)
			return nil, ErrCaptainNotFound
		}
	}

	end := slotEnd(req, excursion)

	// 5. Проверка пересечений и создание
	var created *domain.Slot
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		conflicts, err := uc.slotRepo.FindOverlapping(txCtx, req.StartAt, end, excursion.ID, req.CaptainID, 0)
		if err != nil {
			return fmt.Errorf("%w: failed to find overlapping slots: %w", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: slot id=%d %s - %s", ErrSlotConflict, conflicts[0].ID,
				conflicts[0].StartAt.Format(domain.DateTimeFormat), conflicts[0].EndAt.Format(domain.TimeFormat))
		}

		created, err = uc.slotRepo.Create(txCtx, &domain.Slot{
			ExcursionID: excursion.ID,
			CaptainID:   req.CaptainID,
			StartAt:     req.StartAt,
			EndAt:       end,
			MaxPeople:   req.MaxPeople,
			MaxWeightKg: req.MaxWeightKg,
			Status:      domain.SlotScheduled,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create slot: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateSlot: %v", err)
		} else {
			uc.logger.Warn("CreateSlot: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateSlot: created slot id=%d for excursion id=%d", created.ID, excursion.ID)

	return &Response{
		SlotID:        created.ID,
		ExcursionID:   created.ExcursionID,
		ExcursionName: excursion.Name,
		CaptainID:     created.CaptainID,
		StartAt:       created.StartAt,
		EndAt:         created.EndAt,
		MaxPeople:     created.MaxPeople,
		MaxWeightKg:   created.MaxWeightKg,
		Status:        string(created.Status),
	}, nil
}
