package get_available_slots

import (
	"context"
	"fmt"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// UseCase use case для получения доступных для бронирования слотов
type UseCase struct {
	slotRepo      SlotRepository
	bookingRepo   BookingRepository
	excursionRepo ExcursionRepository
	timeProvider  TimeProvider
	rules         Rules
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	excursionRepo ExcursionRepository,
	rules Rules,
	logger Logger,
) *UseCase {
	if rules.SearchWindowDays <= 0 {
		rules.SearchWindowDays = domain.DefaultSearchWindowDays
	}
	return &UseCase{
		slotRepo:      slotRepo,
		bookingRepo:   bookingRepo,
		excursionRepo: excursionRepo,
		timeProvider:  &RealTimeProvider{},
		rules:         rules,
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, from=%s, days=%d, excursion=%v",
		req.UserID, req.From.Format(domain.DateFormat), req.Days, req.ExcursionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Период поиска
	from, to, err := searchWindow(req, uc.timeProvider.Now(), uc.rules)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 3. Экскурсии в продаже
	excursions, err := uc.excursionRepo.List(ctx, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list excursions: %v", err)
		return nil, fmt.Errorf("%w: failed to list excursions: %w", ErrInternal, err)
	}
	byID := make(map[int64]*domain.Excursion, len(excursions))
	for _, e := range excursions {
		byID[e.ID] = e
	}

	// 4. Запланированные слоты периода
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		From:        &from,
		To:          &to,
		ExcursionID: req.ExcursionID,
		Statuses:    []domain.SlotStatus{domain.SlotScheduled},
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
	}

	// 5. Занятость слотов одним запросом
	occupancy, err := uc.bookingRepo.OccupancyBySlots(ctx, slotIDs(slots))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupancy: %w", ErrInternal, err)
	}

	// 6. Остаток мест и веса
	result := buildSlots(slots, byID, occupancy)

	uc.logger.Info("GetAvailableSlots: found %d slots in [%s, %s)",
		len(result), from.Format(domain.DateTimeFormat), to.Format(domain.DateTimeFormat))

	return &Response{
		From:  from,
		To:    to,
		Slots: result,
	}, nil
}
