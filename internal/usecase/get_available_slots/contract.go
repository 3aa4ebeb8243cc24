package get_available_slots

import (
	"context"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// List получает слоты по фильтру, отсортированные по времени начала
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// OccupancyBySlots суммирует занятые места и вес по слотам
	OccupancyBySlots(ctx context.Context, slotIDs []int64) (map[int64]capacity.Occupancy, error)
}

// ExcursionRepository интерфейс репозитория экскурсий
type ExcursionRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*domain.Excursion, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
