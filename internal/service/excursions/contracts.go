package excursions

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// ExcursionRepository интерфейс репозитория экскурсий
type ExcursionRepository interface {
	Create(ctx context.Context, excursion *domain.Excursion) (*domain.Excursion, error)
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Excursion, error)
	Update(ctx context.Context, excursion *domain.Excursion) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
