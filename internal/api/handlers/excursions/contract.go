package excursions

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions/models"
)

type ExcursionService interface {
	Create(ctx context.Context, req *models.CreateExcursionRequest) (*models.ExcursionResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateExcursionRequest) (*models.ExcursionResponse, error)
	GetByID(ctx context.Context, id int64) (*models.ExcursionResponse, error)
	List(ctx context.Context, activeOnly bool) ([]*models.ExcursionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
