package promocodes

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/promocodes/models"
)

type PromoCodeService interface {
	Create(ctx context.Context, req *models.CreatePromoCodeRequest) (*models.PromoCodeResponse, error)
	Deactivate(ctx context.Context, code string) error
	List(ctx context.Context, activeOnly bool) ([]*models.PromoCodeResponse, error)
	Check(ctx context.Context, code string) (*models.PromoCodeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
