package users

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
)

type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.UserResponse, error)
	RegisterDependent(ctx context.Context, req *models.RegisterDependentRequest) (*models.DependentResponse, error)
	ListDependents(ctx context.Context, proxyID int64) ([]*models.DependentResponse, error)
	SetRole(ctx context.Context, adminID, userID int64, role string) error
	ListCaptains(ctx context.Context) ([]*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
