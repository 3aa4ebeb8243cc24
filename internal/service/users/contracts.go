package users

import (
	"context"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByChatID(ctx context.Context, chatID string) (*domain.User, error)
	GetByLinkToken(ctx context.Context, token string) (*domain.User, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id int64, role domain.UserRole) error
	LinkChat(ctx context.Context, id int64, chatID string) error
}

// Notifier уведомления пользователям
type Notifier interface {
	AccountLinked(ctx context.Context, userID int64, fullName string) domain.NotificationStatus
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
