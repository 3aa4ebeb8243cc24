package notifications

import (
	"context"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// Service отправляет уведомления пользователям и пишет их в журнал
// Ошибки доставки и записи журнала только логируются
type Service struct {
	userRepo         UserRepository
	notificationRepo NotificationRepository
	sender           Sender
	logger           Logger
	loc              *time.Location
}

// NewService создает сервис уведомлений. sender может быть nil (бот выключен)
func NewService(userRepo UserRepository, notificationRepo NotificationRepository, sender Sender, logger Logger) *Service {
	return &Service{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		sender:           sender,
		logger:           logger,
		loc:              time.UTC,
	}
}

// SetSender подключает отправителя после старта бота
func (s *Service) SetSender(sender Sender) {
	s.sender = sender
}

// Notify отправляет сообщение пользователю и возвращает итоговый статус
func (s *Service) Notify(ctx context.Context, userID int64, kind domain.NotificationKind, message string) domain.NotificationStatus {
	status := s.deliver(ctx, userID, kind, message)

	_, err := s.notificationRepo.Create(ctx, &domain.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		Status:  status,
	})
	if err != nil {
		s.logger.Error("Notify: failed to record notification user=%d kind=%s: %v", userID, kind, err)
	}

	return status
}

func (s *Service) deliver(ctx context.Context, userID int64, kind domain.NotificationKind, message string) domain.NotificationStatus {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Notify: user=%d not loaded: %v", userID, err)
		return domain.NotificationFailed
	}

	if !user.CanReceiveMessages() || s.sender == nil {
		s.logger.Info("Notify: user=%d has no chat, kind=%s skipped", userID, kind)
		return domain.NotificationSkipped
	}

	if err := s.sender.Send(ctx, *user.ChatID, message); err != nil {
		s.logger.Warn("Notify: send to user=%d failed: %v", userID, err)
		return domain.NotificationFailed
	}

	s.logger.Info("Notify: sent kind=%s to user=%d", kind, userID)
	return domain.NotificationSent
}
