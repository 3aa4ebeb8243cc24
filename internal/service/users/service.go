package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
)

// linkTokenLength длина токена привязки (символов из UUID)
const linkTokenLength = 12

// Service сервис пользователей: регистрация, спутники, привязка чата по токену
type Service struct {
	userRepo     UserRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, notifier Notifier, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		userRepo:     userRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Register регистрирует владельца чата
// Повторная регистрация того же чата возвращает ErrAlreadyRegistered
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: chat=%s", req.ChatID)

	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}

	fullName, err := validateFullName(req.FullName)
	if err != nil {
		return nil, err
	}

	phone := normalizePhone(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if err := validateWeight(req.WeightKg); err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	_, err = s.userRepo.GetByChatID(ctx, chatID)
	if err == nil {
		s.logger.Warn("Register: chat=%s already registered", chatID)
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, userRepo.ErrUserNotFound) {
		s.logger.Error("Register: repository error for chat=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %w", ErrInternal, err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		ChatID:    &chatID,
		Role:      domain.RoleClient,
		FullName:  fullName,
		Phone:     &phone,
		BirthDate: birthDate,
		WeightKg:  req.WeightKg,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrChatAlreadyBound) {
			return nil, ErrAlreadyRegistered
		}
		s.logger.Error("Register: failed to create user for chat=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: Register - create user: %w", ErrInternal, err)
	}

	s.logger.Info("Register: created user id=%d for chat=%s", user.ID, chatID)
	return models.FromDomainUser(user), nil
}

// RegisterDependent регистрирует спутника (обычно ребенка) без своего чата
// Возвращает одноразовый токен, по которому спутник позже привяжет свой чат
func (s *Service) RegisterDependent(ctx context.Context, req *models.RegisterDependentRequest) (*models.DependentResponse, error) {
	s.logger.Info("RegisterDependent: proxy=%d", req.ProxyID)

	fullName, err := validateFullName(req.FullName)
	if err != nil {
		return nil, err
	}
	if err := validateWeight(req.WeightKg); err != nil {
		return nil, err
	}
	birthDate, err := parseBirthDate(req.BirthDate, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	proxy, err := s.userRepo.GetByID(ctx, req.ProxyID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("RegisterDependent: failed to get proxy=%d: %v", req.ProxyID, err)
		return nil, fmt.Errorf("%w: RegisterDependent - get proxy: %w", ErrInternal, err)
	}
	if proxy.IsVirtual {
		s.logger.Warn("RegisterDependent: virtual user=%d cannot register dependents", proxy.ID)
		return nil, ErrAccessDenied
	}

	token := newLinkToken()
	user, err := s.userRepo.Create(ctx, &domain.User{
		Role:        domain.RoleClient,
		FullName:    fullName,
		BirthDate:   birthDate,
		WeightKg:    req.WeightKg,
		IsVirtual:   true,
		LinkToken:   &token,
		CreatedByID: &proxy.ID,
	})
	if err != nil {
		s.logger.Error("RegisterDependent: failed to create dependent for proxy=%d: %v", proxy.ID, err)
		return nil, fmt.Errorf("%w: RegisterDependent - create user: %w", ErrInternal, err)
	}

	s.logger.Info("RegisterDependent: created virtual user id=%d by proxy=%d", user.ID, proxy.ID)
	return models.FromDomainDependent(user), nil
}

// LinkByToken привязывает чат к виртуальному пользователю
// Токен одноразовый, уже зарегистрированный чат привязать нельзя
func (s *Service) LinkByToken(ctx context.Context, chatID, token string) (*models.UserResponse, error) {
	s.logger.Info("LinkByToken: chat=%s", chatID)

	chatID = strings.TrimSpace(chatID)
	token = normalizeToken(token)
	if chatID == "" || token == "" {
		return nil, fmt.Errorf("%w: chat id and token are required", ErrInvalidInput)
	}

	var linked *domain.User
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Чат еще не должен быть зарегистрирован
		_, err := s.userRepo.GetByChatID(txCtx, chatID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, userRepo.ErrUserNotFound) {
			return fmt.Errorf("%w: LinkByToken - get by chat: %w", ErrInternal, err)
		}

		// 2. Находим виртуального пользователя по токену (строка блокируется)
		user, err := s.userRepo.GetByLinkToken(txCtx, token)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("%w: LinkByToken - get by token: %w", ErrInternal, err)
		}

		// 3. Привязываем чат и гасим токен
		if err := s.userRepo.LinkChat(txCtx, user.ID, chatID); err != nil {
			switch {
			case errors.Is(err, userRepo.ErrChatAlreadyBound):
				return ErrAlreadyRegistered
			case errors.Is(err, userRepo.ErrUserNotFound):
				return ErrTokenNotFound
			}
			return fmt.Errorf("%w: LinkByToken - link chat: %w", ErrInternal, err)
		}

		user.ChatID = &chatID
		user.IsVirtual = false
		user.LinkToken = nil
		linked = user
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("LinkByToken: chat=%s: %v", chatID, err)
		} else {
			s.logger.Warn("LinkByToken: chat=%s rejected: %v", chatID, err)
		}
		return nil, err
	}

	s.logger.Info("LinkByToken: chat=%s linked to user id=%d", chatID, linked.ID)
	s.notifier.AccountLinked(ctx, linked.ID, linked.FullName)

	return models.FromDomainUser(linked), nil
}

// GetByChatID получает пользователя по чату. Незарегистрированный чат - ErrNotRegistered
func (s *Service) GetByChatID(ctx context.Context, chatID string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrNotRegistered
		}
		s.logger.Error("GetByChatID: repository error for chat=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: GetByChatID - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

// GetByID получает пользователя по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetByID: repository error for user=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

// ListDependents спутники, зарегистрированные пользователем
func (s *Service) ListDependents(ctx context.Context, proxyID int64) ([]*models.DependentResponse, error) {
	users, err := s.userRepo.ListByCreator(ctx, proxyID)
	if err != nil {
		s.logger.Error("ListDependents: repository error for proxy=%d: %v", proxyID, err)
		return nil, fmt.Errorf("%w: ListDependents - repository error: %w", ErrInternal, err)
	}

	out := make([]*models.DependentResponse, len(users))
	for i, u := range users {
		out[i] = models.FromDomainDependent(u)
	}
	return out, nil
}

// UpdateProfile обновляет указанные поля анкеты
func (s *Service) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	s.logger.Info("UpdateProfile: user=%d", req.UserID)

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: UpdateProfile - get user: %w", ErrInternal, err)
	}

	if req.FullName != nil {
		name, err := validateFullName(*req.FullName)
		if err != nil {
			return nil, err
		}
		user.FullName = name
	}
	if req.Phone != nil {
		phone := normalizePhone(*req.Phone)
		user.Phone = &phone
	}
	if req.BirthDate != nil {
		birth, err := parseBirthDate(req.BirthDate, s.timeProvider.Now())
		if err != nil {
			return nil, err
		}
		user.BirthDate = birth
	}
	if req.WeightKg != nil {
		if err := validateWeight(req.WeightKg); err != nil {
			return nil, err
		}
		user.WeightKg = req.WeightKg
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		s.logger.Error("UpdateProfile: failed to update user=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

// SetRole меняет роль пользователя. Доступно только администратору
func (s *Service) SetRole(ctx context.Context, adminID, userID int64, role string) error {
	s.logger.Info("SetRole: admin=%d user=%d role=%s", adminID, userID, role)

	newRole := domain.UserRole(role)
	if !domain.ValidRole(newRole) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	if err := s.userRepo.UpdateRole(ctx, userID, newRole); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("SetRole: failed for user=%d: %v", userID, err)
		return fmt.Errorf("%w: SetRole - repository error: %w", ErrInternal, err)
	}

	return nil
}

// ListCaptains список капитанов
func (s *Service) ListCaptains(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.ListByRole(ctx, domain.RoleCaptain)
	if err != nil {
		s.logger.Error("ListCaptains: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListCaptains - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainUserList(users), nil
}

func (s *Service) requireAdmin(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: requireAdmin - get user: %w", ErrInternal, err)
	}
	if !user.IsAdmin() {
		s.logger.Warn("requireAdmin: user=%d is not admin", userID)
		return ErrAccessDenied
	}
	return nil
}

func newLinkToken() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:linkTokenLength])
}
