package models

import (
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// Request модели

// RegisterRequest регистрация владельца чата
type RegisterRequest struct {
	ChatID    string  `json:"chatId"`
	FullName  string  `json:"fullName"`
	Phone     string  `json:"phone"`
	BirthDate *string `json:"birthDate,omitempty"` // "2010-05-20"
	WeightKg  *int    `json:"weightKg,omitempty"`
}

// RegisterDependentRequest регистрация ребенка/спутника без собственного чата
type RegisterDependentRequest struct {
	ProxyID   int64   `json:"proxyId"`
	FullName  string  `json:"fullName"`
	BirthDate *string `json:"birthDate,omitempty"`
	WeightKg  *int    `json:"weightKg,omitempty"`
}

// UpdateProfileRequest частичное обновление анкеты
type UpdateProfileRequest struct {
	UserID    int64   `json:"userId"`
	FullName  *string `json:"fullName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	WeightKg  *int    `json:"weightKg,omitempty"`
}

// Response модели

// UserResponse данные пользователя
type UserResponse struct {
	ID          int64   `json:"id"`
	ChatID      *string `json:"chatId,omitempty"`
	Role        string  `json:"role"`
	FullName    string  `json:"fullName"`
	Phone       *string `json:"phone,omitempty"`
	BirthDate   *string `json:"birthDate,omitempty"`
	WeightKg    *int    `json:"weightKg,omitempty"`
	IsVirtual   bool    `json:"isVirtual"`
	CreatedByID *int64  `json:"createdById,omitempty"`
}

// DependentResponse зарегистрированный спутник и его токен привязки
type DependentResponse struct {
	User      *UserResponse `json:"user"`
	LinkToken *string       `json:"linkToken,omitempty"`
}

// Конвертеры

// FromDomainUser конвертирует domain.User в UserResponse
func FromDomainUser(u *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		ChatID:      u.ChatID,
		Role:        string(u.Role),
		FullName:    u.FullName,
		Phone:       u.Phone,
		WeightKg:    u.WeightKg,
		IsVirtual:   u.IsVirtual,
		CreatedByID: u.CreatedByID,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(domain.DateFormat)
		resp.BirthDate = &d
	}
	return resp
}

// FromDomainDependent конвертирует виртуального пользователя вместе с токеном
func FromDomainDependent(u *domain.User) *DependentResponse {
	return &DependentResponse{
		User:      FromDomainUser(u),
		LinkToken: u.LinkToken,
	}
}

// FromDomainUserList конвертирует список пользователей
func FromDomainUserList(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = FromDomainUser(u)
	}
	return out
}

// ParseBirthDate разбирает дату рождения в формате YYYY-MM-DD
func ParseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
