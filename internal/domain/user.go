package domain

import "time"

// UserRole роль пользователя
type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleCaptain UserRole = "captain"
	RoleAdmin   UserRole = "admin"
)

// User клиент, капитан или администратор
// Виртуальный пользователь (IsVirtual) зарегистрирован другим человеком (CreatedByID),
// не имеет своего чата и может привязать его по одноразовому LinkToken
type User struct {
	ID          int64
	ChatID      *string
	Role        UserRole
	FullName    string
	Phone       *string
	BirthDate   *time.Time
	WeightKg    *int
	IsVirtual   bool
	LinkToken   *string
	CreatedByID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsCaptain() bool {
	return u.Role == RoleCaptain
}

// CanReceiveMessages пользователю можно отправить сообщение в чат
func (u *User) CanReceiveMessages() bool {
	return !u.IsVirtual && u.ChatID != nil && *u.ChatID != ""
}

// IsDependentOf пользователь зарегистрирован через указанного пользователя
func (u *User) IsDependentOf(proxyID int64) bool {
	return u.CreatedByID != nil && *u.CreatedByID == proxyID
}

// ValidRole проверяет строку роли
func ValidRole(r UserRole) bool {
	switch r {
	case RoleClient, RoleCaptain, RoleAdmin:
		return true
	}
	return false
}
