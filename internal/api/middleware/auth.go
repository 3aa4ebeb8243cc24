package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users"
	usersModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
)

// UserIDHeader заголовок с ID пользователя, выставляется шлюзом бота/админки
const UserIDHeader = "X-User-ID"

const (
	msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"
	msgUnknownUser   = "пользователь не найден"
	msgForbidden     = "доступ запрещен"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
)

// UserLookup источник данных о пользователе
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*usersModels.UserResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth извлекает ID пользователя из заголовка X-User-ID
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// RequireRole пропускает только пользователей с одной из ролей
// Должен стоять после Auth
func RequireRole(lookup UserLookup, logger Logger, roles ...domain.UserRole) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			user, err := lookup.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, users.ErrUserNotFound) {
					logger.Warn("%s %s - unknown user id=%d", r.Method, r.URL.Path, userID)
					handlers.RespondUnauthorized(w, msgUnknownUser)
					return
				}
				logger.Error("%s %s - failed to load user id=%d: %v", r.Method, r.URL.Path, userID, err)
				handlers.RespondInternalError(w)
				return
			}

			role := domain.UserRole(user.Role)
			if !hasRole(role, roles) {
				logger.Warn("%s %s - access denied: user id=%d role=%s", r.Method, r.URL.Path, userID, role)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userRoleKey, role)))
		})
	}
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole возвращает роль пользователя, проверенную RequireRole
func GetUserRole(ctx context.Context) (domain.UserRole, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.UserRole)
	return role, ok
}

func hasRole(role domain.UserRole, allowed []domain.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
