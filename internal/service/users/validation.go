package users

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
)

func validateFullName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxFullNameLength {
		return "", fmt.Errorf("%w: full name is too long", ErrInvalidInput)
	}
	return name, nil
}

func validateWeight(weight *int) error {
	if weight == nil {
		return nil
	}
	if *weight < domain.MinPassengerWeightKg || *weight > domain.MaxPassengerWeightKg {
		return fmt.Errorf("%w: weight must be between %d and %d kg",
			ErrInvalidInput, domain.MinPassengerWeightKg, domain.MaxPassengerWeightKg)
	}
	return nil
}

// parseBirthDate разбирает дату рождения, она не может быть в будущем
func parseBirthDate(s *string, now time.Time) (*time.Time, error) {
	birth, err := models.ParseBirthDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: birth date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if birth != nil && birth.After(now) {
		return nil, fmt.Errorf("%w: birth date is in the future", ErrInvalidInput)
	}
	return birth, nil
}

func normalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// normalizeToken приводит токен к виду, в котором он хранится
func normalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
