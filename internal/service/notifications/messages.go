package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// SetLocation задает часовой пояс, в котором время выводится в сообщениях
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

func (s *Service) formatTime(t time.Time) string {
	return t.In(s.loc).Format(domain.DateTimeFormat)
}

// BookingCreated сообщение держателю о новой брони
func (s *Service) BookingCreated(ctx context.Context, userID, bookingID int64, excursionName string, startAt time.Time, people int, total decimal.Decimal) domain.NotificationStatus {
	msg := fmt.Sprintf("Бронь №%d подтверждена: %s, %s. Пассажиров: %d. К оплате: %s руб.",
		bookingID, excursionName, s.formatTime(startAt), people, total.StringFixed(2))
	return s.Notify(ctx, userID, domain.NotifyBookingCreated, msg)
}

// BookingCancelled сообщение держателю об отмене брони
func (s *Service) BookingCancelled(ctx context.Context, userID, bookingID int64, startAt time.Time, reason string, refunded decimal.Decimal) domain.NotificationStatus {
	msg := fmt.Sprintf("Бронь №%d на %s отменена.", bookingID, s.formatTime(startAt))
	if reason != "" {
		msg += " Причина: " + reason + "."
	}
	if refunded.IsPositive() {
		msg += fmt.Sprintf(" Возврат: %s руб.", refunded.StringFixed(2))
	}
	return s.Notify(ctx, userID, domain.NotifyBookingCancelled, msg)
}

// SlotCancelled сообщение держателю брони об отмене рейса
func (s *Service) SlotCancelled(ctx context.Context, userID, bookingID int64, excursionName string, startAt time.Time, refunded decimal.Decimal) domain.NotificationStatus {
	msg := fmt.Sprintf("Экскурсия «%s» %s отменена, бронь №%d аннулирована.",
		excursionName, s.formatTime(startAt), bookingID)
	if refunded.IsPositive() {
		msg += fmt.Sprintf(" Возврат: %s руб.", refunded.StringFixed(2))
	}
	return s.Notify(ctx, userID, domain.NotifySlotCancelled, msg)
}

// PaymentReceived сообщение об оплате
func (s *Service) PaymentReceived(ctx context.Context, userID, bookingID int64, amount decimal.Decimal, fullyPaid bool) domain.NotificationStatus {
	msg := fmt.Sprintf("Получена оплата %s руб. по брони №%d.", amount.StringFixed(2), bookingID)
	if fullyPaid {
		msg += " Бронь полностью оплачена."
	}
	return s.Notify(ctx, userID, domain.NotifyPaymentReceived, msg)
}

// AccountLinked сообщение о привязке аккаунта по токену
func (s *Service) AccountLinked(ctx context.Context, userID int64, fullName string) domain.NotificationStatus {
	msg := fmt.Sprintf("%s, ваш аккаунт привязан. Теперь брони будут приходить в этот чат.", fullName)
	return s.Notify(ctx, userID, domain.NotifyAccountLinked, msg)
}
