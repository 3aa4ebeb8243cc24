package bot

import (
	"errors"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/reports"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

const msgHelp = `Команды:
/register ФИО; телефон; [дата рождения ГГГГ-ММ-ДД]; [вес кг] - регистрация
/child ФИО; [дата рождения]; [вес кг] - добавить спутника (ребенка)
/children - мои спутники и их токены
/link токен - привязать этот чат к записи, созданной другим человеком
/slots [ГГГГ-ММ-ДД] - свободные выходы на неделю
/price слот [промокод] [ID пассажиров...] - рассчитать стоимость
/book слот [промокод] [ID пассажиров...] - забронировать
/mybookings - мои брони
/cancel бронь [причина] - отменить бронь`

const msgAdminHelp = `
/report ГГГГ-ММ-ДД ГГГГ-ММ-ДД - выручка за период
/payroll ГГГГ-ММ-ДД ГГГГ-ММ-ДД - зарплаты капитанов
/slotbookings слот - брони на выход`

const (
	msgGreeting        = "Здравствуйте! Здесь можно записаться на морские экскурсии."
	msgNotRegistered   = "Сначала зарегистрируйтесь: /register ФИО; телефон"
	msgInternal        = "Что-то пошло не так. Попробуйте позже."
	msgAdminOnly       = "Команда доступна только администратору."
	msgNoSlots         = "Свободных выходов на эти даты нет."
	msgNoBookings      = "Броней пока нет."
	msgNoDependents    = "Спутников пока нет. Добавьте: /child ФИО; дата рождения; вес"
	msgUsageRegister   = "Формат: /register ФИО; телефон; [ГГГГ-ММ-ДД]; [вес]"
	msgUsageChild      = "Формат: /child ФИО; [ГГГГ-ММ-ДД]; [вес]"
	msgUsageLink       = "Формат: /link токен"
	msgUsageSlots      = "Формат: /slots [ГГГГ-ММ-ДД]"
	msgUsageBook       = "Формат: /book слот [промокод] [ID пассажиров...]"
	msgUsagePrice      = "Формат: /price слот [промокод] [ID пассажиров...]"
	msgUsageCancel     = "Формат: /cancel бронь [причина]"
	msgUsagePeriod     = "Формат: /report ГГГГ-ММ-ДД ГГГГ-ММ-ДД"
	msgUsageSlot       = "Формат: /slotbookings слот"
	msgRegistered      = "Готово, %s, вы зарегистрированы. /slots - посмотреть выходы."
	msgLinked          = "Чат привязан к записи %s."
	msgDependentAdded  = "Спутник %s добавлен (ID %d). Токен для привязки его собственного чата: %s"
	msgBookingCreated  = "Бронь №%d создана. К оплате %s руб. Осталось мест: %d."
	msgBookingCanceled = "Бронь №%d отменена. Возврат: %s руб."
)

// errorReply текст ответа пользователю для известной ошибки
// Второе значение false, если ошибка не распознана
func errorReply(err error) (string, bool) {
	switch {
	case errors.Is(err, users.ErrNotRegistered):
		return msgNotRegistered, true
	case errors.Is(err, users.ErrAlreadyRegistered):
		return "Этот чат уже зарегистрирован.", true
	case errors.Is(err, users.ErrTokenNotFound):
		return "Токен не найден или уже использован.", true
	case errors.Is(err, users.ErrUserNotFound):
		return "Пользователь не найден.", true
	case errors.Is(err, users.ErrInvalidInput):
		return "Проверьте данные: ФИО, телефон, дата ГГГГ-ММ-ДД, вес в килограммах.", true
	case errors.Is(err, users.ErrAccessDenied), errors.Is(err, bookings.ErrAccessDenied):
		return "Недостаточно прав.", true

	case errors.Is(err, getAvailableSlots.ErrInvalidDate):
		return "Эта дата уже прошла.", true
	case errors.Is(err, getAvailableSlots.ErrWindowTooLong), errors.Is(err, getAvailableSlots.ErrInvalidInput):
		return msgUsageSlots, true

	case errors.Is(err, createBooking.ErrSlotNotFound), errors.Is(err, bookings.ErrSlotNotFound):
		return "Выход не найден.", true
	case errors.Is(err, createBooking.ErrSlotNotBookable):
		return "На этот выход запись закрыта.", true
	case errors.Is(err, createBooking.ErrTooLateToBook):
		return "Слишком поздно: до выхода осталось меньше допустимого времени.", true
	case errors.Is(err, createBooking.ErrExcursionInactive):
		return "Экскурсия снята с продажи.", true
	case errors.Is(err, createBooking.ErrHolderNotFound):
		return msgNotRegistered, true
	case errors.Is(err, createBooking.ErrPassengerNotFound):
		return "Пассажир с таким ID не найден.", true
	case errors.Is(err, createBooking.ErrPassengerNotAllowed):
		return "Можно записывать только себя и своих спутников (/children).", true
	case errors.Is(err, createBooking.ErrAlreadyBooked):
		return "У вас или пассажира уже есть бронь на этот выход.", true
	case errors.Is(err, createBooking.ErrNotEnoughSeats):
		return "Недостаточно свободных мест.", true
	case errors.Is(err, createBooking.ErrWeightExceeded):
		return "Превышен допустимый вес группы для этого выхода.", true
	case errors.Is(err, createBooking.ErrPromoInvalid):
		return "Промокод недействителен.", true
	case errors.Is(err, createBooking.ErrPromoExpired):
		return "Срок действия промокода истек.", true
	case errors.Is(err, createBooking.ErrPromoExhausted):
		return "Промокод больше не действует.", true
	case errors.Is(err, createBooking.ErrInvalidInput):
		return msgUsageBook, true

	case errors.Is(err, bookings.ErrBookingNotFound):
		return "Бронь не найдена.", true
	case errors.Is(err, bookings.ErrCannotCancel):
		return "Эту бронь уже нельзя отменить.", true
	case errors.Is(err, bookings.ErrCancelDeadlinePassed):
		return "Срок отмены прошел. Свяжитесь с администратором.", true

	case errors.Is(err, reports.ErrInvalidPeriod):
		return "Начало периода должно быть раньше конца.", true
	}
	return "", false
}
