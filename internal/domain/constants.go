package domain

// Значения по умолчанию для правил бронирования
const (
	DefaultMinBookingNoticeMinutes  = 60
	DefaultCancelDeadlineHours      = 24
	DefaultPassengerWeightKg        = 75
	DefaultMaxPassengersPerBooking  = 10
	DefaultSearchWindowDays         = 7
	DefaultExcursionDurationMinutes = 60
)

// Ограничения бизнес-валидации
const (
	MinExcursionDurationMinutes = 15
	MaxExcursionDurationMinutes = 1440 // сутки
	MaxExcursionNameLength      = 200
	MaxSlotPeople               = 200
	MaxSlotWeightKg             = 20000
	MinPassengerWeightKg        = 1
	MaxPassengerWeightKg        = 300
	MaxFullNameLength           = 200
	MaxCancellationReasonLength = 500
	MaxPromoCodeLength          = 32
	MaxExpenseCategoryLength    = 100
)

// Форматы дат
const (
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	TimeFormat     = "15:04"            // HH:MM
	DateTimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)

// OccupyingStatuses статусы бронирований, которые занимают места в слоте
// Используется при подсчёте свободных мест и веса
var OccupyingStatuses = []BookingStatus{
	BookingActive,
	BookingCompleted,
}

// ReleasedStatuses статусы бронирований, освободивших места
var ReleasedStatuses = []BookingStatus{
	BookingCancelled,
	BookingNoShow,
}
