package get_available_slots

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID      int64     // ID пользователя (для логирования, не влияет на результат)
	From        time.Time // начало периода (нулевое значение = сейчас)
	Days        int       // длина периода в днях (0 = из конфигурации)
	ExcursionID *int64    // только слоты одной экскурсии (опционально)
}

// Rules правила поиска из конфигурации
type Rules struct {
	MinBookingNotice time.Duration
	SearchWindowDays int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	From  time.Time // фактическое начало периода
	To    time.Time // конец периода (не включительно)
	Slots []Slot
}

// Slot слот с остатком мест и веса
type Slot struct {
	SlotID        int64
	ExcursionID   int64
	ExcursionName string
	StartAt       time.Time
	EndAt         time.Time
	Price         decimal.Decimal // базовая цена за человека
	MaxPeople     int
	SeatsLeft     int
	WeightLimited bool
	WeightLeftKg  int // имеет смысл только при WeightLimited
	IsFull        bool
	HasCaptain    bool
}
