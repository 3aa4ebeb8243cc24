package create_slot

import "time"

// Request модель запроса на создание слота
type Request struct {
	ExcursionID int64
	StartAt     time.Time
	EndAt       *time.Time // nil = начало + длительность экскурсии
	MaxPeople   int
	MaxWeightKg int // 0 = без ограничения
	CaptainID   *int64
}

// Response созданный слот
type Response struct {
	SlotID        int64
	ExcursionID   int64
	ExcursionName string
	CaptainID     *int64
	StartAt       time.Time
	EndAt         time.Time
	MaxPeople     int
	MaxWeightKg   int
	Status        string
}
