package domain

import "time"

// SlotStatus статус слота экскурсии
type SlotStatus string

const (
	SlotScheduled  SlotStatus = "scheduled"
	SlotInProgress SlotStatus = "in_progress"
	SlotCompleted  SlotStatus = "completed"
	SlotCancelled  SlotStatus = "cancelled"
)

// slotTransitions допустимые переходы статусов слота
var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotScheduled:  {SlotInProgress, SlotCancelled},
	SlotInProgress: {SlotCompleted, SlotCancelled},
}

// Slot запланированный выход экскурсии с ограничениями по людям и весу
type Slot struct {
	ID          int64
	ExcursionID int64
	CaptainID   *int64
	StartAt     time.Time
	EndAt       time.Time
	MaxPeople   int
	MaxWeightKg int // 0 = без ограничения по весу
	Status      SlotStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasWeightLimit у слота задан лимит суммарного веса пассажиров
func (s *Slot) HasWeightLimit() bool {
	return s.MaxWeightKg > 0
}

// IsBookable слот можно бронировать: он запланирован и до начала не меньше notice
func (s *Slot) IsBookable(now time.Time, notice time.Duration) bool {
	if s.Status != SlotScheduled {
		return false
	}
	return !s.StartAt.Before(now.Add(notice))
}

// IsFinal слот завершен или отменен, дальнейшие переходы невозможны
func (s *Slot) IsFinal() bool {
	return s.Status == SlotCompleted || s.Status == SlotCancelled
}

// CanTransitionTo проверяет допустимость перехода в новый статус
func (s *Slot) CanTransitionTo(next SlotStatus) bool {
	for _, allowed := range slotTransitions[s.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Duration длительность слота
func (s *Slot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// ValidSlotStatus проверяет строку статуса
func ValidSlotStatus(s SlotStatus) bool {
	switch s {
	case SlotScheduled, SlotInProgress, SlotCompleted, SlotCancelled:
		return true
	}
	return false
}

// SlotFilter фильтр для выборки слотов
type SlotFilter struct {
	From        *time.Time // начало слота >= From
	To          *time.Time // начало слота < To
	ExcursionID *int64
	CaptainID   *int64
	Statuses    []SlotStatus
}
