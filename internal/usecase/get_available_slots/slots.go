package get_available_slots

import (
	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// buildSlots собирает ответ по слотам активных экскурсий
// Заполненные слоты не скрываются, а помечаются IsFull
func buildSlots(
	slots []*domain.Slot,
	excursions map[int64]*domain.Excursion,
	occupancy map[int64]capacity.Occupancy,
) []Slot {
	result := make([]Slot, 0, len(slots))

	for _, s := range slots {
		excursion, ok := excursions[s.ExcursionID]
		if !ok {
			// экскурсия снята с продажи
			continue
		}

		availability := capacity.Calculate(s, occupancy[s.ID])

		result = append(result, Slot{
			SlotID:        s.ID,
			ExcursionID:   s.ExcursionID,
			ExcursionName: excursion.Name,
			StartAt:       s.StartAt,
			EndAt:         s.EndAt,
			Price:         excursion.BasePrice,
			MaxPeople:     s.MaxPeople,
			SeatsLeft:     availability.SeatsLeft,
			WeightLimited: availability.WeightLimited,
			WeightLeftKg:  availability.WeightLeftKg,
			IsFull:        availability.IsFull(),
			HasCaptain:    s.CaptainID != nil,
		})
	}

	return result
}

func slotIDs(slots []*domain.Slot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
