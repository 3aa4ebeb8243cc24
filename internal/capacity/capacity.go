package capacity

import (
	"fmt"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// Occupancy занятые места и вес в слоте
type Occupancy struct {
	People   int
	WeightKg int
}

// Availability остаток мест и веса в слоте
type Availability struct {
	MaxPeople      int
	MaxWeightKg    int // 0 = без ограничения
	BookedPeople   int
	BookedWeightKg int
	SeatsLeft      int
	WeightLeftKg   int // имеет смысл только при WeightLimited
	WeightLimited  bool
}

// Occupy суммирует людей и вес по бронированиям, занимающим места (active, completed)
func Occupy(bookings []*domain.Booking) Occupancy {
	var o Occupancy
	for _, b := range bookings {
		if !b.OccupiesSlot() {
			continue
		}
		o.People += b.PeopleCount
		o.WeightKg += b.TotalWeightKg
	}
	return o
}

// Calculate считает остаток мест и веса для слота по уже занятому
func Calculate(slot *domain.Slot, occupied Occupancy) Availability {
	a := Availability{
		MaxPeople:      slot.MaxPeople,
		MaxWeightKg:    slot.MaxWeightKg,
		BookedPeople:   occupied.People,
		BookedWeightKg: occupied.WeightKg,
		SeatsLeft:      slot.MaxPeople - occupied.People,
		WeightLimited:  slot.HasWeightLimit(),
	}
	if a.SeatsLeft < 0 {
		a.SeatsLeft = 0
	}

	if a.WeightLimited {
		a.WeightLeftKg = slot.MaxWeightKg - occupied.WeightKg
		if a.WeightLeftKg < 0 {
			a.WeightLeftKg = 0
		}
	}

	return a
}

// IsFull свободных мест нет
func (a Availability) IsFull() bool {
	return a.SeatsLeft <= 0
}

// CanFit проверяет, поместится ли группа из people человек общим весом weightKg
func (a Availability) CanFit(people, weightKg int) error {
	if people > a.SeatsLeft {
		return fmt.Errorf("%w: requested %d, left %d", ErrNotEnoughSeats, people, a.SeatsLeft)
	}
	if a.WeightLimited && weightKg > a.WeightLeftKg {
		return fmt.Errorf("%w: requested %d kg, left %d kg", ErrWeightExceeded, weightKg, a.WeightLeftKg)
	}
	return nil
}

// Overlaps проверяет пересечение интервалов [aStart, aEnd) и [bStart, bEnd)
// Граничащие интервалы (конец одного равен началу другого) не пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflicts возвращает неотменённые слоты, пересекающиеся с [start, end)
// Слот с excludeID (редактируемый) пропускается
func FindConflicts(start, end time.Time, slots []*domain.Slot, excludeID int64) []*domain.Slot {
	conflicts := make([]*domain.Slot, 0)
	for _, s := range slots {
		if s.ID == excludeID || s.Status == domain.SlotCancelled {
			continue
		}
		if Overlaps(start, end, s.StartAt, s.EndAt) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}
