package capacity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

func TestOccupy_SkipsReleasedBookings(t *testing.T) {
	bookings := []*domain.Booking{
		{Status: domain.BookingActive, PeopleCount: 3, TotalWeightKg: 200},
		{Status: domain.BookingCompleted, PeopleCount: 1, TotalWeightKg: 90},
		{Status: domain.BookingCancelled, PeopleCount: 4, TotalWeightKg: 300},
		{Status: domain.BookingNoShow, PeopleCount: 2, TotalWeightKg: 150},
	}

	o := Occupy(bookings)

	assert.Equal(t, 4, o.People)
	assert.Equal(t, 290, o.WeightKg)
}

func TestCalculate_AndCanFit(t *testing.T) {
	slot := &domain.Slot{MaxPeople: 10, MaxWeightKg: 800}

	a := Calculate(slot, Occupancy{People: 8, WeightKg: 650})

	assert.Equal(t, 2, a.SeatsLeft)
	assert.Equal(t, 150, a.WeightLeftKg)
	assert.False(t, a.IsFull())

	require.NoError(t, a.CanFit(2, 150))
	assert.ErrorIs(t, a.CanFit(3, 100), ErrNotEnoughSeats)
	assert.ErrorIs(t, a.CanFit(2, 151), ErrWeightExceeded)
}

func TestCalculate_NoWeightLimit(t *testing.T) {
	slot := &domain.Slot{MaxPeople: 4}

	a := Calculate(slot, Occupancy{People: 1, WeightKg: 5000})

	assert.False(t, a.WeightLimited)
	assert.NoError(t, a.CanFit(3, 100000))
}

func TestCalculate_Overbooked(t *testing.T) {
	slot := &domain.Slot{MaxPeople: 4, MaxWeightKg: 300}

	a := Calculate(slot, Occupancy{People: 6, WeightKg: 400})

	assert.Equal(t, 0, a.SeatsLeft)
	assert.Equal(t, 0, a.WeightLeftKg)
	assert.True(t, a.IsFull())
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 7, 1, h, m, 0, 0, time.UTC) }

	// Слот 11:30-12:00
	assert.True(t, Overlaps(at(11, 30), at(12, 0), at(11, 20), at(11, 40)))
	assert.True(t, Overlaps(at(11, 30), at(12, 0), at(11, 0), at(13, 0)))
	assert.False(t, Overlaps(at(11, 30), at(12, 0), at(11, 0), at(11, 30)), "touching before")
	assert.False(t, Overlaps(at(11, 30), at(12, 0), at(12, 0), at(12, 30)), "touching after")
}

func TestFindConflicts(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 7, 1, h, 0, 0, 0, time.UTC) }
	slots := []*domain.Slot{
		{ID: 1, StartAt: at(10), EndAt: at(12), Status: domain.SlotScheduled},
		{ID: 2, StartAt: at(11), EndAt: at(13), Status: domain.SlotCancelled},
		{ID: 3, StartAt: at(12), EndAt: at(14), Status: domain.SlotScheduled},
		{ID: 4, StartAt: at(9), EndAt: at(15), Status: domain.SlotInProgress},
	}

	conflicts := FindConflicts(at(11), at(12), slots, 4)

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ID)
}
