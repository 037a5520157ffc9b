package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRoomsRemovesRoomConflicts(t *testing.T) {
	//** Arrange
	input := roundTripInput(t)
	catalog := defaultCatalog(t)
	lecture, lab := catalog.Lectures()[0], catalog.Labs()[0]
	schedule := NewSchedule(&input, catalog,
		ScheduledClass{Batch: AllBatches, Room: 0, Professor: 0, Slot: lecture},
		ScheduledClass{Batch: AllBatches, Room: 0, Professor: 1, Slot: lecture},
		ScheduledClass{Batch: 1, Room: 2, Professor: 1, Slot: lab},
		ScheduledClass{Batch: 2, Room: 2, Professor: 0, Slot: lab},
	)
	require.Equal(t, uint64(2), EvaluateConflicts(schedule).Room)

	//** Act
	assigned, rewritten, err := AssignRooms(schedule)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, 2, rewritten)
	assert.Equal(t, uint64(0), EvaluateConflicts(assigned).Room)
	for _, class := range assigned.Classes() {
		assert.Equal(t, class.Batch != AllBatches, input.Rooms[class.Room].Lab)
	}
	assert.Equal(t, uint64(2), EvaluateConflicts(schedule).Room) // The original is left untouched
}

func TestAssignRoomsSkipsUnassignableSlots(t *testing.T) {
	//** Arrange
	input := roundTripInput(t)
	catalog := defaultCatalog(t)
	slot := catalog.Lectures()[0]
	schedule := NewSchedule(&input, catalog,
		ScheduledClass{Batch: AllBatches, Room: 0, Slot: slot},
		ScheduledClass{Batch: AllBatches, Room: 0, Slot: slot},
		ScheduledClass{Batch: AllBatches, Room: 1, Slot: slot}, // Three lectures, two lecture rooms
	)

	//** Act
	assigned, rewritten, err := AssignRooms(schedule)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, 0, rewritten)
	assert.Equal(t, schedule.Classes(), assigned.Classes())
}
