package model

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBuilderRoundTrip(t *testing.T) {
	input := roundTripInput(t)
	catalog := defaultCatalog(t)
	builder := NewBuilder(&input, catalog, DefaultMaxAttempts, zaptest.NewLogger(t))

	for seed := range uint64(20) {
		//** Act
		schedule := builder.Build(rand.New(rand.NewPCG(seed, seed)))

		//** Assert
		lectures := lo.Filter(schedule.Classes(), func(class ScheduledClass, _ int) bool { return class.Batch == AllBatches })
		labs := lo.Filter(schedule.Classes(), func(class ScheduledClass, _ int) bool { return class.Batch != AllBatches })

		assert.Len(t, lectures, 2)
		assert.Len(t, labs, 2)
		assert.ElementsMatch(t, []uint64{1, 2}, lo.Map(labs, func(class ScheduledClass, _ int) uint64 { return class.Batch }))
		for _, class := range lectures {
			assert.Equal(t, input.Courses[0].LectureProfessor, class.Professor)
			assert.Contains(t, input.LectureRooms, class.Room)
			assert.True(t, catalog.IsLecture(class.Slot))
		}
		for _, class := range labs {
			assert.Equal(t, input.Courses[0].LabProfessor, class.Professor)
			assert.Contains(t, input.LabRooms, class.Room)
			assert.True(t, catalog.IsLab(class.Slot))
		}

		assert.Equal(t, Conflicts{}, EvaluateConflicts(schedule))
		assert.Equal(t, 1.0, schedule.Fitness())
		assert.True(t, Verify(schedule))
	}
}

func TestBuilderNeverDoubleBooks(t *testing.T) {
	input, err := InputFromFile(testDirectory + "large.yaml")
	require.NoError(t, err)
	catalog := defaultCatalog(t)
	builder := NewBuilder(&input, catalog, DefaultMaxAttempts, nil)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 10 {
		conflicts := EvaluateConflicts(builder.Build(rng))

		// Unplaced sessions only surface as deficit
		assert.Equal(t, uint64(0), conflicts.Room)
		assert.Equal(t, uint64(0), conflicts.Professor)
	}
}

func TestBuilderLeavesUnplaceableSessionsUnfilled(t *testing.T) {
	t.Run("No professor", func(t *testing.T) {
		//** Arrange
		input := roundTripInput(t)
		input.Courses[0].LabProfessor = Unassigned
		builder := NewBuilder(&input, defaultCatalog(t), DefaultMaxAttempts, nil)

		//** Act
		schedule := builder.Build(rand.New(rand.NewPCG(1, 1)))

		//** Assert
		assert.Equal(t, 2, schedule.Len())
		assert.Equal(t, Conflicts{Lab: 2}, EvaluateConflicts(schedule))
	})

	t.Run("No available slot", func(t *testing.T) {
		//** Arrange
		input := lectureOnlyInput(t)
		input.Courses[0].WeeklyLectures = 7
		input.Professors[0].Availability = Window{Start: 9*time.Hour + 30*time.Minute, End: 10*time.Hour + 30*time.Minute}
		catalog := defaultCatalog(t)
		builder := NewBuilder(&input, catalog, 100, nil) // Enough attempts to reject every slot

		//** Act
		schedule := builder.Build(rand.New(rand.NewPCG(1, 1)))

		//** Assert
		assert.Equal(t, 5, schedule.Len()) // One slot a day
		assert.Equal(t, Conflicts{Lecture: 2}, EvaluateConflicts(schedule))
		slots := lo.Map(schedule.Classes(), func(class ScheduledClass, _ int) string { return catalog.Slot(class.Slot).String() })
		slices.Sort(slots)
		assert.Equal(t, []string{
			"Friday 09:30-10:30",
			"Monday 09:30-10:30",
			"Thursday 09:30-10:30",
			"Tuesday 09:30-10:30",
			"Wednesday 09:30-10:30",
		}, slots)
	})

	t.Run("No free room", func(t *testing.T) {
		//** Arrange
		input, err := ProcessRawInput(RawModelInput{
			Rooms:      []RawRoom{{Number: "101"}},
			Professors: []RawProfessor{fullyAvailable("Ada"), fullyAvailable("Alan")},
			Departments: []RawDepartment{{Name: "Mathematics", Courses: []RawCourse{
				{Title: "Algebra", WeeklyLectures: 20},
				{Title: "Calculus", WeeklyLectures: 20},
			}}},
			Divisions: []RawDivision{{Name: "Year 1", Batches: 1}},
		})
		require.NoError(t, err)
		builder := NewBuilder(&input, defaultCatalog(t), 100, nil)

		//** Act
		schedule := builder.Build(rand.New(rand.NewPCG(1, 1)))

		//** Assert
		assert.LessOrEqual(t, schedule.Len(), 25) // A single room offers one lecture per slot
		assert.Equal(t, uint64(0), EvaluateConflicts(schedule).Room)
		assert.Equal(t, uint64(40-schedule.Len()), EvaluateConflicts(schedule).Lecture)
	})
}

func TestValidateCatalog(t *testing.T) {
	input := roundTripInput(t)

	options := DefaultCatalogOptions()
	options.LabDuration = 8 * time.Hour
	withoutLabs, err := GenerateTimeSlots(options)
	require.NoError(t, err)

	assert.Nil(t, ValidateCatalog(&input, defaultCatalog(t)))
	assert.True(t, errors.Is(ValidateCatalog(&input, withoutLabs), ErrEmptyCatalog))

	input.Courses[0].WeeklyLabs = 0
	assert.Nil(t, ValidateCatalog(&input, withoutLabs))
}
