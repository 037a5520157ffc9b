package genetic

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

const testDirectory = "../../test/input/"

// lectureOnlyInput has one course with five weekly lectures, five lecture rooms and a single professor
func lectureOnlyInput(t *testing.T) *model.ModelInput {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawModelInput{
		Rooms: []model.RawRoom{{Number: "101"}, {Number: "102"}, {Number: "103"}, {Number: "104"}, {Number: "105"}},
		Professors: []model.RawProfessor{
			{Name: "Ada", Available: model.RawAvailability{Start: "08:00", End: "18:00"}},
		},
		Departments: []model.RawDepartment{
			{Name: "Mathematics", Courses: []model.RawCourse{{Title: "Calculus", WeeklyLectures: 5}}},
		},
		Divisions: []model.RawDivision{{Name: "Year 1", Batches: 1}},
	})
	require.NoError(t, err)
	return &input
}

func inputFromFile(t *testing.T, file string) *model.ModelInput {
	t.Helper()
	input, err := model.InputFromFile(testDirectory + file)
	require.NoError(t, err)
	return &input
}

func defaultCatalog(t *testing.T) *model.TimeSlotCatalog {
	t.Helper()
	catalog, err := model.GenerateTimeSlots(model.DefaultCatalogOptions())
	require.NoError(t, err)
	return catalog
}

// scheduleWithConflicts schedules the five lectures of lectureOnlyInput so that the professor is double
// booked the given number of times (at most four), which yields a fitness of 1 - conflicts/10
func scheduleWithConflicts(input *model.ModelInput, catalog *model.TimeSlotCatalog, conflicts int) *model.Schedule {
	lectures := catalog.Lectures()
	schedule := model.NewSchedule(input, catalog)
	for i := range 5 {
		schedule.Add(model.ScheduledClass{
			Batch:     model.AllBatches,
			Room:      uint64(i),
			Professor: 0,
			Slot:      lectures[max(0, i-conflicts)],
		})
	}
	schedule.Fitness()
	return schedule
}

func clones(schedule *model.Schedule, size int) []*model.Schedule {
	schedules := make([]*model.Schedule, size)
	for i := range schedules {
		schedules[i] = schedule.Clone()
	}
	return schedules
}

func testParameters() Parameters {
	params := DefaultParameters()
	params.PopulationSize = 10
	params.Generations = 100
	params.Workers = 2
	params.Seed = 1
	return params
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}
