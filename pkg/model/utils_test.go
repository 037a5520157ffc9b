package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testDirectory = "../../test/input/"

func fullyAvailable(name string) RawProfessor {
	return RawProfessor{Name: name, Available: RawAvailability{Start: "08:00", End: "18:00"}}
}

// roundTripInput has one course with two lectures and one lab, and one division split in two batches
func roundTripInput(t *testing.T) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(RawModelInput{
		Rooms:      []RawRoom{{Number: "101"}, {Number: "102"}},
		LabRooms:   []RawRoom{{Number: "L1"}, {Number: "L2"}},
		Professors: []RawProfessor{fullyAvailable("Ada"), fullyAvailable("Alan")},
		Departments: []RawDepartment{
			{Name: "Computer Science", Courses: []RawCourse{{Title: "Algorithms", WeeklyLectures: 2, WeeklyLabs: 1}}},
		},
		Divisions: []RawDivision{{Name: "CS-A", Batches: 2}},
	})
	require.NoError(t, err)
	return input
}

// lectureOnlyInput has one course with five weekly lectures, five lecture rooms and a single professor
func lectureOnlyInput(t *testing.T) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(RawModelInput{
		Rooms:      []RawRoom{{Number: "101"}, {Number: "102"}, {Number: "103"}, {Number: "104"}, {Number: "105"}},
		Professors: []RawProfessor{fullyAvailable("Ada")},
		Departments: []RawDepartment{
			{Name: "Mathematics", Courses: []RawCourse{{Title: "Calculus", WeeklyLectures: 5}}},
		},
		Divisions: []RawDivision{{Name: "Year 1", Batches: 1}},
	})
	require.NoError(t, err)
	return input
}

func defaultCatalog(t *testing.T) *TimeSlotCatalog {
	t.Helper()
	catalog, err := GenerateTimeSlots(DefaultCatalogOptions())
	require.NoError(t, err)
	return catalog
}

// lectureClass schedules a lecture of the first course for the first division
func lectureClass(room, professor, slot uint64) ScheduledClass {
	return ScheduledClass{
		Division:   0,
		Batch:      AllBatches,
		Department: 0,
		Course:     0,
		Room:       room,
		Professor:  professor,
		Slot:       slot,
	}
}
