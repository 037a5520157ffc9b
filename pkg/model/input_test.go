package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRawInputRoundRobinAssignment(t *testing.T) {
	//** Arrange
	raw := RawModelInput{
		Rooms:    []RawRoom{{Number: "101"}},
		LabRooms: []RawRoom{{Number: "L1"}},
		Professors: []RawProfessor{
			fullyAvailable("Ada"),
			fullyAvailable("Alan"),
			fullyAvailable("Grace"),
			fullyAvailable("Edsger"),
		},
		Departments: []RawDepartment{
			{Name: "Computer Science", Courses: []RawCourse{
				{Title: "Algorithms", WeeklyLectures: 2, WeeklyLabs: 1},
				{Title: "Compilers", WeeklyLectures: 2},
			}},
			{Name: "Mathematics", Courses: []RawCourse{
				{Title: "Algebra", WeeklyLectures: 3, WeeklyLabs: 1},
				{Title: "Statistics", WeeklyLectures: 1, WeeklyLabs: 2},
				{Title: "Topology", WeeklyLectures: 1},
			}},
		},
		Divisions: []RawDivision{{Name: "Year 1", Batches: 2}},
	}

	//** Act
	input, err := ProcessRawInput(raw)

	//** Assert
	require.NoError(t, err)
	lectureProfessors := []uint64{0, 1, 2, 3, 0}
	labProfessors := []uint64{2, Unassigned, 3, 0, Unassigned} // Starts at len/2 and only advances on courses with labs
	for i, course := range input.Courses {
		assert.Equal(t, uint64(i), course.Id)
		assert.Equal(t, lectureProfessors[i], course.LectureProfessor, course.Title)
		assert.Equal(t, labProfessors[i], course.LabProfessor, course.Title)
		assert.Len(t, course.Code, 8)
	}
	assert.Equal(t, []uint64{0, 3, 4}, input.Professors[0].Courses)
	assert.Equal(t, []uint64{1}, input.Professors[1].Courses)
	assert.Equal(t, []uint64{0, 2}, input.Professors[2].Courses)
	assert.Equal(t, []uint64{2, 3}, input.Professors[3].Courses)

	assert.Equal(t, []uint64{0}, input.LectureRooms)
	assert.Equal(t, []uint64{1}, input.LabRooms)
	assert.True(t, input.Rooms[1].Lab)

	department, ok := input.DepartmentOf(3)
	assert.True(t, ok)
	assert.Equal(t, "Mathematics", department.Name)
}

func TestProcessRawInputErrors(t *testing.T) {
	valid := func() RawModelInput {
		return RawModelInput{
			Rooms:      []RawRoom{{Number: "101"}},
			Professors: []RawProfessor{fullyAvailable("Ada")},
			Departments: []RawDepartment{
				{Name: "Mathematics", Courses: []RawCourse{{Title: "Algebra", WeeklyLectures: 1}}},
			},
			Divisions: []RawDivision{{Name: "Year 1", Batches: 1}},
		}
	}

	scenarios := map[string]func(raw *RawModelInput){
		"no professors":       func(raw *RawModelInput) { raw.Professors = nil },
		"no divisions":        func(raw *RawModelInput) { raw.Divisions = nil },
		"zero batches":        func(raw *RawModelInput) { raw.Divisions[0].Batches = 0 },
		"duplicate room":      func(raw *RawModelInput) { raw.LabRooms = []RawRoom{{Number: "101"}} },
		"duplicate division":  func(raw *RawModelInput) { raw.Divisions = append(raw.Divisions, raw.Divisions[0]) },
		"malformed clock":     func(raw *RawModelInput) { raw.Professors[0].Available.Start = "8am" },
		"empty availability":  func(raw *RawModelInput) { raw.Professors[0].Available.End = "08:00" },
		"untitled course":     func(raw *RawModelInput) { raw.Departments[0].Courses[0].Title = "" },
		"unnamed room number": func(raw *RawModelInput) { raw.Rooms[0].Number = "" },
	}

	for name, mutate := range scenarios {
		t.Run(name, func(t *testing.T) {
			raw := valid()
			mutate(&raw)

			_, err := ProcessRawInput(raw)

			assert.NotNil(t, err)
		})
	}

	_, err := ProcessRawInput(valid())
	assert.Nil(t, err)
}

func TestAssignProfessorOnce(t *testing.T) {
	input := roundTripInput(t)

	assert.Nil(t, input.AssignLectureProfessor(0, 0)) // Same professor again
	assert.NotNil(t, input.AssignLectureProfessor(0, 1))
	assert.NotNil(t, input.AssignLabProfessor(0, 0))
	assert.NotNil(t, input.AssignLabProfessor(0, 7))
}

func TestInputFromFile(t *testing.T) {
	for _, file := range []string{"small.json", "medium.json", "large.yaml"} {
		t.Run(file, func(t *testing.T) {
			//** Act
			input, err := InputFromFile(testDirectory + file)

			//** Assert
			require.NoError(t, err)
			assert.NotEmpty(t, input.Courses)
			assert.NotEmpty(t, input.Divisions)
			for _, professor := range input.Professors {
				assert.Less(t, professor.Availability.Start, professor.Availability.End)
			}
		})
	}

	input, err := InputFromFile(testDirectory + "small.json")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", input.Courses[0].Title)
	assert.Equal(t, uint64(2), input.Courses[0].WeeklyLectures)
	assert.Equal(t, uint64(2), input.Divisions[0].Batches)
	assert.Equal(t, Window{Start: 8 * time.Hour, End: 18 * time.Hour}, input.Professors[0].Availability)

	_, err = InputFromFile(testDirectory + "missing.json")
	assert.NotNil(t, err)
}
