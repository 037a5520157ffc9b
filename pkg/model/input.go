package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Unassigned marks a course without a professor for the corresponding session kind
const Unassigned uint64 = math.MaxUint64

var validate = validator.New(validator.WithRequiredStructEnabled())

type RawRoom struct {
	Number string `mapstructure:"room_number" validate:"required"`
}

type RawAvailability struct {
	Start string `mapstructure:"start" validate:"required,datetime=15:04"`
	End   string `mapstructure:"end" validate:"required,datetime=15:04"`
}

type RawProfessor struct {
	Name      string          `mapstructure:"name" validate:"required"`
	Available RawAvailability `mapstructure:"available"`
}

type RawCourse struct {
	Title          string `mapstructure:"title" validate:"required"`
	WeeklyLectures uint64 `mapstructure:"weekly_lectures"`
	WeeklyLabs     uint64 `mapstructure:"weekly_labs"`
}

type RawDepartment struct {
	Name    string      `mapstructure:"department_name" validate:"required"`
	Courses []RawCourse `mapstructure:"offered_courses" validate:"dive"`
}

type RawDivision struct {
	Name    string `mapstructure:"name" validate:"required"`
	Batches uint64 `mapstructure:"num_batches" validate:"gte=1"`
}

type RawModelInput struct {
	Rooms       []RawRoom       `mapstructure:"rooms" validate:"dive"`
	LabRooms    []RawRoom       `mapstructure:"lab_rooms" validate:"dive"`
	Professors  []RawProfessor  `mapstructure:"professors" validate:"required,min=1,dive"`
	Departments []RawDepartment `mapstructure:"departments" validate:"dive"`
	Divisions   []RawDivision   `mapstructure:"divisions" validate:"required,min=1,dive"`
}

type Room struct {
	Id     uint64
	Number string
	Lab    bool
}

type Professor struct {
	Id           uint64
	Name         string
	Availability Window
	Courses      []uint64
}

type Course struct {
	Id               uint64
	Code             string // Short random code telling apart courses sharing a title
	Title            string
	WeeklyLectures   uint64
	WeeklyLabs       uint64
	LectureProfessor uint64
	LabProfessor     uint64
}

type Department struct {
	Id      uint64
	Name    string
	Courses []uint64
}

type Division struct {
	Id      uint64
	Name    string
	Batches uint64
}

type ModelInput struct {
	Rooms        []Room
	LectureRooms []uint64 // Ids of the rooms where lectures can be held
	LabRooms     []uint64 // Ids of the rooms where labs can be held
	Professors   []Professor
	Courses      []Course
	Departments  []Department
	Divisions    []Division
}

// InputFromFile reads an institution description in JSON or YAML format (chosen by file extension)
func InputFromFile(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}

	var inputMap map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &inputMap)
	default:
		err = json.Unmarshal(bytes, &inputMap)
	}
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input file %v: %w", file, err)
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(inputMap, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot map input file %v: %w", file, err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	if err := validate.Struct(rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("invalid input: %w", err)
	}

	input := ModelInput{
		Rooms:        make([]Room, 0, len(rawInput.Rooms)+len(rawInput.LabRooms)),
		LectureRooms: make([]uint64, 0, len(rawInput.Rooms)),
		LabRooms:     make([]uint64, 0, len(rawInput.LabRooms)),
		Professors:   make([]Professor, 0, len(rawInput.Professors)),
		Courses:      make([]Course, 0),
		Departments:  make([]Department, 0, len(rawInput.Departments)),
		Divisions:    make([]Division, 0, len(rawInput.Divisions)),
	}

	//** Manage rooms
	for _, tuple := range lo.Zip2([][]RawRoom{rawInput.Rooms, rawInput.LabRooms}, []bool{false, true}) {
		rawRooms, lab := tuple.A, tuple.B
		for _, rawRoom := range rawRooms {
			// A room number identifies a single bookable room across both pools
			if lo.ContainsBy(input.Rooms, func(room Room) bool { return room.Number == rawRoom.Number }) {
				return ModelInput{}, fmt.Errorf("room \"%v\" is declared more than once", rawRoom.Number)
			}

			room := Room{Id: uint64(len(input.Rooms)), Number: rawRoom.Number, Lab: lab}
			input.Rooms = append(input.Rooms, room)
			if lab {
				input.LabRooms = append(input.LabRooms, room.Id)
			} else {
				input.LectureRooms = append(input.LectureRooms, room.Id)
			}
		}
	}

	//** Manage professors
	for _, rawProfessor := range rawInput.Professors {
		start, err := ParseClock(rawProfessor.Available.Start)
		if err != nil {
			return ModelInput{}, err
		}
		end, err := ParseClock(rawProfessor.Available.End)
		if err != nil {
			return ModelInput{}, err
		}
		if start >= end {
			return ModelInput{}, fmt.Errorf("professor \"%v\" must be available for a non-empty window: %v-%v", rawProfessor.Name, rawProfessor.Available.Start, rawProfessor.Available.End)
		}

		input.Professors = append(input.Professors, Professor{
			Id:           uint64(len(input.Professors)),
			Name:         rawProfessor.Name,
			Availability: Window{Start: start, End: end},
			Courses:      make([]uint64, 0),
		})
	}

	//** Manage departments and courses
	for _, rawDepartment := range rawInput.Departments {
		department := Department{
			Id:      uint64(len(input.Departments)),
			Name:    rawDepartment.Name,
			Courses: make([]uint64, 0, len(rawDepartment.Courses)),
		}

		for _, rawCourse := range rawDepartment.Courses {
			course := Course{
				Id:               uint64(len(input.Courses)),
				Code:             newCourseCode(),
				Title:            rawCourse.Title,
				WeeklyLectures:   rawCourse.WeeklyLectures,
				WeeklyLabs:       rawCourse.WeeklyLabs,
				LectureProfessor: Unassigned,
				LabProfessor:     Unassigned,
			}
			input.Courses = append(input.Courses, course)
			department.Courses = append(department.Courses, course.Id)
		}
		input.Departments = append(input.Departments, department)
	}

	//** Manage divisions
	for _, rawDivision := range rawInput.Divisions {
		if lo.ContainsBy(input.Divisions, func(division Division) bool { return division.Name == rawDivision.Name }) {
			return ModelInput{}, fmt.Errorf("division \"%v\" is declared more than once", rawDivision.Name)
		}
		input.Divisions = append(input.Divisions, Division{
			Id:      uint64(len(input.Divisions)),
			Name:    rawDivision.Name,
			Batches: rawDivision.Batches,
		})
	}

	if err := input.assignProfessors(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// assignProfessors distributes professors round-robin over the courses in department order. Lab sessions
// are distributed the same way but starting from the middle of the professors list
func (input *ModelInput) assignProfessors() error {
	professors := uint64(len(input.Professors))
	professor, labProfessor := uint64(0), professors/2

	for _, department := range input.Departments {
		for _, course := range department.Courses {
			if err := input.AssignLectureProfessor(course, professor); err != nil {
				return err
			}
			professor = (professor + 1) % professors

			if input.Courses[course].WeeklyLabs > 0 {
				if err := input.AssignLabProfessor(course, labProfessor); err != nil {
					return err
				}
				labProfessor = (labProfessor + 1) % professors
			}
		}
	}
	return nil
}

func (input *ModelInput) AssignLectureProfessor(course, professor uint64) error {
	return input.assign(course, professor, false)
}

func (input *ModelInput) AssignLabProfessor(course, professor uint64) error {
	return input.assign(course, professor, true)
}

func (input *ModelInput) assign(course, professor uint64, lab bool) error {
	if course >= uint64(len(input.Courses)) || professor >= uint64(len(input.Professors)) {
		return fmt.Errorf("cannot assign professor %d to course %d: unknown entity", professor, course)
	}

	target := &input.Courses[course].LectureProfessor
	kind := "lectures"
	if lab {
		target = &input.Courses[course].LabProfessor
		kind = "lab sessions"
	}

	if *target != Unassigned && *target != professor {
		return fmt.Errorf("%v of \"%v\" are already assigned to %v: cannot assign them to %v", kind, input.Courses[course].Title, input.Professors[*target].Name, input.Professors[professor].Name)
	}
	*target = professor

	if !slices.Contains(input.Professors[professor].Courses, course) {
		input.Professors[professor].Courses = append(input.Professors[professor].Courses, course)
	}
	return nil
}

// DepartmentOf returns the department offering the course
func (input *ModelInput) DepartmentOf(course uint64) (Department, bool) {
	return lo.Find(input.Departments, func(department Department) bool {
		return slices.Contains(department.Courses, course)
	})
}

func newCourseCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
