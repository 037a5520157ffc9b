package model

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

type SortOrder int

const (
	SortBySlot       SortOrder = iota // Canonical order: time-slot id
	SortByDepartment                  // Department → division → course → weekday → start time
)

// Record is the human-facing view of a scheduled class
type Record struct {
	Day        string `json:"day"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Course     string `json:"course"`
	CourseCode string `json:"course_code"`
	Professor  string `json:"professor"`
	Room       string `json:"room"`
	Division   string `json:"division"`
	Batch      string `json:"batch"`
	Department string `json:"department"`

	Slot TimeSlot `json:"-"`
}

func Records(schedule *Schedule, order SortOrder) []Record {
	input, catalog := schedule.input, schedule.catalog

	classes := slices.Clone(schedule.classes)
	switch order {
	case SortByDepartment:
		slices.SortStableFunc(classes, func(a, b ScheduledClass) int {
			slotA, slotB := catalog.Slot(a.Slot), catalog.Slot(b.Slot)
			return cmp.Or(
				cmp.Compare(a.Department, b.Department),
				cmp.Compare(a.Division, b.Division),
				cmp.Compare(a.Course, b.Course),
				cmp.Compare(slotA.Day, slotB.Day),
				cmp.Compare(slotA.Start, slotB.Start),
				cmp.Compare(a.Batch, b.Batch),
			)
		})
	default:
		slices.SortStableFunc(classes, func(a, b ScheduledClass) int {
			return cmp.Compare(a.Slot, b.Slot)
		})
	}

	return lo.Map(classes, func(class ScheduledClass, _ int) Record {
		slot := catalog.Slot(class.Slot)
		return Record{
			Day:        slot.Day.String(),
			Start:      FormatClock(slot.Start),
			End:        FormatClock(slot.End()),
			Course:     input.Courses[class.Course].Title,
			CourseCode: input.Courses[class.Course].Code,
			Professor:  input.Professors[class.Professor].Name,
			Room:       input.Rooms[class.Room].Number,
			Division:   input.Divisions[class.Division].Name,
			Batch:      class.BatchLabel(),
			Department: input.Departments[class.Department].Name,
			Slot:       slot,
		}
	})
}
