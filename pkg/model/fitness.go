package model

import "github.com/samber/lo"

// Conflicts breaks down the structural conflicts and coverage deficits of a schedule
type Conflicts struct {
	Room      uint64 // Extra bookings of the same room in the same slot
	Professor uint64 // Extra bookings of the same professor in the same slot
	Lecture   uint64 // Lecture coverage deficit per course and division
	Lab       uint64 // Lab coverage deficit per course, division and batch
}

func (conflicts Conflicts) Total() uint64 {
	return conflicts.Room + conflicts.Professor + conflicts.Lecture + conflicts.Lab
}

// EvaluateConflicts recomputes every conflict from the schedule's classes alone, no reservation state is trusted
func EvaluateConflicts(schedule *Schedule) Conflicts {
	input, catalog := schedule.input, schedule.catalog

	roomBookings := make(map[[2]uint64]uint64)
	professorBookings := make(map[[2]uint64]uint64)
	lectures := make(map[[2]uint64]uint64)
	labs := make(map[[3]uint64]uint64)

	for _, class := range schedule.classes {
		roomBookings[[2]uint64{class.Room, class.Slot}]++
		professorBookings[[2]uint64{class.Professor, class.Slot}]++

		if class.Batch == AllBatches && catalog.IsLecture(class.Slot) {
			lectures[[2]uint64{class.Course, class.Division}]++
		} else if class.Batch != AllBatches && catalog.IsLab(class.Slot) {
			labs[[3]uint64{class.Course, class.Division, class.Batch}]++
		}
	}

	conflicts := Conflicts{
		Room:      overbooked(roomBookings),
		Professor: overbooked(professorBookings),
	}

	for _, course := range input.Courses {
		for _, division := range input.Divisions {
			conflicts.Lecture += absDiff(lectures[[2]uint64{course.Id, division.Id}], course.WeeklyLectures)

			for batch := uint64(1); batch <= division.Batches; batch++ {
				conflicts.Lab += absDiff(labs[[3]uint64{course.Id, division.Id, batch}], course.WeeklyLabs)
			}
		}
	}

	return conflicts
}

// Score normalizes the schedule's conflicts against the number of class pairs into [0, 1]
func Score(schedule *Schedule) float64 {
	classes := uint64(schedule.Len())
	if classes == 0 {
		return 0
	}

	total := EvaluateConflicts(schedule).Total()
	if classes == 1 { // No pairs to normalize against
		if total == 0 {
			return 1
		}
		return 0
	}

	maxConflicts := classes * (classes - 1) / 2
	return max(0, 1-float64(total)/float64(maxConflicts))
}

// Verify checks that the schedule has neither conflicts nor coverage deficits
func Verify(schedule *Schedule) bool {
	return EvaluateConflicts(schedule).Total() == 0
}

func overbooked[K comparable](bookings map[K]uint64) uint64 {
	return lo.Sum(lo.FilterMap(lo.Values(bookings), func(count uint64, _ int) (uint64, bool) {
		return count - 1, count > 1
	}))
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
