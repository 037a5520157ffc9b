package model

import (
	"fmt"
	"slices"
)

// AllBatches is the batch of sessions attended by the whole division (i.e. lectures)
const AllBatches uint64 = 0

const AllBatchesLabel = "All"

const staleFitness = -1

// ScheduledClass is a single session placed in the timetable. All fields are ids into the model input
// and the time-slot catalog shared by every schedule
type ScheduledClass struct {
	Division   uint64
	Batch      uint64 // AllBatches or a batch number starting at 1
	Department uint64
	Course     uint64
	Room       uint64
	Professor  uint64
	Slot       uint64
}

func (class ScheduledClass) BatchLabel() string {
	if class.Batch == AllBatches {
		return AllBatchesLabel
	}
	return fmt.Sprintf("Batch %d", class.Batch)
}

// Schedule is a candidate timetable. Its fitness is computed lazily and invalidated whenever the classes change
type Schedule struct {
	classes []ScheduledClass
	fitness float64
	input   *ModelInput
	catalog *TimeSlotCatalog
}

func NewSchedule(input *ModelInput, catalog *TimeSlotCatalog, classes ...ScheduledClass) *Schedule {
	return &Schedule{
		classes: slices.Clone(classes),
		fitness: staleFitness,
		input:   input,
		catalog: catalog,
	}
}

func (schedule *Schedule) Input() *ModelInput {
	return schedule.input
}

func (schedule *Schedule) Catalog() *TimeSlotCatalog {
	return schedule.catalog
}

// Classes returns the schedule's classes; callers must not modify the returned slice
func (schedule *Schedule) Classes() []ScheduledClass {
	return schedule.classes
}

func (schedule *Schedule) Class(i int) ScheduledClass {
	return schedule.classes[i]
}

func (schedule *Schedule) Len() int {
	return len(schedule.classes)
}

func (schedule *Schedule) Add(class ScheduledClass) {
	schedule.classes = append(schedule.classes, class)
	schedule.fitness = staleFitness
}

func (schedule *Schedule) SetClass(i int, class ScheduledClass) {
	schedule.classes[i] = class
	schedule.fitness = staleFitness
}

func (schedule *Schedule) SetClasses(classes []ScheduledClass) {
	schedule.classes = classes
	schedule.fitness = staleFitness
}

// Fitness returns the cached fitness, scoring the schedule first if the cache is stale
func (schedule *Schedule) Fitness() float64 {
	if schedule.fitness == staleFitness {
		schedule.fitness = Score(schedule)
	}
	return schedule.fitness
}

func (schedule *Schedule) Stale() bool {
	return schedule.fitness == staleFitness
}

// Clone returns a deep copy of the classes sharing the same read-only model and catalog
func (schedule *Schedule) Clone() *Schedule {
	return &Schedule{
		classes: slices.Clone(schedule.classes),
		fitness: schedule.fitness,
		input:   schedule.input,
		catalog: schedule.catalog,
	}
}

func (schedule *Schedule) String() string {
	return fmt.Sprintf("Schedule(classes=%d, fitness=%v)", len(schedule.classes), schedule.fitness)
}
