package model

import (
	"fmt"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const DefaultMaxAttempts = 10

type placementOutcome int

const (
	placed placementOutcome = iota
	unfilledNoProfessor
	unfilledNoSlot
	unfilledNoRoom
)

func (outcome placementOutcome) String() string {
	return [...]string{"placed", "no professor assigned", "no available slot", "no free room"}[outcome]
}

// session describes a class to place before a slot and a room are chosen
type session struct {
	division   uint64
	batch      uint64
	department uint64
	course     uint64
	professor  uint64
	slots      []uint64 // Candidate slots of the right duration
	rooms      []uint64 // Candidate rooms of the right pool
}

type Builder struct {
	input       *ModelInput
	catalog     *TimeSlotCatalog
	maxAttempts int
	logger      *zap.Logger
}

func NewBuilder(input *ModelInput, catalog *TimeSlotCatalog, maxAttempts int, logger *zap.Logger) *Builder {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Builder{
		input:       input,
		catalog:     catalog,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Build constructs a candidate schedule by placing every lecture and lab session at random. Sessions that
// cannot be placed are left out and surface later as coverage deficit, so Build never fails
func (builder *Builder) Build(rng *rand.Rand) *Schedule {
	schedule := NewSchedule(builder.input, builder.catalog)
	ledger := NewLedger(builder.input, builder.catalog)
	unfilled := 0

	for _, department := range builder.input.Departments {
		for _, courseId := range department.Courses {
			course := builder.input.Courses[courseId]

			for _, division := range builder.input.Divisions {
				//** Schedule lectures
				lecture := session{
					division:   division.Id,
					batch:      AllBatches,
					department: department.Id,
					course:     course.Id,
					professor:  course.LectureProfessor,
					slots:      builder.catalog.Lectures(),
					rooms:      builder.input.LectureRooms,
				}
				for range course.WeeklyLectures {
					if builder.place(schedule, ledger, lecture, rng) != placed {
						unfilled++
					}
				}

				//** Schedule labs (once per batch)
				for range course.WeeklyLabs {
					for batch := uint64(1); batch <= division.Batches; batch++ {
						lab := session{
							division:   division.Id,
							batch:      batch,
							department: department.Id,
							course:     course.Id,
							professor:  course.LabProfessor,
							slots:      builder.catalog.Labs(),
							rooms:      builder.input.LabRooms,
						}
						if builder.place(schedule, ledger, lab, rng) != placed {
							unfilled++
						}
					}
				}
			}
		}
	}

	if unfilled > 0 {
		builder.logger.Debug("schedule built with unfilled sessions",
			zap.Int("classes", schedule.Len()),
			zap.Int("unfilled", unfilled),
		)
	}
	return schedule
}

func (builder *Builder) place(schedule *Schedule, ledger *Ledger, session session, rng *rand.Rand) placementOutcome {
	outcome := builder.tryPlace(schedule, ledger, session, rng)
	if outcome != placed {
		builder.logger.Debug("session left unfilled",
			zap.String("course", builder.input.Courses[session.course].Title),
			zap.String("division", builder.input.Divisions[session.division].Name),
			zap.Uint64("batch", session.batch),
			zap.Stringer("reason", outcome),
		)
	}
	return outcome
}

func (builder *Builder) tryPlace(schedule *Schedule, ledger *Ledger, session session, rng *rand.Rand) placementOutcome {
	if session.professor == Unassigned {
		return unfilledNoProfessor
	}

	//** Choose slot: bounded retry over the slots not yet rejected
	slot, found := uint64(0), false
	candidates := slices.Clone(session.slots)
	for attempt := 0; attempt < builder.maxAttempts && len(candidates) > 0; attempt++ {
		i := rng.IntN(len(candidates))
		if !ledger.IsProfessorReserved(session.professor, candidates[i]) {
			slot, found = candidates[i], true
			break
		}
		// Reject the slot by swapping it out of the candidates
		candidates[i] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
	}
	if !found {
		return unfilledNoSlot
	}

	//** Choose room
	freeRooms := lo.Filter(session.rooms, func(room uint64, _ int) bool {
		return !ledger.IsRoomReserved(room, slot)
	})
	if len(freeRooms) == 0 {
		return unfilledNoRoom
	}
	room := freeRooms[rng.IntN(len(freeRooms))]

	//** Book and add class
	if err := ledger.ReserveRoom(room, slot); err != nil {
		log.Panicf("room availability was checked before booking: %v", err)
	}
	if err := ledger.ReserveProfessor(session.professor, slot); err != nil {
		log.Panicf("professor availability was checked before booking: %v", err)
	}

	schedule.Add(ScheduledClass{
		Division:   session.division,
		Batch:      session.batch,
		Department: session.department,
		Course:     session.course,
		Room:       room,
		Professor:  session.professor,
		Slot:       slot,
	})
	return placed
}

// ValidateCatalog is the setup-time check that every required session duration has at least one slot
func ValidateCatalog(input *ModelInput, catalog *TimeSlotCatalog) error {
	needsLectures := lo.SomeBy(input.Courses, func(course Course) bool { return course.WeeklyLectures > 0 })
	needsLabs := lo.SomeBy(input.Courses, func(course Course) bool { return course.WeeklyLabs > 0 })

	if needsLectures && len(catalog.Lectures()) == 0 {
		return fmt.Errorf("courses require lectures of %v: %w", catalog.LectureDuration(), ErrEmptyCatalog)
	} else if needsLabs && len(catalog.Labs()) == 0 {
		return fmt.Errorf("courses require labs of %v: %w", catalog.LabDuration(), ErrEmptyCatalog)
	}
	return nil
}
