package model

import (
	"cmp"
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type unassignableError struct {
}

func (err unassignableError) Error() string {
	return "not all classes can be assigned a room"
}

// AssignRooms returns a copy of the schedule where, slot by slot, rooms are reassigned through a maximum
// bipartite matching between the slot's classes and the rooms of their pool. A slot is only rewritten when
// every one of its classes gets a distinct room; otherwise it's left untouched. The number of rewritten
// slots is returned along with the new schedule
func AssignRooms(schedule *Schedule) (*Schedule, int, error) {
	assigned := schedule.Clone()
	input := schedule.input

	//** Group classes by slot
	simultaneousClasses := lo.GroupBy(lo.Range(schedule.Len()), func(i int) uint64 {
		return schedule.classes[i].Slot
	})
	slots := lo.Keys(simultaneousClasses)
	slices.SortFunc(slots, func(a, b uint64) int { return cmp.Compare(a, b) })

	rooms := slices.Concat(input.LectureRooms, input.LabRooms)
	rewritten := 0
	for _, slot := range slots {
		classes := simultaneousClasses[slot]
		if !hasRoomConflict(schedule, classes) {
			continue
		}

		assignments, err := assignRooms(schedule, classes, rooms)
		if _, ok := err.(unassignableError); ok {
			continue
		} else if err != nil {
			return nil, 0, err
		}

		for _, assignment := range assignments {
			classIndex, room := assignment[0], assignment[1]
			assigned.classes[classIndex].Room = room
		}
		rewritten++
	}

	if rewritten > 0 {
		assigned.fitness = staleFitness
	}
	return assigned, rewritten, nil
}

func hasRoomConflict(schedule *Schedule, classes []int) bool {
	rooms := lo.Map(classes, func(i int, _ int) uint64 { return schedule.classes[i].Room })
	return len(lo.Uniq(rooms)) < len(rooms)
}

func assignRooms(schedule *Schedule, classes []int, rooms []uint64) ([][2]uint64, error) {
	assignments := make([][2]uint64, 0, len(classes))

	// Build neighbors predicate: lectures go to lecture rooms and labs go to lab rooms
	neighbors := func(classAny any, roomAny any) (bool, error) {
		class := schedule.classes[classAny.(int)]
		room := schedule.input.Rooms[roomAny.(uint64)]

		return room.Lab == (class.Batch != AllBatches), nil
	}

	// Transform classes and rooms to slices of any
	classesAny, roomsAny := lo.Map(classes, func(class int, _ int) any { return class }), lo.Map(rooms, func(room uint64, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(classesAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(classes) {
		return nil, unassignableError{}
	}

	for _, edge := range matching {
		classIndex, roomIndex := edge.Node1, edge.Node2-len(classes)
		class, room := classes[classIndex], rooms[roomIndex]

		assignments = append(assignments, [2]uint64{uint64(class), room})
	}

	return assignments, nil
}
