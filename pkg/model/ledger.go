package model

import (
	"errors"
	"fmt"
)

var ErrInvariantViolation = errors.New("invariant violation")

type ResourceKind uint8

const (
	RoomResource ResourceKind = iota
	ProfessorResource
)

func (kind ResourceKind) String() string {
	switch kind {
	case RoomResource:
		return "room"
	case ProfessorResource:
		return "professor"
	}
	return fmt.Sprintf("resource(%d)", kind)
}

// DoubleBookingError signals an attempt to reserve an already reserved (or unavailable) slot
type DoubleBookingError struct {
	Resource ResourceKind
	Name     string
	Slot     TimeSlot
}

func (err *DoubleBookingError) Error() string {
	return fmt.Sprintf("cannot reserve %v \"%v\" at %v: slot is already reserved or unavailable", err.Resource, err.Name, err.Slot)
}

func (err *DoubleBookingError) Unwrap() error {
	return ErrInvariantViolation
}

// Ledger records the bookings made while constructing a single candidate schedule. It must never be shared
// between candidates: entities are read-only descriptors and all booking state lives here
type Ledger struct {
	input        *ModelInput
	catalog      *TimeSlotCatalog
	indexer      indexer
	reservations map[uint64]bool
}

func NewLedger(input *ModelInput, catalog *TimeSlotCatalog) *Ledger {
	entities := uint64(max(len(input.Rooms), len(input.Professors), 1))
	slots := uint64(max(catalog.Len(), 1))

	return &Ledger{
		input:        input,
		catalog:      catalog,
		indexer:      newIndexer(entities, slots),
		reservations: make(map[uint64]bool),
	}
}

func (ledger *Ledger) IsRoomReserved(room, slot uint64) bool {
	return ledger.reservations[ledger.indexer.Index(RoomResource, room, slot)]
}

// IsProfessorReserved reports whether the professor cannot take the slot, either because it's already reserved,
// because it falls outside the professor's availability or because it overlaps a break
func (ledger *Ledger) IsProfessorReserved(professor, slot uint64) bool {
	timeSlot := ledger.catalog.Slot(slot)
	availability := ledger.input.Professors[professor].Availability

	return timeSlot.Start < availability.Start ||
		timeSlot.End() > availability.End ||
		ledger.catalog.overlapsBreak(timeSlot) ||
		ledger.reservations[ledger.indexer.Index(ProfessorResource, professor, slot)]
}

func (ledger *Ledger) ReserveRoom(room, slot uint64) error {
	if ledger.IsRoomReserved(room, slot) {
		return &DoubleBookingError{
			Resource: RoomResource,
			Name:     ledger.input.Rooms[room].Number,
			Slot:     ledger.catalog.Slot(slot),
		}
	}
	ledger.reservations[ledger.indexer.Index(RoomResource, room, slot)] = true
	return nil
}

func (ledger *Ledger) ReserveProfessor(professor, slot uint64) error {
	if ledger.IsProfessorReserved(professor, slot) {
		return &DoubleBookingError{
			Resource: ProfessorResource,
			Name:     ledger.input.Professors[professor].Name,
			Slot:     ledger.catalog.Slot(slot),
		}
	}
	ledger.reservations[ledger.indexer.Index(ProfessorResource, professor, slot)] = true
	return nil
}

// Reservations returns the number of bookings held by the ledger
func (ledger *Ledger) Reservations() int {
	return len(ledger.reservations)
}

// Reserved lists the slots booked for an entity
func (ledger *Ledger) Reserved(resource ResourceKind, entity uint64) []uint64 {
	slots := make([]uint64, 0)
	for index := range ledger.reservations {
		kind, id, slot := ledger.indexer.Attributes(index)
		if kind == resource && id == entity {
			slots = append(slots, slot)
		}
	}
	return slots
}
