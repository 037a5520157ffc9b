package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var ErrEmptyCatalog = errors.New("time-slot catalog has no slots for a required duration")

type TimeSlot struct {
	Id       uint64
	Day      time.Weekday
	Start    time.Duration // Offset from midnight
	Duration time.Duration
}

func (slot TimeSlot) End() time.Duration {
	return slot.Start + slot.Duration
}

// Overlaps reports whether the slot intersects the half-open window [start, end)
func (slot TimeSlot) Overlaps(window Window) bool {
	return slot.Start < window.End && window.Start < slot.End()
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v %v-%v", slot.Day, FormatClock(slot.Start), FormatClock(slot.End()))
}

// Window is a time range within a day expressed as offsets from midnight
type Window struct {
	Start time.Duration
	End   time.Duration
}

type CatalogOptions struct {
	Days            []time.Weekday
	Open            time.Duration
	Close           time.Duration
	Breaks          []Window
	LectureDuration time.Duration
	LabDuration     time.Duration
}

type TimeSlotCatalog struct {
	options  CatalogOptions
	slots    []TimeSlot
	lectures []uint64
	labs     []uint64
	index    map[slotKey]uint64
}

type slotKey struct {
	day      time.Weekday
	start    time.Duration
	duration time.Duration
}

// GenerateTimeSlots builds the immutable universe of bookable slots. Slots ids are assigned sequentially
// in emission order, therefore two catalogs generated from the same options are identical
func GenerateTimeSlots(options CatalogOptions) (*TimeSlotCatalog, error) {
	if err := validateCatalogOptions(options); err != nil {
		return nil, err
	}

	catalog := &TimeSlotCatalog{
		options:  options,
		slots:    make([]TimeSlot, 0),
		lectures: make([]uint64, 0),
		labs:     make([]uint64, 0),
		index:    make(map[slotKey]uint64),
	}

	for _, day := range options.Days {
		for current := options.Open; current+options.LectureDuration <= options.Close; current += options.LectureDuration {
			lecture := TimeSlot{Day: day, Start: current, Duration: options.LectureDuration}
			if catalog.overlapsBreak(lecture) {
				continue
			}
			catalog.lectures = append(catalog.lectures, catalog.add(lecture))

			lab := TimeSlot{Day: day, Start: current, Duration: options.LabDuration}
			if lab.End() <= options.Close && !catalog.overlapsBreak(lab) {
				catalog.labs = append(catalog.labs, catalog.add(lab))
			}
		}
	}

	return catalog, nil
}

func validateCatalogOptions(options CatalogOptions) error {
	if len(options.Days) == 0 {
		return errors.New("at least one day must be specified")
	} else if len(lo.Uniq(options.Days)) != len(options.Days) {
		return fmt.Errorf("days must not be repeated: %v", options.Days)
	} else if options.Open < 0 || options.Close > 24*time.Hour || options.Open >= options.Close {
		return fmt.Errorf("invalid operating window %v-%v", FormatClock(options.Open), FormatClock(options.Close))
	} else if options.LectureDuration <= 0 || options.LabDuration <= 0 {
		return fmt.Errorf("durations must be positive: lecture %v, lab %v", options.LectureDuration, options.LabDuration)
	} else if options.LabDuration <= options.LectureDuration {
		return fmt.Errorf("lab duration (%v) must be longer than lecture duration (%v)", options.LabDuration, options.LectureDuration)
	}

	for _, window := range options.Breaks {
		if window.Start >= window.End || window.Start < options.Open || window.End > options.Close {
			return fmt.Errorf("break %v-%v must be a non-empty window inside operating hours", FormatClock(window.Start), FormatClock(window.End))
		}
	}
	return nil
}

func (catalog *TimeSlotCatalog) add(slot TimeSlot) uint64 {
	slot.Id = uint64(len(catalog.slots))
	catalog.slots = append(catalog.slots, slot)
	catalog.index[slotKey{slot.Day, slot.Start, slot.Duration}] = slot.Id
	return slot.Id
}

func (catalog *TimeSlotCatalog) overlapsBreak(slot TimeSlot) bool {
	return lo.SomeBy(catalog.options.Breaks, func(window Window) bool {
		return slot.Overlaps(window)
	})
}

func (catalog *TimeSlotCatalog) Slot(id uint64) TimeSlot {
	return catalog.slots[id]
}

func (catalog *TimeSlotCatalog) Slots() []TimeSlot {
	return catalog.slots
}

// Lectures returns the ids of every lecture-duration slot
func (catalog *TimeSlotCatalog) Lectures() []uint64 {
	return catalog.lectures
}

// Labs returns the ids of every lab-duration slot
func (catalog *TimeSlotCatalog) Labs() []uint64 {
	return catalog.labs
}

func (catalog *TimeSlotCatalog) Len() int {
	return len(catalog.slots)
}

// Find looks up the slot starting at start on day with the given duration
func (catalog *TimeSlotCatalog) Find(day time.Weekday, start, duration time.Duration) (uint64, bool) {
	id, ok := catalog.index[slotKey{day, start, duration}]
	return id, ok
}

func (catalog *TimeSlotCatalog) IsLecture(id uint64) bool {
	return catalog.slots[id].Duration == catalog.options.LectureDuration
}

func (catalog *TimeSlotCatalog) IsLab(id uint64) bool {
	return catalog.slots[id].Duration == catalog.options.LabDuration
}

func (catalog *TimeSlotCatalog) Breaks() []Window {
	return catalog.options.Breaks
}

func (catalog *TimeSlotCatalog) Open() time.Duration {
	return catalog.options.Open
}

func (catalog *TimeSlotCatalog) Close() time.Duration {
	return catalog.options.Close
}

func (catalog *TimeSlotCatalog) LectureDuration() time.Duration {
	return catalog.options.LectureDuration
}

func (catalog *TimeSlotCatalog) LabDuration() time.Duration {
	return catalog.options.LabDuration
}

// ParseClock parses a "HH:MM" wall-clock time into an offset from midnight
func ParseClock(clock string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

func FormatClock(offset time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}

// DefaultCatalogOptions mirrors the institution calendar the timetabler was first built for
func DefaultCatalogOptions() CatalogOptions {
	clock := func(hours, minutes int) time.Duration {
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	}

	return CatalogOptions{
		Days:  []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Open:  clock(8, 30),
		Close: clock(16, 45),
		Breaks: []Window{
			{Start: clock(10, 30), End: clock(10, 45)},
			{Start: clock(12, 45), End: clock(13, 30)}, // Lunch
			{Start: clock(15, 30), End: clock(15, 45)},
		},
		LectureDuration: time.Hour,
		LabDuration:     2 * time.Hour,
	}
}
