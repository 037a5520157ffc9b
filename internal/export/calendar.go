package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

const productId = "-//evotimetabling//weekly timetable//EN"

// WriteCalendar renders every record as a weekly recurring iCalendar event. The first occurrence of each
// event falls in the week starting on weekStart
func WriteCalendar(w io.Writer, records []model.Record, weekStart time.Time, weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("a calendar must span at least one week: %d", weeks)
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(productId)

	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	stamp := time.Now().UTC()
	for _, record := range records {
		day := start.AddDate(0, 0, (int(record.Slot.Day)-int(start.Weekday())+7)%7)

		event := calendar.AddEvent(uuid.NewString())
		event.SetDtStampTime(stamp)
		event.SetStartAt(day.Add(record.Slot.Start))
		event.SetEndAt(day.Add(record.Slot.End()))
		event.SetSummary(summary(record))
		event.SetLocation(record.Room)
		event.SetDescription(fmt.Sprintf("%v (%v)\nProfessor: %v\nDepartment: %v", record.Course, record.CourseCode, record.Professor, record.Department))
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", weeks))
	}

	if err := calendar.SerializeTo(w); err != nil {
		return fmt.Errorf("cannot write calendar: %w", err)
	}
	return nil
}

func summary(record model.Record) string {
	parts := []string{record.Course, record.Division}
	if record.Batch != model.AllBatchesLabel {
		parts = append(parts, record.Batch)
	}
	return strings.Join(parts, " · ")
}
