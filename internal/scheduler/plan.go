package scheduler

import (
	"time"

	"github.com/sandeepkv93/lifehub/internal/model"
)

// PlanDay builds the events for one routine date: a start reminder for each
// incomplete task whose trigger (scheduled time minus lead) is still ahead of
// now, plus a day-change event at the following local midnight.
func PlanDay(date model.DateKey, tasks []model.TaskRecord, lead time.Duration, now time.Time) []Event {
	out := make([]Event, 0, len(tasks)+1)
	for _, t := range model.SortByTime(tasks) {
		if t.Completed {
			continue
		}
		start, ok := date.At(t.ScheduledTime)
		if !ok {
			continue
		}
		at := start.Add(-lead)
		if !at.After(now) {
			continue
		}
		out = append(out, Event{
			ID:     string(date) + "/" + t.ID,
			TaskID: t.ID,
			Title:  t.Title,
			Kind:   KindTaskStart,
			Date:   date,
			At:     at,
		})
	}

	midnight := date.AddDays(1).Time()
	if !midnight.IsZero() && midnight.After(now) {
		out = append(out, Event{
			ID:   string(date) + "/day-change",
			Kind: KindDayChange,
			Date: date,
			At:   midnight,
		})
	}
	return out
}
