package routine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifehub/internal/model"
)

func (s *Session) Today() model.DateKey {
	return model.DateKeyOf(s.now())
}

func (s *Session) CurrentDate() model.DateKey {
	return s.current
}

// SelectDate makes date current and returns its (possibly materialized) list.
func (s *Session) SelectDate(ctx context.Context, date model.DateKey) ([]model.TaskRecord, error) {
	if !date.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrValidation, model.ErrInvalidDate, date)
	}
	s.current = date
	return s.GetRecord(ctx, date)
}

func (s *Session) ShiftDate(ctx context.Context, days int) ([]model.TaskRecord, error) {
	return s.SelectDate(ctx, s.current.AddDays(days))
}

// AdvanceDay moves to the day after the current one, as done after a close.
func (s *Session) AdvanceDay(ctx context.Context) (model.DateKey, []model.TaskRecord, error) {
	tasks, err := s.ShiftDate(ctx, 1)
	return s.current, tasks, err
}

// NextPending returns the first incomplete task of date in display order.
func (s *Session) NextPending(date model.DateKey) (model.TaskRecord, bool) {
	for _, t := range model.SortByTime(s.routines[date]) {
		if !t.Completed {
			return t, true
		}
	}
	return model.TaskRecord{}, false
}

// AdvisoryPrompt describes date's list for the advisory service.
func (s *Session) AdvisoryPrompt(date model.DateKey) string {
	var b strings.Builder
	b.WriteString("Act as a productivity expert. Analyze this daily routine:\n")
	for _, t := range s.routines[date] {
		fmt.Fprintf(&b, "- %s (%s) at %s\n", t.Title, t.DurationText, t.ScheduledTime)
	}
	b.WriteString("\nGive me 3 short, direct suggestions to optimize the workflow or the breaks. Be brief.")
	return b.String()
}
