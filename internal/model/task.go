package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("model: validation failed")
	ErrInvalidRecurrence = errors.New("model: invalid recurrence")
	ErrInvalidClock      = errors.New("model: invalid scheduled time")
)

const (
	DefaultScheduledTime = "09:00"
	DefaultDurationText  = "30 min"
)

// Recurrence is carried on every task but does not influence rollover:
// every task of the source date is cloned regardless of its value.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceInterval Recurrence = "interval"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceInterval:
		return true
	default:
		return false
	}
}

func ParseRecurrence(raw string) (Recurrence, error) {
	r := Recurrence(strings.ToLower(strings.TrimSpace(raw)))
	if r == "" {
		return RecurrenceNone, nil
	}
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, raw)
	}
	return r, nil
}

type TaskRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	ScheduledTime string     `json:"time"`
	DurationText  string     `json:"duration"`
	IconKey       string     `json:"iconName"`
	Completed     bool       `json:"completed"`
	Recurrence    Recurrence `json:"repeat"`
}

// Icon resolves the stored icon key through the closed enumeration.
func (t TaskRecord) Icon() Icon {
	return ParseIcon(t.IconKey)
}

func (t TaskRecord) Minutes() int {
	return ParseDuration(t.DurationText)
}

func (t TaskRecord) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	return TaskDraft{
		Title:         t.Title,
		ScheduledTime: t.ScheduledTime,
		Recurrence:    t.Recurrence,
	}.Validate()
}

// TaskDraft is the caller-supplied data for a new task.
type TaskDraft struct {
	Title         string
	ScheduledTime string
	DurationText  string
	IconKey       string
	Recurrence    Recurrence
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if d.ScheduledTime != "" && !IsClock(d.ScheduledTime) {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidClock, d.ScheduledTime)
	}
	if d.Recurrence != "" && !d.Recurrence.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidRecurrence, d.Recurrence)
	}
	return nil
}

// Record builds a fresh, incomplete task from the draft, filling defaults.
func (d TaskDraft) Record(id string) TaskRecord {
	rec := TaskRecord{
		ID:            id,
		Title:         strings.TrimSpace(d.Title),
		ScheduledTime: d.ScheduledTime,
		DurationText:  d.DurationText,
		IconKey:       d.IconKey,
		Recurrence:    d.Recurrence,
	}
	if rec.ScheduledTime == "" {
		rec.ScheduledTime = DefaultScheduledTime
	}
	if rec.IconKey == "" {
		rec.IconKey = string(IconTarget)
	}
	if rec.Recurrence == "" {
		rec.Recurrence = RecurrenceNone
	}
	return rec
}

// TaskPatch carries a partial edit; nil fields are left untouched.
type TaskPatch struct {
	Title         *string
	ScheduledTime *string
	DurationText  *string
	IconKey       *string
	Recurrence    *Recurrence
	Completed     *bool
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if p.ScheduledTime != nil && !IsClock(*p.ScheduledTime) {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidClock, *p.ScheduledTime)
	}
	if p.Recurrence != nil && !p.Recurrence.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidRecurrence, *p.Recurrence)
	}
	return nil
}

func (p TaskPatch) Apply(t TaskRecord) TaskRecord {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.ScheduledTime != nil {
		t.ScheduledTime = *p.ScheduledTime
	}
	if p.DurationText != nil {
		t.DurationText = *p.DurationText
	}
	if p.IconKey != nil {
		t.IconKey = *p.IconKey
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.ScheduledTime == nil && p.DurationText == nil &&
		p.IconKey == nil && p.Recurrence == nil && p.Completed == nil
}

// IsClock reports whether s is a 24h "HH:MM" time.
func IsClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh < 24 && mm < 60
}

// SortByTime returns a copy ordered by scheduled time. Ties keep stored order.
func SortByTime(tasks []TaskRecord) []TaskRecord {
	out := make([]TaskRecord, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledTime < out[j].ScheduledTime
	})
	return out
}

func CloneTasks(tasks []TaskRecord) []TaskRecord {
	if tasks == nil {
		return nil
	}
	out := make([]TaskRecord, len(tasks))
	copy(out, tasks)
	return out
}
