package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidTemplateFilter = errors.New("model: invalid template filter")

type TaskTemplate struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	IconKey      string  `json:"iconName"`
	DurationText string  `json:"duration"`
	UsageCount   int     `json:"usageCount"`
	LastUsedDate DateKey `json:"lastUsed"`
}

func (t TaskTemplate) Icon() Icon {
	return ParseIcon(t.IconKey)
}

// Task builds the record a template application appends to a date.
func (t TaskTemplate) Task(id string) TaskRecord {
	return TaskRecord{
		ID:            id,
		Title:         t.Title,
		ScheduledTime: DefaultScheduledTime,
		DurationText:  t.DurationText,
		IconKey:       t.IconKey,
		Completed:     false,
		Recurrence:    RecurrenceNone,
	}
}

// TemplateDraft creates a template when ID is empty and merges into the
// existing one otherwise.
type TemplateDraft struct {
	ID           string
	Title        string
	IconKey      string
	DurationText string
}

func (d TemplateDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: template title is required", ErrValidation)
	}
	return nil
}

type TemplateFilter string

const (
	TemplateFilterAll     TemplateFilter = "all"
	TemplateFilterRecent  TemplateFilter = "recent"
	TemplateFilterPopular TemplateFilter = "popular"
)

func (f TemplateFilter) IsValid() bool {
	switch f {
	case TemplateFilterAll, TemplateFilterRecent, TemplateFilterPopular:
		return true
	default:
		return false
	}
}

func ParseTemplateFilter(raw string) (TemplateFilter, error) {
	f := TemplateFilter(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return TemplateFilterAll, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateFilter, raw)
	}
	return f, nil
}

// Next cycles all -> recent -> popular -> all.
func (f TemplateFilter) Next() TemplateFilter {
	switch f {
	case TemplateFilterAll:
		return TemplateFilterRecent
	case TemplateFilterRecent:
		return TemplateFilterPopular
	default:
		return TemplateFilterAll
	}
}

// FilterTemplates returns a sorted copy. "recent" orders by last use,
// "popular" by usage count, both descending and stable.
func FilterTemplates(in []TaskTemplate, f TemplateFilter) []TaskTemplate {
	out := make([]TaskTemplate, len(in))
	copy(out, in)
	switch f {
	case TemplateFilterRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastUsedDate > out[j].LastUsedDate })
	case TemplateFilterPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	}
	return out
}

type DayClosureSummary struct {
	Date             DateKey `json:"date"`
	Score            int     `json:"score"`
	CompletedCount   int     `json:"completedCount"`
	TotalTasks       int     `json:"totalTasks"`
	TimeSpentMinutes int     `json:"timeSpent"`
}

// Summarize computes the closure statistics for a task list. The score is
// the completion percentage rounded half up; an empty list scores 0.
func Summarize(date DateKey, tasks []TaskRecord) DayClosureSummary {
	out := DayClosureSummary{Date: date, TotalTasks: len(tasks)}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		out.CompletedCount++
		out.TimeSpentMinutes += t.Minutes()
	}
	out.Score = Percent(out.CompletedCount, out.TotalTasks)
	return out
}

// Percent is round-half-up of 100*k/n in integer arithmetic, 0 when n is 0.
func Percent(k, n int) int {
	if n <= 0 {
		return 0
	}
	return (200*k + n) / (2 * n)
}
