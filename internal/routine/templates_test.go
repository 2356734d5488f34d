package routine

import (
	"strings"
	"testing"

	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndApplyTemplate(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	tpl, err := s.SaveTemplate(t.Context(), model.TemplateDraft{Title: "Deep Work", IconKey: "Brain", DurationText: "2h"})
	require.NoError(t, err)
	assert.Equal(t, 0, tpl.UsageCount)
	assert.Equal(t, model.DateKey("2024-01-02"), tpl.LastUsedDate)

	rec, err := s.ApplyTemplate(t.Context(), "2024-01-05", tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep Work", rec.Title)
	assert.Equal(t, "09:00", rec.ScheduledTime)
	assert.Equal(t, model.RecurrenceNone, rec.Recurrence)
	assert.Equal(t, "2h", rec.DurationText)
	assert.False(t, rec.Completed)

	updated, ok := s.Template(tpl.ID)
	require.True(t, ok)
	assert.Equal(t, 1, updated.UsageCount)

	tasks, err := s.GetRecord(t.Context(), "2024-01-05")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, rec.ID, tasks[0].ID)
}

func TestApplyUnknownTemplate(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	_, err := s.ApplyTemplate(t.Context(), "2024-01-02", "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.False(t, s.HasRecord("2024-01-02"))
}

func TestSaveTemplateMergesEdits(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	tpl, err := s.SaveTemplate(t.Context(), model.TemplateDraft{Title: "Gym", IconKey: "Dumbbell", DurationText: "1h"})
	require.NoError(t, err)

	edited, err := s.SaveTemplate(t.Context(), model.TemplateDraft{ID: tpl.ID, DurationText: "90 min"})
	require.NoError(t, err)
	assert.Equal(t, "Gym", edited.Title)
	assert.Equal(t, "Dumbbell", edited.IconKey)
	assert.Equal(t, "90 min", edited.DurationText)

	_, err = s.SaveTemplate(t.Context(), model.TemplateDraft{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = s.SaveTemplate(t.Context(), model.TemplateDraft{Title: " "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateDeleteNeedsConfirmation(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	tpl, err := s.SaveTemplate(t.Context(), model.TemplateDraft{Title: "Gym"})
	require.NoError(t, err)

	req, ok := s.RequestTemplateDelete(tpl.ID)
	require.True(t, ok)
	assert.Len(t, s.Templates(model.TemplateFilterAll), 1)

	deleted, err := s.ConfirmDelete(t.Context(), req)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, s.Templates(model.TemplateFilterAll))
}

func TestFindTemplateByTitle(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	tpl, err := s.SaveTemplate(t.Context(), model.TemplateDraft{Title: "Deep Work"})
	require.NoError(t, err)

	found, ok := s.FindTemplate("deep work")
	require.True(t, ok)
	assert.Equal(t, tpl.ID, found.ID)
	_, ok = s.FindTemplate("shallow work")
	assert.False(t, ok)
}

func TestProgressStatsAndNavigation(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	assert.Equal(t, model.DateKey("2024-01-02"), s.CurrentDate())

	seed(t, s, "2024-01-02",
		model.TaskRecord{ID: "b", Title: "Read", ScheduledTime: "21:00", DurationText: "30 min"},
		model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00", DurationText: "1h 30m", Completed: true},
		model.TaskRecord{ID: "c", Title: "Walk", ScheduledTime: "12:00", DurationText: "20"},
	)

	p := s.Progress("2024-01-02")
	assert.Equal(t, Progress{Completed: 1, Total: 3, Percent: 33, Minutes: 90}, p)
	assert.Equal(t, "1h 30m", p.TimeLabel())

	next, ok := s.NextPending("2024-01-02")
	require.True(t, ok)
	assert.Equal(t, "Walk", next.Title)

	prompt := s.AdvisoryPrompt("2024-01-02")
	assert.True(t, strings.Contains(prompt, "- Gym (1h 30m) at 07:00"))
	assert.True(t, strings.Contains(prompt, "3 short"))

	for i := 0; i < 9; i++ {
		d := model.DateKey("2024-01-02").AddDays(-i)
		_, err := s.CloseDay(t.Context(), d)
		require.NoError(t, err)
	}
	stats := s.Stats()
	require.Len(t, stats.Recent, 7)
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.Equal(t, 90, stats.TotalMinutes)
	assert.Equal(t, "1.5", stats.TotalHours())
	assert.Equal(t, model.DateKey("2023-12-25"), stats.Recent[6].Date)

	date, tasks, err := s.AdvanceDay(t.Context())
	require.NoError(t, err)
	assert.Equal(t, model.DateKey("2024-01-03"), date)
	assert.Len(t, tasks, 3)
	assert.Equal(t, date, s.CurrentDate())

	_, err = s.SelectDate(t.Context(), "not-a-date")
	assert.ErrorIs(t, err, ErrValidation)
}
