package routine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/storage"
	"github.com/sandeepkv93/lifehub/internal/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock(day string) func() time.Time {
	t, err := time.ParseInLocation(model.DateLayout, day, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(10 * time.Hour) }
}

func newSession(t *testing.T, kv storage.KV) *Session {
	t.Helper()
	s, err := Open(t.Context(), kv, WithIDGenerator(sequentialIDs()), WithClock(fixedClock("2024-01-02")))
	require.NoError(t, err)
	return s
}

func seed(t *testing.T, s *Session, date model.DateKey, tasks ...model.TaskRecord) {
	t.Helper()
	require.NoError(t, s.SetRecord(t.Context(), date, tasks))
}

func TestRolloverClonesMostRecentPriorDate(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01",
		model.TaskRecord{ID: "old-1", Title: "Gym", ScheduledTime: "07:00", DurationText: "1h", IconKey: "Dumbbell", Completed: true, Recurrence: model.RecurrenceDaily},
		model.TaskRecord{ID: "old-2", Title: "Read", ScheduledTime: "21:00", DurationText: "30 min", IconKey: "BookOpen", Recurrence: model.RecurrenceNone},
	)
	seed(t, s, "2023-12-30", model.TaskRecord{ID: "older", Title: "Stale", ScheduledTime: "09:00", Recurrence: model.RecurrenceNone})

	got, err := s.GetRecord(t.Context(), "2024-01-03")
	require.NoError(t, err)
	require.Len(t, got, 2)

	prior := s.routines["2024-01-01"]
	for i, task := range got {
		assert.NotEqual(t, prior[i].ID, task.ID)
		assert.False(t, task.Completed)
		assert.Equal(t, prior[i].Title, task.Title)
		assert.Equal(t, prior[i].ScheduledTime, task.ScheduledTime)
		assert.Equal(t, prior[i].DurationText, task.DurationText)
		assert.Equal(t, prior[i].IconKey, task.IconKey)
		assert.Equal(t, prior[i].Recurrence, task.Recurrence)
	}
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.True(t, prior[0].Completed, "source list must not change")
}

func TestRolloverWithoutPriorDateIsEmpty(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-02-01", model.TaskRecord{ID: "later", Title: "Future", ScheduledTime: "09:00"})

	got, err := s.GetRecord(t.Context(), "2024-01-15")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, s.HasRecord("2024-01-15"))
}

func TestGetRecordIsIdempotent(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01", model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00"})

	first, err := s.GetRecord(t.Context(), "2024-01-02")
	require.NoError(t, err)
	second, err := s.GetRecord(t.Context(), "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCloseDayScores(t *testing.T) {
	cases := []struct {
		total, done, want int
	}{
		{7, 5, 71},
		{3, 2, 67},
		{0, 0, 0},
	}
	for _, tc := range cases {
		s := newSession(t, storage.NewMemoryKV())
		tasks := make([]model.TaskRecord, 0, tc.total)
		for i := 0; i < tc.total; i++ {
			tasks = append(tasks, model.TaskRecord{ID: fmt.Sprintf("t%d", i), Title: "x", ScheduledTime: "09:00", Completed: i < tc.done})
		}
		seed(t, s, "2024-01-01", tasks...)
		sum, err := s.CloseDay(t.Context(), "2024-01-01")
		require.NoError(t, err)
		assert.Equal(t, tc.want, sum.Score, "%d of %d", tc.done, tc.total)
	}
}

func TestCloseDayTimeSpentCountsCompletedOnly(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01",
		model.TaskRecord{ID: "a", Title: "a", ScheduledTime: "09:00", DurationText: "1h", Completed: true},
		model.TaskRecord{ID: "b", Title: "b", ScheduledTime: "09:00", DurationText: "45 min", Completed: true},
		model.TaskRecord{ID: "c", Title: "c", ScheduledTime: "09:00", DurationText: "30", Completed: true},
		model.TaskRecord{ID: "d", Title: "d", ScheduledTime: "09:00", DurationText: "3h"},
	)
	sum, err := s.CloseDay(t.Context(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 135, sum.TimeSpentMinutes)
}

func TestCloseDayTwiceKeepsOneEntry(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2023-12-31", model.TaskRecord{ID: "x", Title: "x", ScheduledTime: "09:00", Completed: true})
	seed(t, s, "2024-01-01",
		model.TaskRecord{ID: "a", Title: "a", ScheduledTime: "09:00", Completed: true},
		model.TaskRecord{ID: "b", Title: "b", ScheduledTime: "09:00"},
	)
	other, err := s.CloseDay(t.Context(), "2023-12-31")
	require.NoError(t, err)

	first, err := s.CloseDay(t.Context(), "2024-01-01")
	require.NoError(t, err)
	second, err := s.CloseDay(t.Context(), "2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	history := s.ListHistory()
	require.Len(t, history, 2)
	assert.Equal(t, other, history[0])
	assert.Equal(t, second, history[1])
}

func TestCloseDayAbsentDateDoesNotMaterialize(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01", model.TaskRecord{ID: "a", Title: "a", ScheduledTime: "09:00"})

	sum, err := s.CloseDay(t.Context(), "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, model.DayClosureSummary{Date: "2024-01-05"}, sum)
	assert.False(t, s.HasRecord("2024-01-05"))
}

func TestCloseDayLeavesTasksUntouched(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01", model.TaskRecord{ID: "a", Title: "a", ScheduledTime: "09:00", Completed: true})
	before, err := s.GetRecord(t.Context(), "2024-01-01")
	require.NoError(t, err)
	_, err = s.CloseDay(t.Context(), "2024-01-01")
	require.NoError(t, err)
	after, err := s.GetRecord(t.Context(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMutationsOnUnknownTargetsAreNoops(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSession(t, kv)
	seed(t, s, "2024-01-01", model.TaskRecord{ID: "a", Title: "a", ScheduledTime: "09:00"})
	stored, _, err := kv.Read(t.Context(), storage.KeyRoutines)
	require.NoError(t, err)

	ok, err := s.ToggleCompletion(t.Context(), "2024-01-01", "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	title := "renamed"
	ok, err = s.EditTask(t.Context(), "2024-01-01", "missing", model.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ToggleCompletion(t.Context(), "2024-03-03", "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.HasRecord("2024-03-03"))

	_, ok = s.RequestDelete("2024-01-01", "missing")
	assert.False(t, ok)

	after, _, err := kv.Read(t.Context(), storage.KeyRoutines)
	require.NoError(t, err)
	assert.JSONEq(t, string(stored), string(after))
}

func TestToggleEditAndAdd(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	rec, err := s.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "Gym", ScheduledTime: "07:00", DurationText: "1h", IconKey: "Dumbbell"})
	require.NoError(t, err)
	assert.False(t, rec.Completed)
	assert.NotEmpty(t, rec.ID)

	ok, err := s.ToggleCompletion(t.Context(), "2024-01-02", rec.ID)
	require.NoError(t, err)
	require.True(t, ok)
	got, _ := s.Task("2024-01-02", rec.ID)
	assert.True(t, got.Completed)

	duration := "90 min"
	ok, err = s.EditTask(t.Context(), "2024-01-02", rec.ID, model.TaskPatch{DurationText: &duration})
	require.NoError(t, err)
	require.True(t, ok)
	got, _ = s.Task("2024-01-02", rec.ID)
	assert.Equal(t, "90 min", got.DurationText)
	assert.Equal(t, "Gym", got.Title)
	assert.True(t, got.Completed)
}

func TestAddTaskMaterializesFirst(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-01", model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00"})

	_, err := s.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "Read"})
	require.NoError(t, err)
	got, err := s.GetRecord(t.Context(), "2024-01-02")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Gym", got[0].Title)
	assert.Equal(t, "Read", got[1].Title)
}

func TestValidationFailuresChangeNothing(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	_, err := s.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "  "})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, s.HasRecord("2024-01-02"))

	seed(t, s, "2024-01-02", model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00"})
	empty := ""
	ok, err := s.EditTask(t.Context(), "2024-01-02", "a", model.TaskPatch{Title: &empty})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, ok)
	got, _ := s.Task("2024-01-02", "a")
	assert.Equal(t, "Gym", got.Title)
}

func TestTwoStepDelete(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-02",
		model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00"},
		model.TaskRecord{ID: "b", Title: "Read", ScheduledTime: "21:00"},
	)

	_, err := s.ConfirmDelete(t.Context(), DeleteRequest{Kind: DeleteTask, Date: "2024-01-02", ID: "a", Title: "Gym"})
	assert.ErrorIs(t, err, ErrNoPendingDelete)

	req, ok := s.RequestDelete("2024-01-02", "a")
	require.True(t, ok)
	assert.Equal(t, "Gym", req.Title)
	got, _ := s.GetRecord(t.Context(), "2024-01-02")
	assert.Len(t, got, 2, "request alone must not delete")

	s.CancelDelete()
	_, err = s.ConfirmDelete(t.Context(), req)
	assert.ErrorIs(t, err, ErrNoPendingDelete)

	req, _ = s.RequestDelete("2024-01-02", "a")
	deleted, err := s.ConfirmDelete(t.Context(), req)
	require.NoError(t, err)
	assert.True(t, deleted)
	got, _ = s.GetRecord(t.Context(), "2024-01-02")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	_, pending := s.PendingDelete()
	assert.False(t, pending)
}

func TestScenarioRolloverCompleteClose(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSession(t, kv)
	seed(t, s, "2024-01-01",
		model.TaskRecord{ID: "gym", Title: "Gym", ScheduledTime: "07:00", DurationText: "1h", Completed: true, Recurrence: model.RecurrenceNone},
		model.TaskRecord{ID: "read", Title: "Read", ScheduledTime: "21:00", DurationText: "30 min", Recurrence: model.RecurrenceNone},
	)

	tasks, err := s.SelectDate(t.Context(), "2024-01-02")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.False(t, task.Completed)
		assert.NotEqual(t, "gym", task.ID)
		assert.NotEqual(t, "read", task.ID)
	}

	ok, err := s.ToggleCompletion(t.Context(), "2024-01-02", tasks[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	sum, err := s.CloseDay(t.Context(), "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, model.DayClosureSummary{Date: "2024-01-02", Score: 50, CompletedCount: 1, TotalTasks: 2, TimeSpentMinutes: 60}, sum)
	assert.Equal(t, []model.DayClosureSummary{sum}, s.ListHistory())

	raw, ok, err := kv.Read(t.Context(), storage.KeyHistory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"date":"2024-01-02","score":50,"completedCount":1,"totalTasks":2,"timeSpent":60}]`, string(raw))
}

func TestReopenRestoresState(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSession(t, kv)
	_, err := s.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "Gym", DurationText: "1h"})
	require.NoError(t, err)
	_, err = s.CloseDay(t.Context(), "2024-01-02")
	require.NoError(t, err)

	reopened := newSession(t, kv)
	got, err := reopened.GetRecord(t.Context(), "2024-01-02")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gym", got[0].Title)
	assert.Len(t, reopened.ListHistory(), 1)
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Write(t.Context(), storage.KeyHistory, []byte(`{not json`)))
	_, err := Open(t.Context(), kv)
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestPersistenceFailureKeepsInMemoryChange(t *testing.T) {
	kv := &mocks.KV{}
	kv.On("Read", mock.Anything, mock.Anything).Return(nil, false, nil)
	kv.On("Write", mock.Anything, storage.KeyRoutines, mock.Anything).Return(errors.New("disk full"))
	kv.On("Write", mock.Anything, storage.KeyHistory, mock.Anything).Return(nil)

	s := newSession(t, kv)
	rec, err := s.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "Gym"})
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, storage.KeyRoutines, perr.Key)

	got, _ := s.Task("2024-01-02", rec.ID)
	assert.Equal(t, "Gym", got.Title)

	_, err = s.CloseDay(t.Context(), "2024-01-02")
	require.NoError(t, err)
	kv.AssertExpectations(t)
}

func TestEmptyEditWritesNothing(t *testing.T) {
	kv := &mocks.KV{}
	kv.On("Read", mock.Anything, mock.Anything).Return(nil, false, nil)
	kv.On("Write", mock.Anything, storage.KeyRoutines, mock.Anything).Return(nil).Once()

	s := newSession(t, kv)
	seed(t, s, "2024-01-02", model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00", Recurrence: model.RecurrenceNone})

	ok, err := s.EditTask(t.Context(), "2024-01-02", "a", model.TaskPatch{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.EditTask(t.Context(), "2024-01-02", "missing", model.TaskPatch{})
	require.NoError(t, err)
	assert.False(t, ok)
	kv.AssertNumberOfCalls(t, "Write", 1)
}

func TestDatesAscending(t *testing.T) {
	s := newSession(t, storage.NewMemoryKV())
	seed(t, s, "2024-01-03")
	seed(t, s, "2023-12-31")
	seed(t, s, "2024-01-01")
	assert.Equal(t, []model.DateKey{"2023-12-31", "2024-01-01", "2024-01-03"}, s.Dates())
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSession(t, kv)
	doc := map[model.DateKey][]model.TaskRecord{
		"2024-01-02": {{ID: "ext", Title: "External", ScheduledTime: "10:00", Recurrence: model.RecurrenceNone}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, kv.Write(context.Background(), storage.KeyRoutines, raw))

	require.NoError(t, s.Reload(t.Context()))
	got, ok := s.Task("2024-01-02", "ext")
	require.True(t, ok)
	assert.Equal(t, "External", got.Title)
}

func TestReloadKeepsStagedDelete(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSession(t, kv)
	seed(t, s, "2024-01-02", model.TaskRecord{ID: "a", Title: "Gym", ScheduledTime: "07:00"})

	req, ok := s.RequestDelete("2024-01-02", "a")
	require.True(t, ok)
	require.NoError(t, s.Reload(t.Context()))

	deleted, err := s.ConfirmDelete(t.Context(), req)
	require.NoError(t, err)
	assert.True(t, deleted)
}
