package routine

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/lifehub/internal/model"
)

// GetRecord returns the task list for date, materializing it through
// rollover when the date has no entry yet. The returned slice is a copy.
// A PersistenceError may accompany a valid list.
func (s *Session) GetRecord(ctx context.Context, date model.DateKey) ([]model.TaskRecord, error) {
	if tasks, ok := s.routines[date]; ok {
		return model.CloneTasks(tasks), nil
	}
	tasks, err := s.materialize(ctx, date)
	return model.CloneTasks(tasks), err
}

// SetRecord replaces the whole list for date.
func (s *Session) SetRecord(ctx context.Context, date model.DateKey, tasks []model.TaskRecord) error {
	if !date.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, model.ErrInvalidDate, date)
	}
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task id %q", ErrValidation, t.ID)
		}
		seen[t.ID] = true
	}
	stored := model.CloneTasks(tasks)
	if stored == nil {
		stored = []model.TaskRecord{}
	}
	s.routines[date] = stored
	return s.persistRoutines(ctx)
}

// materialize stores a clone of the most recent earlier date's list under
// date, with fresh ids and every task incomplete, or an empty list when no
// earlier date exists.
func (s *Session) materialize(ctx context.Context, date model.DateKey) ([]model.TaskRecord, error) {
	var prev model.DateKey
	for d := range s.routines {
		if d.Before(date) && d > prev {
			prev = d
		}
	}
	tasks := []model.TaskRecord{}
	if prev != "" {
		for _, t := range s.routines[prev] {
			clone := t
			clone.ID = s.newID()
			clone.Completed = false
			tasks = append(tasks, clone)
		}
		s.logger.Info("rolled over routine", "date", date, "from", prev, "tasks", len(tasks))
	} else {
		s.logger.Info("started empty routine", "date", date)
	}
	s.routines[date] = tasks
	return tasks, s.persistRoutines(ctx)
}

// ToggleCompletion flips one task. Unknown dates and ids are a no-op and
// report false.
func (s *Session) ToggleCompletion(ctx context.Context, date model.DateKey, id string) (bool, error) {
	idx, ok := s.indexOf(date, id)
	if !ok {
		return false, nil
	}
	tasks := s.routines[date]
	tasks[idx].Completed = !tasks[idx].Completed
	return true, s.persistRoutines(ctx)
}

// AddTask appends a new incomplete task, materializing the date first.
func (s *Session) AddTask(ctx context.Context, date model.DateKey, draft model.TaskDraft) (model.TaskRecord, error) {
	if err := draft.Validate(); err != nil {
		return model.TaskRecord{}, err
	}
	if !date.IsValid() {
		return model.TaskRecord{}, fmt.Errorf("%w: %w: %q", ErrValidation, model.ErrInvalidDate, date)
	}
	if _, ok := s.routines[date]; !ok {
		if _, err := s.materialize(ctx, date); err != nil {
			s.logger.Warn("materialize before add not persisted", "date", date, "error", err)
		}
	}
	rec := draft.Record(s.newID())
	s.routines[date] = append(s.routines[date], rec)
	return rec, s.persistRoutines(ctx)
}

// EditTask merges patch into one task. Unknown dates and ids report false.
// An empty patch reports whether the task exists and writes nothing.
func (s *Session) EditTask(ctx context.Context, date model.DateKey, id string, patch model.TaskPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}
	idx, ok := s.indexOf(date, id)
	if !ok || patch.IsEmpty() {
		return ok, nil
	}
	tasks := s.routines[date]
	tasks[idx] = patch.Apply(tasks[idx])
	return true, s.persistRoutines(ctx)
}

func (s *Session) deleteTask(ctx context.Context, date model.DateKey, id string) (bool, error) {
	idx, ok := s.indexOf(date, id)
	if !ok {
		return false, nil
	}
	tasks := s.routines[date]
	s.routines[date] = append(tasks[:idx:idx], tasks[idx+1:]...)
	return true, s.persistRoutines(ctx)
}

// Task looks up one task without materializing.
func (s *Session) Task(date model.DateKey, id string) (model.TaskRecord, bool) {
	idx, ok := s.indexOf(date, id)
	if !ok {
		return model.TaskRecord{}, false
	}
	return s.routines[date][idx], true
}

func (s *Session) indexOf(date model.DateKey, id string) (int, bool) {
	tasks, ok := s.routines[date]
	if !ok {
		return 0, false
	}
	for i, t := range tasks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}
