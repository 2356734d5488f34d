// Package routine owns the daily record store: per-date task lists,
// rollover of the most recent prior list, day closure into history and
// the task templates.
package routine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/storage"
)

var (
	ErrValidation       = model.ErrValidation
	ErrCorruptDocument  = errors.New("routine: corrupt stored document")
	ErrNoPendingDelete  = errors.New("routine: no matching delete request")
	ErrTemplateNotFound = errors.New("routine: template not found")
)

// PersistenceError reports a failed write. The in-memory change it refers
// to has already been applied and is kept.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("routine: persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Session is the single owner of the record store, history and templates.
// It is not safe for concurrent use.
type Session struct {
	kv     storage.KV
	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	routines  map[model.DateKey][]model.TaskRecord
	history   []model.DayClosureSummary
	templates []model.TaskTemplate
	current   model.DateKey
	pending   *DeleteRequest
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Session) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Open loads the three documents from kv. Missing documents start empty;
// undecodable ones fail with ErrCorruptDocument so they are never
// overwritten by an empty state.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Session, error) {
	if kv == nil {
		return nil, errors.New("routine: nil store")
	}
	s := &Session{
		kv:     kv,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.current = s.Today()
	return s, nil
}

// Reload replaces in-memory state with the stored documents, keeping the
// selected date and any staged delete.
func (s *Session) Reload(ctx context.Context) error {
	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) error {
	routines := make(map[model.DateKey][]model.TaskRecord)
	if err := s.readDocument(ctx, storage.KeyRoutines, &routines); err != nil {
		return err
	}
	var history []model.DayClosureSummary
	if err := s.readDocument(ctx, storage.KeyHistory, &history); err != nil {
		return err
	}
	var templates []model.TaskTemplate
	if err := s.readDocument(ctx, storage.KeyTemplates, &templates); err != nil {
		return err
	}
	if routines == nil {
		routines = make(map[model.DateKey][]model.TaskRecord)
	}
	s.routines = routines
	s.history = history
	s.templates = templates
	s.logger.Debug("session loaded", "dates", len(routines), "history", len(history), "templates", len(templates))
	return nil
}

func (s *Session) readDocument(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("routine: read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, key, err)
	}
	return nil
}

func (s *Session) writeDocument(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	if err := s.kv.Write(ctx, key, payload); err != nil {
		s.logger.Error("persist failed", "key", key, "error", err)
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

func (s *Session) persistRoutines(ctx context.Context) error {
	return s.writeDocument(ctx, storage.KeyRoutines, s.routines)
}

func (s *Session) persistHistory(ctx context.Context) error {
	history := s.history
	if history == nil {
		history = []model.DayClosureSummary{}
	}
	return s.writeDocument(ctx, storage.KeyHistory, history)
}

func (s *Session) persistTemplates(ctx context.Context) error {
	templates := s.templates
	if templates == nil {
		templates = []model.TaskTemplate{}
	}
	return s.writeDocument(ctx, storage.KeyTemplates, templates)
}

// Dates lists the dates that have a stored list, ascending.
func (s *Session) Dates() []model.DateKey {
	out := make([]model.DateKey, 0, len(s.routines))
	for d := range s.routines {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasRecord reports whether date has a stored list, without materializing.
func (s *Session) HasRecord(date model.DateKey) bool {
	_, ok := s.routines[date]
	return ok
}
