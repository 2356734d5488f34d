package routine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifehub/internal/model"
)

func (s *Session) Templates(filter model.TemplateFilter) []model.TaskTemplate {
	return model.FilterTemplates(s.templates, filter)
}

func (s *Session) Template(id string) (model.TaskTemplate, bool) {
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.TaskTemplate{}, false
}

// FindTemplate matches by id first, then by case-insensitive title.
func (s *Session) FindTemplate(ref string) (model.TaskTemplate, bool) {
	if t, ok := s.Template(ref); ok {
		return t, true
	}
	ref = strings.TrimSpace(ref)
	for _, t := range s.templates {
		if strings.EqualFold(t.Title, ref) {
			return t, true
		}
	}
	return model.TaskTemplate{}, false
}

// ApplyTemplate appends a task built from the template to date and records
// the use on the template (usage count plus one, last used today).
func (s *Session) ApplyTemplate(ctx context.Context, date model.DateKey, templateID string) (model.TaskRecord, error) {
	idx := -1
	for i, t := range s.templates {
		if t.ID == templateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.TaskRecord{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, templateID)
	}
	if !date.IsValid() {
		return model.TaskRecord{}, fmt.Errorf("%w: %w: %q", ErrValidation, model.ErrInvalidDate, date)
	}

	s.templates[idx].UsageCount++
	s.templates[idx].LastUsedDate = s.Today()
	tplErr := s.persistTemplates(ctx)

	if _, ok := s.routines[date]; !ok {
		if _, err := s.materialize(ctx, date); err != nil {
			s.logger.Warn("materialize before template not persisted", "date", date, "error", err)
		}
	}
	rec := s.templates[idx].Task(s.newID())
	s.routines[date] = append(s.routines[date], rec)
	if err := s.persistRoutines(ctx); err != nil {
		return rec, err
	}
	return rec, tplErr
}

// SaveTemplate creates a template when draft.ID is empty, otherwise merges
// the non-empty draft fields into the existing one.
func (s *Session) SaveTemplate(ctx context.Context, draft model.TemplateDraft) (model.TaskTemplate, error) {
	if draft.ID == "" {
		if err := draft.Validate(); err != nil {
			return model.TaskTemplate{}, err
		}
		tpl := model.TaskTemplate{
			ID:           s.newID(),
			Title:        strings.TrimSpace(draft.Title),
			IconKey:      draft.IconKey,
			DurationText: draft.DurationText,
			UsageCount:   0,
			LastUsedDate: s.Today(),
		}
		if tpl.IconKey == "" {
			tpl.IconKey = string(model.IconTarget)
		}
		s.templates = append(s.templates, tpl)
		return tpl, s.persistTemplates(ctx)
	}

	for i := range s.templates {
		if s.templates[i].ID != draft.ID {
			continue
		}
		if title := strings.TrimSpace(draft.Title); title != "" {
			s.templates[i].Title = title
		}
		if draft.IconKey != "" {
			s.templates[i].IconKey = draft.IconKey
		}
		if draft.DurationText != "" {
			s.templates[i].DurationText = draft.DurationText
		}
		return s.templates[i], s.persistTemplates(ctx)
	}
	return model.TaskTemplate{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, draft.ID)
}

func (s *Session) deleteTemplate(ctx context.Context, id string) (bool, error) {
	for i, t := range s.templates {
		if t.ID == id {
			s.templates = append(s.templates[:i:i], s.templates[i+1:]...)
			return true, s.persistTemplates(ctx)
		}
	}
	return false, nil
}
