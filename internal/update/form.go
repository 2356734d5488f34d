package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/commands"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Form = FormState{}
		m.Status = StatusBar{Text: "edit cancelled"}
	case "enter":
		m = m.submitForm()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.Form.Input += keyText(msg)
			m.formInput.SetValue(m.Form.Input)
			return m
		}
		var cmd tea.Cmd
		m.formInput.SetValue(m.Form.Input)
		m.formInput, cmd = m.formInput.Update(msg)
		_ = cmd
		m.Form.Input = m.formInput.Value()
	}
	return m
}

// submitForm keeps the form open on input the store rejects. A failed save
// closes it like a successful one; the change stays in memory.
func (m Model) submitForm() Model {
	parsed, err := commands.Parse("add " + m.Form.Input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	draft := parsed.Add.Draft

	var msg string
	switch m.Form.Kind {
	case FormAddTask:
		var rec model.TaskRecord
		rec, err = m.session.AddTask(m.ctx, m.Date, draft)
		msg = fmt.Sprintf("added: %s at %s", rec.Title, rec.ScheduledTime)
	case FormEditTask:
		var found bool
		found, err = m.session.EditTask(m.ctx, m.Date, m.Form.TargetID, draftPatch(draft))
		if err == nil && !found {
			err = fmt.Errorf("task %s no longer exists", m.Form.TargetID)
		}
		msg = fmt.Sprintf("updated: %s", draft.Title)
	case FormNewTemplate, FormEditTemplate:
		var tpl model.TaskTemplate
		tpl, err = m.session.SaveTemplate(m.ctx, model.TemplateDraft{
			ID:           m.Form.TargetID,
			Title:        draft.Title,
			IconKey:      draft.IconKey,
			DurationText: draft.DurationText,
		})
		msg = fmt.Sprintf("saved template: %s", tpl.Title)
	default:
		m.Form = FormState{}
		return m
	}

	if err != nil && errors.Is(err, routine.ErrValidation) {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Form = FormState{}
	m.refresh()
	m.replan()
	if err != nil {
		m.reportError(err)
		return m
	}
	m.Status = StatusBar{Text: msg}
	return m
}

// draftPatch turns a re-entered form line into an edit. Time and icon are
// only changed when given; the duration always comes from the line.
func draftPatch(d model.TaskDraft) model.TaskPatch {
	patch := model.TaskPatch{
		Title:        &d.Title,
		DurationText: &d.DurationText,
	}
	if d.ScheduledTime != "" {
		patch.ScheduledTime = &d.ScheduledTime
	}
	if d.IconKey != "" {
		patch.IconKey = &d.IconKey
	}
	return patch
}

func (m Model) renderFormIfActive(kinds ...FormKind) string {
	for _, k := range kinds {
		if m.Form.Kind == k && k != FormNone {
			return strings.TrimRight(m.formInput.View(), " ")
		}
	}
	return ""
}
