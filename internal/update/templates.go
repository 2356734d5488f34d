package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/views"
)

func (m Model) handleTemplatesKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.TemplateCursor = clampCursor(m.TemplateCursor+1, len(m.Templates))
	case "k", "up":
		m.TemplateCursor = clampCursor(m.TemplateCursor-1, len(m.Templates))
	case "enter":
		tpl, ok := m.selectedTemplate()
		if !ok {
			return m
		}
		m.applyTemplate(tpl)
	case "f":
		m.TemplateFilter = m.TemplateFilter.Next()
		m.TemplateCursor = 0
		m.refresh()
		m.Status = StatusBar{Text: fmt.Sprintf("template filter: %s", m.TemplateFilter)}
	case "n":
		m.Form = FormState{Kind: FormNewTemplate}
		m.Status = StatusBar{Text: "new template: title ~duration #icon"}
	case "e":
		tpl, ok := m.selectedTemplate()
		if !ok {
			return m
		}
		m.Form = FormState{Kind: FormEditTemplate, TargetID: tpl.ID, Input: templateFormValue(tpl)}
	case "d":
		tpl, ok := m.selectedTemplate()
		if !ok {
			return m
		}
		if req, ok := m.session.RequestTemplateDelete(tpl.ID); ok {
			m.Confirm = &req
		}
	}
	return m
}

func (m *Model) applyTemplate(tpl model.TaskTemplate) {
	rec, err := m.session.ApplyTemplate(m.ctx, m.Date, tpl.ID)
	m.refresh()
	m.replan()
	if err != nil {
		m.reportError(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added %s to %s", rec.Title, m.Date)}
}

func (m Model) renderTemplatesView() string {
	items := make([]views.TemplateItemData, 0, len(m.Templates))
	for _, tpl := range m.Templates {
		items = append(items, views.TemplateItemData{
			ID:         tpl.ID,
			Title:      tpl.Title,
			Glyph:      tpl.Icon().Glyph(),
			Duration:   tpl.DurationText,
			UsageCount: tpl.UsageCount,
			LastUsed:   string(tpl.LastUsedDate),
		})
	}
	selected := ""
	if tpl, ok := m.selectedTemplate(); ok {
		selected = tpl.ID
	}
	return views.RenderTemplatesPanel(views.TemplatesPanelData{
		Filter:     string(m.TemplateFilter),
		ListView:   m.templateList.View(),
		Items:      items,
		SelectedID: selected,
		TargetDate: string(m.Date),
		FormView:   m.renderFormIfActive(FormNewTemplate, FormEditTemplate),
	})
}

func templateFormValue(tpl model.TaskTemplate) string {
	parts := []string{tpl.Title}
	if strings.TrimSpace(tpl.DurationText) != "" {
		parts = append(parts, "~"+tpl.DurationText)
	}
	parts = append(parts, "#"+tpl.Icon().String())
	return strings.Join(parts, " ")
}
