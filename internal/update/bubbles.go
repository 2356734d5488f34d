package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.todayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.todayList.Title = "Routine"
	m.todayList.SetShowHelp(false)
	m.todayList.SetFilteringEnabled(false)

	m.templateList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.templateList.Title = "Templates"
	m.templateList.SetShowHelp(false)
	m.templateList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Done", Width: 7},
		{Title: "Time", Width: 10},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.formInput = textinput.New()
	m.formInput.Prompt = "> "
	m.formInput.Placeholder = "title @09:00 ~30 min #Target"
	m.formInput.CharLimit = 256
	m.formInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.dayProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))

	m.adviceSpinner = spinner.New()
	m.adviceSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.adviceViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	listWidth, listHeight, tableHeight, viewportHeight := densityDimensions(m.uiDensity)
	m.todayList.SetSize(listWidth, listHeight)
	m.templateList.SetSize(listWidth, listHeight)
	m.historyTable.SetHeight(tableHeight)
	m.adviceViewport.Height = viewportHeight

	taskItems := make([]list.Item, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		taskItems = append(taskItems, listItem{
			title:       views.TaskLine(taskItemData(t)),
			description: fmt.Sprintf("%s | %s", t.DurationText, t.Icon()),
		})
	}
	m.todayList.SetItems(taskItems)
	if len(taskItems) > 0 {
		m.todayList.Select(m.Cursor)
	}

	templateItems := make([]list.Item, 0, len(m.Templates))
	for _, tpl := range m.Templates {
		desc := fmt.Sprintf("%s | used %d", tpl.DurationText, tpl.UsageCount)
		if tpl.LastUsedDate != "" {
			desc += " | last " + string(tpl.LastUsedDate)
		}
		templateItems = append(templateItems, listItem{title: tpl.Icon().Glyph() + " " + tpl.Title, description: desc})
	}
	m.templateList.SetItems(templateItems)
	if len(templateItems) > 0 {
		m.templateList.Select(m.TemplateCursor)
	}

	rows := make([]table.Row, 0, len(m.Stats.Recent))
	for _, h := range m.Stats.Recent {
		rows = append(rows, table.Row{
			string(h.Date),
			fmt.Sprintf("%d%%", h.Score),
			fmt.Sprintf("%d/%d", h.CompletedCount, h.TotalTasks),
			model.FormatMinutes(h.TimeSpentMinutes),
		})
	}
	m.historyTable.SetRows(rows)

	m.formInput.Prompt = string(m.Form.Kind) + "> "
	m.formInput.SetValue(m.Form.Input)
	if m.Form.Kind != FormNone {
		m.formInput.Focus()
	} else {
		m.formInput.Blur()
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	if strings.TrimSpace(m.Advice.Text) != "" {
		m.adviceViewport.SetContent(views.RenderMarkdown(m.Advice.Text))
	} else {
		m.adviceViewport.SetContent("")
	}
}

func densityDimensions(level int) (listWidth int, listHeight int, tableHeight int, viewportHeight int) {
	switch level {
	case 2:
		return 60, 14, 12, 14
	case 3:
		return 64, 16, 14, 16
	default:
		return 56, 12, 10, 12
	}
}

func (m *Model) cycleDensity() {
	m.uiDensity++
	if m.uiDensity > 3 {
		m.uiDensity = 1
	}
	m.Status = StatusBar{Text: fmt.Sprintf("density: %d", m.uiDensity)}
}

func taskItemData(t model.TaskRecord) views.TaskItemData {
	return views.TaskItemData{
		ID:        t.ID,
		Title:     t.Title,
		Glyph:     t.Icon().Glyph(),
		Time:      t.ScheduledTime,
		Duration:  t.DurationText,
		Completed: t.Completed,
	}
}
