package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/views"
)

func (m Model) handleStatsKey(msg tea.KeyMsg) Model {
	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	_ = cmd
	return m
}

func (m Model) renderStatsView() string {
	days := make([]views.StatsDayData, 0, len(m.Stats.Recent))
	for _, h := range m.Stats.Recent {
		days = append(days, views.StatsDayData{
			Date:      string(h.Date),
			Score:     h.Score,
			Completed: h.CompletedCount,
			Total:     h.TotalTasks,
			Minutes:   model.FormatMinutes(h.TimeSpentMinutes),
		})
	}
	return views.RenderStatsPanel(views.StatsPanelData{
		TableView:      m.historyTable.View(),
		Days:           days,
		TotalCompleted: m.Stats.TotalCompleted,
		TotalHours:     m.Stats.TotalHours(),
	})
}
