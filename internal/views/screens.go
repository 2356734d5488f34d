package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID        string
	Title     string
	Glyph     string
	Time      string
	Duration  string
	Completed bool
}

type TodayPanelData struct {
	Date         string
	IsToday      bool
	ListView     string
	Items        []TaskItemData
	SelectedID   string
	ProgressView string
	Completed    int
	Total        int
	Percent      int
	TimeLabel    string
	FormView     string
}

type StatsDayData struct {
	Date      string
	Score     int
	Completed int
	Total     int
	Minutes   string
}

type StatsPanelData struct {
	TableView      string
	Days           []StatsDayData
	TotalCompleted int
	TotalHours     string
}

type TemplateItemData struct {
	ID         string
	Title      string
	Glyph      string
	Duration   string
	UsageCount int
	LastUsed   string
}

type TemplatesPanelData struct {
	Filter     string
	ListView   string
	Items      []TemplateItemData
	SelectedID string
	TargetDate string
	FormView   string
}

type ZenPanelData struct {
	Date         string
	Task         *TaskItemData
	ProgressView string
	Percent      int
	Remaining    int
}

type ConfirmData struct {
	Kind  string
	Title string
}

type AdvisorPanelData struct {
	Date        string
	Loading     bool
	SpinnerView string
	Body        string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	label := data.Date
	if data.IsToday {
		label += " (today)"
	}
	b.WriteString(fmt.Sprintf("routine: %s\n", label))
	b.WriteString(fmt.Sprintf("progress: %s %d/%d %d%% | time: %s\n", data.ProgressView, data.Completed, data.Total, data.Percent, data.TimeLabel))
	b.WriteString("actions: [space]done [a]add [e]edit [d]delete [h/l]day [t]today [c]close\n")
	if data.FormView != "" {
		b.WriteString(data.FormView + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("\n(no tasks: press [a] to add one)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

// TaskLine is the single-line form of a task used by list items and the CLI.
func TaskLine(item TaskItemData) string {
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	return fmt.Sprintf("%s %s %s %s", check, item.Time, item.Glyph, item.Title)
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("stats:\n")
	b.WriteString(fmt.Sprintf("completed: %d | hours: %s\n", data.TotalCompleted, data.TotalHours))
	if len(data.Days) == 0 {
		b.WriteString("(no closed days yet: press [c] on the routine view)")
		return b.String()
	}
	b.WriteString(data.TableView + "\n")
	b.WriteString("\nlast days:\n")
	for _, d := range data.Days {
		b.WriteString(fmt.Sprintf("%s %s %3d%% %d/%d %s\n", d.Date, scoreBar(d.Score, 10), d.Score, d.Completed, d.Total, d.Minutes))
	}
	return strings.TrimSpace(b.String())
}

func RenderTemplatesPanel(data TemplatesPanelData) string {
	var b strings.Builder
	b.WriteString("templates:\n")
	b.WriteString(fmt.Sprintf("filter: %s | target: %s\n", data.Filter, data.TargetDate))
	b.WriteString("actions: [enter]apply [f]filter [n]new [e]edit [d]delete\n")
	if data.FormView != "" {
		b.WriteString(data.FormView + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("\n(no templates: press [n] to create one)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderZenPanel(data ZenPanelData) string {
	var b strings.Builder
	b.WriteString("zen:\n")
	b.WriteString(fmt.Sprintf("date: %s\n", data.Date))
	if data.Task == nil {
		b.WriteString("\nall done for today\n")
	} else {
		b.WriteString(fmt.Sprintf("\nnow: %s %s\n", data.Task.Glyph, data.Task.Title))
		b.WriteString(fmt.Sprintf("at %s for %s\n", data.Task.Time, data.Task.Duration))
		b.WriteString(fmt.Sprintf("remaining: %d\n", data.Remaining))
	}
	b.WriteString(fmt.Sprintf("\n%s %d%%\n", data.ProgressView, data.Percent))
	b.WriteString("actions: [space]complete [esc]back")
	return b.String()
}

func RenderConfirm(data ConfirmData) string {
	if data.Title == "" {
		return ""
	}
	return fmt.Sprintf("delete %s %q? [y]es [n]o", data.Kind, data.Title)
}

func RenderAdvisorPanel(data AdvisorPanelData) string {
	if data.Loading {
		return fmt.Sprintf("advice for %s:\n%s thinking...", data.Date, data.SpinnerView)
	}
	if strings.TrimSpace(data.Body) == "" {
		return ""
	}
	return fmt.Sprintf("advice for %s:\n%s", data.Date, data.Body)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func scoreBar(score, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
