package mcp

import "github.com/sandeepkv93/lifehub/internal/model"

type DateParams struct {
	Date string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
}

type AddTaskParams struct {
	Date     string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	Title    string `json:"title" jsonschema:"task title"`
	Time     string `json:"time,omitempty" jsonschema:"scheduled time HH:MM, defaults to 09:00"`
	Duration string `json:"duration,omitempty" jsonschema:"free-text duration such as 45 min or 1h 30m"`
	Icon     string `json:"icon,omitempty" jsonschema:"icon key such as Brain or Dumbbell"`
}

type EditTaskParams struct {
	Date      string  `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	ID        string  `json:"id" jsonschema:"task id from get_record"`
	Title     *string `json:"title,omitempty"`
	Time      *string `json:"time,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type TaskRefParams struct {
	Date string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	ID   string `json:"id" jsonschema:"task id from get_record"`
}

type DeleteTaskParams struct {
	Date    string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	ID      string `json:"id" jsonschema:"task id from get_record"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete"`
}

type ApplyTemplateParams struct {
	Date     string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD, defaults to today"`
	Template string `json:"template" jsonschema:"template id or title"`
}

type ListTemplatesParams struct {
	Filter string `json:"filter,omitempty" jsonschema:"all, recent or popular"`
}

type EmptyParams struct{}

type ProgressResponse struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Minutes   int    `json:"minutes"`
	TimeLabel string `json:"time_label"`
}

type RecordResponse struct {
	Date     string             `json:"date"`
	Tasks    []model.TaskRecord `json:"tasks"`
	Progress ProgressResponse   `json:"progress"`
}

type TaskResponse struct {
	Task model.TaskRecord `json:"task"`
}

// Unknown ids are reported with found=false rather than an error so that
// retries are safe.
type ToggleResponse struct {
	ID        string `json:"id"`
	Found     bool   `json:"found"`
	Completed bool   `json:"completed"`
}

type EditResponse struct {
	Found bool             `json:"found"`
	Task  model.TaskRecord `json:"task"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Found   bool   `json:"found"`
	Title   string `json:"title"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type SummaryResponse struct {
	Summary model.DayClosureSummary `json:"summary"`
}

type HistoryResponse struct {
	History []model.DayClosureSummary `json:"history"`
}

type StatsResponse struct {
	Recent         []model.DayClosureSummary `json:"recent"`
	TotalCompleted int                       `json:"total_completed"`
	TotalHours     string                    `json:"total_hours"`
}

type TemplatesResponse struct {
	Templates []model.TaskTemplate `json:"templates"`
}

type AdviceResponse struct {
	Date   string `json:"date"`
	Advice string `json:"advice"`
}
