package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_record",
		Description: "Get the task list for a date, creating it from the latest earlier list if needed",
	}, t.getRecord)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_task",
		Description: "Append a new incomplete task to a date",
	}, t.addTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_task",
		Description: "Change fields of one task; omitted fields are kept. Unknown ids return found=false",
	}, t.editTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_task",
		Description: "Flip the completed flag of one task. Unknown ids return found=false",
	}, t.toggleTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete one task; without confirm=true only describes what would be deleted",
	}, t.deleteTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "apply_template",
		Description: "Append a task built from a template to a date",
	}, t.applyTemplate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_day",
		Description: "Record the completion summary of a date in history",
	}, t.closeDay)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_history",
		Description: "List day summaries in stored order",
	}, t.listHistory)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_stats",
		Description: "Summaries of the last seven closed days with totals",
	}, t.getStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_templates",
		Description: "List task templates, optionally ordered as recent or popular",
	}, t.listTemplates)
	if t.advisor != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "advise",
			Description: "Get short suggestions for a date's routine",
		}, t.advise)
	}
}

func (t *tools) resolveDate(raw string) (model.DateKey, error) {
	if strings.TrimSpace(raw) == "" {
		return t.session.Today(), nil
	}
	date, err := model.ParseDateKey(raw)
	if err != nil {
		return "", mapError(err)
	}
	return date, nil
}

func (t *tools) getRecord(ctx context.Context, _ *sdkmcp.CallToolRequest, in DateParams) (*sdkmcp.CallToolResult, RecordResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, RecordResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, RecordResponse{}, err
	}
	tasks, err := t.session.GetRecord(ctx, date)
	if err != nil {
		return nil, RecordResponse{}, mapError(err)
	}
	return nil, t.recordResponse(date, tasks), nil
}

func (t *tools) recordResponse(date model.DateKey, tasks []model.TaskRecord) RecordResponse {
	p := t.session.Progress(date)
	if tasks == nil {
		tasks = []model.TaskRecord{}
	}
	return RecordResponse{
		Date:  string(date),
		Tasks: tasks,
		Progress: ProgressResponse{
			Completed: p.Completed,
			Total:     p.Total,
			Percent:   p.Percent,
			Minutes:   p.Minutes,
			TimeLabel: p.TimeLabel(),
		},
	}
}

func (t *tools) addTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddTaskParams) (*sdkmcp.CallToolResult, TaskResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, TaskResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, TaskResponse{}, err
	}
	duration := in.Duration
	if strings.TrimSpace(duration) == "" {
		duration = model.DefaultDurationText
	}
	rec, err := t.session.AddTask(ctx, date, model.TaskDraft{
		Title:         in.Title,
		ScheduledTime: in.Time,
		DurationText:  duration,
		IconKey:       in.Icon,
	})
	if err != nil {
		return nil, TaskResponse{}, mapError(err)
	}
	return nil, TaskResponse{Task: rec}, nil
}

func (t *tools) editTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in EditTaskParams) (*sdkmcp.CallToolResult, EditResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, EditResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, EditResponse{}, err
	}
	patch := model.TaskPatch{
		Title:         in.Title,
		ScheduledTime: in.Time,
		DurationText:  in.Duration,
		IconKey:       in.Icon,
		Completed:     in.Completed,
	}
	found, err := t.session.EditTask(ctx, date, in.ID, patch)
	if err != nil {
		return nil, EditResponse{}, mapError(err)
	}
	if !found {
		return nil, EditResponse{}, nil
	}
	rec, _ := t.session.Task(date, in.ID)
	return nil, EditResponse{Found: true, Task: rec}, nil
}

func (t *tools) toggleTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in TaskRefParams) (*sdkmcp.CallToolResult, ToggleResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, ToggleResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, ToggleResponse{}, err
	}
	found, err := t.session.ToggleCompletion(ctx, date, in.ID)
	if err != nil {
		return nil, ToggleResponse{}, mapError(err)
	}
	if !found {
		return nil, ToggleResponse{ID: in.ID}, nil
	}
	rec, _ := t.session.Task(date, in.ID)
	return nil, ToggleResponse{ID: rec.ID, Found: true, Completed: rec.Completed}, nil
}

func (t *tools) deleteTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteTaskParams) (*sdkmcp.CallToolResult, DeleteResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, DeleteResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, DeleteResponse{}, err
	}
	req, ok := t.session.RequestDelete(date, in.ID)
	if !ok {
		return nil, DeleteResponse{ID: in.ID, Message: "no such task"}, nil
	}
	if !in.Confirm {
		t.session.CancelDelete()
		return nil, DeleteResponse{
			ID:      req.ID,
			Found:   true,
			Title:   req.Title,
			Message: fmt.Sprintf("call delete_task again with confirm=true to delete %q", req.Title),
		}, nil
	}
	deleted, err := t.session.ConfirmDelete(ctx, req)
	if err != nil {
		return nil, DeleteResponse{}, mapError(err)
	}
	return nil, DeleteResponse{ID: req.ID, Found: true, Title: req.Title, Deleted: deleted, Message: "deleted"}, nil
}

func (t *tools) applyTemplate(ctx context.Context, _ *sdkmcp.CallToolRequest, in ApplyTemplateParams) (*sdkmcp.CallToolResult, TaskResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, TaskResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, TaskResponse{}, err
	}
	tpl, ok := t.session.FindTemplate(in.Template)
	if !ok {
		return nil, TaskResponse{}, mapError(routine.ErrTemplateNotFound)
	}
	rec, err := t.session.ApplyTemplate(ctx, date, tpl.ID)
	if err != nil {
		return nil, TaskResponse{}, mapError(err)
	}
	return nil, TaskResponse{Task: rec}, nil
}

func (t *tools) closeDay(ctx context.Context, _ *sdkmcp.CallToolRequest, in DateParams) (*sdkmcp.CallToolResult, SummaryResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, SummaryResponse{}, err
	}
	defer unlock()

	date, err := t.resolveDate(in.Date)
	if err != nil {
		return nil, SummaryResponse{}, err
	}
	summary, err := t.session.CloseDay(ctx, date)
	if err != nil {
		return nil, SummaryResponse{}, mapError(err)
	}
	return nil, SummaryResponse{Summary: summary}, nil
}

func (t *tools) listHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, HistoryResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, HistoryResponse{}, err
	}
	defer unlock()

	history := t.session.ListHistory()
	if history == nil {
		history = []model.DayClosureSummary{}
	}
	return nil, HistoryResponse{History: history}, nil
}

func (t *tools) getStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StatsResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, StatsResponse{}, err
	}
	defer unlock()

	stats := t.session.Stats()
	recent := stats.Recent
	if recent == nil {
		recent = []model.DayClosureSummary{}
	}
	return nil, StatsResponse{Recent: recent, TotalCompleted: stats.TotalCompleted, TotalHours: stats.TotalHours()}, nil
}

func (t *tools) listTemplates(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTemplatesParams) (*sdkmcp.CallToolResult, TemplatesResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, TemplatesResponse{}, err
	}
	defer unlock()

	filter, err := model.ParseTemplateFilter(in.Filter)
	if err != nil {
		return nil, TemplatesResponse{}, &APIError{Code: "VALIDATION", Message: err.Error(), RecoveryHint: "Use all, recent or popular"}
	}
	out := t.session.Templates(filter)
	if out == nil {
		out = []model.TaskTemplate{}
	}
	return nil, TemplatesResponse{Templates: out}, nil
}

func (t *tools) advise(ctx context.Context, _ *sdkmcp.CallToolRequest, in DateParams) (*sdkmcp.CallToolResult, AdviceResponse, error) {
	unlock, err := t.lock(ctx)
	if err != nil {
		return nil, AdviceResponse{}, err
	}
	date, err := t.resolveDate(in.Date)
	if err != nil {
		unlock()
		return nil, AdviceResponse{}, err
	}
	prompt := t.session.AdvisoryPrompt(date)
	unlock()

	return nil, AdviceResponse{Date: string(date), Advice: t.advisor.Advise(ctx, prompt)}, nil
}
