package routine

import (
	"context"

	"github.com/sandeepkv93/lifehub/internal/model"
)

type DeleteKind string

const (
	DeleteTask     DeleteKind = "task"
	DeleteTemplate DeleteKind = "template"
)

// DeleteRequest is the first half of a two-step delete. Only the most
// recent request can be confirmed.
type DeleteRequest struct {
	Kind  DeleteKind
	Date  model.DateKey
	ID    string
	Title string
}

// RequestDelete stages deletion of a task and returns what to confirm.
// Unknown dates and ids report false and leave any pending request alone.
func (s *Session) RequestDelete(date model.DateKey, id string) (DeleteRequest, bool) {
	t, ok := s.Task(date, id)
	if !ok {
		return DeleteRequest{}, false
	}
	req := DeleteRequest{Kind: DeleteTask, Date: date, ID: id, Title: t.Title}
	s.pending = &req
	return req, true
}

// RequestTemplateDelete stages deletion of a template.
func (s *Session) RequestTemplateDelete(id string) (DeleteRequest, bool) {
	tpl, ok := s.Template(id)
	if !ok {
		return DeleteRequest{}, false
	}
	req := DeleteRequest{Kind: DeleteTemplate, ID: id, Title: tpl.Title}
	s.pending = &req
	return req, true
}

// PendingDelete returns the staged request, if any.
func (s *Session) PendingDelete() (DeleteRequest, bool) {
	if s.pending == nil {
		return DeleteRequest{}, false
	}
	return *s.pending, true
}

func (s *Session) CancelDelete() {
	s.pending = nil
}

// ConfirmDelete performs the staged request. It fails with
// ErrNoPendingDelete when req is not the pending request. A target that
// vanished since the request reports false.
func (s *Session) ConfirmDelete(ctx context.Context, req DeleteRequest) (bool, error) {
	if s.pending == nil || *s.pending != req {
		return false, ErrNoPendingDelete
	}
	s.pending = nil
	switch req.Kind {
	case DeleteTask:
		return s.deleteTask(ctx, req.Date, req.ID)
	case DeleteTemplate:
		return s.deleteTemplate(ctx, req.ID)
	default:
		return false, ErrNoPendingDelete
	}
}
