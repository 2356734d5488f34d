package mcp

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

// APIError is returned from tool handlers and surfaces as a tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var perr *routine.PersistenceError
	switch {
	case errors.Is(err, model.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD"}
	case errors.Is(err, routine.ErrValidation):
		return &APIError{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, routine.ErrTemplateNotFound):
		return &APIError{Code: "TEMPLATE_NOT_FOUND", Message: "template not found", RecoveryHint: "Call list_templates"}
	case errors.Is(err, routine.ErrNoPendingDelete):
		return &APIError{Code: "NO_PENDING_DELETE", Message: "nothing staged for deletion"}
	case errors.Is(err, routine.ErrCorruptDocument):
		return &APIError{Code: "CORRUPT_STORE", Message: err.Error()}
	case errors.As(err, &perr):
		return &APIError{Code: "PERSISTENCE", Message: perr.Error(), RecoveryHint: "The change is applied in memory only"}
	default:
		return err
	}
}
