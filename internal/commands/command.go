package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/lifehub/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDate     Type = "date"
	TypeClose    Type = "close"
	TypeTemplate Type = "template"
	TypeAdvise   Type = "advise"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries "add <title> [@HH:MM] [~duration] [#icon]".
type AddArgs struct {
	Draft model.TaskDraft
}

// DateArgs is either an absolute date or an offset from the current one.
type DateArgs struct {
	Date   model.DateKey
	Today  bool
	Offset int
}

// CloseArgs.Date is empty when the current date should be closed.
type CloseArgs struct {
	Date model.DateKey
}

type TemplateArgs struct {
	Name string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Date     *DateArgs
	Close    *CloseArgs
	Template *TemplateArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDate, "go":
		return parseDate(input, args)
	case TypeClose:
		return parseClose(input, args)
	case TypeTemplate, "tpl":
		return parseTemplate(input, args)
	case TypeAdvise:
		return Command{Type: TypeAdvise, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var title, duration []string
	draft := model.TaskDraft{DurationText: model.DefaultDurationText}
	inDuration := false
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "@"):
			clock := strings.TrimPrefix(arg, "@")
			if !model.IsClock(clock) {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time %q, want HH:MM", clock)}
			}
			draft.ScheduledTime = clock
			inDuration = false
		case strings.HasPrefix(arg, "#"):
			draft.IconKey = string(model.ParseIcon(strings.TrimPrefix(arg, "#")))
			inDuration = false
		case strings.HasPrefix(arg, "~"):
			inDuration = true
			if rest := strings.TrimPrefix(arg, "~"); rest != "" {
				duration = append(duration, rest)
			}
		case inDuration:
			duration = append(duration, arg)
		default:
			title = append(title, arg)
		}
	}
	draft.Title = strings.TrimSpace(strings.Join(title, " "))
	if draft.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	if len(duration) > 0 {
		draft.DurationText = strings.Join(duration, " ")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Draft: draft}}, nil
}

func parseDate(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "date requires YYYY-MM-DD, today, +N or -N"}
	}
	arg := strings.ToLower(args[0])
	switch {
	case arg == "today":
		return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{Today: true}}, nil
	case strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-"):
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid day offset %q", arg)}
		}
		return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{Offset: n}}, nil
	default:
		date, err := model.ParseDateKey(arg)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{Date: date}}, nil
	}
}

func parseClose(raw string, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Command{Type: TypeClose, Raw: raw, Close: &CloseArgs{}}, nil
	case 1:
		date, err := model.ParseDateKey(args[0])
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		return Command{Type: TypeClose, Raw: raw, Close: &CloseArgs{Date: date}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "close takes at most one date"}
	}
}

func parseTemplate(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "template requires a name"}
	}
	return Command{Type: TypeTemplate, Raw: raw, Template: &TemplateArgs{Name: name}}, nil
}
