package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Date     func(DateArgs) (Result, error)
	Close    func(CloseArgs) (Result, error)
	Template func(TemplateArgs) (Result, error)
	Advise   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDate:
		if handlers.Date == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Date(*cmd.Date)
	case TypeClose:
		if handlers.Close == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Close(*cmd.Close)
	case TypeTemplate:
		if handlers.Template == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Template(*cmd.Template)
	case TypeAdvise:
		if handlers.Advise == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Advise()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
