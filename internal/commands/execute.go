package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Move      func(MoveArgs) (Result, error)
	Done      func(DoneArgs) (Result, error)
	Show      func(ShowArgs) (Result, error)
	Import    func(ImportArgs) (Result, error)
	Refresh   func() (Result, error)
	Technique func(TechniqueArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing("move")
		}
		return handlers.Move(*cmd.Move)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing("show")
		}
		return handlers.Show(*cmd.Show)
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing("import")
		}
		return handlers.Import(*cmd.Import)
	case TypeRefresh:
		if handlers.Refresh == nil {
			return Result{}, missing("refresh")
		}
		return handlers.Refresh()
	case TypeTechnique:
		if handlers.Technique == nil {
			return Result{}, missing("technique")
		}
		return handlers.Technique(*cmd.Technique)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
