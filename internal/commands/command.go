package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/studyplan/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeMove      Type = "move"
	TypeDone      Type = "done"
	TypeShow      Type = "show"
	TypeImport    Type = "import"
	TypeRefresh   Type = "refresh"
	TypeTechnique Type = "technique"
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

// AddArgs come from "add TITLE [@DATE] [at HH:MM[-HH:MM]] [!PRIORITY] [#CATEGORY]".
// Date is left raw; the handler resolves it.
type AddArgs struct {
	Title    string
	Date     string
	Time     string
	EndTime  string
	Priority model.Priority
	Category model.Category
}

// MoveArgs come from "move TARGET DATE [HH:MM [HH:MM]]". TARGET is a task id
// or "selected".
type MoveArgs struct {
	Target  string
	Date    string
	Time    string
	EndTime string
}

type DoneArgs struct {
	Target string
}

// ShowArgs come from "show SUBJECT [system:NAME] [sort:FIELD] [dir:asc|desc]".
type ShowArgs struct {
	Subject   string
	System    string
	Sort      string
	Direction string
}

type ImportArgs struct {
	Path  string
	Start string
}

type TechniqueArgs struct {
	Name string
}

type Command struct {
	Type      Type
	Raw       string
	Add       *AddArgs
	Move      *MoveArgs
	Done      *DoneArgs
	Show      *ShowArgs
	Import    *ImportArgs
	Technique *TechniqueArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ":") {
		raw = strings.TrimSpace(raw[1:])
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
	case TypeMove:
		return parseMove(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeImport:
		return parseImport(input, args)
	case TypeRefresh:
		return Command{Type: TypeRefresh, Raw: input}, nil
	case TypeTechnique:
		return parseTechnique(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			out.Date = arg[1:]
		case strings.EqualFold(arg, "at") && i+1 < len(args) && looksLikeClock(args[i+1]):
			i++
			start, end, _ := strings.Cut(args[i], "-")
			out.Time, out.EndTime = start, end
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			p := model.Priority(strings.ToLower(arg[1:]))
			if !p.IsValid() {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %q", arg[1:])}
			}
			out.Priority = p
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			c := model.Category(strings.ToLower(arg[1:]))
			if !c.IsValid() {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown category %q", arg[1:])}
			}
			out.Category = c
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	if (out.Time != "" && !model.IsClock(out.Time)) || (out.EndTime != "" && !model.IsClock(out.EndTime)) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "time must be HH:MM"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 || len(args) > 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires target, date and optional start and end times"}
	}
	out := MoveArgs{Target: args[0], Date: args[1]}
	if len(args) > 2 {
		out.Time = args[2]
	}
	if len(args) > 3 {
		out.EndTime = args[3]
	}
	if (out.Time != "" && !model.IsClock(out.Time)) || (out.EndTime != "" && !model.IsClock(out.EndTime)) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "time must be HH:MM"}
	}
	return Command{Type: TypeMove, Raw: raw, Move: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	target := "selected"
	if len(args) > 0 {
		target = args[0]
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: target}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	out := ShowArgs{Subject: strings.ToLower(args[0])}
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "system":
			out.System = value
		case "sort":
			out.Sort = strings.ToLower(value)
		case "dir":
			out.Direction = strings.ToLower(value)
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &out}, nil
}

func parseImport(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a template path"}
	}
	out := ImportArgs{Path: args[0]}
	if len(args) > 1 {
		out.Start = strings.TrimPrefix(args[1], "@")
	}
	return Command{Type: TypeImport, Raw: raw, Import: &out}, nil
}

func parseTechnique(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "technique requires a name"}
	}
	return Command{Type: TypeTechnique, Raw: raw, Technique: &TechniqueArgs{Name: strings.Join(args, " ")}}, nil
}

func looksLikeClock(s string) bool {
	start, _, _ := strings.Cut(s, "-")
	return strings.Contains(start, ":")
}
