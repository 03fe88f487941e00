package runner

import (
	"errors"
	"fmt"
	"strings"
)

// CommandKind identifies a runner command.
type CommandKind string

const (
	CommandEdit   CommandKind = "edit"
	CommandShow   CommandKind = "show"
	CommandValues CommandKind = "values"
	CommandHelp   CommandKind = "help"
	CommandQuit   CommandKind = "quit"
)

// ErrUnknownCommand is returned for a line that is neither an edit nor a known command.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line.
type Command struct {
	Kind  CommandKind
	Field string
	Value string
}

// ParseCommand parses "field=value" edits and ":name" commands. The value is
// everything after the first '=', kept verbatim.
func ParseCommand(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case "exit", "quit", ":quit", ":q":
		return Command{Kind: CommandQuit}, nil
	case ":show", "":
		return Command{Kind: CommandShow}, nil
	case ":values":
		return Command{Kind: CommandValues}, nil
	case ":help", "?":
		return Command{Kind: CommandHelp}, nil
	}

	if strings.HasPrefix(trimmed, ":") {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, trimmed)
	}

	field, value, ok := strings.Cut(line, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return Command{}, fmt.Errorf("%w: expected field=value, got %q", ErrUnknownCommand, trimmed)
	}
	return Command{Kind: CommandEdit, Field: field, Value: value}, nil
}

const helpText = `Commands:
  field=value   edit a field
  :show         print the form
  :values       print the current values
  :help         this help
  :quit         stop`
