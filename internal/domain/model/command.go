package model

import "strings"

// CommandKind is the closed set of bot commands the admin can issue.
type CommandKind int

const (
	CommandUnrecognized CommandKind = iota
	CommandStart
	CommandHistory
)

func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandHistory:
		return "history"
	default:
		return "unrecognized"
	}
}

// Command is a parsed slash command. Raw keeps the original text for unrecognized input.
type Command struct {
	Kind CommandKind
	Raw  string
}

// IsCommand reports whether trimmed text is addressed to the bot rather than relayed.
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

// ParseCommand resolves trimmed text that starts with "/" into a Command.
// A "@botname" suffix on the command token is ignored; any argument makes the command unrecognized.
func ParseCommand(text string) Command {
	cmd := Command{Kind: CommandUnrecognized, Raw: text}
	fields := strings.Fields(text)
	if len(fields) != 1 || !IsCommand(fields[0]) {
		return cmd
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "start":
		cmd.Kind = CommandStart
	case "history":
		cmd.Kind = CommandHistory
	}
	return cmd
}
