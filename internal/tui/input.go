package tui

import "strings"

// slashCommand is a parsed "/name arg" input line
type slashCommand struct {
	name string
	arg  string
}

// Known slash commands
const (
	cmdQuit   = "quit"
	cmdExit   = "exit"
	cmdUpload = "upload"
	cmdSpeak  = "speak"
	cmdTheme  = "theme"
	cmdSave   = "save"
	cmdCopy   = "copy"
	cmdHelp   = "help"
)

var knownCommands = map[string]bool{
	cmdQuit:   true,
	cmdExit:   true,
	cmdUpload: true,
	cmdSpeak:  true,
	cmdTheme:  true,
	cmdSave:   true,
	cmdCopy:   true,
	cmdHelp:   true,
}

// parseSlashCommand recognizes a known command at the start of input.
// Anything else, including "/" followed by an unknown word, is chat text.
func parseSlashCommand(input string) (slashCommand, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return slashCommand{}, false
	}

	name, arg, _ := strings.Cut(trimmed[1:], " ")
	name = strings.ToLower(name)
	if !knownCommands[name] {
		return slashCommand{}, false
	}

	return slashCommand{name: name, arg: strings.TrimSpace(arg)}, true
}

const helpText = "Commands: /upload <path>, /speak, /theme, /save <path>, /copy, /quit"
