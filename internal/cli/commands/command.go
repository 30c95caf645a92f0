package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "list".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "show <id>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Aliased — команда с короткими именами, например "ls" для list.
type Aliased interface {
	Aliases() []string
}

var (
	registry = map[string]Command{}
	aliases  = map[string]string{}
)

// Out — общий writer для вывода CLI. В тестах переназначается.
var Out io.Writer = os.Stdout

// openApp собирает приложение для команды; тесты подменяют часы и базу.
var openApp = func(cfg *config.Config) (*bootstrap.App, error) {
	return bootstrap.Open(cfg, bootstrap.CLILogger(cfg), nil)
}

// RegisterCmd adds a command and its aliases. Called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
	if a, ok := cmd.(Aliased); ok {
		for _, alias := range a.Aliases() {
			aliases[alias] = cmd.Name()
		}
	}
}

// Get returns a command by name or alias.
func Get(name string) (Command, bool) {
	name = strings.ToLower(name)
	if target, ok := aliases[name]; ok {
		name = target
	}
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("LendIt CLI: учёт вещей, отданных и взятых на время\n\n")
	b.WriteString("Usage:\n  lendit [-d <db>] [-locale en|fr|de|es|nl] [-tz <zone>] [-verbose] <command> [args]\n\n")
	b.WriteString("Commands:\n")
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-10s %s\n", c.Name(), c.Description())
	}
	b.WriteString("\nRun 'lendit help <command>' for command usage.\n")
	return b.String()
}
