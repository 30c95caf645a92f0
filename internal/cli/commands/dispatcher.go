package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"LendIt/internal/config"
	"LendIt/internal/model"
)

// Коды выхода CLI.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func wantsHelp() bool {
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// printHelp печатает справку по команде или общую, если name пустое.
func printHelp(name string) int {
	if name == "" {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}
	fmt.Fprintf(Out, "%s\nUsage: lendit %s\n", c.Description(), c.Usage())
	return exitOK
}

// reportError печатает ошибку команды; ошибки валидации — по полям.
func reportError(name string, err error) {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return
	}
	fmt.Fprintf(Out, "%s error: validation failed\n", name)
	msgs := ve.FieldMessages()
	fields := make([]string, 0, len(msgs))
	for f := range msgs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(Out, "  %s: %s\n", f, msgs[f])
	}
}

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if wantsHelp() {
		return printHelp("")
	}
	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	if args[0] == "help" { // lendit help [command]
		if len(args) == 1 {
			return printHelp("")
		}
		return printHelp(args[1])
	}

	c, ok := Get(args[0])
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: lendit %s\n", c.Usage())
		return exitUsage
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(Out, "interrupted")
		return exitInterrupted
	default:
		reportError(c.Name(), err)
		return exitFailure
	}
}
