package commands

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"LendIt/internal/config"
	"LendIt/internal/model"

	"github.com/hay-kot/criterio"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	aliases           []string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Aliases() []string   { return f.aliases }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func dispatch(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, args) })
	return out, code
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	out, code := dispatch(t)
	if !strings.Contains(out, "LendIt CLI") || code != exitUsage {
		t.Fatalf("global help with exit 2 expected, got %d", code)
	}
	// зарегистрированы list/add/show/... из init()
	for _, name := range []string{"list", "add", "show", "edit", "return", "delete", "remind", "export", "tui", "token", "remote"} {
		if !strings.Contains(out, "  "+name+" ") {
			t.Fatalf("command %q missing from help:\n%s", name, out)
		}
	}

	out, code = dispatch(t, "help", "list")
	if code != exitOK || !strings.Contains(out, "Usage: lendit list") {
		t.Fatalf("help list: %d %q", code, out)
	}

	out, code = dispatch(t, "help", "nope")
	if code != exitUsage || !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	if _, code = dispatch(t, "no-such"); code != exitUsage {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	RegisterCmd(fakeCmd{name: "x", usage: "x", aliases: []string{"xx"},
		run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }})
	if _, code := dispatch(t, "x"); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, code := dispatch(t, "XX"); code != exitOK {
		t.Fatalf("alias lookup failed, got %d", code)
	}

	RegisterCmd(fakeCmd{name: "u", usage: "u <arg>",
		run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }})
	if out, code := dispatch(t, "u"); code != exitUsage || !strings.Contains(out, "Usage: lendit u <arg>") {
		t.Fatalf("usage text expected, got %d %q", code, out)
	}

	RegisterCmd(fakeCmd{name: "e", usage: "e",
		run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }})
	if out, code := dispatch(t, "e"); code != exitFailure || !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %s", out)
	}

	RegisterCmd(fakeCmd{name: "c", usage: "c",
		run: func(_ context.Context, _ *config.Config, _ []string) error {
			return fmt.Errorf("list: %w", context.Canceled)
		}})
	if _, code := dispatch(t, "c"); code != exitInterrupted {
		t.Fatalf("expected 130 on cancel, got %d", code)
	}
}

func TestDispatcher_ValidationFields(t *testing.T) {
	var errs criterio.FieldErrorsBuilder
	errs = errs.Append("itemName", fmt.Errorf("is required"))
	errs = errs.Append("counterpartyName", fmt.Errorf("is required"))
	verr := model.NewValidationError(errs.ToError())

	RegisterCmd(fakeCmd{name: "v", usage: "v",
		run: func(_ context.Context, _ *config.Config, _ []string) error { return verr }})
	out, code := dispatch(t, "v")
	if code != exitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	want := "v error: validation failed\n  counterpartyName: is required\n  itemName: is required\n"
	if out != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", out, want)
	}
}
