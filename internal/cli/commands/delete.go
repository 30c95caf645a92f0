package commands

import (
	"context"
	"errors"
	"fmt"

	"LendIt/internal/config"
	"LendIt/internal/i18n"
)

var errNotConfirmed = errors.New("deletion is permanent: repeat with --yes")

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить запись безвозвратно" }
func (deleteCmd) Aliases() []string   { return []string{"rm"} }
func (deleteCmd) Usage() string       { return "delete <id> --yes" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("delete")
	yes := fs.Bool("yes", false, "")
	if err := fs.Parse(rest); err != nil || fs.NArg() != 0 || id == "" {
		return ErrUsage
	}
	if !*yes {
		return errNotConfirmed
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Service.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(Out, "✓ %s: %s\n", app.I18n.T(i18n.KeyDeleted), id)
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
