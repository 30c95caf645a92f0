package commands

import (
	"context"
	"fmt"

	"LendIt/internal/config"
)

type showCmd struct{}

func (showCmd) Name() string        { return "show" }
func (showCmd) Description() string { return "Показать запись по id" }
func (showCmd) Aliases() []string   { return []string{"get"} }
func (showCmd) Usage() string       { return "show <id>" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	it, err := app.Service.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printItem(Out, app, *it)

	rems, err := app.Reminders.ListByItem(ctx, it.ID)
	if err != nil {
		return err
	}
	loc := app.Config.Location()
	for _, r := range rems {
		fmt.Fprintf(Out, "  reminder:     %s at %s\n", r.Kind, r.FireAt.In(loc).Format("2006-01-02 15:04"))
	}
	return nil
}

func init() { RegisterCmd(showCmd{}) }
