package commands

import (
	"context"
	"fmt"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/config"
)

type remindCmd struct{}

func (remindCmd) Name() string { return "remind" }
func (remindCmd) Description() string {
	return "Доставить сработавшие напоминания"
}
func (remindCmd) Usage() string { return "remind" }

func (remindCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	sink, err := bootstrap.NewSink(cfg, app.Logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	n, err := app.Dispatcher(sink).RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Delivered: %d\n", n)
	return nil
}

func init() { RegisterCmd(remindCmd{}) }
