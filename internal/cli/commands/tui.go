package commands

import (
	"context"

	"LendIt/internal/cli/tui"
	"LendIt/internal/config"
)

type tuiCmd struct{}

func (tuiCmd) Name() string { return "tui" }
func (tuiCmd) Description() string {
	return "Интерактивный просмотр записей"
}
func (tuiCmd) Usage() string { return "tui" }

func (tuiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return tui.Run(ctx, app.Service, app.I18n)
}

func init() { RegisterCmd(tuiCmd{}) }
