package commands

import (
	"context"
	"fmt"
	"time"

	"LendIt/internal/config"
	"LendIt/internal/i18n"
)

type returnCmd struct{}

func (returnCmd) Name() string { return "return" }
func (returnCmd) Description() string {
	return "Отметить возврат (по умолчанию сегодня)"
}
func (returnCmd) Usage() string { return "return <id> [YYYY-MM-DD]" }

func (returnCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 || args[0] == "" {
		return ErrUsage
	}
	var at *time.Time
	if len(args) == 2 {
		d, err := parseDate(args[1], cfg.Location())
		if err != nil {
			return err
		}
		at = &d
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	it, err := app.Service.MarkReturned(ctx, args[0], at)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "✓ %s: %s (%s)\n", app.I18n.T(i18n.KeyReturned), it.ItemName,
		formatDate(*it.ActualReturnDate, app.Config.Location()))
	return nil
}

func init() { RegisterCmd(returnCmd{}) }
