package commands

import (
	"context"
	"fmt"

	"LendIt/internal/cli/api"
	"LendIt/internal/config"
	"LendIt/internal/service"
)

type remoteCmd struct{}

func (remoteCmd) Name() string { return "remote" }
func (remoteCmd) Description() string {
	return "Показать записи с сервера (нужен token)"
}
func (remoteCmd) Usage() string {
	return "remote [-filter all|active|overdue|returned] [-sort key] [-q text]"
}

func (remoteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("remote")
	filter := fs.String("filter", "", "")
	sortBy := fs.String("sort", "", "")
	q := fs.String("q", "", "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if _, err := service.ParseFilter(*filter); err != nil {
		return err
	}
	if _, err := service.ParseSortKey(*sortBy); err != nil {
		return err
	}

	tok, err := tokenStore.Load()
	if err != nil {
		return fmt.Errorf("нет токена: выполните token <subject>: %w", err)
	}
	items, err := api.NewClient(cfg.ServerURL, tok).ListItems(ctx, *filter, *sortBy, *q)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(Out, "- %s  %s  %s  due=%s  %s\n", it.ID, it.ItemName, it.CounterpartyName,
			it.ExpectedReturnDate.Format("2006-01-02"), it.Status)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(items))
	return nil
}

func init() { RegisterCmd(remoteCmd{}) }
