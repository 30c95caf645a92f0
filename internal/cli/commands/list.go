package commands

import (
	"context"

	"LendIt/internal/config"
	"LendIt/internal/service"
)

type listCmd struct{}

func (listCmd) Name() string { return "list" }
func (listCmd) Description() string {
	return "Показать записи (фильтр, сортировка, поиск)"
}
func (listCmd) Aliases() []string { return []string{"ls"} }
func (listCmd) Usage() string {
	return "list [-filter all|active|overdue|returned] [-sort dueDate|itemName|counterpartyName|status] [-q text]"
}

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("list")
	filter := fs.String("filter", "", "")
	sortBy := fs.String("sort", "", "")
	q := fs.String("q", "", "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	f, err := service.ParseFilter(*filter)
	if err != nil {
		return err
	}
	s, err := service.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	items, err := app.Service.List(ctx, service.ListQuery{SortBy: s, FilterBy: f, Search: *q})
	if err != nil {
		return err
	}
	renderItems(Out, app, items)
	return nil
}

func init() { RegisterCmd(listCmd{}) }
