package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/config"
	"LendIt/internal/model"
	"LendIt/internal/service"

	"gopkg.in/yaml.v3"
)

// exportItem — запись в YAML-выгрузке.
type exportItem struct {
	ID                  string `yaml:"id"`
	ItemName            string `yaml:"item_name"`
	CounterpartyName    string `yaml:"counterparty_name"`
	CounterpartyContact string `yaml:"counterparty_contact,omitempty"`
	ItemType            string `yaml:"item_type"`
	StartDate           string `yaml:"start_date"`
	ExpectedReturnDate  string `yaml:"expected_return_date"`
	ActualReturnDate    string `yaml:"actual_return_date,omitempty"`
	Notes               string `yaml:"notes,omitempty"`
	Status              string `yaml:"status"`
}

type exportDoc struct {
	ExportedAt string       `yaml:"exported_at"`
	Items      []exportItem `yaml:"items"`
}

func toExport(app *bootstrap.App, items []model.Item) exportDoc {
	loc := app.Config.Location()
	doc := exportDoc{
		ExportedAt: app.Service.Now().In(loc).Format("2006-01-02T15:04:05Z07:00"),
		Items:      make([]exportItem, 0, len(items)),
	}
	for _, it := range items {
		e := exportItem{
			ID:                  it.ID,
			ItemName:            it.ItemName,
			CounterpartyName:    it.CounterpartyName,
			CounterpartyContact: deref(it.CounterpartyContact),
			ItemType:            string(it.ItemType),
			StartDate:           formatDate(it.StartDate, loc),
			ExpectedReturnDate:  formatDate(it.ExpectedReturnDate, loc),
			Notes:               deref(it.Notes),
			Status:              string(app.Service.StatusOf(it)),
		}
		if it.ActualReturnDate != nil {
			e.ActualReturnDate = formatDate(*it.ActualReturnDate, loc)
		}
		doc.Items = append(doc.Items, e)
	}
	return doc
}

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Выгрузить записи в YAML" }
func (exportCmd) Usage() string {
	return "export [-filter all|active|overdue|returned] [-o file]"
}

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("export")
	filter := fs.String("filter", "", "")
	outPath := fs.String("o", "", "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	f, err := service.ParseFilter(*filter)
	if err != nil {
		return err
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	items, err := app.Service.List(ctx, service.ListQuery{FilterBy: f, SortBy: service.SortDueDate})
	if err != nil {
		return err
	}

	var w io.Writer = Out
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toExport(app, items)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if *outPath != "" {
		fmt.Fprintf(Out, "Exported %d items to %s\n", len(items), *outPath)
	}
	return nil
}

func init() { RegisterCmd(exportCmd{}) }
