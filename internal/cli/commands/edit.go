package commands

import (
	"context"
	"flag"
	"fmt"

	"LendIt/internal/config"
	"LendIt/internal/model"
)

type editCmd struct{}

func (editCmd) Name() string { return "edit" }
func (editCmd) Description() string {
	return "Изменить поля записи (только указанные флаги)"
}
func (editCmd) Usage() string {
	return "edit <id> [-name n] [-counterparty c] [-contact c] [-due YYYY-MM-DD] [-notes n]"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("edit")
	name := fs.String("name", "", "")
	who := fs.String("counterparty", "", "")
	contact := fs.String("contact", "", "")
	due := fs.String("due", "", "")
	notes := fs.String("notes", "", "")
	if err := fs.Parse(rest); err != nil {
		return ErrUsage
	}
	if id == "" && fs.NArg() == 1 {
		id = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return ErrUsage
	}
	if id == "" {
		return ErrUsage
	}

	// в патч попадают только явно заданные флаги
	var patch model.ItemPatch
	var dueErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.ItemName = name
		case "counterparty":
			patch.CounterpartyName = who
		case "contact":
			patch.CounterpartyContact = contact
		case "notes":
			patch.Notes = notes
		case "due":
			d, err := parseDate(*due, cfg.Location())
			if err != nil {
				dueErr = err
				return
			}
			patch.ExpectedReturnDate = &d
		}
	})
	if dueErr != nil {
		return dueErr
	}
	if patch.Empty() {
		return ErrUsage
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	it, err := app.Service.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Updated:")
	printItem(Out, app, *it)
	return nil
}

func init() { RegisterCmd(editCmd{}) }
