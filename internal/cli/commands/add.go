package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"LendIt/internal/config"
	"LendIt/internal/model"

	"github.com/charmbracelet/huh"
)

type addCmd struct{}

func (addCmd) Name() string { return "add" }
func (addCmd) Description() string {
	return "Добавить запись и запланировать напоминание"
}
func (addCmd) Usage() string {
	return "add [-contact c] [-notes n] <item> <counterparty> <lent|borrowed> <start> <due> | add -i"
}

// addInput — сырые поля формы/аргументов.
type addInput struct {
	name, counterparty, itemType, start, due, contact, notes string
}

// runAddForm показывает интерактивную форму; подменяется в тестах.
var runAddForm = func(ctx context.Context, in *addInput) error {
	validDate := func(s string) error {
		_, err := time.Parse(dateLayout, strings.TrimSpace(s))
		if err != nil {
			return errors.New("use YYYY-MM-DD")
		}
		return nil
	}
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}
	if in.start == "" {
		in.start = time.Now().Format(dateLayout)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Item").Validate(required).Value(&in.name),
			huh.NewInput().Title("Counterparty").Validate(required).Value(&in.counterparty),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("I lent it", string(model.ItemTypeLent)),
					huh.NewOption("I borrowed it", string(model.ItemTypeBorrowed)),
				).
				Value(&in.itemType),
			huh.NewInput().Title("Contact").Description("optional").Value(&in.contact),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date").Description("YYYY-MM-DD").Validate(validDate).Value(&in.start),
			huh.NewInput().Title("Expected return").Description("YYYY-MM-DD").Validate(validDate).Value(&in.due),
			huh.NewText().Title("Notes").Value(&in.notes),
		),
	).RunWithContext(ctx)
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("add")
	interactive := fs.Bool("i", false, "")
	contact := fs.String("contact", "", "")
	notes := fs.String("notes", "", "")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	in := addInput{contact: *contact, notes: *notes}
	switch {
	case *interactive:
		if fs.NArg() != 0 {
			return ErrUsage
		}
		if err := runAddForm(ctx, &in); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	case fs.NArg() == 5:
		a := fs.Args()
		in.name, in.counterparty, in.itemType, in.start, in.due = a[0], a[1], a[2], a[3], a[4]
	default:
		return ErrUsage
	}

	loc := cfg.Location()
	start, err := parseDate(in.start, loc)
	if err != nil {
		return err
	}
	due, err := parseDate(in.due, loc)
	if err != nil {
		return err
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Service.CreateWithReminder(ctx, model.CreateItem{
		ItemName:            in.name,
		CounterpartyName:    in.counterparty,
		CounterpartyContact: optPtr(in.contact),
		ItemType:            model.ItemType(strings.ToLower(strings.TrimSpace(in.itemType))),
		StartDate:           start,
		ExpectedReturnDate:  due,
		Notes:               optPtr(in.notes),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	printItem(Out, app, *res.Item)
	printReminder(Out, loc, res.Reminder, res.ReminderErr)
	return nil
}

func init() { RegisterCmd(addCmd{}) }
