package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/i18n"
	"LendIt/internal/model"
	"LendIt/internal/reminder"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const dateLayout = time.DateOnly

// newFlagSet — набор флагов команды; ошибки разбора превращаются в ErrUsage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// splitID отделяет id, указанный первым аргументом до флагов.
func splitID(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

// parseDate принимает YYYY-MM-DD в часовом поясе loc или RFC3339.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func optPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderItems печатает таблицу записей с локализованными заголовками и статусами.
func renderItems(w io.Writer, app *bootstrap.App, items []model.Item) {
	tr := app.I18n
	if len(items) == 0 {
		fmt.Fprintln(w, tr.T(i18n.KeyNoItems))
		return
	}
	loc := app.Config.Location()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", tr.T(i18n.KeyItem), tr.T(i18n.KeyCounterparty), tr.T(i18n.KeyType), tr.T(i18n.KeyDue), tr.T(i18n.KeyStatus)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, it := range items {
		t.Row(
			it.ID,
			it.ItemName,
			it.CounterpartyName,
			tr.ItemType(it.ItemType),
			formatDate(it.ExpectedReturnDate, loc),
			tr.Status(app.Service.StatusOf(it)),
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, tr.T(i18n.KeyTotal, len(items)))
}

// printItem печатает подробности одной записи.
func printItem(w io.Writer, app *bootstrap.App, it model.Item) {
	tr := app.I18n
	loc := app.Config.Location()
	fmt.Fprintf(w, "  id:           %s\n", it.ID)
	fmt.Fprintf(w, "  item:         %s\n", it.ItemName)
	fmt.Fprintf(w, "  counterparty: %s\n", it.CounterpartyName)
	if it.CounterpartyContact != nil {
		fmt.Fprintf(w, "  contact:      %s\n", *it.CounterpartyContact)
	}
	fmt.Fprintf(w, "  type:         %s\n", tr.ItemType(it.ItemType))
	fmt.Fprintf(w, "  start:        %s\n", formatDate(it.StartDate, loc))
	fmt.Fprintf(w, "  due:          %s\n", formatDate(it.ExpectedReturnDate, loc))
	if it.ActualReturnDate != nil {
		fmt.Fprintf(w, "  returned:     %s\n", formatDate(*it.ActualReturnDate, loc))
	}
	if it.Notes != nil {
		fmt.Fprintf(w, "  notes:        %s\n", *it.Notes)
	}
	fmt.Fprintf(w, "  status:       %s\n", tr.Status(app.Service.StatusOf(it)))
}

// printReminder сообщает итог планирования напоминания.
func printReminder(w io.Writer, loc *time.Location, sched *reminder.Scheduled, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(w, "! Напоминание не запланировано: %v\n", err)
	case sched == nil:
	case sched.Immediate:
		fmt.Fprintln(w, "✓ Напоминание: срок уже прошёл, сработает сразу")
	default:
		fmt.Fprintf(w, "✓ Напоминание: %s\n", sched.At.In(loc).Format("2006-01-02 15:04"))
	}
}
