// Package tui — интерактивный просмотр записей на bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"LendIt/internal/i18n"
	"LendIt/internal/model"
	"LendIt/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source — то, что TUI требуется от сервиса.
type Source interface {
	List(ctx context.Context, q service.ListQuery) ([]model.Item, error)
	MarkReturned(ctx context.Context, id string, at *time.Time) (*model.Item, error)
	StatusOf(it model.Item) model.Status
}

var _ Source = (*service.ItemService)(nil)

var (
	filters = []service.Filter{service.FilterActive, service.FilterOverdue, service.FilterReturned, service.FilterAll}
	sorts   = []service.SortKey{service.SortDueDate, service.SortItemName, service.SortCounterparty, service.SortStatus, service.SortNone}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyles  = map[model.Status]lipgloss.Style{
		model.StatusOverdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		model.StatusDueSoon:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.StatusActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.StatusReturned: lipgloss.NewStyle().Faint(true),
	}
)

// loadedMsg — результат загрузки списка; gen связывает его с запросом.
type loadedMsg struct {
	gen   int
	items []model.Item
	err   error
}

// returnedMsg — результат отметки возврата.
type returnedMsg struct {
	err error
}

// Model — состояние экрана списка.
type Model struct {
	src Source
	tr  *i18n.Translator
	ctx context.Context

	query  service.ListQuery
	search textinput.Model

	items     []model.Item
	cursor    int
	gen       int
	loading   bool
	searching bool
	err       error // ошибка последней загрузки
	actionErr error // ошибка действия; сбрасывается следующей клавишей
}

// New создаёт модель с видом по умолчанию: активные записи по сроку возврата.
func New(ctx context.Context, src Source, tr *i18n.Translator) Model {
	if tr == nil {
		tr = i18n.New("")
	}
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	return Model{
		src:    src,
		tr:     tr,
		ctx:    ctx,
		query:  service.ListQuery{FilterBy: service.FilterActive, SortBy: service.SortDueDate},
		search: ti,
	}
}

// Query — текущие параметры выборки.
func (m Model) Query() service.ListQuery { return m.query }

// Items — последний принятый результат загрузки.
func (m Model) Items() []model.Item { return m.items }

func (m Model) Init() tea.Cmd {
	return m.load(m.gen)
}

// reload начинает новую загрузку; ответы предыдущих загрузок будут отброшены.
func (m Model) reload() (Model, tea.Cmd) {
	m.gen++
	m.loading = true
	return m, m.load(m.gen)
}

func (m Model) load(gen int) tea.Cmd {
	src, ctx, q := m.src, m.ctx, m.query
	return func() tea.Msg {
		items, err := src.List(ctx, q)
		return loadedMsg{gen: gen, items: items, err: err}
	}
}

func (m Model) markReturned(id string) tea.Cmd {
	src, ctx := m.src, m.ctx
	return func() tea.Msg {
		_, err := src.MarkReturned(ctx, id, nil)
		return returnedMsg{err: err}
	}
}

func next[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != m.gen {
			// ответ устаревшего запроса
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.items = msg.items
		}
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case returnedMsg:
		m.actionErr = msg.err
		return m.reload()

	case tea.KeyMsg:
		m.actionErr = nil
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		if m.query.Search == "" {
			return m, nil
		}
		m.query.Search = ""
		return m.reload()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query.Search {
		m.query.Search = v
		var load tea.Cmd
		m, load = m.reload()
		return m, tea.Batch(cmd, load)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		m.query.FilterBy = next(filters, m.query.FilterBy)
		m.cursor = 0
		return m.reload()
	case "s":
		m.query.SortBy = next(sorts, m.query.SortBy)
		return m.reload()
	case "r":
		if len(m.items) == 0 {
			return m, nil
		}
		it := m.items[m.cursor]
		if it.IsReturned {
			return m, nil
		}
		return m, m.markReturned(it.ID)
	case "ctrl+r":
		return m.reload()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	sortName := string(m.query.SortBy)
	if sortName == "" {
		sortName = "created"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("LendIt · %s · %s", m.query.FilterBy, sortName)))
	b.WriteString("\n")
	if m.searching || m.query.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.items) == 0 && !m.loading {
		b.WriteString(m.tr.T(i18n.KeyNoItems))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		st := m.src.StatusOf(it)
		line := fmt.Sprintf("%-24s %-18s %s  %s",
			truncate(it.ItemName, 24),
			truncate(it.CounterpartyName, 18),
			it.ExpectedReturnDate.Format(time.DateOnly),
			statusStyles[st].Render(m.tr.Status(st)),
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, err := range []error{m.actionErr, m.err} {
		if err != nil {
			b.WriteString("\n")
			b.WriteString(errStyle.Render(err.Error()))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · / search · f filter · s sort · r returned · q quit"))
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run запускает TUI до выхода пользователя или отмены ctx.
func Run(ctx context.Context, src Source, tr *i18n.Translator) error {
	p := tea.NewProgram(New(ctx, src, tr), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
