package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cart/internal/cart"
	"github.com/idilsaglam/cart/internal/model"
	"github.com/idilsaglam/cart/internal/ui"
)

// listItem adapts a cart line to bubbles/list.Item
type listItem struct {
	p model.Product
}

func (i listItem) FilterValue() string { return i.p.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%s %s %s %s",
		ui.Fit(it.p.Title, 32),
		mutedStyle.Render("#"+it.p.ID),
		accentStyle.Render(fmt.Sprintf("×%d", it.p.Quantity)),
		priceStyle.Render(money(it.p.LineTotal())),
	)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type (
	snapshotMsg []model.Product
	loadedMsg   struct{ err error }
	writeErrMsg struct{ err error }
)

type modelTUI struct {
	store   *cart.Store
	updates chan []model.Product
	done    chan struct{}

	list    list.Model
	loading bool
	loadErr string
	saveErr string

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	width, height int
}

var (
	incBind   = key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more"))
	decBind   = key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less"))
	addBind   = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	clearBind = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear"))
)

// newModel subscribes to c. The returned func unsubscribes and must be
// called once the program has exited.
func newModel(c *cart.Store) (modelTUI, func()) {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = header(nil, true)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("product", "products")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{incBind, decBind, addBind, clearBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{incBind, decBind, addBind, clearBind} }

	m := modelTUI{
		store:   c,
		updates: make(chan []model.Product, 1),
		done:    make(chan struct{}),
		list:    l,
		loading: true,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "id price title..."
	m.ti.CharLimit = 200

	// keep only the newest snapshot; the store serializes callbacks
	updates := m.updates
	unsubscribe := c.Subscribe(func(ps []model.Product) {
		select {
		case <-updates:
		default:
		}
		updates <- ps
	})
	done := m.done
	return m, func() {
		unsubscribe()
		close(done)
	}
}

// Run shows c until the user quits. Pending writes are the caller's to flush.
func Run(ctx context.Context, c *cart.Store) error {
	m, stop := newModel(c)
	defer stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.waitReady(), m.waitUpdate())
}

func (m modelTUI) waitReady() tea.Cmd {
	c := m.store
	return func() tea.Msg {
		<-c.Ready()
		return loadedMsg{err: c.LoadErr()}
	}
}

func (m modelTUI) waitUpdate() tea.Cmd {
	updates, done := m.updates, m.done
	return func() tea.Msg {
		select {
		case ps := <-updates:
			return snapshotMsg(ps)
		case <-done:
			return nil
		}
	}
}

func waitWrite(w *cart.Write) tea.Cmd {
	return func() tea.Msg {
		if err := w.Wait(context.Background()); err != nil {
			return writeErrMsg{err: err}
		}
		return nil
	}
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
		}
		m.list.Title = header(m.products(), false)
		return m, nil
	case snapshotMsg:
		cmd := m.list.SetItems(toItems(msg))
		if n := len(msg); n > 0 && m.list.Index() >= n {
			m.list.Select(n - 1)
		}
		m.list.Title = header(msg, m.loading)
		return m, tea.Batch(cmd, m.waitUpdate())
	case writeErrMsg:
		m.saveErr = msg.err.Error()
		return m, nil
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				in, err := model.ParseProductInput(strings.Fields(m.ti.Value()))
				if err != nil {
					m.addErr = err.Error()
					return m, nil
				}
				m.closeInput()
				return m, waitWrite(m.store.AddToCart(in))
			case "esc":
				m.closeInput()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if x, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case x.String() == "q" || (x.String() == "esc" && m.list.FilterState() == list.Unfiltered):
			return m, tea.Quit
		case key.Matches(x, incBind):
			if it, ok := m.list.SelectedItem().(listItem); ok {
				return m, waitWrite(m.store.Increment(it.p.ID))
			}
			return m, nil
		case key.Matches(x, decBind):
			if it, ok := m.list.SelectedItem().(listItem); ok {
				return m, waitWrite(m.store.Decrement(it.p.ID))
			}
			return m, nil
		case key.Matches(x, addBind):
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(x, clearBind):
			return m, waitWrite(m.store.Clear())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeInput() {
	m.adding = false
	m.addErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *modelTUI) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 4
	if m.adding {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m modelTUI) products() []model.Product {
	items := m.list.Items()
	out := make([]model.Product, 0, len(items))
	for _, it := range items {
		if li, ok := it.(listItem); ok {
			out = append(out, li.p)
		}
	}
	return out
}

func (m modelTUI) View() string {
	content := m.list.View()
	if m.adding {
		title := "Add product"
		if m.addErr != "" {
			title += "  " + errorStyle.Render(m.addErr)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	if m.loadErr != "" {
		content += "\n" + errorStyle.Render("saved cart ignored: "+m.loadErr)
	}
	if m.saveErr != "" {
		content += "\n" + errorStyle.Render("save failed: "+m.saveErr)
	}
	return frameStyle.Render(content)
}

func toItems(ps []model.Product) []list.Item {
	items := make([]list.Item, 0, len(ps))
	for _, p := range ps {
		items = append(items, listItem{p: p})
	}
	return items
}

// header shows live counts for the list title
func header(ps []model.Product, loading bool) string {
	if loading {
		return titleStyle.Render("Cart") + "   " + mutedStyle.Render("loading…")
	}
	return fmt.Sprintf("%s   %s %d  %s %s",
		titleStyle.Render("Cart"),
		successStyle.Render("Items"), model.Count(ps),
		accentStyle.Render("Total"), priceStyle.Render(money(model.Total(ps))),
	)
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }
