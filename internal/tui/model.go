// Package tui is the terminal front end of the easyapi demo. It renders the
// state of two orchestrators, one for categories and one for the products of
// the selected category, and re-renders whenever either changes.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	easyapi "github.com/probablyarth/easyapi-go"
	"github.com/probablyarth/easyapi-go/internal/catalog"
)

// Catalog is the data source the UI drives.
type Catalog interface {
	Categories(ctx context.Context, _ easyapi.NoArg) ([]catalog.Category, error)
	Products(ctx context.Context, category string) ([]catalog.Product, error)
}

// Options configures the product orchestrator.
type Options struct {
	Store        *easyapi.Store // nil disables caching
	CacheTTL     time.Duration
	Cancellation bool
	Logger       zerolog.Logger
}

type (
	categoriesMsg easyapi.State[[]catalog.Category]
	productsMsg   easyapi.State[[]catalog.Product]
	eventMsg      easyapi.EventData
)

// Model is the bubbletea model.
type Model struct {
	// ctx scopes calls started from Update, which receives no context.
	ctx        context.Context
	categories *easyapi.Orchestrator[easyapi.NoArg, []catalog.Category]
	products   *easyapi.Orchestrator[string, []catalog.Product]

	catBridge  *stateBridge[[]catalog.Category]
	prodBridge *stateBridge[[]catalog.Product]
	events     *eventBridge
	unsub      []func()

	catState  easyapi.State[[]catalog.Category]
	prodState easyapi.State[[]catalog.Product]
	selected  int
	active    string
	aborted   bool
	lastEvent string

	spinner spinner.Model
	styles  styles
}

// New creates the model. The category list starts loading immediately.
func New(ctx context.Context, src Catalog, opts Options) (*Model, error) {
	m := &Model{
		ctx:        ctx,
		catBridge:  newStateBridge[[]catalog.Category](),
		prodBridge: newStateBridge[[]catalog.Product](),
		events:     newEventBridge(),
		styles:     defaultStyles(),
	}
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.styles.spinner

	catOpts := []easyapi.Option{
		easyapi.WithLogger(opts.Logger),
		easyapi.WithNamespace("categories"),
		easyapi.WithCallOnInit(easyapi.NoArg{}),
	}
	prodOpts := []easyapi.Option{
		easyapi.WithLogger(opts.Logger),
		easyapi.WithObserver(m.events),
		easyapi.WithNamespace("products"),
	}
	if opts.Cancellation {
		catOpts = append(catOpts, easyapi.WithCancellation())
		prodOpts = append(prodOpts, easyapi.WithCancellation())
	}
	if opts.Store != nil {
		prodOpts = append(prodOpts, easyapi.WithCache(opts.Store), easyapi.WithCacheTTL(opts.CacheTTL))
	}

	var err error
	m.categories, err = easyapi.New(ctx, src.Categories, catOpts...)
	if err != nil {
		return nil, fmt.Errorf("categories orchestrator: %w", err)
	}
	m.products, err = easyapi.New(ctx, src.Products, prodOpts...)
	if err != nil {
		return nil, fmt.Errorf("products orchestrator: %w", err)
	}
	m.unsub = append(m.unsub,
		m.categories.OnStateChange(m.catBridge.push),
		m.products.OnStateChange(m.prodBridge.push),
	)
	// The initial call may have settled before the listener was attached.
	m.catState = m.categories.State()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitCategories(),
		m.waitProducts(),
		m.events.wait(),
	)
}

func (m *Model) waitCategories() tea.Cmd {
	return m.catBridge.wait(func(s easyapi.State[[]catalog.Category]) tea.Msg { return categoriesMsg(s) })
}

func (m *Model) waitProducts() tea.Cmd {
	return m.prodBridge.wait(func(s easyapi.State[[]catalog.Product]) tea.Msg { return productsMsg(s) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		m.catState = easyapi.State[[]catalog.Category](msg)
		if m.selected >= len(m.catState.Result) {
			m.selected = 0
		}
		return m, m.waitCategories()

	case productsMsg:
		m.prodState = easyapi.State[[]catalog.Product](msg)
		return m, m.waitProducts()

	case eventMsg:
		e := easyapi.EventData(msg)
		if e.Event == easyapi.EventAborted {
			// An aborted call leaves the state loading; stop showing it as such.
			m.aborted = true
		}
		m.lastEvent = describeEvent(e)
		return m, m.events.wait()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit
	case "left", "h":
		if n := len(m.catState.Result); n > 0 {
			m.selected = (m.selected + n - 1) % n
		}
	case "right", "l":
		if n := len(m.catState.Result); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "enter":
		m.load(false)
	case "r":
		m.load(true)
	case "R":
		m.categories.CallAsync(m.ctx, easyapi.NoArg{}, true)
	case "x":
		m.categories.Abort()
		m.products.Abort()
	}
	return m, nil
}

// load starts fetching the selected category's products. State changes
// arrive through the bridge, so the future is not needed here.
func (m *Model) load(fresh bool) {
	cats := m.catState.Result
	if m.selected >= len(cats) {
		return
	}
	m.active = cats[m.selected].Slug
	m.aborted = false
	m.products.CallAsync(m.ctx, m.active, fresh)
}

// Close aborts in-flight calls and detaches the listeners.
func (m *Model) Close() {
	for _, u := range m.unsub {
		u()
	}
	m.unsub = nil
	m.categories.Close()
	m.products.Close()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("easyapi catalog"))
	b.WriteString("\n")
	b.WriteString(m.viewCategories())
	b.WriteString("\n\n")
	b.WriteString(m.viewProducts())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("←/→ select • enter load • r refresh • x abort • R reload categories • q quit"))
	if m.lastEvent != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.status.Render(m.lastEvent))
	}
	return m.styles.frame.Render(b.String())
}

func (m *Model) viewCategories() string {
	s := m.catState
	switch {
	case s.IsLoading && !s.HasResult:
		return m.spinner.View() + " Loading categories..."
	case s.Err != nil:
		return m.styles.err.Render("categories: " + s.Err.Error())
	}
	tabs := make([]string, 0, len(s.Result))
	for i, c := range s.Result {
		style := m.styles.tab
		if i == m.selected {
			style = m.styles.tabOn
		}
		tabs = append(tabs, style.Render(c.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewProducts() string {
	s := m.prodState
	switch {
	case s.IsLoading && m.aborted:
		return m.styles.status.Render(fmt.Sprintf("Fetching %s aborted.", m.active))
	case s.IsLoading:
		return m.spinner.View() + fmt.Sprintf(" Fetching %s...", m.active)
	case s.Err != nil:
		return m.styles.err.Render("products: " + s.Err.Error())
	case !s.HasResult:
		return m.styles.item.Render("Select a category and press enter.")
	}
	var b strings.Builder
	for _, p := range s.Result {
		b.WriteString(m.styles.item.Render(fmt.Sprintf("%-40s %s  ★ %.2f",
			p.Title, m.styles.price.Render(fmt.Sprintf("$%.2f", p.Price)), p.Rating)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeEvent(e easyapi.EventData) string {
	switch e.Event {
	case easyapi.EventHit:
		return "served from cache: " + e.Key
	case easyapi.EventExpired:
		return "cache entry expired: " + e.Key
	case easyapi.EventAborted:
		return "request aborted"
	case easyapi.EventSuperseded:
		return "previous request superseded"
	default:
		return e.Event.String() + " " + e.Key
	}
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, src Catalog, opts Options) error {
	m, err := New(ctx, src, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
