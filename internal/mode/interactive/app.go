// ABOUTME: Root AppModel for the catalog TUI: pages, search, detail overlay, and key dispatch
// ABOUTME: Backend work runs in tea.Cmd goroutines; Update never writes the lifecycle table

package interactive

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/config"
	"github.com/mauromedda/fossintosh-go/internal/gateway"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// Page is a top-level tab.
type Page int

const (
	PageDiscover Page = iota
	PageCategories
	PageUpdates
	pageCount
)

// String returns the tab label.
func (p Page) String() string {
	switch p {
	case PageDiscover:
		return "Discover"
	case PageCategories:
		return "Categories"
	case PageUpdates:
		return "Updates"
	default:
		return "Unknown"
	}
}

// view is what the body shows. A search term replaces the Discover and
// Categories pages with results; the Updates page filters by it instead.
type view int

const (
	viewDiscover view = iota
	viewCategories
	viewUpdates
	viewSearch
	viewCount
)

// CuratedSource resolves the discover sections. *registry.Registry
// satisfies it.
type CuratedSource interface {
	FetchCurated(ctx context.Context) ([]catalog.Section, error)
}

// IconSource fetches raw icon bytes. *registry.Registry satisfies it.
type IconSource interface {
	FetchIcon(ctx context.Context, ref string) ([]byte, error)
}

// Deps bundles the stores and services the TUI drives.
type Deps struct {
	Store   *catalog.Store
	Table   *lifecycle.Table
	Gateway *gateway.Gateway
	// Catalog loads and reloads the store; nil shows the store as is.
	Catalog catalog.Source
	// Curated fills the Discover page; nil lists the whole catalog.
	Curated CuratedSource
	// Icons enables icons on the detail page.
	Icons   IconSource
	Keys    *config.Keybindings
	Version string
}

// shared holds state that must survive AppModel value copies. Bubble Tea
// copies the model on each Update; pointer fields are shared across copies.
// Update is single-threaded, so the maps need no lock.
type shared struct {
	ctx         context.Context
	cancel      context.CancelFunc
	desc        *descriptionRenderer
	icons       map[string][]string
	iconPending map[string]bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	sh   *shared
	deps Deps
	keys *config.Keybindings

	width, height int

	page   Page
	cursor [viewCount]int
	query  string
	typing bool

	detail       catalog.App
	hasDetail    bool
	detailScroll int

	loading bool
	loadErr string

	sections       []catalog.Section
	curatedErr     string
	curatedLoading bool

	status string
}

// NewAppModel creates an AppModel. Canceling ctx aborts in-flight backend
// and registry calls.
func NewAppModel(ctx context.Context, deps Deps) AppModel {
	ctx, cancel := context.WithCancel(ctx)
	keys := deps.Keys
	if keys == nil {
		keys = config.NewKeybindings()
	}
	return AppModel{
		sh: &shared{
			ctx:         ctx,
			cancel:      cancel,
			desc:        newDescriptionRenderer(),
			icons:       make(map[string][]string),
			iconPending: make(map[string]bool),
		},
		deps:           deps,
		keys:           keys,
		loading:        deps.Catalog != nil,
		curatedLoading: deps.Curated != nil,
	}
}

// Init starts the catalog and curated loads.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadCatalogCmd(), m.loadCuratedCmd())
}

// Update routes messages to the appropriate handler.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		m.loadErr = ""
		if msg.err != nil {
			m.loadErr = msg.err.Error()
		}
		m.clampCursors()
		return m, nil

	case curatedLoadedMsg:
		m.curatedLoading = false
		m.curatedErr = ""
		m.sections = msg.sections
		if msg.err != nil {
			m.curatedErr = msg.err.Error()
			m.sections = nil
		}
		m.clampCursors()
		return m, nil

	case tableChangedMsg:
		return m, nil

	case commandDoneMsg:
		m.status = ""
		switch {
		case errors.Is(msg.err, gateway.ErrNoBackend):
			m.status = "No backend configured; downloads and installs are unavailable"
		case msg.err != nil:
			m.status = fmt.Sprintf("%s %s failed: %v", msg.action, msg.name, msg.err)
		}
		return m, nil

	case iconLoadedMsg:
		delete(m.sh.iconPending, msg.ref)
		if msg.err != nil {
			log.Debug("interactive: icon %s: %v", msg.ref, msg.err)
		}
		// A nil entry records the failure so it is not retried.
		m.sh.icons[msg.ref] = msg.lines
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.sh.cancel()
		return m, tea.Quit
	}
	if m.typing {
		return m.handleSearchInput(msg), nil
	}

	action, ok := m.keys.Action(key)
	if !ok {
		return m, nil
	}

	switch action {
	case config.ActionQuit:
		m.sh.cancel()
		return m, tea.Quit

	case config.ActionUp:
		m.move(-1)
	case config.ActionDown:
		m.move(1)

	case config.ActionNextPage:
		m.page = (m.page + 1) % pageCount
		m.hasDetail = false
	case config.ActionPrevPage:
		m.page = (m.page + pageCount - 1) % pageCount
		m.hasDetail = false

	case config.ActionSearch:
		m.typing = true
		m.hasDetail = false

	case config.ActionOpen:
		return m.open()

	case config.ActionBack:
		switch {
		case m.hasDetail:
			m.hasDetail = false
		case m.query != "":
			m.query = ""
		}

	case config.ActionDownload, config.ActionCancel, config.ActionInstall:
		return m, m.itemCmd(action)

	case config.ActionReload:
		if m.deps.Catalog == nil && m.deps.Curated == nil {
			return m, nil
		}
		m.loading = m.deps.Catalog != nil
		m.curatedLoading = m.deps.Curated != nil
		m.status = ""
		return m, tea.Batch(m.loadCatalogCmd(), m.loadCuratedCmd())
	}
	return m, nil
}

// handleSearchInput edits the query while the search bar has focus.
func (m AppModel) handleSearchInput(msg tea.KeyMsg) AppModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.typing = false
	case tea.KeyEsc:
		m.typing = false
		m.query = ""
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	default:
		return m
	}
	m.cursor[viewSearch] = 0
	m.cursor[viewUpdates] = 0
	return m
}

// open selects a category or opens the detail page of the selected item.
func (m AppModel) open() (tea.Model, tea.Cmd) {
	if m.hasDetail {
		return m, nil
	}
	if m.currentView() == viewCategories {
		cats := m.deps.Store.Categories()
		if len(cats) == 0 {
			return m, nil
		}
		m.query = cats[m.cursorFor(viewCategories, len(cats))].Label
		m.page = PageDiscover
		m.cursor[viewSearch] = 0
		return m, nil
	}

	app, ok := m.selectedApp()
	if !ok {
		return m, nil
	}
	m.detail = app
	m.hasDetail = true
	m.detailScroll = 0
	return m, m.fetchIconCmd(app.Icon)
}

// move shifts the cursor of the current view, or scrolls the detail page.
func (m *AppModel) move(delta int) {
	if m.hasDetail {
		m.detailScroll = max(m.detailScroll+delta, 0)
		return
	}
	v := m.currentView()
	n := m.listLen(v)
	if n == 0 {
		m.cursor[v] = 0
		return
	}
	m.cursor[v] = min(max(m.cursor[v]+delta, 0), n-1)
}

func (m *AppModel) clampCursors() {
	for v := range viewCount {
		m.cursor[v] = m.cursorFor(v, m.listLen(v))
	}
}

// cursorFor returns the cursor of v clamped to a list of n rows.
func (m AppModel) cursorFor(v view, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(m.cursor[v], 0), n-1)
}

func (m AppModel) currentView() view {
	switch {
	case m.page == PageUpdates:
		return viewUpdates
	case m.query != "":
		return viewSearch
	case m.page == PageCategories:
		return viewCategories
	default:
		return viewDiscover
	}
}

// apps returns the item list shown by v. Categories has none.
func (m AppModel) apps(v view) []catalog.App {
	switch v {
	case viewSearch:
		return m.deps.Store.Search(m.query)
	case viewUpdates:
		return m.deps.Store.Updates(m.query)
	case viewDiscover:
		var out []catalog.App
		for _, s := range m.discoverSections() {
			out = append(out, s.Apps...)
		}
		return out
	default:
		return nil
	}
}

// discoverSections returns the curated sections, or the whole catalog as a
// single section when no curated source is configured.
func (m AppModel) discoverSections() []catalog.Section {
	if m.deps.Curated != nil {
		return m.sections
	}
	return []catalog.Section{{ID: "all", Title: "All apps", Apps: m.deps.Store.All()}}
}

func (m AppModel) listLen(v view) int {
	if v == viewCategories {
		return len(m.deps.Store.Categories())
	}
	return len(m.apps(v))
}

func (m AppModel) selectedApp() (catalog.App, bool) {
	v := m.currentView()
	apps := m.apps(v)
	if len(apps) == 0 {
		return catalog.App{}, false
	}
	return apps[m.cursorFor(v, len(apps))], true
}

// focusedApp is the item the action keys apply to.
func (m AppModel) focusedApp() (catalog.App, bool) {
	if m.hasDetail {
		return m.detail, true
	}
	return m.selectedApp()
}

// itemCmd runs a download, cancel, or install for the focused item when the
// entry offers that action.
func (m AppModel) itemCmd(action config.KeyAction) tea.Cmd {
	app, ok := m.focusedApp()
	if !ok || !allowed(m.deps.Table.Get(app.ID), action) {
		return nil
	}

	ctx, gw := m.sh.ctx, m.deps.Gateway
	return func() tea.Msg {
		var err error
		switch action {
		case config.ActionDownload:
			err = gw.RequestDownload(ctx, app.ID, app.DownloadURL)
		case config.ActionCancel:
			err = gw.RequestCancel(ctx, app.ID)
		case config.ActionInstall:
			err = gw.Install(ctx, app.ID)
		}
		return commandDoneMsg{id: app.ID, name: app.Name, action: action, err: err}
	}
}

func (m AppModel) loadCatalogCmd() tea.Cmd {
	src, store, table := m.deps.Catalog, m.deps.Store, m.deps.Table
	if src == nil {
		return nil
	}
	ctx := m.sh.ctx
	return func() tea.Msg {
		gen, err := catalog.Load(ctx, src, store)
		if err != nil {
			log.Error("interactive: %v", err)
			return catalogLoadedMsg{gen: gen, err: err}
		}
		if n := table.Prune(store.Has); n > 0 {
			log.Info("interactive: pruned %d entries no longer in the catalog", n)
		}
		return catalogLoadedMsg{gen: gen}
	}
}

func (m AppModel) loadCuratedCmd() tea.Cmd {
	src := m.deps.Curated
	if src == nil {
		return nil
	}
	ctx := m.sh.ctx
	return func() tea.Msg {
		sections, err := src.FetchCurated(ctx)
		if err != nil {
			log.Warn("interactive: curated: %v", err)
		}
		return curatedLoadedMsg{sections: sections, err: err}
	}
}

func (m AppModel) fetchIconCmd(ref string) tea.Cmd {
	src := m.deps.Icons
	if src == nil || ref == "" {
		return nil
	}
	if _, done := m.sh.icons[ref]; done || m.sh.iconPending[ref] {
		return nil
	}
	m.sh.iconPending[ref] = true
	ctx := m.sh.ctx
	return func() tea.Msg {
		data, err := src.FetchIcon(ctx, ref)
		if err != nil {
			return iconLoadedMsg{ref: ref, err: err}
		}
		lines, err := decodeIcon(data, iconCols)
		return iconLoadedMsg{ref: ref, lines: lines, err: err}
	}
}
