// ABOUTME: Tests for AppModel key dispatch, page switching, search, actions, and reload
// ABOUTME: Drives Update directly and runs returned commands synchronously

package interactive

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/config"
	"github.com/mauromedda/fossintosh-go/internal/gateway"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

// fakeCommands records gateway calls and answers with err.
type fakeCommands struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeCommands) record(call string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func (f *fakeCommands) DownloadApp(_ context.Context, id, url string) (string, error) {
	return f.record("download " + id + " " + url)
}

func (f *fakeCommands) CancelDownload(_ context.Context, id string) (string, error) {
	return f.record("cancel " + id)
}

func (f *fakeCommands) InstallApp(_ context.Context, id, path string) (string, error) {
	return f.record("install " + id + " " + path)
}

type fakeCatalog struct {
	apps []catalog.App
	err  error
}

func (f fakeCatalog) FetchApps(context.Context) ([]catalog.App, error) {
	return f.apps, f.err
}

type fakeCurated struct {
	sections []catalog.Section
	err      error
}

func (f fakeCurated) FetchCurated(context.Context) ([]catalog.Section, error) {
	return f.sections, f.err
}

func testApps() []catalog.App {
	return []catalog.App{
		{ID: "blender", Name: "Blender", Version: "4.2", Category: "Graphics", DownloadURL: "https://x/blender.dmg"},
		{ID: "gimp", Name: "GIMP", Version: "2.10", Category: "Graphics", InstalledVersion: "2.8", HasUpdate: true},
		{ID: "vlc", Name: "VLC", Version: "3.0", Category: "Media"},
	}
}

func newTestModel(t *testing.T, cmds gateway.Commands) (AppModel, Deps) {
	t.Helper()

	store := catalog.NewStore()
	store.Replace(testApps())
	table := lifecycle.NewTable()
	deps := Deps{
		Store:   store,
		Table:   table,
		Gateway: gateway.New(cmds, table, gateway.Options{DownloadDir: "/tmp/dl"}),
	}
	m := NewAppModel(context.Background(), deps)
	t.Cleanup(m.sh.cancel)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel), deps
}

func press(t *testing.T, m AppModel, keys ...string) (AppModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m, cmd = next.(AppModel), c
	}
	return m, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m AppModel, cmd tea.Cmd) (AppModel, tea.Msg) {
	t.Helper()
	if cmd == nil {
		t.Fatal("cmd = nil; want a command")
	}
	msg := cmd()
	next, _ := m.Update(msg)
	return next.(AppModel), msg
}

func TestAppModel_PageCycle(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	if m.page != PageDiscover {
		t.Fatalf("page = %s; want Discover", m.page)
	}

	m, _ = press(t, m, "tab")
	if m.page != PageCategories {
		t.Errorf("after tab page = %s; want Categories", m.page)
	}
	m, _ = press(t, m, "tab", "tab")
	if m.page != PageDiscover {
		t.Errorf("after 3 tabs page = %s; want Discover", m.page)
	}
	m, _ = press(t, m, "shift+tab")
	if m.page != PageUpdates {
		t.Errorf("after shift+tab page = %s; want Updates", m.page)
	}
}

func TestAppModel_ViewShowsUpdateBadge(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	view := m.View()
	if !strings.Contains(view, "Updates") || !strings.Contains(view, "(1)") {
		t.Errorf("View() missing update badge:\n%s", view)
	}
	if !strings.Contains(view, "All apps") || !strings.Contains(view, "Blender") {
		t.Errorf("View() missing discover list:\n%s", view)
	}
}

func TestAppModel_UpdatesPage(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	m, _ = press(t, m, "shift+tab")

	apps := m.apps(m.currentView())
	if len(apps) != 1 || apps[0].ID != "gimp" {
		t.Errorf("updates = %v; want [gimp]", apps)
	}
}

func TestAppModel_CategorySelectSetsSearch(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	m, _ = press(t, m, "tab", "down", "enter")

	if m.query != "Media" {
		t.Errorf("query = %q; want Media", m.query)
	}
	if m.page != PageDiscover || m.currentView() != viewSearch {
		t.Errorf("page = %s, view = %d; want Discover showing search", m.page, m.currentView())
	}
	app, ok := m.selectedApp()
	if !ok || app.ID != "vlc" {
		t.Errorf("selectedApp = %v, %v; want vlc", app.ID, ok)
	}

	m, _ = press(t, m, "esc")
	if m.query != "" || m.currentView() != viewDiscover {
		t.Errorf("after esc query = %q; want cleared", m.query)
	}
}

func TestAppModel_SearchTyping(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	m, _ = press(t, m, "/", "d", "q", "backspace", "enter")

	if m.typing {
		t.Error("typing = true after enter")
	}
	if m.query != "d" {
		t.Errorf("query = %q; want %q (letters are text while typing)", m.query, "d")
	}

	m, _ = press(t, m, "/", "x", "y", "z", "enter")
	view := m.View()
	if !strings.Contains(view, `No apps match "dxyz"`) {
		t.Errorf("View() missing empty search message:\n%s", view)
	}
}

func TestAppModel_SearchSuggestions(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	m.query = "blendr"
	if view := m.View(); !strings.Contains(view, "Did you mean: Blender?") {
		t.Errorf("View() missing suggestion:\n%s", view)
	}
}

func TestAppModel_DownloadFromList(t *testing.T) {
	t.Parallel()

	cmds := &fakeCommands{}
	m, deps := newTestModel(t, cmds)

	m, cmd := press(t, m, "d")
	m, msg := run(t, m, cmd)

	done, ok := msg.(commandDoneMsg)
	if !ok || done.err != nil || done.id != "blender" {
		t.Fatalf("msg = %#v; want successful blender download", msg)
	}
	if len(cmds.calls) != 1 || cmds.calls[0] != "download blender https://x/blender.dmg" {
		t.Errorf("calls = %v", cmds.calls)
	}
	e := deps.Table.Get("blender")
	if !e.Downloading || e.DownloadStatus != lifecycle.StatusInitializing {
		t.Errorf("entry = %+v; want downloading", e)
	}
	if m.status != "" {
		t.Errorf("status = %q; want empty", m.status)
	}

	// Downloading offers only cancel.
	if _, cmd := press(t, m, "d"); cmd != nil {
		t.Error("download while downloading returned a command")
	}
	if _, cmd := press(t, m, "i"); cmd != nil {
		t.Error("install while downloading returned a command")
	}
	_, cmd = press(t, m, "c")
	run(t, m, cmd)
	if e := deps.Table.Get("blender"); e.Downloading || e.Error != lifecycle.StatusDownloadCanceled {
		t.Errorf("after cancel entry = %+v", e)
	}
}

func TestAppModel_InstallUsesArtifactPath(t *testing.T) {
	t.Parallel()

	cmds := &fakeCommands{}
	m, deps := newTestModel(t, cmds)
	deps.Table.Apply("blender", lifecycle.Patch{}.SetDownloaded(true).SetResolvedFilePath("/tmp/x.pkg"))

	m, cmd := press(t, m, "i")
	run(t, m, cmd)

	if len(cmds.calls) != 1 || cmds.calls[0] != "install blender /tmp/x.pkg" {
		t.Errorf("calls = %v", cmds.calls)
	}
	if e := deps.Table.Get("blender"); !e.Installing {
		t.Errorf("entry = %+v; want installing", e)
	}
	if _, cmd := press(t, m, "d"); cmd != nil {
		t.Error("re-download while installing returned a command")
	}
}

func TestAppModel_RejectionBecomesEntryError(t *testing.T) {
	t.Parallel()

	cmds := &fakeCommands{err: errors.New("disk full")}
	m, deps := newTestModel(t, cmds)
	deps.Table.Apply("blender", lifecycle.Patch{}.SetDownloaded(true))

	m, cmd := press(t, m, "i")
	m, _ = run(t, m, cmd)

	e := deps.Table.Get("blender")
	if e.Installing || e.Error != "disk full" || e.InstallProgress != 0 {
		t.Errorf("entry = %+v; want install failure", e)
	}
	if !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q; want rejection text", m.status)
	}
}

func TestAppModel_NoBackend(t *testing.T) {
	t.Parallel()

	m, deps := newTestModel(t, nil)
	m, cmd := press(t, m, "d")
	m, _ = run(t, m, cmd)

	if !strings.Contains(m.status, "No backend") {
		t.Errorf("status = %q; want no backend notice", m.status)
	}
	if e := deps.Table.Get("blender"); e.Error != gateway.ErrNoBackend.Error() {
		t.Errorf("entry error = %q; want %q", e.Error, gateway.ErrNoBackend.Error())
	}
}

func TestAppModel_DetailOverlay(t *testing.T) {
	t.Parallel()

	m, deps := newTestModel(t, &fakeCommands{})
	m, _ = press(t, m, "down", "enter")

	if !m.hasDetail || m.detail.ID != "gimp" {
		t.Fatalf("detail = %v, %v; want gimp", m.detail.ID, m.hasDetail)
	}
	view := m.View()
	for _, want := range []string{"GIMP", "Update available: 2.8 -> 2.10", "[d] Download"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	deps.Table.Apply("gimp", lifecycle.Patch{}.SetDownloading(true).SetDownloadProgress(40))
	next, _ := m.Update(tableChangedMsg{})
	m = next.(AppModel)
	if view := m.View(); !strings.Contains(view, "[c] Cancel") || !strings.Contains(view, "40%") {
		t.Errorf("detail view not refreshed after table change:\n%s", view)
	}

	m, _ = press(t, m, "esc")
	if m.hasDetail {
		t.Error("esc did not close the detail page")
	}
}

func TestAppModel_LoadAndReload(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore()
	table := lifecycle.NewTable()
	src := &fakeCatalog{apps: testApps()}
	deps := Deps{
		Store:   store,
		Table:   table,
		Gateway: gateway.New(nil, table, gateway.Options{}),
		Catalog: src,
	}
	m := NewAppModel(context.Background(), deps)
	t.Cleanup(m.sh.cancel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)

	if !m.loading || !strings.Contains(m.View(), "Loading apps") {
		t.Fatal("model not loading before the first catalog message")
	}
	m, _ = run(t, m, m.loadCatalogCmd())
	if m.loading || store.Len() != 3 {
		t.Fatalf("loading = %v, Len = %d; want loaded 3", m.loading, store.Len())
	}

	table.Apply("vlc", lifecycle.Patch{}.SetDownloaded(true))
	table.Apply("gimp", lifecycle.Patch{}.SetDownloading(true))
	src.apps = testApps()[:1]

	m, cmd := press(t, m, "r")
	if cmd == nil || !m.loading {
		t.Fatal("reload did not start loading")
	}
	m, _ = run(t, m, m.loadCatalogCmd())
	if store.Len() != 1 {
		t.Errorf("Len = %d; want 1", store.Len())
	}
	if table.Has("vlc") {
		t.Error("idle entry for removed item survived reload")
	}
	if !table.Has("gimp") {
		t.Error("active entry for removed item was pruned")
	}
}

func TestAppModel_LoadErrorBanner(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore()
	table := lifecycle.NewTable()
	deps := Deps{
		Store:   store,
		Table:   table,
		Gateway: gateway.New(nil, table, gateway.Options{}),
		Catalog: fakeCatalog{err: errors.New("backend exited")},
	}
	m := NewAppModel(context.Background(), deps)
	t.Cleanup(m.sh.cancel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)

	m, _ = run(t, m, m.loadCatalogCmd())
	view := m.View()
	if !strings.Contains(view, "Failed to load apps") || !strings.Contains(view, "backend exited") {
		t.Errorf("View() missing banner:\n%s", view)
	}
	if !strings.Contains(view, "No apps available.") {
		t.Errorf("View() missing empty catalog:\n%s", view)
	}
}

func TestAppModel_CuratedSections(t *testing.T) {
	t.Parallel()

	m, deps := newTestModel(t, &fakeCommands{})
	deps.Curated = fakeCurated{sections: []catalog.Section{
		{ID: "featured", Title: "Featured", Apps: []catalog.App{{ID: "krita", Name: "Krita"}}},
		{ID: "media", Title: "Media", Apps: []catalog.App{{ID: "vlc", Name: "VLC"}}},
	}}
	m.deps = deps
	m.curatedLoading = true

	m, _ = run(t, m, m.loadCuratedCmd())
	view := m.View()
	for _, want := range []string{"Featured", "Krita", "Media", "VLC"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, "down", "enter")
	if m.detail.ID != "vlc" {
		t.Errorf("detail = %q; want vlc from the second section", m.detail.ID)
	}
}

func TestAppModel_CuratedFailureReplacesPage(t *testing.T) {
	t.Parallel()

	m, deps := newTestModel(t, &fakeCommands{})
	deps.Curated = fakeCurated{err: errors.New("GET curated.json: 404")}
	m.deps = deps

	m, _ = run(t, m, m.loadCuratedCmd())
	if view := m.View(); !strings.Contains(view, "GET curated.json: 404") {
		t.Errorf("View() missing curated error:\n%s", view)
	}
}

func TestAppModel_CustomKeys(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	if err := kb.Override(map[string][]string{"download": {"D"}}); err != nil {
		t.Fatal(err)
	}
	m, _ := newTestModel(t, &fakeCommands{})
	m.keys = kb

	if _, cmd := press(t, m, "d"); cmd != nil {
		t.Error("old binding still downloads")
	}
	if _, cmd := press(t, m, "D"); cmd == nil {
		t.Error("new binding did not download")
	}
}

func TestAppModel_Quit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, &fakeCommands{})
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if m.sh.ctx.Err() == nil {
		t.Error("quit did not cancel the model context")
	}
}
