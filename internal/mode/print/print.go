// ABOUTME: Non-interactive catalog rendering in text or JSON for scripts and pipes
// ABOUTME: Views: catalog, search, updates, categories, curated; text is fitted to the terminal width

package print

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/width"
)

// View names.
const (
	ViewCatalog    = "catalog"
	ViewSearch     = "search"
	ViewUpdates    = "updates"
	ViewCategories = "categories"
	ViewCurated    = "curated"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// suggestLimit caps the "did you mean" list for empty searches.
const suggestLimit = 5

// Views lists every view name Run accepts.
var Views = []string{ViewCatalog, ViewSearch, ViewUpdates, ViewCategories, ViewCurated}

// CuratedSource resolves the discover page sections. *registry.Registry
// satisfies it.
type CuratedSource interface {
	FetchCurated(ctx context.Context) ([]catalog.Section, error)
}

// Config selects what to print.
type Config struct {
	View   string // default ViewCatalog
	Term   string // search or updates filter
	Format string // FormatText (default) or FormatJSON
	// Width limits text rows; 0 detects the terminal width, negative
	// disables truncation.
	Width int
}

// Deps provides the stores print mode reads.
type Deps struct {
	Store   *catalog.Store
	Table   *lifecycle.Table
	Curated CuratedSource
	Out     io.Writer // default os.Stdout
	// LoadErr is the catalog load failure, printed as a banner.
	LoadErr error
}

// Run renders one view and returns.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if cfg.View == "" {
		cfg.View = ViewCatalog
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	f, err := newFormatter(cfg.Format, out, detectWidth(cfg.Width, out))
	if err != nil {
		return err
	}
	if deps.LoadErr != nil {
		f.banner(deps.LoadErr.Error())
	}

	switch cfg.View {
	case ViewCatalog:
		f.apps(rows(deps.Store.All(), deps.Table), nil)
	case ViewSearch:
		apps := deps.Store.Search(cfg.Term)
		var hints []string
		if len(apps) == 0 && strings.TrimSpace(cfg.Term) != "" {
			hints = deps.Store.Suggest(cfg.Term, suggestLimit)
		}
		f.apps(rows(apps, deps.Table), hints)
	case ViewUpdates:
		f.apps(rows(deps.Store.Updates(cfg.Term), deps.Table), nil)
	case ViewCategories:
		f.categories(deps.Store.Categories())
	case ViewCurated:
		if deps.Curated == nil {
			return errors.New("curated view needs a registry")
		}
		sections, err := deps.Curated.FetchCurated(ctx)
		if err != nil {
			// The discover page shows the message in place of content.
			f.banner(err.Error())
			break
		}
		f.sections(sections, deps.Table)
	default:
		return fmt.Errorf("unknown view %q (want one of %s)", cfg.View, strings.Join(Views, ", "))
	}
	return f.flush()
}

// detectWidth resolves the row width: explicit values win, a terminal
// reports its own, anything else is unlimited.
func detectWidth(w int, out io.Writer) int {
	if w != 0 {
		return w
	}
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return -1
	}
	cols, _, err := term.GetSize(int(file.Fd()))
	if err != nil || cols <= 0 {
		return -1
	}
	return cols
}

// row pairs an app with its lifecycle state.
type row struct {
	App   catalog.App
	Entry lifecycle.Entry
}

func rows(apps []catalog.App, table *lifecycle.Table) []row {
	out := make([]row, len(apps))
	for i, a := range apps {
		out[i] = row{App: a}
		if table != nil {
			out[i].Entry = table.Get(a.ID)
		}
	}
	return out
}

// stateLabel is the compact lifecycle column shown in text output.
func stateLabel(a catalog.App, e lifecycle.Entry) string {
	switch e.Phase() {
	case lifecycle.PhaseDownloading:
		return fmt.Sprintf("downloading %.0f%%", e.DownloadProgress)
	case lifecycle.PhaseInstalling:
		return fmt.Sprintf("installing %.0f%%", e.InstallProgress)
	case lifecycle.PhaseFailed:
		return "failed: " + e.Error
	case lifecycle.PhaseIdle:
		switch {
		case a.HasUpdate:
			return "update " + a.InstalledVersion + " -> " + a.Version
		case a.IsInstalled():
			return "installed " + a.InstalledVersion
		}
		return ""
	default:
		return e.Phase().String()
	}
}

// formatter renders views.
type formatter interface {
	banner(msg string)
	apps(rs []row, suggestions []string)
	categories(cs []catalog.CategoryCount)
	sections(ss []catalog.Section, table *lifecycle.Table)
	flush() error
}

func newFormatter(format string, out io.Writer, cols int) (formatter, error) {
	switch format {
	case FormatText:
		return &textFormatter{out: out, cols: cols}, nil
	case FormatJSON:
		return &jsonFormatter{out: out}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

// textFormatter writes aligned rows, one item per line.
type textFormatter struct {
	out  io.Writer
	cols int
	err  error
}

func (f *textFormatter) line(s string) {
	if f.err != nil {
		return
	}
	if f.cols > 0 {
		s = width.Truncate(s, f.cols)
	}
	_, f.err = fmt.Fprintln(f.out, s)
}

func (f *textFormatter) banner(msg string) {
	f.line("error: " + width.SingleLine(msg))
}

func (f *textFormatter) apps(rs []row, suggestions []string) {
	if len(rs) == 0 {
		f.line("No apps found.")
		if len(suggestions) > 0 {
			f.line("Did you mean: " + strings.Join(suggestions, ", ") + "?")
		}
		return
	}

	idW, nameW, verW := 2, 4, 7
	for _, r := range rs {
		idW = max(idW, width.Visible(r.App.ID))
		nameW = max(nameW, width.Visible(r.App.Name))
		verW = max(verW, width.Visible(r.App.Version))
	}
	idW, nameW, verW = min(idW, 24), min(nameW, 32), min(verW, 14)

	f.line(width.PadRight("ID", idW) + "  " + width.PadRight("NAME", nameW) + "  " +
		width.PadRight("VERSION", verW) + "  CATEGORY")
	for _, r := range rs {
		cols := width.PadRight(r.App.ID, idW) + "  " +
			width.PadRight(width.SingleLine(r.App.Name), nameW) + "  " +
			width.PadRight(r.App.Version, verW) + "  " + r.App.Category
		if s := stateLabel(r.App, r.Entry); s != "" {
			cols += "  [" + s + "]"
		}
		f.line(cols)
	}
}

func (f *textFormatter) categories(cs []catalog.CategoryCount) {
	if len(cs) == 0 {
		f.line("No categories.")
		return
	}
	labelW := 0
	for _, c := range cs {
		labelW = max(labelW, width.Visible(c.Label))
	}
	labelW = min(labelW, 40)
	for _, c := range cs {
		f.line(fmt.Sprintf("%s  %d", width.PadRight(c.Label, labelW), c.Count))
	}
}

func (f *textFormatter) sections(ss []catalog.Section, table *lifecycle.Table) {
	for i, s := range ss {
		if i > 0 {
			f.line("")
		}
		f.line("== " + s.Title + " ==")
		if s.Description != "" {
			f.line(width.SingleLine(s.Description))
		}
		f.apps(rows(s.Apps, table), nil)
	}
}

func (f *textFormatter) flush() error { return f.err }

// jsonFormatter collects the view and writes a single JSON document at the
// end.
type jsonFormatter struct {
	out io.Writer
	doc jsonOutput
}

type jsonApp struct {
	catalog.App
	State *jsonState `json:"state,omitempty"`
}

// jsonState is the lifecycle entry; omitted for untouched items.
type jsonState struct {
	Phase            string  `json:"phase"`
	DownloadProgress float64 `json:"downloadProgress"`
	DownloadStatus   string  `json:"downloadStatus,omitempty"`
	InstallProgress  float64 `json:"installProgress"`
	InstallStatus    string  `json:"installStatus,omitempty"`
	Error            string  `json:"error,omitempty"`
	FilePath         string  `json:"filePath,omitempty"`
}

type jsonSection struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Apps        []jsonApp `json:"apps"`
}

type jsonOutput struct {
	Error       string                  `json:"error,omitempty"`
	Apps        []jsonApp               `json:"apps,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
	Categories  []catalog.CategoryCount `json:"categories,omitempty"`
	Sections    []jsonSection           `json:"sections,omitempty"`
}

func toJSONApps(rs []row) []jsonApp {
	out := make([]jsonApp, len(rs))
	for i, r := range rs {
		out[i] = jsonApp{App: r.App}
		if r.Entry != (lifecycle.Entry{}) {
			e := r.Entry
			out[i].State = &jsonState{
				Phase:            e.Phase().String(),
				DownloadProgress: e.DownloadProgress,
				DownloadStatus:   e.DownloadStatus,
				InstallProgress:  e.InstallProgress,
				InstallStatus:    e.InstallStatus,
				Error:            e.Error,
				FilePath:         e.ArtifactPath(),
			}
		}
	}
	return out
}

func (f *jsonFormatter) banner(msg string) { f.doc.Error = msg }

func (f *jsonFormatter) apps(rs []row, suggestions []string) {
	f.doc.Apps = toJSONApps(rs)
	f.doc.Suggestions = suggestions
}

func (f *jsonFormatter) categories(cs []catalog.CategoryCount) { f.doc.Categories = cs }

func (f *jsonFormatter) sections(ss []catalog.Section, table *lifecycle.Table) {
	for _, s := range ss {
		f.doc.Sections = append(f.doc.Sections, jsonSection{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Apps:        toJSONApps(rows(s.Apps, table)),
		})
	}
}

func (f *jsonFormatter) flush() error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(f.doc)
}
