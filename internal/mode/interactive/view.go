// ABOUTME: AppModel rendering: tabs with the update badge, search bar, lists, and the detail page
// ABOUTME: Lifecycle state is read from the table at render time

package interactive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/config"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/width"
)

const (
	versionW  = 10
	categoryW = 14
	stateW    = 24
	barCells  = 10
)

// View renders the whole screen.
func (m AppModel) View() string {
	if m.width == 0 {
		return ""
	}
	s := Styles()

	var top []string
	top = append(top, m.renderTabs())
	top = append(top, m.renderSearchBar())
	if m.loadErr != "" {
		top = append(top, s.Banner.Render(width.Truncate("Failed to load apps: "+width.SingleLine(m.loadErr), m.width)))
	}
	bottom := m.renderFooter()

	bodyH := max(m.height-len(top)-len(bottom)-1, 1)
	var body []string
	switch {
	case m.hasDetail:
		body = m.renderDetail(bodyH)
	case m.loading:
		body = []string{s.Muted.Render("Loading apps...")}
	default:
		body = m.renderBody(bodyH)
	}
	for len(body) < bodyH {
		body = append(body, "")
	}

	lines := append(top, "")
	lines = append(lines, body...)
	lines = append(lines, bottom...)
	clip := lipgloss.NewStyle().MaxWidth(m.width)
	for i, l := range lines {
		lines[i] = clip.Render(l)
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) renderTabs() string {
	s := Styles()
	parts := []string{s.Title.Render("Fossintosh")}
	if m.deps.Version != "" {
		parts[0] += " " + s.Muted.Render(m.deps.Version)
	}
	for p := range pageCount {
		label := p.String()
		if p == PageUpdates {
			if n := m.deps.Store.UpdateCount(); n > 0 {
				label += " " + s.Badge.Render(fmt.Sprintf("(%d)", n))
			} else {
				label += " (0)"
			}
		}
		if p == m.page && !m.hasDetail {
			parts = append(parts, s.ActiveTab.Render(label))
		} else {
			parts = append(parts, s.Tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m AppModel) renderSearchBar() string {
	s := Styles()
	if !m.typing && m.query == "" {
		return s.Muted.Render("Press " + firstKey(m.keys, config.ActionSearch) + " to search apps")
	}
	line := "Search: " + m.query
	if m.typing {
		line += "█"
	}
	return s.Search.Render(line)
}

func (m AppModel) renderFooter() []string {
	s := Styles()
	var out []string
	if m.status != "" {
		out = append(out, s.Warning.Render(width.Truncate(m.status, m.width)))
	}
	help := []struct {
		action config.KeyAction
		label  string
	}{
		{config.ActionNextPage, "pages"},
		{config.ActionSearch, "search"},
		{config.ActionOpen, "open"},
		{config.ActionBack, "back"},
		{config.ActionDownload, "download"},
		{config.ActionCancel, "cancel"},
		{config.ActionInstall, "install"},
		{config.ActionReload, "reload"},
		{config.ActionQuit, "quit"},
	}
	parts := make([]string, len(help))
	for i, h := range help {
		parts[i] = firstKey(m.keys, h.action) + " " + h.label
	}
	return append(out, s.Footer.Render(strings.Join(parts, " · ")))
}

func (m AppModel) renderBody(h int) []string {
	s := Styles()
	v := m.currentView()
	switch v {
	case viewCategories:
		return m.renderCategories(h)
	case viewDiscover:
		if m.curatedLoading {
			return []string{s.Muted.Render("Loading curated apps...")}
		}
		if m.curatedErr != "" {
			return []string{s.Error.Render(width.SingleLine(m.curatedErr))}
		}
	}

	apps := m.apps(v)
	if len(apps) == 0 {
		return m.renderEmpty(v)
	}
	cur := m.cursorFor(v, len(apps))

	var rows []string
	var sectionAt map[int]catalog.Section
	if v == viewDiscover {
		sectionAt = make(map[int]catalog.Section)
		i := 0
		for _, sec := range m.discoverSections() {
			if len(sec.Apps) > 0 {
				sectionAt[i] = sec
			}
			i += len(sec.Apps)
		}
	}

	// Row index of the cursor, counting section headers.
	curRow := 0
	for i, app := range apps {
		if sec, ok := sectionAt[i]; ok {
			if i > 0 {
				rows = append(rows, "")
			}
			rows = append(rows, s.Section.Render(sec.Title))
			if sec.Description != "" {
				rows = append(rows, s.Muted.Render(width.Truncate(width.SingleLine(sec.Description), m.width)))
			}
		}
		if i == cur {
			curRow = len(rows)
		}
		rows = append(rows, m.renderAppRow(app, m.deps.Table.Get(app.ID), i == cur))
	}
	return window(rows, curRow, h)
}

func (m AppModel) renderEmpty(v view) []string {
	s := Styles()
	switch v {
	case viewSearch:
		out := []string{s.Muted.Render(fmt.Sprintf("No apps match %q.", m.query))}
		if hints := m.deps.Store.Suggest(m.query, suggestLimit); len(hints) > 0 {
			out = append(out, s.Info.Render("Did you mean: "+strings.Join(hints, ", ")+"?"))
		}
		return out
	case viewUpdates:
		return []string{s.Success.Render("All apps are up to date.")}
	default:
		return []string{s.Muted.Render("No apps available.")}
	}
}

const suggestLimit = 5

func (m AppModel) renderCategories(h int) []string {
	s := Styles()
	cats := m.deps.Store.Categories()
	if len(cats) == 0 {
		return []string{s.Muted.Render("No categories.")}
	}
	cur := m.cursorFor(viewCategories, len(cats))
	rows := make([]string, len(cats))
	for i, c := range cats {
		label := c.Label
		if label == "" {
			label = "(uncategorized)"
		}
		line := fmt.Sprintf("%s %s", width.PadRight(label, 30), s.Muted.Render(fmt.Sprintf("%d", c.Count)))
		rows[i] = marker(i == cur) + line
		if i == cur {
			rows[i] = s.Selection.Render(rows[i])
		}
	}
	return window(rows, cur, h)
}

func marker(selected bool) string {
	if selected {
		return "▸ "
	}
	return "  "
}

// renderAppRow lays out name, version, category, and lifecycle state in
// fixed columns.
func (m AppModel) renderAppRow(app catalog.App, e lifecycle.Entry, selected bool) string {
	s := Styles()
	nameW := max(m.width-2-versionW-categoryW-stateW-3, 10)

	name := width.PadRight(width.SingleLine(app.Name), nameW)
	if selected {
		name = s.Bold.Render(name)
	}
	line := marker(selected) + name + " " +
		s.Muted.Render(width.PadRight(app.Version, versionW)) + " " +
		width.PadRight(app.Category, categoryW) + " " +
		stateCell(app, e)
	if selected {
		line = s.Selection.Render(line)
	}
	return line
}

// stateCell summarizes the entry for list rows.
func stateCell(app catalog.App, e lifecycle.Entry) string {
	s := Styles()
	switch e.Phase() {
	case lifecycle.PhaseDownloading:
		return progressBar(e.DownloadProgress, barCells)
	case lifecycle.PhaseInstalling:
		return progressBar(e.InstallProgress, barCells)
	case lifecycle.PhaseFailed:
		return s.Error.Render(width.Truncate("✗ "+width.SingleLine(e.Error), stateW))
	case lifecycle.PhaseInstalled:
		return s.Success.Render("✓ Installed")
	case lifecycle.PhaseDownloaded:
		return s.Success.Render("✓ Downloaded")
	}
	switch {
	case app.HasUpdate:
		return s.Warning.Render(width.Truncate("Update to "+app.Version, stateW))
	case app.IsInstalled():
		return s.Muted.Render(width.Truncate("Installed "+app.InstalledVersion, stateW))
	}
	return ""
}

// progressBar renders pct (0..100) as a bar of cells plus the percentage.
func progressBar(pct float64, cells int) string {
	s := Styles()
	filled := min(max(int(pct/100*float64(cells)+0.5), 0), cells)
	return s.BarFull.Render(strings.Repeat("█", filled)) +
		s.BarEmpty.Render(strings.Repeat("░", cells-filled)) +
		fmt.Sprintf(" %3.0f%%", pct)
}

// window returns at most h rows of rows, scrolled so row cur is visible.
func window(rows []string, cur, h int) []string {
	if len(rows) <= h {
		return rows
	}
	start := min(max(cur-h+1, 0), len(rows)-h)
	return rows[start : start+h]
}

func (m AppModel) renderDetail(h int) []string {
	s := Styles()
	app := m.detail
	e := m.deps.Table.Get(app.ID)

	info := []string{s.Title.Render(app.Name)}
	var meta []string
	for _, v := range []string{app.Version, app.Author, app.License, app.Category} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		info = append(info, s.Muted.Render(strings.Join(meta, " · ")))
	}
	if app.Homepage != "" {
		info = append(info, s.Info.Render(app.Homepage))
	}
	switch {
	case app.HasUpdate:
		info = append(info, s.Warning.Render(fmt.Sprintf("Update available: %s -> %s", app.InstalledVersion, app.Version)))
	case app.IsInstalled():
		info = append(info, s.Success.Render("Installed "+app.InstalledVersion))
	}
	info = append(info, "", buttonBar(e, m.keys))
	info = append(info, m.detailStatus(app, e)...)

	header := strings.Join(info, "\n")
	if icon := m.sh.icons[app.Icon]; len(icon) > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(icon, "\n"), "  ", header)
	}

	lines := strings.Split(header, "\n")
	if desc := m.sh.desc.Lines(app.Description, max(m.width-4, 20)); len(desc) > 0 {
		lines = append(lines, "")
		lines = append(lines, desc...)
	}
	if len(app.Screenshots) > 0 {
		lines = append(lines, "", s.Section.Render("Screenshots"))
		for _, u := range app.Screenshots {
			lines = append(lines, s.Muted.Render("  "+u))
		}
	}

	start := min(m.detailScroll, max(len(lines)-h, 0))
	end := min(start+h, len(lines))
	return lines[start:end]
}

// detailStatus shows progress, the artifact location, and any error.
func (m AppModel) detailStatus(app catalog.App, e lifecycle.Entry) []string {
	s := Styles()
	var out []string
	if e.Downloading {
		out = append(out, progressBar(e.DownloadProgress, 20)+"  "+s.Muted.Render(e.DownloadStatus))
	}
	if e.Installing {
		out = append(out, progressBar(e.InstallProgress, 20)+"  "+s.Muted.Render(e.InstallStatus))
	}
	if !e.Installing && e.InstallStatus != "" && e.Error == "" {
		out = append(out, s.Success.Render(e.InstallStatus))
	}
	if e.Downloaded && !e.Downloading {
		out = append(out, s.Success.Render("Downloaded to "+m.deps.Gateway.ArtifactPath(app.ID)))
	}
	if e.Error != "" {
		out = append(out, s.Error.Render("Error: "+width.SingleLine(e.Error)))
	}
	return out
}
