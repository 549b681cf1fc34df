// ABOUTME: Catalog item and curated section types shared by every catalog source
// ABOUTME: JSON tags match the backend fetch_apps result and the registry documents

package catalog

// App is one downloadable package. It is immutable for the lifetime of a
// snapshot; the ID is the join key to the lifecycle table.
type App struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Version          string   `json:"version"`
	Category         string   `json:"category"`
	Icon             string   `json:"icon"`
	DownloadURL      string   `json:"downloadUrl"`
	Homepage         string   `json:"homepage"`
	License          string   `json:"license"`
	Author           string   `json:"author"`
	Screenshots      []string `json:"screenshots"`
	InstalledVersion string   `json:"installedVersion,omitempty"`
	HasUpdate        bool     `json:"hasUpdate,omitempty"`
}

// IsInstalled reports whether the backend reported a local version.
func (a App) IsInstalled() bool {
	return a.InstalledVersion != ""
}

// Section is a resolved curated section for the discover page.
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Apps        []App  `json:"apps"`
}

// CategoryCount is one row of the category aggregate.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
