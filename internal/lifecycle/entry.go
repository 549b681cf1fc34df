// ABOUTME: Per-item download/install lifecycle entry and its derived phase
// ABOUTME: The zero Entry is the documented default for never-referenced items

package lifecycle

// Status texts written by the gateway and the event handlers.
const (
	StatusInitializing         = "Initializing"
	StatusDownloaded           = "Downloaded"
	StatusDownloadFailed       = "Download failed"
	StatusDownloadCanceled     = "Download canceled"
	StatusStartingInstallation = "Starting installation"
	StatusInstallComplete      = "Installation complete"
	StatusInstallFailed        = "Installation failed"
)

// Entry is the mutable download/install record for one catalog item.
// Progress values are percentages in 0..100.
type Entry struct {
	Downloading      bool
	DownloadProgress float64
	DownloadStatus   string

	Installing      bool
	InstallProgress float64
	InstallStatus   string

	// Error is empty when there is no error.
	Error string
	// ResolvedFilePath is only meaningful when Downloaded is true.
	ResolvedFilePath string
	Downloaded       bool
}

// Phase summarizes an entry for display.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDownloading
	PhaseDownloaded
	PhaseInstalling
	PhaseInstalled
	PhaseFailed
)

// String returns the human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDownloading:
		return "downloading"
	case PhaseDownloaded:
		return "downloaded"
	case PhaseInstalling:
		return "installing"
	case PhaseInstalled:
		return "installed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsActive reports whether a backend operation is in flight.
func (p Phase) IsActive() bool {
	return p == PhaseDownloading || p == PhaseInstalling
}

// Phase derives the display phase. In-flight flags win over outcomes, and an
// error outranks a completed download.
func (e Entry) Phase() Phase {
	switch {
	case e.Installing:
		return PhaseInstalling
	case e.Downloading:
		return PhaseDownloading
	case e.Error != "":
		return PhaseFailed
	case e.InstallProgress >= 100:
		return PhaseInstalled
	case e.Downloaded:
		return PhaseDownloaded
	default:
		return PhaseIdle
	}
}

// ArtifactPath returns the resolved file path when the last download
// succeeded, or "" when the caller must fall back to a default location.
func (e Entry) ArtifactPath() string {
	if e.Downloaded && e.ResolvedFilePath != "" {
		return e.ResolvedFilePath
	}
	return ""
}
