// ABOUTME: Merge-patch for lifecycle entries: nil fields leave the entry untouched
// ABOUTME: Value-receiver builders keep producers terse and patches immutable

package lifecycle

// Patch is a partial Entry. A nil field is omitted; a non-nil field
// overwrites. Error and ResolvedFilePath are cleared by setting "".
type Patch struct {
	Downloading      *bool
	DownloadProgress *float64
	DownloadStatus   *string

	Installing      *bool
	InstallProgress *float64
	InstallStatus   *string

	Error            *string
	ResolvedFilePath *string
	Downloaded       *bool
}

func ptr[T any](v T) *T { return &v }

// SetDownloading returns p with Downloading set.
func (p Patch) SetDownloading(v bool) Patch { p.Downloading = ptr(v); return p }

// SetDownloadProgress returns p with DownloadProgress set.
func (p Patch) SetDownloadProgress(v float64) Patch { p.DownloadProgress = ptr(v); return p }

// SetDownloadStatus returns p with DownloadStatus set.
func (p Patch) SetDownloadStatus(v string) Patch { p.DownloadStatus = ptr(v); return p }

// SetInstalling returns p with Installing set.
func (p Patch) SetInstalling(v bool) Patch { p.Installing = ptr(v); return p }

// SetInstallProgress returns p with InstallProgress set.
func (p Patch) SetInstallProgress(v float64) Patch { p.InstallProgress = ptr(v); return p }

// SetInstallStatus returns p with InstallStatus set.
func (p Patch) SetInstallStatus(v string) Patch { p.InstallStatus = ptr(v); return p }

// SetError returns p with Error set.
func (p Patch) SetError(v string) Patch { p.Error = ptr(v); return p }

// ClearError returns p with Error cleared.
func (p Patch) ClearError() Patch { return p.SetError("") }

// SetResolvedFilePath returns p with ResolvedFilePath set.
func (p Patch) SetResolvedFilePath(v string) Patch { p.ResolvedFilePath = ptr(v); return p }

// SetDownloaded returns p with Downloaded set.
func (p Patch) SetDownloaded(v bool) Patch { p.Downloaded = ptr(v); return p }

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// ApplyTo merges p onto e and returns the result.
func (p Patch) ApplyTo(e Entry) Entry {
	if p.Downloading != nil {
		e.Downloading = *p.Downloading
	}
	if p.DownloadProgress != nil {
		e.DownloadProgress = *p.DownloadProgress
	}
	if p.DownloadStatus != nil {
		e.DownloadStatus = *p.DownloadStatus
	}
	if p.Installing != nil {
		e.Installing = *p.Installing
	}
	if p.InstallProgress != nil {
		e.InstallProgress = *p.InstallProgress
	}
	if p.InstallStatus != nil {
		e.InstallStatus = *p.InstallStatus
	}
	if p.Error != nil {
		e.Error = *p.Error
	}
	if p.ResolvedFilePath != nil {
		e.ResolvedFilePath = *p.ResolvedFilePath
	}
	if p.Downloaded != nil {
		e.Downloaded = *p.Downloaded
	}
	return e
}
