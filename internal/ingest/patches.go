// ABOUTME: Pure mapping from backend event payloads to lifecycle patches
// ABOUTME: Progress is clamped to 0..100; failures always carry a visible error

package ingest

import (
	"math"

	"github.com/mauromedda/fossintosh-go/internal/backend"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

func failure(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// DownloadProgressPatch marks the item downloading at the reported progress.
func DownloadProgressPatch(ev backend.DownloadProgress) lifecycle.Patch {
	return lifecycle.Patch{}.
		SetDownloading(true).
		SetDownloadProgress(clamp(ev.Progress)).
		SetDownloadStatus(ev.Status)
}

// DownloadCompletePatch records the outcome of a download.
func DownloadCompletePatch(ev backend.DownloadComplete) lifecycle.Patch {
	p := lifecycle.Patch{}.SetDownloading(false)
	if ev.Success {
		return p.
			SetDownloadProgress(100).
			SetDownloaded(true).
			SetResolvedFilePath(ev.FilePath).
			SetDownloadStatus(lifecycle.StatusDownloaded).
			ClearError()
	}
	return p.
		SetDownloadProgress(0).
		SetDownloaded(false).
		SetError(failure(ev.Error, lifecycle.StatusDownloadFailed)).
		SetDownloadStatus(lifecycle.StatusDownloadFailed)
}

// InstallProgressPatch marks the item installing at the reported progress.
func InstallProgressPatch(ev backend.InstallProgress) lifecycle.Patch {
	return lifecycle.Patch{}.
		SetInstalling(true).
		SetInstallProgress(clamp(ev.Progress)).
		SetInstallStatus(ev.Status)
}

// InstallCompletePatch records the outcome of an installation.
func InstallCompletePatch(ev backend.InstallComplete) lifecycle.Patch {
	p := lifecycle.Patch{}.SetInstalling(false)
	if ev.Success {
		return p.
			SetInstallProgress(100).
			SetInstallStatus(lifecycle.StatusInstallComplete).
			ClearError()
	}
	return p.
		SetInstallProgress(0).
		SetError(failure(ev.Error, lifecycle.StatusInstallFailed)).
		SetInstallStatus(lifecycle.StatusInstallFailed)
}
