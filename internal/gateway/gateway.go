// ABOUTME: Command gateway issuing download/cancel/install to the backend
// ABOUTME: Applies optimistic patches before each call and folds rejections into the table

package gateway

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// ErrNoBackend rejects every request when no backend is configured.
var ErrNoBackend = errors.New("backend unavailable")

// DefaultArtifactExt is appended to the item id to form the default
// download path.
const DefaultArtifactExt = ".dmg"

// Commands is the backend command surface the gateway drives.
// *backend.Client satisfies it.
type Commands interface {
	DownloadApp(ctx context.Context, appID, downloadURL string) (string, error)
	CancelDownload(ctx context.Context, appID string) (string, error)
	InstallApp(ctx context.Context, appID, filePath string) (string, error)
}

// Applier merges a patch after the events already received for the same
// item. *ingest.Subscription satisfies it.
type Applier interface {
	Apply(id string, p lifecycle.Patch)
}

// Options configure a Gateway.
type Options struct {
	// Events orders command outcomes behind backend events. Nil applies
	// them to the table directly.
	Events Applier
	// DownloadDir is where artifacts land when the backend did not report
	// a path.
	DownloadDir string
	// ArtifactExt defaults to DefaultArtifactExt.
	ArtifactExt string
}

// Gateway turns user actions into backend commands and table patches.
type Gateway struct {
	cmds   Commands
	table  *lifecycle.Table
	events Applier
	dir    string
	ext    string
}

// New creates a gateway. A nil cmds rejects every request with
// ErrNoBackend.
func New(cmds Commands, table *lifecycle.Table, opts Options) *Gateway {
	ext := opts.ArtifactExt
	if ext == "" {
		ext = DefaultArtifactExt
	}
	return &Gateway{cmds: cmds, table: table, events: opts.Events, dir: opts.DownloadDir, ext: ext}
}

// HasBackend reports whether commands can reach a backend.
func (g *Gateway) HasBackend() bool {
	return g.cmds != nil
}

// RequestDownload starts a (re-)download. The entry shows downloading
// before the backend is contacted; a rejection is recorded as the entry
// error and returned. Downloaded is left to the completion event.
func (g *Gateway) RequestDownload(ctx context.Context, id, downloadURL string) error {
	g.table.Apply(id, lifecycle.Patch{}.
		SetDownloading(true).
		SetDownloadProgress(0).
		SetDownloadStatus(lifecycle.StatusInitializing).
		ClearError())

	ack, err := g.download(ctx, id, downloadURL)
	if err != nil {
		log.Warn("gateway: download %s rejected: %v", id, err)
		g.settle(id, lifecycle.Patch{}.
			SetDownloading(false).
			SetDownloadProgress(0).
			SetDownloadStatus(lifecycle.StatusDownloadFailed).
			SetError(err.Error()))
		return err
	}
	log.Info("gateway: download %s accepted: %s", id, ack)
	return nil
}

// RequestCancel asks the backend to stop a download.
func (g *Gateway) RequestCancel(ctx context.Context, id string) error {
	ack, err := g.cancel(ctx, id)
	if err != nil {
		log.Warn("gateway: cancel %s rejected: %v", id, err)
		g.settle(id, lifecycle.Patch{}.
			SetDownloading(false).
			SetError(err.Error()))
		return err
	}
	log.Info("gateway: cancel %s accepted: %s", id, ack)
	g.settle(id, lifecycle.Patch{}.
		SetDownloading(false).
		SetDownloadProgress(0).
		SetDownloadStatus(lifecycle.StatusDownloadCanceled).
		SetError(lifecycle.StatusDownloadCanceled))
	return nil
}

// RequestInstall installs the artifact at path. Success is only logged; the
// install_complete event settles the final state.
func (g *Gateway) RequestInstall(ctx context.Context, id, path string) error {
	g.table.Apply(id, lifecycle.Patch{}.
		SetInstalling(true).
		SetInstallProgress(0).
		SetInstallStatus(lifecycle.StatusStartingInstallation).
		ClearError())

	ack, err := g.install(ctx, id, path)
	if err != nil {
		log.Warn("gateway: install %s rejected: %v", id, err)
		g.settle(id, lifecycle.Patch{}.
			SetInstalling(false).
			SetInstallProgress(0).
			SetInstallStatus(lifecycle.StatusInstallFailed).
			SetError(err.Error()))
		return err
	}
	log.Info("gateway: install %s accepted: %s", id, ack)
	return nil
}

// Install installs id from its resolved artifact path, or from the default
// location when the last download did not report one.
func (g *Gateway) Install(ctx context.Context, id string) error {
	return g.RequestInstall(ctx, id, g.ArtifactPath(id))
}

// ArtifactPath returns where the artifact for id is expected.
func (g *Gateway) ArtifactPath(id string) string {
	if p := g.table.Get(id).ArtifactPath(); p != "" {
		return p
	}
	return g.DefaultPath(id)
}

// DefaultPath returns <download dir>/<id><ext>.
func (g *Gateway) DefaultPath(id string) string {
	return filepath.Join(g.dir, id+g.ext)
}

// settle records a command outcome. Optimistic patches skip it: they are
// applied before the command is sent, so no event for it can precede them.
func (g *Gateway) settle(id string, p lifecycle.Patch) {
	if g.events != nil {
		g.events.Apply(id, p)
		return
	}
	g.table.Apply(id, p)
}

func (g *Gateway) download(ctx context.Context, id, url string) (string, error) {
	if g.cmds == nil {
		return "", ErrNoBackend
	}
	return g.cmds.DownloadApp(ctx, id, url)
}

func (g *Gateway) cancel(ctx context.Context, id string) (string, error) {
	if g.cmds == nil {
		return "", ErrNoBackend
	}
	return g.cmds.CancelDownload(ctx, id)
}

func (g *Gateway) install(ctx context.Context, id, path string) (string, error) {
	if g.cmds == nil {
		return "", ErrNoBackend
	}
	return g.cmds.InstallApp(ctx, id, path)
}
