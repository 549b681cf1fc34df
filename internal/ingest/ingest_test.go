// ABOUTME: Tests for event ingestion into the lifecycle table
// ABOUTME: Covers event patches, per-item ordering, lane independence, and subscription failures

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mauromedda/fossintosh-go/internal/backend"
	"github.com/mauromedda/fossintosh-go/internal/backend/backendtest"
	"github.com/mauromedda/fossintosh-go/internal/gateway"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

// fakeSource delivers payloads synchronously to subscribers.
type fakeSource struct {
	mu   sync.Mutex
	subs map[string][]*func([]byte)
	fail map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: make(map[string][]*func([]byte)), fail: make(map[string]error)}
}

func (f *fakeSource) Subscribe(name string, fn func([]byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[name]; err != nil {
		return nil, err
	}
	h := &fn
	f.subs[name] = append(f.subs[name], h)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := f.subs[name]
		for i, s := range list {
			if s == h {
				f.subs[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}, nil
}

func (f *fakeSource) emit(t *testing.T, name string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	f.emitRaw(name, raw)
}

func (f *fakeSource) emitRaw(name string, raw []byte) {
	f.mu.Lock()
	list := append(([]*func([]byte))(nil), f.subs[name]...)
	f.mu.Unlock()
	for _, h := range list {
		(*h)(raw)
	}
}

func start(t *testing.T) (*fakeSource, *lifecycle.Table, *Subscription) {
	t.Helper()
	src := newFakeSource()
	tbl := lifecycle.NewTable()
	sub, err := Start(src, tbl)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(sub.Close)
	return src, tbl, sub
}

func TestIngest_ProgressThenSuccessfulCompletion(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 40, Status: "Downloading"})
	sub.Sync()

	if got := tbl.Get("a"); !got.Downloading || got.DownloadProgress != 40 || got.DownloadStatus != "Downloading" {
		t.Fatalf("after progress: %+v", got)
	}

	src.emit(t, backend.EventDownloadComplete, backend.DownloadComplete{AppID: "a", FilePath: "/tmp/x.pkg", Success: true})
	sub.Sync()

	got := tbl.Get("a")
	want := lifecycle.Entry{
		DownloadProgress: 100,
		DownloadStatus:   lifecycle.StatusDownloaded,
		ResolvedFilePath: "/tmp/x.pkg",
		Downloaded:       true,
	}
	if got != want {
		t.Errorf("after completion = %+v; want %+v", got, want)
	}
}

func TestIngest_FailedDownload(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 70})
	src.emit(t, backend.EventDownloadComplete, backend.DownloadComplete{AppID: "a", Error: "checksum mismatch"})
	sub.Sync()

	got := tbl.Get("a")
	if got.Downloading || got.Downloaded || got.DownloadProgress != 0 {
		t.Errorf("entry = %+v; want not downloading, not downloaded, progress 0", got)
	}
	if got.Error != "checksum mismatch" || got.DownloadStatus != lifecycle.StatusDownloadFailed {
		t.Errorf("error/status = %q/%q", got.Error, got.DownloadStatus)
	}
	if got.Phase() != lifecycle.PhaseFailed {
		t.Errorf("Phase() = %v; want failed", got.Phase())
	}
}

func TestIngest_FailureWithoutMessage(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emit(t, backend.EventInstallComplete, backend.InstallComplete{AppID: "a"})
	sub.Sync()

	if got := tbl.Get("a").Error; got != lifecycle.StatusInstallFailed {
		t.Errorf("Error = %q; want %q", got, lifecycle.StatusInstallFailed)
	}
}

// waitFor polls until cond holds or fails the test after a few seconds.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestIngest_CancelThenStaleCompletion(t *testing.T) {
	t.Parallel()

	srv, client := backendtest.NewClient(t)
	srv.Reply(backend.MethodCancelDownload, "canceled")
	tbl := lifecycle.NewTable()
	sub, err := Start(client, tbl)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sub.Close()
	g := gateway.New(client, tbl, gateway.Options{Events: sub})

	if err := srv.Emit(backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 30}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	waitFor(t, "progress", func() bool { return tbl.Get("a").DownloadProgress == 30 })

	if err := g.RequestCancel(context.Background(), "a"); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if got := tbl.Get("a"); got.Downloading || got.Error != lifecycle.StatusDownloadCanceled {
		t.Fatalf("after cancel = %+v; want canceled", got)
	}

	// The backend finished before it saw the cancel; the later event wins.
	if err := srv.Emit(backend.EventDownloadComplete, backend.DownloadComplete{AppID: "a", FilePath: "/tmp/a.dmg", Success: true}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	waitFor(t, "stale completion", func() bool { return tbl.Get("a").Downloaded })
	sub.Sync()

	got := tbl.Get("a")
	if got.Error != "" || got.ResolvedFilePath != "/tmp/a.dmg" || got.DownloadStatus != lifecycle.StatusDownloaded {
		t.Errorf("entry = %+v; want downloaded with cleared error", got)
	}
}

func TestSubscription_ApplyFollowsQueuedEvents(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)

	release := make(chan struct{})
	var once sync.Once
	tbl.Subscribe(func(c lifecycle.Change) {
		if c.ID == "a" {
			once.Do(func() { <-release })
		}
	})

	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 10})
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 20})

	applied := make(chan struct{})
	go func() {
		sub.Apply("a", lifecycle.Patch{}.SetDownloading(false).SetDownloadProgress(0))
		close(applied)
	}()

	select {
	case <-applied:
		t.Fatal("Apply returned while earlier events were still queued")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-applied

	if got := tbl.Get("a"); got.Downloading || got.DownloadProgress != 0 {
		t.Errorf("entry = %+v; want the applied patch last", got)
	}
}

func TestIngest_InstallLifecycle(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emit(t, backend.EventInstallProgress, backend.InstallProgress{AppID: "a", Progress: 50, Status: "Copying"})
	sub.Sync()
	if got := tbl.Get("a"); !got.Installing || got.InstallProgress != 50 || got.InstallStatus != "Copying" {
		t.Fatalf("after install progress: %+v", got)
	}

	src.emit(t, backend.EventInstallComplete, backend.InstallComplete{AppID: "a", Success: true})
	sub.Sync()
	got := tbl.Get("a")
	if got.Installing || got.InstallProgress != 100 || got.InstallStatus != lifecycle.StatusInstallComplete {
		t.Errorf("after install complete: %+v", got)
	}
	if got.Phase() != lifecycle.PhaseInstalled {
		t.Errorf("Phase() = %v; want installed", got.Phase())
	}
}

func TestIngest_ClampsProgress(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "hi", Progress: 150})
	src.emit(t, backend.EventInstallProgress, backend.InstallProgress{AppID: "lo", Progress: -5})
	sub.Sync()

	if got := tbl.Get("hi").DownloadProgress; got != 100 {
		t.Errorf("clamped download progress = %v; want 100", got)
	}
	if got := tbl.Get("lo").InstallProgress; got != 0 {
		t.Errorf("clamped install progress = %v; want 0", got)
	}
}

func TestIngest_DropsMalformedPayloads(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)
	src.emitRaw(backend.EventDownloadProgress, []byte(`{"app_id":`))
	src.emitRaw(backend.EventDownloadComplete, []byte(`"not an object"`))
	src.emit(t, backend.EventInstallProgress, backend.InstallProgress{Progress: 10})
	sub.Sync()

	if tbl.Len() != 0 {
		t.Errorf("Len() = %d; want 0 after malformed payloads", tbl.Len())
	}
}

func TestIngest_PerItemOrder(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)

	var (
		mu   sync.Mutex
		seen = make(map[string][]float64)
	)
	tbl.Subscribe(func(c lifecycle.Change) {
		e := tbl.Get(c.ID)
		mu.Lock()
		seen[c.ID] = append(seen[c.ID], e.DownloadProgress)
		mu.Unlock()
	})

	ids := []string{"a", "b", "c"}
	const n = 100
	for i := range n {
		for _, id := range ids {
			src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: id, Progress: float64(i)})
		}
	}
	sub.Sync()

	for _, id := range ids {
		if got := tbl.Get(id).DownloadProgress; got != n-1 {
			t.Errorf("final progress for %s = %v; want %d", id, got, n-1)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		if len(seen[id]) != n {
			t.Errorf("%s: %d notifications; want %d", id, len(seen[id]), n)
			continue
		}
		for i := 1; i < len(seen[id]); i++ {
			// Each lane applies in order, so the re-read value never goes back.
			if seen[id][i] < seen[id][i-1] {
				t.Errorf("%s: progress went from %v to %v", id, seen[id][i-1], seen[id][i])
				break
			}
		}
	}
}

func TestIngest_SlowItemDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	src, tbl, sub := start(t)

	release := make(chan struct{})
	var once sync.Once
	tbl.Subscribe(func(c lifecycle.Change) {
		if c.ID == "slow" {
			once.Do(func() { <-release })
		}
	})

	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "slow", Progress: 1})
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "slow", Progress: 2})
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "fast", Progress: 9})

	deadline := time.Now().Add(5 * time.Second)
	for tbl.Get("fast").DownloadProgress != 9 {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("fast item blocked behind slow item")
		}
		time.Sleep(time.Millisecond)
	}
	if got := tbl.Get("slow").DownloadProgress; got != 1 {
		t.Errorf("slow progress = %v while blocked; want 1", got)
	}

	close(release)
	sub.Sync()
	if got := tbl.Get("slow").DownloadProgress; got != 2 {
		t.Errorf("slow progress after release = %v; want 2", got)
	}
}

func TestIngest_PartialSubscriptionFailure(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	boom := errors.New("channel unavailable")
	src.fail[backend.EventInstallComplete] = boom
	tbl := lifecycle.NewTable()

	sub, err := Start(src, tbl)
	if !errors.Is(err, boom) {
		t.Fatalf("Start err = %v; want %v", err, boom)
	}
	if sub == nil {
		t.Fatal("Start returned nil subscription alongside error")
	}
	defer sub.Close()

	if sub.Active() != 3 {
		t.Errorf("Active() = %d; want 3", sub.Active())
	}

	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 5})
	sub.Sync()
	if !tbl.Get("a").Downloading {
		t.Error("surviving subscription did not deliver")
	}
}

func TestIngest_CloseUnsubscribes(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	tbl := lifecycle.NewTable()
	sub, err := Start(src, tbl)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	sub.Close()
	sub.Close()
	src.emit(t, backend.EventDownloadProgress, backend.DownloadProgress{AppID: "a", Progress: 5})
	sub.Sync()

	if tbl.Has("a") {
		t.Error("event applied after Close")
	}
	if sub.Active() != 0 {
		t.Errorf("Active() = %d; want 0", sub.Active())
	}
}

func TestIngest_OverBackendProtocol(t *testing.T) {
	t.Parallel()

	srv, client := backendtest.NewClient(t)
	tbl := lifecycle.NewTable()
	sub, err := Start(client, tbl)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sub.Close()

	for i := range 10 {
		if err := srv.Emit(backend.EventDownloadProgress, backend.DownloadProgress{AppID: "vlc", Progress: float64(i * 10)}); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if err := srv.Emit(backend.EventDownloadComplete, backend.DownloadComplete{AppID: "vlc", FilePath: "/tmp/vlc.dmg", Success: true}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !tbl.Get("vlc").Downloaded {
		if time.Now().After(deadline) {
			t.Fatalf("entry never completed: %+v", tbl.Get("vlc"))
		}
		time.Sleep(time.Millisecond)
	}
	sub.Sync()

	got := tbl.Get("vlc")
	if got.Downloading || got.DownloadProgress != 100 || got.ResolvedFilePath != "/tmp/vlc.dmg" {
		t.Errorf("entry = %+v", got)
	}
}

func TestPatches_AreIndependentOfOtherFields(t *testing.T) {
	t.Parallel()

	base := lifecycle.Entry{Installing: true, InstallProgress: 20, InstallStatus: "x"}
	got := DownloadProgressPatch(backend.DownloadProgress{AppID: "a", Progress: 10}).ApplyTo(base)

	if !got.Installing || got.InstallProgress != 20 || got.InstallStatus != "x" {
		t.Errorf("download progress touched install fields: %+v", got)
	}
	if s := fmt.Sprint(InstallProgressPatch(backend.InstallProgress{}).DownloadProgress); s != "<nil>" {
		t.Errorf("install patch set DownloadProgress: %s", s)
	}
}
