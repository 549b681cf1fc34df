// ABOUTME: Long-lived subscription merging backend events into the lifecycle table
// ABOUTME: Decodes each payload, drops malformed ones, and routes patches to per-item lanes

package ingest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mailru/easyjson"

	"github.com/mauromedda/fossintosh-go/internal/backend"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// Source delivers raw event payloads by channel name. *backend.Client
// satisfies it.
type Source interface {
	Subscribe(name string, fn func([]byte)) (func(), error)
}

// Subscription is the set of live event subscriptions.
type Subscription struct {
	lanes *lanes

	mu     sync.Mutex
	unsubs []func()
	closed bool
}

type decoder func(raw []byte) (id string, p lifecycle.Patch, err error)

func decodeWith[T any, PT interface {
	*T
	easyjson.Unmarshaler
}](id func(T) string, patch func(T) lifecycle.Patch) decoder {
	return func(raw []byte) (string, lifecycle.Patch, error) {
		var ev T
		if err := easyjson.Unmarshal(raw, PT(&ev)); err != nil {
			return "", lifecycle.Patch{}, err
		}
		return id(ev), patch(ev), nil
	}
}

var decoders = map[string]decoder{
	backend.EventDownloadProgress: decodeWith[backend.DownloadProgress](
		func(e backend.DownloadProgress) string { return e.AppID }, DownloadProgressPatch),
	backend.EventDownloadComplete: decodeWith[backend.DownloadComplete](
		func(e backend.DownloadComplete) string { return e.AppID }, DownloadCompletePatch),
	backend.EventInstallProgress: decodeWith[backend.InstallProgress](
		func(e backend.InstallProgress) string { return e.AppID }, InstallProgressPatch),
	backend.EventInstallComplete: decodeWith[backend.InstallComplete](
		func(e backend.InstallComplete) string { return e.AppID }, InstallCompletePatch),
}

// Start subscribes to every backend event channel and merges events into
// table. A failed subscription does not stop the others: the returned
// Subscription holds whatever succeeded and err joins the failures.
func Start(src Source, table *lifecycle.Table) (*Subscription, error) {
	s := &Subscription{lanes: newLanes(table)}

	var errs []error
	for _, name := range backend.Events {
		decode := decoders[name]
		unsub, err := src.Subscribe(name, func(raw []byte) { s.handle(name, decode, raw) })
		if err != nil {
			log.Error("ingest: subscribing to %s: %v", name, err)
			errs = append(errs, fmt.Errorf("subscribing to %s: %w", name, err))
			continue
		}
		s.unsubs = append(s.unsubs, unsub)
	}
	return s, errors.Join(errs...)
}

func (s *Subscription) handle(name string, decode decoder, raw []byte) {
	id, p, err := decode(raw)
	if err != nil {
		log.Warn("ingest: dropping undecodable %s payload: %v", name, err)
		return
	}
	if id == "" {
		log.Warn("ingest: dropping %s payload without app_id", name)
		return
	}
	log.Debug("ingest: %s %s", name, id)
	s.lanes.enqueue(id, p)
}

// Active returns the number of live channel subscriptions.
func (s *Subscription) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsubs)
}

// Apply merges p into the entry for id after every event already received
// for id, and returns once it has been applied. Command outcomes go through
// here so an earlier event never overwrites them.
func (s *Subscription) Apply(id string, p lifecycle.Patch) {
	s.lanes.applyAfter(id, p)
}

// Sync blocks until every event received so far has been applied.
func (s *Subscription) Sync() {
	s.lanes.wait()
}

// Close unsubscribes from every channel. Events already queued are still
// applied. It is safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}
