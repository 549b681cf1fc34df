// ABOUTME: Remote catalog service client: curated sections, the app index, and icons
// ABOUTME: Per-item documents are fetched in parallel with bounded concurrency, order preserved

package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// DefaultBaseURL hosts curated.json, index.json and apps/<id>.json.
const DefaultBaseURL = "https://raw.githubusercontent.com/Nandanrmenon/fossintosh-repo/main"

const (
	defaultTimeout     = 20 * time.Second
	defaultConcurrency = 8
	defaultCacheTTL    = 15 * time.Minute
)

// ErrNoApps is returned by FetchApps when no item document could be loaded.
var ErrNoApps = errors.New("registry returned no apps")

// Options configure a Registry. Zero values select defaults; a negative
// CacheTTL disables the item cache.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	FetchConcurrency int
	CacheTTL         time.Duration
	// HTTPClient overrides the hardened default client.
	HTTPClient *http.Client
}

// Registry reads the remote catalog service.
type Registry struct {
	base        string
	client      *http.Client
	concurrency int
	items       *ttlCache[catalog.App]
}

// New creates a registry client.
func New(opts Options) *Registry {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = secureHTTPClient(timeout)
	}
	conc := opts.FetchConcurrency
	if conc <= 0 {
		conc = defaultConcurrency
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &Registry{
		base:        base,
		client:      client,
		concurrency: conc,
		items:       newTTLCache[catalog.App](ttl),
	}
}

// BaseURL returns the service root.
func (r *Registry) BaseURL() string {
	return r.base
}

// curatedDocument is curated.json. Pointers and nil slices tell absent
// fields from empty ones.
type curatedDocument struct {
	Sections []struct {
		ID          *string  `json:"id"`
		Title       *string  `json:"title"`
		Description string   `json:"description"`
		AppIDs      []string `json:"appIds"`
		Apps        []string `json:"apps"`
	} `json:"sections"`
}

// FetchCurated loads curated.json and resolves every section's items.
// Items that fail to load are logged and left out; only a failure of the
// document itself is returned.
func (r *Registry) FetchCurated(ctx context.Context) ([]catalog.Section, error) {
	var doc curatedDocument
	if err := r.getJSON(ctx, r.base+"/curated.json", &doc); err != nil {
		return nil, fmt.Errorf("fetching curated sections: %w", err)
	}

	sections := make([]catalog.Section, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		ids := s.AppIDs
		if ids == nil {
			ids = s.Apps
		}
		apps, err := r.fetchItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		sections = append(sections, catalog.Section{
			ID:          firstSet(s.ID, s.Title, "untitled-section"),
			Title:       firstSet(s.Title, s.ID, "Untitled"),
			Description: s.Description,
			Apps:        apps,
		})
	}
	return sections, nil
}

// FetchApps loads index.json and every item it lists. It satisfies
// catalog.Source for running without a backend.
func (r *Registry) FetchApps(ctx context.Context) ([]catalog.App, error) {
	var ids []string
	if err := r.getJSON(ctx, r.base+"/index.json", &ids); err != nil {
		return nil, fmt.Errorf("fetching app index: %w", err)
	}
	apps, err := r.fetchItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrNoApps
	}
	return apps, nil
}

// FetchApp loads one item document, served from cache when fresh.
func (r *Registry) FetchApp(ctx context.Context, id string) (catalog.App, error) {
	if app, ok := r.items.Get(id); ok {
		return app, nil
	}
	var app catalog.App
	if err := r.getJSON(ctx, r.base+"/apps/"+url.PathEscape(id)+".json", &app); err != nil {
		return catalog.App{}, err
	}
	if app.ID == "" {
		app.ID = id
	}
	r.items.Set(id, app)
	return app, nil
}

// FetchIcon downloads the icon at ref, resolved against the base URL when
// relative.
func (r *Registry) FetchIcon(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.New("empty icon reference")
	}
	u, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, u, maxIconBytes)
}

func (r *Registry) resolve(ref string) (string, error) {
	base, err := url.Parse(r.base + "/")
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing icon reference %q: %w", ref, err)
	}
	return base.ResolveReference(rel).String(), nil
}

// fetchItems loads ids in parallel and returns the successful ones in
// input order. Only context cancellation aborts the batch.
func (r *Registry) fetchItems(ctx context.Context, ids []string) ([]catalog.App, error) {
	results := make([]*catalog.App, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			app, err := r.FetchApp(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("registry: skipping app %q: %v", id, err)
				return nil
			}
			results[i] = &app
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching apps: %w", err)
	}

	apps := make([]catalog.App, 0, len(ids))
	for _, a := range results {
		if a != nil {
			apps = append(apps, *a)
		}
	}
	return apps, nil
}

func firstSet(a, b *string, fallback string) string {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return fallback
}
