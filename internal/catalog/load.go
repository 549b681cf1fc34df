// ABOUTME: Catalog loading from any source that can list apps
// ABOUTME: A failed load leaves the previous snapshot in place

package catalog

import (
	"context"
	"fmt"

	"github.com/mauromedda/fossintosh-go/internal/log"
)

// Source lists the full catalog. The backend client and the registry both
// satisfy it.
type Source interface {
	FetchApps(ctx context.Context) ([]App, error)
}

// Load fetches the catalog from src and replaces the store snapshot. On
// error the store is left unchanged.
func Load(ctx context.Context, src Source, store *Store) (uint64, error) {
	apps, err := src.FetchApps(ctx)
	if err != nil {
		return store.Generation(), fmt.Errorf("loading catalog: %w", err)
	}
	gen := store.Replace(apps)
	log.Info("catalog: loaded %d apps (generation %d)", store.Len(), gen)
	return gen, nil
}
