package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/catalog"
)

// CatalogSource yields a catalog to replace the current one, or false to
// keep it. *catalog.Fetcher implements it.
type CatalogSource interface {
	Replacement(ctx context.Context) (*catalog.Catalog, bool)
}

// Catalog returns the exercise catalog in use.
func (c *Controller) Catalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// ReplaceCatalog swaps the catalog. Session IDs missing from cat are
// dropped from the queue. An empty catalog is ignored.
func (c *Controller) ReplaceCatalog(cat *catalog.Catalog) bool {
	if cat == nil || cat.Len() == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = cat
	c.materialize()
	c.logger.Info("catalog replaced",
		zap.Int("exercises", cat.Len()),
		zap.Int("queue_size", len(c.queue)))
	return true
}

// LoadCatalog fetches from src in the background. The returned channel
// receives whether the catalog was replaced and is then closed. Cancelling
// ctx abandons the fetch and leaves the catalog untouched.
func (c *Controller) LoadCatalog(ctx context.Context, src CatalogSource) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		cat, ok := src.Replacement(ctx)
		if !ok || ctx.Err() != nil {
			done <- false
			return
		}
		done <- c.ReplaceCatalog(cat)
	}()
	return done
}
