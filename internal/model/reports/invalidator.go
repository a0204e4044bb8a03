package reports

import (
	"context"

	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/ledger"
)

type optionsLister interface {
	CurrentOptions() []string
}

// CacheInvalidator drops every cached statement of a user whose ledger
// has changed. Statements of past periods are keyed by their old start
// date and are never served again.
type CacheInvalidator struct {
	cache   reportCache
	options optionsLister
}

func NewCacheInvalidator(cache reportCache, options optionsLister) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, options: options}
}

func (c *CacheInvalidator) LedgerChanged(_ context.Context, change ledger.Change) {
	if err := c.cache.InvalidateCache(change.UserID, c.options.CurrentOptions()); err != nil {
		logger.Error("cannot invalidate cached reports",
			zap.Int64("userID", change.UserID),
			zap.String("op", string(change.Op)),
			zap.Error(err),
		)
	}
}
