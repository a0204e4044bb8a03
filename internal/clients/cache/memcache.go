package cache

import (
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
)

const (
	defaultBase = 10
	keyPrefix   = "ledger-report:"

	// rendered reports are rebuilt from the store after an hour even without
	// an invalidation
	expirationSeconds = 3600
)

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	if err := mc.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping memcached")
	}
	return &MemcacheClient{mc}, nil
}

func formatKey(userID int64, option string) string {
	return keyPrefix + strconv.FormatInt(userID, defaultBase) + ":" + option
}

func (mc *MemcacheClient) CacheReport(userID int64, option string, report string) error {
	logger.Debug("cache report", zap.Int64("userID", userID), zap.String("option", option))
	return mc.client.Set(&memcache.Item{
		Key:        formatKey(userID, option),
		Value:      []byte(report),
		Expiration: expirationSeconds,
	})
}

// GetReport reports ok=false on a cache miss.
func (mc *MemcacheClient) GetReport(userID int64, option string) (report string, ok bool, err error) {
	item, err := mc.client.Get(formatKey(userID, option))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	logger.Debug("report served from cache", zap.Int64("userID", userID), zap.String("option", option))
	return string(item.Value), true, nil
}

func (mc *MemcacheClient) InvalidateCache(userID int64, options []string) error {
	logger.Info("invalidate cache", zap.Int64("userID", userID))

	for _, opt := range options {
		err := mc.client.Delete(formatKey(userID, opt))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}

// ReportCache is satisfied by MemcacheClient and Nop.
type ReportCache interface {
	CacheReport(userID int64, option string, report string) error
	GetReport(userID int64, option string) (string, bool, error)
	InvalidateCache(userID int64, options []string) error
}

type enabledConfig interface {
	config
	Enabled() bool
}

// NewReportCache falls back to Nop when memcached is disabled or unreachable.
func NewReportCache(cfg enabledConfig) ReportCache {
	if !cfg.Enabled() {
		return Nop{}
	}
	mc, err := NewMemcache(cfg)
	if err != nil {
		logger.Warn("memcached is unavailable, reports are not cached", zap.Error(err))
		return Nop{}
	}
	return mc
}

// Nop caches nothing.
type Nop struct{}

func (Nop) CacheReport(int64, string, string) error { return nil }

func (Nop) GetReport(int64, string) (string, bool, error) { return "", false, nil }

func (Nop) InvalidateCache(int64, []string) error { return nil }
