package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hostsConfig []string

func (h hostsConfig) Hosts() []string { return h }
func (h hostsConfig) Enabled() bool   { return len(h) > 0 }

func Test_OnNewReportCache_ShouldFallBackToNop(t *testing.T) {
	assert.Equal(t, Nop{}, NewReportCache(hostsConfig(nil)))
	// nothing listens on the discard port
	assert.Equal(t, Nop{}, NewReportCache(hostsConfig{"127.0.0.1:9"}))
}

func Test_OnFormatKey_ShouldScopeByUserAndOption(t *testing.T) {
	assert.Equal(t, "ledger-report:42:month:income", formatKey(42, "month:income"))
}

func Test_OnNop_ShouldAlwaysMiss(t *testing.T) {
	var c Nop
	assert.NoError(t, c.CacheReport(1, "month:", "text"))

	_, ok, err := c.GetReport(1, "month:")
	assert.NoError(t, err)
	assert.False(t, ok)
}
