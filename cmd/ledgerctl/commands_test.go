package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

func Test_OnListFilter_ShouldCombineFlags(t *testing.T) {
	c := &listCmd{kind: "Income", from: "01.05.2024", to: "2024-05-31", text: "sal"}

	filter, err := c.filter()
	require.NoError(t, err)

	require.NotNil(t, filter.Kind)
	assert.Equal(t, transaction.Income, *filter.Kind)
	assert.True(t, filter.DateFrom.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, filter.DateTo.Equal(time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sal", filter.DescriptionContains)
}

func Test_OnListFilter_ShouldRejectBadDate(t *testing.T) {
	_, err := (&listCmd{from: "31/05/2024"}).filter()
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnCredentials_ShouldFallBackToEnvironment(t *testing.T) {
	t.Setenv(passwordEnv, "from-env")

	assert.Equal(t, "from-env", (&credentials{}).secret())
	assert.Equal(t, "flag", (&credentials{password: "flag"}).secret())
}

func Test_OnIsLedgerCommand_ShouldKnowRegisteredCommands(t *testing.T) {
	assert.True(t, isLedgerCommand("wipe"))
	assert.False(t, isLedgerCommand("help"))
}
