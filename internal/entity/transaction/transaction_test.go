package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

func Test_OnParseAmount_ShouldAcceptCommaAndPoint(t *testing.T) {
	withComma, err := ParseAmount("10,50")
	require.NoError(t, err)
	withPoint, err := ParseAmount("10.50")
	require.NoError(t, err)

	assert.True(t, withComma.Equal(withPoint))
	assert.True(t, withPoint.Equal(decimal.RequireFromString("10.5")))
}

func Test_OnParseAmount_ShouldRejectBadInput(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "-5", "0", "0,00", "1.000,50", "1e3", "10..5"} {
		_, err := ParseAmount(in)
		assert.Truef(t, customerr.IsValidation(err), "input %q: %v", in, err)
	}
}

func Test_OnParseAmount_ShouldKeepExactValue(t *testing.T) {
	amount, err := ParseAmount(" 0.1 ")
	require.NoError(t, err)

	sum := decimal.Zero
	for i := 0; i < 10; i++ {
		sum = sum.Add(amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1)))
}

func Test_OnParseKind_ShouldIgnoreCase(t *testing.T) {
	k, err := ParseKind("income")
	require.NoError(t, err)
	assert.Equal(t, Income, k)

	k, err = ParseKind(" Expense ")
	require.NoError(t, err)
	assert.Equal(t, Expense, k)

	_, err = ParseKind("transfer")
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnParseDate_ShouldAcceptBothLayouts(t *testing.T) {
	iso, err := ParseDate("2024-03-07")
	require.NoError(t, err)
	local, err := ParseDate("07.03.2024")
	require.NoError(t, err)

	assert.Equal(t, iso, local)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), iso)

	_, err = ParseDate("03/07/2024")
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnFilterMatches_ShouldCombineConstraints(t *testing.T) {
	tx := Transaction{
		Description: "Monthly RENT",
		Amount:      decimal.NewFromInt(300),
		Kind:        Expense,
		OccurredOn:  time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, Filter{}.Matches(tx))
	assert.True(t, Filter{}.WithDescription("rent").Matches(tx))
	assert.False(t, Filter{}.WithDescription("salary").Matches(tx))
	assert.True(t, Filter{}.WithKind(Expense).Matches(tx))
	assert.False(t, Filter{}.WithKind(Income).Matches(tx))

	day := tx.OccurredOn
	assert.True(t, Filter{}.WithDateFrom(day).WithDateTo(day).Matches(tx), "bounds are inclusive")
	assert.False(t, Filter{}.WithDateFrom(day.AddDate(0, 0, 1)).Matches(tx))
	assert.False(t, Filter{}.WithDateTo(day.AddDate(0, 0, -1)).Matches(tx))

	assert.False(t, Filter{}.WithDescription("rent").WithKind(Income).Matches(tx))
}

func Test_OnSigned_ShouldNegateExpenses(t *testing.T) {
	amount := decimal.RequireFromString("12.34")
	assert.True(t, Transaction{Amount: amount, Kind: Income}.Signed().Equal(amount))
	assert.True(t, Transaction{Amount: amount, Kind: Expense}.Signed().Equal(amount.Neg()))
}
