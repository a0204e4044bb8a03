package reports

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"max.ks1230/personal-ledger/internal/entity/transaction"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

var markdownEscaper = strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`)

// Renderer turns a Report into markdown. Amounts keep their exact value in
// the Report and are only rounded here, to the currency's minor unit.
type Renderer struct {
	currency string
}

func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: strings.ToUpper(currency)}
}

func (r *Renderer) FormatAmount(amount decimal.Decimal) string {
	cur := money.GetCurrency(r.currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	// go-money counts minor units in an int64
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return cur.Code + " " + amount.StringFixed(int32(cur.Fraction))
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

func (r *Renderer) Render(report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Statement (%s)\n\n", describeOption(report.Period, report.Kind))

	if len(report.Rows) == 0 {
		b.WriteString("_No transactions_\n\n")
	} else {
		b.WriteString("| Date | Description | Kind | Amount |\n")
		b.WriteString("|---|---|---|---:|\n")
		for _, row := range report.Rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				row.Date.Format(transaction.LocalDateLayout),
				markdownEscaper.Replace(row.Description),
				row.Kind,
				r.FormatAmount(row.Amount),
			)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Income:** %s\n\n", r.FormatAmount(report.Totals.Income))
	fmt.Fprintf(&b, "**Expense:** %s\n\n", r.FormatAmount(report.Totals.Expense))
	fmt.Fprintf(&b, "**Balance:** %s\n", r.FormatAmount(report.Totals.Balance))
	return b.String()
}

func describeOption(period, kind string) string {
	if period == "" {
		period = "all time"
	}
	if kind == "" {
		return period
	}
	return period + ", " + kind
}
