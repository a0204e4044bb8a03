package reports

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/balance"
)

var periodStarts = map[string]func(*now.Now) time.Time{
	"week":  (*now.Now).BeginningOfWeek,
	"month": (*now.Now).BeginningOfMonth,
	"year":  (*now.Now).BeginningOfYear,
}

// Row is the read-only projection handed to renderers.
type Row struct {
	Description string
	Amount      decimal.Decimal
	Kind        transaction.Kind
	Date        time.Time
}

type Report struct {
	UserID int64
	Period string
	Kind   string
	Rows   []Row
	Totals balance.Totals
}

type transactionsReader interface {
	SelectTransactions(ctx context.Context, ownerID int64, filter transaction.Filter) ([]transaction.Transaction, error)
}

type config interface {
	Location() *time.Location
}

type Generator struct {
	storage  transactionsReader
	location *time.Location
	now      func() time.Time
}

func NewGenerator(config config, storage transactionsReader) *Generator {
	return &Generator{
		storage:  storage,
		location: config.Location(),
		now:      time.Now,
	}
}

func (g *Generator) GenerateReport(ctx context.Context, req Request) (*Report, error) {
	logger.Info("GenerateReport - start", zap.Int64("userID", req.UserID), zap.String("option", req.Option()))
	defer logger.Info("GenerateReport - end")

	if err := req.validate(); err != nil {
		return nil, errors.Wrap(err, "generate report")
	}

	txs, err := g.storage.SelectTransactions(ctx, req.UserID, g.filter(req))
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, Row{
			Description: tx.Description,
			Amount:      tx.Amount,
			Kind:        tx.Kind,
			Date:        tx.OccurredOn,
		})
	}
	return &Report{
		UserID: req.UserID,
		Period: req.Period,
		Kind:   req.Kind,
		Rows:   rows,
		Totals: balance.Sum(txs),
	}, nil
}

// CacheOption names the cached statement for req. Period statements carry
// their start date, so a new week, month or year never hits the previous one.
func (g *Generator) CacheOption(req Request) string {
	if start, ok := g.periodStart(req.Period); ok {
		return req.Option() + "@" + start.Format(transaction.DateLayout)
	}
	return req.Option()
}

// CurrentOptions lists the cache options a statement requested now can use.
func (g *Generator) CurrentOptions() []string {
	res := make([]string, 0, len(periods)*len(kindOptions))
	for _, p := range periods {
		for _, k := range kindOptions {
			res = append(res, g.CacheOption(Request{Period: p, Kind: k}))
		}
	}
	return res
}

func (g *Generator) periodStart(period string) (time.Time, bool) {
	start, ok := periodStarts[period]
	if !ok {
		return time.Time{}, false
	}
	return start(now.With(g.now().In(g.location))), true
}

func (g *Generator) filter(req Request) transaction.Filter {
	f := transaction.Filter{Kind: req.filterKind()}
	if start, ok := g.periodStart(req.Period); ok {
		f = f.WithDateFrom(start)
	}
	return f
}
