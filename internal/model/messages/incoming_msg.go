package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/shopspring/decimal"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/reports"
)

type messageSender interface {
	SendMessage(text string, chatID int64) error
}

type authGate interface {
	Register(ctx context.Context, username, credential string) (int64, error)
	Login(ctx context.Context, username, credential string) (auth.Session, error)
}

type ledgerService interface {
	Insert(ctx context.Context, session auth.Session, description, amount string, kind transaction.Kind, date time.Time) (int64, error)
	Query(ctx context.Context, session auth.Session, filter transaction.Filter) ([]transaction.Transaction, error)
	DeleteSelected(ctx context.Context, session auth.Session, ids []int64) (int64, error)
	Wipe(ctx context.Context, session auth.Session) (int64, error)
}

type balanceCalculator interface {
	Recompute(ctx context.Context, session auth.Session) (balance.Totals, error)
}

type reportRequester interface {
	RequestReport(ctx context.Context, req reports.Request) error
}

type amountFormatter interface {
	FormatAmount(amount decimal.Decimal) string
}

// Deps are the engine components the chat commands drive.
type Deps struct {
	Gate      authGate
	Ledger    ledgerService
	Balance   balanceCalculator
	Reports   reportRequester
	Formatter amountFormatter
	Sessions  *auth.Sessions
}

type Message struct {
	Text   string
	ChatID int64
}

type Service struct {
	tgClient messageSender
	handler  *HandlerService
}

func NewService(tgClient messageSender, deps Deps) *Service {
	return &Service{
		tgClient: tgClient,
		handler:  newHandler(deps),
	}
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	cmd, _ := parseCommand(msg.Text)
	span.SetTag("command", cmd)

	start := time.Now()
	err := s.handle(ctx, msg)
	observeResponse(commandLabel(cmd), time.Since(start), err)

	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	resp, err := s.handler.HandleMessage(ctx, msg.Text, msg.ChatID)
	if err != nil {
		_ = s.tgClient.SendMessage(resp, msg.ChatID)
		return err
	}
	return s.tgClient.SendMessage(resp, msg.ChatID)
}

// commandLabel keeps metric cardinality bounded.
func commandLabel(cmd string) string {
	if _, ok := commands[cmd]; ok {
		return cmd
	}
	return "unknown"
}
