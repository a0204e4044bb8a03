package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/reports"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	loveToTalkMessage     = "I would love to talk about it more! Send /start to see what I can do"
	notLoggedInMessage    = "You are not logged in"
	byeMessage            = "Bye! Your session is closed"
	reportQueuedMessage   = "Your report is on its way"
	wipeConfirmMessage    = "This removes all your transactions. Send /wipe confirm to proceed"
	noTransactionsMessage = "No transactions found"

	helloMessage = `Hello! I keep track of your income and expenses.

/register username password
/login username password
/logout
/income amount [date] description
/expense amount [date] description
/list [income|expense] [from=date] [to=date] [text]
/delete id...
/wipe confirm
/balance
/report [week|month|year] [income|expense]

Dates are dd.mm.yyyy or yyyy-mm-dd. Amounts accept 12.50 or 12,50.`
)

const (
	startCommand    = "/start"
	registerCommand = "/register"
	loginCommand    = "/login"
	logoutCommand   = "/logout"
	incomeCommand   = "/income"
	expenseCommand  = "/expense"
	listCommand     = "/list"
	deleteCommand   = "/delete"
	wipeCommand     = "/wipe"
	balanceCommand  = "/balance"
	reportCommand   = "/report"
)

var commands = map[string]struct{}{
	startCommand: {}, registerCommand: {}, loginCommand: {}, logoutCommand: {},
	incomeCommand: {}, expenseCommand: {}, listCommand: {}, deleteCommand: {},
	wipeCommand: {}, balanceCommand: {}, reportCommand: {}, "": {},
}

type handler func(ctx context.Context, arg string, chatID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	deps        Deps
}

func newHandler(deps Deps) *HandlerService {
	res := &HandlerService{deps: deps}
	res.handlersMap = newMap(res)
	return res
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[registerCommand] = s.handleRegister
	m[loginCommand] = s.handleLogin
	m[logoutCommand] = s.handleLogout
	m[incomeCommand] = s.entryHandler(transaction.Income)
	m[expenseCommand] = s.entryHandler(transaction.Expense)
	m[listCommand] = s.handleList
	m[deleteCommand] = s.handleDelete
	m[wipeCommand] = s.handleWipe
	m[balanceCommand] = s.handleBalance
	m[reportCommand] = s.handleReport

	m[""] = s.handleNoCommand

	return m
}

// HandleMessage returns the reply text. A non-nil error means the reply
// reports an internal failure; user mistakes are answered with a nil error.
func (s *HandlerService) HandleMessage(ctx context.Context, text string, chatID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, chatID)
	}
	return dontUnderstandMessage, nil
}

func (s *HandlerService) session(chatID int64) auth.Session {
	session, _ := s.deps.Sessions.Current(chatID)
	return session
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage, nil
}

// handleRegister also logs the new user in on this chat.
func (s *HandlerService) handleRegister(ctx context.Context, arg string, chatID int64) (string, error) {
	username, credential, err := parseCredentials(arg)
	if err != nil {
		return failure("register", err)
	}
	if _, err := s.deps.Gate.Register(ctx, username, credential); err != nil {
		return failure("register", err)
	}
	session, err := s.deps.Gate.Login(ctx, username, credential)
	if err != nil {
		return failure("log in", err)
	}
	s.deps.Sessions.Login(chatID, session)

	return s.withBalance(ctx, session, "User "+session.Username()+" registered and logged in")
}

func (s *HandlerService) handleLogin(ctx context.Context, arg string, chatID int64) (string, error) {
	username, credential, err := parseCredentials(arg)
	if err != nil {
		return failure("log in", err)
	}
	session, err := s.deps.Gate.Login(ctx, username, credential)
	if err != nil {
		return failure("log in", err)
	}
	s.deps.Sessions.Login(chatID, session)
	logger.Info("user logged in", zap.Int64("userID", session.UserID()), zap.Int64("chatID", chatID))

	return s.withBalance(ctx, session, "Welcome, "+session.Username()+"!")
}

func (s *HandlerService) handleLogout(_ context.Context, _ string, chatID int64) (string, error) {
	if !s.deps.Sessions.Logout(chatID) {
		return notLoggedInMessage, nil
	}
	return byeMessage, nil
}

func (s *HandlerService) entryHandler(kind transaction.Kind) handler {
	op := "add " + strings.ToLower(kind.String())
	return func(ctx context.Context, arg string, chatID int64) (string, error) {
		amount, date, description, err := parseEntry(arg)
		if err != nil {
			return failure(op, err)
		}
		session := s.session(chatID)
		id, err := s.deps.Ledger.Insert(ctx, session, description, amount, kind, date)
		if err != nil {
			return failure(op, err)
		}
		return s.withBalance(ctx, session, fmt.Sprintf("Saved #%d", id))
	}
}

func (s *HandlerService) handleList(ctx context.Context, arg string, chatID int64) (string, error) {
	filter, err := parseFilter(arg)
	if err != nil {
		return failure("list", err)
	}
	txs, err := s.deps.Ledger.Query(ctx, s.session(chatID), filter)
	if err != nil {
		return failure("list", err)
	}
	if len(txs) == 0 {
		return noTransactionsMessage, nil
	}
	return formatTransactions(txs, s.deps.Formatter), nil
}

func (s *HandlerService) handleDelete(ctx context.Context, arg string, chatID int64) (string, error) {
	ids, err := parseIDs(arg)
	if err != nil {
		return failure("delete", err)
	}
	session := s.session(chatID)
	n, err := s.deps.Ledger.DeleteSelected(ctx, session, ids)
	if err != nil {
		return failure("delete", err)
	}
	return s.withBalance(ctx, session, fmt.Sprintf("Deleted %d", n))
}

func (s *HandlerService) handleWipe(ctx context.Context, arg string, chatID int64) (string, error) {
	session := s.session(chatID)
	if err := session.Require(); err != nil {
		return failure("wipe", err)
	}
	if strings.TrimSpace(strings.ToLower(arg)) != "confirm" {
		return wipeConfirmMessage, nil
	}
	n, err := s.deps.Ledger.Wipe(ctx, session)
	if err != nil {
		return failure("wipe", err)
	}
	return s.withBalance(ctx, session, fmt.Sprintf("Deleted %d", n))
}

func (s *HandlerService) handleBalance(ctx context.Context, _ string, chatID int64) (string, error) {
	totals, err := s.deps.Balance.Recompute(ctx, s.session(chatID))
	if err != nil {
		return failure("compute balance", err)
	}
	return formatTotals(totals, s.deps.Formatter), nil
}

func (s *HandlerService) handleReport(ctx context.Context, arg string, chatID int64) (string, error) {
	session := s.session(chatID)
	if err := session.Require(); err != nil {
		return failure("build report", err)
	}
	req, err := reports.NewRequest(session.UserID(), chatID, arg)
	if err != nil {
		return failure("build report", err)
	}
	if err := s.deps.Reports.RequestReport(ctx, req); err != nil {
		return failure("build report", err)
	}
	return reportQueuedMessage, nil
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ int64) (string, error) {
	return loveToTalkMessage, nil
}

// withBalance appends the recomputed totals to a successful reply.
func (s *HandlerService) withBalance(ctx context.Context, session auth.Session, text string) (string, error) {
	totals, err := s.deps.Balance.Recompute(ctx, session)
	if err != nil {
		return text + "\nBalance is unavailable right now", errors.Wrap(err, "recompute balance")
	}
	return text + "\n\n" + formatTotals(totals, s.deps.Formatter), nil
}
