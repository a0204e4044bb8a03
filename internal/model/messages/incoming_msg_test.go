package messages

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/customerr"
	"max.ks1230/personal-ledger/internal/model/ledger"
	"max.ks1230/personal-ledger/internal/model/reports"
	"max.ks1230/personal-ledger/internal/model/storage"
)

type testConfig struct{}

func (testConfig) Location() *time.Location { return time.UTC }
func (testConfig) CredentialCost() int      { return bcrypt.MinCost }

type senderMock struct {
	mock.Mock
}

func (m *senderMock) SendMessage(text string, chatID int64) error {
	return m.Called(text, chatID).Error(0)
}

type reportsMock struct {
	mock.Mock
}

func (m *reportsMock) RequestReport(ctx context.Context, req reports.Request) error {
	return m.Called(ctx, req).Error(0)
}

type chat struct {
	t       *testing.T
	service *Service
	sender  *senderMock
	reports *reportsMock
}

func newChat(t *testing.T) *chat {
	store := storage.NewInMemStorage()
	sender := new(senderMock)
	reps := new(reportsMock)
	return &chat{
		t:       t,
		sender:  sender,
		reports: reps,
		service: NewService(sender, Deps{
			Gate:      auth.NewGate(store, testConfig{}),
			Ledger:    ledger.NewService(store, testConfig{}),
			Balance:   balance.NewAggregator(store),
			Reports:   reps,
			Formatter: reports.NewRenderer("USD"),
			Sessions:  auth.NewSessions(),
		}),
	}
}

// send delivers text from chatID and returns the single reply.
func (c *chat) send(chatID int64, text string) string {
	var reply string
	c.sender.On("SendMessage", mock.Anything, chatID).
		Run(func(args mock.Arguments) { reply = args.String(0) }).
		Return(nil).Once()

	err := c.service.HandleIncomingMessage(context.Background(), Message{Text: text, ChatID: chatID})
	require.NoError(c.t, err)
	return reply
}

func (c *chat) login(chatID int64, username string) {
	require.Contains(c.t, c.send(chatID, "/register "+username+" secret"), "registered")
	require.Contains(c.t, c.send(chatID, "/login "+username+" secret"), "Welcome, "+username)
}

func Test_OnStartCommand_ShouldAnswerWithIntroMessage(t *testing.T) {
	c := newChat(t)
	assert.Equal(t, helloMessage, c.send(1, "/start"))
}

func Test_OnUnknownCommand_ShouldAnswerWithHelpMessage(t *testing.T) {
	c := newChat(t)
	assert.Equal(t, dontUnderstandMessage, c.send(1, "/none"))
	assert.Equal(t, loveToTalkMessage, c.send(1, "hello there"))
}

func Test_OnMutations_ShouldReplyWithRecomputedBalance(t *testing.T) {
	c := newChat(t)
	c.login(1, "bob")

	reply := c.send(1, "/income 1000 salary")
	assert.Contains(t, reply, "Saved #1")
	assert.Contains(t, reply, "Balance: $1,000.00")

	reply = c.send(1, "/expense 300,50 01.05.2024 rent")
	assert.Contains(t, reply, "Saved #2")
	assert.Contains(t, reply, "Expense: $300.50")
	assert.Contains(t, reply, "Balance: $699.50")

	reply = c.send(1, "/delete 2")
	assert.Contains(t, reply, "Deleted 1")
	assert.Contains(t, reply, "Balance: $1,000.00")
}

func Test_OnLedgerCommand_ShouldRequireLogin(t *testing.T) {
	c := newChat(t)

	assert.Equal(t, "Cannot add income: please /login first", c.send(1, "/income 10 tea"))
	assert.Equal(t, "Cannot compute balance: please /login first", c.send(1, "/balance"))
	assert.Equal(t, "Cannot wipe: please /login first", c.send(1, "/wipe confirm"))
}

func Test_OnLogin_ShouldRejectWrongPassword(t *testing.T) {
	c := newChat(t)
	c.send(1, "/register bob secret")

	assert.Contains(t, c.send(1, "/login bob nope"), "Cannot log in:")
	assert.Contains(t, c.send(1, "/register bob other"), "username bob is taken")
	assert.Equal(t, "Cannot register: arguments expected username and password", c.send(1, "/register bob"))
}

func Test_OnInvalidAmount_ShouldNotChangeLedger(t *testing.T) {
	c := newChat(t)
	c.login(1, "bob")

	assert.Contains(t, c.send(1, "/income abc salary"), "Cannot add income: amount")
	assert.Contains(t, c.send(1, "/expense -5 tea"), "Cannot add expense: amount")
	assert.Contains(t, c.send(1, "/balance"), "Balance: $0.00")
}

func Test_OnDeleteForeignTransaction_ShouldChangeNothing(t *testing.T) {
	c := newChat(t)
	c.login(1, "alice")
	c.login(2, "bob")

	c.send(1, "/income 50 gift")
	c.send(2, "/income 10 tip")

	assert.Equal(t, "Cannot delete: transaction 1 not found, nothing was changed", c.send(2, "/delete 2 1"))
	assert.Contains(t, c.send(2, "/balance"), "Balance: $10.00")
	assert.Contains(t, c.send(1, "/balance"), "Balance: $50.00")
	assert.Equal(t, "Cannot delete: id x is not a number", c.send(2, "/delete x"))
}

func Test_OnList_ShouldApplyFilters(t *testing.T) {
	c := newChat(t)
	c.login(1, "bob")
	c.send(1, "/income 1000 2024-05-01 salary")
	c.send(1, "/expense 300 2024-05-02 rent")
	c.send(1, "/expense 20 2024-06-01 coffee")

	reply := c.send(1, "/list expense from=01.05.2024 to=31.05.2024")
	assert.Contains(t, reply, "#2 02.05.2024 EXPENSE $300.00 rent")
	assert.NotContains(t, reply, "salary")
	assert.NotContains(t, reply, "coffee")

	assert.Contains(t, c.send(1, "/list SAL"), "salary")
	assert.Equal(t, noTransactionsMessage, c.send(1, "/list nothing-like-this"))
	assert.Contains(t, c.send(1, "/list from=2024-13-01"), "Cannot list: date")
}

func Test_OnWipe_ShouldAskForConfirmation(t *testing.T) {
	c := newChat(t)
	c.login(1, "bob")
	c.send(1, "/income 10 tip")
	c.send(1, "/income 20 tip")

	assert.Equal(t, wipeConfirmMessage, c.send(1, "/wipe"))
	assert.Contains(t, c.send(1, "/balance"), "Balance: $30.00")

	reply := c.send(1, "/wipe confirm")
	assert.Contains(t, reply, "Deleted 2")
	assert.Contains(t, reply, "Balance: $0.00")
}

func Test_OnLogout_ShouldEndSession(t *testing.T) {
	c := newChat(t)
	c.login(1, "bob")

	assert.Equal(t, byeMessage, c.send(1, "/logout"))
	assert.Equal(t, notLoggedInMessage, c.send(1, "/logout"))
	assert.Equal(t, "Cannot add income: please /login first", c.send(1, "/income 10 tea"))
}

func Test_OnReport_ShouldQueueRequestForSessionUser(t *testing.T) {
	c := newChat(t)
	c.login(7, "bob")

	c.reports.On("RequestReport", mock.Anything, mock.MatchedBy(func(req reports.Request) bool {
		return req.UserID == 1 && req.ChatID == 7 && req.Period == "month" && req.Kind == "expense" && req.ID != ""
	})).Return(nil).Once()

	assert.Equal(t, reportQueuedMessage, c.send(7, "/report month expense"))
	assert.Contains(t, c.send(7, "/report fortnight"), "Cannot build report:")
	c.reports.AssertExpectations(t)
}

func Test_OnStoreFailure_ShouldReturnError(t *testing.T) {
	text, err := failure("wipe", customerr.StoreUnavailable("delete all transactions", errors.New("timeout")))

	assert.Equal(t, "Cannot wipe: storage is unavailable, try again later", text)
	assert.True(t, customerr.IsStoreUnavailable(err))

	text, err = failure("wipe", customerr.Validation("id", "bad"))
	assert.Equal(t, "Cannot wipe: id bad", text)
	assert.NoError(t, err)
}

func Test_OnParseCommand_ShouldStripBotMention(t *testing.T) {
	cmd, arg := parseCommand("  /list@ledger_bot income  ")
	assert.Equal(t, "/list", cmd)
	assert.Equal(t, "income", arg)

	cmd, arg = parseCommand("just text")
	assert.Equal(t, "", cmd)
	assert.Equal(t, "just text", arg)
}

func Test_OnRegister_ShouldLogIn(t *testing.T) {
	c := newChat(t)

	reply := c.send(3, "/register  carol secret")
	assert.Contains(t, reply, "User carol registered and logged in")
	assert.Contains(t, reply, "Balance: $0.00")
	assert.Contains(t, c.send(3, "/income 5 tip"), "Balance: $5.00")
}
