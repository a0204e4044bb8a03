package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/customerr"
	"max.ks1230/personal-ledger/internal/model/ledger"
)

type cacheMock struct {
	mock.Mock
}

func (m *cacheMock) CacheReport(userID int64, option string, report string) error {
	return m.Called(userID, option, report).Error(0)
}

func (m *cacheMock) GetReport(userID int64, option string) (string, bool, error) {
	args := m.Called(userID, option)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *cacheMock) InvalidateCache(userID int64, options []string) error {
	return m.Called(userID, options).Error(0)
}

type senderMock struct {
	mock.Mock
}

func (m *senderMock) SendMessage(text string, chatID int64) error {
	return m.Called(text, chatID).Error(0)
}

type producerMock struct {
	mock.Mock
}

func (m *producerMock) ProduceMessage(key, message []byte) error {
	return m.Called(key, message).Error(0)
}

func Test_OnRequestReport_ShouldServeCachedStatement(t *testing.T) {
	reader := new(readerMock)
	cache := new(cacheMock)
	sender := new(senderMock)

	cache.On("GetReport", int64(123), "month:@2024-05-01").Return("cached", true, nil)
	sender.On("SendMessage", "cached", int64(77)).Return(nil)

	service := NewService(newTestGenerator(reader), NewRenderer("USD"), cache, sender)
	err := service.RequestReport(context.Background(), Request{UserID: 123, ChatID: 77, Period: "month"})

	require.NoError(t, err)
	reader.AssertNotCalled(t, "SelectTransactions", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func Test_OnRequestReport_ShouldBuildAndCacheOnMiss(t *testing.T) {
	reader := new(readerMock)
	cache := new(cacheMock)
	sender := new(senderMock)

	reader.On("SelectTransactions", mock.Anything, int64(123), transaction.Filter{}).Return(ledgerRows(), nil)
	cache.On("GetReport", int64(123), ":").Return("", false, nil)
	cache.On("CacheReport", int64(123), ":", mock.AnythingOfType("string")).Return(nil)
	sender.On("SendMessage", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "**Balance:** $700.00")
	}), int64(77)).Return(nil)

	service := NewService(newTestGenerator(reader), NewRenderer("USD"), cache, sender)
	err := service.RequestReport(context.Background(), Request{UserID: 123, ChatID: 77})

	require.NoError(t, err)
	reader.AssertExpectations(t)
	cache.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func Test_OnRequestReport_ShouldIgnoreCacheFailures(t *testing.T) {
	reader := new(readerMock)
	cache := new(cacheMock)
	sender := new(senderMock)

	reader.On("SelectTransactions", mock.Anything, int64(123), transaction.Filter{}).Return(nil, nil)
	cache.On("GetReport", int64(123), ":").Return("", false, errors.New("connection refused"))
	cache.On("CacheReport", int64(123), ":", mock.Anything).Return(errors.New("connection refused"))
	sender.On("SendMessage", mock.Anything, int64(77)).Return(nil)

	service := NewService(newTestGenerator(reader), NewRenderer("USD"), cache, sender)
	assert.NoError(t, service.RequestReport(context.Background(), Request{UserID: 123, ChatID: 77}))
}

func Test_OnRequestReport_ShouldReportStoreFailureToChat(t *testing.T) {
	reader := new(readerMock)
	sender := new(senderMock)

	reader.On("SelectTransactions", mock.Anything, int64(123), transaction.Filter{}).
		Return(nil, customerr.StoreUnavailable("select transactions", errors.New("timeout")))
	sender.On("SendMessage", "Could not build the report. Try again later", int64(77)).Return(nil)

	service := NewService(newTestGenerator(reader), NewRenderer("USD"), nil, sender)
	err := service.RequestReport(context.Background(), Request{UserID: 123, ChatID: 77})

	assert.True(t, customerr.IsStoreUnavailable(err))
	sender.AssertExpectations(t)
}

func Test_OnNewRequest_ShouldParseOptionsInAnyOrder(t *testing.T) {
	req, err := NewRequest(123, 77, "Expense week")
	require.NoError(t, err)

	assert.Equal(t, "week", req.Period)
	assert.Equal(t, "expense", req.Kind)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "week:expense", req.Option())
}

func Test_OnNewRequest_ShouldRejectUnknownOption(t *testing.T) {
	_, err := NewRequest(123, 77, "fortnight")
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnUnmarshalRequest_ShouldRejectUnsupportedPeriod(t *testing.T) {
	_, err := UnmarshalRequest([]byte(`{"id":"x","user_id":123,"chat_id":77,"period":"decade"}`))
	assert.True(t, customerr.IsValidation(err))

	_, err = UnmarshalRequest([]byte(`not json`))
	assert.Error(t, err)
}

func Test_OnQueueRequestReport_ShouldProduceKeyedByUser(t *testing.T) {
	producer := new(producerMock)
	req, err := NewRequest(123, 77, "month")
	require.NoError(t, err)

	producer.On("ProduceMessage", []byte("123"), mock.MatchedBy(func(data []byte) bool {
		got, err := UnmarshalRequest(data)
		return err == nil && got == req
	})).Return(nil)

	require.NoError(t, NewQueue(producer).RequestReport(context.Background(), req))
	producer.AssertExpectations(t)
}

func Test_OnLedgerChanged_ShouldInvalidateEveryCurrentOption(t *testing.T) {
	cache := new(cacheMock)
	generator := newTestGenerator(new(readerMock))
	options := generator.CurrentOptions()

	cache.On("InvalidateCache", int64(123), options).Return(nil)

	NewCacheInvalidator(cache, generator).LedgerChanged(context.Background(), ledger.Change{UserID: 123, Op: ledger.OpInsert, Count: 1})

	cache.AssertExpectations(t)
	assert.Len(t, options, 12)
	assert.Contains(t, options, ":")
	assert.Contains(t, options, "week:income@2024-05-12")
	assert.Contains(t, options, "year:expense@2024-01-01")
}

func Test_OnRequestReport_ShouldNotServePreviousPeriodFromCache(t *testing.T) {
	reader := new(readerMock)
	cache := new(cacheMock)
	sender := new(senderMock)

	generator := newTestGenerator(reader)
	generator.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 5, 0, 0, time.UTC) }

	reader.On("SelectTransactions", mock.Anything, int64(123), mock.Anything).Return(nil, nil)
	cache.On("GetReport", int64(123), "month:@2024-06-01").Return("", false, nil).Once()
	cache.On("CacheReport", int64(123), "month:@2024-06-01", mock.Anything).Return(nil).Once()
	sender.On("SendMessage", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "_No transactions_")
	}), int64(77)).Return(nil)

	service := NewService(generator, NewRenderer("USD"), cache, sender)
	require.NoError(t, service.RequestReport(context.Background(), Request{UserID: 123, ChatID: 77, Period: "month"}))

	cache.AssertNotCalled(t, "GetReport", int64(123), "month:@2024-05-01")
	cache.AssertExpectations(t)
}
