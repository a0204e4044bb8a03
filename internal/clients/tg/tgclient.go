package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	updatesTimeout      = 60
)

type config interface {
	Token() string
	RequestTimeoutSeconds() int
}

type incomingHandler interface {
	HandleIncomingMessage(ctx context.Context, msg messages.Message) error
}

type Client struct {
	client  *tgbotapi.BotAPI
	timeout time.Duration
}

func New(config config) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(config.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	return &Client{
		client:  client,
		timeout: time.Duration(config.RequestTimeoutSeconds()) * time.Second,
	}, nil
}

func (c *Client) SendMessage(text string, chatID int64) error {
	_, err := c.client.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func (c *Client) ListenUpdates(ctx context.Context, handler incomingHandler) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = updatesTimeout

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages")

	for {
		select {
		case <-ctx.Done():
			c.client.StopReceivingUpdates()
			logger.Info("Stop listening for messages")
			return
		case update := <-updates:
			c.listenOnce(ctx, update, handler)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, handler incomingHandler) {
	if update.Message == nil {
		return
	}
	// message text is not logged: it may carry credentials
	logger.Info("incoming message",
		zap.Int64("chatID", update.Message.Chat.ID),
		zap.String("command", update.Message.Command()),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := handler.HandleIncomingMessage(ctx, messages.Message{
		Text:   update.Message.Text,
		ChatID: update.Message.Chat.ID,
	})
	if err != nil {
		logger.Error("error processing message:", zap.Error(err))
	}
}
