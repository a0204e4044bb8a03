package reports

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
)

type reportCache interface {
	CacheReport(userID int64, option string, report string) error
	GetReport(userID int64, option string) (string, bool, error)
	InvalidateCache(userID int64, options []string) error
}

type messageSender interface {
	SendMessage(text string, chatID int64) error
}

// Service builds statements and delivers them to the requesting chat.
type Service struct {
	generator *Generator
	renderer  *Renderer
	cache     reportCache
	sender    messageSender
}

func NewService(generator *Generator, renderer *Renderer, cache reportCache, sender messageSender) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{
		generator: generator,
		renderer:  renderer,
		cache:     cache,
		sender:    sender,
	}
}

// Build returns the rendered statement, from the cache when possible.
// Cache failures are logged and the report is built from the store.
func (s *Service) Build(ctx context.Context, req Request) (string, error) {
	option := s.generator.CacheOption(req)
	if text, ok, err := s.cache.GetReport(req.UserID, option); err != nil {
		logger.Warn("cannot read cached report", zap.Error(err))
	} else if ok {
		return text, nil
	}

	report, err := s.generator.GenerateReport(ctx, req)
	if err != nil {
		return "", err
	}
	text := s.renderer.Render(report)

	if err := s.cache.CacheReport(req.UserID, option, text); err != nil {
		logger.Warn("cannot cache report", zap.Error(err))
	}
	return text, nil
}

func (s *Service) RequestReport(ctx context.Context, req Request) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "requestReport")
	defer span.Finish()
	span.SetTag("requestID", req.ID)

	start := time.Now()
	err := s.deliver(ctx, req)
	observeReport(time.Since(start), err)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) deliver(ctx context.Context, req Request) error {
	text, err := s.Build(ctx, req)
	if err != nil {
		_ = s.sender.SendMessage("Could not build the report. Try again later", req.ChatID)
		return errors.Wrap(err, "request report")
	}
	if err := s.sender.SendMessage(text, req.ChatID); err != nil {
		return errors.Wrap(err, "send report")
	}
	return nil
}

type nopCache struct{}

func (nopCache) CacheReport(int64, string, string) error { return nil }

func (nopCache) GetReport(int64, string) (string, bool, error) { return "", false, nil }

func (nopCache) InvalidateCache(int64, []string) error { return nil }
