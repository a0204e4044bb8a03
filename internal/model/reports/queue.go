package reports

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
)

type messageProducer interface {
	ProduceMessage(key, message []byte) error
}

// Queue hands report requests to the reporter process over kafka.
type Queue struct {
	producer messageProducer
}

func NewQueue(producer messageProducer) *Queue {
	return &Queue{producer: producer}
}

func (q *Queue) RequestReport(_ context.Context, req Request) error {
	data, err := req.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal report request")
	}
	// keyed by user so one user's requests stay ordered within a partition
	key := []byte(strconv.FormatInt(req.UserID, 10))
	if err := q.producer.ProduceMessage(key, data); err != nil {
		return errors.Wrap(err, "enqueue report request")
	}
	logger.Info("report request queued", zap.String("requestID", req.ID), zap.Int64("userID", req.UserID))
	return nil
}
