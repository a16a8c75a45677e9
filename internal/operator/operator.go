package operator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/link-server/internal/operator/actions"
	"github.com/carson-networks/link-server/internal/storage"
)

// Operator is the worker that processes items from the queue. Every action
// runs inside its own storage transaction; an action error rolls the whole
// transaction back.
type Operator struct {
	storage *storage.Storage
	logger  *logrus.Logger
	queue   chan ActionItem
}

func NewOperator(s *storage.Storage, logger *logrus.Logger, queue chan ActionItem) *Operator {
	return &Operator{
		storage: s,
		logger:  logger,
		queue:   queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rollbackErr := writer.Rollback(); rollbackErr != nil {
			o.logger.WithError(rollbackErr).Error("Operator.processItem.rollback")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		o.logger.WithError(err).Error("Operator.processItem.commit")
		item.response <- ActionItemResponse{err: err}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
