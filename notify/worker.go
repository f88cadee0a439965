package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Worker drains a Queue and mails a confirmation per event. Delivery failures are
// logged and dropped; they never reach the customer who placed the order.
type Worker struct {
	queue   Queue
	mailer  Mailer
	logger  *zap.Logger
	poll    time.Duration
	backoff time.Duration
}

func NewWorker(queue Queue, mailer Mailer, logger *zap.Logger) *Worker {
	return &Worker{
		queue:   queue,
		mailer:  mailer,
		logger:  logger.Named("notify"),
		poll:    time.Second,
		backoff: 2 * time.Second,
	}
}

// WithPoll overrides how long each Consume call blocks.
func (w *Worker) WithPoll(d time.Duration) *Worker {
	w.poll = d
	return w
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	defer w.logger.Info("notification worker stopped")

	for {
		ev, err := w.queue.Consume(ctx, w.poll)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			w.logger.Warn("consume failed", zap.Error(err))
			if !sleep(ctx, w.backoff) {
				return nil
			}
			continue
		}
		if ev == nil {
			continue
		}
		w.handle(ctx, *ev)
	}
}

func (w *Worker) handle(ctx context.Context, ev OrderPlaced) {
	log := w.logger.With(zap.String("order_id", ev.OrderID), zap.String("tracking_ref", ev.TrackingRef))
	if ev.Email == "" {
		log.Warn("order event has no recipient, skipping")
		return
	}

	msg, err := RenderConfirmation(ev)
	if err != nil {
		log.Error("render failed", zap.Error(err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.mailer.Send(sendCtx, msg); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Warn("confirmation email failed", zap.Error(err))
		return
	}
	log.Info("confirmation email sent", zap.String("to", ev.Email))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
