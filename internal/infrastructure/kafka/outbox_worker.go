package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/jitter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	defaultBatchSize = 10
	pollInterval     = 30 * time.Second
	staleAfter       = 5 * time.Minute
	reconnectBase    = 1 * time.Second
	reconnectMax     = 30 * time.Second
	notificationWait = 30 * time.Second
)

// OutboxWorker publishes stored order events to Kafka. It wakes up on
// LISTEN notifications and on a fallback poll.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dbConnStr string
	channel   string
	batchSize int
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	channel string,
	batchSize int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
		channel:   channel,
		batchSize: batchSize,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		<-w.stop
		cancel()
	}()

	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop cancels both loops and waits for them. Safe to call twice.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("draining pending outbox events on startup")
	w.releaseStale(ctx)
	w.drain(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("outbox worker stopped")
			return
		case <-ticker.C:
			w.releaseStale(ctx)
			w.drain(ctx)
		}
	}
}

// releaseStale puts events claimed by a crashed worker back in the queue.
func (w *OutboxWorker) releaseStale(ctx context.Context) {
	n, err := w.repo.ReleaseStale(ctx, staleAfter)
	if err != nil {
		w.logger.Warnf("release stale outbox events: %v", err)
		return
	}
	if n > 0 {
		w.logger.Infof("released %d stale outbox events", n)
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+pgx.Identifier{w.channel}.Sanitize()); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("subscribed to %q channel", w.channel)
		return nil
	}

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if conn == nil {
			if err := connect(); err != nil {
				delay := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
				w.logger.Warnf("listen connect failed: %v, retrying in %s", err, delay)
				if jitter.Sleep(ctx, delay) != nil {
					return
				}
				continue
			}
			attempt = -1
			// catch up on whatever arrived while disconnected
			w.drain(ctx)
		}

		waitCtx, cancel := context.WithTimeout(ctx, notificationWait)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				continue
			}
			_ = conn.Close(context.Background())
			conn = nil
			if ctx.Err() != nil {
				return
			}
			w.logger.Warnf("listen connection lost: %v, reconnecting", err)
			continue
		}

		if notif != nil && notif.Channel == w.channel {
			w.logger.Debugf("received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// drain publishes batches until the queue is empty or a batch fails.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch reports whether another batch may be waiting. A failed send
// returns the event to pending and ends the drain so a dead broker is not
// hammered in a loop.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	failed := false
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			failed = true
			w.logger.Warnf("publish event %s (%s): %v", event.EventID, event.EventType, err)
			if err := w.repo.ReleaseToPending(context.WithoutCancel(ctx), event.ID); err != nil {
				w.logger.Warnf("release event %s: %v", event.EventID, err)
			}
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return !failed && len(events) == w.batchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.SendBytes(ctx, event.OrderID, event.EventType, event.Payload); err != nil {
		if isRetryableError(err) {
			return e.Wrap("temporary kafka failure, will retry", err)
		}
		return e.Wrap("kafka failure", err)
	}
	return nil
}

func (w *OutboxWorker) SendBytes(ctx context.Context, orderID int64, eventType string, payload []byte) error {
	return w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(orderID, eventType, payload))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
