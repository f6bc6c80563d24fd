package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/events"
)

const defaultQueueSize = 256

// NotificationWorker queues published events and delivers them to the wrapped
// dispatcher on a background goroutine. It satisfies events.Dispatcher.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger
	wg     sync.WaitGroup
}

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

var _ events.Dispatcher = (*NotificationWorker)(nil)

// NewNotificationWorker wraps inner with a bounded queue.
func NewNotificationWorker(inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan queuedEvent, queueSize),
		logger: logger,
	}
}

// Start launches the delivery loop. It returns once ctx is cancelled and the
// queue is drained.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case item := <-w.queue:
				w.deliver(item)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

// Publish enqueues the event without blocking; a full queue drops it.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
	}
	return nil
}

// Subscribe registers on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case item := <-w.queue:
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item queuedEvent) {
	if err := w.inner.Publish(item.ctx, item.event); err != nil {
		w.logger.Warn("deliver event", zap.String("event_type", string(item.event.Type)), zap.Error(err))
	}
}
