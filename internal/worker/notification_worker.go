package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// ErrQueueFull is returned when the notification queue cannot take more events.
var ErrQueueFull = errors.New("notification queue full")

const defaultQueueSize = 256

// NotificationWorker moves event delivery off the request path. Services
// publish into its queue; Run drains the queue into the dispatcher.
type NotificationWorker struct {
	dispatcher events.Dispatcher
	queue      chan events.Event
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(dispatcher events.Dispatcher, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &NotificationWorker{
		dispatcher: dispatcher,
		queue:      make(chan events.Event, size),
		logger:     logger,
	}
}

// Publish enqueues the event without blocking.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("dropping event", zap.String("event_type", string(event.Type)), zap.String("event_id", event.ID))
		return ErrQueueFull
	}
}

// Start launches the delivery loop; it stops when ctx is cancelled after
// draining what is already queued.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(event)
			case <-ctx.Done():
				for {
					select {
					case event := <-w.queue:
						w.deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) deliver(event events.Event) {
	if err := w.dispatcher.Publish(context.Background(), event); err != nil {
		w.logger.Error("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers notification handlers and starts delivery.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, w *NotificationWorker) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if w != nil {
		w.Start(ctx)
	}
}
