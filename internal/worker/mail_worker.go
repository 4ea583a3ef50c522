package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/mail"
	"github.com/resolveit/complaint-service/internal/observability"
)

// MailWorker drains a buffered queue of outbound messages so that delivery
// latency never extends the caller-visible duration of the operation that
// triggered the notification. Failures are logged and counted, never
// surfaced to the producer.
type MailWorker struct {
	queue   chan mail.Message
	mailer  mail.Mailer
	logger  *zap.Logger
	metrics *observability.Metrics
	done    chan struct{}
}

// NewMailWorker constructs a worker with the given queue capacity.
func NewMailWorker(mailer mail.Mailer, logger *zap.Logger, metrics *observability.Metrics, queueSize int) *MailWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &MailWorker{
		queue:   make(chan mail.Message, queueSize),
		mailer:  mailer,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Enqueue hands a message to the worker without blocking. Messages are
// dropped when the queue is full; the drop is logged and counted.
func (w *MailWorker) Enqueue(msg mail.Message) {
	select {
	case w.queue <- msg:
	default:
		w.metrics.RecordMail("dropped")
		w.logger.Warn("mail queue full, dropping notification",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Start runs the delivery loop until the context is cancelled.
func (w *MailWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-w.queue:
				if err := w.mailer.Send(ctx, msg); err != nil {
					w.metrics.RecordMail("failed")
					w.logger.Error("failed to send notification email",
						zap.String("to", msg.To),
						zap.String("subject", msg.Subject),
						zap.Error(err),
					)
					continue
				}
				w.metrics.RecordMail("sent")
			}
		}
	}()
}

// Wait blocks until the delivery loop has stopped.
func (w *MailWorker) Wait() {
	<-w.done
}
