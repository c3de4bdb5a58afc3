package logging

import (
	"context"
	"sync"
	"time"

	"todo-api/application/ports"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// AuditLogger writes audit events to a named zap logger and, when a publisher
// is configured, forwards them to it in the background. It never reports failure
// to the caller.
type AuditLogger struct {
	logger      *zap.Logger
	publisher   ports.AuditPublisher
	syncPublish bool
	inflight    sync.WaitGroup
}

var _ ports.AuditLogger = (*AuditLogger)(nil)

// AuditOption configures an AuditLogger
type AuditOption func(*AuditLogger)

// WithSyncPublish delivers events before Info returns
func WithSyncPublish() AuditOption {
	return func(l *AuditLogger) {
		l.syncPublish = true
	}
}

// NewAuditLogger creates an audit logger; publisher may be nil
func NewAuditLogger(logger *zap.Logger, publisher ports.AuditPublisher, opts ...AuditOption) *AuditLogger {
	l := &AuditLogger{
		logger:    logger.Named("audit"),
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Info records event under methodPath
func (l *AuditLogger) Info(ctx context.Context, methodPath string, event ports.AuditEvent) {
	l.logger.Info(methodPath,
		zap.String("action", string(event.Action)),
		zap.String("method", event.Method),
		zap.Any("data", event.Data),
	)

	if l.publisher == nil {
		return
	}

	// the request may finish before delivery; keep request values, drop its deadline
	pubCtx := context.WithoutCancel(ctx)
	if l.syncPublish {
		l.publish(pubCtx, methodPath, event)
		return
	}

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		l.publish(pubCtx, methodPath, event)
	}()
}

// Flush blocks until every background publish has finished
func (l *AuditLogger) Flush() {
	l.inflight.Wait()
}

func (l *AuditLogger) publish(ctx context.Context, methodPath string, event ports.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := l.publisher.Publish(ctx, []ports.AuditEvent{event}); err != nil {
		l.logger.Warn("Failed to publish audit event",
			zap.String("method", methodPath),
			zap.String("action", string(event.Action)),
			zap.Error(err),
		)
	}
}
