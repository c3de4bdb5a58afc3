package resilience

import (
	"context"
	"errors"
	"time"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"
	apperrors "todo-api/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the store circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the store circuit breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerStore wraps a document store with a circuit breaker.
// While the breaker is open calls fail immediately with an UNAVAILABLE internal
// error instead of reaching the store. Nothing is retried.
type BreakerStore[T any] struct {
	next   ports.DocumentStore[T]
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerStore creates a circuit-breaking decorator around next
func NewBreakerStore[T any](next ports.DocumentStore[T], config BreakerConfig, logger *zap.Logger) *BreakerStore[T] {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isStoreHealthy,
	})

	return &BreakerStore[T]{next: next, cb: cb, logger: logger}
}

// isStoreHealthy reports whether err says nothing about the store's health
func isStoreHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, ports.ErrDocumentNotFound) ||
		errors.Is(err, context.Canceled)
}

// State returns the current breaker state
func (s *BreakerStore[T]) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore[T]) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperrors.NewUnavailableError("document store", err)
	}
	return result, err
}

func (s *BreakerStore[T]) GetDocument(ctx context.Context, id string) (*T, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.GetDocument(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

func (s *BreakerStore[T]) PutDocument(ctx context.Context, doc T) (T, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.PutDocument(ctx, doc)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (s *BreakerStore[T]) UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (entities.Attributes, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.UpdateDocument(ctx, id, attrs)
	})
	if err != nil {
		return nil, err
	}
	return result.(entities.Attributes), nil
}

func (s *BreakerStore[T]) DeleteDocument(ctx context.Context, id string) (*T, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.DeleteDocument(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

// Ping forwards to the wrapped store when it supports health checks
func (s *BreakerStore[T]) Ping(ctx context.Context) error {
	if checker, ok := s.next.(ports.HealthChecker); ok {
		return checker.Ping(ctx)
	}
	return nil
}
