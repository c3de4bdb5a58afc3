package tracing

import (
	"context"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"
	"todo-api/pkg/observability"
)

// TracedStore records one subsegment per document store call
type TracedStore[T any] struct {
	next   ports.DocumentStore[T]
	tracer *observability.Tracer
	name   string
}

// NewTracedStore wraps next; name prefixes the subsegment names
func NewTracedStore[T any](next ports.DocumentStore[T], tracer *observability.Tracer, name string) *TracedStore[T] {
	return &TracedStore[T]{next: next, tracer: tracer, name: name}
}

func (s *TracedStore[T]) GetDocument(ctx context.Context, id string) (doc *T, err error) {
	err = s.tracer.TraceFunction(ctx, s.name+".GetDocument", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "id", id)
		doc, err = s.next.GetDocument(ctx, id)
		return err
	})
	return doc, err
}

func (s *TracedStore[T]) PutDocument(ctx context.Context, in T) (out T, err error) {
	err = s.tracer.TraceFunction(ctx, s.name+".PutDocument", func(ctx context.Context) error {
		out, err = s.next.PutDocument(ctx, in)
		return err
	})
	return out, err
}

func (s *TracedStore[T]) UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (updated entities.Attributes, err error) {
	err = s.tracer.TraceFunction(ctx, s.name+".UpdateDocument", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "id", id)
		updated, err = s.next.UpdateDocument(ctx, id, attrs)
		return err
	})
	return updated, err
}

func (s *TracedStore[T]) DeleteDocument(ctx context.Context, id string) (doc *T, err error) {
	err = s.tracer.TraceFunction(ctx, s.name+".DeleteDocument", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "id", id)
		doc, err = s.next.DeleteDocument(ctx, id)
		return err
	})
	return doc, err
}

// Ping forwards to the wrapped store when it supports health checks
func (s *TracedStore[T]) Ping(ctx context.Context) error {
	if checker, ok := s.next.(ports.HealthChecker); ok {
		return checker.Ping(ctx)
	}
	return nil
}
