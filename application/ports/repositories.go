package ports

import (
	"context"
	"errors"

	"todo-api/domain/core/entities"
)

// ErrDocumentNotFound is returned by a DocumentStore when a conditional write
// targets a document that does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore defines the interface for keyed document persistence.
// This is a port in hexagonal architecture - the adapter doesn't know about the implementation.
type DocumentStore[T any] interface {
	// GetDocument retrieves a document by id. A missing document yields (nil, nil).
	GetDocument(ctx context.Context, id string) (*T, error)

	// PutDocument stores doc and returns what was stored
	PutDocument(ctx context.Context, doc T) (T, error)

	// UpdateDocument writes attrs onto an existing document and returns the
	// updated attributes only. Fails with ErrDocumentNotFound when id is absent.
	UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (entities.Attributes, error)

	// DeleteDocument removes a document and returns its previous contents, or nil
	// when nothing was stored under id.
	DeleteDocument(ctx context.Context, id string) (*T, error)
}

// TodoStore is the document store the todo adapter persists to
type TodoStore = DocumentStore[entities.Todo]

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}
