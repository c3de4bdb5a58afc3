package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const keyAttribute = "id"

// DocumentStore keeps documents of type T in one collection of a BadgerDB.
type DocumentStore[T any] struct {
	db         *badger.DB
	collection string
	logger     *zap.Logger
}

// NewDocumentStore creates a document store over db
func NewDocumentStore[T any](db *badger.DB, collection string, logger *zap.Logger) *DocumentStore[T] {
	return &DocumentStore[T]{
		db:         db,
		collection: collection,
		logger:     logger,
	}
}

// NewTodoStore creates the document store for todos
func NewTodoStore(db *badger.DB, collection string, logger *zap.Logger) *DocumentStore[entities.Todo] {
	return NewDocumentStore[entities.Todo](db, collection, logger)
}

var _ ports.TodoStore = (*DocumentStore[entities.Todo])(nil)

func (s *DocumentStore[T]) key(id string) []byte {
	return []byte(s.collection + "/" + id)
}

// readRaw returns the stored bytes for id, or nil when absent
func (s *DocumentStore[T]) readRaw(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(s.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// update runs fn in a read-write transaction, re-running it from a fresh snapshot
// when another writer committed the same key first. The last committed write wins.
func (s *DocumentStore[T]) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Debug("Transaction conflict, retrying", zap.String("collection", s.collection))
	}
}

func (s *DocumentStore[T]) decode(raw []byte) (*T, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// GetDocument retrieves a document by id; a missing key yields nil
func (s *DocumentStore[T]) GetDocument(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		raw, err = s.readRaw(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return s.decode(raw)
}

// PutDocument writes doc, replacing any document with the same id
func (s *DocumentStore[T]) PutDocument(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("failed to encode document: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("failed to encode document: %w", err)
	}
	id, ok := fields[keyAttribute].(string)
	if !ok || id == "" {
		return zero, fmt.Errorf("document has no %q attribute", keyAttribute)
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set(s.key(id), raw)
	})
	if err != nil {
		return zero, fmt.Errorf("failed to save document: %w", err)
	}

	s.logger.Debug("Document saved", zap.String("collection", s.collection), zap.String("id", id))
	return doc, nil
}

// UpdateDocument sets attrs on an existing document and returns the updated attributes
// in their stored form. Fails with ports.ErrDocumentNotFound when id is absent.
func (s *DocumentStore[T]) UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (entities.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := attrs[keyAttribute]; ok {
		return nil, fmt.Errorf("attribute %q cannot be updated", keyAttribute)
	}

	// normalise values to what a later read would return
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	updated := entities.Attributes{}
	if err := json.Unmarshal(encoded, &updated); err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		raw, err := s.readRaw(txn, id)
		if err != nil {
			return err
		}
		if raw == nil {
			return fmt.Errorf("update %s: %w", id, ports.ErrDocumentNotFound)
		}

		doc := map[string]interface{}{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}
		for name, value := range updated {
			doc[name] = value
		}

		next, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(s.key(id), next)
	})
	if err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return updated, nil
}

// DeleteDocument removes the document and returns what it held, or nil if there was nothing
func (s *DocumentStore[T]) DeleteDocument(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.update(ctx, func(txn *badger.Txn) error {
		var err error
		raw, err = s.readRaw(txn, id)
		if err != nil || raw == nil {
			return err
		}
		return txn.Delete(s.key(id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return s.decode(raw)
}

// Ping reports whether the database is open
func (s *DocumentStore[T]) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return ctx.Err()
}
