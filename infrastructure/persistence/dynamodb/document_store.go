package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// KeyAttribute is the partition key of every document table
const KeyAttribute = "id"

// DynamoDBAPI is the subset of the DynamoDB client the document store uses
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DocumentStore keeps documents of type T in a single DynamoDB table keyed by id.
type DocumentStore[T any] struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewDocumentStore creates a new DynamoDB-backed document store
func NewDocumentStore[T any](client DynamoDBAPI, tableName string, logger *zap.Logger) *DocumentStore[T] {
	return &DocumentStore[T]{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// NewTodoStore creates the document store for todos
func NewTodoStore(client DynamoDBAPI, tableName string, logger *zap.Logger) *DocumentStore[entities.Todo] {
	return NewDocumentStore[entities.Todo](client, tableName, logger)
}

var _ ports.TodoStore = (*DocumentStore[entities.Todo])(nil)

func (s *DocumentStore[T]) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// GetDocument retrieves a document by id; a missing item yields nil
func (s *DocumentStore[T]) GetDocument(ctx context.Context, id string) (*T, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if len(result.Item) == 0 {
		return nil, nil
	}

	var doc T
	if err := attributevalue.UnmarshalMap(result.Item, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse item: %w", err)
	}
	return &doc, nil
}

// PutDocument writes doc, replacing any item with the same id
func (s *DocumentStore[T]) PutDocument(ctx context.Context, doc T) (T, error) {
	var zero T

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return zero, fmt.Errorf("failed to convert document to item: %w", err)
	}
	if _, ok := item[KeyAttribute]; !ok {
		return zero, fmt.Errorf("document has no %q attribute", KeyAttribute)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return zero, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Debug("Document saved", zap.String("table", s.tableName))
	return doc, nil
}

// UpdateDocument sets attrs on an existing item and returns the updated attributes.
// The write is conditional on the item existing so a concurrent delete is never undone.
func (s *DocumentStore[T]) UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (entities.Attributes, error) {
	if len(attrs) == 0 {
		return entities.Attributes{}, nil
	}

	// sorted so the generated expression is stable
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name == KeyAttribute {
			return nil, fmt.Errorf("attribute %q cannot be updated", KeyAttribute)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for _, name := range names {
		update = update.Set(expression.Name(name), expression.Value(attrs[name]))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.Name(KeyAttribute).AttributeExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       s.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("update %s: %w", id, ports.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	updated := entities.Attributes{}
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated attributes: %w", err)
	}
	return updated, nil
}

// DeleteDocument removes the item and returns what it held, or nil if there was nothing
func (s *DocumentStore[T]) DeleteDocument(ctx context.Context, id string) (*T, error) {
	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          s.key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	if len(result.Attributes) == 0 {
		return nil, nil
	}

	var doc T
	if err := attributevalue.UnmarshalMap(result.Attributes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse deleted item: %w", err)
	}
	return &doc, nil
}

// Ping checks that the table is reachable
func (s *DocumentStore[T]) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.tableName, err)
	}
	return nil
}
