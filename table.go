/*
Package dynamodel – Table and Collection types.

A thin store adapter: Collection encodes values with an ItemCodec and issues
PutItem / GetItem / DeleteItem against a DynamoDB client.
*/
package dynamodel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoClient is the subset of the AWS DynamoDB client used by Collection.
// *dynamodb.Client satisfies it, as do test doubles.
type DynamoClient interface {
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
}

// MonitorFunc is an optional hook called after each DynamoDB operation.
type MonitorFunc func(collection, op string, err error, start time.Time)

// TableParams configures a Table.
type TableParams struct {
	Name    string
	Client  DynamoClient
	Logger  Logger // nil → default (info+error only)
	Verbose bool   // true → also log trace/data
	Monitor MonitorFunc
}

// Table represents a single DynamoDB table.
type Table struct {
	Name string

	client  DynamoClient
	log     Logger
	monitor MonitorFunc
}

// NewTable creates and initialises a Table instance.
func NewTable(params TableParams) (*Table, error) {
	if params.Name == "" {
		return nil, NewArgError(`Missing "name" property`)
	}
	if params.Client == nil {
		return nil, NewArgError(`Missing "client" property`)
	}
	t := &Table{
		Name:    params.Name,
		client:  params.Client,
		monitor: params.Monitor,
	}
	switch {
	case params.Logger != nil:
		t.log = params.Logger
	case params.Verbose:
		t.log = verboseLogger{}
	default:
		t.log = defaultLogger{}
	}
	t.log.Trace("Loading table", map[string]any{"name": t.Name})
	return t, nil
}

// WriteParams holds optional write modifiers.
type WriteParams struct {
	// Exists: true=item must exist, false=must not exist, nil=don't care.
	Exists *bool
	// Log logs the command at info level.
	Log bool
}

// ReadParams holds optional read modifiers.
type ReadParams struct {
	Consistent bool
	// Fields projects the given attribute names. The codec must tolerate the
	// missing keys (optional fields).
	Fields []string
	Log    bool
}

// Collection stores values of one type in a Table.
type Collection[T any] struct {
	name  string
	table *Table
	codec ItemCodec[T]
	keys  []string
}

// NewCollection binds codec to table. keys are the table's key attribute
// names (hash, then sort) as they appear in encoded items.
func NewCollection[T any](table *Table, name string, codec ItemCodec[T], keys ...string) (*Collection[T], error) {
	if table == nil {
		return nil, NewArgError("Missing table")
	}
	if codec == nil {
		return nil, NewArgError(fmt.Sprintf(`Missing codec for collection "%s"`, name))
	}
	if len(keys) == 0 || len(keys) > 2 {
		return nil, NewArgError(fmt.Sprintf(`Collection "%s" needs a hash key and an optional sort key`, name))
	}
	return &Collection[T]{name: name, table: table, codec: codec, keys: keys}, nil
}

// Key encodes v and projects its key attributes.
func (c *Collection[T]) Key(v T) (AttributeMap, error) {
	return c.keyOf(c.codec.Encode(v))
}

func (c *Collection[T]) keyOf(item AttributeMap) (AttributeMap, error) {
	key := make(AttributeMap, len(c.keys))
	for _, k := range c.keys {
		av, ok := item[k]
		if !ok {
			return nil, NewArgError(fmt.Sprintf(`Missing key attribute "%s" for collection "%s"`, k, c.name))
		}
		key[k] = av
	}
	return key, nil
}

// Put writes v. With params.Exists set, the write is conditional and a failed
// condition returns an ErrUnique error.
func (c *Collection[T]) Put(ctx context.Context, v T, params *WriteParams) error {
	if params == nil {
		params = &WriteParams{}
	}
	item := c.codec.Encode(v)
	if _, err := c.keyOf(item); err != nil {
		return err
	}
	expr := newExpression()
	expr.addExists(c.keys, params.Exists)
	input := &ddb.PutItemInput{
		TableName:                aws.String(c.table.Name),
		Item:                     item,
		ConditionExpression:      expr.condition(),
		ExpressionAttributeNames: expr.attributeNames(),
	}
	c.logCommand("put", params.Log, item)

	start := time.Now()
	_, err := c.table.client.PutItem(ctx, input)
	c.observe("put", err, start)
	if err != nil {
		return c.wrapError("put", err)
	}
	return nil
}

// Get reads the item with the given key. The boolean is false when no item
// exists. Items that fail to decode return an ErrConvert error wrapping the
// ConvertError.
func (c *Collection[T]) Get(ctx context.Context, key AttributeMap, params *ReadParams) (T, bool, error) {
	var zero T
	if params == nil {
		params = &ReadParams{}
	}
	key, err := c.keyOf(key)
	if err != nil {
		return zero, false, err
	}
	expr := newExpression()
	expr.addProjection(params.Fields)
	input := &ddb.GetItemInput{
		TableName:                aws.String(c.table.Name),
		Key:                      key,
		ConsistentRead:           aws.Bool(params.Consistent),
		ProjectionExpression:     expr.projection(),
		ExpressionAttributeNames: expr.attributeNames(),
	}
	c.logCommand("get", params.Log, key)

	start := time.Now()
	out, err := c.table.client.GetItem(ctx, input)
	c.observe("get", err, start)
	if err != nil {
		return zero, false, c.wrapError("get", err)
	}
	if out.Item == nil {
		return zero, false, nil
	}
	v, err := c.codec.Decode(out.Item)
	if err != nil {
		c.table.log.Error(fmt.Sprintf(`Cannot decode item of "%s"`, c.name),
			map[string]any{"error": err.Error(), "item": itemContext(out.Item)})
		return zero, false, NewError(fmt.Sprintf(`Cannot decode item of "%s"`, c.name),
			WithCode(ErrConvert), WithCause(err))
	}
	c.table.log.Data(fmt.Sprintf(`Collection "%s" "get" result`, c.name), map[string]any{"item": itemContext(out.Item)})
	return v, true, nil
}

// Delete removes the item with the given key. With params.Exists true the
// item must exist, otherwise an ErrNotFound error is returned. With
// params.Exists false the item must not exist (ErrUnique).
func (c *Collection[T]) Delete(ctx context.Context, key AttributeMap, params *WriteParams) error {
	if params == nil {
		params = &WriteParams{}
	}
	key, err := c.keyOf(key)
	if err != nil {
		return err
	}
	expr := newExpression()
	expr.addExists(c.keys, params.Exists)
	input := &ddb.DeleteItemInput{
		TableName:                aws.String(c.table.Name),
		Key:                      key,
		ConditionExpression:      expr.condition(),
		ExpressionAttributeNames: expr.attributeNames(),
	}
	c.logCommand("delete", params.Log, key)

	start := time.Now()
	_, err = c.table.client.DeleteItem(ctx, input)
	c.observe("delete", err, start)
	if err != nil {
		if isConditionalFailed(err) && params.Exists != nil && *params.Exists {
			return NewError(fmt.Sprintf(`Cannot delete missing item of "%s"`, c.name),
				WithCode(ErrNotFound), WithCause(err), WithContext(map[string]any{"key": itemContext(key)}))
		}
		return c.wrapError("delete", err)
	}
	return nil
}

func (c *Collection[T]) logCommand(op string, info bool, item AttributeMap) {
	msg := fmt.Sprintf(`Collection "%s" "%s"`, c.name, op)
	ctx := map[string]any{"table": c.table.Name, "op": op, "item": itemContext(item)}
	if info {
		c.table.log.Info(msg, ctx)
	} else {
		c.table.log.Trace(msg, ctx)
	}
}

func (c *Collection[T]) observe(op string, err error, start time.Time) {
	if c.table.monitor != nil {
		c.table.monitor(c.name, op, err, start)
	}
}

func (c *Collection[T]) wrapError(op string, err error) error {
	if isConditionalFailed(err) {
		return NewError(fmt.Sprintf(`Conditional %s failed for "%s"`, op, c.name),
			WithCode(ErrUnique), WithCause(err))
	}
	c.table.log.Error(fmt.Sprintf(`Collection "%s" "%s" failed`, c.name, op), map[string]any{"error": err.Error()})
	return NewError(fmt.Sprintf(`Execute failed "%s" for "%s": %s`, op, c.name, err.Error()),
		WithCode(ErrRuntime), WithCause(err))
}

// isConditionalFailed detects a failed condition expression, both as the
// typed SDK exception and as a generic API error code.
func isConditionalFailed(err error) bool {
	var ccfe *types.ConditionalCheckFailedException
	if errors.As(err, &ccfe) {
		return true
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode() == "ConditionalCheckFailedException"
	}
	return false
}
