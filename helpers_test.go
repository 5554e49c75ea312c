/*
Shared test infrastructure: attribute constructors, assertions and an
in-memory DynamoDB double.
*/
package dynamodel_test

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dm "github.com/cloudxsgmbh/dynamodel-go"
)

// ─── attribute constructors ──────────────────────────────────────────────────

func avS(s string) types.AttributeValue    { return &types.AttributeValueMemberS{Value: s} }
func avN(n string) types.AttributeValue    { return &types.AttributeValueMemberN{Value: n} }
func avB(b bool) types.AttributeValue      { return &types.AttributeValueMemberBOOL{Value: b} }
func avBin(b []byte) types.AttributeValue  { return &types.AttributeValueMemberB{Value: b} }
func avNull() types.AttributeValue         { return &types.AttributeValueMemberNULL{Value: true} }

func avL(vs ...types.AttributeValue) types.AttributeValue {
	if vs == nil {
		vs = []types.AttributeValue{}
	}
	return &types.AttributeValueMemberL{Value: vs}
}

func avM(m dm.AttributeMap) types.AttributeValue { return &types.AttributeValueMemberM{Value: m} }

// ─── assertions ──────────────────────────────────────────────────────────────

func assertItem(t *testing.T, got, want dm.AttributeMap) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("item mismatch\n got: %s\nwant: %s", dm.Describe(avM(got)), dm.Describe(avM(want)))
	}
}

func assertEqual[T any](t *testing.T, got, want T) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertCode(t *testing.T, err error, code dm.ErrorCode) *dm.ConvertError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var ce *dm.ConvertError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConvertError, got %T: %v", err, err)
	}
	if ce.Code != code {
		t.Fatalf("error code = %s, want %s (%v)", ce.Code, code, err)
	}
	return ce
}

func assertPanics(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", contains)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, contains) {
			t.Fatalf("panic %q does not contain %q", msg, contains)
		}
	}()
	fn()
}

func bg() context.Context { return context.Background() }

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

// ─── DynamoDB double ─────────────────────────────────────────────────────────

// memClient stores items per table keyed by the rendered key attributes. It
// understands the condition expressions Collection emits:
// attribute_exists(#_N) and attribute_not_exists(#_N), joined with "and".
type memClient struct {
	mu     sync.Mutex
	keys   []string
	tables map[string]map[string]dm.AttributeMap

	puts    []*ddb.PutItemInput
	gets    []*ddb.GetItemInput
	deletes []*ddb.DeleteItemInput
	fail    error
}

func newMemClient(keys ...string) *memClient {
	return &memClient{keys: keys, tables: map[string]map[string]dm.AttributeMap{}}
}

func (m *memClient) tbl(name string) map[string]dm.AttributeMap {
	if m.tables[name] == nil {
		m.tables[name] = map[string]dm.AttributeMap{}
	}
	return m.tables[name]
}

func (m *memClient) itemKey(item dm.AttributeMap) string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, dm.Describe(item[k]))
	}
	return strings.Join(parts, "|")
}

func (m *memClient) conditionPasses(cond *string, names map[string]string, existing dm.AttributeMap) bool {
	if cond == nil {
		return true
	}
	for _, term := range strings.Split(*cond, " and ") {
		term = strings.Trim(term, "()")
		exists := strings.HasPrefix(term, "attribute_exists(")
		open := strings.Index(term, "(")
		attr := names[strings.Trim(term[open+1:], ")")]
		_, has := existing[attr]
		if exists != has {
			return false
		}
	}
	return true
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (m *memClient) PutItem(_ context.Context, p *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, p)
	if m.fail != nil {
		return nil, m.fail
	}
	t := m.tbl(aws.ToString(p.TableName))
	k := m.itemKey(p.Item)
	if !m.conditionPasses(p.ConditionExpression, p.ExpressionAttributeNames, t[k]) {
		return nil, conditionFailed()
	}
	t[k] = p.Item
	return &ddb.PutItemOutput{}, nil
}

func (m *memClient) GetItem(_ context.Context, p *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets = append(m.gets, p)
	if m.fail != nil {
		return nil, m.fail
	}
	item, ok := m.tbl(aws.ToString(p.TableName))[m.itemKey(p.Key)]
	if !ok {
		return &ddb.GetItemOutput{}, nil
	}
	if p.ProjectionExpression != nil {
		projected := dm.AttributeMap{}
		for _, tok := range strings.Split(*p.ProjectionExpression, ", ") {
			name := p.ExpressionAttributeNames[tok]
			if av, ok := item[name]; ok {
				projected[name] = av
			}
		}
		item = projected
	}
	return &ddb.GetItemOutput{Item: item}, nil
}

func (m *memClient) DeleteItem(_ context.Context, p *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, p)
	if m.fail != nil {
		return nil, m.fail
	}
	t := m.tbl(aws.ToString(p.TableName))
	k := m.itemKey(p.Key)
	if !m.conditionPasses(p.ConditionExpression, p.ExpressionAttributeNames, t[k]) {
		return nil, conditionFailed()
	}
	delete(t, k)
	return &ddb.DeleteItemOutput{}, nil
}

func (m *memClient) count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// logRecorder captures log lines through a FuncLogger.
type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *logRecorder) logger() dm.Logger {
	return dm.FuncLogger{Fn: func(level, message string, _ map[string]any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.lines = append(r.lines, level+" "+message)
	}}
}

func (r *logRecorder) levels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.lines))
	for _, l := range r.lines {
		out = append(out, strings.SplitN(l, " ", 2)[0])
	}
	sort.Strings(out)
	return out
}
