/*
Package dynamodel – bidirectional codec between Go values and DynamoDB items.

Records (structs) are declared with NewRecord and a list of fields; tagged
unions (sealed interfaces) with NewUnion and a list of variants. The
resulting codecs are immutable and safe for concurrent use.

	var videoCodec = dynamodel.NewRecord[Video](
		dynamodel.RecordParams[Video]{RenameAll: dynamodel.PascalCase, Extra: Video.sortKey},
		dynamodel.Field("id", func(v *Video) *string { return &v.ID }, dynamodel.String()).Rename("PK"),
		dynamodel.Field("view_count", func(v *Video) *uint64 { return &v.ViewCount }, dynamodel.Uint[uint64]()),
	)
*/
package dynamodel

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// ItemCodec converts a Go value to and from a whole item. Record and Union
// implement it.
type ItemCodec[T any] interface {
	Encode(v T) AttributeMap
	Decode(item AttributeMap) (T, error)
}

// RecordParams holds record-level configuration.
type RecordParams[R any] struct {
	// RenameAll is applied to every field without an explicit Rename.
	RenameAll RenameRule
	// Extra produces auxiliary entries (typically table keys) merged beneath
	// the field entries: a field with the same key wins.
	Extra func(R) AttributeMap
}

// Record is the codec of a fixed-shape struct R.
type Record[R any] struct {
	fields []fieldPlan[R]
	extra  func(R) AttributeMap
}

// NewRecord builds a record codec. Fields are encoded and decoded in
// declaration order. It panics on an invalid declaration.
func NewRecord[R any](params RecordParams[R], fields ...FieldDef[R]) *Record[R] {
	r := &Record[R]{
		fields: make([]fieldPlan[R], 0, len(fields)),
		extra:  params.Extra,
	}
	for _, f := range fields {
		r.fields = append(r.fields, f.plan(params.RenameAll))
	}
	return r
}

// Keys lists the resolved attribute keys in declaration order.
func (r *Record[R]) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Encode converts v to an item. It never fails.
func (r *Record[R]) Encode(v R) AttributeMap {
	item := AttributeMap{}
	if r.extra != nil {
		for k, av := range r.extra(v) {
			item[k] = av
		}
	}
	for _, f := range r.fields {
		if !f.skipEncode {
			f.encode(&v, item)
		}
	}
	return item
}

// Decode converts an item to R. The first field error is returned.
func (r *Record[R]) Decode(item AttributeMap) (R, error) {
	var v R
	for _, f := range r.fields {
		if err := f.decode(item, &v); err != nil {
			var zero R
			return zero, err
		}
	}
	return v, nil
}

// EncodeValue wraps the encoded item in an M attribute, so records nest.
func (r *Record[R]) EncodeValue(v R) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: r.Encode(v)}
}

// DecodeValue requires an M attribute and decodes its content.
func (r *Record[R]) DecodeValue(av types.AttributeValue) (R, error) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		var zero R
		return zero, Mismatch(KindMap, av)
	}
	return r.Decode(m.Value)
}
