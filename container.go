package dynamodel

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type optionalCodec[T any] struct{ inner ValueCodec[T] }

// Optional wraps inner so that nil encodes as NULL and NULL decodes as nil.
// This is the encoding of an optional single-payload variant value, whose
// key must always be written. Optional record fields use OptionalField,
// which omits the key instead.
func Optional[T any](inner ValueCodec[T]) ValueCodec[*T] {
	return optionalCodec[T]{inner: inner}
}

func (c optionalCodec[T]) EncodeValue(v *T) types.AttributeValue {
	if v == nil {
		return Null()
	}
	return c.inner.EncodeValue(*v)
}

func (c optionalCodec[T]) DecodeValue(av types.AttributeValue) (*T, error) {
	if _, ok := av.(*types.AttributeValueMemberNULL); ok {
		return nil, nil
	}
	v, err := c.inner.DecodeValue(av)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type listCodec[T any] struct{ inner ValueCodec[T] }

// List encodes a slice as L, each element through inner.
func List[T any](inner ValueCodec[T]) ValueCodec[[]T] {
	return listCodec[T]{inner: inner}
}

func (c listCodec[T]) EncodeValue(v []T) types.AttributeValue {
	out := make([]types.AttributeValue, len(v))
	for i, e := range v {
		out[i] = c.inner.EncodeValue(e)
	}
	return &types.AttributeValueMemberL{Value: out}
}

// DecodeValue returns the first element error unchanged.
func (c listCodec[T]) DecodeValue(av types.AttributeValue) ([]T, error) {
	l, ok := av.(*types.AttributeValueMemberL)
	if !ok {
		return nil, Mismatch(KindList, av)
	}
	out := make([]T, 0, len(l.Value))
	for _, e := range l.Value {
		v, err := c.inner.DecodeValue(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type funcCodec[T any] struct {
	encode func(T) types.AttributeValue
	decode func(types.AttributeValue) (T, error)
}

// Custom adapts a pair of functions to a ValueCodec.
func Custom[T any](encode func(T) types.AttributeValue, decode func(types.AttributeValue) (T, error)) ValueCodec[T] {
	if encode == nil || decode == nil {
		panic(NewArgError("Custom codec requires both encode and decode functions").Error())
	}
	return funcCodec[T]{encode: encode, decode: decode}
}

func (c funcCodec[T]) EncodeValue(v T) types.AttributeValue { return c.encode(v) }

// DecodeValue reports failures of the decode function as Other, unless the
// function already returned a ConvertError.
func (c funcCodec[T]) DecodeValue(av types.AttributeValue) (T, error) {
	v, err := c.decode(av)
	if err != nil {
		var zero T
		return zero, hookError(err)
	}
	return v, nil
}

type anyCodec[T any] struct{}

// Any delegates to the SDK's attributevalue marshaler, for types without a
// dedicated codec (string-keyed maps, time.Time, SDK-tagged structs).
//
// Encoding a value the marshaler rejects (channels, functions) panics: that is
// a type declaration error, not a data error. Decode failures are reported as
// Other.
func Any[T any]() ValueCodec[T] { return anyCodec[T]{} }

func (anyCodec[T]) EncodeValue(v T) types.AttributeValue {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		panic("dynamodel: " + err.Error())
	}
	return av
}

func (anyCodec[T]) DecodeValue(av types.AttributeValue) (T, error) {
	var v T
	if err := attributevalue.Unmarshal(av, &v); err != nil {
		return v, Other(err)
	}
	return v, nil
}
