package dynamodel

import (
	"reflect"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ValueCodec converts a Go value to and from a single attribute value.
// Implementations must be safe for concurrent use.
type ValueCodec[T any] interface {
	EncodeValue(v T) types.AttributeValue
	DecodeValue(av types.AttributeValue) (T, error)
}

// Signed is the set of signed integer kinds encoded as Number.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer kinds encoded as Number.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Floating is the set of float kinds encoded as Number.
type Floating interface {
	~float32 | ~float64
}

type stringCodec struct{}

// String encodes text as S.
func String() ValueCodec[string] { return stringCodec{} }

func (stringCodec) EncodeValue(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func (stringCodec) DecodeValue(av types.AttributeValue) (string, error) {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", Mismatch(KindString, av)
	}
	return s.Value, nil
}

type boolCodec struct{}

// Bool encodes booleans as BOOL.
func Bool() ValueCodec[bool] { return boolCodec{} }

func (boolCodec) EncodeValue(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

func (boolCodec) DecodeValue(av types.AttributeValue) (bool, error) {
	b, ok := av.(*types.AttributeValueMemberBOOL)
	if !ok {
		return false, Mismatch(KindBoolean, av)
	}
	return b.Value, nil
}

// numberText extracts the decimal text of an N attribute.
func numberText(av types.AttributeValue) (string, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return "", Mismatch(KindNumber, av)
	}
	return n.Value, nil
}

type intCodec[T Signed] struct{ bits int }

// Int encodes a signed integer kind as N.
func Int[T Signed]() ValueCodec[T] {
	return intCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (intCodec[T]) EncodeValue(v T) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(v), 10)}
}

func (c intCodec[T]) DecodeValue(av types.AttributeValue) (T, error) {
	s, err := numberText(av)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, c.bits)
	if err != nil {
		return 0, ParseNumber(err)
	}
	return T(n), nil
}

type uintCodec[T Unsigned] struct{ bits int }

// Uint encodes an unsigned integer kind as N.
func Uint[T Unsigned]() ValueCodec[T] {
	return uintCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (uintCodec[T]) EncodeValue(v T) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(v), 10)}
}

func (c uintCodec[T]) DecodeValue(av types.AttributeValue) (T, error) {
	s, err := numberText(av)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, c.bits)
	if err != nil {
		return 0, ParseNumber(err)
	}
	return T(n), nil
}

type floatCodec[T Floating] struct{ bits int }

// Float encodes a float kind as N using the shortest decimal text that
// round-trips at the kind's precision ("1.2", not "1.2000000476837158").
//
// Only finite values are representable: NaN and infinities produce text the
// store rejects. Decoding accepts plain decimal text with an optional
// exponent; "inf", "nan", hex floats and underscores are ParseNumber errors.
func Float[T Floating]() ValueCodec[T] {
	return floatCodec[T]{bits: reflect.TypeOf((*T)(nil)).Elem().Bits()}
}

func (c floatCodec[T]) EncodeValue(v T) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(v), 'f', -1, c.bits)}
}

func (c floatCodec[T]) DecodeValue(av types.AttributeValue) (T, error) {
	s, err := numberText(av)
	if err != nil {
		return 0, err
	}
	if !decimal(s) {
		return 0, ParseNumber(&strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax})
	}
	f, err := strconv.ParseFloat(s, c.bits)
	if err != nil {
		return 0, ParseNumber(err)
	}
	return T(f), nil
}

// decimal reports whether s is [+-]digits[.digits][(e|E)[+-]digits], with at
// least one mantissa digit on either side of the point.
func decimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

// Bytes encodes a byte slice as a List of Number, one element per byte.
// Use BinaryValue / BinaryFrom in field hooks to store B instead.
func Bytes() ValueCodec[[]byte] { return List(Uint[byte]()) }

// BinaryValue encodes b as a B attribute. Intended for EncodeWith hooks.
func BinaryValue(b []byte) types.AttributeValue {
	return &types.AttributeValueMemberB{Value: b}
}

// BinaryFrom decodes a B attribute. Intended for DecodeWith hooks.
func BinaryFrom(av types.AttributeValue) ([]byte, error) {
	b, ok := av.(*types.AttributeValueMemberB)
	if !ok {
		return nil, Mismatch(KindBinary, av)
	}
	return b.Value, nil
}
