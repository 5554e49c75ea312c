package dynamodel

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FieldDef is one entry of a record declaration. It is implemented by
// FieldSpec; build values with Field or OptionalField.
type FieldDef[R any] interface {
	plan(rule RenameRule) fieldPlan[R]
}

// fieldPlan is a FieldSpec with its key resolved, ready for use.
type fieldPlan[R any] struct {
	name       string
	key        string
	skipEncode bool
	encode     func(rec *R, item AttributeMap)
	decode     func(item AttributeMap, rec *R) error
}

// FieldSpec declares how one struct field of R maps to an attribute.
//
// The builder methods return modified copies, so a FieldSpec may be shared
// between record declarations.
type FieldSpec[R, T any] struct {
	name       string
	rename     string
	field      func(*R) *T
	codec      ValueCodec[T]
	optional   bool
	absent     func(T) bool
	encode     func(T) types.AttributeValue
	decode     func(types.AttributeValue) (T, error)
	decodeItem func(AttributeMap) (T, error)
	skipEncode bool
}

// Field declares a required field. name is the logical snake_case name that
// RenameAll rules are applied to; field returns a pointer to the struct
// field inside a record.
//
//	dynamodel.Field("first_name", func(p *Person) *string { return &p.FirstName }, dynamodel.String())
func Field[R, T any](name string, field func(*R) *T, codec ValueCodec[T]) FieldSpec[R, T] {
	if field == nil {
		panic(NewArgError(`Missing accessor for field "` + name + `"`).Error())
	}
	return FieldSpec[R, T]{name: name, field: field, codec: codec}
}

// OptionalField declares a pointer field. A nil value is omitted from the
// item and a missing key decodes to nil. A present key is always decoded by
// codec, so a NULL stored under it is a mismatch, not nil.
func OptionalField[R, T any](name string, field func(*R) **T, codec ValueCodec[T]) FieldSpec[R, *T] {
	var present ValueCodec[*T]
	if codec != nil {
		present = presentCodec[T]{inner: codec}
	}
	f := Field(name, field, present)
	f.optional = true
	f.absent = func(v *T) bool { return v == nil }
	return f
}

// Rename sets the literal attribute key, overriding any RenameAll rule.
func (f FieldSpec[R, T]) Rename(key string) FieldSpec[R, T] {
	f.rename = key
	return f
}

// EncodeWith replaces the codec on encode. The hook is always called, also
// for nil optional values.
func (f FieldSpec[R, T]) EncodeWith(fn func(T) types.AttributeValue) FieldSpec[R, T] {
	f.encode = fn
	return f
}

// DecodeWith replaces the codec on decode. It is called with the value stored
// under the field's key.
func (f FieldSpec[R, T]) DecodeWith(fn func(types.AttributeValue) (T, error)) FieldSpec[R, T] {
	f.decode = fn
	return f
}

// DecodeItemWith decodes the field from the whole item instead of its own
// key. It cannot be combined with DecodeWith.
func (f FieldSpec[R, T]) DecodeItemWith(fn func(AttributeMap) (T, error)) FieldSpec[R, T] {
	f.decodeItem = fn
	return f
}

// SkipEncode leaves the field out of encoded items. Typically paired with
// DecodeItemWith for values that live inside an auxiliary key.
func (f FieldSpec[R, T]) SkipEncode() FieldSpec[R, T] {
	f.skipEncode = true
	return f
}

// Key returns the attribute key the field resolves to under rule.
func (f FieldSpec[R, T]) Key(rule RenameRule) string {
	if f.rename != "" {
		return f.rename
	}
	return rule.ApplyToField(f.name)
}

func (f FieldSpec[R, T]) plan(rule RenameRule) fieldPlan[R] {
	if f.decode != nil && f.decodeItem != nil {
		panic(NewArgError(`Field "` + f.name + `" sets both DecodeWith and DecodeItemWith, only one is allowed`).Error())
	}
	if f.codec == nil && ((f.encode == nil && !f.skipEncode) || (f.decode == nil && f.decodeItem == nil)) {
		panic(NewArgError(`Field "` + f.name + `" has no codec`).Error())
	}
	key := f.Key(rule)
	return fieldPlan[R]{
		name:       f.name,
		key:        key,
		skipEncode: f.skipEncode,
		encode: func(rec *R, item AttributeMap) {
			v := *f.field(rec)
			if f.encode != nil {
				item[key] = f.encode(v)
				return
			}
			if f.optional && f.absent(v) {
				return
			}
			item[key] = f.codec.EncodeValue(v)
		},
		decode: func(item AttributeMap, rec *R) error {
			if f.decodeItem != nil {
				v, err := f.decodeItem(item)
				if err != nil {
					return hookError(err)
				}
				*f.field(rec) = v
				return nil
			}
			av, ok := item[key]
			if !ok {
				if f.optional {
					return nil
				}
				return FieldNotSet(key)
			}
			var v T
			var err error
			if f.decode != nil {
				if v, err = f.decode(av); err != nil {
					return hookError(err)
				}
			} else if v, err = f.codec.DecodeValue(av); err != nil {
				return err
			}
			*f.field(rec) = v
			return nil
		},
	}
}

// presentCodec is the codec of an optional field whose key is present. nil
// never reaches it on encode: absent values are skipped before.
type presentCodec[T any] struct{ inner ValueCodec[T] }

func (c presentCodec[T]) EncodeValue(v *T) types.AttributeValue {
	if v == nil {
		return Null()
	}
	return c.inner.EncodeValue(*v)
}

func (c presentCodec[T]) DecodeValue(av types.AttributeValue) (*T, error) {
	v, err := c.inner.DecodeValue(av)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// hookError keeps the error set closed: anything a hook returns that is not
// already a ConvertError becomes Other.
func hookError(err error) error {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return err
	}
	return Other(err)
}
