package dynamodel

import (
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VariantDef is one entry of a union declaration. It is implemented by
// VariantSpec and PayloadSpec.
type VariantDef interface {
	variant(rule RenameRule, internal bool) variantPlan
}

// variantPlan is a variant with its tag resolved and its Go type erased.
type variantPlan struct {
	ident   string
	name    string
	typ     reflect.Type
	payload bool

	match       func(x any) bool
	encodeItem  func(x any) AttributeMap
	encodeValue func(x any) types.AttributeValue
	decodeItem  func(item AttributeMap, tag string) (any, error)
	decodeValue func(av types.AttributeValue) (any, error)
}

func matcher[V any]() func(any) bool {
	return func(x any) bool {
		_, ok := x.(V)
		return ok
	}
}

// VariantSpec declares a variant carrying named fields. V is the concrete
// (non-pointer) type implementing the union interface.
type VariantSpec[V any] struct {
	name      string
	rename    string
	renameAll RenameRule
	fields    []FieldDef[V]
}

// Variant declares a named-fields variant. name is the PascalCase identifier
// that the union's RenameAll rule is applied to.
func Variant[V any](name string, fields ...FieldDef[V]) VariantSpec[V] {
	return VariantSpec[V]{name: name, fields: fields}
}

// Rename sets the literal tag, overriding the union's RenameAll rule.
func (v VariantSpec[V]) Rename(tag string) VariantSpec[V] {
	v.rename = tag
	return v
}

// RenameAll sets the rule for this variant's own field keys.
func (v VariantSpec[V]) RenameAll(rule RenameRule) VariantSpec[V] {
	v.renameAll = rule
	return v
}

func (v VariantSpec[V]) variant(rule RenameRule, _ bool) variantPlan {
	rec := NewRecord(RecordParams[V]{RenameAll: v.renameAll}, v.fields...)
	return variantPlan{
		ident: v.name,
		name:  tagName(v.name, v.rename, rule),
		typ:   reflect.TypeOf((*V)(nil)).Elem(),
		match: matcher[V](),
		encodeItem: func(x any) AttributeMap {
			return rec.Encode(x.(V))
		},
		decodeItem: func(item AttributeMap, _ string) (any, error) {
			val, err := rec.Decode(item)
			if err != nil {
				return nil, err
			}
			return val, nil
		},
	}
}

// PayloadSpec declares a variant carrying a single unnamed value of type P.
type PayloadSpec[V, P any] struct {
	name   string
	rename string
	field  func(*V) *P
	codec  ValueCodec[P]

	// record-shaped encoding used under internal tagging; nil when the
	// payload codec does not produce items
	encodeItem func(P) AttributeMap
	decodeItem func(item AttributeMap, tag string) (P, error)
}

// Payload declares a single-payload variant. field returns a pointer to the
// carried value inside V.
//
// Under internal tagging codec must be record-shaped (a *Record or *Union):
// the tag is inserted into the payload's own item.
func Payload[V, P any](name string, field func(*V) *P, codec ValueCodec[P]) PayloadSpec[V, P] {
	if field == nil || codec == nil {
		panic(NewArgError(`Variant "` + name + `" needs an accessor and a codec`).Error())
	}
	p := PayloadSpec[V, P]{name: name, field: field, codec: codec}
	if ic, ok := codec.(ItemCodec[P]); ok {
		p.encodeItem = ic.Encode
		p.decodeItem = func(item AttributeMap, _ string) (P, error) { return ic.Decode(item) }
	}
	return p
}

// OptionalPayload declares a single-payload variant whose value may be nil.
//
// Externally tagged, nil is written as NULL under the tag key. Internally
// tagged, nil is written as the tag pair alone, and an item holding nothing
// but the tag decodes to nil. A non-nil payload that encodes to an empty item
// (all fields optional and nil) is therefore read back as nil.
func OptionalPayload[V, P any](name string, field func(*V) **P, codec ValueCodec[P]) PayloadSpec[V, *P] {
	if field == nil || codec == nil {
		panic(NewArgError(`Variant "` + name + `" needs an accessor and a codec`).Error())
	}
	p := PayloadSpec[V, *P]{name: name, field: field, codec: Optional(codec)}
	if ic, ok := codec.(ItemCodec[P]); ok {
		p.encodeItem = func(v *P) AttributeMap {
			if v == nil {
				return AttributeMap{}
			}
			return ic.Encode(*v)
		}
		p.decodeItem = func(item AttributeMap, tag string) (*P, error) {
			if onlyTag(item, tag) {
				return nil, nil
			}
			v, err := ic.Decode(item)
			if err != nil {
				return nil, err
			}
			return &v, nil
		}
	}
	return p
}

// Rename sets the literal tag, overriding the union's RenameAll rule.
func (p PayloadSpec[V, P]) Rename(tag string) PayloadSpec[V, P] {
	p.rename = tag
	return p
}

func (p PayloadSpec[V, P]) variant(rule RenameRule, internal bool) variantPlan {
	if internal && p.encodeItem == nil {
		panic(NewArgError(`Variant "` + p.name + `" of an internally tagged union must carry a record-shaped value`).Error())
	}
	return variantPlan{
		ident:   p.name,
		name:    tagName(p.name, p.rename, rule),
		typ:     reflect.TypeOf((*V)(nil)).Elem(),
		payload: true,
		match:   matcher[V](),
		encodeValue: func(x any) types.AttributeValue {
			v := x.(V)
			return p.codec.EncodeValue(*p.field(&v))
		},
		encodeItem: func(x any) AttributeMap {
			v := x.(V)
			return p.encodeItem(*p.field(&v))
		},
		decodeValue: func(av types.AttributeValue) (any, error) {
			val, err := p.codec.DecodeValue(av)
			if err != nil {
				return nil, err
			}
			var v V
			*p.field(&v) = val
			return v, nil
		},
		decodeItem: func(item AttributeMap, tag string) (any, error) {
			val, err := p.decodeItem(item, tag)
			if err != nil {
				return nil, err
			}
			var v V
			*p.field(&v) = val
			return v, nil
		},
	}
}

func tagName(ident, rename string, rule RenameRule) string {
	if rename != "" {
		return rename
	}
	return rule.ApplyToVariant(ident)
}

func onlyTag(item AttributeMap, tag string) bool {
	for k := range item {
		if k != tag {
			return false
		}
	}
	return true
}
