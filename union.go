package dynamodel

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UnionParams holds union-level configuration.
type UnionParams struct {
	// RenameAll is applied to every variant name without an explicit Rename.
	RenameAll RenameRule
	// Tag selects internal tagging: the variant name is stored as a String
	// under this key, next to the variant's own fields. Empty selects
	// external tagging: the variant name is the single outer key.
	Tag string
}

// Union is the codec of a tagged union. U is an interface type; every
// variant type must implement it.
type Union[U any] struct {
	tag      string
	variants []variantPlan
}

// NewUnion builds a union codec. Variant order matters: it is the order in
// which tags are matched on decode. It panics on an invalid declaration.
func NewUnion[U any](params UnionParams, variants ...VariantDef) *Union[U] {
	ut := reflect.TypeOf((*U)(nil)).Elem()
	if ut.Kind() != reflect.Interface {
		panic(NewArgError(fmt.Sprintf("Union type %s must be an interface", ut)).Error())
	}
	u := &Union[U]{tag: params.Tag, variants: make([]variantPlan, 0, len(variants))}
	seen := map[reflect.Type]string{}
	for _, def := range variants {
		p := def.variant(params.RenameAll, params.Tag != "")
		if !p.typ.Implements(ut) {
			panic(NewArgError(fmt.Sprintf("Variant %q: %s does not implement %s", p.ident, p.typ, ut)).Error())
		}
		if prev, ok := seen[p.typ]; ok {
			panic(NewArgError(fmt.Sprintf("Variants %q and %q share the type %s", prev, p.ident, p.typ)).Error())
		}
		seen[p.typ] = p.ident
		u.variants = append(u.variants, p)
	}
	return u
}

// Tags lists the resolved variant tags in declaration order.
func (u *Union[U]) Tags() []string {
	tags := make([]string, len(u.variants))
	for i, p := range u.variants {
		tags[i] = p.name
	}
	return tags
}

// Internal reports whether the union uses internal tagging.
func (u *Union[U]) Internal() bool { return u.tag != "" }

// Encode converts v to an item. It panics when the dynamic type of v is not
// a declared variant.
func (u *Union[U]) Encode(v U) AttributeMap {
	x := any(v)
	for _, p := range u.variants {
		if !p.match(x) {
			continue
		}
		tagValue := &types.AttributeValueMemberS{Value: p.name}
		switch {
		case u.tag != "":
			item := maps.Clone(p.encodeItem(x))
			if item == nil {
				item = AttributeMap{}
			}
			item[u.tag] = tagValue
			return item
		case p.payload:
			return AttributeMap{p.name: p.encodeValue(x)}
		default:
			return AttributeMap{p.name: &types.AttributeValueMemberM{Value: p.encodeItem(x)}}
		}
	}
	panic(fmt.Sprintf("dynamodel: %T is not a variant of %s", x, reflect.TypeOf((*U)(nil)).Elem()))
}

// Decode converts an item to U.
//
// Internally tagged, the tag must be present (FieldNotSet) and a String
// (AttributeValueMismatch); the first variant with that name decodes the
// whole item.
//
// Externally tagged, variants are scanned in declaration order. An absent
// tag key moves on to the next variant; a present one selects the variant,
// and any failure decoding its value is returned as is. VariantNotFound
// means no declared tag key was present at all.
func (u *Union[U]) Decode(item AttributeMap) (U, error) {
	if u.tag != "" {
		return u.decodeInternal(item)
	}
	return u.decodeExternal(item)
}

func (u *Union[U]) decodeInternal(item AttributeMap) (U, error) {
	var zero U
	av, ok := item[u.tag]
	if !ok {
		return zero, FieldNotSet(u.tag)
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return zero, Mismatch(KindString, av)
	}
	for _, p := range u.variants {
		if p.name != s.Value {
			continue
		}
		x, err := p.decodeItem(item, u.tag)
		if err != nil {
			return zero, err
		}
		return x.(U), nil
	}
	return zero, VariantNotFound()
}

func (u *Union[U]) decodeExternal(item AttributeMap) (U, error) {
	var zero U
	for _, p := range u.variants {
		av, ok := item[p.name]
		if !ok {
			continue
		}
		var x any
		var err error
		if p.payload {
			x, err = p.decodeValue(av)
		} else {
			m, isMap := av.(*types.AttributeValueMemberM)
			if !isMap {
				return zero, Mismatch(KindMap, av)
			}
			x, err = p.decodeItem(m.Value, "")
		}
		if err != nil {
			return zero, err
		}
		return x.(U), nil
	}
	return zero, VariantNotFound()
}

// EncodeValue wraps the encoded item in an M attribute, so unions nest.
func (u *Union[U]) EncodeValue(v U) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: u.Encode(v)}
}

// DecodeValue requires an M attribute and decodes its content.
func (u *Union[U]) DecodeValue(av types.AttributeValue) (U, error) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		var zero U
		return zero, Mismatch(KindMap, av)
	}
	return u.Decode(m.Value)
}
