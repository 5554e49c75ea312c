package dynamodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AttributeMap is the wire-level representation of a record: one DynamoDB
// item, or the content of an M attribute.
type AttributeMap = map[string]types.AttributeValue

// Kind names the member of the AttributeValue union.
type Kind string

const (
	KindString    Kind = "String"
	KindNumber    Kind = "Number"
	KindBoolean   Kind = "Boolean"
	KindBinary    Kind = "Binary"
	KindList      Kind = "List"
	KindMap       Kind = "Map"
	KindNull      Kind = "Null"
	KindStringSet Kind = "StringSet"
	KindNumberSet Kind = "NumberSet"
	KindBinarySet Kind = "BinarySet"
	KindUnknown   Kind = "Unknown"
)

// KindOf returns the kind of av. A nil value reports KindUnknown.
func KindOf(av types.AttributeValue) Kind {
	switch av.(type) {
	case *types.AttributeValueMemberS:
		return KindString
	case *types.AttributeValueMemberN:
		return KindNumber
	case *types.AttributeValueMemberBOOL:
		return KindBoolean
	case *types.AttributeValueMemberB:
		return KindBinary
	case *types.AttributeValueMemberL:
		return KindList
	case *types.AttributeValueMemberM:
		return KindMap
	case *types.AttributeValueMemberNULL:
		return KindNull
	case *types.AttributeValueMemberSS:
		return KindStringSet
	case *types.AttributeValueMemberNS:
		return KindNumberSet
	case *types.AttributeValueMemberBS:
		return KindBinarySet
	}
	return KindUnknown
}

// Null returns the NULL attribute value.
func Null() types.AttributeValue {
	return &types.AttributeValueMemberNULL{Value: true}
}

// Describe renders av for error messages, e.g. `Number("42")` or
// `Map{"id": String("x")}`. Map keys are sorted so output is stable.
func Describe(av types.AttributeValue) string {
	var b strings.Builder
	describe(&b, av)
	return b.String()
}

func describe(b *strings.Builder, av types.AttributeValue) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		fmt.Fprintf(b, "String(%q)", v.Value)
	case *types.AttributeValueMemberN:
		fmt.Fprintf(b, "Number(%q)", v.Value)
	case *types.AttributeValueMemberBOOL:
		fmt.Fprintf(b, "Boolean(%t)", v.Value)
	case *types.AttributeValueMemberB:
		fmt.Fprintf(b, "Binary(%d bytes)", len(v.Value))
	case *types.AttributeValueMemberNULL:
		b.WriteString("Null")
	case *types.AttributeValueMemberL:
		b.WriteString("List[")
		for i, e := range v.Value {
			if i > 0 {
				b.WriteString(", ")
			}
			describe(b, e)
		}
		b.WriteString("]")
	case *types.AttributeValueMemberM:
		keys := make([]string, 0, len(v.Value))
		for k := range v.Value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Map{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q: ", k)
			describe(b, v.Value[k])
		}
		b.WriteString("}")
	case *types.AttributeValueMemberSS:
		fmt.Fprintf(b, "StringSet(%q)", v.Value)
	case *types.AttributeValueMemberNS:
		fmt.Fprintf(b, "NumberSet(%q)", v.Value)
	case *types.AttributeValueMemberBS:
		fmt.Fprintf(b, "BinarySet(%d items)", len(v.Value))
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "%T", av)
	}
}
