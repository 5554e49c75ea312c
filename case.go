package dynamodel

import (
	"strings"
	"unicode"
)

// RenameRule is a naming convention applied to field keys and variant tags.
type RenameRule int

const (
	// None leaves identifiers untouched.
	None RenameRule = iota
	LowerCase
	UpperCase
	PascalCase
	CamelCase
	SnakeCase
	ScreamingSnakeCase
	KebabCase
	ScreamingKebabCase
)

var renameRules = []struct {
	name string
	rule RenameRule
}{
	{"lowercase", LowerCase},
	{"UPPERCASE", UpperCase},
	{"PascalCase", PascalCase},
	{"camelCase", CamelCase},
	{"snake_case", SnakeCase},
	{"SCREAMING_SNAKE_CASE", ScreamingSnakeCase},
	{"kebab-case", KebabCase},
	{"SCREAMING-KEBAB-CASE", ScreamingKebabCase},
}

// ParseRenameRule maps the textual rule names ("camelCase", "kebab-case", ...)
// to a RenameRule.
func ParseRenameRule(s string) (RenameRule, error) {
	for _, r := range renameRules {
		if r.name == s {
			return r.rule, nil
		}
	}
	return None, NewArgError(`Invalid rename_all value "` + s + `". Use one of "lowercase", "UPPERCASE", ` +
		`"PascalCase", "camelCase", "snake_case", "SCREAMING_SNAKE_CASE", "kebab-case" and "SCREAMING-KEBAB-CASE"`)
}

func (r RenameRule) String() string {
	for _, rr := range renameRules {
		if rr.rule == r {
			return rr.name
		}
	}
	return "none"
}

// ApplyToVariant converts a PascalCase variant name.
func (r RenameRule) ApplyToVariant(variant string) string {
	switch r {
	case LowerCase:
		return strings.ToLower(variant)
	case UpperCase:
		return strings.ToUpper(variant)
	case CamelCase:
		if variant == "" {
			return variant
		}
		return strings.ToLower(variant[:1]) + variant[1:]
	case SnakeCase:
		var b strings.Builder
		for i, ch := range variant {
			if i > 0 && unicode.IsUpper(ch) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(ch))
		}
		return b.String()
	case ScreamingSnakeCase:
		return strings.ToUpper(SnakeCase.ApplyToVariant(variant))
	case KebabCase:
		return strings.ReplaceAll(SnakeCase.ApplyToVariant(variant), "_", "-")
	case ScreamingKebabCase:
		return strings.ReplaceAll(ScreamingSnakeCase.ApplyToVariant(variant), "_", "-")
	}
	// None, PascalCase
	return variant
}

// ApplyToField converts a snake_case field name.
func (r RenameRule) ApplyToField(field string) string {
	switch r {
	case UpperCase, ScreamingSnakeCase:
		return strings.ToUpper(field)
	case PascalCase:
		var b strings.Builder
		capitalize := true
		for _, ch := range field {
			switch {
			case ch == '_':
				capitalize = true
			case capitalize:
				b.WriteRune(unicode.ToUpper(ch))
				capitalize = false
			default:
				b.WriteRune(ch)
			}
		}
		return b.String()
	case CamelCase:
		pascal := PascalCase.ApplyToField(field)
		if pascal == "" {
			return pascal
		}
		return strings.ToLower(pascal[:1]) + pascal[1:]
	case KebabCase:
		return strings.ReplaceAll(field, "_", "-")
	case ScreamingKebabCase:
		return strings.ReplaceAll(strings.ToUpper(field), "_", "-")
	}
	// None, LowerCase, SnakeCase
	return field
}
