/*
Package dynamodel – expression builder.

Builds the condition and projection expressions for Collection commands,
using #_N placeholders for attribute names.
*/
package dynamodel

import (
	"fmt"
	"strings"
)

// expression accumulates the expression parts of a single command.
type expression struct {
	conditions []string
	project    []string

	names    map[string]string // ExpressionAttributeNames index → name
	namesMap map[string]int    // name → index (dedup)
	nindex   int
}

func newExpression() *expression {
	return &expression{names: map[string]string{}, namesMap: map[string]int{}}
}

// addName registers an attribute name and returns its placeholder index.
func (e *expression) addName(name string) int {
	if idx, ok := e.namesMap[name]; ok {
		return idx
	}
	idx := e.nindex
	e.nindex++
	e.names[fmt.Sprintf("#_%d", idx)] = name
	e.namesMap[name] = idx
	return idx
}

// addExists adds attribute_exists / attribute_not_exists conditions on the
// key attributes. nil adds nothing.
func (e *expression) addExists(keys []string, exists *bool) {
	if exists == nil {
		return
	}
	fn := "attribute_not_exists"
	if *exists {
		fn = "attribute_exists"
	}
	for _, k := range keys {
		e.conditions = append(e.conditions, fmt.Sprintf("%s(#_%d)", fn, e.addName(k)))
	}
}

// addProjection projects the given attribute names.
func (e *expression) addProjection(names []string) {
	for _, n := range names {
		e.project = append(e.project, fmt.Sprintf("#_%d", e.addName(n)))
	}
}

func (e *expression) condition() *string {
	if len(e.conditions) == 0 {
		return nil
	}
	s := e.and(e.conditions)
	return &s
}

func (e *expression) projection() *string {
	if len(e.project) == 0 {
		return nil
	}
	s := strings.Join(e.project, ", ")
	return &s
}

func (e *expression) attributeNames() map[string]string {
	if len(e.names) == 0 {
		return nil
	}
	return e.names
}

func (e *expression) and(terms []string) string {
	if len(terms) == 1 {
		return terms[0]
	}
	return "(" + strings.Join(terms, ") and (") + ")"
}
