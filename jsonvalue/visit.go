package jsonvalue

import (
	"strconv"
	"strings"
)

// Visitor handles each kind of Value. Array and Object receive the raw
// children; recursing into them is up to the visitor.
type Visitor[T any] interface {
	Null() T
	Bool(b bool) T
	Number(text string) T
	String(s string) T
	Array(items []Value) T
	Object(members []Member) T
}

// Visit dispatches v to the matching Visitor method.
func Visit[T any](v Value, vis Visitor[T]) T {
	switch v.kind {
	case KindBool:
		return vis.Bool(v.b)
	case KindNumber:
		return vis.Number(v.s)
	case KindString:
		return vis.String(v.s)
	case KindArray:
		return vis.Array(v.items)
	case KindObject:
		return vis.Object(v.members)
	}
	return vis.Null()
}

// stringMapper rebuilds a tree, replacing string leaves.
type stringMapper struct {
	fn func(string) string
}

func (m stringMapper) Null() Value { return Null() }
func (m stringMapper) Bool(b bool) Value { return Bool(b) }
func (m stringMapper) Number(text string) Value { return Number(text) }
func (m stringMapper) String(s string) Value { return String(m.fn(s)) }

func (m stringMapper) Array(items []Value) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Visit[Value](item, m)
	}
	return Value{kind: KindArray, items: out}
}

func (m stringMapper) Object(members []Member) Value {
	out := make([]Member, len(members))
	for i, mem := range members {
		out[i] = Member{Key: mem.Key, Value: Visit[Value](mem.Value, m)}
	}
	return Value{kind: KindObject, members: out}
}

// MapStrings returns a copy of v with fn applied to every string leaf.
// Object keys are not passed to fn. v itself is left untouched.
func MapStrings(v Value, fn func(string) string) Value {
	return Visit[Value](v, stringMapper{fn: fn})
}

// Walk calls fn for every string leaf of v in document order. The path uses
// "$" for the root, ".key" for object members and "[i]" for array elements;
// keys that are not plain identifiers are quoted (`$["a b"]`).
func Walk(v Value, fn func(path, s string)) {
	walk(v, "$", fn)
}

func walk(v Value, path string, fn func(path, s string)) {
	switch v.kind {
	case KindString:
		fn(path, v.s)
	case KindArray:
		for i, item := range v.items {
			walk(item, path+"["+strconv.Itoa(i)+"]", fn)
		}
	case KindObject:
		for _, m := range v.members {
			walk(m.Value, path+memberPath(m.Key), fn)
		}
	}
}

func memberPath(key string) string {
	if isIdent(key) {
		return "." + key
	}
	return "[" + strconv.Quote(key) + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0
}
