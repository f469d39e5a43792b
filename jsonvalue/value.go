// Package jsonvalue provides an immutable, ordered representation of JSON
// documents as a tagged variant.
//
// A Value is exactly one of null, boolean, number, string, array or object.
// Objects keep their members in document order so that a payload can be
// rewritten and re-encoded without reshuffling keys. Numbers keep their
// original text ("1.50" stays "1.50").
//
// Code that needs to handle every kind implements Visitor; adding a kind to
// this package adds a method to Visitor, so every implementation fails to
// compile until it handles the new kind.
package jsonvalue

import (
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents or number text
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number from its textual form. The text is emitted
// verbatim by Marshal, so callers must pass a valid JSON number.
func Number(text string) Value { return Value{kind: KindNumber, s: text} }

// Int returns a JSON number holding n.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding items in order.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

// Object returns a JSON object holding members in order. Later members with
// a duplicate key are kept as-is; JSON decoders disagree on which one wins,
// so the encoder writes them all back out.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: append([]Member(nil), members...)}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Len returns the number of elements or members, and 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Get returns the value of the last member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b are deeply equal. Object members are compared
// in order and numbers by their text.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.s == b.s
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
