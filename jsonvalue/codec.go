package jsonvalue

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	jsoniter "github.com/json-iterator/go"
)

var (
	compact  = jsoniter.Config{EscapeHTML: false}.Froze()
	indented = jsoniter.Config{EscapeHTML: false, IndentionStep: 2}.Froze()
)

// Parse decodes a single JSON document. Member order and number text are
// preserved. Anything but whitespace after the document is an error.
func Parse(data []byte) (Value, error) {
	// The trailing space ends a top-level number before the end of input,
	// so io.EOF is only ever reported for truncated documents.
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	buf[len(data)] = ' '

	iter := jsoniter.ParseBytes(compact, buf)
	v := read(iter)
	if iter.Error != nil {
		if errors.Is(iter.Error, io.EOF) {
			return Value{}, errors.New("parsing JSON: unexpected end of input")
		}
		return Value{}, fmt.Errorf("parsing JSON: %w", iter.Error)
	}
	iter.WhatIsNext()
	if !errors.Is(iter.Error, io.EOF) {
		return Value{}, errors.New("parsing JSON: unexpected data after top-level value")
	}
	return v, nil
}

// numberText is the JSON number grammar. ReadNumber accepts any run of
// number characters, "1-2" and "--5" included.
var numberText = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func read(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		text := iter.ReadNumber().String()
		if iter.Error == nil && !numberText.MatchString(text) {
			iter.ReportError("read", fmt.Sprintf("invalid number %q", text))
		}
		return Number(text)
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.ArrayValue:
		items := []Value{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, read(it))
			return it.Error == nil
		})
		return Value{kind: KindArray, items: items}
	case jsoniter.ObjectValue:
		members := []Member{}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			members = append(members, Member{Key: key, Value: read(it)})
			return it.Error == nil
		})
		return Value{kind: KindObject, members: members}
	}
	iter.ReportError("read", "expected a JSON value")
	return Null()
}

// Marshal encodes v as compact JSON.
func Marshal(v Value) ([]byte, error) {
	return encode(compact, v)
}

// MarshalIndent encodes v with two-space indentation and a trailing newline.
func MarshalIndent(v Value) ([]byte, error) {
	data, err := encode(indented, v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encode(api jsoniter.API, v Value) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	write(stream, v)
	if stream.Error != nil {
		return nil, fmt.Errorf("encoding JSON: %w", stream.Error)
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func write(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindNull:
		stream.WriteNil()
	case KindBool:
		stream.WriteBool(v.b)
	case KindNumber:
		stream.WriteRaw(v.s)
	case KindString:
		stream.WriteString(v.s)
	case KindArray:
		if len(v.items) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, item := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			write(stream, item)
		}
		stream.WriteArrayEnd()
	case KindObject:
		if len(v.members) == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, m := range v.members {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			write(stream, m.Value)
		}
		stream.WriteObjectEnd()
	}
}
