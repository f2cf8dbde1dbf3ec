// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Decode parses a single JSON value from data, preserving object key
// order. Unlike json.Unmarshal into map[string]any, this never loses or
// reorders keys.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("jsonvalue: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				elemTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				v, err := decodeFromToken(dec, elemTok)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(elems), nil
		case '{':
			obj := NewOrderedObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("jsonvalue: object key is not a string")
				}
				valTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				v, err := decodeFromToken(dec, valTok)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return NewObject(obj), nil
		}
	}
	return Value{}, fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

// Encode writes v as a single line of canonical JSON: numbers without
// trailing zeros or unnecessary exponents, strings escaped per JSON,
// object keys in insertion order, no surrounding whitespace.
func Encode(w io.Writer, v Value) error {
	buf := &bytes.Buffer{}
	if err := encodeValue(buf, v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeString returns v rendered as canonical JSON text.
func EncodeString(v Value) string {
	buf := &bytes.Buffer{}
	_ = encodeValue(buf, v)
	return buf.String()
}

// EncodeIndentString renders v as multi-line, two-space-indented JSON,
// the form original_source/src/cmd/state.rs prints a reconstructed
// state as. Archive lines always use the compact EncodeString form;
// this is strictly for human-facing output.
func EncodeIndentString(v Value) string {
	var out bytes.Buffer
	_ = json.Indent(&out, []byte(EncodeString(v)), "", "  ")
	return out.String()
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(formatNumber(v.Num()))
	case KindString:
		encodeString(buf, v.Str())
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Elems() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.Object().Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			val, _ := v.Object().Get(k)
			if err := encodeValue(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonvalue: cannot encode value of kind %s", v.Kind())
	}
	return nil
}

func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		// JSON has no representation for these; archives never
		// produce them since they never round-trip through decode.
		return "null"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodeString(buf *bytes.Buffer, s string) {
	// encoding/json's string quoting is already minimal and correct
	// (handles UTF-8, control characters, and HTML-unsafe runes); reuse
	// it rather than reimplementing JSON string escaping.
	b, _ := json.Marshal(s)
	buf.Write(b)
}
