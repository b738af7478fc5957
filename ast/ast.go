// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package ast defines immutable syntax trees for JSON values, and a
// parser that constructs syntax trees from JSON source.
//
// The tree is the value handed from the detector to the renderer:
// object members keep their original insertion order, and numbers and
// strings retain enough of their source form for an exact round trip.
package ast

import (
	"errors"
	"strconv"
	"strings"

	jsonfmt "github.com/phoenix-abi/json-formatter-pro-sub002"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON renders the value as compact JSON text.
	JSON() string
}

// Null represents the JSON null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Bool is a JSON Boolean constant.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// Value reports the truth value of b.
func (b Bool) Value() bool { return bool(b) }

// A Number is a JSON number. The original source text is retained, so
// re-encoding a parsed document does not perturb its numbers.
type Number struct {
	text string
}

// NewNumber constructs a Number from its JSON source text. The text is
// not validated; it is the caller's responsibility to provide a valid
// JSON number literal.
func NewNumber(text string) Number { return Number{text: text} }

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }

// Float64 reports the value of n as a float64. A literal whose
// magnitude exceeds the range of a float64 is valid JSON; it saturates
// to an infinity (or to zero on underflow) rather than failing.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(err)
	}
	return v
}

// IsInt reports whether n is an integer literal, without fraction or
// exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(n.text, ".eE") }

// A String is a JSON string value, stored unescaped.
type String struct {
	text string
}

// NewString constructs a String from its plain (unescaped) text.
func NewString(text string) String { return String{text: text} }

// JSON satisfies the Value interface.
func (s String) JSON() string { return jsonfmt.Quote(s.text) }

// Text reports the plain (unescaped) text of s.
func (s String) Text() string { return s.text }

// Len reports the length in bytes of the plain text of s.
func (s String) Len() int { return len(s.text) }

// An Array is an ordered sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// A Member is a single key-value pair belonging to an Object. The key
// is stored unescaped.
type Member struct {
	Key   string
	Value Value
}

// JSON satisfies the Value interface.
func (m *Member) JSON() string { return jsonfmt.Quote(m.Key) + ":" + m.Value.JSON() }

// An Object is an ordered collection of key-value members.
type Object []*Member

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}
