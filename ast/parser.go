// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"
	"strings"

	jsonfmt "github.com/phoenix-abi/json-formatter-pro-sub002"
)

// ErrEmptyInput is reported by ParseSingle when the input contains no
// JSON value at all.
var ErrEmptyInput = errors.New("empty input")

// ErrTrailingData is reported by ParseSingle when input remains after
// the first complete JSON value.
var ErrTrailingData = errors.New("trailing data after value")

// Parse parses and returns the JSON values from r. In case of error,
// any complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	h := new(parseHandler)
	st := jsonfmt.NewStream(r)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		if len(h.stk) != 1 || h.stk[0].kind != frameValue {
			return vs, errors.New("incomplete value")
		}
		vs = append(vs, h.stk[0].done)
		h.stk = h.stk[:0]
	}
}

// ParseSingle parses exactly one JSON value from r. It is the strict
// adapter used by the page detector: an empty input, a syntax error
// anywhere, or any non-blank input after the first value invalidates
// the whole parse. ParseSingle never panics on malformed input.
func ParseSingle(r io.Reader) (Value, error) {
	h := new(parseHandler)
	st := jsonfmt.NewStream(r)
	if err := st.ParseOne(h); err == io.EOF {
		return nil, ErrEmptyInput
	} else if err != nil {
		return nil, err
	}
	if len(h.stk) != 1 || h.stk[0].kind != frameValue {
		return nil, errors.New("incomplete value")
	}
	v := h.stk[0].done
	h.stk = h.stk[:0]
	if err := st.ParseOne(h); err == nil {
		return nil, ErrTrailingData
	} else if err != io.EOF {
		return nil, err
	}
	return v, nil
}

// ParseString parses exactly one JSON value from s, as ParseSingle.
func ParseString(s string) (Value, error) { return ParseSingle(strings.NewReader(s)) }

// A parseHandler implements the jsonfmt.Handler interface to construct
// abstract syntax trees for JSON values.
//
// Composite values under construction are kept on a stack of builder
// frames; completed values reduce into the frame below them.
type parseHandler struct {
	stk []frame
}

// A frame is a node under construction. Exactly one of obj, mem, or
// arr is set for composite frames; done holds a completed value.
type frame struct {
	obj  Object
	mem  *Member
	arr  Array
	done Value

	kind frameKind
}

type frameKind byte

const (
	frameValue frameKind = iota
	frameObject
	frameMember
	frameArray
)

func (h *parseHandler) push(f frame)  { h.stk = append(h.stk, f) }
func (h *parseHandler) top() *frame   { return &h.stk[len(h.stk)-1] }
func (h *parseHandler) pop() frame    { f := h.stk[len(h.stk)-1]; h.stk = h.stk[:len(h.stk)-1]; return f }
func (h *parseHandler) isEmpty() bool { return len(h.stk) == 0 }

// reduceValue attaches v to the frame atop the stack, or pushes it as
// the root when the stack is empty.
func (h *parseHandler) reduceValue(v Value) error {
	if h.isEmpty() {
		h.push(frame{kind: frameValue, done: v})
		return nil
	}
	switch f := h.top(); f.kind {
	case frameMember:
		f.mem.Value = v
	case frameArray:
		f.arr = append(f.arr, v)
	default:
		return fmt.Errorf("misplaced value %s", v.JSON())
	}
	return nil
}

func (h *parseHandler) BeginObject(loc jsonfmt.Anchor) error {
	h.push(frame{kind: frameObject, obj: Object{}})
	return nil
}

func (h *parseHandler) EndObject(loc jsonfmt.Anchor) error {
	f := h.pop()
	return h.reduceValue(f.obj)
}

func (h *parseHandler) BeginArray(loc jsonfmt.Anchor) error {
	h.push(frame{kind: frameArray})
	return nil
}

func (h *parseHandler) EndArray(loc jsonfmt.Anchor) error {
	f := h.pop()
	return h.reduceValue(f.arr)
}

func (h *parseHandler) BeginMember(loc jsonfmt.Anchor) error {
	key, err := jsonfmt.Unquote(string(loc.Text()))
	if err != nil {
		return fmt.Errorf("invalid member key: %w", err)
	}
	h.push(frame{kind: frameMember, mem: &Member{Key: string(key)}})
	return nil
}

func (h *parseHandler) EndMember(loc jsonfmt.Anchor) error {
	f := h.pop()
	obj := h.top()
	if obj.kind != frameObject {
		return errors.New("member outside object")
	}
	obj.obj = append(obj.obj, f.mem)
	return nil
}

func (h *parseHandler) Value(loc jsonfmt.Anchor) error {
	switch loc.Token() {
	case jsonfmt.String:
		text, err := jsonfmt.Unquote(string(loc.Text()))
		if err != nil {
			return fmt.Errorf("invalid string: %w", err)
		}
		return h.reduceValue(NewString(string(text)))
	case jsonfmt.Integer, jsonfmt.Number:
		return h.reduceValue(NewNumber(string(loc.Copy())))
	case jsonfmt.True:
		return h.reduceValue(Bool(true))
	case jsonfmt.False:
		return h.reduceValue(Bool(false))
	case jsonfmt.Null:
		return h.reduceValue(Null{})
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
}

func (h *parseHandler) EndOfInput(loc jsonfmt.Anchor) {}
