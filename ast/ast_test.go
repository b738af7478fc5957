// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package ast_test

import (
	"math"
	"strings"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"

	"github.com/phoenix-abi/json-formatter-pro-sub002/ast"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func mustParse(t *testing.T, s string) ast.Value {
	t.Helper()
	v, err := ast.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString: unexpected error: %v", err)
	}
	return v
}

func TestKeyOrder(t *testing.T) {
	v := mustParse(t, testJSON)
	obj, ok := v.(ast.Object)
	if !ok {
		t.Fatalf("Root: got %T, want object", v)
	}

	var keys []string
	for _, m := range obj {
		keys = append(keys, m.Key)
	}
	want := []string{"list", "y", "o", "xyz"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("Key order (-want, +got):\n%s", diff)
	}

	inner, ok := obj.Find("xyz").Value.(ast.Object)
	if !ok {
		t.Fatalf(`Member "xyz": got %T, want object`, obj.Find("xyz").Value)
	}
	keys = keys[:0]
	for _, m := range inner {
		keys = append(keys, m.Key)
	}
	if diff := cmp.Diff([]string{"p", "d", "q"}, keys); diff != "" {
		t.Errorf("Inner key order (-want, +got):\n%s", diff)
	}
}

func TestFind(t *testing.T) {
	obj := mustParse(t, testJSON).(ast.Object)

	if m := obj.Find("o"); m == nil {
		t.Error(`Find "o": not found`)
	} else if a, ok := m.Value.(ast.Array); !ok {
		t.Errorf(`Find "o": got %T, want array`, m.Value)
	} else if a.Len() != 2 {
		t.Errorf(`Find "o": array length %d, want 2`, a.Len())
	}
	if m := obj.Find("nonesuch"); m != nil {
		t.Errorf(`Find "nonesuch": got %v, want nil`, m)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	// Compact re-encoding of a parse preserves structure, order, and
	// the source text of numbers.
	tests := []string{
		`null`,
		`true`,
		`false`,
		`0`,
		`-1.25e-3`,
		`98.6`,
		`"a string"`,
		`""`,
		`[]`,
		`{}`,
		`[1,2,3]`,
		`{"b":1,"a":2}`,
		`{"nest":{"deep":[null,{"x":[]}]}}`,
		`"stringy \"quotes\" and \\ slashes"`,
	}
	for _, tc := range tests {
		v := mustParse(t, tc)
		if got := v.JSON(); got != tc {
			t.Errorf("JSON: got %#q, want %#q", got, tc)
		}
	}
}

func TestParseSingleStrictness(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Blank", "  \n\t "},
		{"Trailing", `{"a":1} {"b":2}`},
		{"TrailingScalar", `[1,2] 3`},
		{"TrailingGarbage", `null x`},
		{"Unbalanced", `{"a":`},
		{"BadSyntax", `{a:1}`},
		{"NotJSON", `not json`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if v, err := ast.ParseSingle(strings.NewReader(tc.input)); err == nil {
				t.Errorf("ParseSingle: got %v, want error", v.JSON())
			} else {
				t.Logf("- [expected]: %v", err)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	vs, err := ast.Parse(strings.NewReader(`{"a":1} [2] "three"`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.JSON())
	}
	want := []string{`{"a":1}`, `[2]`, `"three"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Values (-want, +got):\n%s", diff)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		isInt bool
	}{
		{"0", 0, true},
		{"-5", -5, true},
		{"1200", 1200, true},
		{"0.5", 0.5, false},
		{"-2.5e3", -2500, false},
		{"1E2", 100, false},
	}
	for _, tc := range tests {
		n := mustParse(t, tc.input).(ast.Number)
		if got := n.Float64(); got != tc.want {
			t.Errorf("Float64 %q: got %v, want %v", tc.input, got, tc.want)
		}
		if got := n.IsInt(); got != tc.isInt {
			t.Errorf("IsInt %q: got %v, want %v", tc.input, got, tc.isInt)
		}
	}

	// Literals beyond float64 range are valid JSON and must not panic;
	// they saturate to an infinity.
	if v := ast.NewNumber("1e999").Float64(); !math.IsInf(v, 1) {
		t.Errorf(`Float64 "1e999": got %v, want +Inf`, v)
	}
	if v := ast.NewNumber("-1e999").Float64(); !math.IsInf(v, -1) {
		t.Errorf(`Float64 "-1e999": got %v, want -Inf`, v)
	}

	mtest.MustPanic(t, func() { ast.NewNumber("bogus").Float64() })
}

func TestStringText(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"plain"`, "plain"},
		{`"tab\there"`, "tab\there"},
		{`"\u0041é"`, "Aé"},
		{`"slash\/ok"`, "slash/ok"},
	}
	for _, tc := range tests {
		s := mustParse(t, tc.input).(ast.String)
		if got := s.Text(); got != tc.want {
			t.Errorf("Text %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}
