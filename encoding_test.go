// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package jsonfmt_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonfmt "github.com/phoenix-abi/json-formatter-pro-sub002"
)

func TestQuoteRoundTrip(t *testing.T) {
	// Escaping then unescaping the displayed text must recover the
	// original value exactly, for any string the renderer can see.
	tests := []string{
		"",
		"plain text",
		`quo"ted`,
		`back\slash`,
		"new\nline",
		"tab\tand\rreturn",
		"\x00\x01\x1f",
		"\b\f",
		"ünïcödé ✓ 日本語",
		"mixed \"q\" and \\ and \n",
		"\u2028\u2029",
		"\ufffd",
		"ends with backslash \\",
		"http://example.com/a?b=c&d=e",
	}
	for _, tc := range tests {
		quoted := jsonfmt.Quote(tc)
		back, err := jsonfmt.Unquote(quoted)
		if err != nil {
			t.Errorf("Unquote %#q: unexpected error: %v", quoted, err)
			continue
		}
		if diff := cmp.Diff(tc, string(back)); diff != "" {
			t.Errorf("Round trip of %#q (-want, +got):\n%s", tc, diff)
		}
	}
}

func TestQuoteForm(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"a", `"a"`},
		{"a\tb", `"a\tb"`},
		{"new\nline", `"new\nline"`},
		{`say "when"`, `"say \"when\""`},
		{`C:\path`, `"C:\\path"`},
		{"\x01", `"\u0001"`},
		{"\u2028", `"\u2028"`},
	}
	for _, tc := range tests {
		if got := jsonfmt.Quote(tc.input); got != tc.want {
			t.Errorf("Quote %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	tests := []string{
		``,          // no quotes at all
		`"`,         // missing close quote
		`no quotes`, // no quotes at all
		`"open`,     // missing close quote
		`"trail\"`,  // escape swallows the close quote
		`"bad\u00"`, // incomplete Unicode escape
	}
	for _, tc := range tests {
		if out, err := jsonfmt.Unquote(tc); err == nil {
			t.Errorf("Unquote %#q: got %#q, want error", tc, string(out))
		}
	}
}
