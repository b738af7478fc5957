// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package detect decides whether a document is a raw JSON page: a
// served JSON payload the browser displayed as plain text inside a
// single body > pre element.
//
// Detection applies an ordered policy in which cheap structural checks
// always precede the full parse, and every outcome is reported as a
// Result value. Rejection is the normal case on the open web and is
// never an error.
package detect

import (
	"strings"
	"unicode/utf8"

	"github.com/creachadair/mds/mapset"
	"golang.org/x/net/html"

	"github.com/phoenix-abi/json-formatter-pro-sub002/ast"
	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
)

// DefaultMaxLength is the raw text length bound applied when Detect is
// called with a non-positive maxLength. The bound caps worst-case parse
// and render cost; it says nothing about content validity.
const DefaultMaxLength = 3_000_000

// Notes attached to detection results. Each rejection carries the note
// of the first policy step that failed.
const (
	NoteTitled   = "document.title is contentful"
	NoteTextual  = "textual elements"
	NoteMultiple = "multiple"
	NoteNoPre    = "no body > pre"
	NoteHidden   = "not rendered"
	NoteEmpty    = "no content"
	NoteTooLong  = "too long"
	NoteBadStart = "does not start with { or ["
	NoteBadParse = "does not parse as JSON"
	NoteAccepted = "accepted"
)

// A Result is the outcome of detection. Rejections carry a Note and
// whatever RawLength had been measured when the policy short-circuited;
// acceptances additionally carry the source element and the parsed
// value.
type Result struct {
	Accepted  bool
	Note      string
	RawLength int // rune count of the raw text, or -1 if not yet measured

	// Set only on acceptance.
	Source *html.Node // the candidate body > pre element
	Value  ast.Value  // the parsed payload
}

func rejected(note string, rawLength int) Result {
	return Result{Note: note, RawLength: rawLength}
}

// Tag names of body children that mark a document as prose rather than
// a bare payload dump.
var textualTags = mapset.New("h1", "h2", "h3", "h4", "h5", "h6", "p")

// Detect inspects doc and reports whether it is a raw JSON page. A
// non-positive maxLength selects DefaultMaxLength.
//
// The policy is ordered and short-circuits at the first failure:
// document title, body structure, candidate visibility, content
// presence, length bound, lexical pre-check, full parse. The title
// check always takes precedence over body structure.
func Detect(doc *html.Node, maxLength int) Result {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	if title := documentTitle(doc); title != "" {
		return rejected(NoteTitled, -1)
	}

	pre, note := findCandidate(doc)
	if note != "" {
		return rejected(note, -1)
	}

	if !domutil.Rendered(pre) {
		return rejected(NoteHidden, -1)
	}

	raw := domutil.TextContent(pre)
	if raw == "" {
		return rejected(NoteEmpty, -1)
	}
	rawLength := utf8.RuneCountInString(raw)

	if rawLength > maxLength {
		return rejected(NoteTooLong, rawLength)
	}

	if !startsLikeJSON(raw) {
		return rejected(NoteBadStart, rawLength)
	}

	value, err := ast.ParseString(raw)
	if err != nil {
		return rejected(NoteBadParse, rawLength)
	}

	return Result{
		Accepted:  true,
		Note:      NoteAccepted,
		RawLength: rawLength,
		Source:    pre,
		Value:     value,
	}
}

// documentTitle reports the text of the document's title element, or
// "" if there is none.
func documentTitle(doc *html.Node) string {
	title := domutil.Find(doc, "title")
	if title == nil {
		return ""
	}
	return domutil.TextContent(title)
}

// findCandidate scans the direct children of body for the single
// preformatted payload element. A non-empty note reports why no
// candidate exists.
func findCandidate(doc *html.Node) (*html.Node, string) {
	body := domutil.Find(doc, "body")
	if body == nil {
		return nil, NoteNoPre
	}

	var pres []*html.Node
	textual := false
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if textualTags.Has(c.Data) {
			textual = true
		} else if c.Data == "pre" {
			pres = append(pres, c)
		}
	}

	switch {
	case textual:
		return nil, NoteTextual
	case len(pres) > 1:
		return nil, NoteMultiple
	case len(pres) == 0:
		return nil, NoteNoPre
	}
	return pres[0], ""
}

// startsLikeJSON reports whether the first character of raw, ignoring
// space, tab, CR, and LF, could begin a JSON payload of interest: an
// object, an array, or a bare string.
func startsLikeJSON(raw string) bool {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '{', '[', '"':
		return true
	}
	return false
}
