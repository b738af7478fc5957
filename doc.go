// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package jsonfmt implements the parsing layer of the raw-JSON page
// formatter: a lexical scanner and an event-driven stream parser for
// strict JSON, plus codecs for JSON string quoting.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for strict JSON.
// Construct a scanner from an io.Reader and call its Next method to
// iterate over the stream. Next advances to the next input token and
// returns nil, or reports an error:
//
//	s := jsonfmt.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other
// error indicates an I/O or lexical error in the input.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser. The parser
// works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jsonfmt.SyntaxError is returned.
//
// To parse a single value from the front of the input, call ParseOne.
// This method returns io.EOF if no further values are available. The
// higher layers of the formatter consume exactly one value per
// document; see the ast package.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The
// methods of a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve
// location and type information. The Anchor passed to a handler method
// is only valid for the duration of that method call; the handler must
// copy any data it needs to retain beyond the lifetime of the call.
//
// The parser ensures that corresponding Begin and End methods are
// correctly paired, or that a SyntaxError is reported.
package jsonfmt
