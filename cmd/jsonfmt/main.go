// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Command jsonfmt runs the raw-JSON page formatter pipeline over a
// document and writes the result.
//
// The input is an HTML document, or a bare JSON payload (with --json or
// a .json extension) which is wrapped in the minimal document a browser
// would display it as. Detection, rendering, virtualization, and
// accessibility binding run exactly as they would in the page host; on
// acceptance the formatted tree is appended to the document body
// alongside the raw view, and the whole document is written out.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/tailscale/hujson"
	"golang.org/x/net/html"

	"github.com/phoenix-abi/json-formatter-pro-sub002/a11y"
	"github.com/phoenix-abi/json-formatter-pro-sub002/detect"
	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
	"github.com/phoenix-abi/json-formatter-pro-sub002/render"
	"github.com/phoenix-abi/json-formatter-pro-sub002/virt"
)

// CLI defines the command-line interface.
var CLI struct {
	Input     string `arg:"" optional:"" help:"Input file. Reads stdin when omitted or \"-\"." type:"path"`
	Output    string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	JSON      bool   `help:"Treat the input as a bare JSON payload rather than an HTML document." short:"j"`
	Relaxed   bool   `help:"With --json, standardize comments and trailing commas before the strict pipeline." short:"r"`
	MaxLength int    `help:"Maximum raw text length accepted by detection. 0 selects the default." default:"0"`
	EmitJSON  bool   `help:"On acceptance, print the parsed value re-encoded as compact JSON instead of HTML." short:"e"`
	Threshold int    `help:"Child count above which composites render lazily." default:"100"`
	Version   bool   `help:"Show version information." short:"v"`
}

const version = "0.3.1"

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonfmt"),
		kong.Description("Format a raw JSON page as a collapsible tree view"),
		kong.UsageOnError(),
	)
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if CLI.Version {
		fmt.Printf("jsonfmt version %s\n", version)
		return
	}

	switch err := run(); {
	case err == nil:
	case err == errRejected:
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "jsonfmt: %v\n", err)
		os.Exit(1)
	}
}

// errRejected marks a clean policy rejection: the input is simply not
// a raw JSON page, which is not a failure of the tool.
var errRejected = fmt.Errorf("not a raw JSON page")

func run() error {
	data, err := readInput()
	if err != nil {
		return err
	}

	doc, err := buildDocument(data)
	if err != nil {
		return err
	}

	res := detect.Detect(doc, CLI.MaxLength)
	if !res.Accepted {
		fmt.Fprintf(os.Stderr, "jsonfmt: rejected: %s\n", res.Note)
		return errRejected
	}

	if CLI.EmitJSON {
		return writeOutput([]byte(res.Value.JSON() + "\n"))
	}

	renderer := render.New()
	renderer.SetThreshold(CLI.Threshold)
	root := renderer.Render(res.Value)

	// Attach the formatted tree next to the raw view, then let the
	// virtualizer run to completion: a file has no viewport to wait for.
	container := domutil.Element("div")
	domutil.SetAttr(container, "id", "jsonFormatterParsed")
	container.AppendChild(root.Entry)
	res.Source.Parent.AppendChild(container)

	loop := virt.NewLoop()
	v := virt.New(loop)
	v.Start(root)
	loop.RunUntilIdle()

	a11y.Bind(container)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	buf.WriteByte('\n')
	return writeOutput(buf.Bytes())
}

// readInput loads the input file, or stdin when none is named.
func readInput() ([]byte, error) {
	if CLI.Input == "" || CLI.Input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(CLI.Input)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// buildDocument parses the input as HTML, or wraps a bare JSON payload
// in the document a browser displays for a served JSON response: empty
// title, a single body > pre holding the text.
func buildDocument(data []byte) (*html.Node, error) {
	if !jsonInput() {
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse input document: %w", err)
		}
		return doc, nil
	}

	if CLI.Relaxed {
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("standardize input: %w", err)
		}
		data = std
	}

	doc := &html.Node{Type: html.DocumentNode}
	root := domutil.Element("html")
	head := domutil.Element("head")
	head.AppendChild(domutil.Element("title"))
	body := domutil.Element("body")
	pre := domutil.Element("pre")
	pre.AppendChild(domutil.Text(string(data)))
	body.AppendChild(pre)
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc, nil
}

func jsonInput() bool {
	return CLI.JSON || strings.HasSuffix(strings.ToLower(CLI.Input), ".json")
}

// writeOutput writes the result to the output file or stdout.
func writeOutput(out []byte) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, out, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err := os.Stdout.Write(out)
	return err
}
