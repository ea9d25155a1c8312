// main.go - bsondump: a small command-line front end over the bsonview
// decoder, the way modern_demo.go gives the teacher's library a runnable
// demonstration surface.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sort"
	"strings"

	"github.com/bsonview/bsonview"
)

var debug = false

func debugf(format string, args ...interface{}) {
	if debug {
		stdlog.Printf(format, args...)
	}
}

func main() {
	os.Exit(run1())
}

// run1 is the whole program as a testscript-registered command (see
// bsondump_test.go): it reads the process's real argv/stdin/stdout, unlike
// mainRun, which takes them as parameters so tests can substitute their own.
func run1() int {
	return mainRun(os.Args[1:], os.Stdin, os.Stdout)
}

// mainRun holds the whole CLI body; main and the testscript-driven tests in
// bsondump_test.go both reach it through run1.
func mainRun(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("bsondump", flag.ContinueOnError)
	fields := fs.String("fields", "", "comma-separated field names to extract via a partial parse")
	all := fs.Bool("all", false, "eagerly decode and print every field instead of only -fields")
	earlyExit := fs.Bool("early-exit", true, "stop scanning once every -fields target has been found")
	hexInput := fs.Bool("hex", false, "treat the input as hex text (whitespace-tolerant) instead of raw bytes")
	dbg := fs.Bool("debug", false, "log diagnostic decode information to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	debug = *dbg

	path := "-"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	raw, err := readInput(path, stdin)
	if err != nil {
		fmt.Fprintf(stdout, "bsondump: %v\n", err)
		return 1
	}
	if *hexInput {
		raw, err = decodeHex(raw)
		if err != nil {
			fmt.Fprintf(stdout, "bsondump: %v\n", err)
			return 1
		}
	}

	if err := run(stdout, raw, *fields, *all, *earlyExit); err != nil {
		fmt.Fprintf(stdout, "bsondump: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func decodeHex(text []byte) ([]byte, error) {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, string(text))
	return hex.DecodeString(stripped)
}

func run(w io.Writer, buf []byte, fieldList string, all, earlyExit bool) error {
	switch {
	case all:
		debugf("eager parse: %d bytes", len(buf))
		doc, err := bson.Parse(buf)
		if err != nil {
			return err
		}
		return dumpEager(w, doc)

	case fieldList != "":
		names := strings.Split(fieldList, ",")
		debugf("partial parse: fields=%v earlyExit=%v", names, earlyExit)
		matcher := bson.NewFieldMatcher(names, earlyExit)
		doc, err := bson.PartialParse(buf, matcher)
		if err != nil {
			return err
		}
		return dumpEager(w, doc)

	default:
		debugf("indexed parse: %d bytes", len(buf))
		view, err := bson.IndexedParse(buf)
		if err != nil {
			return err
		}
		return dumpIndexed(w, view)
	}
}

func dumpEager(w io.Writer, doc bson.Document) error {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printField(w, name, doc[name])
	}
	return nil
}

func dumpIndexed(w io.Writer, view *bson.IndexedDocument) error {
	names := view.FieldNames()
	sort.Strings(names)
	for _, name := range names {
		val, err := view.Value(name)
		if err != nil {
			fmt.Fprintf(w, "%s: <%v>\n", name, err)
			continue
		}
		printField(w, name, val)
	}
	return nil
}

func printField(w io.Writer, name string, val bson.Value) {
	b, err := val.MarshalJSON()
	if err != nil {
		fmt.Fprintf(w, "%s: <%s: %v>\n", name, val.Type(), err)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", name, b)
}
