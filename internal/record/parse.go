package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLineBytes bounds a single record line.
const MaxLineBytes = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseError reports a malformed line. Line is 1-based.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a record in the key<TAB>value text format.
//
// The key ends at the first tab; a line without a tab splits at the first run
// of whitespace instead. The value keeps inner whitespace and loses trailing
// whitespace. Blank lines and lines starting with '#' are skipped. A line
// that starts with whitespace has no key and is an error, as is a repeated key.
func Parse(r io.Reader) (*Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineBytes)

	rec := &Record{}
	firstLine := make(map[string]int)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Bytes()
		if lineNo == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}
		if !utf8.Valid(raw) {
			return nil, &ParseError{Line: lineNo, Msg: "invalid UTF-8"}
		}
		key, value, ok := ParseLine(string(raw))
		if !ok {
			continue
		}
		if key == "" {
			return nil, &ParseError{Line: lineNo, Msg: "missing key"}
		}
		if prev, dup := firstLine[key]; dup {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("duplicate key %q (first seen on line %d)", key, prev)}
		}
		firstLine[key] = lineNo
		rec.Set(key, value)
	}
	if err := sc.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, &ParseError{Line: lineNo + 1, Msg: "line too long"}
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return rec, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Record, error) {
	return Parse(strings.NewReader(s))
}

// ParseLine splits one line into key and value. ok is false for blank and
// comment lines. key is empty when the line starts with whitespace.
func ParseLine(line string) (key, value string, ok bool) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	if len(trimmed) != len(line) {
		return "", trimmed, true
	}
	if k, v, found := strings.Cut(line, "\t"); found {
		return strings.TrimSpace(k), strings.TrimSpace(v), true
	}
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, "", true
	}
	return line[:i], strings.TrimSpace(line[i:]), true
}
