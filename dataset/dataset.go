// Package dataset reads labeled sparse examples in the text line format
//
//	<label> <index>:<value> <index>:<value> ...
//
// where label is +1 or -1. Lines starting with '#' are comments.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/n0madic/go-cw/cw"
	"github.com/pkg/errors"
)

const (
	commentPrefix = '#'
	maxLineSize   = 64 << 20
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports a line that cannot be decoded into an example.
type ParseError struct {
	Line   int    // 1-based line number, 0 when parsing a single line
	Reason string // what was wrong
	Text   string // offending token
}

func (e *ParseError) Error() string {
	msg := "parse error: " + e.Reason
	if e.Text != "" {
		msg += fmt.Sprintf(" %q", e.Text)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line:%d", e.Line)
	}
	return msg
}

// Is makes errors.Is(err, ErrParse) hold for any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ParseLine decodes a single non-comment line.
func ParseLine(line string) (cw.Example, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return cw.Example{}, &ParseError{Reason: "no label"}
	}

	label, err := strconv.Atoi(fields[0])
	if err != nil {
		return cw.Example{}, &ParseError{Reason: "no label", Text: fields[0]}
	}
	if !cw.Label(label).Valid() {
		return cw.Example{}, &ParseError{Reason: "label is not +1 nor -1", Text: fields[0]}
	}

	fv := make(cw.FeatureVector, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		f, err := parseFeature(tok)
		if err != nil {
			return cw.Example{}, err
		}
		fv = append(fv, f)
	}

	return cw.Example{Features: fv, Label: cw.Label(label)}, nil
}

func parseFeature(tok string) (cw.Feature, error) {
	idxStr, valStr, ok := strings.Cut(tok, ":")
	if !ok {
		return cw.Feature{}, &ParseError{Reason: "feature is not index:value", Text: tok}
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return cw.Feature{}, &ParseError{Reason: "bad feature index", Text: tok}
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return cw.Feature{}, &ParseError{Reason: "bad feature value", Text: tok}
	}

	return cw.Feature{Index: idx, Value: val}, nil
}

// Scanner streams examples from a reader, skipping comments and blank lines.
type Scanner struct {
	sc   *bufio.Scanner
	line int
	ex   cw.Example
	err  error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Next advances to the next example. It returns false at EOF or on the
// first error; Err distinguishes the two.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	for s.sc.Scan() {
		s.line++
		text := s.sc.Text()
		if len(text) > 0 && text[0] == commentPrefix {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		ex, err := ParseLine(text)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = s.line
			}
			s.err = err
			return false
		}
		s.ex = ex
		return true
	}

	if err := s.sc.Err(); err != nil {
		s.err = fmt.Errorf("%w: reading after line %d: %w", cw.ErrIO, s.line, err)
	}
	return false
}

// Example returns the example read by the last successful Next.
func (s *Scanner) Example() cw.Example {
	return s.ex
}

// Line returns the 1-based number of the last line read.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first error encountered, nil at a clean EOF.
func (s *Scanner) Err() error {
	return s.err
}

// Read parses every example in r. On failure nothing read so far is returned.
func Read(r io.Reader) ([]cw.Example, error) {
	var examples []cw.Example
	s := NewScanner(r)
	for s.Next() {
		examples = append(examples, s.Example())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return examples, nil
}

// ReadFile parses every example in the file at path.
func ReadFile(path string) ([]cw.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %w", cw.ErrIO, path, err)
	}
	defer f.Close()

	examples, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return examples, nil
}
