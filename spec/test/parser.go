package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nihei9/wavelabel/value"
)

// Input is a value a test case feeds into a table.
type Input struct {
	Literal string
	Value   value.Value

	// Row is the line of the input in the test case file.
	Row int
}

// TestCase pairs input values with the labels a table must translate them into.
//
//	description
//	---
//	0x1
//	0bxx
//	---
//	LOAD
//	xx
//
// Blank lines in the second and third parts are ignored.
type TestCase struct {
	Description string
	Inputs      []*Input
	Expected    []string
}

// ParseTestCase reads a test case. opts configures how input literals are read and should be the literal options
// of the syntax the table was written in.
func ParseTestCase(r io.Reader, opts value.LiteralOptions) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	inputOffset := parts[0].lineCount + 1
	var inputs []*Input
	for i, line := range parts[1].lines() {
		lit := strings.TrimSpace(line)
		if lit == "" {
			continue
		}
		row := inputOffset + i + 1
		v, err := value.ParseLiteral(lit, opts)
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", row, err)
		}
		inputs = append(inputs, &Input{
			Literal: lit,
			Value:   v,
			Row:     row,
		})
	}

	var expected []string
	for _, line := range parts[2].lines() {
		label := strings.TrimSpace(line)
		if label == "" {
			continue
		}
		expected = append(expected, label)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("a test case needs at least one input")
	}
	if len(inputs) != len(expected) {
		return nil, fmt.Errorf("the number of inputs and expected labels must be the same: %v inputs, %v labels", len(inputs), len(expected))
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Inputs:      inputs,
		Expected:    expected,
	}, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func (p *testCasePart) lines() []string {
	if len(p.buf) == 0 {
		return nil
	}
	return strings.Split(string(p.buf), "\n")
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
