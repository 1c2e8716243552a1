package spec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/value"
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type RootNode struct {
	Name    *HeaderNode
	Bits    *HeaderNode
	Entries []*EntryNode
}

type HeaderNode struct {
	Key   string
	Value string

	// Num is the value of a Bits header.
	Num int

	Pos Position
}

type EntryNode struct {
	// Literal is the value token as written.
	Literal string

	// Value has the width of the literal. The table builder extends it.
	Value value.Value

	Label string
	Style style.Style
	Pos   Position

	// Line is the source line the entry was read from.
	Line string
}

const (
	headerKeyName = "name"
	headerKeyBits = "bits"
)

const maxLineLen = 1024 * 1024

func raiseSyntaxError(err error, pos Position, content string) {
	panic(verr.FromError(err, pos.Row, pos.Col, content))
}

// Parse reads a whole file written in syn. Any error is a *verr.SpecError and no partial result is returned.
func Parse(src io.Reader, syn *Syntax) (*RootNode, error) {
	p, err := newParser(syn)
	if err != nil {
		return nil, err
	}
	return p.parse(src)
}

type parser struct {
	syn         *Syntax
	lex         *lineLexer
	root        *RootNode
	contentSeen bool
}

func newParser(syn *Syntax) (*parser, error) {
	if syn == nil {
		return nil, errors.New("a syntax is required")
	}
	if err := syn.validate(); err != nil {
		return nil, err
	}
	lex, err := newLineLexer(syn)
	if err != nil {
		return nil, err
	}
	return &parser{
		syn:  syn,
		lex:  lex,
		root: &RootNode{},
	}, nil
}

func (p *parser) parse(src io.Reader) (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			root = nil
			retErr = specErr
		}
	}()

	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	row := 0
	for s.Scan() {
		row++
		p.parseLine(s.Text(), row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("cannot read the source: %w", err)
	}

	return p.root, nil
}

func (p *parser) parseLine(line string, row int) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || p.syn.isLineComment(trimmed) {
		return
	}

	fields, end, err := p.lex.run(line)
	if err != nil {
		var quoteErr *unclosedQuoteError
		if errors.As(err, &quoteErr) {
			raiseSyntaxError(synErrUnclosedQuote, newPosition(row, quoteErr.offset+1), line)
		}
		raiseSyntaxError(verr.Detail(verr.ErrMalformedLine, "%v", err), newPosition(row, 0), line)
	}
	if len(fields) == 0 {
		// The line holds only a comment.
		return
	}

	if !p.contentSeen {
		content := strings.TrimSpace(line[fields[0].start:end])
		if key, val, ok := p.splitHeader(content); ok {
			p.parseHeader(key, val, newPosition(row, fields[0].col()), line)
			return
		}
		p.contentSeen = true
	}

	p.root.Entries = append(p.root.Entries, p.parseEntry(line, fields, row))
}

// splitHeader recognizes `<key> <separator> <value>`. Keys are case-insensitive.
func (p *parser) splitHeader(content string) (key string, val string, ok bool) {
	for _, k := range []string{headerKeyName, headerKeyBits} {
		if len(content) < len(k) || !strings.EqualFold(content[:len(k)], k) {
			continue
		}
		rest := strings.TrimLeft(content[len(k):], " \t")
		if rest == "" || rest[0] != p.syn.HeaderSeparator {
			continue
		}
		return k, strings.TrimSpace(rest[1:]), true
	}
	return "", "", false
}

func (p *parser) parseHeader(key, val string, pos Position, line string) {
	switch key {
	case headerKeyName:
		if p.root.Name != nil {
			raiseSyntaxError(synErrDuplicateName, pos, line)
		}
		if q := p.syn.Quote; q != 0 && len(val) >= 2 && val[0] == q && val[len(val)-1] == q {
			val = unescape(val[1 : len(val)-1])
		}
		if val == "" {
			raiseSyntaxError(synErrEmptyName, pos, line)
		}
		p.root.Name = &HeaderNode{
			Key:   key,
			Value: val,
			Pos:   pos,
		}
	case headerKeyBits:
		if p.root.Bits != nil {
			raiseSyntaxError(synErrDuplicateBits, pos, line)
		}
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 || strings.HasPrefix(val, "+") {
			raiseSyntaxError(verr.Detail(synErrNonPositiveBits.Cause, "%v: %q", synErrNonPositiveBits.Detail, val), pos, line)
		}
		p.root.Bits = &HeaderNode{
			Key:   key,
			Value: val,
			Num:   n,
			Pos:   pos,
		}
	}
}

func (p *parser) parseEntry(line string, fields []*field, row int) *EntryNode {
	valField := fields[0]
	valTok := line[valField.start:valField.end]
	st := style.Default

	if p.syn.StyleAttachment == AttachBracket {
		if i := strings.IndexByte(valTok, '['); i >= 0 {
			if !strings.HasSuffix(valTok, "]") {
				raiseSyntaxError(synErrUnclosedStyle, newPosition(row, valField.start+i+1), line)
			}
			styleTok := valTok[i+1 : len(valTok)-1]
			if styleTok == "" {
				raiseSyntaxError(synErrEmptyStyle, newPosition(row, valField.start+i+1), line)
			}
			var err error
			st, err = p.syn.resolveStyle(styleTok)
			if err != nil {
				raiseSyntaxError(err, newPosition(row, valField.start+i+2), line)
			}
			valTok = valTok[:i]
		}
	}

	v, err := value.ParseLiteral(valTok, p.syn.Literal)
	if err != nil {
		raiseSyntaxError(err, newPosition(row, valField.col()), line)
	}

	rest := fields[1:]
	if len(rest) == 0 {
		raiseSyntaxError(synErrMissingLabel, newPosition(row, valField.end+1), line)
	}

	var label string
	if p.syn.StyleAttachment == AttachTrailingWord {
		// The display text is one word or a quoted text, and the only word allowed after it is a style.
		label = rest[0].text
		if label == "" {
			raiseSyntaxError(synErrEmptyLabel, newPosition(row, rest[0].col()), line)
		}
		rest = rest[1:]
		if len(rest) > 0 {
			st, err = p.syn.resolveStyle(rest[0].text)
			if err != nil {
				raiseSyntaxError(err, newPosition(row, rest[0].col()), line)
			}
		}
		if len(rest) > 1 {
			raiseSyntaxError(synErrTextAfterStyle, newPosition(row, rest[1].col()), line)
		}
	} else {
		label = line[rest[0].start:rest[len(rest)-1].end]
	}

	return &EntryNode{
		Literal: valTok,
		Value:   v,
		Label:   label,
		Style:   st,
		Pos:     newPosition(row, valField.col()),
		Line:    line,
	}
}
