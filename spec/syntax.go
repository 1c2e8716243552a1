package spec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/value"
)

// StyleAttachment says where a line may carry its style token.
type StyleAttachment int

const (
	// AttachBracket is a bracketed suffix of the value token: 0[pink].
	AttachBracket StyleAttachment = iota + 1

	// AttachTrailingWord is the last word of the line: 1 "State 1" undef.
	AttachTrailingWord
)

func (a StyleAttachment) String() string {
	switch a {
	case AttachBracket:
		return "bracket"
	case AttachTrailingWord:
		return "trailing word"
	}
	return "unknown"
}

// Syntax holds every delimiter and rule choice that differs between file formats. One parser serves all of them.
type Syntax struct {
	Name string

	// HeaderSeparator separates a header key from its value.
	HeaderSeparator byte

	// LineComments introduce a comment when they start a line.
	LineComments []string

	// InlineComment introduces a comment anywhere outside quotes. Empty means only whole-line comments exist.
	InlineComment string

	// Quote delimits display text containing whitespace. 0 means the format has no quoting.
	Quote byte

	StyleAttachment StyleAttachment

	Literal value.LiteralOptions

	// Styles resolves style tokens. nil means the default resolver.
	Styles *style.Resolver
}

// Mapping is the format of mapping files:
//
//	Name = opcode
//	Bits = 4
//	# comment
//	0x0 NOP
//	0b1xx1[undef] some undefined state
var Mapping = &Syntax{
	Name:            "mapping",
	HeaderSeparator: '=',
	LineComments:    []string{"#"},
	StyleAttachment: AttachBracket,
	Literal: value.LiteralOptions{
		States:    value.NineState,
		BareRadix: value.Decimal,
	},
}

// Mnemonic is the format of mnemonic files:
//
//	Name: states
//	Bits: 2
//	00 IDLE
//	01 "Busy wait" #ff8000 // comment
var Mnemonic = &Syntax{
	Name:            "mnemonic",
	HeaderSeparator: ':',
	LineComments:    []string{"//", "#"},
	InlineComment:   "//",
	Quote:           '"',
	StyleAttachment: AttachTrailingWord,
	Literal: value.LiteralOptions{
		States:       value.NineState,
		BareRadix:    value.Binary,
		BareFallback: value.Decimal,
	},
}

var syntaxes = []*Syntax{
	Mapping,
	Mnemonic,
}

// SyntaxByName returns a predefined syntax.
func SyntaxByName(name string) (*Syntax, error) {
	for _, s := range syntaxes {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	names := make([]string, len(syntaxes))
	for i, s := range syntaxes {
		names[i] = s.Name
	}
	return nil, fmt.Errorf("unknown syntax %q; available: %v", name, strings.Join(names, ", "))
}

func (s *Syntax) validate() error {
	if s.HeaderSeparator == 0 || isSpace(s.HeaderSeparator) {
		return fmt.Errorf("syntax %v: a header separator must be a visible character", s.Name)
	}
	if s.StyleAttachment != AttachBracket && s.StyleAttachment != AttachTrailingWord {
		return fmt.Errorf("syntax %v: invalid style attachment: %v", s.Name, int(s.StyleAttachment))
	}
	if s.Quote != 0 && (isSpace(s.Quote) || s.Quote == '\\') {
		return fmt.Errorf("syntax %v: invalid quote character %q", s.Name, s.Quote)
	}
	if strings.IndexFunc(s.InlineComment, unicode.IsSpace) >= 0 {
		return fmt.Errorf("syntax %v: an inline comment introducer must not contain white spaces", s.Name)
	}
	for _, c := range s.LineComments {
		if c == "" {
			return fmt.Errorf("syntax %v: a line comment introducer must not be empty", s.Name)
		}
	}
	return nil
}

func (s *Syntax) resolveStyle(token string) (style.Style, error) {
	if s.Styles != nil {
		return s.Styles.Resolve(token)
	}
	return style.Resolve(token)
}

func (s *Syntax) isLineComment(trimmed string) bool {
	for _, c := range s.LineComments {
		if strings.HasPrefix(trimmed, c) {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
