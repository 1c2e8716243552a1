package spec

import (
	"strings"
	"testing"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	name := func(v string, row int) *HeaderNode {
		return &HeaderNode{
			Key:   headerKeyName,
			Value: v,
			Pos:   newPosition(row, 1),
		}
	}
	bits := func(n int, row int) *HeaderNode {
		return &HeaderNode{
			Key: headerKeyBits,
			Num: n,
			Pos: newPosition(row, 1),
		}
	}
	entry := func(digits string, label string, row int) *EntryNode {
		return &EntryNode{
			Value: value.MustFromString(digits),
			Label: label,
			Style: style.Default,
			Pos:   newPosition(row, 1),
		}
	}
	withStyle := func(e *EntryNode, s style.Style) *EntryNode {
		e.Style = s
		return e
	}

	tests := []struct {
		caption string
		syn     *Syntax
		src     string
		ast     *RootNode
		cause   error
		row     int
		col     int
	}{
		{
			caption: "a mapping file with both headers",
			syn:     Mapping,
			src: `Name = opcode
Bits = 4
0 NOP
0x1 LOAD
0b10 STORE
`,
			ast: &RootNode{
				Name: name("opcode", 1),
				Bits: bits(4, 2),
				Entries: []*EntryNode{
					entry("0", "NOP", 3),
					entry("1", "LOAD", 4),
					entry("10", "STORE", 5),
				},
			},
		},
		{
			caption: "headers may appear in either order and keys are case-insensitive",
			syn:     Mapping,
			src: `BITS=8
name=Opcode Table
0 NOP
`,
			ast: &RootNode{
				Name: name("Opcode Table", 2),
				Bits: bits(8, 1),
				Entries: []*EntryNode{
					entry("0", "NOP", 3),
				},
			},
		},
		{
			caption: "blank lines and comments do not disqualify headers",
			syn:     Mapping,
			src: `
# a comment

Bits = 2
   # another comment
Name = x
1 one
`,
			ast: &RootNode{
				Name: name("x", 6),
				Bits: bits(2, 4),
				Entries: []*EntryNode{
					entry("1", "one", 7),
				},
			},
		},
		{
			caption: "headers are optional",
			syn:     Mapping,
			src: `3 three
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					entry("11", "three", 1),
				},
			},
		},
		{
			caption: "a mapping label runs to the end of the line and may contain #",
			syn:     Mapping,
			src:     "0x5  Load  word #2  \n",
			ast: &RootNode{
				Entries: []*EntryNode{
					entry("101", "Load  word #2", 1),
				},
			},
		},
		{
			caption: "a mapping style is a bracketed suffix of the value",
			syn:     Mapping,
			src: `0b1xx1[undef] some undefined state
0[pink] zero
1[#00ff00] one
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					withStyle(entry("1xx1", "some undefined state", 1), style.Style{Kind: style.KindUndef}),
					withStyle(entry("0", "zero", 2), style.Custom(style.RGB{R: 255, G: 192, B: 203})),
					withStyle(entry("1", "one", 3), style.Custom(style.RGB{R: 0, G: 255, B: 0})),
				},
			},
		},
		{
			caption: "a trailing word is a part of a mapping label",
			syn:     Mapping,
			src: `1 one undef
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					entry("1", "one undef", 1),
				},
			},
		},
		{
			caption: "a mnemonic file with a quoted label, a style and a trailing comment",
			syn:     Mnemonic,
			src: `Name: states
Bits: 2
// comment
1 "State 1" undef // trailing
`,
			ast: &RootNode{
				Name: name("states", 1),
				Bits: bits(2, 2),
				Entries: []*EntryNode{
					withStyle(entry("1", "State 1", 4), style.Style{Kind: style.KindUndef}),
				},
			},
		},
		{
			caption: "bare mnemonic literals are binary and fall back to decimal",
			syn:     Mnemonic,
			src: `10 two
7 seven
0x1f hex
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					entry("10", "two", 1),
					entry("111", "seven", 2),
					entry("11111", "hex", 3),
				},
			},
		},
		{
			caption: "unquoted mnemonic text is one word and may be followed by a style",
			syn:     Mnemonic,
			src: `00 Busy #ff8000
01 Wait
10 Bed weak
11 weak
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					withStyle(entry("00", "Busy", 1), style.Custom(style.RGB{R: 0xff, G: 0x80, B: 0})),
					entry("01", "Wait", 2),
					withStyle(entry("10", "Bed", 3), style.Style{Kind: style.KindWeak}),
					entry("11", "weak", 4),
				},
			},
		},
		{
			caption: "a quoted mnemonic name is unquoted",
			syn:     Mnemonic,
			src: `Name: "my states" // comment
1 one
`,
			ast: &RootNode{
				Name: name("my states", 1),
				Entries: []*EntryNode{
					entry("1", "one", 2),
				},
			},
		},
		{
			caption: "a mnemonic line without a style has the default style",
			syn:     Mnemonic,
			src: `0bxz "x or z"
`,
			ast: &RootNode{
				Entries: []*EntryNode{
					entry("xz", "x or z", 1),
				},
			},
		},
		{
			caption: "a header after a content line is a content line",
			syn:     Mapping,
			src: `0 zero
Bits = 4
`,
			cause: verr.ErrMalformedLiteral,
			row:   2,
			col:   1,
		},
		{
			caption: "Name cannot be declared twice",
			syn:     Mapping,
			src: `Name = a
Name = b
`,
			cause: verr.ErrMalformedHeader,
			row:   2,
			col:   1,
		},
		{
			caption: "Bits cannot be declared twice",
			syn:     Mnemonic,
			src: `Bits: 2
Bits: 2
`,
			cause: verr.ErrMalformedHeader,
			row:   2,
			col:   1,
		},
		{
			caption: "Bits must be a number",
			syn:     Mapping,
			src: `Bits = four
`,
			cause: verr.ErrMalformedHeader,
			row:   1,
			col:   1,
		},
		{
			caption: "Bits must be positive",
			syn:     Mapping,
			src: `Bits = 0
`,
			cause: verr.ErrMalformedHeader,
			row:   1,
			col:   1,
		},
		{
			caption: "Name must not be empty",
			syn:     Mapping,
			src: `Name =
`,
			cause: verr.ErrMalformedHeader,
			row:   1,
			col:   1,
		},
		{
			caption: "a value needs a label",
			syn:     Mapping,
			src: `0x1
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   4,
		},
		{
			caption: "a quote must be closed",
			syn:     Mnemonic,
			src: `1 "State 1
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   3,
		},
		{
			caption: "a quoted label must not be empty",
			syn:     Mnemonic,
			src: `1 ""
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   3,
		},
		{
			caption: "only a style may follow a quoted label",
			syn:     Mnemonic,
			src: `1 "State 1" sparkly
`,
			cause: verr.ErrUnknownStyle,
			row:   1,
			col:   13,
		},
		{
			caption: "the word after an unquoted mnemonic label must be a style",
			syn:     Mnemonic,
			src: `0 ALU add
`,
			cause: verr.ErrUnknownStyle,
			row:   1,
			col:   7,
		},
		{
			caption: "a misspelled style is reported",
			syn:     Mnemonic,
			src: `1 IDLE undeff
`,
			cause: verr.ErrUnknownStyle,
			row:   1,
			col:   8,
		},
		{
			caption: "a quoted text after an unquoted mnemonic label is not a style",
			syn:     Mnemonic,
			src: `1 a "b c"
`,
			cause: verr.ErrUnknownStyle,
			row:   1,
			col:   5,
		},
		{
			caption: "nothing may follow the style of a quoted label",
			syn:     Mnemonic,
			src: `1 "State 1" undef weak
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   19,
		},
		{
			caption: "nothing may follow the style of an unquoted label",
			syn:     Mnemonic,
			src: `1 IDLE undef // comment
0 BUSY weak extra
`,
			cause: verr.ErrMalformedLine,
			row:   2,
			col:   13,
		},
		{
			caption: "a bracketed style must be closed",
			syn:     Mapping,
			src: `1[undef one
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   2,
		},
		{
			caption: "a bracketed style must not be empty",
			syn:     Mapping,
			src: `1[] one
`,
			cause: verr.ErrMalformedLine,
			row:   1,
			col:   2,
		},
		{
			caption: "a bracketed style must be known",
			syn:     Mapping,
			src: `1[sparkly] one
`,
			cause: verr.ErrUnknownStyle,
			row:   1,
			col:   3,
		},
		{
			caption: "multi-valued digits are only allowed in binary",
			syn:     Mapping,
			src: `0xzz z
`,
			cause: verr.ErrMalformedLiteral,
			row:   1,
			col:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src), tt.syn)
			if tt.cause != nil {
				require.ErrorIs(t, err, tt.cause)
				var specErr *verr.SpecError
				require.ErrorAs(t, err, &specErr)
				assert.Equal(t, tt.row, specErr.Row)
				assert.Equal(t, tt.col, specErr.Col)
				assert.Nil(t, ast)
				return
			}
			require.NoError(t, err)
			testRootNode(t, ast, tt.ast)
		})
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	_, err := Parse(strings.NewReader("0 zero\n"), nil)
	require.Error(t, err)

	_, err = Parse(strings.NewReader("0 zero\n"), &Syntax{
		Name:            "broken",
		HeaderSeparator: ' ',
		StyleAttachment: AttachBracket,
	})
	require.Error(t, err)
}

func TestSyntaxByName(t *testing.T) {
	s, err := SyntaxByName("MNEMONIC")
	require.NoError(t, err)
	assert.Same(t, Mnemonic, s)

	_, err = SyntaxByName("decoder")
	require.Error(t, err)
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	testHeaderNode(t, "Name", root.Name, expected.Name)
	testHeaderNode(t, "Bits", root.Bits, expected.Bits)
	require.Len(t, root.Entries, len(expected.Entries), "unexpected length of entries")
	for i, e := range root.Entries {
		testEntryNode(t, e, expected.Entries[i])
	}
}

func testHeaderNode(t *testing.T, key string, h, expected *HeaderNode) {
	t.Helper()
	if expected == nil {
		assert.Nil(t, h, "unexpected %v header", key)
		return
	}
	require.NotNil(t, h, "a %v header is not set", key)
	assert.Equal(t, expected.Key, h.Key)
	assert.Equal(t, expected.Pos, h.Pos)
	if expected.Key == headerKeyBits {
		assert.Equal(t, expected.Num, h.Num)
	} else {
		assert.Equal(t, expected.Value, h.Value)
	}
}

func testEntryNode(t *testing.T, e, expected *EntryNode) {
	t.Helper()
	assert.Equal(t, expected.Value, e.Value, "unexpected value at row %v", e.Pos.Row)
	assert.Equal(t, expected.Label, e.Label, "unexpected label at row %v", e.Pos.Row)
	assert.Equal(t, expected.Style, e.Style, "unexpected style at row %v", e.Pos.Row)
	assert.Equal(t, expected.Pos, e.Pos)
}
