package test

import (
	"strings"
	"testing"

	"github.com/nihei9/wavelabel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTestCase(t *testing.T) {
	mnemonic := value.LiteralOptions{
		States:       value.NineState,
		BareRadix:    value.Binary,
		BareFallback: value.Decimal,
	}
	mapping := value.LiteralOptions{
		States: value.NineState,
	}
	input := func(lit, digits string, row int) *Input {
		return &Input{
			Literal: lit,
			Value:   value.MustFromString(digits),
			Row:     row,
		}
	}

	tests := []struct {
		caption  string
		src      string
		opts     value.LiteralOptions
		tc       *TestCase
		parseErr bool
	}{
		{
			caption: "a test case consists of three parts",
			src: `test
---
0x1
0bxx
---
LOAD
xx
`,
			opts: mapping,
			tc: &TestCase{
				Description: "test",
				Inputs: []*Input{
					input("0x1", "1", 3),
					input("0bxx", "xx", 4),
				},
				Expected: []string{"LOAD", "xx"},
			},
		},
		{
			caption: "blank lines are ignored and labels are trimmed",
			src: `
test

---

10

11
---

  two words

three
`,
			opts: mnemonic,
			tc: &TestCase{
				Description: "\ntest\n",
				Inputs: []*Input{
					input("10", "10", 6),
					input("11", "11", 8),
				},
				Expected: []string{"two words", "three"},
			},
		},
		{
			caption: "the length of a part delimiter may be greater than 3",
			src: `test
-----
3
-----
three
`,
			opts: mapping,
			tc: &TestCase{
				Description: "test",
				Inputs: []*Input{
					input("3", "11", 3),
				},
				Expected: []string{"three"},
			},
		},
		{
			caption: "the description part may be empty",
			src: `---
0
---
zero
`,
			opts: mapping,
			tc: &TestCase{
				Inputs: []*Input{
					input("0", "0", 2),
				},
				Expected: []string{"zero"},
			},
		},
		{
			caption: "a delimiter at the end is allowed",
			src: `test
---
0
---
zero
---
`,
			opts: mapping,
			tc: &TestCase{
				Description: "test",
				Inputs: []*Input{
					input("0", "0", 3),
				},
				Expected: []string{"zero"},
			},
		},
		{
			caption:  "an empty test case is an error",
			src:      ``,
			opts:     mapping,
			parseErr: true,
		},
		{
			caption: "a test case needs three parts",
			src: `test
---
0
`,
			opts:     mapping,
			parseErr: true,
		},
		{
			caption: "a test case needs inputs",
			src: `test
---
---
zero
`,
			opts:     mapping,
			parseErr: true,
		},
		{
			caption: "the numbers of inputs and labels must match",
			src: `test
---
0
1
---
zero
`,
			opts:     mapping,
			parseErr: true,
		},
		{
			caption: "a delimiter needs at least three hyphens",
			src: `test
--
0
--
zero
`,
			opts:     mapping,
			parseErr: true,
		},
		{
			caption: "an input must be a literal",
			src: `test
---
0xzz
---
zero
`,
			opts:     mapping,
			parseErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tc, err := ParseTestCase(strings.NewReader(tt.src), tt.opts)
			if tt.parseErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tc, tc)
		})
	}
}
