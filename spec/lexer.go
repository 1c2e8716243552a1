package spec

import (
	"fmt"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindComment    = tokenKind("comment")
	tokenKindString     = tokenKind("string")
	tokenKindUnclosed   = tokenKind("unclosed")
	tokenKindWhiteSpace = tokenKind("white_space")
	tokenKindWord       = tokenKind("word")
	tokenKindStray      = tokenKind("stray")
)

// white spaces except for line breaks, which never reach the lexer
const whiteSpaceChars = ` \u{0009}\u{000B}\u{000C}\u{000D}`

// field is a run of adjacent tokens not separated by white spaces.
type field struct {
	// text is the field with quotes removed and escape sequences applied.
	text   string
	quoted bool

	// start and end are byte offsets of the raw field in its line.
	start int
	end   int
}

func (f *field) col() int {
	return f.start + 1
}

type lineLexer struct {
	spec  *mlspec.CompiledLexSpec
	kinds []tokenKind
}

type lexSpecKey struct {
	comment string
	quote   byte
}

// Syntaxes sharing lexical rules share one compiled specification.
var compiledLexSpecs sync.Map

func newLineLexer(syn *Syntax) (*lineLexer, error) {
	key := lexSpecKey{
		comment: syn.InlineComment,
		quote:   syn.Quote,
	}
	if l, ok := compiledLexSpecs.Load(key); ok {
		return l.(*lineLexer), nil
	}

	clspec, err := compileLexSpec(genLexSpec(syn.InlineComment, syn.Quote))
	if err != nil {
		return nil, fmt.Errorf("syntax %v: cannot build a lexer: %w", syn.Name, err)
	}
	kinds := make([]tokenKind, len(clspec.KindNames))
	for id, name := range clspec.KindNames {
		kinds[id] = tokenKind(name.String())
	}
	l, _ := compiledLexSpecs.LoadOrStore(key, &lineLexer{
		spec:  clspec,
		kinds: kinds,
	})
	return l.(*lineLexer), nil
}

func genLexSpec(comment string, quote byte) *mlspec.LexSpec {
	var entries []*mlspec.LexEntry
	if comment != "" {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(tokenKindComment),
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(comment) + `.*`),
		})
	}
	var q string
	if quote != 0 {
		q = escapeInClass(quote)
		body := `([^` + q + `\\]|\\.)*`
		entries = append(entries,
			&mlspec.LexEntry{
				Kind:    mlspec.LexKindName(tokenKindString),
				Pattern: mlspec.LexPattern(mlspec.EscapePattern(string(quote)) + body + mlspec.EscapePattern(string(quote))),
			},
			// An unclosed string never contains its closing quote, so it is always shorter than a closed one.
			&mlspec.LexEntry{
				Kind:    mlspec.LexKindName(tokenKindUnclosed),
				Pattern: mlspec.LexPattern(mlspec.EscapePattern(string(quote)) + body + `\\?`),
			},
		)
	}
	entries = append(entries,
		&mlspec.LexEntry{
			Kind:    mlspec.LexKindName(tokenKindWhiteSpace),
			Pattern: mlspec.LexPattern(`[` + whiteSpaceChars + `]+`),
		},
		&mlspec.LexEntry{
			Kind:    mlspec.LexKindName(tokenKindWord),
			Pattern: mlspec.LexPattern(wordPattern(q, comment)),
		},
		&mlspec.LexEntry{
			Kind:    mlspec.LexKindName(tokenKindStray),
			Pattern: `.`,
		},
	)
	return &mlspec.LexSpec{
		Name:    "line",
		Entries: entries,
	}
}

func compileLexSpec(lspec *mlspec.LexSpec) (*mlspec.CompiledLexSpec, error) {
	clspec, err, cErrs := mlcompiler.Compile(lspec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			for i, cErr := range cErrs {
				if i > 0 {
					b.WriteString("; ")
				}
				fmt.Fprintf(&b, "%v: %v", cErr.Kind, cErr.Cause)
				if cErr.Detail != "" {
					fmt.Fprintf(&b, ": %v", cErr.Detail)
				}
			}
			return nil, fmt.Errorf("%w: %v", err, b.String())
		}
		return nil, err
	}
	return clspec, nil
}

// wordPattern matches a word that neither contains white spaces or quotes nor starts a comment.
func wordPattern(q string, comment string) string {
	if comment == "" {
		return `[^` + whiteSpaceChars + q + `]+`
	}
	c0 := escapeInClass(comment[0])
	if len(comment) == 1 {
		return `[^` + whiteSpaceChars + q + c0 + `]+`
	}
	c1 := escapeInClass(comment[1])
	return `([^` + whiteSpaceChars + q + c0 + `]|` + mlspec.EscapePattern(comment[:1]) + `[^` + whiteSpaceChars + q + c1 + `])+`
}

// escapeInClass escapes a character having a special meaning in a bracket expression.
func escapeInClass(c byte) string {
	switch c {
	case '\\', '^', '-', '[', ']':
		return `\` + string(c)
	}
	return string(c)
}

// run splits a line into fields. end is the offset where the content of the line ends, that is, the start of a
// comment or the length of the line.
func (l *lineLexer) run(line string) (fields []*field, end int, err error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(l.spec), strings.NewReader(line))
	if err != nil {
		return nil, 0, err
	}

	end = len(line)
	var cur *field
	var b strings.Builder
	flush := func() {
		if cur == nil {
			return
		}
		cur.text = b.String()
		fields = append(fields, cur)
		cur = nil
		b.Reset()
	}
	offset := 0
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, 0, err
		}
		if tok.EOF {
			break
		}
		if tok.Invalid {
			return nil, 0, fmt.Errorf("invalid text at column %v: %q", offset+1, tok.Lexeme)
		}

		start := offset
		text := string(tok.Lexeme)
		offset += len(text)

		kind := l.kinds[tok.KindID]
		if kind == tokenKindComment {
			end = start
			break
		}
		if kind == tokenKindWhiteSpace {
			flush()
			continue
		}
		if kind == tokenKindUnclosed {
			return nil, 0, &unclosedQuoteError{
				offset: start,
			}
		}

		if cur == nil {
			cur = &field{
				quoted: kind == tokenKindString,
				start:  start,
			}
		}
		cur.end = offset
		if kind == tokenKindString {
			b.WriteString(unescape(text[1 : len(text)-1]))
		} else {
			b.WriteString(text)
		}
	}
	flush()

	return fields, end, nil
}

type unclosedQuoteError struct {
	offset int
}

func (e *unclosedQuoteError) Error() string {
	return "unclosed quote"
}

// unescape removes the backslash of every escape sequence.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
