package table

import (
	"io"
	"log/slog"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/spec"
)

var (
	semErrNoWidth = verr.Detail(verr.ErrMalformedHeader, "a file without entries must declare Bits")
	semErrNoName  = verr.Detail(verr.ErrMalformedHeader, "a file must declare Name when no default name is given")
)

// Builder turns a parsed file into a table.
type Builder struct {
	AST *spec.RootNode

	// DefaultName is the name of a table whose file has no Name header, usually the base name of the file.
	DefaultName string

	// Logger receives duplicate value reports. nil discards them.
	Logger *slog.Logger
}

func (b *Builder) Build() (*Table, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	name := b.DefaultName
	if b.AST.Name != nil {
		name = b.AST.Name.Value
	}
	if name == "" {
		return nil, verr.FromError(semErrNoName, 0, 0, "")
	}

	width, err := b.resolveWidth()
	if err != nil {
		return nil, err
	}

	t := newTable(name, width)
	for _, n := range b.AST.Entries {
		v, err := n.Value.ZeroExtend(width)
		if err != nil {
			return nil, verr.FromError(err, n.Pos.Row, n.Pos.Col, n.Line)
		}
		prevRow, replaced := t.put(&Entry{
			Value: v,
			Label: n.Label,
			Style: n.Style,
			Row:   n.Pos.Row,
		})
		if !replaced {
			continue
		}
		t.dups = append(t.dups, &Duplicate{
			Value:   v,
			Row:     n.Pos.Row,
			PrevRow: prevRow,
		})
		logger.Warn(verr.ErrDuplicateValue.Error(),
			slog.String("table", name),
			slog.String("value", v.String()),
			slog.Int("row", n.Pos.Row),
			slog.Int("prev_row", prevRow))
	}
	logger.Debug("table built",
		slog.String("table", name),
		slog.Int("width", width),
		slog.Int("entries", len(t.entries)))

	return t, nil
}

// resolveWidth returns the Bits header or, when it is absent, the width of the widest literal.
func (b *Builder) resolveWidth() (int, error) {
	if b.AST.Bits != nil {
		return b.AST.Bits.Num, nil
	}
	width := 0
	for _, n := range b.AST.Entries {
		if n.Value.Width() > width {
			width = n.Value.Width()
		}
	}
	if width == 0 {
		return 0, verr.FromError(semErrNoWidth, 0, 0, "")
	}
	return width, nil
}

type compileConfig struct {
	logger *slog.Logger
}

type CompileOption func(config *compileConfig)

func WithLogger(logger *slog.Logger) CompileOption {
	return func(config *compileConfig) {
		config.logger = logger
	}
}

// Compile parses src written in syn and builds a table. baseName is the name of the table when src has no Name
// header.
func Compile(src io.Reader, baseName string, syn *spec.Syntax, opts ...CompileOption) (*Table, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	ast, err := spec.Parse(src, syn)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		AST:         ast,
		DefaultName: baseName,
		Logger:      config.logger,
	}
	return b.Build()
}
