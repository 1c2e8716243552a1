package error

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrMalformedLiteral = errors.New("malformed literal")
	ErrWidthOverflow    = errors.New("width overflow")
	ErrMalformedHeader  = errors.New("malformed header")
	ErrMalformedLine    = errors.New("malformed line")

	// ErrUnknownStyle is a kind of ErrMalformedLine.
	ErrUnknownStyle = fmt.Errorf("%w: unknown style", ErrMalformedLine)

	// ErrDuplicateValue is informational. A table resolves duplicates and never fails because of them.
	ErrDuplicateValue = errors.New("duplicate value")
)

// DetailError attaches a detail message to one of the error causes above.
type DetailError struct {
	Cause  error
	Detail string
}

func Detail(cause error, format string, a ...interface{}) *DetailError {
	return &DetailError{
		Cause:  cause,
		Detail: fmt.Sprintf(format, a...),
	}
}

func (e *DetailError) Error() string {
	if e.Detail == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%v: %v", e.Cause, e.Detail)
}

func (e *DetailError) Unwrap() error {
	return e.Cause
}

type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int

	// Content is the source line the error was found on. When it is empty, Error reads the line from FilePath.
	Content string
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
		} else {
			fmt.Fprintf(&b, "%v: ", e.Row)
		}
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := e.Content
	if line == "" {
		line = readLine(e.FilePath, e.Row)
	}
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// FromError converts err into a *SpecError located at row and col. A *DetailError is split into its cause and
// detail so that the cause stays comparable with errors.Is.
func FromError(err error, row, col int, content string) *SpecError {
	var specErr *SpecError
	if errors.As(err, &specErr) {
		return specErr
	}
	e := &SpecError{
		Cause:   err,
		Row:     row,
		Col:     col,
		Content: content,
	}
	var detErr *DetailError
	if errors.As(err, &detErr) {
		e.Cause = detErr.Cause
		e.Detail = detErr.Detail
	}
	return e
}

// SetSource records the file an error came from. It does nothing when err is not a *SpecError.
func SetSource(err error, filePath, sourceName string) {
	var specErr *SpecError
	if !errors.As(err, &specErr) {
		return
	}
	specErr.FilePath = filePath
	specErr.SourceName = sourceName
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
