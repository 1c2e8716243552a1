package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/spec"
	"github.com/nihei9/wavelabel/table"
	"golang.org/x/sync/errgroup"
)

// Loader loads translation tables from files. A file is either a source file written in Syntax or a table encoded
// by table.Encode.
type Loader struct {
	Syntax *spec.Syntax

	// Logger receives load and duplicate value reports. nil discards them.
	Logger *slog.Logger

	// Concurrency bounds the number of files LoadFiles reads at once. Zero or less means GOMAXPROCS.
	Concurrency int
}

// Result is the outcome of loading one file. Exactly one of Table and Err is set.
type Result struct {
	Path  string
	Table *table.Table
	Err   error
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

// BaseName returns the file name of path without its extension. It is the name of a table whose file has no Name
// header.
func BaseName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// LoadFile loads one file. A syntax error is a *verr.SpecError carrying the path of the file.
func (l *Loader) LoadFile(path string) (tab *table.Table, retErr error) {
	defer func() {
		if retErr != nil {
			verr.SetSource(retErr, path, path)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer f.Close()

	return l.Load(f, BaseName(path))
}

// Load reads a table from src. name is the name of the table when src has no Name header.
func (l *Loader) Load(src io.Reader, name string) (*table.Table, error) {
	r := bufio.NewReader(src)
	head, _ := r.Peek(len(table.Magic))
	if table.IsEncoded(head) {
		return table.Decode(r)
	}

	if l.Syntax == nil {
		return nil, errors.New("a syntax is required to load a source file")
	}
	return table.Compile(r, name, l.Syntax, table.WithLogger(l.logger()))
}

// LoadFiles loads files in parallel and returns one result per path in the order of paths. A file that fails to
// load does not stop the others. When ctx is canceled, files not yet started fail with the cause of ctx.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) []*Result {
	logger := l.logger()
	results := make([]*Result, len(paths))

	var g errgroup.Group
	limit := l.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res := &Result{
				Path: path,
			}
			results[i] = res
			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}

			res.Table, res.Err = l.LoadFile(path)
			if res.Err != nil {
				logger.Debug("cannot load a table", slog.String("path", path), slog.Any("error", res.Err))
				return nil
			}
			md := res.Table.Metadata()
			logger.Debug("table loaded",
				slog.String("path", path),
				slog.String("name", md.Name),
				slog.Int("width", md.Width))
			return nil
		})
	}
	g.Wait()

	return results
}

// Discover lists the regular files in dirs, directory by directory and by name within a directory. Directories that
// do not exist are skipped, and so are hidden files.
func Discover(dirs ...string) ([]string, error) {
	var paths []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("cannot read a directory %v: %w", dir, err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
				continue
			}
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
