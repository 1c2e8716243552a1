package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/spec"
	"github.com/nihei9/wavelabel/table"
	"github.com/nihei9/wavelabel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"opcodes.mapping":     "opcodes",
		"dir/states.mnemonic": "states",
		"dir/archive.tar.gz":  "archive.tar",
		"noext":               "noext",
		".hidden":             ".hidden",
	}
	for path, expected := range tests {
		assert.Equal(t, expected, BaseName(path), path)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{
		Syntax: spec.Mapping,
	}

	t.Run("the base name is the default name", func(t *testing.T) {
		path := writeFile(t, dir, "opcodes.mapping", "0 NOP\n1 LOAD\n")
		tab, err := l.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, table.Metadata{Name: "opcodes", Width: 1}, tab.Metadata())
	})

	t.Run("an error carries the file path and the line", func(t *testing.T) {
		path := writeFile(t, dir, "broken.mapping", "Bits = 2\n0 zero\n0x7 seven\n")
		_, err := l.LoadFile(path)
		require.ErrorIs(t, err, verr.ErrWidthOverflow)
		var specErr *verr.SpecError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, path, specErr.FilePath)
		assert.Equal(t, 3, specErr.Row)
		assert.Contains(t, err.Error(), "0x7 seven")
	})

	t.Run("an encoded table is decoded", func(t *testing.T) {
		tab, err := table.Compile(strings.NewReader("Name = enc\n0x3 three\n"), "", spec.Mapping)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, table.Encode(&buf, tab))
		path := writeFile(t, dir, "enc.wlt", buf.String())

		// The syntax does not matter for an encoded table.
		dec, err := (&Loader{}).LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, tab.Metadata(), dec.Metadata())
		e, ok := dec.Lookup(value.MustFromString("11"))
		require.True(t, ok)
		assert.Equal(t, "three", e.Label)
	})

	t.Run("a missing file is an error", func(t *testing.T) {
		_, err := l.LoadFile(filepath.Join(dir, "missing.mapping"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoader_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.mnemonic", "Name: first\n0 zero\n"),
		writeFile(t, dir, "b.mnemonic", "1 \"unclosed\n"),
		writeFile(t, dir, "c.mnemonic", "Bits: 3\n101 five\n"),
		filepath.Join(dir, "d.mnemonic"),
	}
	l := &Loader{
		Syntax:      spec.Mnemonic,
		Concurrency: 2,
	}

	results := l.LoadFiles(context.Background(), paths)
	require.Len(t, results, len(paths))
	for i, res := range results {
		assert.Equal(t, paths[i], res.Path)
	}

	require.NoError(t, results[0].Err)
	assert.Equal(t, "first", results[0].Table.Metadata().Name)

	require.ErrorIs(t, results[1].Err, verr.ErrMalformedLine)
	assert.Nil(t, results[1].Table)

	require.NoError(t, results[2].Err)
	assert.Equal(t, table.Metadata{Name: "c", Width: 3}, results[2].Table.Metadata())

	require.ErrorIs(t, results[3].Err, os.ErrNotExist)
}

func TestLoader_LoadFiles_Canceled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.mapping", "0 zero\n"),
		writeFile(t, dir, "b.mapping", "1 one\n"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := (&Loader{Syntax: spec.Mapping}).LoadFiles(ctx, paths)
	require.Len(t, results, 2)
	for _, res := range results {
		require.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestDiscover(t *testing.T) {
	global := t.TempDir()
	project := t.TempDir()
	writeFile(t, global, "b.mapping", "0 zero\n")
	writeFile(t, global, "a.mapping", "0 zero\n")
	writeFile(t, global, ".hidden", "0 zero\n")
	require.NoError(t, os.Mkdir(filepath.Join(global, "sub"), 0700))
	writeFile(t, project, "a.mapping", "0 zero\n")

	paths, err := Discover(global, filepath.Join(global, "missing"), project)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(global, "a.mapping"),
		filepath.Join(global, "b.mapping"),
		filepath.Join(project, "a.mapping"),
	}, paths)

	paths, err = Discover()
	require.NoError(t, err)
	assert.Empty(t, paths)
}
