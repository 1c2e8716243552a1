package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/wavelabel/error"
	"github.com/nihei9/wavelabel/table"
	"github.com/spf13/cobra"
)

const (
	formatJSON   = "json"
	formatBinary = "bin"
)

var compileFlags = struct {
	output *string
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a mapping or mnemonic file into a table",
		Example: `  wavelabel compile opcode.mapping -o opcode.json
  wavelabel compile --syntax mnemonic --format bin states.mnemonic -o states.wlt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.format = cmd.Flags().StringP("format", "f", formatJSON, "output format (json or bin)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	if *compileFlags.format != formatJSON && *compileFlags.format != formatBinary {
		return fmt.Errorf("unknown format: %v", *compileFlags.format)
	}

	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var srcPath string
	if len(args) > 0 {
		srcPath = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		if len(args) > 0 {
			verr.SetSource(retErr, srcPath, srcPath)
		} else {
			verr.SetSource(retErr, srcPath, "stdin")
		}
	}()

	if srcPath == "" {
		var err error
		tmpDirPath, err = os.MkdirTemp("", "wavelabel-compile-*")
		if err != nil {
			return err
		}

		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		srcPath = filepath.Join(tmpDirPath, "stdin")
		err = os.WriteFile(srcPath, src, 0600)
		if err != nil {
			return err
		}
	}

	l, err := newLoader()
	if err != nil {
		return err
	}
	tab, err := l.LoadFile(srcPath)
	if err != nil {
		return err
	}

	err = writeTable(tab, *compileFlags.format, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output file: %w", err)
	}

	if n := len(tab.Duplicates()); n > 0 {
		fmt.Fprintf(os.Stderr, "%v duplicate values\n", n)
	}

	return nil
}

// writeTable writes a table to path. When path is a directory, the table is written to <path>/<table name>.json or
// <path>/<table name>.wlt. When path is empty, the table is written to stdout.
func writeTable(tab *table.Table, format string, path string) error {
	outPath, err := makeOutputFilePath(tab.Metadata().Name, format, path)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	if format == formatBinary {
		return table.Encode(w, tab)
	}
	b, err := json.Marshal(tab)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func makeOutputFilePath(tableName string, format string, path string) (string, error) {
	if path == "" {
		return "", nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		return path, nil
	}

	if tableName == "" || tableName == "." || tableName == ".." || filepath.Base(tableName) != tableName {
		return "", fmt.Errorf("the table name %q cannot be used as a file name; specify an output file path", tableName)
	}

	ext := ".json"
	if format == formatBinary {
		ext = ".wlt"
	}
	return filepath.Join(path, tableName+ext), nil
}
