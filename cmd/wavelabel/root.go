package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nihei9/wavelabel/loader"
	"github.com/nihei9/wavelabel/spec"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wavelabel",
	Short: "Translate waveform values into labels",
	Long: `wavelabel reads mapping and mnemonic files, which translate bit vectors of a
waveform into human-readable labels, and provides these features:
- Checks and compiles a file into a table.
- Looks up values in a table.
- Tests a table against test cases.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootFlags = struct {
	syntax  *string
	verbose *bool
}{}

func init() {
	rootFlags.syntax = rootCmd.PersistentFlags().StringP("syntax", "s", spec.Mapping.Name, "syntax of source files (mapping or mnemonic)")
	rootFlags.verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug logs")
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if *rootFlags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func newLoader() (*loader.Loader, error) {
	syn, err := spec.SyntaxByName(*rootFlags.syntax)
	if err != nil {
		return nil, err
	}
	return &loader.Loader{
		Syntax: syn,
		Logger: newLogger(),
	}, nil
}
