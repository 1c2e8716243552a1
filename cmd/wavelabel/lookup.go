package main

import (
	"fmt"
	"os"

	"github.com/nihei9/wavelabel/value"
	"github.com/spf13/cobra"
)

var lookupFlags = struct {
	theme *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "lookup <file path> <value>...",
		Short: "Translate values with a table",
		Long: `lookup translates values the way a waveform viewer does. A value narrower than
the table is extended with its leading 0/1, x or z digit, and a value without an
entry is shown as its digits.`,
		Example: `  wavelabel lookup opcode.mapping 0x1 0b1xxx`,
		Args:    cobra.MinimumNArgs(2),
		RunE:    runLookup,
	}
	lookupFlags.theme = cmd.Flags().Bool("theme", false, "print theme color identifiers instead of style names")
	rootCmd.AddCommand(cmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	l, err := newLoader()
	if err != nil {
		return err
	}
	tab, err := l.LoadFile(args[0])
	if err != nil {
		return err
	}

	for _, lit := range args[1:] {
		v, err := value.ParseLiteral(lit, l.Syntax.Literal)
		if err != nil {
			return fmt.Errorf("Cannot read a value %v: %w", lit, err)
		}
		tr := tab.Translate(v)
		st := tr.Style.String()
		if *lookupFlags.theme && tr.Style.Kind.ThemeColor() != "" {
			st = tr.Style.Kind.ThemeColor()
		}
		if tr.Found {
			fmt.Fprintf(os.Stdout, "%v\t%v\t%v\n", lit, tr.Label, st)
		} else {
			fmt.Fprintf(os.Stdout, "%v\t%v\t%v\t(no entry)\n", lit, tr.Label, st)
		}
	}

	return nil
}
