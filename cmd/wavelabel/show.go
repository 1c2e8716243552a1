package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/table"
	"github.com/nihei9/wavelabel/value"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	sort  *bool
	radix *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show <file path>",
		Short: "Print a table in a readable format",
		Example: `  wavelabel show opcode.mapping
  wavelabel show --sort --radix hex opcode.wlt`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showFlags.sort = cmd.Flags().Bool("sort", false, "sort entries by value instead of declaration order")
	showFlags.radix = cmd.Flags().StringP("radix", "r", "bin", "radix of values (bin, oct, dec or hex)")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	radix, err := parseRadix(*showFlags.radix)
	if err != nil {
		return err
	}

	l, err := newLoader()
	if err != nil {
		return err
	}
	tab, err := l.LoadFile(args[0])
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, tab, radix, *showFlags.sort)
}

func parseRadix(s string) (value.Radix, error) {
	switch strings.ToLower(s) {
	case "bin", "binary":
		return value.Binary, nil
	case "oct", "octal":
		return value.Octal, nil
	case "dec", "decimal":
		return value.Decimal, nil
	case "hex", "hexadecimal":
		return value.Hex, nil
	}
	return 0, fmt.Errorf("unknown radix: %v", s)
}

const reportTemplate = `# {{ .Metadata.Name }}

Width: {{ .Metadata.Width }}

# Entries

{{ range .Entries -}}
{{ printEntry . }}
{{ end }}
{{- if .Duplicates }}
# Duplicates

{{ range .Duplicates -}}
{{ printDuplicate . }}
{{ end }}
{{- end }}`

type report struct {
	Metadata   table.Metadata
	Entries    []*table.Entry
	Duplicates []*table.Duplicate
}

func writeReport(w io.Writer, tab *table.Table, radix value.Radix, sorted bool) error {
	formatValue := func(v value.Value) string {
		s, err := v.Format(radix)
		if err != nil {
			// Multi-valued digits can only be written in binary.
			s, _ = v.Format(value.Binary)
		}
		return s
	}

	fns := template.FuncMap{
		"printEntry": func(e *table.Entry) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v %v", formatValue(e.Value), e.Label)
			if e.Style != style.Default {
				fmt.Fprintf(&b, " (%v)", e.Style)
			}
			return b.String()
		},
		"printDuplicate": func(d *table.Duplicate) string {
			return fmt.Sprintf("%v: line %v overrides line %v", formatValue(d.Value), d.Row, d.PrevRow)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	r := &report{
		Metadata:   tab.Metadata(),
		Entries:    tab.Entries(),
		Duplicates: tab.Duplicates(),
	}
	if sorted {
		r.Entries = tab.SortedEntries()
	}
	return tmpl.Execute(w, r)
}
