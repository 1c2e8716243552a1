package main

import (
	"fmt"
	"os"

	"github.com/nihei9/wavelabel/loader"
	"github.com/spf13/cobra"
)

var checkFlags = struct {
	jobs *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "check <directory path>...",
		Short: "Load every file in directories and report the tables and errors",
		Long: `check loads every file found in the directories, in parallel. Directories that
do not exist are skipped, so a list of candidate configuration directories can be
passed as is. A file that fails to load does not stop the others.`,
		Example: `  wavelabel check ~/.config/surfer/mappings .surfer/mappings`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runCheck,
	}
	checkFlags.jobs = cmd.Flags().IntP("jobs", "j", 0, "number of files loaded at once (default GOMAXPROCS)")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	l, err := newLoader()
	if err != nil {
		return err
	}
	l.Concurrency = *checkFlags.jobs

	paths, err := loader.Discover(args...)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range l.LoadFiles(cmd.Context(), paths) {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", res.Err)
			failed++
			continue
		}
		md := res.Table.Metadata()
		fmt.Fprintf(os.Stdout, "%v\t%v\t%v bits\t%v entries\n", res.Path, md.Name, md.Width, len(res.Table.Entries()))
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v files failed to load", failed, len(paths))
	}
	return nil
}
