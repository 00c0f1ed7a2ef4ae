package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/internal/catalog"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write every table to JSONL files",
		Long:  "Write one <table>.jsonl file per entity and relation table into dir\n(default: .narrata/export inside the world).",
		Args:  argsUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			dir := filepath.Join(s.world.Dir, "export")
			if len(args) == 1 {
				dir = args[0]
			}
			tables, err := s.backend.Export(dir, catalog.Entities(), catalog.Relations())
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), tables)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS\tFILE")
			total := 0
			for _, t := range tables {
				fmt.Fprintf(w, "%s\t%d\t%s\n", t.Table, t.Rows, t.Path)
				total += t.Rows
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) from %d table(s) to %s\n", total, len(tables), dir)
			return nil
		},
	}
}
