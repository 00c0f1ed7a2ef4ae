package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/pkg/narrata"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	world    string
	jsonMode bool
}

// newRootCmd creates the top-level command with global flags and all
// subcommands registered. Each call has its own flag state.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:     "narrata",
		Short:   "A knowledge base for fiction worlds",
		Long:    "narrata stores the facts of a fictional world (characters, locations, factions,\nevents, systems, races, stories and episodes) and the links between them.",
		Version: narrata.Version,
		// Errors are printed once by run.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&flags.world, "world", "", "world root directory (default: nearest directory with .narrata, or $NARRATA_WORLD)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newExportCmd(flags))
	for _, def := range catalog.Entities() {
		root.AddCommand(newKindCmd(flags, def))
	}
	return root
}
