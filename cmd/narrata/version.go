package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/pkg/narrata"
)

const modulePath = "github.com/mesh-intelligence/narrata"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the narrata version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "narrata v%s\nmodule: %s\n", narrata.Version, modulePath)
			return nil
		},
	}
}
