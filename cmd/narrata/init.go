package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/config"
	"github.com/mesh-intelligence/narrata/internal/paths"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a world in the current directory",
		Long:  "Create the .narrata directory with a default config.yaml and an empty world database.\nRunning init in an existing world leaves its config alone and adds any missing tables.",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := paths.Target(flags.world)
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(w.Root)
			}
			created, err := config.WriteDefault(w, name)
			if err != nil {
				return err
			}
			cfg, err := config.Load(w)
			if err != nil {
				return err
			}

			backend, err := sqlite.Open(w.DatabasePath(cfg.Database), nil)
			if err != nil {
				return err
			}
			defer backend.Close()
			if err := backend.Init(catalog.Entities(), catalog.Relations()); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"root":     w.Root,
					"world_id": cfg.WorldID,
					"name":     cfg.Name,
					"database": backend.Path(),
					"created":  created,
				})
			}
			verb := "Initialized"
			if !created {
				verb = "Reinitialized existing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s narrata world %q in %s\n", verb, cfg.Name, w.Dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "world name (default: directory name)")
	return cmd
}
