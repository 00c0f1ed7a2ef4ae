package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/internal/entity"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// newKindCmd builds the command group for one entity kind, e.g.
// "narrata character create aragorn --set faction=fellowship*leader".
func newKindCmd(flags *rootFlags, def *types.EntityDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(def.Kind),
		Short: fmt.Sprintf("Manage %s records", def.Table),
	}
	usage := def.KeyUsage()
	// A composite key may be given as one "a:b" argument.
	keyArgs := argsUsage(cobra.RangeArgs(1, len(def.Keys)))

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s, newest first", def.Table),
		Args:  argsUsage(cobra.NoArgs),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			list, err := s.service.List(def.Kind)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				out := make([]map[string]any, len(list))
				for i, e := range list {
					out[i] = def.Flatten(e)
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			printEntityTable(cmd.OutOrStdout(), def, list)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get " + usage,
		Short: fmt.Sprintf("Show one %s", def.Kind),
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			e, err := s.service.Get(def.Kind, args)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), flags, def, e)
		}),
	})

	var createSets []string
	create := &cobra.Command{
		Use:   "create " + usage,
		Short: fmt.Sprintf("Create a %s", def.Kind),
		Long:  setHelp(def),
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			draft, err := s.service.CreateNew(def.Kind, args, createSets)
			if err != nil {
				return err
			}
			res, err := s.service.Create(draft)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printEntity(cmd.OutOrStdout(), flags, def, res.Entity)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s '%s'\n", def.Kind, def.FormatKey(res.Entity.Key))
			printLines(cmd.OutOrStdout(), res.Report.Lines())
			return nil
		}),
	}
	create.Flags().StringArrayVar(&createSets, "set", nil, "field, metadata or link as key=value (repeatable)")
	cmd.AddCommand(create)

	var updateSets []string
	update := &cobra.Command{
		Use:   "update " + usage,
		Short: fmt.Sprintf("Change fields and links of a %s", def.Kind),
		Long:  setHelp(def),
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			if len(updateSets) == 0 {
				return &usageError{err: errors.New("nothing to update (use --set key=value)")}
			}
			res, err := s.service.Update(def.Kind, args, updateSets)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printEntity(cmd.OutOrStdout(), flags, def, res.Entity)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s '%s'\n", def.Kind, def.FormatKey(res.Entity.Key))
			printLines(cmd.OutOrStdout(), res.Report.Lines())
			return nil
		}),
	}
	update.Flags().StringArrayVar(&updateSets, "set", nil, "field, metadata or link as key=value (repeatable)")
	cmd.AddCommand(update)

	var force bool
	del := &cobra.Command{
		Use:   "delete " + usage,
		Short: fmt.Sprintf("Delete a %s (requires --force)", def.Kind),
		Long:  "Delete the record. Links to and from it are kept and show as deleted endpoints.",
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			err := s.service.Delete(def.Kind, args, force)
			if errors.Is(err, types.ErrConfirmationRequired) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s; nothing was deleted\n", err)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s '%s'\n", def.Kind, keyText(def, args))
			return nil
		}),
	}
	del.Flags().BoolVar(&force, "force", false, "confirm the deletion")
	cmd.AddCommand(del)

	if len(def.Links) == 0 {
		return cmd
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "links " + usage,
		Short: fmt.Sprintf("Show everything linked to a %s", def.Kind),
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			links, err := s.service.Links(def.Kind, args)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), linksJSON(links))
			}
			printLinkTable(cmd.OutOrStdout(), links)
			return nil
		}),
	})

	var unlinkSets []string
	unlink := &cobra.Command{
		Use:   "unlink " + usage,
		Short: fmt.Sprintf("Remove links from a %s", def.Kind),
		Long:  "Remove the links named with --set key=target[,target...]. Attributes are ignored.",
		Args:  keyArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			if len(unlinkSets) == 0 {
				return &usageError{err: errors.New("nothing to unlink (use --set key=target)")}
			}
			edges, err := s.service.Unlink(def.Kind, args, unlinkSets)
			if err != nil {
				return err
			}
			for _, e := range edges {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s '%s'\n", e.Key, e.Target)
			}
			return nil
		}),
	}
	unlink.Flags().StringArrayVar(&unlinkSets, "set", nil, "link to remove as key=target (repeatable)")
	cmd.AddCommand(unlink)

	return cmd
}

// withSession opens the world for the duration of fn.
func withSession(flags *rootFlags, fn func(*cobra.Command, *session, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(flags, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s, args)
	}
}

func setHelp(def *types.EntityDef) string {
	help := "Fields are set with --set key=value. Declared fields:"
	for _, f := range def.Values {
		help += fmt.Sprintf("\n  %s (%s)", f.Name, f.Type)
	}
	help += fmt.Sprintf("\n  status (%s)", def.Statuses)
	help += "\nAny other key is stored as metadata; an empty value removes it."
	if len(def.Links) > 0 {
		help += "\n\nLinks use key=target[*attribute][,target[*attribute]...] with keys:"
		for _, l := range def.Links {
			help += "\n  " + l.Key
		}
	}
	return help
}

func keyText(def *types.EntityDef, args []string) string {
	if k, err := def.ParseKey(args...); err == nil {
		return def.FormatKey(k)
	}
	return fmt.Sprint(args)
}

func printEntity(w io.Writer, flags *rootFlags, def *types.EntityDef, e *types.Entity) error {
	if flags.jsonMode {
		return printJSON(w, def.Flatten(e))
	}
	fmt.Fprintf(w, "%s '%s'\n", def.Name, def.FormatKey(e.Key))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  id:\t%d\n", e.ID)
	fmt.Fprintf(tw, "  status:\t%s\n", e.Status)
	for _, f := range def.Values {
		fmt.Fprintf(tw, "  %s:\t%s\n", f.Name, f.Format(e.Fields[f.Name]))
	}
	if len(e.Metadata) > 0 {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		fmt.Fprintf(tw, "  metadata:\t%s\n", meta)
	}
	fmt.Fprintf(tw, "  created:\t%s (%s)\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(e.CreatedAt))
	return tw.Flush()
}

func printEntityTable(w io.Writer, def *types.EntityDef, list []*types.Entity) {
	if len(list) == 0 {
		fmt.Fprintf(w, "No %s found.\n", def.Table)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTATUS\tCREATED")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", def.FormatKey(e.Key), e.Status, humanize.Time(e.CreatedAt))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %d %s\n", len(list), def.Table)
}

func printLinkTable(w io.Writer, links []entity.Link) {
	if len(links) == 0 {
		fmt.Fprintln(w, "No links found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIR\tKIND\tKEY\tRELATION\tATTRIBUTE")
	for _, l := range links {
		dir := "in"
		if l.Outgoing {
			dir = "out"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s=%s\n", dir, l.Kind, l.Key, l.Relation.Table, l.Relation.Attr(), l.Attr())
	}
	tw.Flush()
}

func linksJSON(links []entity.Link) []map[string]any {
	out := make([]map[string]any, len(links))
	for i, l := range links {
		out[i] = map[string]any{
			"relation": l.Relation.Table,
			"outgoing": l.Outgoing,
			"kind":     l.Kind,
			"key":      l.Key,
			"attrs":    l.Attrs,
		}
	}
	return out
}
