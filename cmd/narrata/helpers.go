package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/config"
	"github.com/mesh-intelligence/narrata/internal/entity"
	"github.com/mesh-intelligence/narrata/internal/logging"
	"github.com/mesh-intelligence/narrata/internal/paths"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// userErrors are the sentinels caused by input rather than the system.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrAlreadyExists,
	types.ErrRelationExists,
	types.ErrNoRelation,
	types.ErrInvalidStatus,
	types.ErrInvalidValue,
	types.ErrInvalidKey,
	types.ErrInvalidSetArg,
	types.ErrKeyImmutable,
	types.ErrUnknownKind,
	types.ErrNotInProject,
}

// usageError wraps flag and argument errors reported by cobra.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	// cobra reports unknown subcommands without a typed error.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUserError
	}
	return exitSysError
}

// argsUsage wraps a positional-argument validator so its failures are
// reported as user errors.
func argsUsage(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// session is an open world: its config, logger, database and service.
type session struct {
	world   paths.World
	cfg     types.Config
	logger  *slog.Logger
	backend *sqlite.Backend
	service *entity.Service
}

// openSession discovers the world, loads its config and opens the database.
// The caller must Close the session.
func openSession(flags *rootFlags, stderr io.Writer) (*session, error) {
	w, err := paths.Find(flags.world)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(w)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level, stderr).With("world", cfg.Name)

	backend, err := sqlite.Open(w.DatabasePath(cfg.Database), logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(catalog.Entities(), catalog.Relations()); err != nil {
		backend.Close()
		return nil, err
	}
	return &session{
		world:   w,
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		service: entity.New(backend, entity.WithLogger(logger)),
	}, nil
}

func (s *session) Close() error { return s.backend.Close() }

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printLines writes each line, trimming trailing padding.
func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
