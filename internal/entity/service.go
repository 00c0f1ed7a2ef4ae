// Package entity implements the business operations shared by every entity
// kind: create with validation, get, list, update with field routing and
// delete behind a confirmation gate. Relation arguments are handed to the
// dsl package and written in the same transaction as the entity.
package entity

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/narrata/internal/calendar"
	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/dsl"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Service runs entity operations against one open world database.
type Service struct {
	backend  *sqlite.Backend
	calendar calendar.Parser
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCalendar sets the parser used to derive event sort keys.
func WithCalendar(p calendar.Parser) Option {
	return func(s *Service) { s.calendar = p }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New returns a Service on backend. The schema must already be initialized.
func New(backend *sqlite.Backend, opts ...Option) *Service {
	s := &Service{
		backend:  backend,
		calendar: calendar.Numeric{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Draft is an unsaved record together with the relation arguments to apply
// once it exists.
type Draft struct {
	Def    *types.EntityDef
	Entity *types.Entity
	Links  []dsl.SetArg
}

// Result is a saved record and the relation writes made with it.
type Result struct {
	Entity *types.Entity
	Report *dsl.Report
}

// CreateNew builds a default-valued record for kind with the given key and
// applies the regular set arguments to it. Nothing is written.
func (s *Service) CreateNew(kind types.Kind, key []string, rawArgs []string) (*Draft, error) {
	def, err := catalog.Entity(kind)
	if err != nil {
		return nil, err
	}
	k, err := def.ParseKey(key...)
	if err != nil {
		return nil, err
	}
	args, err := dsl.ParseSetArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	regular, links := dsl.Partition(def, args)

	e := def.New(k)
	if err := applyFields(def, e, regular, s.calendar); err != nil {
		return nil, err
	}
	return &Draft{Def: def, Entity: e, Links: links}, nil
}

// Create inserts the draft and writes its relations. The entity and every
// edge are committed together; a missing relation target leaves nothing
// behind.
func (s *Service) Create(d *Draft) (*Result, error) {
	def, e := d.Def, d.Entity
	name := def.FormatKey(e.Key)
	var report *dsl.Report

	err := s.backend.Update(func(tx *sqlite.Tx) error {
		table := tx.Entities(def)
		exists, err := table.Exists(e.Key...)
		if err != nil {
			return err
		}
		if exists {
			return &types.EntityError{Name: def.Name, Key: name, Err: types.ErrAlreadyExists}
		}
		if err := checkRefs(tx, def, e.Key); err != nil {
			return err
		}

		id, err := table.Insert(e)
		if err != nil {
			return err
		}
		e.ID = id

		edges, err := dsl.Plan(def, e, d.Links, dsl.NewResolver(tx))
		if err != nil {
			return err
		}
		report, err = dsl.Apply(tx, edges)
		return err
	})
	if err != nil {
		e.ID = 0
		return nil, err
	}

	s.logger.Info("entity created", "kind", def.Kind, "key", name, "id", e.ID)
	return &Result{Entity: e, Report: report}, nil
}

// Get returns the record of kind with the given key.
func (s *Service) Get(kind types.Kind, key []string) (*types.Entity, error) {
	def, k, err := parseKey(kind, key)
	if err != nil {
		return nil, err
	}
	e, err := s.backend.Entities(def).GetByKey(k...)
	if err != nil {
		return nil, wrapNotFound(def, k, err)
	}
	return e, nil
}

// List returns every record of kind, newest first.
func (s *Service) List(kind types.Kind) ([]*types.Entity, error) {
	def, err := catalog.Entity(kind)
	if err != nil {
		return nil, err
	}
	return s.backend.Entities(def).List()
}

// Update applies set arguments to an existing record: regular fields are
// routed and persisted first, then relation arguments are resolved and
// written, all in one transaction.
func (s *Service) Update(kind types.Kind, key []string, rawArgs []string) (*Result, error) {
	def, k, err := parseKey(kind, key)
	if err != nil {
		return nil, err
	}
	args, err := dsl.ParseSetArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	regular, links := dsl.Partition(def, args)

	var (
		e      *types.Entity
		report *dsl.Report
	)
	err = s.backend.Update(func(tx *sqlite.Tx) error {
		table := tx.Entities(def)
		e, err = table.GetByKey(k...)
		if err != nil {
			return wrapNotFound(def, k, err)
		}
		if err := applyFields(def, e, regular, s.calendar); err != nil {
			return err
		}
		if err := table.Update(e); err != nil {
			return err
		}

		edges, err := dsl.Plan(def, e, links, dsl.NewResolver(tx))
		if err != nil {
			return err
		}
		report, err = dsl.Apply(tx, edges)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entity updated", "kind", def.Kind, "key", def.FormatKey(k), "fields", len(regular), "links", len(links))
	return &Result{Entity: e, Report: report}, nil
}

// Delete removes the record of kind with the given key. Without force it
// returns ErrConfirmationRequired and touches nothing. Edges pointing at the
// record are left in place.
func (s *Service) Delete(kind types.Kind, key []string, force bool) error {
	if !force {
		return types.ErrConfirmationRequired
	}
	def, k, err := parseKey(kind, key)
	if err != nil {
		return err
	}
	table := s.backend.Entities(def)
	id, err := table.GetIDByKey(k...)
	if err != nil {
		return wrapNotFound(def, k, err)
	}
	if err := table.Delete(id); err != nil {
		return wrapNotFound(def, k, err)
	}
	s.logger.Info("entity deleted", "kind", def.Kind, "key", def.FormatKey(k), "id", id)
	return nil
}

func parseKey(kind types.Kind, key []string) (*types.EntityDef, []any, error) {
	def, err := catalog.Entity(kind)
	if err != nil {
		return nil, nil, err
	}
	k, err := def.ParseKey(key...)
	if err != nil {
		return nil, nil, err
	}
	return def, k, nil
}

func wrapNotFound(def *types.EntityDef, key []any, err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return &types.EntityError{Name: def.Name, Key: def.FormatKey(key), Err: err}
	}
	return err
}

// checkRefs verifies that key fields referring to another kind name an
// existing record, e.g. an episode's story.
func checkRefs(store sqlite.Store, def *types.EntityDef, key []any) error {
	for i, f := range def.Keys {
		if f.Ref == "" {
			continue
		}
		ref, err := catalog.Entity(f.Ref)
		if err != nil {
			return err
		}
		exists, err := store.Entities(ref).Exists(key[i])
		if err != nil {
			return fmt.Errorf("checking %s: %w", f.Name, err)
		}
		if !exists {
			k := f.Format(key[i])
			return &types.TargetNotFoundError{Name: ref.Name, Key: k, Hint: dsl.CreateHint(ref, k)}
		}
	}
	return nil
}
