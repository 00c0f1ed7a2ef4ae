// Package sqlite implements the world database: one SQLite file per world,
// with one table per entity kind and one per relation kind, all generated
// from descriptors in pkg/types.
package sqlite

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Store gives access to entity and relation tables, either directly on the
// database or inside a transaction.
type Store interface {
	Entities(def *types.EntityDef) *EntityTable
	Relations(def *types.RelationDef) *RelationTable
}

var (
	_ Store = (*Backend)(nil)
	_ Store = (*Tx)(nil)
)

// Backend is an open world database.
type Backend struct {
	db     *sqlx.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and enables
// foreign-key enforcement on the connection. Tables are not created; call
// Init with the definitions to use.
func Open(path string, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One invocation, one connection: keeps PRAGMAs and transactions on the
	// same session.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	logger.Debug("database opened", "path", path)
	return &Backend{db: db, path: path, logger: logger}, nil
}

// Init creates the tables of every given definition. It is idempotent and
// cheap enough to run on every invocation.
func (b *Backend) Init(entities []*types.EntityDef, relations []*types.RelationDef) error {
	for _, def := range entities {
		if err := b.Entities(def).InitTable(); err != nil {
			return err
		}
	}
	for _, def := range relations {
		if err := b.Relations(def).InitTable(); err != nil {
			return err
		}
	}
	b.logger.Debug("schema ready", "entities", len(entities), "relations", len(relations))
	return nil
}

// Path returns the database file path.
func (b *Backend) Path() string { return b.path }

// Close releases the connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Entities returns the table accessor for def, outside any transaction.
func (b *Backend) Entities(def *types.EntityDef) *EntityTable {
	return &EntityTable{def: def, q: b.db}
}

// Relations returns the table accessor for def, outside any transaction.
func (b *Backend) Relations(def *types.RelationDef) *RelationTable {
	return &RelationTable{def: def, q: b.db}
}

// Tx is a write transaction spanning any number of tables.
type Tx struct {
	tx *sqlx.Tx
}

// Entities returns the table accessor for def bound to the transaction.
func (t *Tx) Entities(def *types.EntityDef) *EntityTable {
	return &EntityTable{def: def, q: t.tx}
}

// Relations returns the table accessor for def bound to the transaction.
func (t *Tx) Relations(def *types.RelationDef) *RelationTable {
	return &RelationTable{def: def, q: t.tx}
}

// Update runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise, so an entity and its relations are written
// together or not at all.
func (b *Backend) Update(fn func(tx *Tx) error) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		b.logger.Debug("transaction rolled back", "error", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
