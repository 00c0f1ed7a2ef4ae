package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// ExportedTable reports one file written by Export.
type ExportedTable struct {
	Table string `json:"table"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// Export writes every given table to <dir>/<table>.jsonl, one JSON object per
// row. Each file is replaced atomically.
func (b *Backend) Export(dir string, entities []*types.EntityDef, relations []*types.RelationDef) ([]ExportedTable, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	var out []ExportedTable
	for _, def := range entities {
		rows, err := b.Entities(def).List()
		if err != nil {
			return nil, err
		}
		records := make([]json.RawMessage, 0, len(rows))
		for _, e := range rows {
			data, err := json.Marshal(def.Flatten(e))
			if err != nil {
				return nil, fmt.Errorf("encoding %s row %d: %w", def.Table, e.ID, err)
			}
			records = append(records, data)
		}
		path := filepath.Join(dir, def.Table+".jsonl")
		if err := writeJSONL(path, records); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		out = append(out, ExportedTable{Table: def.Table, Path: path, Rows: len(records)})
	}

	for _, def := range relations {
		rels, err := b.Relations(def).All()
		if err != nil {
			return nil, err
		}
		records := make([]json.RawMessage, 0, len(rels))
		for _, r := range rels {
			row := map[string]any{
				"from_id":    r.FromID,
				"to_id":      r.ToID,
				"created_at": r.CreatedAt,
			}
			for k, v := range r.Attrs {
				row[k] = v
			}
			data, err := json.Marshal(row)
			if err != nil {
				return nil, fmt.Errorf("encoding %s edge %d->%d: %w", def.Table, r.FromID, r.ToID, err)
			}
			records = append(records, data)
		}
		path := filepath.Join(dir, def.Table+".jsonl")
		if err := writeJSONL(path, records); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		out = append(out, ExportedTable{Table: def.Table, Path: path, Rows: len(records)})
	}

	b.logger.Debug("export finished", "dir", dir, "tables", len(out))
	return out, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
