package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"checktree/internal/model"
	"checktree/internal/tree"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// TreeSummary is a row of ListTrees.
type TreeSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Nodes     int       `json:"nodes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	// WAL allows the web server to read while the CLI/TUI writes;
	// busy_timeout avoids "database is locked" between processes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trees (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tree_checked (
			tree_id TEXT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			PRIMARY KEY (tree_id, value)
		);`,
		`CREATE TABLE IF NOT EXISTS tree_expanded (
			tree_id TEXT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			PRIMARY KEY (tree_id, value)
		);`,
		`INSERT OR IGNORE INTO state_meta(k, v) VALUES('schema_version', '` + schemaVersion + `');`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SaveTree inserts or replaces a tree definition. Existing state is kept;
// values no longer in the definition are ignored on load.
func (s Store) SaveTree(ctx context.Context, def model.TreeDef) error {
	def.ID = strings.TrimSpace(def.ID)
	if err := ValidateTreeID(def.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO trees(id, label, json, updated_at_unixms) VALUES(?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, json = excluded.json, updated_at_unixms = excluded.updated_at_unixms`,
		def.ID, def.Label, string(raw), time.Now().UTC().UnixMilli())
	return err
}

func (s Store) LoadTree(ctx context.Context, id string) (model.TreeDef, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.TreeDef{}, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM trees WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TreeDef{}, fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	if err != nil {
		return model.TreeDef{}, err
	}
	var def model.TreeDef
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return model.TreeDef{}, fmt.Errorf("decode tree %s: %w", id, err)
	}
	return def, nil
}

func (s Store) ListTrees(ctx context.Context) ([]TreeSummary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, label, json, updated_at_unixms FROM trees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TreeSummary{}
	for rows.Next() {
		var (
			sum  TreeSummary
			raw  string
			ms   int64
			tdef model.TreeDef
		)
		if err := rows.Scan(&sum.ID, &sum.Label, &raw, &ms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &tdef); err == nil {
			model.Walk(tdef.Nodes, func(model.Descriptor, int) bool {
				sum.Nodes++
				return true
			})
		}
		sum.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s Store) DeleteTree(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tree_checked", "tree_expanded"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE tree_id = ?`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trees WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}
	return tx.Commit()
}

func (s Store) LoadState(ctx context.Context, id string) (tree.State, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return tree.State{}, err
	}
	defer db.Close()

	checked, err := queryValues(ctx, db, `SELECT value FROM tree_checked WHERE tree_id = ? ORDER BY value`, id)
	if err != nil {
		return tree.State{}, err
	}
	expanded, err := queryValues(ctx, db, `SELECT value FROM tree_expanded WHERE tree_id = ? ORDER BY value`, id)
	if err != nil {
		return tree.State{}, err
	}
	return tree.State{Checked: checked, Expanded: expanded}, nil
}

// SaveState replaces the tree's checked and expanded sets.
func (s Store) SaveState(ctx context.Context, id string, st tree.State) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM trees WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrTreeNotFound, id)
	}

	for _, t := range []struct {
		table  string
		values []string
	}{
		{"tree_checked", st.Checked},
		{"tree_expanded", st.Expanded},
	} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE tree_id = ?`, id); err != nil {
			return err
		}
		for _, v := range dedupe(t.values) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO `+t.table+`(tree_id, value) VALUES(?, ?)`, id, v); err != nil {
				return err
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE trees SET updated_at_unixms = ? WHERE id = ?`, time.Now().UTC().UnixMilli(), id); err != nil {
		return err
	}
	return tx.Commit()
}

// Open loads a tree and its state into a controller.
func (s Store) Open(ctx context.Context, id string, opts ...tree.Option) (*tree.Controller, error) {
	def, err := s.LoadTree(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := s.LoadState(ctx, id)
	if err != nil {
		return nil, err
	}
	return tree.New(def, st, opts...)
}

func queryValues(ctx context.Context, db *sql.DB, q string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func dedupe(vs []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
