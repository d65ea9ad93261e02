package migrate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const historyTable = "schema_history"

// Stable advisory lock key so concurrent runners against the same database
// serialize instead of racing on DDL.
const lockKey = int64(0x62646573) // "bdes"

const (
	kindMigration = "migration"
	kindSeed      = "seed"
)

// Runner applies SQL migration and seed files from disk and records them in a
// single history ledger, keyed by file name and checksum.
type Runner struct {
	db       *sql.DB
	dir      string
	seedsDir string
}

// NewRunner constructs a Runner over the given directories.
func NewRunner(db *sql.DB, dir, seedsDir string) *Runner {
	return &Runner{db: db, dir: dir, seedsDir: seedsDir}
}

// Up applies every pending .up.sql file in lexical order.
func (r *Runner) Up(ctx context.Context) error {
	return r.withLock(ctx, func(ctx context.Context) error {
		applied, err := r.appliedSet(ctx, kindMigration)
		if err != nil {
			return err
		}
		files, err := listSQL(r.dir, ".up.sql")
		if err != nil {
			return err
		}
		for _, f := range files {
			sum, ok := applied[f.name]
			if ok {
				if sum != f.checksum {
					return fmt.Errorf("migrate: %s changed after being applied (checksum mismatch)", f.name)
				}
				continue
			}
			if err := r.applyFile(ctx, f, kindMigration); err != nil {
				return fmt.Errorf("migrate: apply %s: %w", f.name, err)
			}
		}
		return nil
	})
}

// Down rolls back the most recently applied migration using its .down.sql
// counterpart.
func (r *Runner) Down(ctx context.Context) error {
	return r.withLock(ctx, func(ctx context.Context) error {
		var last string
		err := r.db.QueryRowContext(ctx,
			`select name from `+historyTable+` where kind = $1 order by applied_at desc limit 1`,
			kindMigration).Scan(&last)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("migrate: nothing to roll back")
		}
		if err != nil {
			return err
		}

		downName := strings.TrimSuffix(last, ".up.sql") + ".down.sql"
		f, err := loadSQL(filepath.Join(r.dir, downName))
		if err != nil {
			return fmt.Errorf("migrate: missing down file for %s: %w", last, err)
		}
		if err := r.execStatements(ctx, f.body); err != nil {
			return fmt.Errorf("migrate: roll back %s: %w", last, err)
		}
		_, err = r.db.ExecContext(ctx,
			`delete from `+historyTable+` where kind = $1 and name = $2`, kindMigration, last)
		return err
	})
}

// Seed applies every pending seed file. Seeds share the ledger with
// migrations, so re-running seed is a no-op.
func (r *Runner) Seed(ctx context.Context) error {
	return r.withLock(ctx, func(ctx context.Context) error {
		applied, err := r.appliedSet(ctx, kindSeed)
		if err != nil {
			return err
		}
		files, err := listSQL(r.seedsDir, ".sql")
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, ok := applied[f.name]; ok {
				continue
			}
			if err := r.applyFile(ctx, f, kindSeed); err != nil {
				return fmt.Errorf("migrate: apply seed %s: %w", f.name, err)
			}
		}
		return nil
	})
}

// Status returns the applied history in order, one formatted line per entry.
func (r *Runner) Status(ctx context.Context) ([]string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`select name, kind, applied_at from `+historyTable+` order by applied_at asc, name asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			name, kind string
			appliedAt  time.Time
		)
		if err := rows.Scan(&name, &kind, &appliedAt); err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("%s\t%s\t%s", appliedAt.UTC().Format(time.RFC3339), kind, name))
	}
	return out, rows.Err()
}

func (r *Runner) withLock(ctx context.Context, fn func(context.Context) error) error {
	if err := r.ensureLedger(ctx); err != nil {
		return err
	}
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `select pg_advisory_lock($1)`, lockKey); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `select pg_advisory_unlock($1)`, lockKey)
	}()

	return fn(ctx)
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		create table if not exists `+historyTable+` (
			name       text not null,
			kind       text not null,
			checksum   text not null,
			applied_at timestamptz not null default now(),
			primary key (kind, name)
		)`)
	return err
}

func (r *Runner) appliedSet(ctx context.Context, kind string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`select name, checksum from `+historyTable+` where kind = $1`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		out[name] = sum
	}
	return out, rows.Err()
}

func (r *Runner) applyFile(ctx context.Context, f sqlFile, kind string) error {
	if err := r.execStatements(ctx, f.body); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`insert into `+historyTable+`(name, kind, checksum, applied_at) values ($1, $2, $3, $4)`,
		f.name, kind, f.checksum, time.Now().UTC())
	return err
}

func (r *Runner) execStatements(ctx context.Context, body string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(body) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type sqlFile struct {
	name     string
	body     string
	checksum string
}

func loadSQL(path string) (sqlFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return sqlFile{}, err
	}
	sum := sha256.Sum256(raw)
	return sqlFile{
		name:     filepath.Base(path),
		body:     string(raw),
		checksum: hex.EncodeToString(sum[:]),
	}, nil
}

func listSQL(dir, suffix string) ([]sqlFile, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []sqlFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		f, err := loadSQL(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// splitStatements splits on semicolons outside single-quoted strings and
// dollar-quoted blocks.
func splitStatements(body string) []string {
	var (
		stmts   []string
		current strings.Builder
		inQuote bool
		inBlock bool
	)
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' && !inBlock:
			inQuote = !inQuote
		case r == '$' && !inQuote && i+1 < len(runes) && runes[i+1] == '$':
			inBlock = !inBlock
		case r == ';' && !inQuote && !inBlock:
			current.WriteRune(r)
			stmts = append(stmts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if strings.TrimSpace(current.String()) != "" {
		stmts = append(stmts, current.String())
	}
	return stmts
}
