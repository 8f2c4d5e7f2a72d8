package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mvp-joe/confdoc/internal/generator"
	"github.com/mvp-joe/confdoc/internal/git"
)

// Writer records generator runs in SQLite.
type Writer struct {
	db       *sql.DB
	now      func() time.Time
	revision git.Revision
}

// NewWriter creates a Writer instance.
// DB must have schema already created via CreateSchema().
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db, now: time.Now}
}

// WithRevision records rev with every subsequent run.
func (w *Writer) WithRevision(rev git.Revision) *Writer {
	w.revision = rev
	return w
}

// WriteRun stores a run with all of its rules, options and problems in a
// single transaction and returns the new run id.
func (w *Writer) WriteRun(ctx context.Context, result *generator.Result) (string, error) {
	runID := uuid.New().String()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	_, err = sq.Insert("runs").
		Columns("id", "started_at", "duration_ms", "files_processed", "rule_count", "option_count", "problem_count",
			"branch", "git_commit").
		Values(
			runID,
			w.now().UTC().Format(timeFormat),
			result.Stats.Duration.Milliseconds(),
			result.Stats.FilesProcessed,
			len(result.Rules),
			countOptions(result.Rules),
			len(result.Problems),
			w.revision.Branch,
			w.revision.Commit,
		).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rule := range result.Rules {
		if err := writeRule(ctx, tx, runID, rule); err != nil {
			return "", err
		}
	}

	for _, p := range result.Problems {
		_, err := sq.Insert("problems").
			Columns("run_id", "file_path", "unit", "property", "line", "message").
			Values(runID, p.File, p.Unit, p.Property, p.Line, p.Message).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to insert problem for %s: %w", p.Unit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func writeRule(ctx context.Context, tx *sql.Tx, runID string, rule generator.Rule) error {
	res, err := sq.Insert("rules").
		Columns("run_id", "rule_set", "name", "file_path", "line", "doc").
		Values(runID, rule.RuleSet, rule.Name, rule.File, rule.Line, rule.Doc).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert rule %s: %w", rule.Name, err)
	}
	ruleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule id for %s: %w", rule.Name, err)
	}

	for i, opt := range rule.Options {
		kind, value, err := EncodeDefault(opt.DefaultValue)
		if err != nil {
			return fmt.Errorf("option %s.%s: %w", rule.Name, opt.Name, err)
		}

		var platformKind, platformValue sql.NullString
		if opt.DefaultPlatformValue != nil {
			k, v, err := EncodeDefault(opt.DefaultPlatformValue)
			if err != nil {
				return fmt.Errorf("option %s.%s: %w", rule.Name, opt.Name, err)
			}
			platformKind = sql.NullString{String: k, Valid: true}
			platformValue = sql.NullString{String: v, Valid: true}
		}

		var deprecated sql.NullString
		if opt.Deprecated != nil {
			deprecated = sql.NullString{String: *opt.Deprecated, Valid: true}
		}

		_, err = sq.Insert("options").
			Columns("rule_id", "position", "name", "description", "value_kind", "default_value",
				"platform_kind", "platform_value", "deprecated").
			Values(ruleID, i, opt.Name, opt.Description, kind, value,
				platformKind, platformValue, deprecated).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert option %s.%s: %w", rule.Name, opt.Name, err)
		}
	}
	return nil
}

// Prune deletes all but the newest keep runs. Rules, options and problems
// of deleted runs go with them through cascading foreign keys.
func (w *Writer) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	newest := sq.Select("id").From("runs").OrderBy("started_at DESC").Limit(uint64(keep))

	res, err := sq.Delete("runs").
		Where(sq.Expr("id NOT IN (?)", newest)).
		RunWith(w.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

func countOptions(rules []generator.Rule) int {
	n := 0
	for _, r := range rules {
		n += len(r.Options)
	}
	return n
}
