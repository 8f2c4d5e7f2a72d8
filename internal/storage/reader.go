package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/generator"
)

// ErrNoRuns is returned when the database holds no run yet.
var ErrNoRuns = errors.New("no runs recorded")

// ErrRuleNotFound is returned when a run has no rule with the requested name.
var ErrRuleNotFound = errors.New("rule not found")

// Run is the summary of a stored generator run.
type Run struct {
	ID             string
	StartedAt      time.Time
	Duration       time.Duration
	FilesProcessed int
	Rules          int
	Options        int
	Problems       int
	Branch         string
	Commit         string
}

// Reader queries stored runs.
type Reader struct {
	db *sql.DB
}

// NewReader creates a Reader instance.
// DB should have schema already created.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// LatestRun returns the most recent run, or ErrNoRuns.
func (r *Reader) LatestRun(ctx context.Context) (*Run, error) {
	run := &Run{}
	var startedAt string
	var durationMS int64

	err := sq.Select("id", "started_at", "duration_ms", "files_processed", "rule_count", "option_count", "problem_count",
		"branch", "git_commit").
		From("runs").
		OrderBy("started_at DESC").
		Limit(1).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&run.ID, &startedAt, &durationMS, &run.FilesProcessed, &run.Rules, &run.Options, &run.Problems,
			&run.Branch, &run.Commit)
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	run.StartedAt, _ = time.Parse(timeFormat, startedAt)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}

// Rules returns every rule of a run with its options, ordered by rule set and name.
func (r *Reader) Rules(ctx context.Context, runID string) ([]generator.Rule, error) {
	rows, err := sq.Select("id", "rule_set", "name", "file_path", "line", "doc").
		From("rules").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rule_set", "name").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}

	type ruleRow struct {
		id   int64
		rule generator.Rule
	}
	var ruleRows []ruleRow
	for rows.Next() {
		var row ruleRow
		if err := rows.Scan(&row.id, &row.rule.RuleSet, &row.rule.Name, &row.rule.File, &row.rule.Line, &row.rule.Doc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		ruleRows = append(ruleRows, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	rules := make([]generator.Rule, 0, len(ruleRows))
	for _, row := range ruleRows {
		opts, err := r.optionsOf(ctx, row.id)
		if err != nil {
			return nil, err
		}
		row.rule.Options = opts
		rules = append(rules, row.rule)
	}
	return rules, nil
}

// Options returns the options of the named rule in a run, in declaration order.
func (r *Reader) Options(ctx context.Context, runID, rule string) ([]collection.Option, error) {
	var ruleID int64
	err := sq.Select("id").
		From("rules").
		Where(sq.Eq{"run_id": runID, "name": rule}).
		Limit(1).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&ruleID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, rule)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rule %s: %w", rule, err)
	}
	return r.optionsOf(ctx, ruleID)
}

func (r *Reader) optionsOf(ctx context.Context, ruleID int64) ([]collection.Option, error) {
	rows, err := sq.Select("name", "description", "value_kind", "default_value",
		"platform_kind", "platform_value", "deprecated").
		From("options").
		Where(sq.Eq{"rule_id": ruleID}).
		OrderBy("position").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []collection.Option{}
	for rows.Next() {
		var opt collection.Option
		var kind, value string
		var platformKind, platformValue, deprecated sql.NullString
		if err := rows.Scan(&opt.Name, &opt.Description, &kind, &value, &platformKind, &platformValue, &deprecated); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}

		if opt.DefaultValue, err = DecodeDefault(kind, value); err != nil {
			return nil, fmt.Errorf("option %s: %w", opt.Name, err)
		}
		if platformKind.Valid {
			if opt.DefaultPlatformValue, err = DecodeDefault(platformKind.String, platformValue.String); err != nil {
				return nil, fmt.Errorf("option %s: %w", opt.Name, err)
			}
		}
		if deprecated.Valid {
			opt.Deprecated = &deprecated.String
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// Problems returns the documentation problems of a run ordered by file and unit.
func (r *Reader) Problems(ctx context.Context, runID string) ([]generator.Problem, error) {
	rows, err := sq.Select("file_path", "unit", "property", "line", "message").
		From("problems").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("file_path", "unit", "id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query problems: %w", err)
	}
	defer rows.Close()

	problems := []generator.Problem{}
	for rows.Next() {
		var p generator.Problem
		if err := rows.Scan(&p.File, &p.Unit, &p.Property, &p.Line, &p.Message); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}
