package host

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/online-compiler/internal/executor"

	_ "modernc.org/sqlite"
)

// sqlPipeline is the sequential-statement pattern: the source is split into
// individual statements and each runs in order against one ephemeral SQLite
// database file inside the workspace. The first failing statement appends an
// error note and stops the sequence — no rollback, no retries.
//
// Unlike every other pipeline, failures here surface inside the accumulated
// output log rather than on the error channel: partial results up to the
// failing statement are part of the answer.
type sqlPipeline struct {
	deps *deps
}

func (p *sqlPipeline) run(ctx context.Context, source string) *executor.Result {
	start := time.Now()

	ws, err := p.deps.ws.acquire()
	if err != nil {
		return systemFailure(err)
	}
	defer ws.release()

	db, err := sql.Open("sqlite", ws.path("playground.db"))
	if err != nil {
		return systemFailure(fmt.Errorf("opening scratch database: %w", err))
	}
	defer db.Close()

	// The SQL pipeline has no child process to kill, so the time limit is
	// enforced through the statement contexts instead.
	runCtx, cancel := context.WithTimeout(ctx, p.deps.cfg.RunTimeout)
	defer cancel()

	var log []string
	for _, stmt := range splitStatements(source) {
		section, err := p.runStatement(runCtx, db, stmt)
		if err != nil {
			if runCtx.Err() != nil {
				return executor.Failure(executor.KindTimeout, timeoutMessage, time.Since(start))
			}
			log = append(log, "SQL Error: "+err.Error())
			break
		}
		log = append(log, section...)
	}

	return executor.Success(strings.Join(log, "\n"), time.Since(start))
}

// runStatement executes one statement and renders its log section: a labeled
// result table for queries, an affected-row note for everything else.
func (p *sqlPipeline) runStatement(ctx context.Context, db *sql.DB, stmt string) ([]string, error) {
	if isQuery(stmt) {
		rows, err := db.QueryContext(ctx, stmt)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return renderQuery(stmt, rows)
	}

	res, err := db.ExecContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return []string{
		"Statement: " + stmt,
		fmt.Sprintf("Rows affected: %d", affected),
		"",
	}, nil
}

func isQuery(stmt string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(stmt)), "SELECT")
}

// renderQuery formats a result set as a labeled section with a column
// header, a dashed separator, and one line per row.
func renderQuery(stmt string, rows *sql.Rows) ([]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	section := []string{"Query: " + stmt}
	anyRows := false
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		if !anyRows {
			header := strings.Join(cols, " | ")
			section = append(section, "Results:", header, strings.Repeat("-", len(header)))
			anyRows = true
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		section = append(section, strings.Join(cells, " | "))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !anyRows {
		section = append(section, "No results returned.")
	}
	section = append(section, "")
	return section, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// splitStatements breaks the source into individual statements on the ";"
// terminator. Comment-only lines ("--") and blank lines are skipped; a
// trailing statement without a terminator is kept.
func splitStatements(source string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}
