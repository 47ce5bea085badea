package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/provc/provc/internal/gen"
)

// ErrNotFound is returned when a requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Artifact returns the recorded artifact with the given descriptor ID.
func (l *Ledger) Artifact(ctx context.Context, id string) (gen.Artifact, error) {
	var a gen.Artifact
	err := l.db.QueryRowContext(ctx, `
		SELECT id, name, module, method, source
		FROM artifacts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Module, &a.Method, &a.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("read artifact: %w", err)
	}
	return a, nil
}

// Artifacts returns all recorded artifacts in emission order.
func (l *Ledger) Artifacts(ctx context.Context) ([]gen.Artifact, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, module, method, source
		FROM artifacts ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []gen.Artifact
	for rows.Next() {
		var a gen.Artifact
		if err := rows.Scan(&a.ID, &a.Name, &a.Module, &a.Method, &a.Source); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return out, nil
}

// ModuleArtifacts returns the artifacts generated for one module, in
// emission order.
func (l *Ledger) ModuleArtifacts(ctx context.Context, module string) ([]gen.Artifact, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, module, method, source
		FROM artifacts WHERE module = ? ORDER BY seq
	`, module)
	if err != nil {
		return nil, fmt.Errorf("list module artifacts: %w", err)
	}
	defer rows.Close()

	var out []gen.Artifact
	for rows.Next() {
		var a gen.Artifact
		if err := rows.Scan(&a.ID, &a.Name, &a.Module, &a.Method, &a.Source); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list module artifacts: %w", err)
	}
	return out, nil
}
