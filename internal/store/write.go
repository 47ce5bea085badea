package store

import (
	"fmt"

	"github.com/provc/provc/internal/gen"
)

// Emit records a generated artifact. Implements gen.ArtifactSink.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a duplicate
// descriptor ID is silently ignored, so re-attempting emission of an
// equal descriptor is always safe. Other constraint violations still
// return errors.
func (l *Ledger) Emit(a gen.Artifact) error {
	res, err := l.db.Exec(`
		INSERT INTO artifacts
		(id, name, module, method, source, session_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		a.ID,
		a.Name,
		a.Module,
		a.Method,
		a.Source,
		l.session,
		l.seq+1,
	)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	// A conflicted insert writes nothing; the sequence stays gapless.
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if rows > 0 {
		l.seq++
	}

	return nil
}
