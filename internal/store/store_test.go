package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provc/provc/internal/gen"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func testArtifact(id, name, module string) gen.Artifact {
	return gen.Artifact{
		ID:     id,
		Name:   name,
		Module: module,
		Method: module + ".m",
		Source: "package factories\n",
	}
}

func TestOpenCreatesSession(t *testing.T) {
	l := openTestLedger(t)
	assert.NotEmpty(t, l.SessionID())
}

func TestEmitAndReadBack(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Emit(testArtifact("id-1", "Orders_CreateFactory", "Orders")))

	got, err := l.Artifact(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Orders_CreateFactory", got.Name)
	assert.Equal(t, "Orders", got.Module)
	assert.Equal(t, "package factories\n", got.Source)
}

func TestEmitIsWriteOncePerID(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	first := testArtifact("id-1", "Orders_CreateFactory", "Orders")
	require.NoError(t, l.Emit(first))

	// A second emission with the same descriptor ID is silently
	// ignored, even with different content.
	second := testArtifact("id-1", "Changed", "Orders")
	require.NoError(t, l.Emit(second))

	got, err := l.Artifact(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Orders_CreateFactory", got.Name)

	all, err := l.Artifacts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEmitSequenceHasNoGaps(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Emit(testArtifact("id-1", "A", "Orders")))
	// Conflicted emission writes no row and must not consume a seq.
	require.NoError(t, l.Emit(testArtifact("id-1", "A", "Orders")))
	require.NoError(t, l.Emit(testArtifact("id-2", "B", "Billing")))

	rows, err := l.db.Query(`SELECT seq FROM artifacts ORDER BY seq`)
	require.NoError(t, err)
	defer rows.Close()

	var seqs []int
	for rows.Next() {
		var s int
		require.NoError(t, rows.Scan(&s))
		seqs = append(seqs, s)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2}, seqs)
}

func TestArtifactNotFound(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Artifact(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtifactsEmissionOrder(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Emit(testArtifact("id-1", "A", "Orders")))
	require.NoError(t, l.Emit(testArtifact("id-2", "B", "Billing")))
	require.NoError(t, l.Emit(testArtifact("id-3", "C", "Orders")))

	all, err := l.Artifacts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
	assert.Equal(t, "C", all[2].Name)
}

func TestModuleArtifacts(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Emit(testArtifact("id-1", "A", "Orders")))
	require.NoError(t, l.Emit(testArtifact("id-2", "B", "Billing")))
	require.NoError(t, l.Emit(testArtifact("id-3", "C", "Orders")))

	orders, err := l.ModuleArtifacts(ctx, "Orders")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "A", orders[0].Name)
	assert.Equal(t, "C", orders[1].Name)
}

func TestReopenKeepsArtifactsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l1.Emit(testArtifact("id-1", "A", "Orders")))
	firstSession := l1.SessionID()
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()

	assert.NotEqual(t, firstSession, l2.SessionID())

	// Write-once holds across sessions too.
	require.NoError(t, l2.Emit(testArtifact("id-1", "Changed", "Orders")))
	all, err := l2.Artifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].Name)
}
