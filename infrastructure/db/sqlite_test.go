package db

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test ledger in a temporary directory
func createTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()

	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	return ledger
}

func testArtifact(runID string, code int) *label.Artifact {
	return &label.Artifact{
		RunID:     runID,
		Code:      code,
		Type:      label.PackageSample,
		Payload:   label.FormatPayload(code, label.PackageSample, "http://app.seedtabs.com/packages/{code}?type={type}"),
		Path:      filepath.Join("out", "x.png"),
		Width:     111,
		Height:    125,
		Version:   3,
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

func TestNewSQLiteLedger(t *testing.T) {
	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"), nil)

	assert.NoError(t, err)
	require.NotNil(t, ledger)
	assert.NotNil(t, ledger.db)
	assert.True(t, ledger.db.Migrator().HasTable(&IssuedLabelModel{}))
	assert.NoError(t, ledger.Close())
}

func TestNewSQLiteLedger_InvalidPath(t *testing.T) {
	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "missing", "dir", "ledger.db"), nil)

	assert.Error(t, err)
	assert.Nil(t, ledger)
}

func TestSQLiteLedger_RecordAndIssued(t *testing.T) {
	ledger := createTestLedger(t)
	ctx := context.Background()

	for _, code := range []int{100, 101, 103} {
		require.NoError(t, ledger.Record(ctx, testArtifact("run-1", code)))
	}
	// A second run reprinting 101 must not duplicate it in the result.
	require.NoError(t, ledger.Record(ctx, testArtifact("run-2", 101)))

	issued, err := ledger.Issued(ctx, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 101, 103}, issued)

	issued, err = ledger.Issued(ctx, 101, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{101}, issued)

	issued, err = ledger.Issued(ctx, 200, 10)
	require.NoError(t, err)
	assert.Empty(t, issued)
}

func TestSQLiteLedger_IssuedZeroCount(t *testing.T) {
	ledger := createTestLedger(t)

	issued, err := ledger.Issued(context.Background(), 100, 0)

	assert.NoError(t, err)
	assert.Empty(t, issued)
}

func TestSQLiteLedger_IssuedNearLargestCode(t *testing.T) {
	ledger := createTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Record(ctx, testArtifact("run-1", math.MaxInt-2)))

	issued, err := ledger.Issued(ctx, math.MaxInt-3, 10)

	require.NoError(t, err)
	assert.Equal(t, []int{math.MaxInt - 2}, issued)
}

func TestSQLiteLedger_RecordStoresArtifact(t *testing.T) {
	ledger := createTestLedger(t)
	artifact := testArtifact("run-1", 42)
	artifact.Version = 5
	artifact.Overflowed = true

	require.NoError(t, ledger.Record(context.Background(), artifact))

	var model IssuedLabelModel
	require.NoError(t, ledger.db.Where("code = ?", 42).First(&model).Error)
	assert.Equal(t, "run-1", model.RunID)
	assert.Equal(t, "sample", model.Type)
	assert.Equal(t, artifact.Payload, model.Payload)
	assert.Equal(t, 5, model.Version)
	assert.True(t, model.Overflowed)
}

func TestSQLiteLedger_Close(t *testing.T) {
	ledger, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)

	assert.NoError(t, ledger.Close())
}

func TestGormLogger_LogMode(t *testing.T) {
	logger := &GormLogger{}

	result := logger.LogMode(0)

	assert.Equal(t, logger, result)
}
