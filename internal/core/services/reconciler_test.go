package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/idset"
)

// --- Mock implementations ---

// failingRecords wraps a memory store and injects errors.
type failingRecords struct {
	*memory.RecordStore
	readErr  error
	writeErr error
}

func (f *failingRecords) ReadAll(ctx context.Context) ([]domain.Record, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.RecordStore.ReadAll(ctx)
}

func (f *failingRecords) WriteAll(ctx context.Context, records []domain.Record) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.RecordStore.WriteAll(ctx, records)
}

// failingVectors wraps a memory index and injects errors.
type failingVectors struct {
	*memory.VectorIndex
	enumErr    error
	removeErr  error
	persistErr error
}

func (f *failingVectors) Enumerate(ctx context.Context) (domain.VectorSnapshot, error) {
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	return f.VectorIndex.Enumerate(ctx)
}

func (f *failingVectors) Remove(ctx context.Context, ids []domain.VectorID) (int, error) {
	if f.removeErr != nil {
		return 0, f.removeErr
	}
	return f.VectorIndex.Remove(ctx, ids)
}

func (f *failingVectors) Persist(ctx context.Context) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	return f.VectorIndex.Persist(ctx)
}

// mockBackups records backup requests and fails on a chosen path.
type mockBackups struct {
	calls  []string
	failOn string
}

var _ driven.BackupStore = (*mockBackups)(nil)

func (m *mockBackups) Backup(path string) (string, error) {
	m.calls = append(m.calls, path)
	if path == m.failOn {
		return "", errors.New("disk full")
	}
	return path + ".bak", nil
}

func fixture() (*memory.RecordStore, *memory.VectorIndex) {
	records := memory.NewRecordStore(build(
		rec{ID: id(1), Text: "hello world", Decided: true, Timestamp: 10},
		rec{ID: id(2), Text: "Hello World", Timestamp: 99},
		rec{ID: id(3), Text: "hello  world", Timestamp: 50},
		rec{ID: id(4), Text: "something else", Extra: map[string]string{"tags": `["x","y"]`}},
		rec{ID: `"not-a-number"`, Text: "broken"},
	)...)
	vectors := memory.NewVectorIndex(vids(1, 2, 3, 4, 100, 101)...)
	return records, vectors
}

// ==================== Plan Tests ====================

func TestReconcileService_Plan(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, &mockBackups{})

	plan, err := svc.Plan(context.Background(), domain.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"hello world", "something else"}, texts(plan.Kept))
	assert.Equal(t, vids(2, 3, 100, 101), plan.OrphanVectors)
	assert.Equal(t, vids(2, 3), plan.FilteredVectors)
	assert.Equal(t, 1, plan.Counts.InvalidID)

	// Planning writes nothing.
	assert.Zero(t, records.Writes())
	assert.Zero(t, vectors.Persists())
}

func TestReconcileService_Plan_ReadFailures(t *testing.T) {
	records, vectors := fixture()

	svc := NewReconcileService(&failingRecords{RecordStore: records, readErr: errors.New("bad json")}, vectors, nil)
	_, err := svc.Plan(context.Background(), domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrStoreReadFailure)

	svc = NewReconcileService(records, &failingVectors{VectorIndex: vectors, enumErr: errors.New("corrupt")}, nil)
	_, err = svc.Plan(context.Background(), domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrStoreReadFailure)
}

func TestReconcileService_Plan_InvalidOptions(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, nil)

	opts := domain.DefaultOptions()
	opts.MinConfidence = nan()
	_, err := svc.Plan(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== Apply Tests ====================

func TestReconcileService_Apply(t *testing.T) {
	records, vectors := fixture()
	backups := &mockBackups{}
	svc := NewReconcileService(records, vectors, backups)
	ctx := context.Background()

	plan, result, err := svc.Run(ctx, domain.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, result.DryRun)
	assert.True(t, result.RecordsWritten)
	assert.True(t, result.VectorsWritten)
	assert.Equal(t, 4, result.Removed)
	assert.Equal(t, []string{records.Path(), vectors.Path()}, backups.calls)
	assert.Equal(t, records.Path()+".bak", result.RecordBackup)
	assert.Equal(t, vectors.Path()+".bak", result.VectorBackup)

	// Post-apply the stores pair one to one.
	after, err := records.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(plan.Kept))
	kept := idset.New()
	for _, r := range after {
		kept.Add(r.VectorID)
	}
	assert.True(t, kept.Equal(idset.Of(vectors.IDs()...)))

	// Unknown fields survive.
	raw, ok := after[1].Raw("tags")
	require.True(t, ok)
	assert.JSONEq(t, `["x","y"]`, string(raw))
}

func TestReconcileService_Idempotent(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, nil)
	ctx := context.Background()

	opts := domain.DefaultOptions()
	opts.Backup = false
	_, _, err := svc.Run(ctx, opts)
	require.NoError(t, err)

	plan, err := svc.Plan(ctx, opts)
	require.NoError(t, err)
	assert.False(t, plan.HasChanges())
	assert.Empty(t, plan.Removals())
	assert.Equal(t, plan.Counts.Before, plan.Counts.AfterDedupe)
	assert.Equal(t, plan.Counts.AfterDedupe, plan.Counts.AfterCap)
}

func TestReconcileService_Apply_DryRun(t *testing.T) {
	records, vectors := fixture()
	backups := &mockBackups{}
	svc := NewReconcileService(records, vectors, backups)

	opts := domain.DefaultOptions()
	opts.DryRun = true
	_, result, err := svc.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.RecordsWritten)
	assert.False(t, result.VectorsWritten)
	assert.Empty(t, backups.calls)
	assert.Zero(t, records.Writes())
	assert.Zero(t, vectors.Persists())
	assert.Len(t, vectors.IDs(), 6)
}

func TestReconcileService_Apply_NilPlan(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, nil)

	_, err := svc.Apply(context.Background(), nil, domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcileService_Apply_BackupFailureAborts(t *testing.T) {
	tests := []struct {
		name   string
		failOn func(r driven.RecordStore, v driven.VectorIndex) string
	}{
		{"records", func(r driven.RecordStore, _ driven.VectorIndex) string { return r.Path() }},
		{"vectors", func(_ driven.RecordStore, v driven.VectorIndex) string { return v.Path() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, vectors := fixture()
			backups := &mockBackups{failOn: tt.failOn(records, vectors)}
			svc := NewReconcileService(records, vectors, backups)

			_, _, err := svc.Run(context.Background(), domain.DefaultOptions())

			assert.ErrorIs(t, err, domain.ErrBackupFailure)
			assert.Zero(t, records.Writes())
			assert.Zero(t, vectors.Persists())
			assert.Len(t, vectors.IDs(), 6)
		})
	}
}

func TestReconcileService_Apply_NoBackupStore(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, nil)

	_, _, err := svc.Run(context.Background(), domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrBackupFailure)
	assert.Zero(t, records.Writes())
}

func TestReconcileService_Apply_RecordWriteFailure(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(&failingRecords{RecordStore: records, writeErr: errors.New("read-only")}, vectors, &mockBackups{})

	_, result, err := svc.Run(context.Background(), domain.DefaultOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreWriteFailure)
	var we *domain.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, domain.StoreRecords, we.Store)
	assert.False(t, we.RecordsWritten)
	assert.False(t, we.VectorsWritten)
	assert.False(t, IsPartial(err))
	assert.False(t, result.RecordsWritten)
	assert.Zero(t, vectors.Persists())
}

func TestReconcileService_Apply_VectorWriteFailureIsPartial(t *testing.T) {
	tests := []struct {
		name    string
		vectors func(*memory.VectorIndex) *failingVectors
	}{
		{"remove", func(v *memory.VectorIndex) *failingVectors {
			return &failingVectors{VectorIndex: v, removeErr: errors.New("locked")}
		}},
		{"persist", func(v *memory.VectorIndex) *failingVectors {
			return &failingVectors{VectorIndex: v, persistErr: errors.New("no space")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, vectors := fixture()
			svc := NewReconcileService(records, tt.vectors(vectors), &mockBackups{})

			_, result, err := svc.Run(context.Background(), domain.DefaultOptions())

			require.Error(t, err)
			var we *domain.WriteError
			require.ErrorAs(t, err, &we)
			assert.Equal(t, domain.StoreVectors, we.Store)
			assert.True(t, we.RecordsWritten)
			assert.False(t, we.VectorsWritten)
			assert.True(t, IsPartial(err))
			assert.True(t, result.RecordsWritten)
			assert.False(t, result.VectorsWritten)
			assert.Equal(t, 1, records.Writes())
		})
	}
}

func TestReconcileService_Degraded(t *testing.T) {
	records, _ := fixture()
	vectors := memory.NewOpaqueVectorIndex(vids(1, 2, 3, 4, 100)...)
	svc := NewReconcileService(records, vectors, nil)

	opts := domain.DefaultOptions()
	opts.Backup = false
	plan, result, err := svc.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, plan.Degraded)
	assert.Nil(t, plan.OrphanVectors)
	assert.Equal(t, 2, result.Removed)
	// The orphan stays: it cannot be discovered.
	assert.Equal(t, vids(1, 4, 100), vectors.IDs())
}

func TestReconcileService_Inspect(t *testing.T) {
	records, vectors := fixture()
	svc := NewReconcileService(records, vectors, nil)

	info, err := svc.Inspect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, vectors.Path(), info.Path)
	assert.Equal(t, 6, info.Count)
	assert.True(t, info.Enumerable)
}
