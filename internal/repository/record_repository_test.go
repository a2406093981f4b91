package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/model"
)

func newTestRepository(t *testing.T) *RecordRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "tasklist.db"))
	require.NoError(t, err)
	repo := NewRecordRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRecordRepository_LoadAbsent(t *testing.T) {
	repo := newTestRepository(t)

	value, found, err := repo.Load(context.Background(), model.RecordTasks)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestRecordRepository_SaveOverwrites(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.RecordCategories, `["Work"]`))
	require.NoError(t, repo.Save(ctx, model.RecordCategories, `["Work","Home"]`))

	value, found, err := repo.Load(ctx, model.RecordCategories)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["Work","Home"]`, value)

	_, found, err = repo.Load(ctx, model.RecordTasks)
	require.NoError(t, err)
	assert.False(t, found, "records are independent")
}

func TestRecordRepository_SaveAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx,
		model.Record{Name: model.RecordTasks, Value: `[]`},
		model.Record{Name: model.RecordCategories, Value: `["Errands"]`},
	))

	tasks, _, err := repo.Load(ctx, model.RecordTasks)
	require.NoError(t, err)
	assert.Equal(t, `[]`, tasks)
	categories, _, err := repo.Load(ctx, model.RecordCategories)
	require.NoError(t, err)
	assert.Equal(t, `["Errands"]`, categories)
}

func TestRecordRepository_SaveFailureIsStorageFailure(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Close())

	err := repo.Save(context.Background(), model.RecordTasks, `[]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFailure)

	err = repo.SaveAll(context.Background(), model.Record{Name: model.RecordTasks, Value: `[]`})
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestOpen_SQLite(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*RecordRepository)
	assert.True(t, ok)
}

func TestEnsureDirForSQLite(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, ensureDirForSQLite(":memory:"))
	assert.NoError(t, ensureDirForSQLite("file::memory:?cache=shared"))
	assert.NoError(t, ensureDirForSQLite("file:"+filepath.Join(dir, "nested", "x.db")+"?_busy_timeout=5000"))
	assert.DirExists(t, filepath.Join(dir, "nested"))
}
