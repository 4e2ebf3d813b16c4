package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/itfview/pkg/adapters/file"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports"
	"github.com/aretw0/itfview/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements PreferenceStore
var _ ports.PreferenceStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	tests.RunPreferenceStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tab-1", domain.DefaultDisplayOptions()))
	require.NoError(t, store.Save(ctx, "tab-1", domain.DisplayOptions{ViewMode: domain.SingleTable}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tab-1.json", entries[0].Name())

	loaded, err := store.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SingleTable, loaded.ViewMode)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "not-yet"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, store.Save(ctx, id, domain.DefaultDisplayOptions()), "id %q", id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, "id %q", id)
		assert.NotErrorIs(t, err, domain.ErrViewNotFound)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrViewNotFound)
}
