package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPreferenceStoreContract is a reusable test suite that verifies if an
// adapter complies with ports.PreferenceStore.
func RunPreferenceStoreContract(t *testing.T, store ports.PreferenceStore) {
	t.Helper()
	ctx := context.Background()
	viewID := "contract-view-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		opts := domain.DisplayOptions{
			SelectedVariables: []string{"balances", "step"},
			ShowInitialState:  true,
			ViewMode:          domain.SingleTable,
		}
		require.NoError(t, store.Save(ctx, viewID, opts), "Save should not return error")

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, opts, loaded)
	})

	t.Run("Nil Selection Survives", func(t *testing.T) {
		// nil means "every variable", which must not collapse into "none".
		require.NoError(t, store.Save(ctx, viewID, domain.DefaultDisplayOptions()))

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err)
		assert.Nil(t, loaded.SelectedVariables)
		assert.Equal(t, domain.ChainedTables, loaded.ViewMode)
	})

	t.Run("Empty Selection Survives", func(t *testing.T) {
		opts := domain.DisplayOptions{SelectedVariables: []string{}, ViewMode: domain.ChainedTables}
		require.NoError(t, store.Save(ctx, viewID, opts))

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err)
		assert.NotNil(t, loaded.SelectedVariables)
		assert.Empty(t, loaded.SelectedVariables)
	})

	t.Run("Load Isolated From Caller", func(t *testing.T) {
		vars := []string{"a", "b"}
		require.NoError(t, store.Save(ctx, viewID, domain.DisplayOptions{SelectedVariables: vars}))
		vars[0] = "mutated"

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, loaded.SelectedVariables)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+viewID)
		assert.ErrorIs(t, err, domain.ErrViewNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, viewID, domain.DefaultDisplayOptions()))

		require.NoError(t, store.Delete(ctx, viewID), "Delete should not return error")

		_, err := store.Load(ctx, viewID)
		assert.ErrorIs(t, err, domain.ErrViewNotFound, "Load after Delete should return ErrViewNotFound")

		assert.NoError(t, store.Delete(ctx, viewID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := viewID + "-1"
		id2 := viewID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.DefaultDisplayOptions()))
		require.NoError(t, store.Save(ctx, id2, domain.DefaultDisplayOptions()))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)

		require.NoError(t, store.Delete(ctx, id1))
		ids, err = store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})

	t.Run("Concurrent Saves", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := fmt.Sprintf("%s-c%d", viewID, i)
				assert.NoError(t, store.Save(ctx, id, domain.DisplayOptions{SelectedVariables: []string{id}}))
			}()
		}
		wg.Wait()

		for i := range 8 {
			id := fmt.Sprintf("%s-c%d", viewID, i)
			loaded, err := store.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, []string{id}, loaded.SelectedVariables)
		}
	})
}
