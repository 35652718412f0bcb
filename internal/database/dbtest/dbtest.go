// Package dbtest holds the behavior every database.Documents backend must share.
package dbtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangled.org/arabica.social/brewjournal/internal/database"
)

// Opener returns a fresh, empty backend. Cleanup is registered on t.
type Opener func(t *testing.T) database.Documents

// RunDocuments exercises the Documents contract against the backend returned by open.
func RunDocuments(t *testing.T, open Opener) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		docs := open(t)
		require.NoError(t, docs.Put(ctx, database.CollectionBeans, "b1", []byte(`{"id":"b1"}`)))

		data, err := docs.Get(ctx, database.CollectionBeans, "b1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"b1"}`, string(data))
	})

	t.Run("put overwrites", func(t *testing.T) {
		docs := open(t)
		require.NoError(t, docs.Put(ctx, database.CollectionBeans, "b1", []byte(`{"v":1}`)))
		require.NoError(t, docs.Put(ctx, database.CollectionBeans, "b1", []byte(`{"v":2}`)))

		data, err := docs.Get(ctx, database.CollectionBeans, "b1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(data))

		n, err := docs.Count(ctx, database.CollectionBeans)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("get missing", func(t *testing.T) {
		docs := open(t)
		_, err := docs.Get(ctx, database.CollectionBrews, "nope")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		docs := open(t)
		require.NoError(t, docs.Put(ctx, database.CollectionBeans, "same", []byte(`{"kind":"bean"}`)))
		require.NoError(t, docs.Put(ctx, database.CollectionPresets, "same", []byte(`{"kind":"preset"}`)))

		data, err := docs.Get(ctx, database.CollectionPresets, "same")
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"preset"}`, string(data))

		_, err = docs.Get(ctx, database.CollectionCafeLogs, "same")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("list and count", func(t *testing.T) {
		docs := open(t)
		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("c%d", i)
			require.NoError(t, docs.Put(ctx, database.CollectionCafeLogs, id, []byte(fmt.Sprintf(`{"id":%q}`, id))))
		}

		raw, err := docs.List(ctx, database.CollectionCafeLogs)
		require.NoError(t, err)
		got := make([]string, 0, len(raw))
		for _, data := range raw {
			got = append(got, string(data))
		}
		sort.Strings(got)
		assert.Equal(t, []string{`{"id":"c0"}`, `{"id":"c1"}`, `{"id":"c2"}`, `{"id":"c3"}`, `{"id":"c4"}`}, got)

		n, err := docs.Count(ctx, database.CollectionCafeLogs)
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		empty, err := docs.List(ctx, database.CollectionBrews)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		docs := open(t)
		require.NoError(t, docs.Put(ctx, database.CollectionBrews, "x", []byte(`{}`)))
		require.NoError(t, docs.Delete(ctx, database.CollectionBrews, "x"))

		_, err := docs.Get(ctx, database.CollectionBrews, "x")
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.ErrorIs(t, docs.Delete(ctx, database.CollectionBrews, "x"), database.ErrNotFound)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		docs := open(t)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, docs.Put(ctx, database.CollectionBeans, fmt.Sprintf("b%02d", i), []byte(`{}`)))
			}(i)
		}
		wg.Wait()

		n, err := docs.Count(ctx, database.CollectionBeans)
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	})
}
