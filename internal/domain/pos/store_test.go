package pos

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/attribute"
)

func brandEntity(name string) CatalogEntity {
	return CatalogEntity{ID: uuid.New(), Name: name, Attributes: attribute.NewSet()}
}

func TestCatalogStore_IndexAndResolve(t *testing.T) {
	store := NewCatalogStore()
	acme := brandEntity("Acme")
	globex := brandEntity("Globex")

	store.Index(attribute.KindBrand, []CatalogEntity{acme, globex})

	t.Run("resolves indexed entity", func(t *testing.T) {
		got, ok := store.Resolve(attribute.KindBrand, acme.ID)
		require.True(t, ok)
		assert.Equal(t, "Acme", got.Name)
	})

	t.Run("misses absent id without error", func(t *testing.T) {
		_, ok := store.Resolve(attribute.KindBrand, uuid.New())
		assert.False(t, ok)
	})

	t.Run("misses unindexed kind without error", func(t *testing.T) {
		_, ok := store.Resolve(attribute.KindProduct, acme.ID)
		assert.False(t, ok)
	})

	t.Run("counts per kind", func(t *testing.T) {
		assert.Equal(t, 2, store.Count(attribute.KindBrand))
		assert.Equal(t, 0, store.Count(attribute.KindProduct))
	})
}

func TestCatalogStore_Index_ReplacesBucket(t *testing.T) {
	store := NewCatalogStore()
	first := brandEntity("Acme")
	store.Index(attribute.KindBrand, []CatalogEntity{first})

	t.Run("reindexing the same payload is idempotent", func(t *testing.T) {
		store.Index(attribute.KindBrand, []CatalogEntity{first})
		got, ok := store.Resolve(attribute.KindBrand, first.ID)
		require.True(t, ok)
		assert.Equal(t, first, got)
		assert.Equal(t, 1, store.Count(attribute.KindBrand))
	})

	t.Run("reindexing drops entities missing from the new payload", func(t *testing.T) {
		second := brandEntity("Globex")
		store.Index(attribute.KindBrand, []CatalogEntity{second})

		_, ok := store.Resolve(attribute.KindBrand, first.ID)
		assert.False(t, ok)
		_, ok = store.Resolve(attribute.KindBrand, second.ID)
		assert.True(t, ok)
	})

	t.Run("last duplicate id wins", func(t *testing.T) {
		id := uuid.New()
		store.Index(attribute.KindBrand, []CatalogEntity{
			{ID: id, Name: "Old", Attributes: attribute.NewSet()},
			{ID: id, Name: "New", Attributes: attribute.NewSet()},
		})
		got, ok := store.Resolve(attribute.KindBrand, id)
		require.True(t, ok)
		assert.Equal(t, "New", got.Name)
	})
}

func TestCatalogStore_BrandName(t *testing.T) {
	store := NewCatalogStore()
	acme := brandEntity("Acme")
	store.Index(attribute.KindBrand, []CatalogEntity{acme})

	name, ok := store.BrandName(acme.ID)
	require.True(t, ok)
	assert.Equal(t, "Acme", name)

	_, ok = store.BrandName(uuid.New())
	assert.False(t, ok)
}

func TestCatalogStore_ConcurrentReads(t *testing.T) {
	store := NewCatalogStore()
	acme := brandEntity("Acme")
	store.Index(attribute.KindBrand, []CatalogEntity{acme})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := store.Resolve(attribute.KindBrand, acme.ID); !ok {
					t.Error("indexed entity went missing")
					return
				}
			}
		}()
	}
	wg.Wait()
}
