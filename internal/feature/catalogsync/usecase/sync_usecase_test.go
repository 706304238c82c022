package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmetics_store/internal/feature/catalog/domain/entity"
)

// mockSource は CatalogSource のモックです。
type mockSource struct {
	CosmeticsFunc   func(ctx context.Context) ([]map[string]any, error)
	ShopEntriesFunc func(ctx context.Context) ([]map[string]any, error)
	NewItemsFunc    func(ctx context.Context) ([]map[string]any, error)
}

func (m *mockSource) Cosmetics(ctx context.Context) ([]map[string]any, error) {
	if m.CosmeticsFunc == nil {
		return nil, nil
	}
	return m.CosmeticsFunc(ctx)
}

func (m *mockSource) ShopEntries(ctx context.Context) ([]map[string]any, error) {
	if m.ShopEntriesFunc == nil {
		return nil, nil
	}
	return m.ShopEntriesFunc(ctx)
}

func (m *mockSource) NewItems(ctx context.Context) ([]map[string]any, error) {
	if m.NewItemsFunc == nil {
		return nil, nil
	}
	return m.NewItemsFunc(ctx)
}

// memStore is an in-memory CosmeticStore.
type memStore struct {
	mu    sync.Mutex
	rows  map[string]entity.Cosmetic
	err   map[string]error // id -> error returned by writes
	calls []string
}

func newMemStore(rows ...entity.Cosmetic) *memStore {
	s := &memStore{rows: map[string]entity.Cosmetic{}, err: map[string]error{}}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *memStore) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *memStore) UpsertCatalog(ctx context.Context, c entity.Cosmetic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.err[c.ID]; err != nil {
		return false, err
	}
	_, exists := s.rows[c.ID]
	c.IsNew, c.IsOnSale = false, false
	s.rows[c.ID] = c
	return !exists, nil
}

func (s *memStore) ClearOnSale(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ClearOnSale")
	for id, r := range s.rows {
		r.IsOnSale = false
		s.rows[id] = r
	}
	return nil
}

func (s *memStore) MarkOnSale(ctx context.Context, id string, price int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("MarkOnSale:" + id)
	if err := s.err[id]; err != nil {
		return false, err
	}
	r, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	r.IsOnSale, r.Price, r.LastSync = true, price, at
	s.rows[id] = r
	return true, nil
}

func (s *memStore) ClearNew(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ClearNew")
	for id, r := range s.rows {
		r.IsNew = false
		s.rows[id] = r
	}
	return nil
}

func (s *memStore) UpsertNew(ctx context.Context, c entity.Cosmetic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.err[c.ID]; err != nil {
		return false, err
	}
	if r, ok := s.rows[c.ID]; ok {
		r.IsNew, r.LastSync = true, c.LastSync
		s.rows[c.ID] = r
		return false, nil
	}
	s.rows[c.ID] = c
	return true, nil
}

func (s *memStore) Put(ctx context.Context, cs []entity.Cosmetic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Put")
	for _, c := range cs {
		s.rows[c.ID] = c
	}
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.n++
	return nil
}

func items(v ...map[string]any) func(context.Context) ([]map[string]any, error) {
	return func(context.Context) ([]map[string]any, error) { return v, nil }
}

func failing(err error) func(context.Context) ([]map[string]any, error) {
	return func(context.Context) ([]map[string]any, error) { return nil, err }
}

func item(id, name string) map[string]any {
	return map[string]any{"id": id, "name": name, "images": map[string]any{"icon": id + ".png"}}
}

func newTestSync(src CatalogSource, store CosmeticStore, limit int) *syncUsecase {
	u := NewSyncUsecase(src, store, nil, nil, limit)
	u.now = func() time.Time { return fixedNow }
	return u
}

func TestSyncCatalog(t *testing.T) {
	t.Run("imports and updates", func(t *testing.T) {
		store := newMemStore(entity.Cosmetic{ID: "a", Name: "Old", IsNew: true, IsOnSale: true})
		src := &mockSource{CosmeticsFunc: items(item("a", "A"), item("b", "B"), map[string]any{"id": "junk"})}
		u := newTestSync(src, store, 0)

		res, err := u.SyncCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, CatalogResult{Imported: 1, Updated: 1}, res)
		assert.Equal(t, "A", store.rows["a"].Name)
		assert.False(t, store.rows["a"].IsNew)
		assert.False(t, store.rows["a"].IsOnSale)
		assert.Len(t, store.rows, 2)
	})

	t.Run("rerun converges", func(t *testing.T) {
		store := newMemStore()
		src := &mockSource{CosmeticsFunc: items(item("a", "A"), item("b", "B"))}
		u := newTestSync(src, store, 0)

		_, err := u.SyncCatalog(context.Background())
		require.NoError(t, err)
		first := len(store.rows)
		res, err := u.SyncCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, CatalogResult{Updated: 2}, res)
		assert.Equal(t, first, len(store.rows))
	})

	t.Run("respects limit", func(t *testing.T) {
		store := newMemStore()
		src := &mockSource{CosmeticsFunc: items(item("a", "A"), item("b", "B"), item("c", "C"))}
		u := newTestSync(src, store, 2)

		res, err := u.SyncCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, res.Imported)
		assert.Len(t, store.rows, 2)
	})

	t.Run("item error does not stop the loop", func(t *testing.T) {
		store := newMemStore()
		store.err["a"] = errors.New("db down")
		src := &mockSource{CosmeticsFunc: items(item("a", "A"), item("b", "B"))}
		u := newTestSync(src, store, 0)

		res, err := u.SyncCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)
		assert.Contains(t, store.rows, "b")
	})

	t.Run("seeds fallback on empty table", func(t *testing.T) {
		store := newMemStore()
		u := newTestSync(&mockSource{CosmeticsFunc: failing(errors.New("timeout"))}, store, 0)

		res, err := u.SyncCatalog(context.Background())
		require.ErrorIs(t, err, ErrCatalogUnavailable)
		assert.True(t, res.Seeded)
		assert.Zero(t, res.Imported+res.Updated)
		assert.Len(t, store.rows, 3)
		assert.True(t, store.rows["mock_1"].IsOnSale)
	})

	t.Run("does not seed when data exists", func(t *testing.T) {
		store := newMemStore(entity.Cosmetic{ID: "a"})
		u := newTestSync(&mockSource{CosmeticsFunc: failing(errors.New("timeout"))}, store, 0)

		res, err := u.SyncCatalog(context.Background())
		require.Error(t, err)
		assert.False(t, res.Seeded)
		assert.NotContains(t, store.calls, "Put")
	})
}

func TestSyncShop(t *testing.T) {
	t.Run("marks known items with entry price", func(t *testing.T) {
		store := newMemStore(
			entity.Cosmetic{ID: "a", Price: 100, IsOnSale: false},
			entity.Cosmetic{ID: "b", Price: 100},
			entity.Cosmetic{ID: "stale", IsOnSale: true},
		)
		src := &mockSource{ShopEntriesFunc: items(
			map[string]any{"finalPrice": float64(1200), "items": []any{map[string]any{"id": "a"}, map[string]any{"id": "ghost"}}},
			map[string]any{"regularPrice": float64(800), "brItems": []any{map[string]any{"id": "b"}}},
			map[string]any{"finalPrice": float64(1), "items": []any{map[string]any{"id": "a"}}},
		)}
		u := newTestSync(src, store, 0)

		n, err := u.SyncShop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.True(t, store.rows["a"].IsOnSale)
		assert.Equal(t, 1200, store.rows["a"].Price, "first entry wins for duplicated ids")
		assert.Equal(t, 800, store.rows["b"].Price)
		assert.False(t, store.rows["stale"].IsOnSale)
		assert.NotContains(t, store.rows, "ghost")
	})

	t.Run("fetch failure keeps flags", func(t *testing.T) {
		store := newMemStore(entity.Cosmetic{ID: "a", IsOnSale: true})
		u := newTestSync(&mockSource{ShopEntriesFunc: failing(errors.New("502"))}, store, 0)

		_, err := u.SyncShop(context.Background())
		require.Error(t, err)
		assert.True(t, store.rows["a"].IsOnSale)
		assert.NotContains(t, store.calls, "ClearOnSale")
	})
}

func TestSyncNew(t *testing.T) {
	store := newMemStore(
		entity.Cosmetic{ID: "a", Name: "A", Price: 900},
		entity.Cosmetic{ID: "old", IsNew: true},
	)
	src := &mockSource{NewItemsFunc: items(
		map[string]any{"id": "a", "images": map[string]any{"icon": "a.png"}},
		map[string]any{"id": "fresh", "name": "Fresh", "images": map[string]any{"smallIcon": "f.png"}},
		map[string]any{"id": "noimg"},
	)}
	u := newTestSync(src, store, 0)

	n, err := u.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, store.rows["a"].IsNew)
	assert.Equal(t, "A", store.rows["a"].Name)
	assert.Equal(t, 900, store.rows["a"].Price)
	assert.True(t, store.rows["fresh"].IsNew)
	assert.False(t, store.rows["old"].IsNew)
	assert.NotContains(t, store.rows, "noimg")
}

func TestSyncAll(t *testing.T) {
	t.Run("runs every stage and joins errors", func(t *testing.T) {
		store := newMemStore(entity.Cosmetic{ID: "a"})
		shopErr := errors.New("shop down")
		src := &mockSource{
			CosmeticsFunc:   items(item("a", "A"), item("b", "B")),
			ShopEntriesFunc: failing(shopErr),
			NewItemsFunc:    items(map[string]any{"id": "b", "images": map[string]any{"icon": "b.png"}}),
		}
		inv := &countingInvalidator{}
		u := NewSyncUsecase(src, store, nil, inv, 0)

		sum, err := u.SyncAll(context.Background())
		require.ErrorIs(t, err, shopErr)
		assert.Equal(t, 1, sum.CatalogImported)
		assert.Equal(t, 1, sum.CatalogUpdated)
		assert.Equal(t, 0, sum.MarkedOnSale)
		assert.Equal(t, 1, sum.MarkedAsNew)
		assert.False(t, sum.Seeded)
		assert.Equal(t, 1, inv.n)
	})

	t.Run("rejects overlapping runs", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		src := &mockSource{CosmeticsFunc: func(ctx context.Context) ([]map[string]any, error) {
			close(started)
			<-release
			return nil, nil
		}}
		u := NewSyncUsecase(src, newMemStore(), nil, nil, 0)

		done := make(chan error, 1)
		go func() {
			_, err := u.SyncAll(context.Background())
			done <- err
		}()
		<-started

		_, err := u.SyncAll(context.Background())
		assert.ErrorIs(t, err, ErrSyncInProgress)

		close(release)
		assert.NoError(t, <-done)
	})

	t.Run("limiter error aborts fetch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		src := &mockSource{CosmeticsFunc: func(context.Context) ([]map[string]any, error) {
			called = true
			return nil, nil
		}}
		u := NewSyncUsecase(src, newMemStore(entity.Cosmetic{ID: "a"}), limiterFunc(func(ctx context.Context) error { return ctx.Err() }), nil, 0)

		_, err := u.SyncAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

type limiterFunc func(ctx context.Context) error

func (f limiterFunc) Wait(ctx context.Context) error { return f(ctx) }
