package carting

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/infrastructure/storage"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
)

// failingStorage falha todas as gravações
type failingStorage struct {
	*storage.MemoryStorage
}

func (f *failingStorage) Set(context.Context, string, string, string) error {
	return errors.New("disk full")
}

func newTestStore(t *testing.T, kv storage.KeyValue) *Store {
	t.Helper()

	store, err := NewStore(kv, "cart:test")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return store
}

func pen(quantity, stock int) domain.CartItem {
	return domain.CartItem{
		ID:       1,
		Name:     "Pen",
		Price:    decimal.NewFromInt(5000),
		Quantity: quantity,
		Stock:    stock,
	}
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(kv *storage.MemoryStorage)
	}{
		{
			name:  "Chave ausente - carrinho vazio",
			setup: func(*storage.MemoryStorage) {},
		},
		{
			name: "JSON corrompido - carrinho vazio",
			setup: func(kv *storage.MemoryStorage) {
				kv.SetRaw("cart:test", "{not json")
			},
		},
		{
			name: "Valor vazio - carrinho vazio",
			setup: func(kv *storage.MemoryStorage) {
				kv.SetRaw("cart:test", "")
			},
		},
		{
			name: "JSON null - carrinho vazio",
			setup: func(kv *storage.MemoryStorage) {
				kv.SetRaw("cart:test", "null")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryStorage()
			tt.setup(kv)

			store := newTestStore(t, kv)
			items := store.Get(ctx)

			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestStore_AddItem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		adds     []domain.CartItem
		expected []int // quantidades esperadas por posição
	}{
		{
			name:     "Quantidade acima do estoque é limitada",
			adds:     []domain.CartItem{pen(3, 2)},
			expected: []int{2},
		},
		{
			name:     "Mesmo ID soma quantidades até o estoque",
			adds:     []domain.CartItem{pen(2, 5), pen(2, 5), pen(2, 5)},
			expected: []int{5},
		},
		{
			name:     "Mesmo ID abaixo do estoque",
			adds:     []domain.CartItem{pen(1, 10), pen(3, 10)},
			expected: []int{4},
		},
		{
			name:     "Estoque zero é ignorado",
			adds:     []domain.CartItem{pen(1, 0)},
			expected: []int{},
		},
		{
			name:     "Quantidade zero é ignorada",
			adds:     []domain.CartItem{pen(0, 3)},
			expected: []int{},
		},
		{
			name: "IDs diferentes mantêm ordem de inserção",
			adds: []domain.CartItem{
				pen(1, 3),
				{ID: 2, Name: "Notebook", Price: decimal.NewFromInt(12000), Quantity: 2, Stock: 4},
			},
			expected: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, storage.NewMemoryStorage())

			for _, item := range tt.adds {
				require.NoError(t, store.AddItem(ctx, item))
			}

			items := store.Get(ctx)
			require.Len(t, items, len(tt.expected))
			for i, quantity := range tt.expected {
				assert.Equal(t, quantity, items[i].Quantity)
			}
		})
	}
}

func TestStore_AddItem_ClampsToSumOrStock(t *testing.T) {
	ctx := context.Background()
	const stock = 7

	sequences := [][]int{
		{1},
		{1, 1, 1},
		{3, 3, 3},
		{7},
		{10},
		{2, 5, 1},
	}

	for _, seq := range sequences {
		store := newTestStore(t, storage.NewMemoryStorage())

		sum := 0
		for _, quantity := range seq {
			sum += quantity
			require.NoError(t, store.AddItem(ctx, pen(quantity, stock)))
		}

		items := store.Get(ctx)
		require.Len(t, items, 1)
		assert.Equal(t, min(sum, stock), items[0].Quantity, "sequência %v", seq)
	}
}

func TestStore_AddItem_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemoryStorage())

	require.NoError(t, store.AddItem(ctx, pen(3, 2)))

	items := store.Get(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "Pen", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, items[0].Stock)
	assert.True(t, decimal.NewFromInt(5000).Equal(items[0].Price))
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		id          int
		delta       int
		expectFound bool
		expected    int
	}{
		{name: "Incrementa dentro do estoque", id: 1, delta: 1, expectFound: true, expected: 3},
		{name: "Incremento acima do estoque é limitado", id: 1, delta: 10, expectFound: true, expected: 5},
		{name: "Decrementa mantendo ao menos 1", id: 1, delta: -1, expectFound: true, expected: 1},
		{name: "Chegar a zero remove o item", id: 1, delta: -2, expectFound: false},
		{name: "Abaixo de zero remove o item", id: 1, delta: -50, expectFound: false},
		{name: "ID desconhecido não altera o carrinho", id: 99, delta: 1, expectFound: true, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, storage.NewMemoryStorage())
			require.NoError(t, store.AddItem(ctx, pen(2, 5)))

			require.NoError(t, store.UpdateQuantity(ctx, tt.id, tt.delta))

			items := store.Get(ctx)
			if !tt.expectFound {
				assert.Empty(t, items)
				return
			}

			require.Len(t, items, 1)
			assert.Equal(t, tt.expected, items[0].Quantity)
			assert.GreaterOrEqual(t, items[0].Quantity, 1)
			assert.LessOrEqual(t, items[0].Quantity, items[0].Stock)
		})
	}
}

func TestStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemoryStorage())

	require.NoError(t, store.AddItem(ctx, pen(1, 3)))
	require.NoError(t, store.AddItem(ctx, domain.CartItem{ID: 2, Name: "Notebook", Quantity: 1, Stock: 1}))

	require.NoError(t, store.RemoveItem(ctx, 99))
	assert.Len(t, store.Get(ctx), 2)

	require.NoError(t, store.RemoveItem(ctx, 1))
	items := store.Get(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()
	store := newTestStore(t, kv)

	require.NoError(t, store.AddItem(ctx, pen(1, 3)))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Get(ctx))

	raw, found, err := kv.Get(ctx, "cart:test")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", raw)
}

func TestStore_NotifiesOncePerMutation(t *testing.T) {
	ctx := context.Background()

	mutations := map[string]func(s *Store) error{
		"AddItem":                  func(s *Store) error { return s.AddItem(ctx, pen(1, 5)) },
		"UpdateQuantity":           func(s *Store) error { return s.UpdateQuantity(ctx, 1, 1) },
		"UpdateQuantity removendo": func(s *Store) error { return s.UpdateQuantity(ctx, 1, -10) },
		"UpdateQuantity ausente":   func(s *Store) error { return s.UpdateQuantity(ctx, 42, 1) },
		"RemoveItem":               func(s *Store) error { return s.RemoveItem(ctx, 1) },
		"RemoveItem ausente":       func(s *Store) error { return s.RemoveItem(ctx, 42) },
		"Clear":                    func(s *Store) error { return s.Clear(ctx) },
	}

	for name, mutation := range mutations {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, storage.NewMemoryStorage())
			require.NoError(t, store.AddItem(ctx, pen(2, 5)))

			ticks := 0
			store.Subscribe(func() { ticks++ })

			require.NoError(t, mutation(store))
			assert.Equal(t, 1, ticks)
		})
	}
}

func TestStore_InvalidAddDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemoryStorage())

	ticks := 0
	store.Subscribe(func() { ticks++ })

	require.NoError(t, store.AddItem(ctx, pen(1, 0)))
	require.NoError(t, store.AddItem(ctx, pen(-1, 3)))

	assert.Equal(t, 0, ticks)
}

func TestStore_CrossSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()

	tabA := newTestStore(t, kv)
	tabB := newTestStore(t, kv)
	require.NotEqual(t, tabA.SessionID(), tabB.SessionID())

	ticksA := 0
	tabA.Subscribe(func() { ticksA++ })

	var seenByB []domain.CartItem
	ticksB := 0
	tabB.Subscribe(func() {
		ticksB++
		seenByB = tabB.Get(ctx)
	})

	require.NoError(t, tabA.AddItem(ctx, pen(1, 3)))

	assert.Equal(t, 1, ticksA, "a própria sessão recebe apenas o aviso local")
	assert.Equal(t, 1, ticksB)
	require.Len(t, seenByB, 1)
	assert.Equal(t, 1, seenByB[0].ID)

	// Sessões em outras chaves não são avisadas
	other, err := NewStore(kv, "cart:other")
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, other.AddItem(ctx, pen(1, 3)))
	assert.Equal(t, 1, ticksB)
}

func TestStore_ClosedSessionStopsWatching(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()

	tabA := newTestStore(t, kv)
	tabB, err := NewStore(kv, "cart:test")
	require.NoError(t, err)

	ticksB := 0
	tabB.Subscribe(func() { ticksB++ })
	tabB.Close()
	tabB.Close()

	require.NoError(t, tabA.AddItem(ctx, pen(1, 3)))
	assert.Equal(t, 0, ticksB)

	err = tabB.AddItem(ctx, pen(1, 3))
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_PersistFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
	store := newTestStore(t, kv)

	ticks := 0
	store.Subscribe(func() { ticks++ })

	err := store.AddItem(ctx, pen(1, 3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistCart)

	var cartErr *CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, apiErrors.ErrCartStorage, cartErr.Code)

	assert.Equal(t, 0, ticks)
	assert.Empty(t, store.Get(ctx))
}

// flakyReadStorage passa a falhar nas leituras quando failReads é ligado
type flakyReadStorage struct {
	*storage.MemoryStorage
	failReads bool
	writes    int
}

func (f *flakyReadStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failReads {
		return "", false, errors.New("connection reset by peer")
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *flakyReadStorage) Set(ctx context.Context, key, value, origin string) error {
	f.writes++
	return f.MemoryStorage.Set(ctx, key, value, origin)
}

func TestStore_ReadFailureKeepsPersistedCart(t *testing.T) {
	ctx := context.Background()
	kv := &flakyReadStorage{MemoryStorage: storage.NewMemoryStorage()}
	store := newTestStore(t, kv)

	for id := 1; id <= 3; id++ {
		item := pen(1, 5)
		item.ID = id
		require.NoError(t, store.AddItem(ctx, item))
	}

	ticks := 0
	store.Subscribe(func() { ticks++ })
	writesBefore := kv.writes

	kv.failReads = true

	mutations := map[string]func() error{
		"AddItem":        func() error { item := pen(1, 5); item.ID = 9; return store.AddItem(ctx, item) },
		"UpdateQuantity": func() error { return store.UpdateQuantity(ctx, 1, 1) },
		"RemoveItem":     func() error { return store.RemoveItem(ctx, 2) },
		"Clear":          func() error { return store.Clear(ctx) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLoadCart)

			var cartErr *CartError
			require.ErrorAs(t, err, &cartErr)
			assert.Equal(t, apiErrors.ErrCartStorage, cartErr.Code)
		})
	}

	assert.Equal(t, writesBefore, kv.writes)
	assert.Equal(t, 0, ticks)
	assert.Empty(t, store.Get(ctx))

	kv.failReads = false
	items := store.Get(ctx)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].ID, items[1].ID, items[2].ID})
}
