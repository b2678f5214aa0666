package carting

import (
	"context"
	"sync"
)

// Badge é o contador de itens do carrinho exibido no cabeçalho.
// O único estado é a contagem; cada aviso do carrinho faz uma nova leitura.
type Badge struct {
	store *Store

	mu          sync.Mutex
	count       int
	unsubscribe func()
	onChange    func(count int)
}

func NewBadge(store *Store) *Badge {
	return &Badge{store: store}
}

// OnChange registra quem recebe a contagem atualizada (ex.: stream SSE)
func (b *Badge) OnChange(fn func(count int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Mount lê a contagem inicial e passa a ouvir o carrinho
func (b *Badge) Mount(ctx context.Context) {
	b.mu.Lock()
	if b.unsubscribe != nil {
		b.mu.Unlock()
		return
	}
	b.unsubscribe = b.store.Subscribe(b.refresh)
	b.mu.Unlock()

	b.set(len(b.store.Get(ctx)))
}

// Unmount libera a inscrição; pode ser chamado mais de uma vez
func (b *Badge) Unmount() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *Badge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *Badge) refresh() {
	b.set(len(b.store.Get(context.Background())))
}

func (b *Badge) set(count int) {
	b.mu.Lock()
	b.count = count
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(count)
	}
}
