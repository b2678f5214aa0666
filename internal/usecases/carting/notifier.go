package carting

import "sync"

// Listener recebe o aviso de que o carrinho mudou; o aviso não carrega dados,
// quem escuta deve reler o carrinho
type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Notifier mantém a lista ordenada de ouvintes do carrinho
type Notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []subscription
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registra o ouvinte e devolve a função que o remove (idempotente)
func (n *Notifier) Subscribe(fn Listener) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			for i, sub := range n.listeners {
				if sub.id == id {
					n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Notify chama cada ouvinte uma vez, na ordem de inscrição.
// Os ouvintes rodam fora do lock e podem se desinscrever durante a entrega.
func (n *Notifier) Notify() {
	n.mu.Lock()
	targets := make([]subscription, len(n.listeners))
	copy(targets, n.listeners)
	n.mu.Unlock()

	for _, sub := range targets {
		sub.fn()
	}
}

// Len devolve quantos ouvintes estão inscritos
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
