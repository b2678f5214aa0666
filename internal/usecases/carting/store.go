// Package carting mantém o carrinho persistido em um storage chave-valor e avisa
// os observadores (badge, streams) a cada alteração
package carting

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/storefront-api/infrastructure/storage"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultKey é a chave usada quando o carrinho não pertence a um dono específico
const DefaultKey = "cart"

// Store é o carrinho de uma sessão. Cada Store tem um session ID próprio; alterações
// gravadas por outras sessões na mesma chave chegam pelo Watch do storage.
type Store struct {
	storage   storage.KeyValue
	key       string
	sessionID string
	notifier  *Notifier

	mu        sync.Mutex
	closed    bool
	stopWatch func()
}

func NewStore(kv storage.KeyValue, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}

	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return nil, errors.Wrap(ErrSessionID, err.Error())
	}

	s := &Store{
		storage:   kv,
		key:       key,
		sessionID: sessionID,
		notifier:  NewNotifier(),
	}

	s.stopWatch = kv.Watch(key, s.onStorageChange)

	log.L.WithFields(log.Fields{
		"cart_key":     key,
		"cart_session": sessionID,
	}).Debug("Sessão de carrinho aberta")

	return s, nil
}

func (s *Store) Key() string {
	return s.key
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// onStorageChange repassa o sinal de outra sessão como um aviso igual ao local
func (s *Store) onStorageChange(key, origin string) {
	if key != s.key || origin == s.sessionID {
		return
	}

	log.L.WithFields(log.Fields{
		"cart_key":     key,
		"cart_session": s.sessionID,
		"cart_origin":  origin,
	}).Debug("Carrinho alterado por outra sessão")

	s.notifier.Notify()
}

// Get lê o carrinho persistido. Valor ausente ou corrompido vira carrinho vazio;
// erro de leitura do storage também, mas é registrado.
func (s *Store) Get(ctx context.Context) []domain.CartItem {
	items, err := s.load(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("cart_key", s.key).Warn("Erro ao ler carrinho, usando carrinho vazio")
		return []domain.CartItem{}
	}
	return items
}

// load só devolve erro quando o storage falha; chave ausente e JSON inválido viram carrinho vazio
func (s *Store) load(ctx context.Context) ([]domain.CartItem, error) {
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	if !found || raw == "" {
		return []domain.CartItem{}, nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.ForContext(ctx).WithError(err).WithField("cart_key", s.key).Warn("Carrinho corrompido no storage, usando carrinho vazio")
		return []domain.CartItem{}, nil
	}

	if items == nil {
		return []domain.CartItem{}, nil
	}

	return items, nil
}

// AddItem soma a quantidade ao item existente ou acrescenta no fim, sempre limitado ao estoque.
// Estoque ou quantidade não positivos não alteram nada.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem) error {
	if item.Stock <= 0 || item.Quantity <= 0 {
		return nil
	}

	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID != item.ID {
				continue
			}

			items[i].Name = item.Name
			items[i].Price = item.Price
			items[i].Stock = item.Stock
			items[i].Quantity = min(items[i].Quantity+item.Quantity, item.Stock)
			return items
		}

		item.Quantity = min(item.Quantity, item.Stock)
		return append(items, item)
	})
}

// UpdateQuantity aplica delta ao item. Resultado <= 0 remove o item; acima do estoque é limitado.
// ID desconhecido mantém o carrinho, mas grava e avisa como qualquer mutação.
func (s *Store) UpdateQuantity(ctx context.Context, id int, delta int) error {
	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID != id {
				continue
			}

			quantity := min(items[i].Quantity+delta, items[i].Stock)
			if quantity <= 0 {
				return append(items[:i:i], items[i+1:]...)
			}

			items[i].Quantity = quantity
			return items
		}

		return items
	})
}

// RemoveItem retira o item; ID desconhecido mantém o carrinho, mas grava e avisa do mesmo jeito
func (s *Store) RemoveItem(ctx context.Context, id int) error {
	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		kept := make([]domain.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]domain.CartItem) []domain.CartItem {
		return []domain.CartItem{}
	})
}

// Subscribe inscreve um ouvinte nas alterações desta sessão e das demais
func (s *Store) Subscribe(fn Listener) func() {
	return s.notifier.Subscribe(fn)
}

// Close para de observar o storage; chamadas seguintes a mutações falham
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stopWatch
	s.mu.Unlock()

	if stop != nil {
		stop()
	}

	log.L.WithFields(log.Fields{
		"cart_key":     s.key,
		"cart_session": s.sessionID,
	}).Debug("Sessão de carrinho fechada")
}

// mutate faz ler-alterar-gravar sob o lock da sessão e avisa uma única vez depois de soltar o lock.
// Falha na leitura do storage aborta sem gravar nem avisar.
func (s *Store) mutate(ctx context.Context, apply func([]domain.CartItem) []domain.CartItem) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return NewCartError(ErrStoreClosed, apiErrors.ErrCartStorage, s.key)
	}

	current, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		log.ForContext(ctx).WithError(err).WithField("cart_key", s.key).Error("Erro ao ler carrinho do storage, alteração descartada")
		return NewCartError(errors.Wrap(ErrLoadCart, err.Error()), apiErrors.ErrCartStorage, s.key)
	}

	items := apply(current)
	if err := s.persist(ctx, items); err != nil {
		s.mu.Unlock()
		return err
	}

	s.mu.Unlock()

	s.notifier.Notify()
	return nil
}

func (s *Store) persist(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return NewCartError(errors.Wrap(ErrPersistCart, err.Error()), apiErrors.ErrCartStorage, s.key)
	}

	if err := s.storage.Set(ctx, s.key, string(payload), s.sessionID); err != nil {
		log.ForContext(ctx).WithError(err).WithField("cart_key", s.key).Error("Erro ao gravar carrinho no storage")
		return NewCartError(errors.Wrap(ErrPersistCart, err.Error()), apiErrors.ErrCartStorage, s.key)
	}

	return nil
}
