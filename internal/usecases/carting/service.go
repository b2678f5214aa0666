package carting

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vfg2006/storefront-api/infrastructure/storage"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// Service guarda uma sessão compartilhada por carrinho enquanto houver requisições usando
// o carrinho e abre sessões avulsas para quem precisa observá-lo como outra aba
type Service struct {
	storage storage.KeyValue
	prefix  string

	mu     sync.Mutex
	stores map[string]*sharedStore
}

// sharedStore conta as requisições em andamento sobre a sessão compartilhada
type sharedStore struct {
	store *Store
	refs  int
}

func NewService(kv storage.KeyValue, cfg *config.Config) *Service {
	prefix := DefaultKey
	if cfg != nil && cfg.Cart.KeyPrefix != "" {
		prefix = cfg.Cart.KeyPrefix
	}

	return &Service{
		storage: kv,
		prefix:  prefix,
		stores:  make(map[string]*sharedStore),
	}
}

// Key devolve a chave de storage do carrinho (prefix:cartID)
func (s *Service) Key(cartID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, cartID)
}

// Acquire devolve a sessão compartilhada do carrinho e a função que a libera.
// Requisições simultâneas no mesmo carrinho recebem a mesma sessão; a última a liberar
// fecha a sessão e remove o observador do storage.
func (s *Service) Acquire(cartID string) (*Store, func(), error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, nil, NewCartError(ErrCartIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shared, ok := s.stores[cartID]
	if !ok {
		store, err := NewStore(s.storage, s.Key(cartID))
		if err != nil {
			return nil, nil, NewCartError(err, apiErrors.ErrInternalServer, cartID)
		}

		shared = &sharedStore{store: store}
		s.stores[cartID] = shared
	}

	shared.refs++

	var once sync.Once
	release := func() {
		once.Do(func() { s.release(cartID, shared) })
	}

	return shared.store, release, nil
}

func (s *Service) release(cartID string, shared *sharedStore) {
	s.mu.Lock()
	shared.refs--
	if shared.refs > 0 || s.stores[cartID] != shared {
		s.mu.Unlock()
		return
	}
	delete(s.stores, cartID)
	s.mu.Unlock()

	shared.store.Close()
}

// OpenCarts conta as sessões compartilhadas em uso
func (s *Service) OpenCarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// NewSession abre uma sessão independente; quem chama deve fechar com Close
func (s *Service) NewSession(cartID string) (*Store, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, NewCartError(ErrCartIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	store, err := NewStore(s.storage, s.Key(cartID))
	if err != nil {
		return nil, NewCartError(err, apiErrors.ErrInternalServer, cartID)
	}

	return store, nil
}

// Close encerra todas as sessões compartilhadas
func (s *Service) Close() {
	s.mu.Lock()
	stores := s.stores
	s.stores = make(map[string]*sharedStore)
	s.mu.Unlock()

	for _, shared := range stores {
		shared.store.Close()
	}

	log.L.WithField("cart_sessions", len(stores)).Info("Sessões de carrinho encerradas")
}
