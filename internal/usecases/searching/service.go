// Package searching aplica somente a resposta da busca mais recente de cada sessão
package searching

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/log"
)

const (
	defaultSession = "default"

	sessionIdleTTL = 30 * time.Minute
	maxSessions    = 10000
)

// session guarda a sequência de buscas e o último resultado aplicado
type session struct {
	seq      atomic.Uint64
	lastUsed time.Time // protegido por Service.mu

	mu      sync.Mutex
	query   string
	results []domain.SearchProduct
}

// Service mantém as sessões de busca por id de sessão. Sessões paradas há mais de idleTTL
// são descartadas e, acima de maxSessions, a menos usada sai primeiro.
type Service struct {
	searcher storefront.ProductSearcher
	now      func() time.Time

	idleTTL     time.Duration
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(searcher storefront.ProductSearcher) *Service {
	return &Service{
		searcher:    searcher,
		now:         time.Now,
		idleTTL:     sessionIdleTTL,
		maxSessions: maxSessions,
		sessions:    make(map[string]*session),
	}
}

// WithClock troca o relógio usado para expirar sessões
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search dispara a busca com um número de sequência novo. A resposta só é aplicada se
// nenhuma busca mais nova foi iniciada na mesma sessão; caso contrário volta com Applied=false.
// Consulta vazia limpa o resultado sem chamar o backend.
func (s *Service) Search(ctx context.Context, sessionID, query string) (*domain.SearchResponse, error) {
	sess := s.session(sessionID)
	seq := sess.seq.Add(1)

	if strings.TrimSpace(query) == "" {
		applied := sess.apply(seq, query, []domain.SearchProduct{})
		return &domain.SearchResponse{Query: query, Results: []domain.SearchProduct{}, Applied: applied}, nil
	}

	results, err := s.searcher.SearchProducts(ctx, query)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("query", query).Error("Erro na busca de produtos")
		results = []domain.SearchProduct{}
	}

	applied := sess.apply(seq, query, results)
	if !applied {
		log.ForContext(ctx).WithFields(log.Fields{
			"query":      query,
			"search_seq": seq,
		}).Debug("Resposta de busca descartada por haver busca mais recente")
	}

	response := &domain.SearchResponse{
		Query:   query,
		Results: results,
		Applied: applied,
	}

	if err != nil && applied {
		return response, errors.Wrap(err, "erro ao buscar produtos")
	}

	return response, nil
}

// Current devolve o último resultado aplicado da sessão; sessão desconhecida volta vazia
func (s *Service) Current(sessionID string) *domain.SearchResponse {
	if sessionID == "" {
		sessionID = defaultSession
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return &domain.SearchResponse{Results: []domain.SearchProduct{}, Applied: true}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	results := make([]domain.SearchProduct, len(sess.results))
	copy(results, sess.results)

	return &domain.SearchResponse{
		Query:   sess.query,
		Results: results,
		Applied: true,
	}
}

func (s *Service) session(sessionID string) *session {
	if sessionID == "" {
		sessionID = defaultSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	sess, ok := s.sessions[sessionID]
	if !ok {
		s.evictLocked(now)
		sess = &session{results: []domain.SearchProduct{}}
		s.sessions[sessionID] = sess
	}

	sess.lastUsed = now
	return sess
}

// evictLocked roda antes de criar uma sessão: remove as expiradas e, se ainda estiver
// no limite, a menos usada
func (s *Service) evictLocked(now time.Time) {
	expired := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.idleTTL {
			delete(s.sessions, id)
			expired++
		}
	}

	if expired > 0 {
		log.L.WithField("search_sessions_expired", expired).Debug("Sessões de busca expiradas")
	}

	if len(s.sessions) < s.maxSessions {
		return
	}

	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastUsed.Before(oldest) {
			oldestID, oldest = id, sess.lastUsed
		}
	}
	delete(s.sessions, oldestID)
}

// Sessions conta as sessões de busca mantidas
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// apply grava o resultado se seq ainda for a última sequência emitida
func (sess *session) apply(seq uint64, query string, results []domain.SearchProduct) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if seq != sess.seq.Load() {
		return false
	}

	sess.query = query
	sess.results = results
	return true
}
