package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
)

// Session is one storefront visitor: their cart, coupons and the key/value
// scope both persist into.
type Session struct {
	ID      string
	KV      storage.Store
	Cart    *cart.Store
	Coupons *coupon.Ledger

	mu       sync.Mutex
	user     coupon.User
	lastSeen time.Time

	checkout sync.Mutex
}

func (s *Session) User() coupon.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) touch(user coupon.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.Name != "" {
		s.user = user
	}
	s.lastSeen = time.Now()
}

// SessionManager keeps loaded sessions in memory and restores the rest from
// the storage provider on first use.
type SessionManager struct {
	provider storage.Provider
	history  coupon.OrderHistory
	clock    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(provider storage.Provider, history coupon.OrderHistory) *SessionManager {
	return &SessionManager{
		provider: provider,
		history:  history,
		clock:    time.Now,
		sessions: make(map[string]*Session),
	}
}

// WithClock sets the clock handed to new coupon ledgers.
func (m *SessionManager) WithClock(clock func() time.Time) *SessionManager {
	m.clock = clock
	return m
}

func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the session for id, loading it if needed. A non-empty user
// replaces the remembered identity.
func (m *SessionManager) Get(id string, user coupon.User) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		kv := m.provider.Scope(id)
		s = &Session{
			ID:      id,
			KV:      kv,
			Cart:    cart.NewStore(kv),
			Coupons: coupon.NewLedger(kv, m.history).WithClock(m.clock),
		}
		s.Cart.Load()
		s.Coupons.Load()
		m.sessions[id] = s
		utils.InfoLogger.Printf("session %s loaded (%d cart lines)", id, s.Cart.Len())
	}
	s.touch(user)
	return s
}

// IDs lists the sessions held in memory.
func (m *SessionManager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Evict drops sessions idle for longer than ttl from memory. Their state
// stays in storage. A request still holding an evicted *Session keeps
// writing through it, but the next Get reloads a separate copy from
// storage; the ttl must stay far above any request's lifetime.
func (m *SessionManager) Evict(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
