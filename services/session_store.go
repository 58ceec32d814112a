package services

import (
	"fmt"
	"storefront_server/cart"
	"time"

	"github.com/MonkyMars/gecho"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionStore is a cart.KeyValueStore scoped to one anonymous session.
// Every write pushes the session's expiry forward so an active cart survives
// as long as the shopper keeps coming back.
type SessionStore struct {
	cache     *CacheService
	sessionID string
	ttl       time.Duration
}

var _ cart.KeyValueStore = (*SessionStore)(nil)

// SessionStore returns the persistent store backing one session's cart
func (cs *CacheService) SessionStore(sessionID string) *SessionStore {
	ttl := defaultSessionTTL
	if cs.config != nil && cs.config.Cart != nil && cs.config.Cart.SessionTTL > 0 {
		ttl = cs.config.Cart.SessionTTL
	}

	return &SessionStore{
		cache:     cs,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (s *SessionStore) key(name string) string {
	return fmt.Sprintf("session:%s:%s", s.sessionID, name)
}

func (s *SessionStore) Get(key string) (string, error) {
	return s.cache.Get(s.key(key))
}

func (s *SessionStore) Set(key, value string) error {
	if err := s.cache.Set(s.key(key), value, s.ttl); err != nil {
		return err
	}
	s.touch(key)
	return nil
}

func (s *SessionStore) Remove(key string) error {
	return s.cache.Delete(s.key(key))
}

// touch extends the sibling keys so the cart and its timestamp expire together
func (s *SessionStore) touch(written string) {
	for _, name := range []string{cart.CartKey, cart.LastItemAddedAtKey} {
		if name == written {
			continue
		}
		if err := s.cache.Expire(s.key(name), s.ttl); err != nil {
			s.cache.logger.Warn("Failed to extend session key",
				gecho.Field("session", s.sessionID),
				gecho.Field("key", name),
				gecho.Field("error", err),
			)
		}
	}
}
