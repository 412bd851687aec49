package gateway

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/notify"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/wizard"
	"golang.org/x/text/language"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown, expired or forgotten sessions.
var ErrSessionNotFound = fmt.Errorf("gateway: session not found: %w", constant.ErrSessionNotFound)

type entry struct {
	id       string
	owner    string
	session  *wizard.Session
	recorder *notify.Recorder
	locale   language.Tag
	lastSeen time.Time
}

// registry holds the open wizard sessions.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func newRegistry(ttl time.Duration) *registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// ownerOf fingerprints the bearer token that opened a session so the token
// itself is never held by the registry.
func ownerOf(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (e *entry) ownedBy(owner string) bool {
	return subtle.ConstantTimeCompare([]byte(e.owner), []byte(owner)) == 1
}

// add stores e under its id and evicts idle sessions.
func (r *registry) add(e *entry) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)

	e.lastSeen = now
	r.sessions[e.id] = e

	return e
}

// get returns the session for id when it belongs to flow and owner. A session
// owned by someone else is reported as not found.
func (r *registry) get(flow wizard.Flow, id, owner string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.session.Flow() != flow || !e.ownedBy(owner) {
		return nil, ErrSessionNotFound
	}

	now := r.now()
	if r.expired(e, now) {
		delete(r.sessions, id)
		e.session.Close()

		return nil, ErrSessionNotFound
	}

	e.lastSeen = now

	return e, nil
}

// remove closes and forgets the session.
func (r *registry) remove(flow wizard.Flow, id, owner string) error {
	r.mu.Lock()

	e, ok := r.sessions[id]
	if !ok || e.session.Flow() != flow || !e.ownedBy(owner) {
		r.mu.Unlock()
		return ErrSessionNotFound
	}

	delete(r.sessions, id)
	r.mu.Unlock()

	e.session.Close()

	return nil
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// closeAll closes every session, dropping any in-flight response.
func (r *registry) closeAll(_ context.Context) {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.sessions))

	for id, e := range r.sessions {
		entries = append(entries, e)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.session.Close()
	}
}

// expired reports an idle session past the TTL. Busy sessions never expire.
func (r *registry) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > r.ttl && !e.session.Busy()
}

func (r *registry) evictLocked(now time.Time) {
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
			e.session.Close()
		}
	}
}
