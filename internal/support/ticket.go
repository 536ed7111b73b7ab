// Package support relays user questions to the operator chat and routes replies back.
package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"

	"github.com/m3rciful/tourbot/core/telegram/state"
)

// StateAwaitingQuestion is the session state while the bot waits for a question.
const StateAwaitingQuestion state.State = "support.awaiting_question"

// DefaultTicketTTL bounds how long an operator can answer a question.
const DefaultTicketTTL = 72 * time.Hour

// ErrTicketNotFound is returned for unknown or expired operator messages.
var ErrTicketNotFound = errors.New("support: ticket not found")

// Ticket links a forwarded question to the user who asked it.
type Ticket struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStore maps operator-chat message ids to tickets.
type TicketStore interface {
	Put(ctx context.Context, operatorMsgID int, t Ticket) error
	Get(ctx context.Context, operatorMsgID int) (Ticket, error)
	Close() error
}

// CacheStore is a TicketStore on bigcache. Entries are evicted after ttl.
type CacheStore struct {
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time
}

// NewCacheStore builds a CacheStore. A non-positive ttl selects DefaultTicketTTL.
func NewCacheStore(ttl time.Duration) (*CacheStore, error) {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("support: ticket cache: %w", err)
	}
	return &CacheStore{cache: cache, ttl: ttl, now: time.Now}, nil
}

func ticketKey(operatorMsgID int) string {
	return strconv.Itoa(operatorMsgID)
}

// Put stores t under the operator message id.
func (s *CacheStore) Put(_ context.Context, operatorMsgID int, t Ticket) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("support: encode ticket: %w", err)
	}
	if err := s.cache.Set(ticketKey(operatorMsgID), data); err != nil {
		return fmt.Errorf("support: store ticket: %w", err)
	}
	return nil
}

// Get returns the ticket for an operator message. Expired entries are reported as not found
// even if bigcache has not cleaned them up yet.
func (s *CacheStore) Get(_ context.Context, operatorMsgID int) (Ticket, error) {
	key := ticketKey(operatorMsgID)
	data, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return Ticket{}, ErrTicketNotFound
		}
		return Ticket{}, fmt.Errorf("support: load ticket: %w", err)
	}
	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return Ticket{}, fmt.Errorf("support: decode ticket: %w", err)
	}
	if s.now().Sub(t.CreatedAt) > s.ttl {
		_ = s.cache.Delete(key)
		return Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

// Len reports the number of stored tickets.
func (s *CacheStore) Len() int { return s.cache.Len() }

// Close releases the cache.
func (s *CacheStore) Close() error { return s.cache.Close() }
