/*
sessions.go - In-memory receipt sessions with idle expiry

PURPOSE:
  The web UI edits one live receipt per browser session. Receipts are
  never persisted (only participant groups are), so sessions live in
  memory and a janitor goroutine expires the ones nobody touches.

DESIGN:
  - uuid session IDs, handed out on receipt creation
  - Registry guarded by RWMutex; each session carries its own mutex
    because a Receipt expects a single driver at a time
  - Janitor runs on a ticker with a configurable sweep interval

USAGE:
  sessions := NewSessions(logger)
  sessions.StartJanitor()
  defer sessions.StopJanitor()

SEE ALSO:
  - handlers.go: Locks the session around every receipt operation
*/
package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/billsplit/receipt"
)

const (
	// DefaultSessionTTL is how long an untouched session survives.
	DefaultSessionTTL = 2 * time.Hour

	// DefaultSweepInterval is how often the janitor looks for idle sessions.
	DefaultSweepInterval = 10 * time.Minute
)

// Session is one live receipt being edited.
type Session struct {
	ID       string
	Receipt  *receipt.Receipt
	LastSeen time.Time

	// mu serializes receipt access; Receipt itself has no locking.
	mu sync.Mutex
}

// Lock takes exclusive access to the session's receipt.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's receipt.
func (s *Session) Unlock() { s.mu.Unlock() }

// Sessions is the registry of live sessions.
type Sessions struct {
	TTL           time.Duration
	SweepInterval time.Duration

	logger   *slog.Logger
	mu       sync.RWMutex
	sessions map[string]*Session

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	runMu  sync.Mutex
}

// NewSessions creates an empty registry with default TTL and sweep interval.
func NewSessions(logger *slog.Logger) *Sessions {
	return &Sessions{
		TTL:           DefaultSessionTTL,
		SweepInterval: DefaultSweepInterval,
		logger:        logger,
		sessions:      make(map[string]*Session),
		stop:          make(chan bool),
	}
}

// Create registers a new session for the given receipt and returns it.
func (ss *Sessions) Create(r *receipt.Receipt) *Session {
	session := &Session{
		ID:       uuid.NewString(),
		Receipt:  r,
		LastSeen: time.Now(),
	}

	ss.mu.Lock()
	ss.sessions[session.ID] = session
	ss.mu.Unlock()

	return session
}

// Get returns the session with the given ID and refreshes its idle timer.
func (ss *Sessions) Get(id string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, ok := ss.sessions[id]
	if !ok {
		return nil, false
	}
	session.LastSeen = time.Now()
	return session, true
}

// Delete removes a session.
func (ss *Sessions) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// =============================================================================
// JANITOR - Expires idle sessions on a ticker
// =============================================================================

// StartJanitor begins the background sweep.
func (ss *Sessions) StartJanitor() {
	ss.runMu.Lock()
	defer ss.runMu.Unlock()

	ss.ticker = time.NewTicker(ss.SweepInterval)
	ss.wg.Add(1)

	go ss.run()

	ss.logger.Info("session janitor started", "sweep_interval", ss.SweepInterval, "ttl", ss.TTL)
}

// StopJanitor stops the background sweep.
func (ss *Sessions) StopJanitor() {
	ss.runMu.Lock()
	defer ss.runMu.Unlock()

	if ss.ticker != nil {
		ss.ticker.Stop()
		close(ss.stop)
		ss.wg.Wait()
		ss.logger.Info("session janitor stopped")
	}
}

func (ss *Sessions) run() {
	defer ss.wg.Done()

	for {
		select {
		case <-ss.ticker.C:
			ss.Sweep()
		case <-ss.stop:
			return
		}
	}
}

// Sweep removes sessions idle past the TTL. Exposed for tests and for
// an immediate admin-triggered cleanup.
func (ss *Sessions) Sweep() {
	cutoff := time.Now().Add(-ss.TTL)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	expired := 0
	for id, session := range ss.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(ss.sessions, id)
			expired++
		}
	}

	if expired > 0 {
		ss.logger.Info("expired idle sessions", "count", expired, "remaining", len(ss.sessions))
	}
}
