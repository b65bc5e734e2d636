package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type memoryEntry struct {
	session   *entity.Session
	expiresAt time.Time
}

type memSession struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemorySessionRepository keeps sessions in process memory with the same
// expiry semantics as the redis repository. A zero ttl never expires.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memSession{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (that *memSession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := memoryEntry{session: session.Clone()}
	if that.ttl > 0 {
		stored.expiresAt = that.now().Add(that.ttl)
	}
	that.sessions[session.ID] = stored

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return stored.session.Clone(), nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// lookup drops the entry when it has expired. Callers hold mu.
func (that *memSession) lookup(id string) (memoryEntry, bool) {
	stored, ok := that.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}

	if !stored.expiresAt.IsZero() && !that.now().Before(stored.expiresAt) {
		delete(that.sessions, id)
		return memoryEntry{}, false
	}

	return stored, true
}
