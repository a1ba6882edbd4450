package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// ProgressStore persists the durable slice of a session (level and total
// score) across process restarts. Implementations must tolerate concurrent
// calls for different users.
type ProgressStore interface {
	Load(ctx context.Context, userID int64) (level, totalScore int, found bool, err error)
	Save(ctx context.Context, userID int64, level, totalScore int) error
	Clear(ctx context.Context, userID int64) error
}

// Store is the process-wide keyed session store. Each user gets one entry,
// created lazily, guarded by its own mutex: all events for a user are
// serialized through With, so two rapid voice notes cannot interleave
// state reads and writes.
type Store struct {
	mu       sync.Mutex
	entries  map[int64]*entry
	progress ProgressStore // optional
	log      *log.Logger
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

func NewStore(logger *log.Logger, progress ProgressStore) *Store {
	return &Store{
		entries:  make(map[int64]*entry),
		progress: progress,
		log:      logger,
	}
}

func (s *Store) entryFor(ctx context.Context, userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		e = &entry{sess: New(userID)}
		s.restore(ctx, e.sess)
		s.entries[userID] = e
	}
	return e
}

func (s *Store) restore(ctx context.Context, sess *Session) {
	if s.progress == nil {
		return
	}
	level, total, found, err := s.progress.Load(ctx, sess.UserID)
	if err != nil {
		s.log.Error("load progress", "user", sess.UserID, "error", err)
		return
	}
	if found {
		sess.Level = level
		sess.Stats.TotalScore = total
	}
}

// With runs fn with exclusive access to the user's session. Calls for the
// same user queue behind each other; calls for different users proceed
// independently. Level and score changes are persisted best-effort after
// fn returns, whether or not it succeeded.
func (s *Store) With(ctx context.Context, userID int64, fn func(*Session) error) error {
	e := s.entryFor(ctx, userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	beforeLevel := e.sess.Level
	beforeTotal := e.sess.Stats.TotalScore

	err := fn(e.sess)

	if s.progress != nil &&
		(e.sess.Level != beforeLevel || e.sess.Stats.TotalScore != beforeTotal) {
		if perr := s.progress.Save(ctx, userID, e.sess.Level, e.sess.Stats.TotalScore); perr != nil {
			s.log.Error("save progress", "user", userID, "error", perr)
		}
	}

	return err
}

// Reset replaces the user's session with a fresh default one, discarding
// all mode state and score, and clears any persisted progress.
func (s *Store) Reset(ctx context.Context, userID int64) {
	e := s.entryFor(ctx, userID)

	e.mu.Lock()
	e.sess = New(userID)
	e.mu.Unlock()

	if s.progress != nil {
		if err := s.progress.Clear(ctx, userID); err != nil {
			s.log.Error("clear progress", "user", userID, "error", err)
		}
	}
}

// Len reports how many sessions the store currently holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
