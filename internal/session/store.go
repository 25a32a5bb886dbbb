package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vancomm/minesweap/internal/mines"
)

var (
	ErrNotFound  = errors.New("game session not found")
	ErrForbidden = errors.New("game handle does not grant access to this session")
)

// Session is one running game. All access to the game goes through Do,
// which runs one action at a time.
type Session struct {
	ID        int64
	StartedAt time.Time

	mu       sync.Mutex
	game     *mines.Game
	endedAt  *time.Time
	lastSeen time.Time
}

// Snapshot is a consistent view of a session taken right after an action.
type Snapshot struct {
	ID                  int64
	Params              mines.GameParams
	MinesRemainingGuess int
	Status              mines.Status
	Grid                mines.Grid
	Changes             []mines.Change
	StartedAt           time.Time
	EndedAt             *time.Time
}

// Do runs fn with exclusive access to the game, stamps the end time the
// first time the game reaches a terminal status and returns the resulting
// state together with the cell changes fn produced. A nil fn only takes a
// snapshot.
func (s *Session) Do(now time.Time, fn func(g *mines.Game) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = now
	var err error
	if fn != nil {
		err = fn(s.game)
	}
	if s.game.Over() && s.endedAt == nil {
		ended := now.UTC()
		s.endedAt = &ended
	}

	snapshot := &Snapshot{
		ID:                  s.ID,
		Params:              s.game.Params(),
		MinesRemainingGuess: s.game.MinesRemainingGuess(),
		Status:              s.game.Status(),
		Grid:                s.game.Grid(),
		Changes:             s.game.Drain(),
		StartedAt:           s.StartedAt,
		EndedAt:             s.endedAt,
	}
	return snapshot, err
}

type Store struct {
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	rnd      *rand.Rand
	nextID   int64
	sessions map[int64]*Session
}

func NewStore(logger *slog.Logger, rnd *rand.Rand, ttl time.Duration) *Store {
	return &Store{
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		rnd:      rnd,
		sessions: make(map[int64]*Session),
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Create(params mines.GameParams) (*Session, error) {
	game, err := s.newGame(params)
	if err != nil {
		return nil, err
	}
	return s.Add(game), nil
}

func (s *Store) newGame(params mines.GameParams) (*mines.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mines.NewGame(params, s.rnd)
}

// Add registers an already built game, such as one with a fixed layout.
func (s *Store) Add(game *mines.Game) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	session := &Session{
		ID:        s.nextID,
		StartedAt: now.UTC(),
		game:      game,
		lastSeen:  now,
	}
	s.sessions[session.ID] = session

	s.logger.Debug("created game session",
		slog.Int64("id", session.ID),
		slog.String("seed", game.Params().Seed()),
	)
	return session
}

func (s *Store) Get(id int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap drops sessions that have been idle for longer than the store TTL.
// Sessions busy with an action are left alone.
func (s *Store) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.ttl)
	reaped := 0
	for id, session := range s.sessions {
		if !session.mu.TryLock() {
			continue
		}
		idle := session.lastSeen.Before(deadline)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			reaped++
		}
	}
	if reaped > 0 {
		s.logger.Info("reaped idle game sessions",
			slog.Int("reaped", reaped),
			slog.Int("remaining", len(s.sessions)),
		)
	}
	return reaped
}

// Run reaps idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Reap()
		}
	}
}
