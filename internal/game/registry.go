package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armorup/bew/internal/metrics"
	"github.com/armorup/bew/internal/story"
)

const sweepInterval = 10 * time.Minute

type Config struct {
	MaxPlayers int
	TTL        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers: 4,
		TTL:        24 * time.Hour,
	}
}

// JoinableGame summarizes a session that is still accepting players.
type JoinableGame struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	PlayerCount int       `json:"playerCount"`
	MaxPlayers  int       `json:"maxPlayers"`
}

// Registry owns the session collection. Its lock guards only the map;
// each session carries its own lock, so unrelated games never serialize
// behind one another.
type Registry struct {
	mu    sync.Mutex
	games map[string]*Session
	cfg   Config
}

func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		games: make(map[string]*Session),
		cfg:   cfg,
	}
	go r.sweepLoop()
	return r
}

// Create allocates a new session on the given story. Always succeeds.
func (r *Registry) Create(st *story.Story) *Session {
	s := newSession(uuid.New().String(), st, r.cfg.MaxPlayers)
	r.mu.Lock()
	r.games[s.ID] = s
	r.mu.Unlock()
	metrics.GamesCreated.Inc()
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// List returns every session, in arbitrary order.
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*Session, 0, len(r.games))
	for _, s := range r.games {
		list = append(list, s)
	}
	return list
}

// ListJoinable returns summaries of sessions still waiting for players.
// Session state is read after the registry lock is released so a slow
// session cannot stall the map.
func (r *Registry) ListJoinable() []JoinableGame {
	sessions := r.List()
	joinable := make([]JoinableGame, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if s.status == StatusWaiting && len(s.roster) < s.MaxPlayers {
			joinable = append(joinable, JoinableGame{
				ID:          s.ID,
				CreatedAt:   s.CreatedAt,
				PlayerCount: len(s.roster),
				MaxPlayers:  s.MaxPlayers,
			})
		}
		s.mu.Unlock()
	}
	return joinable
}

// Remove deletes a session. Idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// AddPlayerTo inserts a player into the given session's roster.
func (r *Registry) AddPlayerTo(gameID string, p Player) (Snapshot, error) {
	s, err := r.Get(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.AddPlayer(p)
}

// SweepExpired removes every session older than ttl and returns how many
// were removed. Candidates are snapshotted first and each delete re-takes
// the registry lock, so the sweep never holds the registry lock while
// touching a session.
func (r *Registry) SweepExpired(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	candidates := make([]string, 0)
	for id, s := range r.games {
		if s.CreatedAt.Add(ttl).Before(now) {
			candidates = append(candidates, id)
		}
	}
	r.mu.Unlock()

	for _, id := range candidates {
		r.Remove(id)
	}
	if n := len(candidates); n > 0 {
		metrics.GamesSwept.Add(float64(n))
		log.Printf("[Registry] Swept %d expired games\n", n)
	}
	return len(candidates)
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		r.SweepExpired(time.Now(), r.cfg.TTL)
	}
}
