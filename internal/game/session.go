package game

import (
	"sync"
	"time"

	"github.com/armorup/bew/internal/story"
)

type Status string

const (
	StatusWaiting  = Status("WAITING")
	StatusPlaying  = Status("PLAYING")
	StatusFinished = Status("FINISHED")
)

// Player is a roster member. Immutable once created.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is one playthrough of a story. All mutable state (roster,
// votes, scene pointer, status) is guarded by a single mutex so that
// join, vote and progression appear atomic to concurrent callers.
type Session struct {
	ID         string
	CreatedAt  time.Time
	MaxPlayers int

	mu             sync.Mutex
	story          *story.Story
	currentSceneID string
	roster         map[string]Player
	votes          map[string]string // playerID -> choiceID
	status         Status
}

// Snapshot is a consistent copy of session state taken under the lock.
// Advanced is set when the operation completed a voting round and moved
// the story to a new scene (or finished it).
type Snapshot struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"createdAt"`
	StoryID    string            `json:"storyId"`
	Status     Status            `json:"status"`
	Scene      story.Scene       `json:"scene"`
	Players    []Player          `json:"players"`
	Votes      map[string]string `json:"votes"`
	MaxPlayers int               `json:"maxPlayers"`
	Advanced   bool              `json:"-"`
}

func newSession(id string, st *story.Story, maxPlayers int) *Session {
	return &Session{
		ID:             id,
		CreatedAt:      time.Now(),
		MaxPlayers:     maxPlayers,
		story:          st,
		currentSceneID: st.FirstScene().ID,
		roster:         make(map[string]Player),
		votes:          make(map[string]string),
		status:         StatusWaiting,
	}
}

// AddPlayer inserts a player into the roster. The roster is capped at
// MaxPlayers; a failed insert leaves the session unchanged.
func (s *Session) AddPlayer(p Player) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roster[p.ID]; exists {
		return Snapshot{}, ErrDuplicatePlayer
	}
	if len(s.roster) >= s.MaxPlayers {
		return Snapshot{}, ErrGameFull
	}
	s.roster[p.ID] = p
	return s.snapshotLocked(false), nil
}

// CastVote records (or overwrites) the player's vote for the current
// round, then evaluates progression while still holding the lock so the
// vote set cannot change mid-check. The first accepted vote moves the
// session from WAITING to PLAYING. A failed vote leaves the session
// unchanged.
func (s *Session) CastVote(playerID, choiceID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusFinished {
		return Snapshot{}, ErrGameFinished
	}
	if _, ok := s.roster[playerID]; !ok {
		return Snapshot{}, ErrUnknownPlayer
	}
	scene, ok := s.story.Scene(s.currentSceneID)
	if !ok {
		return Snapshot{}, ErrInvalidStoryState
	}
	if _, ok := scene.Choice(choiceID); !ok {
		return Snapshot{}, ErrUnknownChoice
	}

	prevVote, hadVote := s.votes[playerID]
	prevStatus := s.status

	s.votes[playerID] = choiceID
	if s.status == StatusWaiting {
		s.status = StatusPlaying
	}

	advanced, err := s.progressLocked(scene)
	if err != nil {
		if hadVote {
			s.votes[playerID] = prevVote
		} else {
			delete(s.votes, playerID)
		}
		s.status = prevStatus
		return Snapshot{}, err
	}
	return s.snapshotLocked(advanced), nil
}

// progressLocked advances the scene once every roster member has voted.
// An empty roster never progresses. Caller must hold s.mu.
func (s *Session) progressLocked(scene *story.Scene) (bool, error) {
	if len(s.roster) == 0 || len(s.votes) < len(s.roster) {
		return false, nil
	}

	winnerID := tally(s.votes, scene.ChoiceOrder())
	winner, ok := scene.Choice(winnerID)
	if !ok {
		return false, ErrInvalidStoryState
	}

	if winner.NextSceneID == "" {
		// Terminal branch: the winning choice ends the story here.
		s.status = StatusFinished
		s.votes = make(map[string]string)
		return true, nil
	}

	next, ok := s.story.Scene(winner.NextSceneID)
	if !ok {
		// Malformed content, not a runtime race. Leave state untouched.
		return false, ErrInvalidStoryState
	}

	s.currentSceneID = next.ID
	s.votes = make(map[string]string)
	if next.IsTerminal() {
		s.status = StatusFinished
	}
	return true, nil
}

// CurrentScene resolves the scene the session is on. Pure read.
func (s *Session) CurrentScene() (story.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scene, ok := s.story.Scene(s.currentSceneID)
	if !ok {
		return story.Scene{}, ErrInvalidStoryState
	}
	return *scene, nil
}

// Status returns the session's lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// PlayerCount returns the roster size.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roster)
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(false)
}

func (s *Session) snapshotLocked(advanced bool) Snapshot {
	players := make([]Player, 0, len(s.roster))
	for _, p := range s.roster {
		players = append(players, p)
	}
	votes := make(map[string]string, len(s.votes))
	for pid, cid := range s.votes {
		votes[pid] = cid
	}

	var scene story.Scene
	if sc, ok := s.story.Scene(s.currentSceneID); ok {
		scene = *sc
	}

	return Snapshot{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		StoryID:    s.story.ID,
		Status:     s.status,
		Scene:      scene,
		Players:    players,
		Votes:      votes,
		MaxPlayers: s.MaxPlayers,
		Advanced:   advanced,
	}
}
