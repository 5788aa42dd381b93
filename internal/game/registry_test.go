package game

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		MaxPlayers: 4,
		TTL:        24 * time.Hour,
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(testConfig())
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if len(r.List()) != 0 {
		t.Error("new registry should have no games")
	}
}

func TestRegistry_Create(t *testing.T) {
	r := NewRegistry(testConfig())

	s := r.Create(testStory())
	if s == nil {
		t.Fatal("Create() returned nil session")
	}
	if s.ID == "" {
		t.Error("session id should not be empty")
	}
	if s.Status() != StatusWaiting {
		t.Errorf("status = %q, want %q", s.Status(), StatusWaiting)
	}
	if s.MaxPlayers != 4 {
		t.Errorf("MaxPlayers = %d, want 4", s.MaxPlayers)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(testConfig())
	s := r.Create(testStory())

	got, err := r.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("ID = %q, want %q", got.ID, s.ID)
	}

	_, err = r.Get("nonexistent")
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Get() error = %v, want ErrGameNotFound", err)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(testConfig())
	s := r.Create(testStory())

	r.Remove(s.ID)
	if _, err := r.Get(s.ID); !errors.Is(err, ErrGameNotFound) {
		t.Error("session should be removed")
	}

	// Idempotent
	r.Remove(s.ID)
	r.Remove("nonexistent")
}

func TestRegistry_AddPlayerTo(t *testing.T) {
	r := NewRegistry(testConfig())
	s := r.Create(testStory())

	snap, err := r.AddPlayerTo(s.ID, Player{ID: "p1", Name: "Alice"})
	if err != nil {
		t.Fatalf("AddPlayerTo() error: %v", err)
	}
	if len(snap.Players) != 1 {
		t.Errorf("players = %d, want 1", len(snap.Players))
	}

	_, err = r.AddPlayerTo("nonexistent", Player{ID: "p2", Name: "Bob"})
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("AddPlayerTo() error = %v, want ErrGameNotFound", err)
	}
}

func TestRegistry_ListJoinable(t *testing.T) {
	cfg := Config{MaxPlayers: 2, TTL: 24 * time.Hour}
	r := NewRegistry(cfg)

	open := r.Create(testStory())
	full := r.Create(testStory())
	finished := r.Create(testStory())

	r.AddPlayerTo(full.ID, Player{ID: "p1", Name: "Alice"})
	r.AddPlayerTo(full.ID, Player{ID: "p2", Name: "Bob"})

	r.AddPlayerTo(finished.ID, Player{ID: "p3", Name: "Carol"})
	finished.CastVote("p3", "right") // straight to the terminal scene

	joinable := r.ListJoinable()
	if len(joinable) != 1 {
		t.Fatalf("ListJoinable() = %d games, want 1", len(joinable))
	}
	if joinable[0].ID != open.ID {
		t.Errorf("joinable id = %q, want %q", joinable[0].ID, open.ID)
	}
	if joinable[0].PlayerCount != 0 {
		t.Errorf("playerCount = %d, want 0", joinable[0].PlayerCount)
	}
	if joinable[0].MaxPlayers != 2 {
		t.Errorf("maxPlayers = %d, want 2", joinable[0].MaxPlayers)
	}
}

func TestRegistry_ListJoinable_FillingRemovesGame(t *testing.T) {
	cfg := Config{MaxPlayers: 2, TTL: 24 * time.Hour}
	r := NewRegistry(cfg)
	s := r.Create(testStory())

	if len(r.ListJoinable()) != 1 {
		t.Fatal("fresh game should be joinable")
	}

	r.AddPlayerTo(s.ID, Player{ID: "p1", Name: "Alice"})
	if len(r.ListJoinable()) != 1 {
		t.Error("half-full game should still be joinable")
	}

	r.AddPlayerTo(s.ID, Player{ID: "p2", Name: "Bob"})
	if len(r.ListJoinable()) != 0 {
		t.Error("full game should not be joinable")
	}
}

func TestRegistry_SweepExpired(t *testing.T) {
	r := NewRegistry(testConfig())

	old := r.Create(testStory())
	old.CreatedAt = time.Now().Add(-25 * time.Hour)
	fresh := r.Create(testStory())
	fresh.CreatedAt = time.Now().Add(-1 * time.Minute)

	removed := r.SweepExpired(time.Now(), 24*time.Hour)
	if removed != 1 {
		t.Errorf("SweepExpired() = %d, want 1", removed)
	}
	if _, err := r.Get(old.ID); !errors.Is(err, ErrGameNotFound) {
		t.Error("expired session should be removed")
	}
	if _, err := r.Get(fresh.ID); err != nil {
		t.Error("fresh session should survive the sweep")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry(testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Create(testStory())
		}()
	}
	wg.Wait()

	if len(r.List()) != 50 {
		t.Errorf("concurrent creates: got %d games, want 50", len(r.List()))
	}
}

func TestRegistry_SessionIsolation(t *testing.T) {
	r := NewRegistry(testConfig())
	s1 := r.Create(testStory())
	s2 := r.Create(testStory())

	r.AddPlayerTo(s1.ID, Player{ID: "p1", Name: "Alice"})
	r.AddPlayerTo(s2.ID, Player{ID: "p2", Name: "Bob"})

	snap1 := s1.Snapshot()
	snap2 := s2.Snapshot()

	if len(snap1.Players) != 1 || snap1.Players[0].Name != "Alice" {
		t.Error("session 1 should only have Alice")
	}
	if len(snap2.Players) != 1 || snap2.Players[0].Name != "Bob" {
		t.Error("session 2 should only have Bob")
	}
}

func TestRegistry_ConcurrentVotesOneSession(t *testing.T) {
	r := NewRegistry(testConfig())
	s := r.Create(testStory())
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if _, err := r.AddPlayerTo(s.ID, Player{ID: id, Name: id}); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()
			if _, err := s.CastVote(playerID, "left"); err != nil {
				t.Errorf("CastVote(%s) error: %v", playerID, err)
			}
		}(id)
	}
	wg.Wait()

	// All four voted for "left": the round must have completed exactly once.
	snap := s.Snapshot()
	if snap.Scene.ID != "cave" {
		t.Errorf("scene = %q, want %q", snap.Scene.ID, "cave")
	}
	if len(snap.Votes) != 0 {
		t.Errorf("votes = %v, want cleared", snap.Votes)
	}
}
