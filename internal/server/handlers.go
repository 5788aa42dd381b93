package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/armorup/bew/internal/game"
	"github.com/armorup/bew/internal/history"
	"github.com/armorup/bew/internal/metrics"
	"github.com/armorup/bew/internal/story"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions := s.Registry.List()
	views := make([]game.Snapshot, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, sess.Snapshot())
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": views})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StoryID string `json:"storyId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, "invalid body")
		return
	}
	if body.StoryID == "" {
		body.StoryID = story.DefaultStoryID
	}

	st, err := s.Catalog.Load(body.StoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.Registry.Create(st)
	log.Printf("[Handle:CreateGame] Created game %s (story %s)\n", sess.ID, st.ID)

	if s.History != nil {
		if err := s.History.CreateGame(sess.ID, st.ID, sess.CreatedAt); err != nil {
			log.Printf("[History] CreateGame error: %v\n", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"gameId": sess.ID})
}

func (s *Server) handleJoinableGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"games": s.Registry.ListJoinable()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil || body.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	// Player ids are generated fresh on every join; the same user joining
	// twice gets two roster entries.
	player := game.Player{ID: uuid.New().String(), Name: body.Name}

	gameID := r.PathValue("id")
	snap, err := s.Registry.AddPlayerTo(gameID, player)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Publisher.GameUpdated(snap)

	if s.History != nil {
		if err := s.History.AddGamePlayer(gameID, player.ID, player.Name); err != nil {
			log.Printf("[History] AddGamePlayer error: %v\n", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"gameId":   gameID,
		"playerId": player.ID,
	})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"playerId"`
		ChoiceID string `json:"choiceId"`
	}
	if err := decodeBody(r, &body); err != nil || body.PlayerID == "" || body.ChoiceID == "" {
		writeBadRequest(w, "playerId and choiceId are required")
		return
	}

	sess, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	scene, err := sess.CurrentScene()
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := sess.CastVote(body.PlayerID, body.ChoiceID)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.VotesCast.Inc()

	if s.VoteBuffer != nil {
		select {
		case s.VoteBuffer <- history.VoteEvent{
			GameID:   sess.ID,
			PlayerID: body.PlayerID,
			SceneID:  scene.ID,
			ChoiceID: body.ChoiceID,
			VotedAt:  time.Now(),
		}:
		default:
			// Buffer full; history is best-effort.
		}
	}

	if snap.Advanced {
		metrics.ScenesAdvanced.Inc()
		s.Publisher.GameUpdated(snap)
		if snap.Status == game.StatusFinished {
			metrics.GamesFinished.Inc()
			if s.History != nil {
				if err := s.History.FinishGame(sess.ID, snap.Scene.ID); err != nil {
					log.Printf("[History] FinishGame error: %v\n", err)
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLobbyChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil || body.Text == "" {
		writeBadRequest(w, "text is required")
		return
	}
	s.Publisher.LobbyChat(body.Text)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLobbyTodo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Todo string `json:"todo"`
	}
	if err := decodeBody(r, &body); err != nil || body.Todo == "" {
		writeBadRequest(w, "todo is required")
		return
	}
	s.Publisher.LobbyTodo(body.Todo)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Encode error: %v\n", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError maps core errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, story.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrDuplicatePlayer),
		errors.Is(err, game.ErrGameFinished):
		status = http.StatusConflict
	case errors.Is(err, game.ErrUnknownPlayer), errors.Is(err, game.ErrUnknownChoice):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
