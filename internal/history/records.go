package history

import (
	"fmt"
	"time"
)

// VoteEvent is one accepted vote, buffered and written in batches.
type VoteEvent struct {
	GameID   string
	PlayerID string
	SceneID  string
	ChoiceID string
	VotedAt  time.Time
}

func (s *Store) CreateGame(gameID, storyID string, createdAt time.Time) error {
	_, err := s.conn.Exec(`
		INSERT INTO games (id, story_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, gameID, storyID, createdAt)
	if err != nil {
		return fmt.Errorf("creating game record: %w", err)
	}
	return nil
}

func (s *Store) FinishGame(gameID, finalSceneID string) error {
	_, err := s.conn.Exec(`
		UPDATE games SET finished_at = now(), final_scene_id = $2 WHERE id = $1
	`, gameID, finalSceneID)
	if err != nil {
		return fmt.Errorf("finishing game record: %w", err)
	}
	return nil
}

func (s *Store) AddGamePlayer(gameID, playerID, name string) error {
	_, err := s.conn.Exec(`
		INSERT INTO game_players (game_id, player_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id, player_id) DO NOTHING
	`, gameID, playerID, name)
	if err != nil {
		return fmt.Errorf("adding game player: %w", err)
	}
	return nil
}

func (s *Store) BatchRecordVotes(events []VoteEvent) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO vote_events (game_id, player_id, scene_id, choice_id, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.GameID, ev.PlayerID, ev.SceneID, ev.ChoiceID, ev.VotedAt); err != nil {
			return fmt.Errorf("inserting vote event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GameVoteCounts aggregates recorded votes per choice for one game.
func (s *Store) GameVoteCounts(gameID string) (map[string]int, error) {
	rows, err := s.conn.Query(`
		SELECT choice_id, COUNT(*) FROM vote_events WHERE game_id = $1 GROUP BY choice_id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying vote counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var choiceID string
		var n int
		if err := rows.Scan(&choiceID, &n); err != nil {
			return nil, fmt.Errorf("scanning vote count: %w", err)
		}
		counts[choiceID] = n
	}
	return counts, rows.Err()
}
