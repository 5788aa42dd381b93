package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/armorup/bew/internal/broker"
	"github.com/armorup/bew/internal/config"
	"github.com/armorup/bew/internal/game"
	"github.com/armorup/bew/internal/history"
	"github.com/armorup/bew/internal/metrics"
	"github.com/armorup/bew/internal/realtime"
	"github.com/armorup/bew/internal/story"
)

type Server struct {
	Catalog   *story.Catalog
	Registry  *game.Registry
	Broker    *broker.Broker
	Publisher *realtime.Publisher

	History    *history.Store         // nil if no database configured
	VoteBuffer chan history.VoteEvent // nil if no database configured
}

func Run() error {
	appCfg := config.Load()

	catalog, err := story.LoadCatalog()
	if err != nil {
		return err
	}

	b := broker.New()
	srv := &Server{
		Catalog: catalog,
		Registry: game.NewRegistry(game.Config{
			MaxPlayers: appCfg.MaxPlayers,
			TTL:        appCfg.GameTTL,
		}),
		Broker:    b,
		Publisher: realtime.NewPublisher(b),
	}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		store, err := history.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[History] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := store.Migrate(); err != nil {
				log.Printf("[History] Migration failed: %v\n", err)
			}
			srv.History = store
			srv.VoteBuffer = make(chan history.VoteEvent, 1000)
			go voteBatchWriter(store, srv.VoteBuffer)
			log.Println("[History] Database connected and migrations applied")
		}
	} else {
		log.Println("[History] DATABASE_URL not set, running without database")
	}

	mux := NewMux(srv)

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, mux)
}

// NewMux wires the route table. Split from Run so tests can serve the
// same routes from httptest.
func NewMux(srv *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", srv.handleListGames)
	mux.HandleFunc("POST /games/create", srv.handleCreateGame)
	mux.HandleFunc("GET /games/joinable", srv.handleJoinableGames)
	mux.HandleFunc("GET /games/{id}", srv.handleGetGame)
	mux.HandleFunc("POST /games/{id}/join", srv.handleJoinGame)
	mux.HandleFunc("POST /games/{id}/vote", srv.handleVote)
	mux.HandleFunc("POST /lobby/chat", srv.handleLobbyChat)
	mux.HandleFunc("POST /lobby/todo", srv.handleLobbyTodo)
	mux.HandleFunc("GET /ws", srv.handleWS)
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

func voteBatchWriter(store *history.Store, buffer chan history.VoteEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]history.VoteEvent, 0, 50)

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				if err := store.BatchRecordVotes(batch); err != nil {
					log.Printf("[History] BatchRecordVotes error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := store.BatchRecordVotes(batch); err != nil {
					log.Printf("[History] BatchRecordVotes error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
