// Package metrics exposes the process counters served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_games_created_total",
		Help: "Number of game sessions created.",
	})
	GamesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_games_swept_total",
		Help: "Number of game sessions removed by the TTL sweep.",
	})
	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_games_finished_total",
		Help: "Number of game sessions that reached a terminal scene.",
	})
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_votes_cast_total",
		Help: "Number of accepted votes.",
	})
	ScenesAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_scenes_advanced_total",
		Help: "Number of completed voting rounds that moved a story forward.",
	})
	MessagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_messages_published_total",
		Help: "Number of messages handed to channel subscribers.",
	})
	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bew_messages_dropped_total",
		Help: "Number of messages dropped because a subscriber was slow.",
	})
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bew_active_connections",
		Help: "Number of open realtime connections.",
	})
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
