package realtime

import (
	"encoding/json"
	"log"

	"github.com/armorup/bew/internal/broker"
	"github.com/armorup/bew/internal/game"
)

// Publisher translates session mutations into channel messages. Game
// updates go to the session's private channel (named by its id) so they
// never leak to lobby subscribers; lobby traffic goes to the default
// channel. The publisher has no state of its own.
type Publisher struct {
	broker *broker.Broker
}

func NewPublisher(b *broker.Broker) *Publisher {
	return &Publisher{broker: b}
}

// GameUpdated publishes whatever a session mutation changed: the roster
// after a join, the new scene after a completed round, and the final
// scene when the story ends.
func (p *Publisher) GameUpdated(snap game.Snapshot) {
	if snap.Advanced {
		if snap.Status == game.StatusFinished {
			p.publish(snap.ID, GameFinished(snap.Scene.ID))
			return
		}
		p.publish(snap.ID, SceneUpdate(snap.Scene))
		return
	}
	p.publish(snap.ID, RosterUpdate(snap.Players))
}

// LobbyChat broadcasts a chat line to the default channel.
func (p *Publisher) LobbyChat(text string) {
	p.publish(broker.DefaultChannel, Chat(text))
}

// LobbyTodo broadcasts a todo entry to the default channel.
func (p *Publisher) LobbyTodo(text string) {
	p.publish(broker.DefaultChannel, Todo(text))
}

func (p *Publisher) publish(channel string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Realtime] Marshal error: %v\n", err)
		return
	}
	p.broker.Publish(channel, data)
}
