// Package realtime defines the wire messages pushed to subscribed
// connections and the publisher that turns game mutations into them.
package realtime

import (
	"github.com/armorup/bew/internal/game"
	"github.com/armorup/bew/internal/story"
)

type MessageType string

const (
	TypeRosterUpdate = MessageType("roster-update")
	TypeSceneUpdate  = MessageType("scene-update")
	TypeGameFinished = MessageType("game-finished")
	TypeChat         = MessageType("chat")
	TypeTodo         = MessageType("todo")
)

// Message is the envelope every realtime payload travels in. Data holds
// the payload struct matching Type; the constructors below are the only
// way messages are built, which keeps the variant set closed.
type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

type RosterPayload struct {
	Players []game.Player `json:"players"`
}

type ScenePayload struct {
	Scene story.Scene       `json:"scene"`
	Votes map[string]string `json:"votes"`
}

type FinishedPayload struct {
	SceneID string `json:"sceneId"`
}

type TextPayload struct {
	Text string `json:"text"`
}

// RosterUpdate announces a roster change.
func RosterUpdate(players []game.Player) Message {
	return Message{Type: TypeRosterUpdate, Data: RosterPayload{Players: players}}
}

// SceneUpdate announces a scene progression. The vote tally of the new
// round is always empty.
func SceneUpdate(scene story.Scene) Message {
	return Message{Type: TypeSceneUpdate, Data: ScenePayload{Scene: scene, Votes: map[string]string{}}}
}

// GameFinished announces that the story reached a terminal scene.
func GameFinished(sceneID string) Message {
	return Message{Type: TypeGameFinished, Data: FinishedPayload{SceneID: sceneID}}
}

// Chat wraps a lobby chat line.
func Chat(text string) Message {
	return Message{Type: TypeChat, Data: TextPayload{Text: text}}
}

// Todo wraps a lobby todo entry.
func Todo(text string) Message {
	return Message{Type: TypeTodo, Data: TextPayload{Text: text}}
}
