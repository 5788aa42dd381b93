package story

// Story is a branching narrative. Immutable after load; any number of
// sessions may read it concurrently.
type Story struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Scene is a single step of a story. A scene with no choices is terminal.
type Scene struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
}

// Choice links a scene to its target. An empty NextSceneID means the
// choice ends the story.
type Choice struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	NextSceneID string `json:"nextSceneId,omitempty"`
}

// Scene returns the scene with the given id.
func (s *Story) Scene(id string) (*Scene, bool) {
	for i := range s.Scenes {
		if s.Scenes[i].ID == id {
			return &s.Scenes[i], true
		}
	}
	return nil, false
}

// FirstScene returns the opening scene of the story.
func (s *Story) FirstScene() *Scene {
	return &s.Scenes[0]
}

// IsTerminal reports whether the scene ends the story.
func (sc *Scene) IsTerminal() bool {
	return len(sc.Choices) == 0
}

// Choice returns the choice with the given id within the scene.
func (sc *Scene) Choice(id string) (*Choice, bool) {
	for i := range sc.Choices {
		if sc.Choices[i].ID == id {
			return &sc.Choices[i], true
		}
	}
	return nil, false
}

// ChoiceOrder returns the choice ids in declaration order.
func (sc *Scene) ChoiceOrder() []string {
	order := make([]string, len(sc.Choices))
	for i, c := range sc.Choices {
		order[i] = c.ID
	}
	return order
}
