package story

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

//go:embed stories.json
var storiesFS embed.FS

// ErrNotFound is returned when a story id has no definition.
var ErrNotFound = errors.New("story not found")

// DefaultStoryID is used when a game is created without an explicit story.
const DefaultStoryID = "story-1"

// Catalog holds every story definition, loaded once at process start.
type Catalog struct {
	stories map[string]*Story
}

// LoadCatalog parses the embedded story definitions.
func LoadCatalog() (*Catalog, error) {
	data, err := storiesFS.ReadFile("stories.json")
	if err != nil {
		return nil, fmt.Errorf("reading stories: %w", err)
	}

	var stories []Story
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("parsing stories: %w", err)
	}

	c := &Catalog{stories: make(map[string]*Story, len(stories))}
	for i := range stories {
		s := &stories[i]
		if len(s.Scenes) == 0 {
			return nil, fmt.Errorf("story %s has no scenes", s.ID)
		}
		c.stories[s.ID] = s
	}
	log.Printf("[Catalog] Loaded %d stories\n", len(c.stories))
	return c, nil
}

// Load returns the story with the given id.
func (c *Catalog) Load(id string) (*Story, error) {
	s, ok := c.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}
