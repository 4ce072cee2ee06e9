package engine

import (
	"context"
	"fmt"
)

// Backfiller supplies supplementary vocabulary exercises when the catalog has
// fewer entries than a full module window. Lookups are best-effort; failure
// must never block module generation.
type Backfiller interface {
	VocabularyExercises(ctx context.Context, n int) ([]Exercise, error)
}

// Catalog is the total-ordered exercise list that module windowing runs over.
// Module N (1-based) covers indices [(N-1)*ExercisesPerModule, N*ExercisesPerModule).
type Catalog struct {
	exercises  []Exercise
	backfiller Backfiller
}

func NewCatalog(exercises []Exercise, backfiller Backfiller) *Catalog {
	return &Catalog{exercises: exercises, backfiller: backfiller}
}

func (c *Catalog) Len() int {
	return len(c.exercises)
}

// ModuleCount is the number of modules the static catalog spans.
func (c *Catalog) ModuleCount() int {
	if len(c.exercises) == 0 {
		return 0
	}
	return (len(c.exercises) + ExercisesPerModule - 1) / ExercisesPerModule
}

func (c *Catalog) HasModule(n int) bool {
	return n >= 1 && (n-1)*ExercisesPerModule < len(c.exercises)
}

// Module returns the exercise window for module n, backfilled to the full
// window size when the catalog tail is short. Backfill order: the dictionary
// collaborator first, then the fixed local fallback list; a module is never
// empty while any fallback exercise exists.
func (c *Catalog) Module(ctx context.Context, n int) ([]Exercise, error) {
	if n < 1 {
		return nil, fmt.Errorf("engine: module index %d out of range", n)
	}

	start := (n - 1) * ExercisesPerModule
	if start >= len(c.exercises) {
		return nil, fmt.Errorf("engine: module index %d out of range", n)
	}

	end := start + ExercisesPerModule
	if end > len(c.exercises) {
		end = len(c.exercises)
	}

	window := make([]Exercise, end-start)
	copy(window, c.exercises[start:end])

	deficit := ExercisesPerModule - len(window)
	if deficit == 0 {
		return window, nil
	}

	category := fmt.Sprintf("Module %d", n)
	if c.backfiller != nil {
		extra, err := c.backfiller.VocabularyExercises(ctx, deficit)
		if err == nil {
			for i := range extra {
				if extra[i].Category == "" {
					extra[i].Category = category
				}
			}
			window = append(window, extra...)
			deficit = ExercisesPerModule - len(window)
		}
	}

	for i := 0; i < deficit && i < len(fallbackExercises); i++ {
		fb := fallbackExercises[i]
		fb.ID = fmt.Sprintf("%s-m%d", fb.ID, n)
		fb.Category = category
		window = append(window, fb)
	}

	return window, nil
}

// fallbackExercises keeps module generation alive when both the catalog tail
// and the dictionary lookup come up short.
var fallbackExercises = []Exercise{
	{ID: "fallback-hello", Type: Vocabulary, Question: "Which word means 'hello'?", Options: []string{"hola", "adiós", "gracias", "por favor"}, CorrectAnswer: "hola", Difficulty: "beginner"},
	{ID: "fallback-goodbye", Type: Vocabulary, Question: "Which word means 'goodbye'?", Options: []string{"hola", "adiós", "buenos", "noches"}, CorrectAnswer: "adiós", Difficulty: "beginner"},
	{ID: "fallback-please", Type: Translation, Question: "Translate: 'please'", CorrectAnswer: "por favor", Difficulty: "beginner"},
	{ID: "fallback-thanks", Type: Translation, Question: "Translate: 'thank you'", CorrectAnswer: "gracias", Difficulty: "beginner"},
	{ID: "fallback-yes-no", Type: Vocabulary, Question: "Which word means 'yes'?", Options: []string{"no", "sí", "tal vez", "nunca"}, CorrectAnswer: "sí", Difficulty: "beginner"},
}
