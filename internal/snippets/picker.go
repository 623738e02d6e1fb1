package snippets

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// Picker selects snippets at random.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewSeededPicker(time.Now().UnixNano())
}

// NewSeededPicker returns a Picker with a fixed seed for reproducible runs.
func NewSeededPicker(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects a snippet uniformly. The snippet with excludeID is only chosen
// when it is the sole candidate.
func (p *Picker) Pick(snippets []model.Snippet, excludeID string) (model.Snippet, error) {
	if len(snippets) == 0 {
		return model.Snippet{}, ErrNoSnippets
	}
	candidates := snippets
	if excludeID != "" && len(snippets) > 1 {
		candidates = make([]model.Snippet, 0, len(snippets))
		for _, sn := range snippets {
			if sn.ID != excludeID {
				candidates = append(candidates, sn)
			}
		}
		if len(candidates) == 0 {
			candidates = snippets
		}
	}
	return candidates[p.rnd.Intn(len(candidates))], nil
}
