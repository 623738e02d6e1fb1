// Package snippets provides the code snippets users practice on.
package snippets

import (
	"context"
	"errors"
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// ErrNoSnippets is returned when a filter matches nothing.
var ErrNoSnippets = errors.New("no snippets match the filter")

// Source lists snippets. Empty language or difficulty matches any value.
type Source interface {
	ListSnippets(ctx context.Context, language, difficulty string) ([]model.Snippet, error)
}

// LanguageSummary counts the snippets available for one language.
type LanguageSummary struct {
	Language     string
	Total        int
	ByDifficulty map[string]int
}

// Languages groups snippets by language, sorted by name.
func Languages(snippets []model.Snippet) []LanguageSummary {
	index := map[string]int{}
	var out []LanguageSummary
	for _, sn := range snippets {
		i, ok := index[sn.Language]
		if !ok {
			i = len(out)
			index[sn.Language] = i
			out = append(out, LanguageSummary{Language: sn.Language, ByDifficulty: map[string]int{}})
		}
		out[i].Total++
		out[i].ByDifficulty[sn.Difficulty]++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out
}

func matches(sn model.Snippet, language, difficulty string) bool {
	if language != "" && sn.Language != language {
		return false
	}
	if difficulty != "" && sn.Difficulty != difficulty {
		return false
	}
	return true
}
