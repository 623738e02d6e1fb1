package snippets

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/safedep/dry/log"

	"github.com/verte-zerg/codetype/internal/model"
)

//go:embed catalog/*.toml
var builtin embed.FS

type catalogFile struct {
	Snippets []model.Snippet `toml:"snippet"`
}

// Catalog is an in-memory snippet source.
type Catalog struct {
	snippets []model.Snippet
	index    map[string]int
}

// NewCatalog builds a catalog from already validated snippets.
func NewCatalog(snippets []model.Snippet) *Catalog {
	c := &Catalog{index: map[string]int{}}
	for _, sn := range snippets {
		c.put(sn)
	}
	return c
}

// LoadBuiltin returns the catalog shipped with the binary.
func LoadBuiltin(tabWidth int) (*Catalog, error) {
	c := NewCatalog(nil)
	entries, err := builtin.ReadDir("catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to read builtin catalog: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("catalog", entry.Name())
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		snippets, err := ParseCatalog(name, data, tabWidth)
		if err != nil {
			return nil, err
		}
		for _, sn := range snippets {
			if _, ok := c.index[sn.ID]; ok {
				return nil, fmt.Errorf("%s: duplicate snippet id %q", name, sn.ID)
			}
			c.put(sn)
		}
	}
	return c, nil
}

// LoadCatalog returns the builtin catalog merged with every *.toml file in
// userDir. A user snippet replaces a builtin one with the same id. Invalid
// user files are skipped with a warning; a missing userDir is not an error.
func LoadCatalog(userDir string, tabWidth int) (*Catalog, error) {
	c, err := LoadBuiltin(tabWidth)
	if err != nil {
		return nil, err
	}
	if userDir == "" {
		return c, nil
	}
	paths, err := filepath.Glob(filepath.Join(userDir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list user snippets: %w", err)
	}
	sort.Strings(paths)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warnf("skipping snippet file %s: %v", p, err)
			continue
		}
		snippets, err := ParseCatalog(p, data, tabWidth)
		if err != nil {
			log.Warnf("skipping snippet file: %v", err)
			continue
		}
		for _, sn := range snippets {
			c.put(sn)
		}
		log.Debugf("loaded %d snippets from %s", len(snippets), p)
	}
	return c, nil
}

// ParseCatalog decodes and validates one TOML snippet file. Snippet code is
// normalized with tabWidth.
func ParseCatalog(name string, data []byte, tabWidth int) ([]model.Snippet, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("%s: failed to decode: %w", name, err)
	}
	seen := make(map[string]struct{}, len(file.Snippets))
	out := make([]model.Snippet, 0, len(file.Snippets))
	for i, sn := range file.Snippets {
		sn = normalizeSnippet(sn, tabWidth)
		if err := Validate(sn); err != nil {
			return nil, fmt.Errorf("%s: snippet %d: %w", name, i+1, err)
		}
		if _, ok := seen[sn.ID]; ok {
			return nil, fmt.Errorf("%s: duplicate snippet id %q", name, sn.ID)
		}
		seen[sn.ID] = struct{}{}
		out = append(out, sn)
	}
	return out, nil
}

// normalizeSnippet trims the identifying fields, lowercases language and
// difficulty and normalizes the code.
func normalizeSnippet(sn model.Snippet, tabWidth int) model.Snippet {
	sn.ID = strings.TrimSpace(sn.ID)
	sn.Language = strings.ToLower(strings.TrimSpace(sn.Language))
	sn.Difficulty = strings.ToLower(strings.TrimSpace(sn.Difficulty))
	sn.Code = Normalize(sn.Code, tabWidth)
	return sn
}

// Validate checks the fields every snippet needs.
func Validate(sn model.Snippet) error {
	if sn.ID == "" {
		return fmt.Errorf("id is empty")
	}
	if sn.Language == "" {
		return fmt.Errorf("%s: language is empty", sn.ID)
	}
	if strings.TrimSpace(sn.Code) == "" {
		return fmt.Errorf("%s: code is empty", sn.ID)
	}
	if !ValidDifficulty(sn.Difficulty) {
		return fmt.Errorf("%s: unknown difficulty %q", sn.ID, sn.Difficulty)
	}
	return nil
}

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	for _, known := range model.Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// ListSnippets implements Source.
func (c *Catalog) ListSnippets(_ context.Context, language, difficulty string) ([]model.Snippet, error) {
	var out []model.Snippet
	for _, sn := range c.snippets {
		if matches(sn, language, difficulty) {
			out = append(out, sn)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: language=%q difficulty=%q", ErrNoSnippets, language, difficulty)
	}
	return out, nil
}

// All returns every snippet in load order.
func (c *Catalog) All() []model.Snippet {
	return append([]model.Snippet(nil), c.snippets...)
}

// Len returns the number of snippets.
func (c *Catalog) Len() int {
	return len(c.snippets)
}

func (c *Catalog) put(sn model.Snippet) {
	if i, ok := c.index[sn.ID]; ok {
		c.snippets[i] = sn
		return
	}
	c.index[sn.ID] = len(c.snippets)
	c.snippets = append(c.snippets, sn)
}
