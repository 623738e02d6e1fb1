package snippets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/model"
)

func TestPickEmpty(t *testing.T) {
	_, err := NewSeededPicker(1).Pick(nil, "")
	assert.ErrorIs(t, err, ErrNoSnippets)
}

func TestPickAvoidsCurrent(t *testing.T) {
	list := []model.Snippet{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	p := NewSeededPicker(42)
	for i := 0; i < 50; i++ {
		sn, err := p.Pick(list, "b")
		require.NoError(t, err)
		assert.NotEqual(t, "b", sn.ID)
	}
}

func TestPickSoleCandidate(t *testing.T) {
	sn, err := NewSeededPicker(7).Pick([]model.Snippet{{ID: "only"}}, "only")
	require.NoError(t, err)
	assert.Equal(t, "only", sn.ID)
}

func TestSeededPickerIsDeterministic(t *testing.T) {
	list := []model.Snippet{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	p1, p2 := NewSeededPicker(99), NewSeededPicker(99)
	for i := 0; i < 10; i++ {
		a, _ := p1.Pick(list, "")
		b, _ := p2.Pick(list, "")
		assert.Equal(t, a.ID, b.ID)
	}
}
