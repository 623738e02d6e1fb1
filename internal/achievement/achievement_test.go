package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

func ids(list []Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func history(n int) []model.SessionRecord {
	out := make([]model.SessionRecord, n)
	for i := range out {
		out[i] = model.SessionRecord{Accuracy: 99}
	}
	return out
}

func TestEvaluateFirstSession(t *testing.T) {
	got := Evaluate(Input{Current: scorer.Stats{WPM: 20, Accuracy: 90}, History: history(1)}, nil)
	assert.Equal(t, []string{"first_session"}, ids(got))
}

func TestEvaluateSpeedAndAccuracy(t *testing.T) {
	got := Evaluate(Input{Current: scorer.Stats{WPM: 104, Accuracy: 100}, History: history(3)}, map[string]struct{}{
		"first_session": {},
	})
	assert.Equal(t, []string{"speed_demon_50", "speed_demon_100", "accuracy_master"}, ids(got))
}

func TestEvaluateSkipsUnlocked(t *testing.T) {
	unlocked := map[string]struct{}{"first_session": {}, "speed_demon_50": {}}
	got := Evaluate(Input{Current: scorer.Stats{WPM: 60, Accuracy: 80}, History: history(2)}, unlocked)
	assert.Empty(t, got)
}

func TestEvaluateMarathon(t *testing.T) {
	got := Evaluate(Input{Current: scorer.Stats{Accuracy: 50}, History: history(100)}, map[string]struct{}{
		"first_session": {},
	})
	assert.Equal(t, []string{"marathon_runner"}, ids(got))
}

func TestRulelessAchievementsNeverUnlock(t *testing.T) {
	got := Evaluate(Input{Current: scorer.Stats{WPM: 200, Accuracy: 100}, History: history(500)}, nil)
	assert.NotContains(t, ids(got), "consistency_king")
	assert.NotContains(t, ids(got), "streak_warrior")

	a, ok := Lookup("streak_warrior")
	require.True(t, ok)
	assert.False(t, a.Unlockable())
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("speed_demon_50")
	require.True(t, ok)
	assert.Equal(t, "Speed Demon", a.Name)
	assert.True(t, a.Unlockable())

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	require.Len(t, list, 7)
	list[0].Name = "changed"
	a, _ := Lookup(list[0].ID)
	assert.Equal(t, "First Steps", a.Name)
}
