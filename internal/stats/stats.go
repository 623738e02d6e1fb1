// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// recentCount is how many sessions a summary lists.
const recentCount = 5

// UserStats summarizes a user's sessions.
type UserStats struct {
	TotalSessions int
	BestWPM       int
	AvgWPM        float64
	AvgAccuracy   float64
	TotalTimeSec  int64
	// Recent holds the latest sessions, newest first.
	Recent []model.SessionRecord
}

// Breakdown aggregates sessions sharing a language or difficulty.
type Breakdown struct {
	Key         string
	Sessions    int
	BestWPM     int
	AvgWPM      float64
	AvgAccuracy float64
}

// Summarize aggregates records given oldest first. Averages are rounded to two
// decimals.
func Summarize(records []model.SessionRecord) UserStats {
	if len(records) == 0 {
		return UserStats{}
	}
	var out UserStats
	var wpmSum, accSum float64
	var durationMs int64
	for _, r := range records {
		if r.WPM > out.BestWPM {
			out.BestWPM = r.WPM
		}
		wpmSum += float64(r.WPM)
		accSum += float64(r.Accuracy)
		durationMs += r.DurationMs
	}
	count := float64(len(records))
	out.TotalSessions = len(records)
	out.AvgWPM = round2(wpmSum / count)
	out.AvgAccuracy = round2(accSum / count)
	out.TotalTimeSec = int64(math.Round(float64(durationMs) / 1000))

	n := recentCount
	if n > len(records) {
		n = len(records)
	}
	out.Recent = make([]model.SessionRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out.Recent = append(out.Recent, records[i])
	}
	return out
}

// ByLanguage groups records by language, sorted by name.
func ByLanguage(records []model.SessionRecord) []Breakdown {
	return breakdown(records, func(r model.SessionRecord) string { return r.Language }, nil)
}

// ByDifficulty groups records by difficulty, easiest first.
func ByDifficulty(records []model.SessionRecord) []Breakdown {
	rank := map[string]int{}
	for i, d := range model.Difficulties {
		rank[d] = i
	}
	return breakdown(records, func(r model.SessionRecord) string { return r.Difficulty }, rank)
}

func breakdown(records []model.SessionRecord, key func(model.SessionRecord) string, rank map[string]int) []Breakdown {
	type acc struct {
		Breakdown
		wpmSum, accSum float64
	}
	groups := map[string]*acc{}
	for _, r := range records {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &acc{Breakdown: Breakdown{Key: k}}
			groups[k] = g
		}
		g.Sessions++
		g.wpmSum += float64(r.WPM)
		g.accSum += float64(r.Accuracy)
		if r.WPM > g.BestWPM {
			g.BestWPM = r.WPM
		}
	}
	out := make([]Breakdown, 0, len(groups))
	for _, g := range groups {
		b := g.Breakdown
		b.AvgWPM = round2(g.wpmSum / float64(g.Sessions))
		b.AvgAccuracy = round2(g.accSum / float64(g.Sessions))
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i].Key]
		rj, jok := rank[out[j].Key]
		if iok && jok && ri != rj {
			return ri < rj
		}
		if iok != jok {
			return iok
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Series extracts per-session WPM and accuracy, oldest first.
func Series(records []model.SessionRecord) (wpm, accuracy []float64) {
	wpm = make([]float64, len(records))
	accuracy = make([]float64, len(records))
	for i, r := range records {
		wpm[i] = float64(r.WPM)
		accuracy[i] = float64(r.Accuracy)
	}
	return wpm, accuracy
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
