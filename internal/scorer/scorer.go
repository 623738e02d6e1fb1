// Package scorer computes live typing statistics for a session.
package scorer

import (
	"math"
	"time"
)

// charsPerWord is the standard word length used for WPM.
const charsPerWord = 5.0

// Stats is a snapshot of a typing session at one point in time.
type Stats struct {
	WPM            int
	RawWPM         int
	Accuracy       int
	Errors         int
	ErrorPositions []int
	Correct        int
	CurrentIndex   int
	TimeElapsedMs  int64
	IsComplete     bool
	// StartTime is zero until the first keystroke.
	StartTime time.Time
}

// Empty returns the stats of a session that has not started yet.
func Empty() Stats {
	return Stats{Accuracy: 100, ErrorPositions: []int{}}
}

// Recompute derives a stats snapshot from the target text, the text typed so
// far and the session start time. A zero start means typing has not begun.
func Recompute(target, typed string, start, now time.Time) Stats {
	targetRunes := []rune(target)
	typedRunes := []rune(typed)

	stats := Stats{
		ErrorPositions: []int{},
		CurrentIndex:   len(typedRunes),
		StartTime:      start,
	}
	if !start.IsZero() {
		if elapsed := now.Sub(start).Milliseconds(); elapsed > 0 {
			stats.TimeElapsedMs = elapsed
		}
	}

	for i, r := range typedRunes {
		if i < len(targetRunes) && r == targetRunes[i] {
			stats.Correct++
			continue
		}
		stats.Errors++
		stats.ErrorPositions = append(stats.ErrorPositions, i)
	}

	stats.WPM = wordsPerMinute(stats.Correct, stats.TimeElapsedMs)
	stats.RawWPM = wordsPerMinute(len(typedRunes), stats.TimeElapsedMs)
	stats.Accuracy = accuracy(stats.Correct, len(typedRunes))
	stats.IsComplete = len(typedRunes) == len(targetRunes) && stats.Errors == 0
	return stats
}

func wordsPerMinute(chars int, elapsedMs int64) int {
	if elapsedMs <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / 60000.0
	return int(math.Round((float64(chars) / charsPerWord) / minutes))
}

func accuracy(correct, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
