package stats

import (
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const terminalWidthBackup = 80

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters. When
// width is positive and smaller than the series, buckets are averaged.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = downsample(values, width)
	}
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal-minVal < 1e-9 {
		return strings.Repeat(string(sparkRunes[len(sparkRunes)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkRunes) - 1)
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * top))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func downsample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// TerminalWidth reports the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
