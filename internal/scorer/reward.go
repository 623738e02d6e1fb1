package scorer

const (
	baseXP        = 10
	xpPerLevel    = 100
	wpmStep       = 10
	wpmBonus      = 5
	accuracyStep  = 10
	accuracyBonus = 3
)

// XP returns the experience earned for a completed session.
func XP(stats Stats) int {
	return baseXP + wpmBonus*(stats.WPM/wpmStep) + accuracyBonus*(stats.Accuracy/accuracyStep)
}

// Level maps total experience to a level, starting at 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// LevelProgress reports how far xp is into its level and how much the next
// level requires in total.
func LevelProgress(xp int) (into, needed int) {
	if xp < 0 {
		xp = 0
	}
	return xp % xpPerLevel, xpPerLevel
}
