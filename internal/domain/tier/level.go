package tier

const MaxLevel = 100

// LevelFor walks the cumulative 5l²+50l+100 curve and returns the first level whose total exceeds xp.
func LevelFor(xp int64) int {
	var total int64
	for level := 0; level <= MaxLevel; level++ {
		l := int64(level)
		total += 5*l*l + 50*l + 100
		if total > xp {
			return level
		}
	}
	return MaxLevel
}
