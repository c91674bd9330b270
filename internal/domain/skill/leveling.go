package skill

import "math"

const (
	MinLevel = 1
	MaxLevel = 99

	experienceFactor = 83
)

// thresholds[L] is the cumulative experience needed to reach level L.
var thresholds = buildThresholds()

func buildThresholds() [MaxLevel + 1]int64 {
	var t [MaxLevel + 1]int64
	var total int64
	for level := MinLevel; level <= MaxLevel; level++ {
		t[level] = total
		total += int64(level) * int64(level) * experienceFactor
	}
	return t
}

// ExperienceForLevel returns E(L) = sum of floor(i*i*83) for i in [1, L-1].
func ExperienceForLevel(level int) int64 {
	return thresholds[clampLevel(level)]
}

// LevelForExperience returns the largest level in [1,99] whose threshold is <= xp.
func LevelForExperience(xp int64) int {
	if xp <= 0 {
		return MinLevel
	}
	lo, hi := MinLevel, MaxLevel
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if thresholds[mid] <= xp {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// NextLevelExperience is the increment from level to level+1.
func NextLevelExperience(level int) int64 {
	l := int64(clampLevel(level))
	return l * l * experienceFactor
}

// CombatLevel derives the combat level from the combat skills.
// Missing skills count as level 1, hitpoints as 10.
func CombatLevel(levels map[Name]int) int {
	get := func(n Name, fallback int) float64 {
		if v, ok := levels[n]; ok && v > 0 {
			return float64(v)
		}
		return float64(fallback)
	}
	base := 0.25 * (get(Defence, 1) + get(Hitpoints, 10) + math.Floor(get(Prayer, 1)/2))
	melee := 0.325 * (get(Attack, 1) + get(Strength, 1))
	ranged := 0.325 * math.Floor(get(Ranged, 1)*1.5)
	magic := 0.325 * math.Floor(get(Magic, 1)*1.5)
	return int(math.Floor(base + math.Max(melee, math.Max(ranged, magic))))
}

func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
