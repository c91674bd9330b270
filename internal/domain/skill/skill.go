package skill

type Name string

const (
	Attack      Name = "attack"
	Strength    Name = "strength"
	Defence     Name = "defence"
	Hitpoints   Name = "hitpoints"
	Ranged      Name = "ranged"
	Magic       Name = "magic"
	Prayer      Name = "prayer"
	Slayer      Name = "slayer"
	Woodcutting Name = "woodcutting"
	Mining      Name = "mining"
	Fishing     Name = "fishing"
	Cooking     Name = "cooking"
	Smithing    Name = "smithing"
	Crafting    Name = "crafting"
	Firemaking  Name = "firemaking"
)

// All lists every trainable skill in display order.
func All() []Name {
	return []Name{
		Attack, Strength, Defence, Hitpoints, Ranged, Magic, Prayer, Slayer,
		Woodcutting, Mining, Fishing, Cooking, Smithing, Crafting, Firemaking,
	}
}

func (n Name) Valid() bool {
	for _, s := range All() {
		if s == n {
			return true
		}
	}
	return false
}

type Skill struct {
	Level               int   `json:"level"`
	Experience          int64 `json:"experience"`
	NextLevelExperience int64 `json:"next_level_experience"`
}

type LevelUp struct {
	Skill Name `json:"skill"`
	Level int  `json:"level"`
}

// New returns a skill sitting exactly on the experience threshold of level.
func New(level int) Skill {
	level = clampLevel(level)
	return Skill{
		Level:               level,
		Experience:          ExperienceForLevel(level),
		NextLevelExperience: NextLevelExperience(level),
	}
}

// Gain adds experience and reports the new level when it rose.
// Non-positive amounts leave the skill untouched.
func (s *Skill) Gain(name Name, amount int64) (LevelUp, bool) {
	if amount <= 0 {
		return LevelUp{}, false
	}
	before := s.Level
	s.Experience += amount
	s.Level = LevelForExperience(s.Experience)
	if s.Level < before {
		s.Level = before
	}
	s.NextLevelExperience = NextLevelExperience(s.Level)
	if s.Level > before {
		return LevelUp{Skill: name, Level: s.Level}, true
	}
	return LevelUp{}, false
}

// Normalize repairs a skill loaded from storage so that level and
// next-level experience agree with the stored experience.
func (s Skill) Normalize() Skill {
	if s.Experience < 0 {
		s.Experience = 0
	}
	s.Level = LevelForExperience(s.Experience)
	s.NextLevelExperience = NextLevelExperience(s.Level)
	return s
}
