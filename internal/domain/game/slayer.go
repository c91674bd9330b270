package game

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyHard      Difficulty = "hard"
	DifficultyNightmare Difficulty = "nightmare"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyNightmare:
		return true
	default:
		return false
	}
}

type SlayerTask struct {
	MonsterID   string     `json:"monster_id"`
	MonsterName string     `json:"monster_name"`
	Amount      int        `json:"amount"`
	Remaining   int        `json:"remaining"`
	Difficulty  Difficulty `json:"difficulty"`
}

// Completable tasks wait for the player to confirm.
func (t SlayerTask) Completable() bool {
	return t.Remaining == 0
}

type SlayerAssignment struct {
	MonsterID string `json:"monster_id"`
	MinAmount int    `json:"min_amount"`
	MaxAmount int    `json:"max_amount"`
}

// streakTiers are checked largest first; the first divisor that matches wins.
var streakTiers = []struct {
	every  int
	points int
}{
	{1000, 500},
	{250, 350},
	{100, 250},
	{50, 150},
	{10, 50},
}

const baseSlayerPoints = 10

func SlayerPointsForStreak(streak int) int {
	if streak <= 0 {
		return baseSlayerPoints
	}
	for _, tier := range streakTiers {
		if streak%tier.every == 0 {
			return tier.points
		}
	}
	return baseSlayerPoints
}

// NewSlayerTask assigns a monster from the difficulty pool. It is rejected
// while any task is held, including a finished one awaiting completion.
func NewSlayerTask(c *Character, content Content, d Difficulty, r Roller) (SlayerTask, error) {
	if c.CurrentSlayerTask != nil {
		return SlayerTask{}, ErrInvalidTaskState
	}
	if !d.Valid() {
		return SlayerTask{}, ErrInvalidTaskState
	}
	pool := content.SlayerPool(d)
	if len(pool) == 0 {
		return SlayerTask{}, ErrInvalidTaskState
	}
	pick := pool[r.Intn(len(pool))]
	m, ok := content.Monster(pick.MonsterID)
	if !ok {
		return SlayerTask{}, ErrCorruptedCharacterReference
	}
	amount := pick.MinAmount
	if span := pick.MaxAmount - pick.MinAmount; span > 0 {
		amount += r.Intn(span + 1)
	}
	if amount < 1 {
		amount = 1
	}
	task := SlayerTask{
		MonsterID:   m.ID,
		MonsterName: m.Name,
		Amount:      amount,
		Remaining:   amount,
		Difficulty:  d,
	}
	c.CurrentSlayerTask = &task
	return task, nil
}

// CompleteSlayerTask confirms a finished task and pays streak points.
func CompleteSlayerTask(c *Character) (int, error) {
	task := c.CurrentSlayerTask
	if task == nil || task.Remaining != 0 {
		return 0, ErrInvalidTaskState
	}
	c.SlayerTaskStreak++
	points := SlayerPointsForStreak(c.SlayerTaskStreak)
	c.SlayerPoints += points
	c.CurrentSlayerTask = nil
	c.Stats.SlayerTasksCompleted++
	return points, nil
}

// CancelSlayerTask drops the current task for cost points without touching
// the streak. Nothing changes when it fails.
func CancelSlayerTask(c *Character, cost int) error {
	if cost <= 0 {
		cost = DefaultSlayerCancelCost
	}
	if c.CurrentSlayerTask == nil || c.SlayerPoints < cost {
		return ErrInvalidTaskState
	}
	c.SlayerPoints -= cost
	c.CurrentSlayerTask = nil
	c.Stats.SlayerTasksCancelled++
	return nil
}
