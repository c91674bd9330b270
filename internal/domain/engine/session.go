package engine

import (
	"sync/atomic"
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

type State string

const (
	StateIdle   State = "idle"
	StateAction State = "action"
	StateCombat State = "combat"
)

// TickResult reports what one Advance call applied.
type TickResult struct {
	Completions int
	Experience  int64
	LevelUps    []skill.LevelUp
	Rounds      []game.CombatRound
	// Stopped carries the reason when the session was forced back to idle.
	Stopped error
}

// Changed reports whether the character was mutated.
func (r TickResult) Changed() bool {
	return r.Completions > 0 || len(r.Rounds) > 0 || r.Stopped != nil
}

// Session runs one character's current action. It is not safe for concurrent
// use; only Cancel may be called from another goroutine.
type Session struct {
	character *game.Character
	content   game.Content
	roller    game.Roller
	tuning    game.Tuning

	state     State
	action    *game.Action
	startedAt time.Time
	cancelled atomic.Bool

	monster   game.Monster
	monsterHP int

	lastReward *game.ActionReward
	lastRound  *game.CombatRound
}

func NewSession(c *game.Character, content game.Content, roller game.Roller, tuning game.Tuning) *Session {
	if roller == nil {
		roller = game.NewRNG(time.Now().UnixNano())
	}
	return &Session{
		character: c,
		content:   content,
		roller:    roller,
		tuning:    tuning.WithDefaults(),
		state:     StateIdle,
	}
}

// Start begins actionID offered at location. Rejections leave the session
// and the character untouched.
func (s *Session) Start(location, actionID string, now time.Time) error {
	a, ok := s.content.ActionAt(location, actionID)
	if !ok {
		return game.ErrUnknownAction
	}
	if !a.Kind.Runnable() {
		return game.ErrActionNotRunnable
	}
	if err := game.CheckRequirements(s.character, a); err != nil {
		return err
	}
	var monster game.Monster
	if a.IsCombat() {
		monster, ok = s.content.Monster(a.MonsterID)
		if !ok {
			return game.ErrCorruptedCharacterReference
		}
	} else if a.BaseTime <= 0 {
		return game.ErrActionNotRunnable
	}
	if location == "" {
		location = a.Location
	}

	s.cancelled.Store(false)
	s.action = &a
	s.startedAt = now
	s.lastReward = nil
	s.lastRound = nil
	s.state = StateAction
	if a.IsCombat() {
		s.state = StateCombat
		s.monster = monster
		s.monsterHP = monster.Hitpoints
		if s.character.Hitpoints <= 0 {
			s.character.Hitpoints = s.character.MaxHitpoints
		}
	}
	s.character.LastActionID = a.ID
	s.character.LastActionLocation = location
	s.character.LastActionTime = now
	return nil
}

// Stop discards progress and forgets the last-known action.
func (s *Session) Stop() {
	s.Detach()
	s.character.LastActionID = ""
	s.character.LastActionLocation = ""
}

// Detach drops the running action but keeps the last-known action on the
// character so offline progress can resume it later.
func (s *Session) Detach() {
	s.state = StateIdle
	s.action = nil
	s.monster = game.Monster{}
	s.monsterHP = 0
}

// Cancel interrupts an Advance in flight before its next completion.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

func (s *Session) isCancelled() bool {
	return s.cancelled.Load()
}

// Advance applies every completion or combat round due by now.
func (s *Session) Advance(now time.Time) TickResult {
	if s.action == nil || s.isCancelled() || !now.After(s.startedAt) {
		return TickResult{}
	}
	if err := game.CheckRequirements(s.character, *s.action); err != nil {
		s.Stop()
		return TickResult{Stopped: err}
	}
	if s.state == StateCombat {
		return s.advanceCombat(now)
	}
	return s.advanceAction(now)
}

func (s *Session) advanceAction(now time.Time) TickResult {
	a := *s.action
	count := int(now.Sub(s.startedAt) / a.BaseTime)
	if count == 0 {
		return TickResult{}
	}
	run := runCompletions(s.character, a, s.startedAt, count, s.isCancelled)
	s.startedAt = s.startedAt.Add(time.Duration(run.Applied) * a.BaseTime)
	if run.Last != nil {
		s.lastReward = run.Last
	}
	res := TickResult{Completions: run.Applied, Experience: run.Experience, LevelUps: run.LevelUps}
	if run.Err != nil {
		s.Stop()
		res.Stopped = run.Err
	}
	return res
}

func (s *Session) advanceCombat(now time.Time) TickResult {
	style := s.tuning.CombatStyle
	player := game.PlayerProfile(s.character, s.content, style, s.tuning.DefaultAttackSpeed)
	foe := game.MonsterProfile(s.monster, s.tuning.DefaultAttackSpeed)
	interval := player.AttackSpeed
	rounds := int(now.Sub(s.startedAt) / interval)

	var res TickResult
	for i := 0; i < rounds; i++ {
		if s.isCancelled() {
			break
		}
		at := s.startedAt.Add(interval)
		out := game.ResolveRound(player, foe, s.character.Hitpoints, s.monsterHP, game.DrawRound(s.roller))
		s.startedAt = at
		s.character.Hitpoints = out.PlayerHP
		s.character.LastActionTime = at
		s.monsterHP = out.MonsterHP

		round := game.CombatRound{
			MonsterID:     s.monster.ID,
			PlayerDamage:  out.PlayerDamage,
			MonsterDamage: out.MonsterDamage,
			PlayerHP:      out.PlayerHP,
			MonsterHP:     out.MonsterHP,
			Result:        out.Result,
			At:            at,
		}
		switch out.Result {
		case game.RoundVictory:
			round.Loot = game.RollLoot(s.monster.Drops, s.roller)
			round.LevelUps = game.ApplyVictory(s.character, s.monster, round.Loot, trainedSkill(style))
			res.LevelUps = append(res.LevelUps, round.LevelUps...)
			res.Experience += s.monster.KillExperience()
			s.monsterHP = s.monster.Hitpoints
			// levels may have changed the profile
			player = game.PlayerProfile(s.character, s.content, style, s.tuning.DefaultAttackSpeed)
		case game.RoundDefeat:
			game.ApplyDefeat(s.character)
		}
		r := round
		s.lastRound = &r
		res.Rounds = append(res.Rounds, round)
		if out.Result == game.RoundDefeat {
			s.Stop()
			break
		}
	}
	return res
}

func trainedSkill(style game.AttackStyle) skill.Name {
	switch style {
	case game.StyleRanged:
		return skill.Ranged
	case game.StyleMagic:
		return skill.Magic
	case game.StyleCrush:
		return skill.Strength
	case game.StyleStab:
		return skill.Defence
	default:
		return skill.Attack
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) CurrentAction() (game.Action, bool) {
	if s.action == nil {
		return game.Action{}, false
	}
	return *s.action, true
}

// Progress is the fraction of the current cycle elapsed at now, in [0,1).
func (s *Session) Progress(now time.Time) float64 {
	if s.action == nil {
		return 0
	}
	cycle := s.action.BaseTime
	if s.state == StateCombat {
		cycle = game.PlayerProfile(s.character, s.content, s.tuning.CombatStyle, s.tuning.DefaultAttackSpeed).AttackSpeed
	}
	if cycle <= 0 {
		return 0
	}
	elapsed := now.Sub(s.startedAt)
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed%cycle) / float64(cycle)
}

// MonsterHP is the current opponent's remaining hitpoints during combat.
func (s *Session) MonsterHP() int {
	return s.monsterHP
}

func (s *Session) LastActionReward() *game.ActionReward {
	return s.lastReward
}

func (s *Session) LastCombatRound() *game.CombatRound {
	return s.lastRound
}

// Character exposes the live character for callers holding the session lock.
func (s *Session) Character() *game.Character {
	return s.character
}

// Checkpoint captures the character and the running action so a session can
// be rolled back after a failed save.
type Checkpoint struct {
	character  game.Character
	state      State
	action     *game.Action
	startedAt  time.Time
	monster    game.Monster
	monsterHP  int
	lastReward *game.ActionReward
	lastRound  *game.CombatRound
}

func (s *Session) Checkpoint() Checkpoint {
	cp := Checkpoint{
		character:  s.character.Clone(),
		state:      s.state,
		startedAt:  s.startedAt,
		monster:    s.monster,
		monsterHP:  s.monsterHP,
		lastReward: s.lastReward,
		lastRound:  s.lastRound,
	}
	if s.action != nil {
		a := *s.action
		cp.action = &a
	}
	return cp
}

// Restore rewinds the session to cp in place. A pending Cancel is cleared so
// the restored action keeps running.
func (s *Session) Restore(cp Checkpoint) {
	*s.character = cp.character.Clone()
	s.state = cp.state
	s.action = nil
	if cp.action != nil {
		a := *cp.action
		s.action = &a
	}
	s.startedAt = cp.startedAt
	s.monster = cp.monster
	s.monsterHP = cp.monsterHP
	s.lastReward = cp.lastReward
	s.lastRound = cp.lastRound
	s.cancelled.Store(false)
}

// Snapshot returns a deep copy of the character free of engine state.
func (s *Session) Snapshot() game.Character {
	return s.character.Clone()
}
