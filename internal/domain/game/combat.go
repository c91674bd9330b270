package game

import (
	"math"
	"time"

	"idlescape/internal/domain/skill"
)

type RoundResult string

const (
	RoundContinue RoundResult = "continue"
	RoundVictory  RoundResult = "victory"
	RoundDefeat   RoundResult = "defeat"
)

// CombatProfile is everything the round resolver needs about one side.
type CombatProfile struct {
	AttackLevel    int                 `json:"attack_level"`
	StrengthLevel  int                 `json:"strength_level"`
	DefenceLevel   int                 `json:"defence_level"`
	Style          AttackStyle         `json:"style"`
	AttackBonus    int                 `json:"attack_bonus"`
	StrengthBonus  int                 `json:"strength_bonus"`
	DefenceBonuses map[AttackStyle]int `json:"defence_bonuses,omitempty"`
	AttackSpeed    time.Duration       `json:"attack_speed"`
}

// RoundDraw holds the four uniform [0,1) values one round consumes.
type RoundDraw struct {
	PlayerHit     float64
	PlayerDamage  float64
	MonsterHit    float64
	MonsterDamage float64
}

func DrawRound(r Roller) RoundDraw {
	return RoundDraw{
		PlayerHit:     r.Float64(),
		PlayerDamage:  r.Float64(),
		MonsterHit:    r.Float64(),
		MonsterDamage: r.Float64(),
	}
}

type RoundOutcome struct {
	PlayerDamage  int         `json:"player_damage"`
	MonsterDamage int         `json:"monster_damage"`
	PlayerHP      int         `json:"player_hp"`
	MonsterHP     int         `json:"monster_hp"`
	Result        RoundResult `json:"result"`
}

// CombatRound is what the session exposes as the last combat round.
type CombatRound struct {
	MonsterID     string          `json:"monster_id"`
	PlayerDamage  int             `json:"player_damage"`
	MonsterDamage int             `json:"monster_damage"`
	PlayerHP      int             `json:"player_hp"`
	MonsterHP     int             `json:"monster_hp"`
	Result        RoundResult     `json:"result"`
	Loot          []ItemStack     `json:"loot,omitempty"`
	LevelUps      []skill.LevelUp `json:"level_ups,omitempty"`
	At            time.Time       `json:"at"`
}

// PlayerProfile derives the player's side from skills and equipped items.
// Items missing from the catalog contribute nothing.
func PlayerProfile(c *Character, content Content, style AttackStyle, defaultSpeed time.Duration) CombatProfile {
	p := CombatProfile{
		Style:          style,
		DefenceBonuses: map[AttackStyle]int{},
		AttackSpeed:    defaultSpeed,
	}
	switch style {
	case StyleRanged:
		p.AttackLevel = c.SkillLevel(skill.Ranged)
		p.StrengthLevel = c.SkillLevel(skill.Ranged)
	case StyleMagic:
		p.AttackLevel = c.SkillLevel(skill.Magic)
		p.StrengthLevel = c.SkillLevel(skill.Magic)
	default:
		p.AttackLevel = c.SkillLevel(skill.Attack)
		p.StrengthLevel = c.SkillLevel(skill.Strength)
	}
	p.DefenceLevel = c.SkillLevel(skill.Defence)
	if content == nil {
		return p
	}
	for slot, id := range c.Equipment {
		if id == "" {
			continue
		}
		item, ok := content.Item(id)
		if !ok {
			continue
		}
		p.AttackBonus += item.Bonuses.Attack[style]
		p.StrengthBonus += item.Bonuses.Strength
		for s, v := range item.Bonuses.Defence {
			p.DefenceBonuses[s] += v
		}
		if slot == SlotWeapon && item.AttackSpeed > 0 {
			p.AttackSpeed = item.AttackSpeed
		}
	}
	return p
}

func MonsterProfile(m Monster, defaultSpeed time.Duration) CombatProfile {
	speed := m.AttackSpeed
	if speed <= 0 {
		speed = defaultSpeed
	}
	style := m.AttackStyle
	if !style.Valid() {
		style = StyleCrush
	}
	return CombatProfile{
		AttackLevel:    m.Stats.Attack,
		StrengthLevel:  m.Stats.Strength,
		DefenceLevel:   m.Stats.Defence,
		Style:          style,
		AttackBonus:    m.Stats.AttackBonus,
		StrengthBonus:  m.Stats.StrengthBonus,
		DefenceBonuses: m.Stats.DefenceBonuses,
		AttackSpeed:    speed,
	}
}

// effective levels carry the flat +8 stance offset.
func effective(level int) int {
	if level < 1 {
		level = 1
	}
	return level + 8
}

// HitChance compares the attacker's accuracy roll against the defender's
// defence roll for the attacker's style.
func HitChance(attacker, defender CombatProfile) float64 {
	attackRoll := float64(effective(attacker.AttackLevel) * (attacker.AttackBonus + 64))
	defenceRoll := float64(effective(defender.DefenceLevel) * (defender.DefenceBonuses[attacker.Style] + 64))
	if attackRoll <= 0 {
		return 0
	}
	if defenceRoll <= 0 {
		return 1
	}
	if attackRoll > defenceRoll {
		return 1 - (defenceRoll+2)/(2*(attackRoll+1))
	}
	return attackRoll / (2 * (defenceRoll + 1))
}

// MaxHit is the strength-derived damage ceiling, never below 1.
func MaxHit(attacker CombatProfile) int {
	bonus := attacker.StrengthBonus + 64
	if bonus < 0 {
		bonus = 0
	}
	ceiling := int(math.Floor(0.5 + float64(effective(attacker.StrengthLevel)*bonus)/640))
	if ceiling < 1 {
		ceiling = 1
	}
	return ceiling
}

// Strike turns a hit draw and a damage draw into damage dealt.
func Strike(attacker, defender CombatProfile, hitDraw, damageDraw float64) int {
	if hitDraw >= HitChance(attacker, defender) {
		return 0
	}
	ceiling := MaxHit(attacker)
	dmg := int(damageDraw * float64(ceiling+1))
	if dmg > ceiling {
		dmg = ceiling
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}

// ResolveRound exchanges one attack each way. The player strikes first; a
// monster killed by that strike does not answer.
func ResolveRound(player, monster CombatProfile, playerHP, monsterHP int, draw RoundDraw) RoundOutcome {
	out := RoundOutcome{PlayerHP: playerHP, MonsterHP: monsterHP, Result: RoundContinue}
	out.PlayerDamage = Strike(player, monster, draw.PlayerHit, draw.PlayerDamage)
	out.MonsterHP -= out.PlayerDamage
	if out.MonsterHP <= 0 {
		out.MonsterHP = 0
		out.Result = RoundVictory
		return out
	}
	out.MonsterDamage = Strike(monster, player, draw.MonsterHit, draw.MonsterDamage)
	out.PlayerHP -= out.MonsterDamage
	if out.PlayerHP <= 0 {
		out.PlayerHP = 0
		out.Result = RoundDefeat
	}
	return out
}

// RollLoot rolls every drop independently against its chance in [0,100].
func RollLoot(drops []Drop, r Roller) []ItemStack {
	var loot []ItemStack
	for _, d := range drops {
		if d.Quantity <= 0 || d.Chance <= 0 {
			continue
		}
		if d.Chance >= 100 || r.Float64()*100 < d.Chance {
			loot = append(loot, ItemStack{ItemID: d.ItemID, Quantity: d.Quantity})
		}
	}
	return loot
}

// ApplyVictory banks loot, grants kill experience and advances a matching
// slayer task.
func ApplyVictory(c *Character, m Monster, loot []ItemStack, trained skill.Name) []skill.LevelUp {
	c.Stats.ensure()
	for _, it := range loot {
		c.Bank.Add(it.ItemID, it.Quantity)
	}
	c.Stats.MonstersKilled++
	c.Stats.KillsByMonster[m.ID]++

	var ups []skill.LevelUp
	gain := func(n skill.Name, amount int64) {
		if up, ok := GainExperience(c, n, amount); ok {
			ups = append(ups, up)
		}
	}
	xp := m.KillExperience()
	if trained == "" {
		trained = skill.Attack
	}
	gain(trained, xp)
	gain(skill.Hitpoints, xp/HitpointsExperienceDivisor)

	if task := c.CurrentSlayerTask; task != nil && task.MonsterID == m.ID && task.Remaining > 0 {
		task.Remaining--
		gain(skill.Slayer, int64(m.Hitpoints*SlayerExperiencePerHitpoint))
	}
	return ups
}

// ApplyDefeat records the death and restores hitpoints to the recovery value.
func ApplyDefeat(c *Character) {
	c.Stats.Deaths++
	c.Hitpoints = c.MaxHitpoints
}
