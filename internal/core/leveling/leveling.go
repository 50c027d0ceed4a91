// Package leveling implements experience thresholds, level-ups and skill
// upgrades for monsters and players.
//
// Monsters carry surplus experience over and may gain several levels from
// one grant. Players gain at most one level per grant and lose the surplus.
// Both rules are observed contracts and intentionally differ.
package leveling

import (
	"errors"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/shopspring/decimal"
)

const (
	// BaseCapacity is added to the player level to get the inventory size.
	BaseCapacity = 10

	HPPerLevel  = 10
	AtkPerLevel = 5
	DefPerLevel = 3
	VitPerLevel = 2

	SkillDamagePerLevel = 10
	SkillRatioPerLevel  = 2

	// maxGrantsKept bounds the grant ids remembered per document.
	maxGrantsKept = 64
)

var (
	ErrNoSkillPoints = errors.New("no skill points available")
	ErrSkillMaxed    = errors.New("skill already at max level")
	ErrSkillIndex    = errors.New("skill index out of range")

	thresholdBase   = decimal.NewFromInt(50)
	thresholdGrowth = decimal.RequireFromString("1.1")
)

// Threshold returns the experience needed to leave the given level:
// 50 * 1.1^level, computed exactly.
func Threshold(level int) decimal.Decimal {
	t := thresholdBase
	for i := 0; i < level; i++ {
		t = t.Mul(thresholdGrowth)
	}
	return t
}

// Capacity is the monster inventory size of a player at the given level.
func Capacity(level int) int {
	return BaseCapacity + level
}

// GrantMonster adds amount experience to m and applies every level-up it
// pays for. Each level-up consumes the threshold of the level being left,
// awards a skill point and raises the stat block. Returns the levels gained.
func GrantMonster(m *v1.Monster, amount int) int {
	exp := decimal.NewFromFloat(m.Experience).Add(decimal.NewFromInt(int64(amount)))

	gained := 0
	for t := Threshold(m.Level); exp.GreaterThanOrEqual(t); t = Threshold(m.Level) {
		exp = exp.Sub(t)
		m.Level++
		m.SkillPoints++
		m.HP += HPPerLevel
		m.Atk += AtkPerLevel
		m.Def += DefPerLevel
		m.Vit += VitPerLevel
		gained++
	}

	m.Experience = exp.InexactFloat64()
	return gained
}

// GrantPlayer adds amount experience to p. If the total reaches the
// threshold of the current level the player gains exactly one level, the
// experience is reset to zero and the capacity grows. Reports whether a
// level was gained.
func GrantPlayer(p *v1.Player, amount int) bool {
	p.Experience += amount
	if decimal.NewFromInt(int64(p.Experience)).LessThan(Threshold(p.Level)) {
		return false
	}

	p.Level++
	p.Experience = 0
	p.MaxMonsters = Capacity(p.Level)
	return true
}

// UpgradeSkill spends one skill point on the skill at index (0-based).
func UpgradeSkill(m *v1.Monster, index int) error {
	if index < 0 || index >= len(m.Skills) {
		return ErrSkillIndex
	}
	if m.SkillPoints <= 0 {
		return ErrNoSkillPoints
	}

	skill := &m.Skills[index]
	if skill.CurrentLevel() >= skill.MaxLevel {
		return ErrSkillMaxed
	}

	skill.Level = skill.CurrentLevel() + 1
	skill.Damage += SkillDamagePerLevel
	skill.Ratio.Percent += SkillRatioPerLevel
	m.SkillPoints--
	return nil
}

// RecordGrant remembers grantID in grants and reports whether it was new.
// An empty id is always new and never stored.
func RecordGrant(grants []string, grantID string) ([]string, bool) {
	if grantID == "" {
		return grants, true
	}
	for _, g := range grants {
		if g == grantID {
			return grants, false
		}
	}
	grants = append(grants, grantID)
	if len(grants) > maxGrantsKept {
		grants = grants[len(grants)-maxGrantsKept:]
	}
	return grants, true
}
