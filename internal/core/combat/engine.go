// Package combat resolves battles between two monster snapshots and computes
// the experience they award.
package combat

import (
	"fmt"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/shopspring/decimal"
)

// DefaultMaxRounds bounds a battle in which neither side can deal damage.
const DefaultMaxRounds = 1000

var hundred = decimal.NewFromInt(100)

// Result is the outcome of a simulated battle. Winner and Loser point at the
// snapshots passed to Simulate.
type Result struct {
	Winner *v1.Monster
	Loser  *v1.Monster
	Rounds int
	Log    []string
}

// Engine runs the turn loop. It holds no per-battle state and is safe for
// concurrent use.
type Engine struct {
	maxRounds int
}

// NewEngine returns an engine that stops after maxRounds full rounds.
// Non-positive values select DefaultMaxRounds.
func NewEngine(maxRounds int) *Engine {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Engine{maxRounds: maxRounds}
}

type fighter struct {
	monster   *v1.Monster
	hp        int
	cooldowns []int
}

func newFighter(m *v1.Monster) *fighter {
	return &fighter{
		monster:   m,
		hp:        m.HP,
		cooldowns: make([]int, len(m.Skills)),
	}
}

// Simulate runs the battle. first acts before second in every round and the
// loop stops as soon as a defender drops to 0 hp or below, so a dead monster
// never strikes back.
func (e *Engine) Simulate(first, second *v1.Monster) Result {
	a, b := newFighter(first), newFighter(second)
	var log []string

	round := 0
	for a.hp > 0 && b.hp > 0 && round < e.maxRounds {
		round++
		log = append(log, fmt.Sprintf("--- Round %d ---", round))

		b.hp -= a.act(&log)
		if b.hp <= 0 {
			break
		}
		a.hp -= b.act(&log)
	}

	winner, loser := a, b
	switch {
	case a.hp <= 0:
		winner, loser = b, a
	case b.hp <= 0:
	default:
		// Round limit reached: the healthier monster wins, first on a tie.
		if b.hp > a.hp {
			winner, loser = b, a
		}
		log = append(log, fmt.Sprintf("Round limit of %d reached.", e.maxRounds))
	}

	log = append(log, fmt.Sprintf("The winner is monster %s.", winner.monster.ID))

	return Result{
		Winner: winner.monster,
		Loser:  loser.monster,
		Rounds: round,
		Log:    log,
	}
}

// act performs one action and returns the damage dealt.
//
// Skills are scanned from the last to the first; the first one with a zero
// counter is used. Every skill passed over on the way has its counter
// decremented; skills after the used one in scan order are left untouched.
func (f *fighter) act(log *[]string) int {
	skills := f.monster.Skills
	for i := len(skills) - 1; i >= 0; i-- {
		if f.cooldowns[i] > 0 {
			f.cooldowns[i]--
			continue
		}

		skill := skills[i]
		damage := Damage(skill, f.monster.Stats)
		f.cooldowns[i] = skill.Cooldown
		*log = append(*log, fmt.Sprintf("%s uses skill %d (cooldown %d) and deals %d damage.",
			f.monster.ID, i+1, skill.Cooldown, damage))
		return damage
	}

	*log = append(*log, fmt.Sprintf("%s cannot use any skill.", f.monster.ID))
	return 0
}

// Damage is floor(dmg + percent/100 * stat) for the attacker's stat block.
func Damage(skill v1.Skill, stats v1.Stats) int {
	scaled := decimal.NewFromFloat(skill.Ratio.Percent).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(stats.Get(skill.Ratio.Stat))))
	return int(decimal.NewFromFloat(skill.Damage).Add(scaled).Floor().IntPart())
}
