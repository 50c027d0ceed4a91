package combat

import (
	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/shopspring/decimal"
)

var (
	baseXP          = decimal.NewFromInt(5)
	statsDivisor    = decimal.NewFromInt(400)
	minLevelMult    = decimal.RequireFromString("0.1")
	bonusPerLevel   = decimal.RequireFromString("0.02")
	penaltyPerLevel = decimal.RequireFromString("0.01")
	playerShare     = decimal.RequireFromString("0.5")
)

// Reward is the experience awarded after a battle.
type Reward struct {
	MonsterXP int
	PlayerXP  int
}

// ComputeReward derives the experience for the winning monster and the
// initiating player.
//
// Beating a higher level monster earns a 2% bonus per level; beating a lower
// level one costs 1% per level, never below 10%. The result scales with the
// loser's stat total over 400 and is capped at 20 + 5*winner level. The
// player earns half of the monster award, rounded down.
func ComputeReward(winner, loser *v1.Monster) Reward {
	diff := decimal.NewFromInt(int64(loser.Level - winner.Level))

	var levelMult decimal.Decimal
	if diff.IsPositive() {
		levelMult = decimal.NewFromInt(1).Add(bonusPerLevel.Mul(diff))
	} else {
		levelMult = decimal.Max(minLevelMult, decimal.NewFromInt(1).Add(penaltyPerLevel.Mul(diff)))
	}

	statsMult := decimal.NewFromInt(int64(loser.Stats.Total())).Div(statsDivisor)

	xp := int(baseXP.Mul(levelMult).Mul(statsMult).Floor().IntPart())
	if limit := 20 + 5*winner.Level; xp > limit {
		xp = limit
	}
	if xp < 0 {
		xp = 0
	}

	return Reward{
		MonsterXP: xp,
		PlayerXP:  int(decimal.NewFromInt(int64(xp)).Mul(playerShare).Floor().IntPart()),
	}
}
