package leveling

import (
	"testing"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newMonster() *v1.Monster {
	return &v1.Monster{
		ID:    "m-1",
		Stats: v1.Stats{HP: 100, Atk: 50, Def: 20, Vit: 10},
		Skills: []v1.Skill{
			{Damage: 10, Ratio: v1.Ratio{Percent: 100, Stat: v1.StatAtk}, Cooldown: 0, Level: 1, MaxLevel: 2},
		},
		Level: 1,
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "50"},
		{1, "55"},
		{2, "60.5"},
		{3, "66.55"},
	}
	for _, tc := range tests {
		require.True(t, decimal.RequireFromString(tc.want).Equal(Threshold(tc.level)),
			"level %d: got %s", tc.level, Threshold(tc.level))
	}
}

func TestGrantMonster_BelowThreshold(t *testing.T) {
	m := newMonster()

	gained := GrantMonster(m, 54)

	require.Zero(t, gained)
	require.Equal(t, 1, m.Level)
	require.Equal(t, 54.0, m.Experience)
	require.Zero(t, m.SkillPoints)
}

func TestGrantMonster_MultipleLevelUpsCarryResidual(t *testing.T) {
	m := newMonster()

	// 55 (level 1) + 60.5 (level 2) = 115.5, so 116 leaves 0.5.
	gained := GrantMonster(m, 116)

	require.Equal(t, 2, gained)
	require.Equal(t, 3, m.Level)
	require.InDelta(t, 0.5, m.Experience, 1e-9)
	require.Equal(t, 2, m.SkillPoints)
	require.Equal(t, v1.Stats{HP: 120, Atk: 60, Def: 26, Vit: 14}, m.Stats)
}

func TestGrantMonster_ExactMultipleLeavesNoResidual(t *testing.T) {
	m := newMonster()
	m.Experience = 0.5

	gained := GrantMonster(m, 115)

	require.Equal(t, 2, gained)
	require.Equal(t, 3, m.Level)
	require.Zero(t, m.Experience)
}

func TestGrantPlayer_SingleLevelUpDiscardsRemainder(t *testing.T) {
	p := &v1.Player{Username: "alice", Level: 1, MaxMonsters: Capacity(1)}

	leveled := GrantPlayer(p, 2*55)

	require.True(t, leveled)
	require.Equal(t, 2, p.Level)
	require.Zero(t, p.Experience)
	require.Equal(t, 12, p.MaxMonsters)
}

func TestGrantPlayer_Accumulates(t *testing.T) {
	p := &v1.Player{Username: "alice", Level: 1, MaxMonsters: Capacity(1)}

	require.False(t, GrantPlayer(p, 30))
	require.False(t, GrantPlayer(p, 24))
	require.Equal(t, 54, p.Experience)

	require.True(t, GrantPlayer(p, 1))
	require.Equal(t, 2, p.Level)
	require.Zero(t, p.Experience)
}

func TestUpgradeSkill(t *testing.T) {
	m := newMonster()
	m.SkillPoints = 2

	require.NoError(t, UpgradeSkill(m, 0))
	require.Equal(t, 2, m.Skills[0].Level)
	require.Equal(t, 20.0, m.Skills[0].Damage)
	require.Equal(t, 102.0, m.Skills[0].Ratio.Percent)
	require.Equal(t, 1, m.SkillPoints)

	require.ErrorIs(t, UpgradeSkill(m, 0), ErrSkillMaxed)
	require.Equal(t, 1, m.SkillPoints)

	require.ErrorIs(t, UpgradeSkill(m, 1), ErrSkillIndex)
	require.ErrorIs(t, UpgradeSkill(m, -1), ErrSkillIndex)
}

func TestUpgradeSkill_NoPoints(t *testing.T) {
	m := newMonster()

	require.ErrorIs(t, UpgradeSkill(m, 0), ErrNoSkillPoints)
	require.Equal(t, 1, m.Skills[0].CurrentLevel())
}

func TestRecordGrant(t *testing.T) {
	grants, fresh := RecordGrant(nil, "b-1:monster")
	require.True(t, fresh)

	grants, fresh = RecordGrant(grants, "b-1:monster")
	require.False(t, fresh)
	require.Len(t, grants, 1)

	_, fresh = RecordGrant(grants, "")
	require.True(t, fresh)

	for i := 0; i < 100; i++ {
		grants, _ = RecordGrant(grants, decimal.NewFromInt(int64(i)).String())
	}
	require.Len(t, grants, maxGrantsKept)
	require.Equal(t, "99", grants[len(grants)-1])
}
