package v1

import (
	"fmt"
	"time"
)

// Stat names a monster attribute a skill ratio can scale with.
const (
	StatHP  = "hp"
	StatAtk = "atk"
	StatDef = "def"
	StatVit = "vit"
)

// Ratio scales a skill's damage with one of the attacker's stats.
type Ratio struct {
	Percent float64 `json:"percent" yaml:"percent" binding:"gte=0"`
	Stat    string  `json:"stat" yaml:"stat" binding:"required,oneof=hp atk def vit"`
}

// Skill is one entry of a monster's ordered skill list.
//
// Cooldown is the number of skipped scans a skill needs before it can be
// used again. Level starts at 1 and never exceeds MaxLevel.
type Skill struct {
	Damage   float64 `json:"dmg" yaml:"dmg" binding:"gte=0"`
	Ratio    Ratio   `json:"ratio" yaml:"ratio" binding:"required"`
	Cooldown int     `json:"cooldown" yaml:"cooldown" binding:"gte=0"`
	Level    int     `json:"level,omitempty" yaml:"level" binding:"omitempty,gte=1"`
	MaxLevel int     `json:"lvlMax" yaml:"lvlMax" binding:"gte=1"`
}

// CurrentLevel returns the skill level, treating an unset level as 1.
func (s Skill) CurrentLevel() int {
	if s.Level <= 0 {
		return 1
	}
	return s.Level
}

// Stats is the combat stat block shared by monsters and templates.
type Stats struct {
	HP  int `json:"hp" yaml:"hp"`
	Atk int `json:"atk" yaml:"atk"`
	Def int `json:"def" yaml:"def"`
	Vit int `json:"vit" yaml:"vit"`
}

// Get returns the value of the named stat, or 0 for an unknown name.
func (s Stats) Get(name string) int {
	switch name {
	case StatHP:
		return s.HP
	case StatAtk:
		return s.Atk
	case StatDef:
		return s.Def
	case StatVit:
		return s.Vit
	default:
		return 0
	}
}

// Total is the sum of all four stats.
func (s Stats) Total() int {
	return s.HP + s.Atk + s.Def + s.Vit
}

// Monster is the monster aggregate owned by the Monster service.
type Monster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MonsterType string `json:"monster_type"`
	Element     string `json:"element"`
	Owner       string `json:"owner"`
	Stats
	Skills      []Skill `json:"skills"`
	Level       int     `json:"level"`
	Experience  float64 `json:"experience"`
	SkillPoints int     `json:"skill_points"`

	// AppliedGrants remembers the most recent experience grant ids so a
	// retried grant is applied once.
	AppliedGrants []string `json:"applied_grants,omitempty"`

	// Version is the optimistic concurrency token. It is owned by the store.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers can mutate snapshots freely.
func (m *Monster) Clone() *Monster {
	if m == nil {
		return nil
	}
	c := *m
	c.Skills = append([]Skill(nil), m.Skills...)
	c.AppliedGrants = append([]string(nil), m.AppliedGrants...)
	return &c
}

// CreateMonsterRequest is the privileged payload used by the Summon service
// to materialize a monster for an owner.
type CreateMonsterRequest struct {
	// AcquisitionID makes creation idempotent: it becomes the monster id.
	AcquisitionID string  `json:"acquisition_id" binding:"omitempty,uuid"`
	MonsterType   string  `json:"monster_type" binding:"required"`
	Element       string  `json:"element" binding:"required"`
	HP            int     `json:"hp" binding:"required,gt=0"`
	Atk           int     `json:"atk" binding:"gte=0"`
	Def           int     `json:"def" binding:"gte=0"`
	Vit           int     `json:"vit" binding:"gte=0"`
	Skills        []Skill `json:"skills" binding:"required,min=1,dive"`
	Owner         string  `json:"owner" binding:"required"`
}

// Validate checks the invariants binding tags cannot express.
func (r *CreateMonsterRequest) Validate() error {
	for i, s := range r.Skills {
		if s.CurrentLevel() > s.MaxLevel {
			return fmt.Errorf("skills[%d]: level %d exceeds lvlMax %d", i, s.CurrentLevel(), s.MaxLevel)
		}
	}
	return nil
}

// CreateMonsterResponse carries the id of a created monster.
type CreateMonsterResponse struct {
	ID string `json:"id"`
}

// ExperienceRequest grants experience to a monster or a player.
type ExperienceRequest struct {
	Experience int `json:"experience" binding:"required,gt=0"`
	// GrantID deduplicates retried grants. Optional for interactive callers.
	GrantID string `json:"grant_id,omitempty" binding:"omitempty,max=128"`
}

// MonsterResponse wraps a monster returned after a mutation.
type MonsterResponse struct {
	Message string   `json:"message"`
	Monster *Monster `json:"monster"`
}
