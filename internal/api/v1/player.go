package v1

import (
	"slices"
	"time"
)

// Player is the player aggregate owned by the Player service.
type Player struct {
	Username    string   `json:"username"`
	Level       int      `json:"level"`
	Experience  int      `json:"experience"`
	Monsters    []string `json:"monsters"`
	MaxMonsters int      `json:"max_monsters"`

	AppliedGrants []string `json:"applied_grants,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMonster reports whether id is part of the player's inventory.
func (p *Player) HasMonster(id string) bool {
	return slices.Contains(p.Monsters, id)
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Monsters = append([]string{}, p.Monsters...)
	c.AppliedGrants = append([]string(nil), p.AppliedGrants...)
	return &c
}

// AddMonsterRequest attaches a monster to the caller's inventory.
type AddMonsterRequest struct {
	MonsterID string `json:"monster_id" binding:"required"`
}

// MonstersResponse lists the monster ids of a player after a mutation.
type MonstersResponse struct {
	Message  string   `json:"message,omitempty"`
	Monsters []string `json:"monsters"`
}

// PlayerResponse wraps a player returned after a mutation.
type PlayerResponse struct {
	Message string  `json:"message"`
	Player  *Player `json:"player"`
}
