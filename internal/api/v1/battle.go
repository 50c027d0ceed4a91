package v1

import "time"

// BattleRequest starts a battle between two monsters of the caller.
// Monster1 always strikes first.
type BattleRequest struct {
	Monster1ID string `json:"monster1_id" binding:"required"`
	Monster2ID string `json:"monster2_id" binding:"required,nefield=Monster1ID"`
}

// BattleRecord is the immutable replay of a resolved battle. It is written
// once and never updated.
type BattleRecord struct {
	ID            string    `json:"id"`
	Monster1      string    `json:"monster1"`
	Monster2      string    `json:"monster2"`
	Initiator     string    `json:"initiator"`
	Logs          []string  `json:"logs,omitempty"`
	WinnerID      string    `json:"winner_id"`
	WinnerName    string    `json:"winner_name"`
	MonsterXPGain int       `json:"monster_xp_gain"`
	PlayerXPGain  int       `json:"player_xp_gain"`
	Timestamp     time.Time `json:"timestamp"`
}

// Summary returns a copy of the record without its log.
func (r *BattleRecord) Summary() *BattleRecord {
	c := *r
	c.Logs = nil
	return &c
}

// BattleResponse is returned when a battle has been simulated.
type BattleResponse struct {
	Message       string   `json:"message"`
	CombatID      string   `json:"combat_id"`
	WinnerID      string   `json:"winner_id"`
	WinnerName    string   `json:"winner_name"`
	MonsterXPGain int      `json:"monster_xp_gain"`
	PlayerXPGain  int      `json:"player_xp_gain"`
	Logs          []string `json:"logs"`
}
