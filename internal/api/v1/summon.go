package v1

// Template is a summonable monster blueprint from the catalog. LootRate is
// the template's weight in the roulette draw.
type Template struct {
	Name     string  `json:"name" yaml:"name" binding:"required"`
	Element  string  `json:"element" yaml:"element" binding:"required"`
	HP       int     `json:"hp" yaml:"hp" binding:"required,gt=0"`
	Atk      int     `json:"atk" yaml:"atk" binding:"gte=0"`
	Def      int     `json:"def" yaml:"def" binding:"gte=0"`
	Vit      int     `json:"vit" yaml:"vit" binding:"gte=0"`
	Skills   []Skill `json:"skills" yaml:"skills" binding:"required,min=1,dive"`
	LootRate float64 `json:"lootRate" yaml:"lootRate" binding:"gt=0"`
}

// CreateRequest builds the Monster service payload for this template.
func (t Template) CreateRequest(acquisitionID, owner string) *CreateMonsterRequest {
	return &CreateMonsterRequest{
		AcquisitionID: acquisitionID,
		MonsterType:   t.Element,
		Element:       t.Element,
		HP:            t.HP,
		Atk:           t.Atk,
		Def:           t.Def,
		Vit:           t.Vit,
		Skills:        append([]Skill(nil), t.Skills...),
		Owner:         owner,
	}
}

// SummonResponse carries the id of a freshly summoned monster.
type SummonResponse struct {
	Message   string `json:"message"`
	MonsterID string `json:"monster_id"`
}

// ReplayResponse reports one drain of a service's pending operations.
type ReplayResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}
