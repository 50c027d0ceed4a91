package monster

import "math/rand/v2"

var (
	namePrefixes = []string{
		"Shadow", "Blaze", "Frost", "Storm", "Thunder", "Crystal", "Dark", "Light",
		"Ancient", "Mystic", "Chaos", "Cosmic", "Dragon", "Phoenix", "Titan", "Void",
		"Celestial", "Infernal", "Divine", "Eternal", "Savage", "Wild", "Feral", "Primal",
	}
	nameSuffixes = []string{
		"heart", "blade", "claw", "fang", "wing", "scale", "tail", "horn",
		"soul", "spirit", "mind", "eye", "breath", "fury", "rage", "might",
		"force", "power", "strike", "guard", "shield", "armor", "walker", "stalker",
	}
)

// generateName joins a random prefix and suffix, e.g. "Frostfang".
func generateName() string {
	return namePrefixes[rand.IntN(len(namePrefixes))] + nameSuffixes[rand.IntN(len(nameSuffixes))]
}
