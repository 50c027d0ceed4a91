// Package catalog holds the summonable monster templates and implements the
// weighted roulette draw over them.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a draw is attempted without templates.
var ErrEmptyCatalog = errors.New("catalog is empty")

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is an immutable, ordered list of templates. Order matters: on a
// boundary draw the earlier template wins.
type Catalog struct {
	templates []v1.Template
	total     float64
}

// New validates templates and builds a catalog from them.
func New(templates []v1.Template) (*Catalog, error) {
	c := &Catalog{templates: append([]v1.Template(nil), templates...)}
	for i, t := range c.templates {
		if err := validate(t); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, t.Name, err)
		}
		c.total += t.LootRate
	}
	return c, nil
}

// Load reads a YAML template list from path. An empty path selects the
// embedded default catalog.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
		}
	}

	var templates []v1.Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(templates)
}

func validate(t v1.Template) error {
	switch {
	case t.Name == "":
		return errors.New("name must not be empty")
	case t.Element == "":
		return errors.New("element must not be empty")
	case t.HP <= 0:
		return errors.New("hp must be positive")
	case t.LootRate <= 0:
		return errors.New("lootRate must be positive")
	case len(t.Skills) == 0:
		return errors.New("at least one skill is required")
	}
	for i, s := range t.Skills {
		if s.MaxLevel < 1 || s.CurrentLevel() > s.MaxLevel {
			return fmt.Errorf("skill %d: level %d outside 1..%d", i, s.CurrentLevel(), s.MaxLevel)
		}
		switch s.Ratio.Stat {
		case v1.StatHP, v1.StatAtk, v1.StatDef, v1.StatVit:
		default:
			return fmt.Errorf("skill %d: unknown ratio stat %q", i, s.Ratio.Stat)
		}
	}
	return nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// TotalRate is the sum of every template's loot rate.
func (c *Catalog) TotalRate() float64 {
	return c.total
}

// Templates returns a copy of the templates in catalog order.
func (c *Catalog) Templates() []v1.Template {
	return append([]v1.Template(nil), c.templates...)
}

// Pick walks the templates accumulating loot rates and returns the first
// whose cumulative rate is >= draw. A draw beyond the total, which only
// float rounding can produce, selects the last template.
func (c *Catalog) Pick(draw float64) (v1.Template, error) {
	if len(c.templates) == 0 {
		return v1.Template{}, ErrEmptyCatalog
	}

	cumulative := 0.0
	for _, t := range c.templates {
		cumulative += t.LootRate
		if draw <= cumulative {
			return t, nil
		}
	}
	return c.templates[len(c.templates)-1], nil
}

// Draw picks a template with a uniform draw in [0, TotalRate].
func (c *Catalog) Draw(rng *rand.Rand) (v1.Template, error) {
	var u float64
	if rng != nil {
		u = rng.Float64()
	} else {
		u = rand.Float64()
	}
	return c.Pick(u * c.total)
}
