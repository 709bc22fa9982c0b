// Package scenario loads the entity templates and key script driving a
// stress run from YAML.
package scenario

import (
	"math/rand"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/minecs/ecs"
	"github.com/plus3/minecs/game"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Template describes one kind of entity to spawn.
type Template struct {
	Name       string   `yaml:"name"`
	Weight     int      `yaml:"weight"`
	X          int      `yaml:"x"`
	Y          int      `yaml:"y"`
	NoPosition bool     `yaml:"no_position"`
	Keys       []string `yaml:"keys"`
	Lifetime   int      `yaml:"lifetime"` // ticks, 0 lives forever

	keys []tcell.Key
}

// Step presses and releases keys at a given tick.
type Step struct {
	Tick    int64    `yaml:"tick"`
	Press   []string `yaml:"press"`
	Release []string `yaml:"release"`

	press   []tcell.Key
	release []tcell.Key
}

type Scenario struct {
	Templates []Template `yaml:"templates"`
	Script    []Step     `yaml:"script"`
	Period    int64      `yaml:"period"` // script repeats every period ticks when > 0

	totalWeight int
}

// Load reads a YAML scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read scenario %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario %s", path)
	}
	return s, nil
}

// Parse decodes and validates YAML scenario data.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "parse scenario")
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default is used when no scenario file is given: walkers bound to the arrow
// keys, short-lived particles and static props.
func Default() *Scenario {
	s := &Scenario{
		Templates: []Template{
			{Name: "walker", Weight: 2, Keys: []string{"Up", "Down", "Left", "Right"}},
			{Name: "particle", Weight: 5, Lifetime: 30},
			{Name: "prop", Weight: 1, Keys: []string{"Up"}, NoPosition: true},
		},
		Script: []Step{
			{Tick: 0, Press: []string{"Up", "Right"}},
			{Tick: 30, Release: []string{"Up"}, Press: []string{"Left"}},
			{Tick: 60, Release: []string{"Left", "Right"}},
		},
		Period: 90,
	}
	if err := s.compile(); err != nil {
		panic(err)
	}
	return s
}

func (s *Scenario) compile() error {
	if len(s.Templates) == 0 {
		return eris.New("scenario has no templates")
	}
	if s.Period < 0 {
		return eris.Errorf("period must not be negative, got %d", s.Period)
	}

	s.totalWeight = 0
	for i := range s.Templates {
		tpl := &s.Templates[i]
		if tpl.Weight < 0 {
			return eris.Errorf("template %q: weight must not be negative", tpl.Name)
		}
		if tpl.Weight == 0 {
			tpl.Weight = 1
		}
		s.totalWeight += tpl.Weight

		keys, err := parseKeys(tpl.Keys)
		if err != nil {
			return eris.Wrapf(err, "template %q", tpl.Name)
		}
		tpl.keys = keys
	}

	for i := range s.Script {
		step := &s.Script[i]
		press, err := parseKeys(step.Press)
		if err != nil {
			return eris.Wrapf(err, "script step %d", i)
		}
		release, err := parseKeys(step.Release)
		if err != nil {
			return eris.Wrapf(err, "script step %d", i)
		}
		step.press, step.release = press, release
	}
	return nil
}

func parseKeys(names []string) ([]tcell.Key, error) {
	keys := make([]tcell.Key, 0, len(names))
	for _, name := range names {
		key, err := game.ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Pick chooses a template at random, proportionally to the weights.
func (s *Scenario) Pick(rng *rand.Rand) *Template {
	n := rng.Intn(s.totalWeight)
	for i := range s.Templates {
		n -= s.Templates[i].Weight
		if n < 0 {
			return &s.Templates[i]
		}
	}
	return &s.Templates[len(s.Templates)-1]
}

// Spawn creates an entity in world from the template.
func (t *Template) Spawn(world *ecs.World, h *game.Handles) ecs.Entity {
	e := world.CreateEntity()

	if !t.NoPosition {
		pos := h.Position.Create(e)
		pos.X, pos.Y = t.X, t.Y
	}
	if len(t.keys) > 0 {
		input := h.Input.Create(e)
		for _, key := range t.keys {
			input.AddKey(key)
		}
	}
	if t.Lifetime > 0 {
		h.Lifetime.Create(e).Remaining = t.Lifetime
	}
	return e
}

// Apply plays the script steps scheduled for tick on the keyboard state.
func (s *Scenario) Apply(tick int64, keys *game.KeyState) {
	if s.Period > 0 {
		tick %= s.Period
	}
	for i := range s.Script {
		step := &s.Script[i]
		if step.Tick != tick {
			continue
		}
		keys.Release(step.release...)
		keys.Press(step.press...)
	}
}
