package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kamstrup/intmap"
	"github.com/plus3/minecs/ecs"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Input holds the keys an entity reacts to.
type Input struct {
	ecs.Base
	keys *intmap.Set[tcell.Key]
}

// NewInput creates an Input of e with no bound keys
func NewInput(e ecs.Entity) Input {
	return Input{
		Base: ecs.NewBase(e),
		keys: intmap.NewSet[tcell.Key](4),
	}
}

// AddKey binds key to the entity
func (in *Input) AddKey(key tcell.Key) {
	in.keys.Add(key)
}

// RemoveKey unbinds key. Unbound keys are ignored.
func (in *Input) RemoveKey(key tcell.Key) {
	in.keys.Del(key)
}

// Clear unbinds every key
func (in *Input) Clear() {
	in.keys.Clear()
}

// HasKey reports whether key is bound
func (in *Input) HasKey(key tcell.Key) bool {
	return in.keys.Has(key)
}

// Keys returns the bound keys in ascending order
func (in *Input) Keys() []tcell.Key {
	return slices.Sorted(in.keys.All())
}

// String lists the bound key names, e.g. "{ Up Left }"
func (in *Input) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, key := range in.Keys() {
		b.WriteString(KeyName(key))
		b.WriteByte(' ')
	}
	b.WriteString("}")
	return b.String()
}

// KeyName returns the display name of a key
func KeyName(key tcell.Key) string {
	if name, ok := tcell.KeyNames[key]; ok {
		return name
	}
	return fmt.Sprintf("Key[%d]", key)
}

// ParseKey resolves a key from its display name, e.g. "Up" or "Left".
func ParseKey(name string) (tcell.Key, error) {
	for key, keyName := range tcell.KeyNames {
		if strings.EqualFold(keyName, name) {
			return key, nil
		}
	}
	return 0, eris.Errorf("unknown key %q", name)
}

// Keyboard reports which keys are held down during the current tick.
type Keyboard interface {
	Pressed(key tcell.Key) bool
}

// KeyState is a Keyboard fed by the caller, typically from tcell key events.
type KeyState struct {
	pressed *intmap.Set[tcell.Key]
}

// NewKeyState creates a keyboard with every key released
func NewKeyState() *KeyState {
	return &KeyState{pressed: intmap.NewSet[tcell.Key](8)}
}

// Press holds the keys down until they are released
func (ks *KeyState) Press(keys ...tcell.Key) {
	for _, key := range keys {
		ks.pressed.Add(key)
	}
}

// Release lets the keys go. Keys that are not held are ignored.
func (ks *KeyState) Release(keys ...tcell.Key) {
	for _, key := range keys {
		ks.pressed.Del(key)
	}
}

// Reset releases every key
func (ks *KeyState) Reset() {
	ks.pressed.Clear()
}

// Pressed reports whether key is held down
func (ks *KeyState) Pressed(key tcell.Key) bool {
	return ks.pressed.Has(key)
}

// InputProcessing moves the position of every entity whose bound keys are pressed.
type InputProcessing struct {
	ecs.NopProcessing
	inputs   *ecs.ComponentFactory[Input]
	keyboard Keyboard
	log      *zap.Logger
}

// NewInputProcessing returns the processing constructor of the input system.
func NewInputProcessing(keyboard Keyboard, log *zap.Logger) func(*ecs.ComponentFactory[Input]) ecs.Processing {
	return func(inputs *ecs.ComponentFactory[Input]) ecs.Processing {
		return &InputProcessing{
			inputs:   inputs,
			keyboard: keyboard,
			log:      log,
		}
	}
}

// Process applies the pressed and bound keys to the matching positions.
func (p *InputProcessing) Process(systems ecs.Systems) ([]ecs.Entity, error) {
	positions, ok := ecs.Lookup[Position](systems, PositionSystem)
	if !ok {
		return nil, nil
	}

	// entities without a position are skipped by the join
	for input, position := range ecs.Join(p.inputs, positions) {
		p.processKeys(input, position)
	}
	return nil, nil
}

func (p *InputProcessing) processKeys(input *Input, position *Position) {
	if p.active(input, tcell.KeyUp) {
		position.X--
		p.moved(tcell.KeyUp, position)
	}
	if p.active(input, tcell.KeyDown) {
		position.X++
		p.moved(tcell.KeyDown, position)
	}
	if p.active(input, tcell.KeyLeft) {
		position.Y--
		p.moved(tcell.KeyLeft, position)
	}
	if p.active(input, tcell.KeyRight) {
		position.Y++
		p.moved(tcell.KeyRight, position)
	}
}

func (p *InputProcessing) active(input *Input, key tcell.Key) bool {
	return p.keyboard.Pressed(key) && input.HasKey(key)
}

func (p *InputProcessing) moved(key tcell.Key, position *Position) {
	p.log.Debug("key pressed",
		zap.String("key", KeyName(key)),
		zap.Stringer("entity", position.Owner()),
		zap.Stringer("position", position),
	)
}
