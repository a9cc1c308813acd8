package ecs

import (
	"github.com/phanxgames/slidefx"

	"github.com/yohamta/donburi"
)

// ActiveEffectComponent holds the effect an entity mirrors.
var ActiveEffectComponent = donburi.NewComponentType[slidefx.ActiveEffect]()

// EffectMirror keeps one entity per active effect of a Player. Entities are
// created when an effect starts and removed when it ends, so ECS systems can
// query live effects instead of listening for events.
type EffectMirror struct {
	world    donburi.World
	entities map[string]donburi.Entity
	handles  []slidefx.CallbackHandle
}

// MirrorEffects starts mirroring p's effects into world. Effects already
// active are mirrored immediately.
func MirrorEffects(world donburi.World, p *slidefx.Player) *EffectMirror {
	m := &EffectMirror{world: world, entities: make(map[string]donburi.Entity)}
	for _, a := range p.Effects().Active() {
		m.start(a)
	}
	m.handles = append(m.handles,
		p.OnEffectStart(m.start),
		p.OnEffectEnd(m.end),
	)
	return m
}

func (m *EffectMirror) start(a slidefx.ActiveEffect) {
	// A retriggered effect restarts on the same entity.
	if e, ok := m.entities[a.Effect.ID]; ok && m.world.Valid(e) {
		ActiveEffectComponent.SetValue(m.world.Entry(e), a)
		return
	}
	e := m.world.Create(ActiveEffectComponent)
	ActiveEffectComponent.SetValue(m.world.Entry(e), a)
	m.entities[a.Effect.ID] = e
}

func (m *EffectMirror) end(a slidefx.ActiveEffect) {
	e, ok := m.entities[a.Effect.ID]
	if !ok {
		return
	}
	delete(m.entities, a.Effect.ID)
	if m.world.Valid(e) {
		m.world.Remove(e)
	}
}

// Entity returns the entity mirroring the effect with the given id.
func (m *EffectMirror) Entity(effectID string) (donburi.Entity, bool) {
	e, ok := m.entities[effectID]
	return e, ok
}

// Len returns the number of mirrored effects.
func (m *EffectMirror) Len() int {
	return len(m.entities)
}

// Close stops mirroring and removes every mirrored entity.
func (m *EffectMirror) Close() {
	for _, h := range m.handles {
		h.Remove()
	}
	m.handles = nil
	for id, e := range m.entities {
		if m.world.Valid(e) {
			m.world.Remove(e)
		}
		delete(m.entities, id)
	}
}
