// Package slidefx plays interactive slide documents: elements placed per
// device class, gestures resolved into triggers, timed effects and a
// timeline that can step or auto-advance through every interaction.
//
// The package is host agnostic. A host feeds pointer, wheel and key input
// to a [Player], calls [Player.Update] once per frame and draws the
// [Frame] it returns. The ebitenhost package is the [Ebitengine] host.
//
// # Quick start
//
//	doc, err := slidefx.LoadDocument("tour.yaml")
//	if err != nil {
//		return err
//	}
//	p, err := slidefx.NewPlayer(doc, slidefx.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	return ebitenhost.Run(p, ebitenhost.RunConfig{Title: doc.Title})
//
// # Coordinates
//
// Element rectangles are stored in canvas pixels for the device class they
// belong to; [Resolve] falls back to the desktop rectangle when a class has
// none. The canvas keeps the document aspect ratio inside the viewport
// ([ScaleForCanvas]) and the [TransformEngine] zooms and pans it on top.
// [Player.ScreenToElementSpace] maps host pixels back to element space.
//
// # Gestures
//
// Every element on the current slide gets a [Disambiguator]. It turns the
// pointer stream into at most one trigger per gesture: click, double-click,
// hover, touch-start, touch-end or long-press. Elements, canvas pans and
// pinch zooms compete for the stream through an [Arbiter] that lets a
// stronger gesture take over a claim that is still young.
//
// # Time
//
// Nothing in the package reads the wall clock. Timers belong to a [Clock]
// that only advances inside [Player.Update], so effects, long-press and
// auto-advance are deterministic under test:
//
//	p.PointerDown(0, 120, 140)
//	p.Update(16 * time.Millisecond)
//	p.PointerUp(0, 120, 140)
//
// # Effects and timeline
//
// An [EffectScheduler] keeps the active effects of the current slide and
// ends each one after its duration. The [Sequencer] orders every
// interaction of the document by slide, element and delay and can play
// them back with [Sequencer.Play].
//
// Documents written for the older percentage format are converted with
// [MigrateLegacy].
//
// [Ebitengine]: https://ebitengine.org
package slidefx
