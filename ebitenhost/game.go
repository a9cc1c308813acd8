// Package ebitenhost runs a slidefx Player inside an ebiten game loop.
//
// The adapter polls mouse, touch, wheel and keyboard input into the Player
// each tick and draws the Player's Frame: element rectangles, debug
// overlays for active effects and a timeline progress bar.
//
//	p, _ := slidefx.NewPlayer(doc, slidefx.DefaultConfig())
//	err := ebitenhost.Run(p, ebitenhost.RunConfig{Title: doc.Title})
package ebitenhost

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/colornames"

	"github.com/phanxgames/slidefx"
)

// overlayFade is how long an effect overlay takes to fade in.
const overlayFade = 250 * time.Millisecond

// RunConfig holds window and overlay options for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowHUD draws the step counter and progress bar.
	ShowHUD bool
	// Reload delivers documents to swap in, typically from a file watcher.
	Reload <-chan *slidefx.Document
}

// Game adapts a Player to ebiten.Game.
type Game struct {
	player *slidefx.Player
	input  *Input
	cfg    RunConfig

	fades  map[string]*gween.Tween
	alpha  map[string]float32
	width  int
	height int
}

// NewGame wraps p. The game registers effect listeners on p to drive its
// overlay fades.
func NewGame(p *slidefx.Player, cfg RunConfig) *Game {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	g := &Game{
		player: p,
		input:  NewInput(),
		cfg:    cfg,
		fades:  make(map[string]*gween.Tween),
		alpha:  make(map[string]float32),
	}
	p.OnEffectStart(func(a slidefx.ActiveEffect) {
		g.fades[a.Effect.ID] = gween.New(0, 1, float32(overlayFade.Seconds()), ease.OutQuad)
		g.alpha[a.Effect.ID] = 0
	})
	p.OnEffectEnd(func(a slidefx.ActiveEffect) {
		delete(g.fades, a.Effect.ID)
		delete(g.alpha, a.Effect.ID)
	})
	return g
}

// Run opens a window and plays p until the window closes.
func Run(p *slidefx.Player, cfg RunConfig) error {
	g := NewGame(p, cfg)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer p.Dispose()
	return ebiten.RunGame(g)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.drainReload()
	dt := time.Second / time.Duration(ebiten.TPS())
	g.input.Poll(g.player)
	g.player.Update(dt)

	sec := float32(dt.Seconds())
	for id, tw := range g.fades {
		v, done := tw.Update(sec)
		g.alpha[id] = v
		if done {
			delete(g.fades, id)
		}
	}
	return nil
}

func (g *Game) drainReload() {
	if g.cfg.Reload == nil {
		return
	}
	for {
		select {
		case doc, ok := <-g.cfg.Reload:
			if !ok {
				g.cfg.Reload = nil
				return
			}
			if err := g.player.Reload(doc); err != nil {
				log.Warn().Err(err).Msg("document reload rejected")
			}
		default:
			return
		}
	}
}

// Layout implements ebiten.Game. The viewport follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.player.SetViewport(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	f := g.player.Frame()
	screen.Fill(colornames.Black)

	// Canvas backdrop, zoomed and panned with the content.
	view := canvasRect(f)
	vector.DrawFilledRect(screen, float32(view.X), float32(view.Y),
		float32(view.Width), float32(view.Height), colornames.Whitesmoke, false)

	for _, el := range f.Elements {
		fill := withAlpha(kindColor(el.Kind), 0x60)
		stroke := kindColor(el.Kind)
		if el.Active {
			stroke = colornames.Gold
		}
		r := el.Rect
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), fill, true)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 2, stroke, true)
	}

	for _, a := range f.Effects {
		g.drawEffect(screen, f, a)
	}

	if f.Mode == slidefx.ModeEdit {
		ebitenutil.DebugPrintAt(screen, "EDIT", int(f.CanvasOrigin.X)+4, int(f.CanvasOrigin.Y)+4)
	}
	if g.cfg.ShowHUD {
		g.drawHUD(screen, f)
	}
}

// canvasRect is the zoomed and panned canvas in viewport pixels.
func canvasRect(f slidefx.Frame) slidefx.Rect {
	s := f.Transform.Scale
	cx := f.CanvasOrigin.X + f.Canvas.Width/2 + f.Transform.TranslateX
	cy := f.CanvasOrigin.Y + f.Canvas.Height/2 + f.Transform.TranslateY
	w, h := f.Canvas.Width*s, f.Canvas.Height*s
	return slidefx.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

func (g *Game) drawEffect(screen *ebiten.Image, f slidefx.Frame, a slidefx.ActiveEffect) {
	alpha, ok := g.alpha[a.Effect.ID]
	if !ok {
		alpha = 1
	}
	src := sourceRect(f, a.Source)
	view := canvasRect(f)
	switch a.Effect.Type {
	case slidefx.EffectSpotlight:
		vector.DrawFilledRect(screen, float32(view.X), float32(view.Y), float32(view.Width), float32(view.Height),
			withAlpha(colornames.Black, uint8(140*alpha)), false)
		c := src.Center()
		radius := float32(a.Effect.FloatParam("radius", max(src.Width, src.Height)))
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), radius, 3, withAlpha(colornames.White, uint8(255*alpha)), true)
	case slidefx.EffectZoom, slidefx.EffectPanZoom:
		level := a.Effect.FloatParam("level", 2)
		c := src.Center()
		w, h := src.Width*level, src.Height*level
		vector.StrokeRect(screen, float32(c.X-w/2), float32(c.Y-h/2), float32(w), float32(h), 2,
			withAlpha(colornames.Deepskyblue, uint8(255*alpha)), true)
	case slidefx.EffectShowText:
		msg := a.Effect.StringParam("message", a.Effect.ID)
		ebitenutil.DebugPrintAt(screen, msg, int(src.X), int(src.Y+src.Height)+4)
	case slidefx.EffectPlayMedia:
		url := a.Effect.StringParam("url", "")
		ebitenutil.DebugPrintAt(screen, "> "+url, int(src.X), int(src.Y+src.Height)+4)
	case slidefx.EffectHighlight:
		vector.StrokeRect(screen, float32(src.X-4), float32(src.Y-4), float32(src.Width+8), float32(src.Height+8), 4,
			withAlpha(colornames.Gold, uint8(255*alpha)), true)
	case slidefx.EffectTransition:
		vector.DrawFilledRect(screen, float32(view.X), float32(view.Y), float32(view.Width), float32(view.Height),
			withAlpha(colornames.Black, uint8(255*alpha)), false)
	}
}

// sourceRect is the triggering element's rectangle, or the canvas for
// effects with no source element on screen.
func sourceRect(f slidefx.Frame, id string) slidefx.Rect {
	for _, el := range f.Elements {
		if el.ID == id {
			return el.Rect
		}
	}
	return canvasRect(f)
}

func (g *Game) drawHUD(screen *ebiten.Image, f slidefx.Frame) {
	const barH = 4
	w := float32(g.width)
	y := float32(g.height - barH)
	vector.DrawFilledRect(screen, 0, y, w, barH, colornames.Dimgray, false)
	if f.TotalSteps > 0 {
		frac := float32(f.Step) / float32(f.TotalSteps)
		vector.DrawFilledRect(screen, 0, y, w*frac, barH, colornames.Limegreen, false)
	}
	state := "paused"
	if f.Playing {
		state = "playing"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("slide %d  step %d/%d  %s  zoom %.2f  %s  TPS %.0f",
			f.SlideIndex+1, f.Step, f.TotalSteps, state, f.Transform.Scale, f.Device, ebiten.ActualTPS()),
		4, g.height-barH-16)
}

func kindColor(k slidefx.ElementKind) color.RGBA {
	switch k {
	case slidefx.ElementHotspot:
		return colornames.Dodgerblue
	case slidefx.ElementText:
		return colornames.Seagreen
	case slidefx.ElementMedia:
		return colornames.Darkorange
	}
	return colornames.Slategray
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	// colornames values are opaque; scale to premultiplied alpha.
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}
