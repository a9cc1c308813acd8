package slidefx

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// LegacyProject is the percentage-based project format that predates
// responsive positions. Single-slide projects carry their hotspots and
// timeline events at the top level instead of in Slides.
type LegacyProject struct {
	Title          string          `json:"title"`
	AspectRatio    string          `json:"aspectRatio"`
	Slides         []LegacySlide   `json:"slides"`
	Hotspots       []LegacyHotspot `json:"hotspots"`
	TimelineEvents []LegacyEvent   `json:"timelineEvents"`
}

// LegacySlide is one slide of a legacy project.
type LegacySlide struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Hotspots       []LegacyHotspot `json:"hotspots"`
	TimelineEvents []LegacyEvent   `json:"timelineEvents"`
}

// LegacyHotspot is a hotspot placed by percentage with a named size tier.
type LegacyHotspot struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        string  `json:"size"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// LegacyEvent is a flat timeline event. Only the fields relevant to its
// type are set.
type LegacyEvent struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Step     int     `json:"step"`
	TargetID string  `json:"targetId"`
	Trigger  string  `json:"trigger"`
	Duration float64 `json:"duration"` // milliseconds

	SpotlightX      *float64 `json:"spotlightX"`
	SpotlightY      *float64 `json:"spotlightY"`
	SpotlightRadius float64  `json:"spotlightRadius"`
	ZoomLevel       float64  `json:"zoomLevel"`
	ZoomX           *float64 `json:"zoomX"`
	ZoomY           *float64 `json:"zoomY"`
	VideoURL        string   `json:"videoUrl"`
	AudioURL        string   `json:"audioUrl"`
	Message         string   `json:"message"`
	TargetSlideID   string   `json:"targetSlideId"`
	Color           string   `json:"color"`
}

var legacyJSON = sonic.ConfigStd

// DecodeLegacyProject parses a legacy JSON project.
func DecodeLegacyProject(data []byte) (*LegacyProject, error) {
	var p LegacyProject
	if err := legacyJSON.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("slidefx: decode legacy project: %w", err)
	}
	return &p, nil
}

// IDGenerator produces ids for records that arrive without one.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 ids.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns prefix-1, prefix-2, ... for deterministic output.
type SequenceGenerator struct {
	Prefix string
	n      int
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.n++
	return g.Prefix + "-" + strconv.Itoa(g.n)
}

// MigrateOptions controls MigrateLegacy.
type MigrateOptions struct {
	// CanvasWidth and CanvasHeight are the desktop canvas the percentages
	// refer to. Zero uses the default reference size.
	CanvasWidth  float64
	CanvasHeight float64
	// IDs generates missing ids. Nil uses UUIDv7Generator.
	IDs IDGenerator
	// StepSpacing is the interaction delay per legacy step rank, which
	// keeps legacy step order within a slide's timeline.
	StepSpacing time.Duration
}

// DefaultStepSpacing orders migrated steps without noticeably lengthening
// auto-advance.
const DefaultStepSpacing = time.Millisecond

// Warning is one issue found during migration. Migration never fails.
type Warning struct {
	Slide   string `json:"slide,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Slide != "" {
		b.WriteString("slide " + w.Slide + ": ")
	}
	if w.Subject != "" {
		b.WriteString(w.Subject + ": ")
	}
	b.WriteString(w.Message)
	return b.String()
}

// MigrationResult is the converted document and the issues found.
type MigrationResult struct {
	Document *Document `json:"document"`
	Warnings []Warning `json:"warnings"`
}

// Legacy event types, case folded, mapped to effect types.
var legacyEffectTypes = map[string]EffectType{
	"spotlight":  EffectSpotlight,
	"zoom":       EffectZoom,
	"pan-zoom":   EffectPanZoom,
	"pan_zoom":   EffectPanZoom,
	"panzoom":    EffectPanZoom,
	"text":       EffectShowText,
	"show-text":  EffectShowText,
	"show_text":  EffectShowText,
	"message":    EffectShowText,
	"tooltip":    EffectShowText,
	"video":      EffectPlayMedia,
	"audio":      EffectPlayMedia,
	"media":      EffectPlayMedia,
	"play-media": EffectPlayMedia,
	"play_media": EffectPlayMedia,
	"highlight":  EffectHighlight,
	"pulse":      EffectHighlight,
	"transition": EffectTransition,
	"goto":       EffectTransition,
	"navigate":   EffectTransition,
}

var fold = cases.Fold()

func foldKey(s string) string {
	return fold.String(strings.TrimSpace(s))
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// MigrateLegacy converts a legacy project into a Document. It always returns
// a document, possibly empty, along with warnings for everything it had to
// skip, clamp or guess.
func MigrateLegacy(project *LegacyProject, opts MigrateOptions) MigrationResult {
	m := migrator{opts: opts}
	if m.opts.CanvasWidth <= 0 || m.opts.CanvasHeight <= 0 {
		m.opts.CanvasWidth, m.opts.CanvasHeight = DefaultReferenceWidth, DefaultReferenceHeight
	}
	if m.opts.IDs == nil {
		m.opts.IDs = UUIDv7Generator{}
	}
	if m.opts.StepSpacing <= 0 {
		m.opts.StepSpacing = DefaultStepSpacing
	}
	return m.run(project)
}

type migrator struct {
	opts     MigrateOptions
	warnings []Warning
	slideIDs map[string]bool
	eventIDs map[string]bool
}

func (m *migrator) warn(slide, subject, format string, args ...any) {
	m.warnings = append(m.warnings, Warning{Slide: slide, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

func (m *migrator) run(project *LegacyProject) MigrationResult {
	doc := &Document{}
	if project == nil {
		m.warn("", "", "empty project")
		return MigrationResult{Document: doc, Warnings: m.warnings}
	}
	doc.Title = cleanText(project.Title)
	doc.AspectRatio = project.AspectRatio
	if doc.AspectRatio != "" {
		if _, err := ParseAspectRatio(doc.AspectRatio); err != nil {
			m.warn("", "", "invalid aspect ratio %q; using %s", doc.AspectRatio, DefaultAspectRatio)
			doc.AspectRatio = DefaultAspectRatio.String()
		}
	}

	slides := project.Slides
	if len(project.Hotspots) > 0 || len(project.TimelineEvents) > 0 {
		slides = append([]LegacySlide{{
			Title:          project.Title,
			Hotspots:       project.Hotspots,
			TimelineEvents: project.TimelineEvents,
		}}, slides...)
	}
	if len(slides) == 0 {
		m.warn("", "", "no slides, hotspots or timeline events")
		return MigrationResult{Document: doc, Warnings: m.warnings}
	}

	// Slide ids first, so transitions can be checked against all of them.
	m.slideIDs = make(map[string]bool, len(slides))
	ids := make([]string, len(slides))
	for i, s := range slides {
		id := strings.TrimSpace(s.ID)
		if id == "" || m.slideIDs[id] {
			if id != "" {
				m.warn(id, "", "duplicate slide id; regenerated")
			}
			id = m.opts.IDs.Generate()
		}
		m.slideIDs[id] = true
		ids[i] = id
	}

	var hotspots, events int
	for i, s := range slides {
		doc.Slides = append(doc.Slides, m.slide(ids[i], s))
		hotspots += len(s.Hotspots)
		events += len(s.TimelineEvents)
	}
	if hotspots == 0 {
		m.warn("", "", "no hotspots")
	}
	if events == 0 {
		m.warn("", "", "no timeline events")
	}
	return MigrationResult{Document: doc, Warnings: m.warnings}
}

func (m *migrator) slide(id string, s LegacySlide) Slide {
	out := Slide{ID: id, Title: cleanText(s.Title)}
	elementIDs := make(map[string]int, len(s.Hotspots))

	for _, h := range s.Hotspots {
		el, ok := m.hotspot(id, h, elementIDs)
		if !ok {
			continue
		}
		elementIDs[el.ID] = len(out.Elements)
		out.Elements = append(out.Elements, el)
	}

	// Legacy step order decides delay rank; ties keep declaration order.
	events := slices.Clone(s.TimelineEvents)
	slices.SortStableFunc(events, func(a, b LegacyEvent) int { return a.Step - b.Step })

	canvasElement := -1
	for rank, ev := range events {
		in, ok := m.event(id, ev, rank)
		if !ok {
			continue
		}
		target := strings.TrimSpace(ev.TargetID)
		idx := -1
		switch {
		case target == "":
			if canvasElement < 0 {
				canvasElement = len(out.Elements)
				out.Elements = append(out.Elements, m.canvasElement())
			}
			idx = canvasElement
		default:
			i, found := elementIDs[target]
			if !found {
				m.warn(id, in.ID, "target hotspot %q not found; event skipped", target)
				continue
			}
			idx = i
		}
		out.Elements[idx].Interactions = append(out.Elements[idx].Interactions, in)
	}
	return out
}

// canvasElement hosts events that target the slide rather than a hotspot.
func (m *migrator) canvasElement() Element {
	r := Rect{Width: m.opts.CanvasWidth, Height: m.opts.CanvasHeight}
	pos := ResponsivePosition{Desktop: &r}
	for _, class := range []DeviceClass{DeviceTablet, DeviceMobile} {
		scaled := r.Scale(class.CanvasRatio())
		switch class {
		case DeviceTablet:
			pos.Tablet = &scaled
		case DeviceMobile:
			pos.Mobile = &scaled
		}
	}
	return Element{ID: m.opts.IDs.Generate(), Kind: ElementShape, Position: pos, Hidden: true}
}

func (m *migrator) hotspot(slide string, h LegacyHotspot, seen map[string]int) (Element, bool) {
	id := strings.TrimSpace(h.ID)
	if _, dup := seen[id]; dup && id != "" {
		m.warn(slide, id, "duplicate hotspot id; regenerated")
		id = ""
	}
	if id == "" {
		id = m.opts.IDs.Generate()
	}
	x := m.percent(slide, id, "x", h.X)
	y := m.percent(slide, id, "y", h.Y)

	tier := SizeTier(foldKey(h.Size))
	if tier == "" {
		tier = SizeMedium
	} else if _, ok := tier.Pixels(); !ok {
		m.warn(slide, id, "unknown size %q; using %s", h.Size, SizeMedium)
		tier = SizeMedium
	}

	content := cleanText(h.Title)
	if d := cleanText(h.Description); d != "" {
		if content != "" {
			content += "\n"
		}
		content += d
	}
	return Element{
		ID:       id,
		Kind:     ElementHotspot,
		Position: MigrateLegacyPercentage(x, y, tier, m.opts.CanvasWidth, m.opts.CanvasHeight),
		Content:  content,
	}, true
}

func (m *migrator) percent(slide, subject, axis string, v float64) float64 {
	if math.IsNaN(v) {
		m.warn(slide, subject, "%s is not a number; using 50", axis)
		return 50
	}
	if v < 0 || v > 100 {
		c := math.Max(0, math.Min(v, 100))
		m.warn(slide, subject, "%s=%g outside 0-100; clamped to %g", axis, v, c)
		return c
	}
	return v
}

func (m *migrator) event(slide string, ev LegacyEvent, rank int) (Interaction, bool) {
	id := strings.TrimSpace(ev.ID)
	if m.eventIDs[id] && id != "" {
		m.warn(slide, id, "duplicate event id; regenerated")
		id = ""
	}
	if id == "" {
		id = m.opts.IDs.Generate()
	}

	key := foldKey(ev.Type)
	typ, known := legacyEffectTypes[key]
	if !known {
		if key == "" {
			m.warn(slide, id, "event has no type; event skipped")
			return Interaction{}, false
		}
		m.warn(slide, id, "unknown event type %q; kept without side effects", ev.Type)
		typ = EffectType(key)
	}

	trigger := TriggerClick
	if ev.Trigger != "" {
		k, ok := ParseTriggerKind(foldKey(ev.Trigger))
		if !ok {
			m.warn(slide, id, "unknown trigger %q; using click", ev.Trigger)
		} else {
			trigger = k
		}
	}

	dur := ev.Duration
	if dur < 0 || math.IsNaN(dur) {
		m.warn(slide, id, "negative duration; using 0")
		dur = 0
	}

	params := m.params(slide, id, typ, ev)
	if m.eventIDs == nil {
		m.eventIDs = make(map[string]bool)
	}
	m.eventIDs[id] = true
	return Interaction{
		ID:      id,
		Trigger: trigger,
		Delay:   time.Duration(rank) * m.opts.StepSpacing,
		Effect: Effect{
			ID:       id + "-effect",
			Type:     typ,
			Duration: time.Duration(dur * float64(time.Millisecond)),
			Params:   params,
		},
	}, true
}

// params copies the type-specific legacy fields. Percentages are converted
// to desktop canvas pixels.
func (m *migrator) params(slide, id string, typ EffectType, ev LegacyEvent) map[string]any {
	p := make(map[string]any)
	px := func(key string, v *float64, size float64) {
		if v != nil {
			p[key] = m.percent(slide, id, key, *v) / 100 * size
		}
	}
	switch typ {
	case EffectSpotlight:
		px("x", ev.SpotlightX, m.opts.CanvasWidth)
		px("y", ev.SpotlightY, m.opts.CanvasHeight)
		if ev.SpotlightRadius > 0 {
			p["radius"] = ev.SpotlightRadius
		}
	case EffectZoom, EffectPanZoom:
		level := ev.ZoomLevel
		if level <= 0 {
			level = 2
			m.warn(slide, id, "missing zoom level; using 2")
		}
		p["level"] = level
		px("x", ev.ZoomX, m.opts.CanvasWidth)
		px("y", ev.ZoomY, m.opts.CanvasHeight)
	case EffectShowText:
		p["message"] = cleanText(ev.Message)
	case EffectPlayMedia:
		url := ev.VideoURL
		if url == "" {
			url = ev.AudioURL
		}
		if url == "" {
			m.warn(slide, id, "media event without url")
		}
		p["url"] = url
	case EffectHighlight:
		if ev.Color != "" {
			p["color"] = ev.Color
		}
	case EffectTransition:
		target := strings.TrimSpace(ev.TargetSlideID)
		switch {
		case target == "":
			m.warn(slide, id, "transition without target slide")
		case !m.slideIDs[target]:
			m.warn(slide, id, "transition target %q not found", target)
		}
		p[ParamTargetSlide] = target
	}
	if ev.Message != "" && typ != EffectShowText {
		p["message"] = cleanText(ev.Message)
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// EncodeMigrationResult renders a result as indented JSON.
func EncodeMigrationResult(r MigrationResult) ([]byte, error) {
	return legacyJSON.MarshalIndent(r, "", "  ")
}
