package slidefx

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeDocument parses a YAML slide document and validates its ids.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("slidefx: decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("slidefx: invalid document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads a YAML slide document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("slidefx: load document %s: %w", path, err)
	}
	return DecodeDocument(data)
}

// EncodeDocument renders doc as YAML.
func EncodeDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("slidefx: encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("slidefx: encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// CheckDocument reports problems that load fine but misbehave at play time:
// transitions to missing slides, unknown effect types, elements without a
// desktop rectangle and interactions sharing an id or a trigger.
func CheckDocument(doc *Document) []Warning {
	var out []Warning
	warn := func(slide, subject, format string, args ...any) {
		out = append(out, Warning{Slide: slide, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}
	if len(doc.Slides) == 0 {
		warn("", "", "document has no slides")
	}
	if doc.AspectRatio != "" {
		if _, err := ParseAspectRatio(doc.AspectRatio); err != nil {
			warn("", "", "%v; %s is used instead", err, DefaultAspectRatio)
		}
	}
	for i := range doc.Slides {
		s := &doc.Slides[i]
		for j := range s.Elements {
			el := &s.Elements[j]
			if el.Position.Desktop == nil {
				warn(s.ID, el.ID, "no desktop rectangle; other classes fall back to the default")
			}
			ids := make(map[string]bool, len(el.Interactions))
			var triggers TriggerSet
			for _, in := range el.Interactions {
				if ids[in.ID] {
					warn(s.ID, el.ID, "duplicate interaction id %q", in.ID)
				}
				ids[in.ID] = true
				if triggers.Has(in.Trigger) {
					warn(s.ID, el.ID, "interaction %q shadowed by an earlier %s interaction", in.ID, in.Trigger)
				}
				triggers = triggers.With(in.Trigger)
				if !in.Effect.Type.Known() {
					warn(s.ID, el.ID, "interaction %q: unknown effect type %q", in.ID, in.Effect.Type)
				}
				if in.Effect.Type == EffectTransition {
					target := in.Effect.StringParam(ParamTargetSlide, "")
					if doc.SlideIndex(target) < 0 {
						warn(s.ID, el.ID, "interaction %q: transition target %q not found", in.ID, target)
					}
				}
			}
		}
	}
	return out
}
