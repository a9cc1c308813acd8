package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/slidefx"
)

// TimelineRow is one step of the timeline report.
type TimelineRow struct {
	Step int `json:"step"`
	slidefx.TimelineStep
	Trigger string `json:"trigger,omitempty"`
	Effect  string `json:"effect,omitempty"`
	// At is when auto-advance reaches the step, measured from Play.
	At time.Duration `json:"at"`
}

// TimelineReport is the output of the timeline command.
type TimelineReport struct {
	Title  string        `json:"title,omitempty"`
	Slides int           `json:"slides"`
	Steps  []TimelineRow `json:"steps"`
	// Runtime is when auto-advance stops at the last step.
	Runtime time.Duration `json:"runtime"`
}

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline <document.yaml>",
		Short: "Print the flattened step sequence of a document",
		Long: `Print the flattened step sequence of a document.

Every slide contributes a slide-entry step followed by one step per
interaction, ordered by delay. The AT column is when auto-advance reaches
each step, using the configured gap between steps.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTimeline(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err)
	}
	doc, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}
	report, err := BuildTimelineReport(doc, cfg)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
	}
	if formatter.JSON() {
		return formatter.Success(report)
	}
	writeTimelineTable(formatter.Writer, report)
	return nil
}

// BuildTimelineReport plays doc headless with auto-advance to record when
// each step becomes current.
func BuildTimelineReport(doc *slidefx.Document, cfg slidefx.Config) (TimelineReport, error) {
	p, err := slidefx.NewPlayer(doc, cfg)
	if err != nil {
		return TimelineReport{}, err
	}
	defer p.Dispose()

	seq := p.Sequencer()
	report := TimelineReport{Title: doc.Title, Slides: len(doc.Slides)}
	at := make([]time.Duration, seq.Total()+1)
	var horizon time.Duration
	for i, step := range seq.Steps() {
		row := TimelineRow{Step: i + 1, TimelineStep: step}
		if !step.SlideEntry() {
			if el, ok := doc.Slides[step.SlideIndex].Element(step.ElementID); ok {
				if in, ok := el.Interaction(step.InteractionID); ok {
					row.Trigger = in.Trigger.String()
					row.Effect = string(in.Effect.Type)
				}
			}
		}
		report.Steps = append(report.Steps, row)
		horizon += step.Dwell() + cfg.AutoAdvanceGap
	}

	p.OnStepChange(func(c slidefx.StepChange) {
		if c.Current > 0 && c.Current < len(at) {
			at[c.Current] = p.Clock().Now()
		}
	})
	seq.Play()
	p.Update(horizon)

	for i := range report.Steps {
		report.Steps[i].At = at[i+1]
	}
	if n := len(report.Steps); n > 0 {
		report.Runtime = report.Steps[n-1].At + report.Steps[n-1].Dwell()
	}
	return report, nil
}

func writeTimelineTable(w io.Writer, r TimelineReport) {
	if r.Title != "" {
		fmt.Fprintf(w, "%s\n\n", r.Title)
	}
	fmt.Fprintf(w, "%4s  %-10s  %-10s  %-14s  %-12s  %-10s  %8s  %8s  %8s\n",
		"STEP", "SLIDE", "ELEMENT", "INTERACTION", "TRIGGER", "EFFECT", "DELAY", "DURATION", "AT")
	for _, row := range r.Steps {
		element, interaction := row.ElementID, row.InteractionID
		if row.SlideEntry() {
			element, interaction = "-", "(enter)"
		}
		fmt.Fprintf(w, "%4d  %-10s  %-10s  %-14s  %-12s  %-10s  %8s  %8s  %8s\n",
			row.Step, row.SlideID, element, interaction, dash(row.Trigger), dash(row.Effect),
			row.Delay, row.Duration, row.At)
	}
	fmt.Fprintf(w, "\n%d step(s) across %d slide(s), runtime %s\n", len(r.Steps), r.Slides, r.Runtime)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
