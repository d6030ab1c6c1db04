package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/hpextract/internal/model"
)

const rule = "----------"

// Renderer writes the human-readable run report
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes one block per record followed by a run summary
func (r *Renderer) Render(w io.Writer, report *model.Report) error {
	var b strings.Builder
	for _, res := range report.Results {
		r.writeResult(&b, res)
	}
	r.writeSummary(&b, report)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderResult writes a single record block
func (r *Renderer) RenderResult(w io.Writer, res *model.OccupationResult) error {
	var b strings.Builder
	r.writeResult(&b, res)
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) writeResult(b *strings.Builder, res *model.OccupationResult) {
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "PMID: %s\n", res.PMID)
	fmt.Fprintf(b, " Occupations: %s\n", strings.Join(res.Names(), ", "))
	b.WriteString(" Suspected Causative Factors\n [\n")
	for _, f := range res.Factors() {
		fmt.Fprintf(b, "  %s\n", f)
	}
	b.WriteString(" ]\n" + rule + "\n")
}

func (r *Renderer) writeSummary(b *strings.Builder, report *model.Report) {
	s := report.Stats
	fmt.Fprintf(b, "\nRun %s (%q): %d articles retrieved, %d skipped; %d occupation records; %d causative factors",
		report.RunID, report.Query, s.ArticlesRetrieved, s.ArticlesSkipped, s.Records, s.FactorsAttached)
	if s.DocumentsSkipped > 0 {
		fmt.Fprintf(b, "; %d annotation documents skipped", s.DocumentsSkipped)
	}
	if !report.CompletedAt.IsZero() && !report.StartedAt.IsZero() {
		fmt.Fprintf(b, " in %s", report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	b.WriteString("\n")
}
