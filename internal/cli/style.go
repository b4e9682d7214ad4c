package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/usecase"
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#b8bb26"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
)

// printer writes command output, styled only on a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, color: isTerminal(w)}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) println(text string) {
	_, _ = fmt.Fprintln(p.w, text)
}

// printPlan prints the tree a dry run would create.
func (p *printer) printPlan(h *domain.Hierarchy, types domain.TypesConfig) {
	_ = h.Walk(func(n, _ *domain.Node, depth int) error {
		label := p.render(styleMuted, types.Name(n.Kind)+":")
		p.println(strings.Repeat("  ", depth) + label + " " + n.Title)
		return nil
	})
	p.println(fmt.Sprintf("\n%d work items would be created.", h.Count()))
}

// printCreateSummary prints counts and failures of a create run.
func (p *printer) printCreateSummary(r *usecase.Report) {
	p.println("")
	p.println(p.render(styleHeading, "Summary"))
	p.println(fmt.Sprintf("  %s %d", p.render(styleOK, "created:"), r.Created))
	p.println(fmt.Sprintf("  %s %d", p.render(styleOK, "linked: "), r.Linked))
	if r.Skipped > 0 {
		p.println(fmt.Sprintf("  %s %d", p.render(styleWarn, "skipped:"), r.Skipped))
	}
	p.printFailures(r)
}

// printDeleteSummary prints counts, misses and failures of a delete run.
func (p *printer) printDeleteSummary(r *usecase.Report, remaining []domain.Record, manifestPath string) {
	p.println("")
	p.println(p.render(styleHeading, "Summary"))
	p.println(fmt.Sprintf("  %s %d", p.render(styleOK, "deleted:"), r.Deleted))
	if len(r.NotFound) > 0 {
		p.println(fmt.Sprintf("  %s %d", p.render(styleWarn, "not found:"), len(r.NotFound)))
		for _, nf := range r.NotFound {
			p.println("    - " + nf.Error())
		}
	}
	p.printFailures(r)
	if len(remaining) > 0 {
		p.println(fmt.Sprintf("%d undeleted items remain in %s", len(remaining), manifestPath))
	}
}

func (p *printer) printFailures(r *usecase.Report) {
	if !r.Failed() {
		return
	}
	p.println(fmt.Sprintf("  %s %d", p.render(styleFail, "failed:"), len(r.Failures)))
	for _, err := range r.Failures {
		p.println("    - " + err.Error())
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
