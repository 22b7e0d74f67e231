package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// sampleSize is how many ids of each removal list a dry run prints.
const sampleSize = 10

// Report colours.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorSuccess = lipgloss.Color("#A6E3A1")
)

// reportStyles renders through the writer's own profile, so output to a
// file or buffer carries no escape codes.
type reportStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		label:   r.NewStyle().Width(48),
		muted:   r.NewStyle().Foreground(colorMuted),
		warning: r.NewStyle().Foreground(colorWarning),
		success: r.NewStyle().Foreground(colorSuccess),
	}
}

// writeSummary prints the plan counts in their fixed order.
func writeSummary(w io.Writer, plan *domain.Plan, opts domain.Options) {
	s := newReportStyles(w)
	c := plan.Counts

	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", s.label.Render(label+":"), value)
	}
	count := strconv.Itoa

	fmt.Fprintln(w, s.title.Render("=== Reconcile Summary ==="))
	line("Entries before", count(c.Before))
	line(fmt.Sprintf("Below min-confidence (%g) dropped", opts.MinConfidence), count(c.BelowConfidence))
	line("Exact-phrase dropped", count(c.ExactPhrase))
	line("Invalid/missing vector_id dropped", count(c.InvalidID))
	if plan.Degraded {
		line("Dropped (no matching vector)", s.warning.Render("skipped (vector ids not enumerable)"))
	} else {
		line("Dropped (no matching vector)", count(c.MissingVector))
	}
	line("After filtering", count(c.AfterFilter))
	line("After dedupe", count(c.AfterDedupe))
	if plan.SubjectCap > 0 {
		line(fmt.Sprintf("After subject cap (%d/subject)", plan.SubjectCap), count(c.AfterCap))
	} else {
		line("After subject cap", s.muted.Render("disabled"))
	}
	if c.IDCollisions > 0 {
		line("Vector id collisions dropped", count(c.IDCollisions))
	}
	if plan.VectorCount < 0 {
		line("Vector store count", s.warning.Render("unknown"))
	} else {
		line("Vector store count", count(plan.VectorCount))
	}
	line("Final kept", count(len(plan.Kept)))
	line("Kept-side ids to remove from vector store", count(len(plan.FilteredVectors)))
	if plan.Degraded {
		line("Remove orphan vectors", s.warning.Render("unavailable (degraded: "+plan.DegradedReason+")"))
	} else {
		line("Remove orphan vectors", count(len(plan.OrphanVectors)))
	}
}

// writeDryRun prints the dry-run marker and a sample of each removal list.
func writeDryRun(w io.Writer, plan *domain.Plan) {
	s := newReportStyles(w)
	fmt.Fprintln(w, s.title.Render("-- DRY RUN: no changes written --"))
	writeSample(w, s, "Kept-side ids to remove", plan.FilteredVectors)
	if !plan.Degraded {
		writeSample(w, s, "Orphan vector ids", plan.OrphanVectors)
	}
	if len(plan.DroppedMissingVector) > 0 {
		ids := make([]domain.VectorID, 0, len(plan.DroppedMissingVector))
		for _, r := range plan.DroppedMissingVector {
			ids = append(ids, r.VectorID)
		}
		writeSample(w, s, "Records without a vector", ids)
	}
}

func writeSample(w io.Writer, s reportStyles, label string, ids []domain.VectorID) {
	if len(ids) == 0 {
		fmt.Fprintf(w, "%s %s\n", s.label.Render(label+":"), s.muted.Render("none"))
		return
	}
	n := min(sampleSize, len(ids))
	parts := make([]string, n)
	for i, id := range ids[:n] {
		parts[i] = id.String()
	}
	sample := strings.Join(parts, ", ")
	if len(ids) > n {
		sample += fmt.Sprintf(" ... (first %d of %d)", n, len(ids))
	}
	fmt.Fprintf(w, "%s %s\n", s.label.Render(label+":"), sample)
}

// writeNoChanges prints the closing marker of a run that has nothing to apply.
func writeNoChanges(w io.Writer) {
	s := newReportStyles(w)
	fmt.Fprintln(w, s.title.Render("-- NO CHANGES: stores already consistent --"))
}

// writeApplied prints the apply marker and what was written.
func writeApplied(w io.Writer, result *driving.ApplyResult) {
	s := newReportStyles(w)
	fmt.Fprintln(w, s.title.Render("-- APPLY --"))
	if result.RecordBackup != "" {
		fmt.Fprintf(w, "%s %s\n", s.label.Render("Record store backup:"), result.RecordBackup)
	}
	if result.VectorBackup != "" {
		fmt.Fprintf(w, "%s %s\n", s.label.Render("Vector index backup:"), result.VectorBackup)
	}
	fmt.Fprintf(w, "%s %d\n", s.label.Render("Vectors removed:"), result.Removed)
	fmt.Fprintln(w, s.success.Render("Both stores updated."))
}

// writeIndexInfo prints an inspect result.
func writeIndexInfo(w io.Writer, info driving.VectorIndexInfo) {
	s := newReportStyles(w)
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", s.label.Render(label+":"), value)
	}
	fmt.Fprintln(w, s.title.Render("=== Vector Index ==="))
	line("Path", info.Path)
	line("Kind", info.Kind)
	line("Codec", info.Codec)
	line("Dimension", strconv.Itoa(info.Dimension))
	line("Vectors", strconv.Itoa(info.Count))
	if info.Enumerable {
		line("Ids enumerable", "yes")
	} else {
		line("Ids enumerable", s.warning.Render("no (reconcile runs degraded)"))
	}
}
