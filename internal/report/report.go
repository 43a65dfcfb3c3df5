// Package report is the external report printer spec.md calls out as a
// collaborator outside the engine's specification (§1): it consumes a
// finished rank.Report and renders the three tables T1, T2, T3 plus
// elapsed execution time. Nothing here feeds back into the aggregation
// engine or its invariants.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/LOOP115/social-media-analytics/internal/rank"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
	)
}

// Print renders T1, T2, and T3 to w in that order, followed by the
// elapsed time since start.
func Print(w io.Writer, r rank.Report, start time.Time) error {
	fmt.Fprintln(w, "\nTask 1: Authors with the most tweets made")
	if err := printT1(w, r.T1); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTask 2: Number of tweets made in each Greater Capital City")
	if err := printT2(w, r.T2); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTask 3: Authors who tweeted from the most distinct Greater Capital Cities")
	if err := printT3(w, r.T3); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nExecution Time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printT1(w io.Writer, rows []rank.AuthorCount) error {
	t := newTable(w)
	t.Header([]string{"Rank", "Author Id", "Number of Tweets Made"})
	for i, row := range rows {
		if err := t.Append([]string{"#" + strconv.Itoa(i+1), row.AuthorID, strconv.FormatInt(row.Count, 10)}); err != nil {
			return err
		}
	}
	return t.Render()
}

func printT2(w io.Writer, rows [8]rank.RegionCount) error {
	t := newTable(w)
	t.Header([]string{"Greater Capital City", "Number of Tweets Made"})
	for _, row := range rows {
		if err := t.Append([]string{row.Label, strconv.FormatInt(row.Count, 10)}); err != nil {
			return err
		}
	}
	return t.Render()
}

func printT3(w io.Writer, rows []rank.DiversityEntry) error {
	t := newTable(w)
	t.Header([]string{"Rank", "Author Id", "Number of Unique City Locations and #Tweets"})
	for i, row := range rows {
		if err := t.Append([]string{"#" + strconv.Itoa(i+1), row.AuthorID, formatDiversityCell(row)}); err != nil {
			return err
		}
	}
	return t.Render()
}

// formatDiversityCell builds the literal "{k}(#{total} tweets - #{c1}{tail1}, ...)"
// shape spec.md §6 defines for T3's third column, with regions listed in
// canonical gcc order and each gcc's leading state digit stripped (its
// "tail").
func formatDiversityCell(row rank.DiversityEntry) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(row.Regions)))
	b.WriteString("(#")
	b.WriteString(strconv.FormatInt(row.Total, 10))
	b.WriteString(" tweets - ")
	for i, region := range row.Regions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("#")
		b.WriteString(strconv.FormatInt(region.Count, 10))
		b.WriteString(gccTail(region.GCC))
	}
	b.WriteString(")")
	return b.String()
}

// gccTail strips the leading state digit off a gcc code, e.g. "2gmel" ->
// "gmel".
func gccTail(gcc string) string {
	if len(gcc) == 0 {
		return gcc
	}
	return gcc[1:]
}
