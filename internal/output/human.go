package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	cyan      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold      = lipgloss.NewStyle().Bold(true)
	dim       = lipgloss.NewStyle().Faint(true)
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
)

// truncate cuts a string to maxLen characters, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func formatResultsHuman(w io.Writer, s Summary) error {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "🔬 No company-affiliated papers found.")
		return nil
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("🔬 %d company-affiliated paper(s) for %q", len(s.Results), s.Query)))
	fmt.Fprintln(w)

	var rows [][]string
	for _, r := range s.Results {
		rows = append(rows, []string{
			cyan.Render(r.Paper.PMID),
			bold.Render(truncate(r.Paper.Title, 45)),
			r.Paper.PublicationDate,
			truncate(strings.Join(r.MatchedAuthors, ", "), 30),
			truncate(strings.Join(r.CompanyAffiliations, "; "), 40),
		})
	}

	t := table.New().
		Headers("PMID", "Title", "Date", "Company Authors", "Affiliations").
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())

	if s.Report.HasSkips() {
		fmt.Fprintln(w, dim.Render(fmt.Sprintf("⚠ skipped %d record(s): %s",
			s.Report.Skipped, strings.Join(s.Report.SkippedIDs, ", "))))
	}

	return nil
}
