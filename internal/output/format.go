// Package output renders classified results to the terminal and exports
// them to CSV.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/classify"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/pubmed"
)

// Config controls which terminal output mode is active. CSV export is
// separate and always happens.
type Config struct {
	JSON  bool // structured JSON on stdout
	Human bool // rich colorful table
}

// Summary is the JSON shape emitted with --json.
type Summary struct {
	Query   string             `json:"query"`
	Found   int                `json:"found"`
	Report  pubmed.FetchReport `json:"fetch_report"`
	Results []classify.Result  `json:"results"`
}

// FormatResults writes the run summary in the configured mode.
func FormatResults(w io.Writer, s Summary, cfg Config) error {
	if cfg.JSON {
		return writeJSON(w, s)
	}
	if cfg.Human {
		return formatResultsHuman(w, s)
	}
	return formatResultsPlain(w, s)
}

func formatResultsPlain(w io.Writer, s Summary) error {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "No company-affiliated papers found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d company-affiliated paper(s) for %q\n\n", len(s.Results), s.Query)

	for i, r := range s.Results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "PMID: %s\n", r.Paper.PMID)
		fmt.Fprintf(w, "Title: %s\n", r.Paper.Title)
		if r.Paper.PublicationDate != "" {
			fmt.Fprintf(w, "Date: %s\n", r.Paper.PublicationDate)
		}
		fmt.Fprintf(w, "Company authors: %s\n", strings.Join(r.MatchedAuthors, ", "))
		fmt.Fprintf(w, "Affiliations: %s\n", strings.Join(r.CompanyAffiliations, "; "))
		if r.CorrespondingEmail != "" {
			fmt.Fprintf(w, "Contact: %s\n", r.CorrespondingEmail)
		}
	}

	if s.Report.HasSkips() {
		fmt.Fprintf(w, "\nSkipped %d of %d record(s): %s\n",
			s.Report.Skipped, s.Report.Requested, strings.Join(s.Report.SkippedIDs, ", "))
	}

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
