package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/classify"
)

// ErrIO marks failures to create or write the output file. Callers match
// with errors.Is.
var ErrIO = errors.New("output I/O error")

// listSep joins multi-value CSV cells (author and affiliation lists).
const listSep = "; "

// Header is the fixed CSV column order.
var Header = []string{
	"PubmedID",
	"Title",
	"PublicationDate",
	"MatchedAuthors",
	"MatchedCompanyAffiliations",
	"CorrespondingAuthorEmail",
}

// WriteCSV writes one row per classified paper to path, truncating any
// existing file so repeated runs produce identical output. The header
// row is always written, even for zero results.
func WriteCSV(path string, results []classify.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("%w: writing header: %v", ErrIO, err)
	}

	for _, r := range results {
		row := []string{
			r.Paper.PMID,
			r.Paper.Title,
			r.Paper.PublicationDate,
			strings.Join(r.MatchedAuthors, listSep),
			strings.Join(r.CompanyAffiliations, listSep),
			r.CorrespondingEmail,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: writing row for PMID %s: %v", ErrIO, r.Paper.PMID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flushing %s: %v", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrIO, path, err)
	}
	return nil
}
