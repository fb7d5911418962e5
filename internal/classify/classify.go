// Package classify decides whether an author affiliation belongs to a
// pharmaceutical or biotech company rather than an academic or government
// institution, using a keyword heuristic.
//
// The heuristic is deliberately simple: an affiliation containing an
// academic indicator is never a company, even when a company suffix is
// also present, and an affiliation matching neither list is treated as
// non-company. Known mis-classifications (academic spin-offs,
// multi-affiliation authors) are accepted.
package classify

import (
	"regexp"
	"strings"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/pubmed"
)

// Keywords holds the two keyword sets driving classification. Values are
// matched case-insensitively as substrings of the affiliation text.
// Treat a Keywords value as immutable once built.
type Keywords struct {
	// Academic lists terms indicating an academic or government
	// institution. A hit here always wins.
	Academic []string `yaml:"academic" json:"academic"`
	// Company lists terms indicating a pharma/biotech company.
	Company []string `yaml:"company" json:"company"`
}

// DefaultKeywords returns the built-in keyword sets. Terms are chosen to
// be low-collision substrings; short corporate suffixes carry their
// trailing punctuation so "inc." does not fire inside ordinary words.
func DefaultKeywords() Keywords {
	return Keywords{
		Academic: []string{
			"university",
			"institute",
			"college",
			"hospital",
			"academy",
			"school of",
			"department of",
			"faculty of",
			"national laboratory",
			"ministry of",
			"medical center",
			"medical centre",
			"research council",
		},
		Company: []string{
			"pharma",
			"biotech",
			"therapeutics",
			"biosciences",
			"laboratories",
			"diagnostics",
			"inc.",
			"ltd.",
			"llc",
			"corp.",
			"gmbh",
		},
	}
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Match describes the classification of one affiliation string.
type Match struct {
	Company bool   // true when the affiliation looks corporate
	Term    string // the keyword that decided it, empty for no hit
}

// Classify applies the keyword heuristic to one affiliation string.
// Academic terms take precedence over company terms; an affiliation
// matching neither is non-company.
func (k Keywords) Classify(affiliation string) Match {
	if affiliation == "" {
		return Match{}
	}
	lower := strings.ToLower(affiliation)

	for _, term := range k.Academic {
		if strings.Contains(lower, strings.ToLower(term)) {
			return Match{Company: false, Term: term}
		}
	}
	for _, term := range k.Company {
		if strings.Contains(lower, strings.ToLower(term)) {
			return Match{Company: true, Term: term}
		}
	}
	return Match{}
}

// ExtractEmail returns the first email-shaped substring in the
// affiliation text, or "" when none is present.
func ExtractEmail(affiliation string) string {
	return emailRe.FindString(affiliation)
}

// Result is a fetched paper augmented with its company-matched authors.
type Result struct {
	Paper pubmed.Paper `json:"paper"`

	// MatchedAuthors names the authors whose affiliation classified as
	// company, in paper order.
	MatchedAuthors []string `json:"matched_authors,omitempty"`
	// CompanyAffiliations holds the distinct matching affiliation
	// strings, in first-seen order.
	CompanyAffiliations []string `json:"company_affiliations,omitempty"`
	// CorrespondingEmail is the first email found in any author
	// affiliation, matched or not.
	CorrespondingEmail string `json:"corresponding_email,omitempty"`
}

// HasCompanyAuthor reports whether the paper had at least one
// company-affiliated author, which is the condition for export.
func (r Result) HasCompanyAuthor() bool {
	return len(r.MatchedAuthors) > 0
}

// ClassifyPaper classifies every author of one paper.
func (k Keywords) ClassifyPaper(p pubmed.Paper) Result {
	r := Result{Paper: p}
	seen := make(map[string]bool)

	for _, au := range p.Authors {
		if r.CorrespondingEmail == "" {
			r.CorrespondingEmail = ExtractEmail(au.Affiliation)
		}

		m := k.Classify(au.Affiliation)
		if !m.Company {
			continue
		}
		r.MatchedAuthors = append(r.MatchedAuthors, au.FullName())
		if !seen[au.Affiliation] {
			seen[au.Affiliation] = true
			r.CompanyAffiliations = append(r.CompanyAffiliations, au.Affiliation)
		}
	}

	return r
}

// Filter classifies all papers and keeps only those with at least one
// company-affiliated author.
func (k Keywords) Filter(papers []pubmed.Paper) []Result {
	results := make([]Result, 0, len(papers))
	for _, p := range papers {
		r := k.ClassifyPaper(p)
		if r.HasCompanyAuthor() {
			results = append(results, r)
		}
	}
	return results
}
