// Package pubmed implements the search and fetch clients for the PubMed
// database on top of the shared NCBI client.
package pubmed

// SearchResult represents the result of an ESearch query.
type SearchResult struct {
	Count            int      `json:"count"`
	IDs              []string `json:"ids"`
	QueryTranslation string   `json:"query_translation,omitempty"`
}

// Paper represents one fetched PubMed record with the fields the
// pipeline needs.
type Paper struct {
	PMID            string   `json:"pmid"`
	Title           string   `json:"title"`
	PublicationDate string   `json:"publication_date"`
	Authors         []Author `json:"authors"`
}

// Author represents a paper author. Affiliation is free text as supplied
// by PubMed and may be empty.
type Author struct {
	LastName    string `json:"last_name"`
	ForeName    string `json:"fore_name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// FullName returns "ForeName LastName", or just the last name when the
// fore name is missing.
func (a Author) FullName() string {
	if a.ForeName == "" {
		return a.LastName
	}
	return a.ForeName + " " + a.LastName
}

// FetchReport summarizes a batch fetch: how many records came back usable
// and which requested PMIDs were missing or malformed upstream.
type FetchReport struct {
	Requested  int      `json:"requested"`
	Fetched    int      `json:"fetched"`
	Skipped    int      `json:"skipped"`
	SkippedIDs []string `json:"skipped_ids,omitempty"`
}

// HasSkips reports whether any requested record was dropped.
func (r FetchReport) HasSkips() bool {
	return r.Skipped > 0
}
