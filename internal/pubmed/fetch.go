package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/ncbi"
)

// DefaultChunkSize is the number of PMIDs sent per EFetch request.
const DefaultChunkSize = 50

// XML structures for parsing PubMed EFetch responses.

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID          xmlPMID    `xml:"PMID"`
	DateCompleted xmlDate    `xml:"DateCompleted"`
	Article       xmlArticle `xml:"Article"`
}

type xmlPMID struct {
	Value string `xml:",chardata"`
}

type xmlDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

type xmlArticle struct {
	Journal      xmlJournal    `xml:"Journal"`
	ArticleTitle string        `xml:"ArticleTitle"`
	AuthorList   xmlAuthorList `xml:"AuthorList"`
}

type xmlJournal struct {
	JournalIssue xmlJournalIssue `xml:"JournalIssue"`
}

type xmlJournalIssue struct {
	PubDate xmlDate `xml:"PubDate"`
}

type xmlAuthorList struct {
	Authors []xmlAuthor `xml:"Author"`
}

type xmlAuthor struct {
	ValidYN         string               `xml:"ValidYN,attr"`
	LastName        string               `xml:"LastName"`
	ForeName        string               `xml:"ForeName"`
	AffiliationInfo []xmlAffiliationInfo `xml:"AffiliationInfo"`
}

type xmlAffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}

// Fetch retrieves record details for the given PMIDs, chunking the batch
// by c.ChunkSize. Records that come back without a PMID are skipped and
// counted in the report rather than failing the batch; PMIDs that were
// requested but absent from the response are reported the same way.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]Paper, FetchReport, error) {
	report := FetchReport{Requested: len(pmids)}
	if len(pmids) == 0 {
		return nil, report, fmt.Errorf("at least one PMID is required")
	}

	chunk := c.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	var papers []Paper
	for start := 0; start < len(pmids); start += chunk {
		end := start + chunk
		if end > len(pmids) {
			end = len(pmids)
		}

		batch, skipped, err := c.fetchChunk(ctx, pmids[start:end])
		if err != nil {
			return nil, report, err
		}
		papers = append(papers, batch...)
		report.SkippedIDs = append(report.SkippedIDs, skipped...)
	}

	// Requested PMIDs the server never echoed back count as skips too.
	seen := make(map[string]bool, len(papers))
	for _, p := range papers {
		seen[p.PMID] = true
	}
	for _, id := range pmids {
		if !seen[id] {
			found := false
			for _, s := range report.SkippedIDs {
				if s == id {
					found = true
					break
				}
			}
			if !found {
				report.SkippedIDs = append(report.SkippedIDs, id)
			}
		}
	}

	report.Fetched = len(papers)
	report.Skipped = len(report.SkippedIDs)
	return papers, report, nil
}

func (c *Client) fetchChunk(ctx context.Context, pmids []string) ([]Paper, []string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	body, err := c.Get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch request failed: %w", err)
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing fetch response: %v", ncbi.ErrUpstream, err)
	}

	var papers []Paper
	var skipped []string
	for _, pa := range set.Articles {
		p, ok := convertPaper(pa)
		if !ok {
			// Without a PMID the record cannot be attributed here; the
			// requested-but-missing pass in Fetch accounts for it.
			if pa.Citation.PMID.Value != "" {
				skipped = append(skipped, pa.Citation.PMID.Value)
			}
			continue
		}
		papers = append(papers, p)
	}
	return papers, skipped, nil
}

// convertPaper maps one raw article to a Paper. A record without a PMID
// or a title is unusable and reported as not ok.
func convertPaper(pa pubmedArticle) (Paper, bool) {
	mc := pa.Citation
	if mc.PMID.Value == "" || mc.Article.ArticleTitle == "" {
		return Paper{}, false
	}

	p := Paper{
		PMID:            mc.PMID.Value,
		Title:           mc.Article.ArticleTitle,
		PublicationDate: formatDate(mc.DateCompleted, mc.Article.Journal.JournalIssue.PubDate),
	}

	for _, au := range mc.Article.AuthorList.Authors {
		if au.ValidYN == "N" {
			continue
		}
		author := Author{
			LastName: au.LastName,
			ForeName: au.ForeName,
		}
		if len(au.AffiliationInfo) > 0 {
			author.Affiliation = au.AffiliationInfo[0].Affiliation
		}
		p.Authors = append(p.Authors, author)
	}

	return p, true
}

// formatDate renders the completion date as YYYY-MM-DD, dropping trailing
// parts that are absent. When the record has no completion date, the
// journal issue publication date is used instead.
func formatDate(completed, pubDate xmlDate) string {
	d := completed
	if d.Year == "" {
		d = pubDate
	}
	if d.Year == "" {
		return ""
	}

	s := d.Year
	if d.Month != "" {
		s += "-" + d.Month
		if d.Day != "" {
			s += "-" + d.Day
		}
	}
	return s
}
