package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/ncbi"
)

// DefaultMaxResults bounds a search when the caller does not say otherwise.
const DefaultMaxResults = 10

// esearchResponse represents the raw JSON response from ESearch.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	RetMax           string   `json:"retmax"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
}

// Client wraps the NCBI base client with PubMed-specific operations.
type Client struct {
	*ncbi.Client

	// ChunkSize is the number of PMIDs requested per EFetch call.
	ChunkSize int
}

// NewClient creates a PubMed client from an NCBI base client.
func NewClient(base *ncbi.Client) *Client {
	return &Client{Client: base, ChunkSize: DefaultChunkSize}
}

// Search performs an ESearch query and returns the matching PMIDs in
// upstream order. maxResults <= 0 falls back to DefaultMaxResults.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(maxResults))

	body, err := c.Get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing search response: %v", ncbi.ErrUpstream, err)
	}

	count, _ := strconv.Atoi(resp.Result.Count)

	return &SearchResult{
		Count:            count,
		IDs:              resp.Result.IDList,
		QueryTranslation: resp.Result.QueryTranslation,
	}, nil
}
