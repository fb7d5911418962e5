package pubmed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/ncbi"
)

func newTestClient(srv *httptest.Server) *Client {
	// API key raises the rate limit so tests don't throttle.
	return NewClient(ncbi.NewClient(
		ncbi.WithBaseURL(srv.URL),
		ncbi.WithAPIKey("test-key"),
	))
}

func TestSearch_ParsesIDList(t *testing.T) {
	var gotParams map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = make(map[string]string)
		for k, v := range r.URL.Query() {
			gotParams[k] = v[0]
		}
		w.Write([]byte(`{
			"esearchresult": {
				"count": "3",
				"retmax": "3",
				"idlist": ["12345", "67890", "11111"],
				"querytranslation": "cancer treatment[All Fields]"
			}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.Search(context.Background(), "cancer treatment", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Count != 3 {
		t.Errorf("expected count 3, got %d", result.Count)
	}
	expected := []string{"12345", "67890", "11111"}
	if len(result.IDs) != len(expected) {
		t.Fatalf("expected %d IDs, got %d", len(expected), len(result.IDs))
	}
	for i := range expected {
		if result.IDs[i] != expected[i] {
			t.Errorf("expected ID[%d]=%s, got %s", i, expected[i], result.IDs[i])
		}
	}

	if gotParams["db"] != "pubmed" {
		t.Errorf("expected db=pubmed, got %q", gotParams["db"])
	}
	if gotParams["term"] != "cancer treatment" {
		t.Errorf("expected term passed through, got %q", gotParams["term"])
	}
	if gotParams["retmax"] != "10" {
		t.Errorf("expected retmax=10, got %q", gotParams["retmax"])
	}
	if gotParams["retmode"] != "json" {
		t.Errorf("expected retmode=json, got %q", gotParams["retmode"])
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient(ncbi.NewClient())
	_, err := c.Search(context.Background(), "", 10)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearch_DefaultMaxResults(t *testing.T) {
	var retmax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		retmax = r.URL.Query().Get("retmax")
		w.Write([]byte(`{"esearchresult": {"count": "0", "idlist": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.Search(context.Background(), "asthma", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retmax != "10" {
		t.Errorf("expected default retmax=10, got %q", retmax)
	}
}

func TestSearch_EmptyResultSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"esearchresult": {"count": "0", "idlist": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	result, err := c.Search(context.Background(), "zzz-no-such-term", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 0 || len(result.IDs) != 0 {
		t.Errorf("expected empty result, got count=%d ids=%v", result.Count, result.IDs)
	}
}

func TestSearch_MalformedBody_IsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Search(context.Background(), "asthma", 10)
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	if !errors.Is(err, ncbi.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got: %v", err)
	}
}

func TestSearch_HTTPError_IsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Search(context.Background(), "asthma", 10)
	if !errors.Is(err, ncbi.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got: %v", err)
	}
}
