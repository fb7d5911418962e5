package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/classify"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/pubmed"
)

func sampleSummary() Summary {
	return Summary{
		Query: "cancer treatment",
		Found: 2,
		Report: pubmed.FetchReport{
			Requested: 2,
			Fetched:   2,
		},
		Results: []classify.Result{
			{
				Paper: pubmed.Paper{
					PMID:            "12345",
					Title:           "A novel mRNA vaccine candidate",
					PublicationDate: "2024-03-15",
				},
				MatchedAuthors:      []string{"Wei Chen"},
				CompanyAffiliations: []string{"Moderna Therapeutics, Cambridge MA"},
				CorrespondingEmail:  "wchen@moderna.example.com",
			},
		},
	}
}

func TestFormatResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := FormatResults(&buf, sampleSummary(), Config{JSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}
	if parsed["query"] != "cancer treatment" {
		t.Errorf("expected query in JSON, got %v", parsed["query"])
	}
	results, ok := parsed["results"].([]interface{})
	if !ok || len(results) != 1 {
		t.Errorf("expected 1 result in JSON, got %v", parsed["results"])
	}
}

func TestFormatResults_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := FormatResults(&buf, sampleSummary(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"12345", "A novel mRNA vaccine candidate", "Wei Chen", "Moderna Therapeutics", "wchen@moderna.example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatResults_PlainEmpty(t *testing.T) {
	var buf bytes.Buffer
	s := Summary{Query: "nothing"}
	if err := FormatResults(&buf, s, Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No company-affiliated papers") {
		t.Errorf("expected empty-result message, got %q", buf.String())
	}
}

func TestFormatResults_PlainReportsSkips(t *testing.T) {
	s := sampleSummary()
	s.Report.Skipped = 1
	s.Report.SkippedIDs = []string{"99999"}

	var buf bytes.Buffer
	if err := FormatResults(&buf, s, Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "99999") {
		t.Errorf("expected skipped PMID in output, got:\n%s", buf.String())
	}
}

func TestFormatResults_Human(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatResults(&buf, sampleSummary(), Config{Human: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "12345") {
		t.Error("expected human output to contain PMID")
	}
	if !strings.Contains(out, "Wei Chen") {
		t.Error("expected human output to contain author name")
	}
}
