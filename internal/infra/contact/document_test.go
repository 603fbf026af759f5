package contact

import (
	"strings"
	"testing"

	"locuscore/pkg/domain"
)

const sampleDoc = `{
	"map_id": "hic_map_1",
	"default_strength": 0.05,
	"contacts": [
		{"a": "chr3:181708858-181709358", "b": "chr3:181820000-181821000", "strength": 0.9},
		{"a": "chr3:181708858-181709358", "b": "chr3:182000000-182001000", "strength": 0.4}
	]
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.MapID != "hic_map_1" || len(doc.Contacts) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	promoter := domain.Interval{Chromosome: "chr3", Start: 181708858, End: 181709358}
	enhancer := domain.Interval{Chromosome: "chr3", Start: 181820000, End: 181821000}
	if got := doc.Strength(promoter, enhancer); got != 0.9 {
		t.Fatalf("strength = %v, want 0.9", got)
	}
	// orientation does not matter
	if got := doc.Strength(enhancer, promoter); got != 0.9 {
		t.Fatalf("reversed strength = %v, want 0.9", got)
	}
	// unmatched pairs fall back to the default
	elsewhere := domain.Interval{Chromosome: "chr9", Start: 100, End: 200}
	if got := doc.Strength(promoter, elsewhere); got != 0.05 {
		t.Fatalf("fallback strength = %v, want 0.05", got)
	}
}

func TestDecodeDocumentRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "plainly not json"},
		{"bad location", `{"contacts": [{"a": "nope", "b": "chr1:5", "strength": 0.5}]}`},
		{"strength above one", `{"contacts": [{"a": "chr1:5", "b": "chr1:9", "strength": 1.5}]}`},
		{"negative default", `{"default_strength": -0.2}`},
	}
	for _, tc := range cases {
		if _, err := DecodeDocument(strings.NewReader(tc.body)); err == nil {
			t.Errorf("%s: expected decode error", tc.name)
		}
	}
}

func TestPairKeyOrientationIndependent(t *testing.T) {
	a := domain.Interval{Chromosome: "chr1", Start: 10, End: 20}
	b := domain.Interval{Chromosome: "chr2", Start: 30, End: 40}
	if pairKey(a, b, "m") != pairKey(b, a, "m") {
		t.Fatalf("pair key depends on orientation")
	}
	if pairKey(a, b, "m") == pairKey(a, b, "other") {
		t.Fatalf("pair key ignores map id")
	}
}
