package recommend

import (
	"reflect"
	"testing"
)

const validReply = `{
  "schemes": [
    {"id": "pm-kisan", "name": "PM-Kisan", "department": "Agriculture",
     "description": "Income support", "eligibilityCriteria": ["Small farmer"],
     "benefits": "6000 per year", "applicationProcess": "Apply at CSC"},
    {"id": "ayushman", "name": "Ayushman Bharat",
     "description": "Health cover", "benefits": "5 lakh cover",
     "applicationProcess": "Visit hospital", "link": "https://pmjay.gov.in"}
  ],
  "summary": "Two schemes match."
}`

func TestParseResult(t *testing.T) {
	res, err := ParseResult(validReply, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Schemes) != 2 {
		t.Fatalf("got %d schemes, want 2", len(res.Schemes))
	}
	if res.Schemes[0].ID != "pm-kisan" || res.Schemes[1].ID != "ayushman" {
		t.Fatalf("order not preserved: %+v", res.Schemes)
	}
	if res.Summary != "Two schemes match." {
		t.Fatalf("summary = %q", res.Summary)
	}
	if res.Schemes[1].EligibilityCriteria == nil || len(res.Schemes[1].EligibilityCriteria) != 0 {
		t.Fatalf("missing criteria should be an empty list, got %#v", res.Schemes[1].EligibilityCriteria)
	}
	if res.Schemes[1].Link != "https://pmjay.gov.in" {
		t.Fatalf("link = %q", res.Schemes[1].Link)
	}
}

func TestParseResultEmptySchemes(t *testing.T) {
	res, err := ParseResult(`{"schemes": [], "summary": "Nothing matched."}`, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Schemes == nil || len(res.Schemes) != 0 {
		t.Fatalf("schemes = %#v, want empty non-nil", res.Schemes)
	}
}

func TestParseResultRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `I could not find anything`},
		{"missing summary", `{"schemes": []}`},
		{"missing schemes", `{"summary": "x"}`},
		{"schemes not array", `{"schemes": "none", "summary": "x"}`},
		{"missing required field", `{"schemes": [{"id": "a", "name": "A", "description": "d", "benefits": "b"}], "summary": "x"}`},
		{"blank required field", `{"schemes": [{"id": "a", "name": "  ", "description": "d", "benefits": "b", "applicationProcess": "p"}], "summary": "x"}`},
		{"blank summary", `{"schemes": [], "summary": "   "}`},
		{"wrong criteria type", `{"schemes": [{"id": "a", "name": "A", "description": "d", "eligibilityCriteria": "all", "benefits": "b", "applicationProcess": "p"}], "summary": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseResult(tt.raw, 5); err == nil {
				t.Fatalf("expected error for %s", tt.raw)
			}
		})
	}
}

func TestParseResultCodeFence(t *testing.T) {
	raw := "```json\n{\"schemes\": [], \"summary\": \"fenced\"}\n```"
	res, err := ParseResult(raw, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary != "fenced" {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestParseResultRepairsTrailingComma(t *testing.T) {
	raw := `{"schemes": [], "summary": "repaired",}`
	res, err := ParseResult(raw, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary != "repaired" {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestParseResultDuplicateIDsLastWins(t *testing.T) {
	raw := `{"schemes": [
	  {"id": "a", "name": "First A", "description": "d", "benefits": "b", "applicationProcess": "p"},
	  {"id": "b", "name": "B", "description": "d", "benefits": "b", "applicationProcess": "p"},
	  {"id": "a", "name": "Second A", "description": "d", "benefits": "b", "applicationProcess": "p"},
	  {"id": "c", "name": "C", "description": "d", "benefits": "b", "applicationProcess": "p"}
	], "summary": "x"}`
	res, err := ParseResult(raw, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids, names []string
	for _, s := range res.Schemes {
		ids = append(ids, s.ID)
		names = append(names, s.Name)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	if names[1] != "Second A" {
		t.Fatalf("kept %q, want the later entry", names[1])
	}
}

func TestParseResultTruncates(t *testing.T) {
	raw := `{"schemes": [
	  {"id": "1", "name": "n", "description": "d", "benefits": "b", "applicationProcess": "p"},
	  {"id": "2", "name": "n", "description": "d", "benefits": "b", "applicationProcess": "p"},
	  {"id": "3", "name": "n", "description": "d", "benefits": "b", "applicationProcess": "p"}
	], "summary": "x"}`
	res, err := ParseResult(raw, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Schemes) != 2 || res.Schemes[0].ID != "1" || res.Schemes[1].ID != "2" {
		t.Fatalf("got %+v, want first two", res.Schemes)
	}
}

func TestParseResultTrimsCriteria(t *testing.T) {
	raw := `{"schemes": [
	  {"id": " a ", "name": "A", "description": "d", "eligibilityCriteria": [" farmer ", "", "  "],
	   "benefits": "b", "applicationProcess": "p"}
	], "summary": " ok "}`
	res, err := ParseResult(raw, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.Schemes[0]
	if s.ID != "a" || res.Summary != "ok" {
		t.Fatalf("fields not trimmed: id=%q summary=%q", s.ID, res.Summary)
	}
	if !reflect.DeepEqual(s.EligibilityCriteria, []string{"farmer"}) {
		t.Fatalf("criteria = %#v", s.EligibilityCriteria)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```  ", `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
