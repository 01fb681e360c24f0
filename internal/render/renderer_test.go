package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

func sampleResult() *model.ValidationResult {
	verdict := model.NewVerdict(2)
	verdict.Judgments[0] = model.Judgment{
		Supported: true,
		Reference: &model.Triplet{Subject: "The sky", Predicate: "is", Object: "blue"},
	}
	verdict.Judgments[1] = model.Judgment{Err: "provider unavailable"}

	return &model.ValidationResult{
		ID:                "test-id",
		CreatedAt:         time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		GeneratorStrategy: "llm_n_shot",
		CheckerStrategy:   "llm_split",
		InputTriplets: model.TripletSet{
			{Subject: "The sky", Predicate: "is", Object: "blue"},
			{Subject: "The moon", Predicate: "is made of", Object: "cheese"},
		},
		ReferenceTriplets: []model.TripletSet{
			{{Subject: "The sky", Predicate: "is", Object: "blue"}},
		},
		Verdict: verdict,
		Score: model.Score{
			Index:      50,
			Confidence: "low",
			Signals: []model.Signal{
				{
					Type:        model.SignalSupportRatio,
					Severity:    model.SeverityWarning,
					Description: "1 of 2 answer triplets supported",
					Data: map[string]interface{}{
						"formula":         "supported_count / input_count * 100",
						"supported_count": 1,
					},
				},
			},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	if err := NewRenderer(true).RenderJSON(sampleResult(), path); err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded model.ValidationResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "test-id" || decoded.Score.Index != 50 {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
	if len(decoded.Verdict.Judgments) != 2 {
		t.Errorf("judgments lost in round trip: %+v", decoded.Verdict)
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := string(data)

	for _, want := range []string{
		"# Fact Check Report",
		"**Support index:** 50/100 (low confidence)",
		"**Provider:** openai/gpt-4o-mini",
		"triplets=llm_n_shot, check=llm_split",
		"(The sky \\| is \\| blue)",
		"unconfirmed: provider unavailable",
		"**support_ratio** (warning)",
		"formula: supported_count / input_count * 100",
		"Document 0: 1 triplets",
		"*Generated by tripletcheck*",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(false).RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by tripletcheck") {
		t.Error("footer should be omitted")
	}
}

func TestRenderMarkdown_EmptyExtraction(t *testing.T) {
	result := sampleResult()
	result.InputTriplets = nil
	result.Verdict = model.NewVerdict(0)

	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(result, path); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "no checkable triplets") {
		t.Error("empty extraction should be called out")
	}
}

func TestRenderHallucinatedMarkdown(t *testing.T) {
	set := &model.HallucinatedTripletSet{
		ID:                 "h-1",
		CreatedAt:          time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Question:           "Who built the Colosseum?",
		FaithfulAnswer:     "Construction began under Vespasian.",
		HallucinatedAnswer: "Construction began under Vespasian and finished in a single year.",
		Triplets: []model.DocTriplet{
			{Triplet: model.Triplet{Subject: "Construction", Predicate: "finished in", Object: "a single year"}, Doc: 0},
		},
	}

	path := filepath.Join(t.TempDir(), "sample.md")
	if err := NewRenderer(true).RenderHallucinatedMarkdown(set, path); err != nil {
		t.Fatalf("RenderHallucinatedMarkdown() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	report := string(data)

	for _, want := range []string{
		"# Hallucination Sample",
		"**Question:** Who built the Colosseum?",
		"## Faithful Answer",
		"## Hallucinated Answer",
		"## Fabricated Triplets",
		"| 0 | (Construction \\| finished in \\| a single year) |",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("sample missing %q:\n%s", want, report)
		}
	}
}

func TestSummary(t *testing.T) {
	var b strings.Builder
	NewRenderer(true).Summary(&b, sampleResult())
	out := b.String()

	for _, want := range []string{
		"✓ Extracted 2 answer triplets",
		"✓ Decomposed 1 reference documents (1 triplets)",
		"[0] ✓ (The sky | is | blue)",
		"[1] ✗ (The moon | is made of | cheese)",
		"✗ 1 judgments could not be confirmed (indices [1])",
		"✓ Support index: 50/100 (low confidence)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
