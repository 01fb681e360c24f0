package hallucinate

import (
	"context"
	"strings"
	"testing"

	"github.com/ppiankov/tripletcheck/pkg/llm"
)

// scriptedProvider replays canned responses in call order
type scriptedProvider struct {
	responses []string
	err       error
	requests  []llm.Request
	calls     int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	i := s.calls
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if i < len(s.responses) {
		return &llm.Response{Text: s.responses[i], Model: "scripted-model"}, nil
	}
	return &llm.Response{Text: "", Model: "scripted-model"}, nil
}

func (s *scriptedProvider) IsAvailable(_ context.Context) bool { return true }

const wellFormedResponse = `Faithful Answer:
The Colosseum is in Rome and was completed in 80 AD.

Hallucinated Answer:
The Colosseum is in Rome, was completed in 80 AD, and could be flooded for naval battles every week.

Hallucinated Details:
[doc 0] (The Colosseum | hosted | weekly naval battles)
[doc 1] (The Colosseum | was flooded | every week)`

func TestGenerate(t *testing.T) {
	provider := &scriptedProvider{responses: []string{wellFormedResponse}}
	gen, err := NewGenerator(provider)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	refs := []string{
		"The Colosseum is an amphitheatre in Rome, completed in 80 AD.",
		"Roman amphitheatres hosted gladiatorial contests.",
	}

	set, err := gen.Generate(context.Background(), "Tell me about the Colosseum.", refs)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if set.ID == "" {
		t.Error("record should carry an ID")
	}
	if set.CreatedAt.IsZero() {
		t.Error("record should carry a creation time")
	}
	if !strings.Contains(set.FaithfulAnswer, "completed in 80 AD") {
		t.Errorf("FaithfulAnswer = %q", set.FaithfulAnswer)
	}
	if !strings.Contains(set.HallucinatedAnswer, "naval battles") {
		t.Errorf("HallucinatedAnswer = %q", set.HallucinatedAnswer)
	}

	if len(set.Triplets) != 2 {
		t.Fatalf("got %d triplets, want 2", len(set.Triplets))
	}
	for i, dt := range set.Triplets {
		if !dt.Valid() {
			t.Errorf("triplet %d is not well-formed: %v", i, dt.Triplet)
		}
		if dt.Doc < 0 || dt.Doc >= len(refs) {
			t.Errorf("triplet %d provenance %d outside corpus", i, dt.Doc)
		}
	}
	if set.Triplets[1].Doc != 1 {
		t.Errorf("second triplet Doc = %d, want 1", set.Triplets[1].Doc)
	}

	if provider.calls != 1 {
		t.Errorf("made %d calls, want 1", provider.calls)
	}
	if !strings.Contains(provider.requests[0].Prompt, "Question:\nTell me about the Colosseum.") {
		t.Error("prompt missing the guiding question")
	}
}

func TestGenerate_ClampsInvalidProvenance(t *testing.T) {
	response := `Faithful Answer:
ok

Hallucinated Answer:
ok but wrong

Hallucinated Details:
[doc 7] (a | b | c)
(d | e | f)`
	provider := &scriptedProvider{responses: []string{response}}
	gen, _ := NewGenerator(provider)

	set, err := gen.Generate(context.Background(), "", []string{"only one document"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(set.Triplets) != 2 {
		t.Fatalf("got %d triplets, want 2", len(set.Triplets))
	}
	for i, dt := range set.Triplets {
		if dt.Doc != 0 {
			t.Errorf("triplet %d Doc = %d, want 0 (clamped)", i, dt.Doc)
		}
	}
}

func TestGenerate_FallbackDecomposition(t *testing.T) {
	// Details section holds prose instead of triplet lines; the second call
	// decomposes it.
	response := `Faithful Answer:
ok

Hallucinated Answer:
The tower was painted gold in 1930.

Hallucinated Details:
The model invented the gold paint job.`
	provider := &scriptedProvider{responses: []string{
		response,
		"(The tower | was painted | gold in 1930)",
	}}
	gen, _ := NewGenerator(provider)

	set, err := gen.Generate(context.Background(), "", []string{"The tower is iron colored."})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if provider.calls != 2 {
		t.Fatalf("expected a fallback decomposition call, got %d calls", provider.calls)
	}
	if len(set.Triplets) != 1 {
		t.Fatalf("got %d triplets, want 1", len(set.Triplets))
	}
	if set.Triplets[0].Doc != 0 {
		t.Errorf("fallback triplet Doc = %d, want 0", set.Triplets[0].Doc)
	}
	if !strings.Contains(provider.requests[1].Prompt, "The model invented the gold paint job.") {
		t.Error("fallback should decompose the details prose")
	}
}

func TestGenerate_EmptyCorpus(t *testing.T) {
	gen, _ := NewGenerator(&scriptedProvider{})

	if _, err := gen.Generate(context.Background(), "q", nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if _, err := gen.Generate(context.Background(), "q", []string{"", "  "}); err == nil {
		t.Error("expected error for blank-only corpus")
	}
}

func TestGenerate_ServiceError(t *testing.T) {
	provider := &scriptedProvider{
		err: &llm.ServiceError{Provider: "scripted", Kind: llm.ErrKindAuth, Message: "bad key"},
	}
	gen, _ := NewGenerator(provider)

	_, err := gen.Generate(context.Background(), "", []string{"doc"})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
	if _, ok := llm.AsServiceError(err); !ok {
		t.Errorf("error should unwrap to *llm.ServiceError: %v", err)
	}
}

func TestSplitSections(t *testing.T) {
	faithful, hallucinated, details := splitSections(wellFormedResponse)

	if !strings.HasPrefix(faithful, "The Colosseum is in Rome") {
		t.Errorf("faithful = %q", faithful)
	}
	if !strings.Contains(hallucinated, "every week") {
		t.Errorf("hallucinated = %q", hallucinated)
	}
	if !strings.HasPrefix(details, "[doc 0]") {
		t.Errorf("details = %q", details)
	}
}

func TestSplitSections_MissingLabels(t *testing.T) {
	faithful, hallucinated, details := splitSections("no labels at all")
	if faithful != "" || hallucinated != "" || details != "" {
		t.Errorf("unlabelled text should yield empty sections: %q %q %q", faithful, hallucinated, details)
	}

	_, hallucinated, _ = splitSections("Hallucinated Answer:\njust this section")
	if hallucinated != "just this section" {
		t.Errorf("hallucinated = %q", hallucinated)
	}
}

func TestParseDocTag(t *testing.T) {
	tests := []struct {
		line     string
		wantDoc  int
		wantRest string
	}{
		{"[doc 2] (a | b | c)", 2, " (a | b | c)"},
		{"- [doc 0] (a | b | c)", 0, " (a | b | c)"},
		{"(a | b | c)", 0, "(a | b | c)"},
		{"[doc x] (a | b | c)", 0, " (a | b | c)"},
	}

	for _, tt := range tests {
		doc, rest := parseDocTag(tt.line)
		if doc != tt.wantDoc || rest != tt.wantRest {
			t.Errorf("parseDocTag(%q) = (%d, %q), want (%d, %q)", tt.line, doc, rest, tt.wantDoc, tt.wantRest)
		}
	}
}
