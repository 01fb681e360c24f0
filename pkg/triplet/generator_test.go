package triplet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/tripletcheck/pkg/llm"
)

// mockProvider returns a scripted response and records the last request
type mockProvider struct {
	response string
	err      error
	lastReq  llm.Request
	calls    int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Text: m.response, Model: "mock-model"}, nil
}

func (m *mockProvider) IsAvailable(_ context.Context) bool { return true }

func TestNewGenerator_InvalidStrategy(t *testing.T) {
	_, err := NewGenerator(&mockProvider{}, Strategy("llm_telepathy"))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !strings.Contains(err.Error(), "llm_telepathy") {
		t.Errorf("error should name the rejected strategy: %v", err)
	}
}

func TestNewGenerator_NilProvider(t *testing.T) {
	if _, err := NewGenerator(nil, StrategyLLM); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"llm", StrategyLLM, false},
		{"llm_n_shot", StrategyLLMNShot, false},
		{"LLM", StrategyLLM, false},
		{"  llm_n_shot  ", StrategyLLMNShot, false},
		{"few_shot", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStrategy(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	provider := &mockProvider{
		response: "(Paris | is the capital of | France)\n(France | is in | Europe)",
	}
	gen, err := NewGenerator(provider, StrategyLLM)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	set, err := gen.Generate(context.Background(), "Paris is the capital of France, which is in Europe.")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("got %d triplets, want 2", len(set))
	}
	if set[0].Subject != "Paris" || set[1].Object != "Europe" {
		t.Errorf("unexpected triplets: %v", set)
	}
	if !strings.Contains(provider.lastReq.Prompt, "Paris is the capital of France") {
		t.Error("prompt does not contain the input text")
	}
}

func TestGenerate_MalformedRowsDropped(t *testing.T) {
	provider := &mockProvider{
		response: "(a | b | c)\ngarbage line\n(d | e | f)",
	}
	gen, _ := NewGenerator(provider, StrategyLLM)

	set, err := gen.Generate(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set) != 2 {
		t.Errorf("got %d triplets, want 2 (malformed row dropped)", len(set))
	}
}

func TestGenerate_EmptyText(t *testing.T) {
	provider := &mockProvider{response: "(a | b | c)"}
	gen, _ := NewGenerator(provider, StrategyLLM)

	set, err := gen.Generate(context.Background(), "   \n\t  ")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set) != 0 {
		t.Errorf("blank input should yield an empty set, got %v", set)
	}
	if provider.calls != 0 {
		t.Errorf("blank input should not call the provider, got %d calls", provider.calls)
	}
}

func TestGenerate_ServiceError(t *testing.T) {
	provider := &mockProvider{
		err: &llm.ServiceError{Provider: "mock", Kind: llm.ErrKindRateLimit, Message: "slow down"},
	}
	gen, _ := NewGenerator(provider, StrategyLLM)

	_, err := gen.Generate(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}

	var svcErr *llm.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error should unwrap to *llm.ServiceError: %v", err)
	}
	if svcErr.Kind != llm.ErrKindRateLimit {
		t.Errorf("Kind = %q, want %q", svcErr.Kind, llm.ErrKindRateLimit)
	}
}

func TestGenerate_NShotIncludesExamples(t *testing.T) {
	provider := &mockProvider{response: "(a | b | c)"}
	gen, err := NewGenerator(provider, StrategyLLMNShot)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	if _, err := gen.Generate(context.Background(), "some text"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(provider.lastReq.Prompt, "Example 1:") {
		t.Error("n-shot prompt should contain worked examples")
	}
}

func TestGenerate_ZeroShotOmitsExamples(t *testing.T) {
	provider := &mockProvider{response: "(a | b | c)"}
	gen, _ := NewGenerator(provider, StrategyLLM)

	if _, err := gen.Generate(context.Background(), "some text"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(provider.lastReq.Prompt, "Example") {
		t.Error("zero-shot prompt should not contain worked examples")
	}
}
