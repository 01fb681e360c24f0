package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// mockValidator implements Validator
type mockValidator struct {
	validateErr error
	hallucErr   error
}

func (m *mockValidator) Validate(_ context.Context, answer string, refs []string) (*model.ValidationResult, error) {
	// Simulate uneven work so completion order differs from record order
	if strings.Contains(answer, "slow") {
		time.Sleep(30 * time.Millisecond)
	} else {
		time.Sleep(5 * time.Millisecond)
	}
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return &model.ValidationResult{
		ID:                answer,
		InputTriplets:     model.TripletSet{{Subject: "a", Predicate: "b", Object: "c"}},
		ReferenceTriplets: make([]model.TripletSet, len(refs)),
		Verdict:           model.NewVerdict(1),
	}, nil
}

func (m *mockValidator) GenerateHallucinated(_ context.Context, question string, _ []string) (*model.HallucinatedTripletSet, error) {
	if m.hallucErr != nil {
		return nil, m.hallucErr
	}
	return &model.HallucinatedTripletSet{ID: "h", Question: question}, nil
}

func TestBatchProcessor_ProcessRecords(t *testing.T) {
	processor := NewBatchProcessor(&mockValidator{}, 2)

	records := []Record{
		{ID: "r1", Answer: "slow answer", References: []string{"doc"}},
		{ID: "r2", Answer: "fast answer", References: []string{"doc"}},
		{ID: "r3", Answer: "another fast answer", References: []string{"doc"}},
	}

	results := processor.ProcessRecords(context.Background(), records, ModeValidate)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// The slow first record finishes last but must come back first
	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d; output should be in record order", i, res.Index)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Record.ID, res.Error)
		}
		if res.Result == nil {
			t.Errorf("expected a result for %s", res.Record.ID)
		}
	}
	if results[0].Record.ID != "r1" {
		t.Errorf("first result is %s, want r1", results[0].Record.ID)
	}
}

func TestBatchProcessor_ValidateError(t *testing.T) {
	wantErr := errors.New("provider down")
	processor := NewBatchProcessor(&mockValidator{validateErr: wantErr}, 2)

	results := processor.ProcessRecords(context.Background(),
		[]Record{{Answer: "an answer", References: []string{"doc"}}}, ModeValidate)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !errors.Is(results[0].Error, wantErr) {
		t.Errorf("error = %v, want %v", results[0].Error, wantErr)
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_MissingAnswer(t *testing.T) {
	processor := NewBatchProcessor(&mockValidator{}, 2)

	results := processor.ProcessRecords(context.Background(),
		[]Record{{ID: "r1", References: []string{"doc"}}}, ModeValidate)

	if results[0].Error == nil {
		t.Fatal("expected an error for a record without an answer")
	}
	if !strings.Contains(results[0].Error.Error(), "answer is required") {
		t.Errorf("error = %v", results[0].Error)
	}
}

func TestBatchProcessor_HallucinateMode(t *testing.T) {
	processor := NewBatchProcessor(&mockValidator{}, 2)

	results := processor.ProcessRecords(context.Background(),
		[]Record{{Question: "Who built it?", References: []string{"doc"}}}, ModeHallucinate)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Hallucinated == nil {
		t.Fatal("expected a hallucination sample")
	}
	if results[0].Hallucinated.Question != "Who built it?" {
		t.Errorf("question = %q", results[0].Hallucinated.Question)
	}
	if results[0].Result != nil {
		t.Error("hallucinate mode should not produce validation results")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockValidator{}, 2)

	results := processor.ProcessRecords(context.Background(), nil, ModeValidate)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadRecords(t *testing.T) {
	content := `{"id": "r1", "answer": "The sky is green.", "references": ["The sky is blue."]}
# comment line

{"id": "r2", "question": "Who?", "answer": "Someone.", "references": ["doc one", "doc two"]}
`
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "r1" || records[0].Answer != "The sky is green." {
		t.Errorf("record 0 = %+v", records[0])
	}
	if len(records[1].References) != 2 {
		t.Errorf("record 1 references = %v", records[1].References)
	}
}

func TestReadRecords_MalformedLine(t *testing.T) {
	content := `{"id": "r1", "answer": "ok", "references": []}
{broken json`
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadRecords(path)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the file line: %v", err)
	}
}

func TestReadRecords_LongLine(t *testing.T) {
	// Inline reference documents can push a record past bufio's default
	// 64KB token limit
	doc := strings.Repeat("The sky is blue. ", 8000)
	content := `{"answer": "ok", "references": ["` + doc + `"]}`

	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed on a long line: %v", err)
	}
	if len(records) != 1 || len(records[0].References[0]) < 100000 {
		t.Errorf("long reference document not preserved")
	}
}

func TestReadRecords_NonExistent(t *testing.T) {
	_, err := ReadRecords("no_such_file.jsonl")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := `{"answer": "one", "references": ["doc"]}
{"answer": "two", "references": ["doc"]}
`
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&mockValidator{}, 2)
	results, err := processor.ProcessFile(context.Background(), path, ModeValidate)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockValidator{}, 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.jsonl", ModeValidate)
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
