package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// Record is one line of a JSONL dataset: an answer to validate, or a
// question to build a hallucination sample around, plus its reference
// documents.
type Record struct {
	ID         string   `json:"id,omitempty"`
	Question   string   `json:"question,omitempty"`
	Answer     string   `json:"answer,omitempty"`
	References []string `json:"references"`
}

// Validator is the slice of the validation pipeline batch jobs need
type Validator interface {
	Validate(ctx context.Context, answer string, references []string) (*model.ValidationResult, error)
	GenerateHallucinated(ctx context.Context, question string, references []string) (*model.HallucinatedTripletSet, error)
}

// Mode selects what a batch run does with each record
type Mode string

const (
	ModeValidate    Mode = "validate"
	ModeHallucinate Mode = "hallucinate"
)

// ValidateJob checks one record's answer against its references
type ValidateJob struct {
	Index     int
	Record    Record
	Validator Validator
}

// Execute runs the validation. A partial failure still carries the result.
func (j *ValidateJob) Execute(ctx context.Context) Result {
	br := &BatchResult{Index: j.Index, Record: j.Record}

	if strings.TrimSpace(j.Record.Answer) == "" {
		br.Error = fmt.Errorf("record %d: answer is required", j.Index+1)
		return br
	}

	br.Result, br.Error = j.Validator.Validate(ctx, j.Record.Answer, j.Record.References)
	return br
}

// HallucinateJob synthesizes a negative sample from one record
type HallucinateJob struct {
	Index     int
	Record    Record
	Validator Validator
}

// Execute runs the hallucination generation
func (j *HallucinateJob) Execute(ctx context.Context) Result {
	br := &BatchResult{Index: j.Index, Record: j.Record}
	br.Hallucinated, br.Error = j.Validator.GenerateHallucinated(ctx, j.Record.Question, j.Record.References)
	return br
}

// BatchResult is the outcome for one record. Partial validation failures
// leave both Result and Error set.
type BatchResult struct {
	Index        int
	Record       Record
	Result       *model.ValidationResult
	Hallucinated *model.HallucinatedTripletSet
	Error        error
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor runs dataset records through the pipeline concurrently
type BatchProcessor struct {
	validator   Validator
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(validator Validator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		validator:   validator,
		concurrency: concurrency,
	}
}

// ProcessRecords runs records through the pipeline. Results come back in
// record order regardless of completion order.
func (b *BatchProcessor) ProcessRecords(ctx context.Context, records []Record, mode Mode) []*BatchResult {
	if len(records) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, record := range records {
		switch mode {
		case ModeHallucinate:
			pool.Submit(&HallucinateJob{Index: i, Record: record, Validator: b.validator})
		default:
			pool.Submit(&ValidateJob{Index: i, Record: record, Validator: b.validator})
		}
	}

	results := pool.Wait()

	batchResults := make([]*BatchResult, 0, len(results))
	for _, result := range results {
		batchResults = append(batchResults, result.(*BatchResult))
	}
	sort.Slice(batchResults, func(i, j int) bool {
		return batchResults[i].Index < batchResults[j].Index
	})

	return batchResults
}

// ProcessFile reads a JSONL dataset and processes its records concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string, mode Mode) ([]*BatchResult, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return b.ProcessRecords(ctx, records, mode), nil
}

// ReadRecords reads a JSONL dataset file. Blank lines and # comments are
// skipped; anything else must be a JSON record.
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []Record

	scanner := bufio.NewScanner(file)
	// Records embed whole reference documents, so lines run long
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return records, nil
}
