package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// TripletShot is one worked triplet-generation example: input text and its
// expected decomposition
type TripletShot struct {
	Text     string           `yaml:"text"`
	Triplets model.TripletSet `yaml:"triplets"`
}

// FactCheckShot is one worked fact-check example: answer triplets, reference
// triplets, and the expected per-index verdicts
type FactCheckShot struct {
	Input      model.TripletSet `yaml:"input"`
	References model.TripletSet `yaml:"references"`
	Verdicts   []bool           `yaml:"verdicts"`
}

// referencePool tags exemplar references as document 0 so worked examples
// render in the same format as live reference pools
func (s FactCheckShot) referencePool() []model.DocTriplet {
	pool := make([]model.DocTriplet, len(s.References))
	for i, t := range s.References {
		pool[i] = model.DocTriplet{Triplet: t}
	}
	return pool
}

// verdictLines renders the expected verdicts in the wire format
func (s FactCheckShot) verdictLines() string {
	var b strings.Builder
	for i, v := range s.Verdicts {
		fmt.Fprintf(&b, "%d: %t\n", i, v)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Bank is a versioned, read-only exemplar set for n-shot prompting.
// Banks can be swapped via a YAML file without touching generator or
// checker logic.
type Bank struct {
	Version           int             `yaml:"version"`
	TripletGeneration []TripletShot   `yaml:"triplet_generation"`
	FactCheck         []FactCheckShot `yaml:"fact_check"`
}

// TripletShots returns the first n triplet-generation exemplars.
// n <= 0 returns none; n beyond the bank returns all of them.
func (b *Bank) TripletShots(n int) []TripletShot {
	if b == nil || n <= 0 {
		return nil
	}
	if n > len(b.TripletGeneration) {
		n = len(b.TripletGeneration)
	}
	return b.TripletGeneration[:n]
}

// FactCheckShots returns the first n fact-check exemplars
func (b *Bank) FactCheckShots(n int) []FactCheckShot {
	if b == nil || n <= 0 {
		return nil
	}
	if n > len(b.FactCheck) {
		n = len(b.FactCheck)
	}
	return b.FactCheck[:n]
}

// DefaultBank returns the built-in exemplar set
func DefaultBank() *Bank {
	return &Bank{
		Version: 1,
		TripletGeneration: []TripletShot{
			{
				Text: "Marie Curie won the Nobel Prize in Physics in 1903. She was born in Warsaw.",
				Triplets: model.TripletSet{
					{Subject: "Marie Curie", Predicate: "won", Object: "the Nobel Prize in Physics in 1903"},
					{Subject: "Marie Curie", Predicate: "was born in", Object: "Warsaw"},
				},
			},
			{
				Text: "The Amazon River flows through Brazil and is the largest river by discharge volume.",
				Triplets: model.TripletSet{
					{Subject: "The Amazon River", Predicate: "flows through", Object: "Brazil"},
					{Subject: "The Amazon River", Predicate: "is", Object: "the largest river by discharge volume"},
				},
			},
			{
				Text: "Photosynthesis converts sunlight into chemical energy in plants.",
				Triplets: model.TripletSet{
					{Subject: "Photosynthesis", Predicate: "converts", Object: "sunlight into chemical energy"},
					{Subject: "Photosynthesis", Predicate: "occurs in", Object: "plants"},
				},
			},
		},
		FactCheck: []FactCheckShot{
			{
				Input: model.TripletSet{
					{Subject: "The Eiffel Tower", Predicate: "is located in", Object: "Berlin"},
				},
				References: model.TripletSet{
					{Subject: "The Eiffel Tower", Predicate: "is located in", Object: "Paris"},
				},
				Verdicts: []bool{false},
			},
			{
				Input: model.TripletSet{
					{Subject: "Water", Predicate: "boils at", Object: "100 degrees Celsius"},
					{Subject: "Water", Predicate: "freezes at", Object: "50 degrees Celsius"},
				},
				References: model.TripletSet{
					{Subject: "Water", Predicate: "reaches its boiling point at", Object: "100 degrees Celsius at sea level"},
					{Subject: "Water", Predicate: "freezes at", Object: "0 degrees Celsius"},
				},
				Verdicts: []bool{true, false},
			},
		},
	}
}

// LoadBank reads an exemplar bank from a YAML file
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exemplar bank: %w", err)
	}

	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse exemplar bank: %w", err)
	}

	if bank.Version < 1 {
		return nil, fmt.Errorf("exemplar bank %s: missing or invalid version", path)
	}

	for i, shot := range bank.TripletGeneration {
		if strings.TrimSpace(shot.Text) == "" || len(shot.Triplets) == 0 {
			return nil, fmt.Errorf("exemplar bank %s: triplet_generation[%d] is incomplete", path, i)
		}
	}
	for i, shot := range bank.FactCheck {
		if len(shot.Input) == 0 || len(shot.Verdicts) != len(shot.Input) {
			return nil, fmt.Errorf("exemplar bank %s: fact_check[%d] verdicts must cover every input triplet", path, i)
		}
	}

	return &bank, nil
}
