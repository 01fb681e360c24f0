package prompt

import (
	"strings"
	"testing"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

func TestFormatTriplets(t *testing.T) {
	set := model.TripletSet{
		{Subject: "Paris", Predicate: "is the capital of", Object: "France"},
		{Subject: "France", Predicate: "is in", Object: "Europe"},
	}

	got := FormatTriplets(set)
	want := "(Paris | is the capital of | France)\n(France | is in | Europe)"
	if got != want {
		t.Errorf("FormatTriplets() = %q, want %q", got, want)
	}
}

func TestFormatIndexedTriplets(t *testing.T) {
	set := model.TripletSet{
		{Subject: "Paris", Predicate: "is the capital of", Object: "France"},
		{Subject: "France", Predicate: "is in", Object: "Europe"},
	}

	got := FormatIndexedTriplets(set)
	if !strings.Contains(got, "0. (Paris | is the capital of | France)") {
		t.Errorf("missing indexed first triplet in %q", got)
	}
	if !strings.Contains(got, "1. (France | is in | Europe)") {
		t.Errorf("missing indexed second triplet in %q", got)
	}
}

func TestFormatReferencePool(t *testing.T) {
	pool := []model.DocTriplet{
		{Triplet: model.Triplet{Subject: "a", Predicate: "b", Object: "c"}, Doc: 0},
		{Triplet: model.Triplet{Subject: "d", Predicate: "e", Object: "f"}, Doc: 2},
	}

	got := FormatReferencePool(pool)
	if !strings.Contains(got, "[doc 0] (a | b | c)") {
		t.Errorf("missing doc 0 line in %q", got)
	}
	if !strings.Contains(got, "[doc 2] (d | e | f)") {
		t.Errorf("missing doc 2 line in %q", got)
	}
}

func TestFormatDocuments(t *testing.T) {
	got := FormatDocuments([]string{"first doc", "second doc"})
	if !strings.Contains(got, "[doc 0]\nfirst doc") {
		t.Errorf("missing first document block in %q", got)
	}
	if !strings.Contains(got, "[doc 1]\nsecond doc") {
		t.Errorf("missing second document block in %q", got)
	}
}

func TestTripletGeneration_NoShots(t *testing.T) {
	p := TripletGeneration("The sky is blue.", nil)

	if !strings.Contains(p.User, "The sky is blue.") {
		t.Errorf("prompt does not contain subject text: %q", p.User)
	}
	if strings.Contains(p.User, "Example") {
		t.Errorf("zero-shot prompt should not contain worked examples: %q", p.User)
	}
	if strings.Contains(p.User, "{{text}}") {
		t.Error("placeholder left unsubstituted")
	}
}

func TestTripletGeneration_WithShots(t *testing.T) {
	shots := DefaultBank().TripletShots(2)
	p := TripletGeneration("The sky is blue.", shots)

	if !strings.Contains(p.User, "Example 1:") || !strings.Contains(p.User, "Example 2:") {
		t.Errorf("expected two worked examples in %q", p.User)
	}
	if !strings.Contains(p.User, "Now decompose the following text.") {
		t.Errorf("missing transition before subject text in %q", p.User)
	}
	if !strings.Contains(p.User, "Marie Curie") {
		t.Errorf("expected first exemplar text in %q", p.User)
	}
}

func TestFactCheck_Direct(t *testing.T) {
	input := model.TripletSet{
		{Subject: "The sky", Predicate: "is", Object: "green"},
	}
	refs := []model.DocTriplet{
		{Triplet: model.Triplet{Subject: "The sky", Predicate: "is", Object: "blue"}, Doc: 0},
	}

	p := FactCheck(input, refs, nil, false)

	if p.System != factCheckSystem {
		t.Error("direct mode should use the plain system instruction")
	}
	if !strings.Contains(p.User, "0. (The sky | is | green)") {
		t.Errorf("missing indexed input triplet in %q", p.User)
	}
	if !strings.Contains(p.User, "[doc 0] (The sky | is | blue)") {
		t.Errorf("missing reference line in %q", p.User)
	}
	if strings.Contains(p.User, "{{") {
		t.Error("placeholder left unsubstituted")
	}
}

func TestFactCheck_InquirySystem(t *testing.T) {
	input := model.TripletSet{{Subject: "a", Predicate: "b", Object: "c"}}

	p := FactCheck(input, nil, nil, true)

	if !strings.Contains(p.System, FinalAnswerMarker) {
		t.Errorf("inquiry system instruction must mention %s: %q", FinalAnswerMarker, p.System)
	}
}

func TestFactCheck_WithShots(t *testing.T) {
	input := model.TripletSet{{Subject: "a", Predicate: "b", Object: "c"}}
	shots := DefaultBank().FactCheckShots(1)

	p := FactCheck(input, nil, shots, false)

	if !strings.Contains(p.User, "Example 1:") {
		t.Errorf("missing worked example in %q", p.User)
	}
	if !strings.Contains(p.User, "0: false") {
		t.Errorf("missing exemplar verdict line in %q", p.User)
	}
}

func TestFactCheckSplit(t *testing.T) {
	triplet := model.Triplet{Subject: "The sky", Predicate: "is", Object: "green"}
	refs := []model.DocTriplet{
		{Triplet: model.Triplet{Subject: "The sky", Predicate: "is", Object: "blue"}, Doc: 1},
	}

	p := FactCheckSplit(triplet, refs, nil)

	if !strings.Contains(p.User, "(The sky | is | green)") {
		t.Errorf("missing answer triplet in %q", p.User)
	}
	if !strings.Contains(p.User, "[doc 1] (The sky | is | blue)") {
		t.Errorf("missing reference line in %q", p.User)
	}
	if !strings.Contains(p.System, "verdict: yes or verdict: no") {
		t.Errorf("split system instruction must name the verdict format: %q", p.System)
	}
}

func TestFactCheckSplit_ExpandsBatchedShots(t *testing.T) {
	triplet := model.Triplet{Subject: "a", Predicate: "b", Object: "c"}
	shots := []FactCheckShot{
		{
			Input: model.TripletSet{
				{Subject: "x", Predicate: "y", Object: "z"},
				{Subject: "p", Predicate: "q", Object: "r"},
			},
			References: model.TripletSet{{Subject: "x", Predicate: "y", Object: "z"}},
			Verdicts:   []bool{true, false},
		},
	}

	p := FactCheckSplit(triplet, nil, shots)

	if !strings.Contains(p.User, "Example 1:") || !strings.Contains(p.User, "Example 2:") {
		t.Errorf("batched shot should expand to one example per triplet: %q", p.User)
	}
	if !strings.Contains(p.User, "verdict: yes") || !strings.Contains(p.User, "verdict: no") {
		t.Errorf("expected both verdict values across examples: %q", p.User)
	}
}

func TestHallucinatedData(t *testing.T) {
	p := HallucinatedData("What color is the sky?", []string{"The sky is blue."})

	if !strings.Contains(p.User, "Question:\nWhat color is the sky?") {
		t.Errorf("missing question section in %q", p.User)
	}
	if !strings.Contains(p.User, "[doc 0]\nThe sky is blue.") {
		t.Errorf("missing document block in %q", p.User)
	}
	if !strings.Contains(p.System, "Faithful Answer:") ||
		!strings.Contains(p.System, "Hallucinated Answer:") ||
		!strings.Contains(p.System, "Hallucinated Details:") {
		t.Errorf("system instruction must name all three sections: %q", p.System)
	}
}

func TestHallucinatedData_NoQuestion(t *testing.T) {
	p := HallucinatedData("", []string{"doc"})

	if strings.Contains(p.User, "Question:") {
		t.Errorf("empty question should omit the question section: %q", p.User)
	}
	if strings.Contains(p.User, "{{") {
		t.Error("placeholder left unsubstituted")
	}
}
