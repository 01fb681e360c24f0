package prompt

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// FinalAnswerMarker separates free-form reasoning from the verdict listing
// in inquiry-mode fact-check responses. Everything before the marker is
// treated as rationale.
const FinalAnswerMarker = "[FINAL ANSWER]"

// Prompt is one completion request: a system instruction plus a user message
type Prompt struct {
	System string
	User   string
}

const tripletGenerationSystem = `You decompose text into factual triplets. Each triplet captures one atomic
factual statement as (subject | predicate | object).

Rules:
- Output one triplet per line, formatted exactly as (subject | predicate | object).
- Split compound sentences into multiple triplets.
- Keep subjects and objects as noun phrases and predicates as relation phrases.
- Do not add commentary, numbering, or explanations.`

const tripletGenerationUser = `Text:
{{text}}

Triplets:`

const factCheckSystem = `You judge whether answer triplets are supported by reference triplets. A
triplet is supported when at least one reference triplet entails it;
paraphrase and partial wording differences still count as support. A triplet
is unsupported when no reference states it or a reference contradicts it.

Rules:
- Output one judgment per answer triplet, formatted exactly as index: true or index: false.
- Judge every answer triplet, in order.
- Do not add commentary or explanations.`

const factCheckInquirySystem = `You judge whether answer triplets are supported by reference triplets. A
triplet is supported when at least one reference triplet entails it;
paraphrase and partial wording differences still count as support. A triplet
is unsupported when no reference states it or a reference contradicts it.

Think through each judgment step by step. When you are done reasoning, output
the line ` + FinalAnswerMarker + ` followed by one judgment per answer
triplet, formatted exactly as index: true or index: false.`

const factCheckUser = `Answer triplets:
{{input}}

Reference triplets:
{{references}}

Verdicts:`

const factCheckSplitSystem = `You judge whether one answer triplet is supported by a set of reference
triplets. The triplet is supported when at least one reference triplet
entails it; paraphrase and partial wording differences still count as
support.

Rules:
- Output a line formatted exactly as verdict: yes or verdict: no.
- If supported, add a line formatted as reference: (subject | predicate | object) citing the supporting reference triplet.
- Optionally add a line formatted as reason: with a one-sentence justification.`

const factCheckSplitUser = `Answer triplet:
{{triplet}}

Reference triplets:
{{references}}

Judgment:`

const hallucinatedDataSystem = `You build synthetic evaluation data for fact-checking systems. Given
reference documents and an optional guiding question, write two answers and
list the fabricated details.

Output exactly these three sections, in order:
Faithful Answer:
An answer fully grounded in the reference documents.
Hallucinated Answer:
The same answer with a few plausible but unsupported or contradicting details folded in.
Hallucinated Details:
One line per fabricated detail, formatted exactly as [doc N] (subject | predicate | object),
where N is the index of the reference document the detail riffs on.`

const hallucinatedDataUser = `{{question}}Reference documents:
{{documents}}

Sections:`

// TripletGeneration builds the prompt asking the model to decompose text
// into triplets. Worked examples, when provided, precede the subject text
// to stabilize output format and granularity.
func TripletGeneration(text string, shots []TripletShot) Prompt {
	var b strings.Builder
	for i, shot := range shots {
		fmt.Fprintf(&b, "Example %d:\nText:\n%s\nTriplets:\n%s\n\n",
			i+1, strings.TrimSpace(shot.Text), FormatTriplets(shot.Triplets))
	}
	if b.Len() > 0 {
		b.WriteString("Now decompose the following text.\n")
	}
	b.WriteString(strings.ReplaceAll(tripletGenerationUser, "{{text}}", strings.TrimSpace(text)))

	return Prompt{
		System: tripletGenerationSystem,
		User:   b.String(),
	}
}

// FactCheck builds the batched judgment prompt covering every input triplet
// in one pass. Inquiry mode swaps in the reasoning instruction and the final
// answer marker.
func FactCheck(input model.TripletSet, refs []model.DocTriplet, shots []FactCheckShot, inquiry bool) Prompt {
	var b strings.Builder
	for i, shot := range shots {
		fmt.Fprintf(&b, "Example %d:\nAnswer triplets:\n%s\nReference triplets:\n%s\nVerdicts:\n%s\n\n",
			i+1,
			FormatIndexedTriplets(shot.Input),
			FormatReferencePool(shot.referencePool()),
			shot.verdictLines())
	}
	if b.Len() > 0 {
		b.WriteString("Now judge the following.\n")
	}

	user := strings.ReplaceAll(factCheckUser, "{{input}}", FormatIndexedTriplets(input))
	user = strings.ReplaceAll(user, "{{references}}", FormatReferencePool(refs))
	b.WriteString(user)

	system := factCheckSystem
	if inquiry {
		system = factCheckInquirySystem
	}

	return Prompt{
		System: system,
		User:   b.String(),
	}
}

// FactCheckSplit builds the judgment prompt for a single input triplet
func FactCheckSplit(t model.Triplet, refs []model.DocTriplet, shots []FactCheckShot) Prompt {
	var b strings.Builder
	example := 0
	for _, shot := range shots {
		// Split exemplars judge one triplet each; expand batched shots
		for i, in := range shot.Input {
			if i >= len(shot.Verdicts) {
				break
			}
			example++
			verdict := "no"
			if shot.Verdicts[i] {
				verdict = "yes"
			}
			fmt.Fprintf(&b, "Example %d:\nAnswer triplet:\n%s\nReference triplets:\n%s\nJudgment:\nverdict: %s\n\n",
				example, in.String(), FormatReferencePool(shot.referencePool()), verdict)
		}
	}
	if b.Len() > 0 {
		b.WriteString("Now judge the following.\n")
	}

	user := strings.ReplaceAll(factCheckSplitUser, "{{triplet}}", t.String())
	user = strings.ReplaceAll(user, "{{references}}", FormatReferencePool(refs))
	b.WriteString(user)

	return Prompt{
		System: factCheckSplitSystem,
		User:   b.String(),
	}
}

// HallucinatedData builds the prompt asking the model for a faithful answer,
// a hallucinated answer, and the fabricated details with document provenance
func HallucinatedData(question string, docs []string) Prompt {
	questionSection := ""
	if strings.TrimSpace(question) != "" {
		questionSection = fmt.Sprintf("Question:\n%s\n\n", strings.TrimSpace(question))
	}

	user := strings.ReplaceAll(hallucinatedDataUser, "{{question}}", questionSection)
	user = strings.ReplaceAll(user, "{{documents}}", FormatDocuments(docs))

	return Prompt{
		System: hallucinatedDataSystem,
		User:   user,
	}
}
