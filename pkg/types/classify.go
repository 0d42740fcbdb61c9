// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Verdict is the topic-relevance judgement for one paper.
// Exactly three values are valid; any other integer is rejected.
type Verdict int

const (
	Irrelevant Verdict = -1
	Unsure     Verdict = 0
	Relevant   Verdict = 1
)

// Valid reports whether v is one of the three defined verdicts.
func (v Verdict) Valid() bool {
	return v == Irrelevant || v == Unsure || v == Relevant
}

func (v Verdict) String() string {
	switch v {
	case Irrelevant:
		return "irrelevant"
	case Unsure:
		return "unsure"
	case Relevant:
		return "relevant"
	}
	return "invalid"
}

// TopicQuery is the classification criterion for a run. It is set once
// before the run starts and never changes mid-run.
type TopicQuery struct {
	// Description is the operator-supplied topic description
	// (field/subfield keywords or a line of comment).
	Description string `json:"topic_desc" yaml:"topic_desc"`

	// Venue is the conference label (e.g. "cvpr").
	Venue string `json:"venue" yaml:"venue"`

	// Year is the conference year label (e.g. "2025").
	Year string `json:"year" yaml:"year"`
}

// ClassificationResult records the judge's reply for one paper.
// Verdict is nil when no verdict could be extracted from the reply;
// that is a distinct outcome from Unsure.
type ClassificationResult struct {
	PaperTitle    string   `json:"paper_title" yaml:"paper_title"`
	PaperAbstract string   `json:"paper_abstract" yaml:"paper_abstract"`
	Verdict       *Verdict `json:"verdict" yaml:"verdict"`
	RawAnalysis   string   `json:"raw_analysis" yaml:"raw_analysis"`
}

// Matched reports whether the result carries a verdict in the accepted set.
// A nil verdict never matches.
func (r ClassificationResult) Matched(accepted map[Verdict]bool) bool {
	return r.Verdict != nil && accepted[*r.Verdict]
}

// RunReport is the outcome of one classification run: the topic header
// followed by one result per input paper, in input order.
type RunReport struct {
	Topic   TopicQuery
	Results []ClassificationResult
}
