// Package rules evaluates eligibility, hidden questions, and required
// documents from the answers collected so far. Evaluation is pure given its
// input, so stages can re-run it after every answer.
package rules

import (
	"sort"

	"claimos/internal/domain"
)

// Input is the snapshot a rule set is evaluated against. Answers maps field
// names to their current values, merging structured answers and extracted
// data.
type Input struct {
	CoverageTypeIDs []string
	Answers         map[string]string
}

// Finding is the contribution of a single rule.
type Finding struct {
	Ineligible        bool
	NeedsInfo         bool
	Reason            string
	ValidationErrors  []domain.ValidationIssue
	HiddenQuestionIDs []string
	RequiredDocuments []string
}

// Rule is one declarative eligibility or requirement rule.
type Rule struct {
	key            string
	name           string
	coverageTypeID string // empty applies to every coverage type
	fn             func(Input) Finding
}

// NewRule creates a rule scoped to one coverage type; pass an empty
// coverageTypeID for a global rule.
func NewRule(key, name, coverageTypeID string, fn func(Input) Finding) Rule {
	return Rule{key: key, name: name, coverageTypeID: coverageTypeID, fn: fn}
}

// Key returns the rule's stable identifier.
func (r Rule) Key() string { return r.key }

// Output is the merged evaluation result.
type Output struct {
	EligibilityStatus domain.EligibilityStatus
	Reasons           []string
	ValidationErrors  []domain.ValidationIssue
	HiddenQuestionIDs []string
	RequiredDocuments []string
}

// Engine holds a registered rule set.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the given rules.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Register adds a rule to the engine.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
}

func (e *Engine) applies(r Rule, input Input) bool {
	if r.coverageTypeID == "" {
		return true
	}
	for _, id := range input.CoverageTypeIDs {
		if id == r.coverageTypeID {
			return true
		}
	}
	return false
}

// Evaluate runs every applicable rule and merges the findings. Any
// ineligible finding wins over needs_info, which wins over eligible.
func (e *Engine) Evaluate(input Input) Output {
	out := Output{EligibilityStatus: domain.EligibilityStatusEligible}
	ineligible, needsInfo := false, false
	hidden := map[string]struct{}{}
	docs := map[string]struct{}{}

	for _, r := range e.rules {
		if !e.applies(r, input) {
			continue
		}
		f := r.fn(input)
		if f.Ineligible {
			ineligible = true
			if f.Reason != "" {
				out.Reasons = append(out.Reasons, f.Reason)
			}
		} else if f.NeedsInfo {
			needsInfo = true
			if f.Reason != "" {
				out.Reasons = append(out.Reasons, f.Reason)
			}
		}
		out.ValidationErrors = append(out.ValidationErrors, f.ValidationErrors...)
		for _, q := range f.HiddenQuestionIDs {
			hidden[q] = struct{}{}
		}
		for _, d := range f.RequiredDocuments {
			docs[d] = struct{}{}
		}
	}

	switch {
	case ineligible:
		out.EligibilityStatus = domain.EligibilityStatusIneligible
	case needsInfo:
		out.EligibilityStatus = domain.EligibilityStatusNeedsInfo
	}

	out.HiddenQuestionIDs = sortedKeys(hidden)
	out.RequiredDocuments = sortedKeys(docs)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
