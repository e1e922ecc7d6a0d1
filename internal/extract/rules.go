package extract

import (
	"regexp"
	"strings"
)

// Rule is one predicate+extractor pair: a compiled pattern whose first
// capture group is the candidate value, carrying the base confidence awarded
// when it fires.
type Rule struct {
	Name       string
	Pattern    *regexp.Regexp
	Confidence float64
	// Clean optionally normalizes the captured value before it is accepted.
	Clean func(string) string
}

// apply runs the rule against text and returns the cleaned candidate.
func (r *Rule) apply(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil || len(m) < 2 {
		return "", false
	}
	value := strings.TrimSpace(m[1])
	if r.Clean != nil {
		value = r.Clean(value)
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// countMatches reports how many distinct places in text the rule fires,
// used as the redundant-cue signal for scoring.
func (r *Rule) countMatches(text string) int {
	return len(r.Pattern.FindAllStringSubmatchIndex(text, -1))
}

// Chain is an ordered first-match-wins rule list. Rules are declared
// specific-first; evaluation stops at the first rule producing a non-empty
// candidate.
type Chain struct {
	Field string
	Rules []Rule
}

// Candidate is one extracted field value with its provenance.
type Candidate struct {
	Value string
	// Rule names the chain entry that produced the value.
	Rule string
	// Confidence is the producing rule's base confidence.
	Confidence float64
	// Cues counts independent occurrences agreeing on this value.
	Cues int
}

// Apply evaluates the chain against text.
func (c *Chain) Apply(text string) (Candidate, bool) {
	for i := range c.Rules {
		r := &c.Rules[i]
		value, ok := r.apply(text)
		if !ok {
			continue
		}
		cand := Candidate{Value: value, Rule: r.Name, Confidence: r.Confidence, Cues: 1}

		// A later rule agreeing on the same value is an independent cue.
		for j := i + 1; j < len(c.Rules); j++ {
			other, ok := c.Rules[j].apply(text)
			if ok && strings.EqualFold(other, value) {
				cand.Cues++
			}
		}
		return cand, true
	}
	return Candidate{}, false
}
