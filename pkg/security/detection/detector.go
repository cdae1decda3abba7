// Package detection scores untrusted text against an ordered set of XSS signatures.
package detection

import "fmt"

// Result is the outcome of scanning one input.
type Result struct {
	IsSuspicious bool     `json:"is_suspicious"`
	Score        int      `json:"score"`
	MatchedRules []string `json:"matched_rules"`
}

// PrimaryRule returns the first matched rule name, or "unknown" when nothing matched.
func (r Result) PrimaryRule() string {
	if len(r.MatchedRules) == 0 {
		return "unknown"
	}
	return r.MatchedRules[0]
}

// Detector is immutable after construction and safe for concurrent use.
type Detector struct {
	rules []compiledRule
}

// NewDetector compiles rules in order. Names must be unique and weights positive.
func NewDetector(rules []Rule) (*Detector, error) {
	compiled := make([]compiledRule, 0, len(rules))
	names := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, dup := names[r.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRuleName, r.Name)
		}
		cr, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		names[r.Name] = struct{}{}
		compiled = append(compiled, cr)
	}
	return &Detector{rules: compiled}, nil
}

// Detect evaluates every rule against text. Each rule contributes at most once,
// and matched names keep the rule registration order.
func (d *Detector) Detect(text string) Result {
	result := Result{MatchedRules: []string{}}
	if text == "" {
		return result
	}
	for _, rule := range d.rules {
		if !rule.expr.MatchString(text) {
			continue
		}
		result.MatchedRules = append(result.MatchedRules, rule.name)
		result.Score += rule.weight
	}
	result.IsSuspicious = result.Score > 0
	return result
}

// Rules returns the names of the loaded rules in evaluation order.
func (d *Detector) Rules() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.name
	}
	return names
}
