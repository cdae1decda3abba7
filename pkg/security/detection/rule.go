package detection

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrEmptyRuleName     = errors.New("rule name cannot be empty")
	ErrDuplicateRuleName = errors.New("duplicate rule name")
	ErrInvalidWeight     = errors.New("rule weight must be greater than zero")
	ErrInvalidPattern    = errors.New("invalid rule pattern")
)

// Rule is a named signature and the risk weight it contributes when it matches.
type Rule struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	Pattern string `mapstructure:"pattern" json:"pattern" yaml:"pattern"`
	Weight  int    `mapstructure:"weight" json:"weight" yaml:"weight"`
}

const (
	RuleScriptTag    = "script_tag"
	RuleEventHandler = "event_handler"
	RuleURIScheme    = "uri_scheme"
	RuleIframe       = "iframe"
	RuleObject       = "object"
	RuleEmbed        = "embed"
)

var defaultRules = []Rule{
	{Name: RuleScriptTag, Pattern: `<script.*?>.*?</script>`, Weight: 10},
	{Name: RuleEventHandler, Pattern: `on\w+\s*=`, Weight: 8},
	{Name: RuleURIScheme, Pattern: `(javascript|vbscript|data):`, Weight: 9},
	{Name: RuleIframe, Pattern: `<iframe.*?>`, Weight: 7},
	{Name: RuleObject, Pattern: `<object.*?>`, Weight: 7},
	{Name: RuleEmbed, Pattern: `<embed.*?>`, Weight: 7},
}

// DefaultRules returns a copy of the built-in rule set in evaluation order.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// MergeRules appends extra to base, skipping any rule whose name is in disabled.
// A rule in extra that shares a name with a base rule replaces it in place.
func MergeRules(base, extra []Rule, disabled []string) []Rule {
	skip := make(map[string]struct{}, len(disabled))
	for _, name := range disabled {
		skip[name] = struct{}{}
	}

	overrides := make(map[string]Rule, len(extra))
	for _, r := range extra {
		overrides[r.Name] = r
	}

	merged := make([]Rule, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base))
	for _, r := range base {
		if o, ok := overrides[r.Name]; ok {
			r = o
		}
		seen[r.Name] = struct{}{}
		if _, ok := skip[r.Name]; ok {
			continue
		}
		merged = append(merged, r)
	}
	for _, r := range extra {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		if _, ok := skip[r.Name]; ok {
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

type compiledRule struct {
	name   string
	weight int
	expr   *regexp.Regexp
}

func compileRule(r Rule) (compiledRule, error) {
	if r.Name == "" {
		return compiledRule{}, ErrEmptyRuleName
	}
	if r.Weight <= 0 {
		return compiledRule{}, fmt.Errorf("%w: %s has weight %d", ErrInvalidWeight, r.Name, r.Weight)
	}
	// matching is always case-insensitive and lets . span newlines
	expr, err := regexp.Compile("(?is)" + r.Pattern)
	if err != nil {
		return compiledRule{}, fmt.Errorf("%w: compiling %q: %w", ErrInvalidPattern, r.Name, err)
	}
	return compiledRule{name: r.Name, weight: r.Weight, expr: expr}, nil
}
