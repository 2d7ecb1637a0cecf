// Package security holds the destructive-command blacklist.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/alex-go/internal/ports"
)

// Rule is one blacklist signature.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason"`
}

// RulesFile is the YAML schema of the user rules file.
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

type compiledRule struct {
	re   *regexp.Regexp
	rule Rule
}

// Blacklist implements ports.RiskClassifier. Rules are tried in order and
// the first match wins.
type Blacklist struct {
	rules []compiledRule
}

// BuiltinRules returns the destructive-operation signatures in match order.
func BuiltinRules() []Rule {
	return []Rule{
		{Pattern: `\brm\s+-rf\b`, Reason: "rm -rf is destructive"},
		{Pattern: `\bmkfs(\.|$)`, Reason: "mkfs formats filesystems"},
		{Pattern: `\bdd\b.*\bif=`, Reason: "dd can overwrite disks"},
		{Pattern: `:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`, Reason: "fork bomb"},
		{Pattern: `\bshutdown\b|\breboot\b|\bpoweroff\b`, Reason: "system power control"},
		{Pattern: `\b(chmod|chown)\b\s+-R\s+/\b`, Reason: "recursive permission change on /"},
		{Pattern: `(?:^|\s)>(?:>?)\s*/etc/`, Reason: "redirect into /etc"},
		{Pattern: `\btee\b.*\s/etc/`, Reason: "writing into /etc"},
		{Pattern: `\bcurl\b.*\|\s*(bash|sh)\b`, Reason: "pipe to shell"},
		{Pattern: `\bwget\b.*\|\s*(bash|sh)\b`, Reason: "pipe to shell"},
	}
}

// NewBlacklist compiles the built-in rules followed by extra. Matching is
// case-insensitive.
func NewBlacklist(extra ...Rule) (*Blacklist, error) {
	all := append(BuiltinRules(), extra...)
	compiled := make([]compiledRule, 0, len(all))
	for _, r := range all {
		if r.Pattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile blacklist pattern %q: %w", r.Pattern, err)
		}
		if r.Reason == "" {
			r.Reason = "matches user blacklist rule " + r.Pattern
		}
		compiled = append(compiled, compiledRule{re: re, rule: r})
	}
	return &Blacklist{rules: compiled}, nil
}

// LoadBlacklist builds the classifier from the built-ins plus the rules in
// path. A missing file is not an error.
func LoadBlacklist(path string) (*Blacklist, error) {
	extra, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	return NewBlacklist(extra...)
}

// LoadRules reads user rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blacklist rules: %w", err)
	}
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse blacklist rules %s: %w", path, err)
	}
	return file.Rules, nil
}

// Classify implements ports.RiskClassifier.
func (b *Blacklist) Classify(command string) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, r := range b.rules {
		if r.re.MatchString(command) {
			return r.rule.Reason, true
		}
	}
	return "", false
}

// Rules returns the active rules in match order.
func (b *Blacklist) Rules() []Rule {
	out := make([]Rule, 0, len(b.rules))
	for _, r := range b.rules {
		out = append(out, r.rule)
	}
	return out
}

var _ ports.RiskClassifier = (*Blacklist)(nil)
