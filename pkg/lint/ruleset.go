package lint

import (
	"fmt"
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
)

// Ruleset is an ordered, named collection of rules. It is immutable once
// built and safe for concurrent use.
type Ruleset struct {
	name  string
	rules []Rule
	byID  map[string]Rule
}

// NewRuleset builds a ruleset. Rule order is preserved. Duplicate or empty
// rule IDs are programming errors and panic.
func NewRuleset(name string, rules ...Rule) *Ruleset {
	rs := &Ruleset{
		name:  name,
		rules: make([]Rule, 0, len(rules)),
		byID:  make(map[string]Rule, len(rules)),
	}
	for _, rule := range rules {
		id := rule.ID()
		if id == "" {
			panic(fmt.Sprintf("lint: ruleset %q: rule with empty id", name))
		}
		if _, dup := rs.byID[id]; dup {
			panic(fmt.Sprintf("lint: ruleset %q: duplicate rule id %q", name, id))
		}
		rs.byID[id] = rule
		rs.rules = append(rs.rules, rule)
	}
	return rs
}

// Name returns the ruleset name.
func (rs *Ruleset) Name() string {
	return rs.name
}

// Rules returns the rules in registration order.
func (rs *Ruleset) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Get returns a rule by its ID.
func (rs *Ruleset) Get(id string) (Rule, bool) {
	rule, ok := rs.byID[id]
	return rule, ok
}

// Has reports whether the ruleset contains id.
func (rs *Ruleset) Has(id string) bool {
	_, ok := rs.byID[id]
	return ok
}

// Len returns the number of rules.
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}

// IDs returns rule IDs in registration order.
func (rs *Ruleset) IDs() []string {
	ids := make([]string, len(rs.rules))
	for i, rule := range rs.rules {
		ids[i] = rule.ID()
	}
	return ids
}

// Infos returns metadata for every rule, in registration order.
func (rs *Ruleset) Infos() []core.RuleInfo {
	infos := make([]core.RuleInfo, len(rs.rules))
	for i, rule := range rs.rules {
		infos[i] = GetRuleInfo(rule)
	}
	return infos
}

// GetByGroup returns the rules in group, matched case-insensitively.
func (rs *Ruleset) GetByGroup(group string) []Rule {
	var rules []Rule
	for _, rule := range rs.rules {
		if strings.EqualFold(rule.Group(), group) {
			rules = append(rules, rule)
		}
	}
	return rules
}
