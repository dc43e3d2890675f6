package lint

import (
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/source"
)

// IgnoreDirective marks a comment that suppresses diagnostics:
//
//	# forseti-ignore                     suppress every rule on the next line
//	# forseti-ignore: rule-a, rule-b      suppress the named rules only
//	name = "x" # forseti-ignore           suppress on the same line
const IgnoreDirective = "forseti-ignore"

// suppression lists the rules silenced on one line; nil ids means all.
type suppression struct {
	ids map[string]bool
}

func (s suppression) covers(ruleID string) bool {
	return s.ids == nil || s.ids[ruleID]
}

func (s suppression) merge(other suppression) suppression {
	if s.ids == nil || other.ids == nil {
		return suppression{}
	}
	for id := range other.ids {
		s.ids[id] = true
	}
	return s
}

// Suppressions maps zero-based line numbers to the suppressions that apply.
type Suppressions map[int]suppression

// Covers reports whether a diagnostic of ruleID starting on line is silenced.
func (s Suppressions) Covers(line int, ruleID string) bool {
	sup, ok := s[line]
	return ok && sup.covers(ruleID)
}

// ParseSuppressions scans text for ignore directives introduced by any of
// prefixes. A directive on a comment-only line applies to the next line; a
// trailing directive applies to its own line.
func ParseSuppressions(text string, prefixes []string) Suppressions {
	out := make(Suppressions)
	if len(prefixes) == 0 || !strings.Contains(text, IgnoreDirective) {
		return out
	}

	idx := source.NewLineIndex(text)
	for n := 0; n < idx.LineCount(); n++ {
		line, _ := idx.Line(n)
		if !strings.Contains(line, IgnoreDirective) {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if p, ok := leadingPrefix(trimmed, prefixes); ok {
			if sup, ok := parseDirective(trimmed[len(p):]); ok {
				out.add(n+1, sup)
			}
			continue
		}

		comment, ok := trailingComment(line, prefixes)
		if !ok {
			continue
		}
		for _, p := range prefixes {
			at := strings.LastIndex(comment, p)
			if at < 0 {
				continue
			}
			if sup, ok := parseDirective(comment[at+len(p):]); ok {
				out.add(n, sup)
				break
			}
		}
	}
	return out
}

// FilterSuppressed drops diagnostics silenced by ignore directives in text.
func FilterSuppressed(text string, prefixes []string, diags []Diagnostic) []Diagnostic {
	sups := ParseSuppressions(text, prefixes)
	if len(sups) == 0 {
		return diags
	}
	kept := diags[:0:0]
	for _, d := range diags {
		if sups.Covers(d.Range.Start.Line, d.RuleID) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func (s Suppressions) add(line int, sup suppression) {
	if prev, ok := s[line]; ok {
		sup = prev.merge(sup)
	}
	s[line] = sup
}

func leadingPrefix(line string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return p, true
		}
	}
	return "", false
}

// trailingComment returns the comment that ends line, starting at its first
// prefix outside a double-quoted string.
func trailingComment(line string, prefixes []string) (string, bool) {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted:
			if _, ok := leadingPrefix(line[i:], prefixes); ok {
				return line[i:], true
			}
		}
	}
	return "", false
}

func parseDirective(comment string) (suppression, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, IgnoreDirective) {
		return suppression{}, false
	}
	rest := strings.TrimSpace(comment[len(IgnoreDirective):])
	if rest == "" {
		return suppression{}, true
	}
	if !strings.HasPrefix(rest, ":") {
		return suppression{}, false
	}

	ids := make(map[string]bool)
	for _, id := range strings.Split(rest[1:], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = true
		}
	}
	if len(ids) == 0 {
		return suppression{}, true
	}
	return suppression{ids: ids}, true
}
