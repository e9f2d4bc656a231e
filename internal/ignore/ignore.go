// Package ignore implements the publish-bundle ignore list: glob rules that
// decide which files are excluded from the static frontend deploy.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName is the default name of the ignore file at the project root
const IgnoreFileName = ".deployignore"

// Rule is a single ignore pattern. A negated rule re-includes paths that an
// earlier rule excluded.
type Rule struct {
	Pattern string
	Negate  bool
}

// Ruleset is an ordered list of ignore rules. Matching is last-match-wins,
// the same resolution order gitignore uses.
type Ruleset struct {
	rules []Rule
}

// Parse reads one pattern per line. Blank lines and lines starting with #
// are skipped; a leading ! negates the pattern.
func Parse(r io.Reader) (*Ruleset, error) {
	rs := &Ruleset{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule := Rule{Pattern: line}
		if strings.HasPrefix(line, "!") {
			rule.Negate = true
			rule.Pattern = strings.TrimPrefix(line, "!")
		}
		rule.Pattern = strings.TrimPrefix(rule.Pattern, "/")

		if !doublestar.ValidatePattern(rule.Pattern) {
			return nil, fmt.Errorf("line %d: invalid pattern %q", lineNo, rule.Pattern)
		}

		rs.rules = append(rs.rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}

	return rs, nil
}

// MustParse parses patterns given as lines, panicking on invalid input.
// Intended for compiled-in rulesets.
func MustParse(lines ...string) *Ruleset {
	rs, err := Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		panic(err)
	}
	return rs
}

// Default is the ignore ruleset the deploy pipeline applies when the project
// carries no ignore file: documentation stays out of the bundle except the
// README, and backend Python sources never ship with the frontend.
func Default() *Ruleset {
	return MustParse(
		"*.md",
		"!README.md",
		"*.py",
		"!frontend/src/**/*.py",
		".env*",
		"**/__pycache__/**",
		"node_modules/**",
		"*.log",
	)
}

// Excluded reports whether the given slash-separated path, relative to the
// publish root, is excluded from the bundle. The last matching rule wins.
func (rs *Ruleset) Excluded(p string) bool {
	p = strings.TrimPrefix(path.Clean(p), "/")

	excluded := false
	for _, rule := range rs.rules {
		if rule.matches(p) {
			excluded = !rule.Negate
		}
	}
	return excluded
}

// Len returns the number of rules in the set
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}

func (r Rule) matches(p string) bool {
	// Patterns without a separator apply to the basename anywhere in the
	// tree, like gitignore.
	if !strings.Contains(r.Pattern, "/") {
		ok, _ := doublestar.Match(r.Pattern, path.Base(p))
		return ok
	}

	ok, _ := doublestar.Match(r.Pattern, p)
	return ok
}
