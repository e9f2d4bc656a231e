package ignore

import (
	"strings"
	"testing"
)

func TestDefaultRuleset(t *testing.T) {
	rs := Default()

	cases := []struct {
		path     string
		excluded bool
	}{
		{"docs/guide.md", true},
		{"CHANGELOG.md", true},
		{"README.md", false},
		{"backend/app.py", true},
		{"scripts/migrate.py", true},
		{"frontend/src/build_info.py", false},
		{"frontend/src/generators/sitemap.py", false},
		{"index.html", false},
		{"assets/logo.svg", false},
		{".env", true},
		{".env.production", true},
		{"backend/__pycache__/app.cpython-311.pyc", true},
		{"deploy.log", true},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if got := rs.Excluded(tc.path); got != tc.excluded {
				t.Errorf("Excluded(%q) = %t, want %t", tc.path, got, tc.excluded)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := `
# build artifacts
*.map

dist/**
!dist/manifest.json
`
	rs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rs.Len() != 3 {
		t.Fatalf("expected 3 rules, got %d", rs.Len())
	}

	if !rs.Excluded("app.js.map") {
		t.Error("expected app.js.map to be excluded")
	}
	if !rs.Excluded("dist/app.js") {
		t.Error("expected dist/app.js to be excluded")
	}
	if rs.Excluded("dist/manifest.json") {
		t.Error("expected dist/manifest.json to be re-included")
	}
}

func TestParseInvalidPattern(t *testing.T) {
	_, err := Parse(strings.NewReader("docs/[broken\n"))
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected line number in error, got: %v", err)
	}
}

func TestNegationWithoutPriorExclusion(t *testing.T) {
	rs := MustParse("!README.md")

	// A lone negation matches but never excludes
	if rs.Excluded("README.md") {
		t.Error("negation without prior exclusion should not exclude")
	}
}

func TestLastMatchWins(t *testing.T) {
	rs := MustParse("*.md", "!notes.md", "drafts/**")

	if rs.Excluded("notes.md") {
		t.Error("notes.md re-included by later rule")
	}
	if !rs.Excluded("drafts/notes.txt") {
		t.Error("drafts/notes.txt should be excluded")
	}
}
