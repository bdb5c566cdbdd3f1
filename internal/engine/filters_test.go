package engine

import "testing"

func TestDefaultPredicate(t *testing.T) {
	cases := []struct {
		name  string
		isDir bool
		want  bool
	}{
		{".git", true, true},
		{".env", false, true},
		{"__pycache__", true, true},
		{"node_modules", true, true},
		{"__pycache__", false, false},
		{"src", true, false},
		{"main.go", false, false},
	}
	for _, c := range cases {
		if got := DefaultPredicate(c.name, c.isDir); got != c.want {
			t.Fatalf("DefaultPredicate(%q,%v)=%v want %v", c.name, c.isDir, got, c.want)
		}
	}
}

func TestAllowedByGlobs(t *testing.T) {
	cfg := Config{IncludeGlobs: "**/*.go, *.md", ExcludeGlobs: "vendor/**"}
	cases := map[string]bool{
		"main.go":          true,
		"pkg/x/y.go":       true,
		"README.md":        true,
		"notes.txt":        false,
		"vendor/lib/a.go":  false,
		`pkg\win\style.go`: true,
	}
	for p, want := range cases {
		if got := allowedByGlobs(p, cfg); got != want {
			t.Fatalf("allowedByGlobs(%q)=%v want %v", p, got, want)
		}
	}
}
