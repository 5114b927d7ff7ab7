package search

import "testing"

func TestLikePattern(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		want    string
		wantOK  bool
	}{
		{"plain term", "Acme", "%Acme%", true},
		{"prefix wildcard", "Tech*", "%Tech%%", true},
		{"inner wildcard", "a*b", "%a%b%", true},
		{"literal percent", "50%", `%50\%%`, true},
		{"literal underscore", "a_b", `%a\_b%`, true},
		{"literal backslash", `a\b`, `%a\\b%`, true},
		{"escape then wildcard", `%_*`, `%\%\_%%`, true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LikePattern(tt.term)
			if ok != tt.wantOK {
				t.Fatalf("LikePattern(%q) ok = %v, want %v", tt.term, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("LikePattern(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}
