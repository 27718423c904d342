package middlewares

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestShortPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "short_path_untouched", path: "/countries?region=Americas"},
		{name: "long_ascii", path: "/ok?q=" + strings.Repeat("a", 300)},
		{name: "long_multibyte", path: "/ok?q=" + strings.Repeat("é", 300)},
		{name: "boundary_multibyte", path: strings.Repeat("ü", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shortPath(tt.path)

			if len(tt.path) <= maxLoggedPathLen {
				if got != tt.path {
					t.Fatalf("short path was altered: %q", got)
				}
				return
			}

			if len(got) > maxLoggedPathLen {
				t.Fatalf("got length %d, want <= %d", len(got), maxLoggedPathLen)
			}

			if !strings.HasSuffix(got, "...") {
				t.Fatalf("truncated path missing ellipsis: %q", got)
			}

			if !utf8.ValidString(got) {
				t.Fatalf("truncation split a rune: %q", got)
			}
		})
	}
}
