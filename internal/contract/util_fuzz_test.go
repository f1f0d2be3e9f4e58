package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random titles and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Gazprom signs supply deal", 10},
		{"Газпром подписал контракт", 12},
		{"", 0},
		{"short", 80},
		{"x", -1},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		if !utf8.ValidString(text) {
			return
		}
		got := TruncateText(text, width)
		if got != text {
			if utf8.RuneCountInString(got) != width {
				t.Fatalf("truncated %q to %q, want %d runes", text, got, width)
			}
			if !strings.HasSuffix(got, "...") {
				t.Fatalf("truncated %q without ellipsis", got)
			}
		}
	})
}

// FuzzSplitList fuzzes SplitList with random comma-separated input.
func FuzzSplitList(f *testing.F) {
	for _, seed := range []string{"RU,KZ", " , ,", "", "a,,b"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		for _, part := range SplitList(s) {
			if part == "" || strings.Contains(part, ",") || strings.TrimSpace(part) != part {
				t.Fatalf("bad element %q from %q", part, s)
			}
		}
	})
}
