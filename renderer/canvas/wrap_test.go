package canvasrenderer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func texts(lines []wrappedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.content
	}
	return out
}

func TestBreakLinesModes(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit float64
		mode  wrapMode
		want  []string
	}{
		{"words", "aa bb cc", 5, wrapAnywhere, []string{"aa bb", "cc"}},
		{"drop break space", "aaaa  bbbb", 4, wrapAnywhere, []string{"aaaa", "bbbb"}},
		{"long word", "abcdefg", 3, wrapAnywhere, []string{"abc", "def", "g"}},
		{"word after text", "x abcdefg", 3, wrapAnywhere, []string{"x", "abc", "def", "g"}},
		{"break-word", "ab cd", 3, wrapBreakWord, []string{"ab", "cd"}},
		{"trailing space", "aaa bbb ccc", 5, wrapAnywhere, []string{"aaa", "bbb", "ccc"}},
		{"trailing source space", "ab   ", 10, wrapAnywhere, []string{"ab"}},
		{"nowrap", "a very long line\nnext", 3, wrapNone, []string{"a very long line", "next"}},
		{"blank lines", "a\n\nb", 10, wrapAnywhere, []string{"a", "", "b"}},
		{"empty", "", 10, wrapAnywhere, []string{""}},
		{"no limit", "aa bb cc", 0, wrapAnywhere, []string{"aa bb cc"}},
	}
	for _, tc := range cases {
		got := texts(breakLines(tc.in, tc.limit, runeWidth, tc.mode))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: lines mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestBreakLinesWidths(t *testing.T) {
	lines := breakLines("aaa bbb ccc", 5, runeWidth, wrapAnywhere)
	var got []float64
	for _, l := range lines {
		got = append(got, l.width)
	}
	if diff := cmp.Diff([]float64{3, 3, 3}, got); diff != "" {
		t.Fatalf("widths mismatch (-want +got):\n%s", diff)
	}
}

func TestBreakLinesNoTrailingSpace(t *testing.T) {
	in := "lorem ipsum dolor sit amet, consectetur adipiscing elit sed do eiusmod"
	for _, mode := range []wrapMode{wrapAnywhere, wrapBreakWord} {
		for limit := 4.0; limit <= 20; limit++ {
			for _, l := range breakLines(in, limit, runeWidth, mode) {
				if strings.TrimRight(l.content, " ") != l.content {
					t.Fatalf("mode %d limit %g: line %q ends in a space", mode, limit, l.content)
				}
				if l.width != runeWidth(l.content) {
					t.Fatalf("mode %d limit %g: line %q width = %g", mode, limit, l.content, l.width)
				}
			}
		}
	}
}

func TestParseWrapMode(t *testing.T) {
	for in, want := range map[string]wrapMode{"": wrapAnywhere, "anywhere": wrapAnywhere, "Break-Word": wrapBreakWord, "nowrap": wrapNone} {
		if got := parseWrapMode(in); got != want {
			t.Fatalf("parseWrapMode(%q) = %d, want %d", in, got, want)
		}
	}
}
