package tui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 24, "short"},
		{"exactly-twenty-four-char", 24, "exactly-twenty-four-char"},
		{"a very long window title that keeps going", 24, "a very long window ti..."},
		{strings.Repeat("日", 20), 10, strings.Repeat("日", 7) + "..."},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.max)
		}
	}
}
