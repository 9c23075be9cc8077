package service

import (
	"strings"
	"testing"
)

func TestCalculateReadingTimeFormula(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty content", "", 1},
		{"punctuation only", "... !!! ??? --- ***", 1},
		{"single word", "hello", 1},
		{"exactly 200 words", strings.Repeat("word ", 200), 1},
		{"450 words rounds down", strings.Repeat("word ", 450), 2},
		{"100 words is still a minute", strings.Repeat("word ", 100), 1},
		{"500 words ties down to even", strings.Repeat("word ", 500), 2},
		{"700 words ties up to even", strings.Repeat("word ", 700), 4},
		{"900 words ties down to even", strings.Repeat("word ", 900), 4},
		{"markdown noise does not count", "# Title\n\n**bold** and `code`, plus [link](https://example.com)", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := calculateReadingTime(tc.content); got != tc.want {
				t.Fatalf("calculateReadingTime(%q...) = %d, want %d", truncate(tc.content), got, tc.want)
			}
		})
	}
}

func TestCountWordsUnicode(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"hello world", 2},
		{"hello, world!", 2},
		{"snake_case counts as one", 4},
		{"расскажи мне о погоде", 4},
		{"混合 text with 漢字", 4},
		{"a-b", 2},
		{"", 0},
		{"!!!", 0},
	}

	for _, tc := range cases {
		if got := countWords(tc.content); got != tc.want {
			t.Fatalf("countWords(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40]
	}
	return s
}
