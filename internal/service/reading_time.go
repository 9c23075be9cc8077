package service

import (
	"math"
	"unicode"
)

// wordsPerMinute is the assumed average reading speed.
const wordsPerMinute = 200

// calculateReadingTime estimates reading minutes from content. Words are
// maximal runs of Unicode word characters; punctuation-only content still
// costs a minute. Half-minute ties round to the nearest even minute, so
// 500 words is 2 minutes and 700 is 4.
func calculateReadingTime(content string) int {
	minutes := int(math.RoundToEven(float64(countWords(content)) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func countWords(content string) int {
	count := 0
	inWord := false
	for _, r := range content {
		if isWordRune(r) {
			if !inWord {
				count++
				inWord = true
			}
			continue
		}
		inWord = false
	}
	return count
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
