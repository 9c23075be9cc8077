package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	slugMaxLen    = 200
	slugSuffixLen = 8
)

// generateSlug derives a URL-safe slug from a post title: a lowercase
// hyphenated base plus an 8-hex-char random suffix, at most slugMaxLen total.
// The suffix keeps identically-titled posts apart; the database unique index
// is the final arbiter and callers retry with a fresh suffix on collision.
// A slug is generated once at first save and never changes afterwards.
func generateSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "post"
	}

	maxBase := slugMaxLen - slugSuffixLen - 1
	if len(base) > maxBase {
		base = strings.Trim(base[:maxBase], "-")
	}

	suffix := uuid.NewString()[:slugSuffixLen]
	return base + "-" + suffix
}
