package service

import (
	"regexp"
	"strings"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*-[0-9a-f]{8}$`)

func TestGenerateSlugShape(t *testing.T) {
	got := generateSlug("Hello, World!")
	if !regexp.MustCompile(`^hello-world-[0-9a-f]{8}$`).MatchString(got) {
		t.Fatalf("generateSlug(%q) = %q, want hello-world-<8 hex chars>", "Hello, World!", got)
	}
}

func TestGenerateSlugNormalizesToASCII(t *testing.T) {
	got := generateSlug("Ünïcödé Tîtle")
	if !slugPattern.MatchString(got) {
		t.Fatalf("generateSlug produced non-slug output: %q", got)
	}
	if !strings.HasPrefix(got, "unicode-title-") {
		t.Fatalf("expected ASCII-normalized base, got %q", got)
	}
}

func TestGenerateSlugEmptyTitleFallsBack(t *testing.T) {
	got := generateSlug("!!!")
	if !strings.HasPrefix(got, "post-") {
		t.Fatalf("expected fallback base for unsluggable title, got %q", got)
	}
}

func TestGenerateSlugRespectsMaxLength(t *testing.T) {
	got := generateSlug(strings.Repeat("very long title ", 40))
	if len(got) > slugMaxLen {
		t.Fatalf("slug length %d exceeds %d: %q", len(got), slugMaxLen, got)
	}
	if !slugPattern.MatchString(got) {
		t.Fatalf("truncated slug is malformed: %q", got)
	}
}

func TestGenerateSlugUniqueForIdenticalTitles(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s := generateSlug("The Same Title Every Time")
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate slug after %d generations: %q", i+1, s)
		}
		seen[s] = struct{}{}
	}
}
