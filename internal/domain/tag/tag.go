package tag

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// candidatePattern finds tag-shaped substrings in free text.
	candidatePattern = regexp.MustCompile(`\d+\.\d+-py3`)
	// exactPattern accepts a whole string only, capturing major and minor.
	exactPattern = regexp.MustCompile(`^(\d+)\.(\d+)-py3$`)

	// ErrInvalidTag is returned by Parse for strings that are not version tags.
	ErrInvalidTag = errors.New("invalid version tag")
)

// Tag is a parsed version tag. The zero value is the absent tag.
type Tag struct {
	// Major is the leading numeric component.
	Major int
	// Minor is the numeric component after the dot.
	Minor int

	raw string
}

// Parse accepts s only if the entire string is a version tag.
func Parse(s string) (Tag, error) {
	m := exactPattern.FindStringSubmatch(s)
	if m == nil {
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q: major: %w", ErrInvalidTag, s, err)
	}

	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q: minor: %w", ErrInvalidTag, s, err)
	}

	return Tag{Major: major, Minor: minor, raw: s}, nil
}

// String returns the tag exactly as it appeared in the source text.
func (t Tag) String() string {
	return t.raw
}

// IsZero reports whether t is the absent tag.
func (t Tag) IsZero() bool {
	return t.raw == ""
}

// Equal reports exact textual equality, which is what decides whether a
// pinned tag needs rewriting.
func (t Tag) Equal(other Tag) bool {
	return t.raw == other.raw
}

// Compare orders tags by (Major, Minor).
func (t Tag) Compare(other Tag) int {
	if c := cmp.Compare(t.Major, other.Major); c != 0 {
		return c
	}

	return cmp.Compare(t.Minor, other.Minor)
}

// Scan returns every valid tag found in text, in order of appearance.
func Scan(text string) []Tag {
	matches := candidatePattern.FindAllString(text, -1)
	tags := make([]Tag, 0, len(matches))

	for _, match := range matches {
		t, err := Parse(match)
		if err != nil {
			continue
		}

		tags = append(tags, t)
	}

	return tags
}

// Latest returns the tag with the highest (Major, Minor) pair.
// Ties keep the earliest tag. It reports false for an empty slice.
func Latest(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}

	latest := tags[0]
	for _, t := range tags[1:] {
		if t.Compare(latest) > 0 {
			latest = t
		}
	}

	return latest, true
}
