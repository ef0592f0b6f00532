package valueobjects

import "strings"

// TagSet is an ordered, case-sensitive collection of tags with duplicates
// collapsed. Order is preserved because the tag order of the first endpoint
// decides the order of an edge's shared tags.
type TagSet struct {
	tags []string
}

// NewTagSet builds a TagSet from raw user input. Blank entries are dropped,
// surrounding whitespace is trimmed, and later duplicates are collapsed.
// A nil slice is treated as zero tags.
func NewTagSet(tags []string) TagSet {
	if len(tags) == 0 {
		return TagSet{}
	}
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	return TagSet{tags: cleaned}
}

// Tags returns a copy of the tags in their original order
func (s TagSet) Tags() []string {
	if len(s.tags) == 0 {
		return nil
	}
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of tags
func (s TagSet) Len() int {
	return len(s.tags)
}

// IsEmpty checks whether the set has no tags
func (s TagSet) IsEmpty() bool {
	return len(s.tags) == 0
}

// Contains checks for an exact, case-sensitive match
func (s TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Intersect returns the tags present in both sets, ordered by the receiver
func (s TagSet) Intersect(other TagSet) []string {
	if len(s.tags) == 0 || len(other.tags) == 0 {
		return nil
	}
	var shared []string
	for _, t := range s.tags {
		if other.Contains(t) {
			shared = append(shared, t)
		}
	}
	return shared
}

// Equals checks whether two sets hold the same tags in the same order
func (s TagSet) Equals(other TagSet) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for i, t := range s.tags {
		if other.tags[i] != t {
			return false
		}
	}
	return true
}
