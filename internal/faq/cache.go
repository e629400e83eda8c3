// Package faq provides canned-answer lookup for customer messages so that
// known questions are answered without spending model tokens.
package faq

import "strings"

// Cache is an unbounded, process-lifetime lookup table from canonical
// question to canned answer. Keys are stored normalized; a hit means the
// caller can skip the language model entirely.
type Cache struct {
	answers map[string]string
}

// NewCache builds a Cache from question/answer pairs. Keys are normalized
// on insert so that callers may supply them in display form.
func NewCache(entries map[string]string) *Cache {
	c := &Cache{answers: make(map[string]string, len(entries))}
	for q, a := range entries {
		c.answers[Normalize(q)] = a
	}
	return c
}

// Normalize canonicalizes a message for lookup: lowercase, trim, and
// collapse internal whitespace runs to single spaces. Lookup hits are
// defined by equality of normalized forms, nothing else.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Lookup returns the canned answer for a message and whether one exists.
// A false return means the caller must fall through to the language model.
func (c *Cache) Lookup(message string) (string, bool) {
	answer, ok := c.answers[Normalize(message)]
	return answer, ok
}

// Add inserts or replaces a canned answer.
func (c *Cache) Add(question, answer string) {
	c.answers[Normalize(question)] = answer
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	return len(c.answers)
}
