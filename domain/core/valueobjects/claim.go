package valueobjects

import (
	"strings"
	"unicode/utf8"

	pkgerrors "cortex/pkg/errors"
)

// Claim is a value object for the textual content of a knowledge node:
// a single statement extracted by an external analyzer.
type Claim struct {
	text string
}

// NewClaim creates a claim with validation
func NewClaim(text string) (Claim, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Claim{}, pkgerrors.NewValidationError("claim text cannot be empty")
	}
	return Claim{text: text}, nil
}

// NewClaimWithLimit creates a claim enforcing a maximum length
func NewClaimWithLimit(text string, maxLength int) (Claim, error) {
	claim, err := NewClaim(text)
	if err != nil {
		return Claim{}, err
	}
	if maxLength > 0 && utf8.RuneCountInString(claim.text) > maxLength {
		return Claim{}, pkgerrors.NewValidationError("claim text exceeds maximum length")
	}
	return claim, nil
}

// Text returns the claim text
func (c Claim) Text() string {
	return c.text
}

// IsZero checks if the claim is empty
func (c Claim) IsZero() bool {
	return c.text == ""
}

// Equals checks textual equality
func (c Claim) Equals(other Claim) bool {
	return c.text == other.text
}

// Keywords extracts significant words for similarity matching
func (c Claim) Keywords() []string {
	words := strings.Fields(strings.ToLower(c.text))
	keywords := []string{}

	seen := make(map[string]bool)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")

		// Skip short words, stop words, negations and duplicates so that
		// "X" and "not X" tokenize identically
		if len(word) > 3 && !stopWords[word] && !negationWords[word] && !seen[word] {
			keywords = append(keywords, word)
			seen[word] = true
		}
	}

	return keywords
}

// Similarity computes normalized token overlap (Jaccard over keyword sets)
// between two claims. 1.0 means identical keyword sets, 0.0 disjoint.
func (c Claim) Similarity(other Claim) float64 {
	a := c.Keywords()
	b := other.Keywords()
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inA := make(map[string]bool, len(a))
	for _, w := range a {
		inA[w] = true
	}

	intersection := 0
	for _, w := range b {
		if inA[w] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Negated reports whether the claim contains a negation marker
func (c Claim) Negated() bool {
	for _, word := range strings.Fields(strings.ToLower(c.text)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if negationWords[word] || strings.HasSuffix(word, "n't") {
			return true
		}
	}
	return false
}

// MutuallyExclusive is the detector's heuristic for two claims about the
// same subject asserting incompatible content: near-identical keyword sets
// with opposite negation parity.
func (c Claim) MutuallyExclusive(other Claim, similarityThreshold float64) bool {
	if c.Negated() == other.Negated() {
		return false
	}
	return c.Similarity(other) >= similarityThreshold
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"this": true, "that": true, "these": true, "those": true,
}

var negationWords = map[string]bool{
	"not": true, "never": true, "no": true, "none": true, "isn't": true,
	"aren't": true, "wasn't": true, "weren't": true, "doesn't": true,
	"don't": true, "didn't": true, "won't": true, "cannot": true, "can't": true,
}
