package interview

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Thresholds tuned on transcript samples; kept configurable rather than baked
// into the checks.
const (
	DefaultEditRatioThreshold    = 0.78
	DefaultTokenOverlapThreshold = 0.75
)

// SimilarityStrategy decides whether a candidate question is a near-duplicate
// of a previously asked one. Both inputs are pre-normalized.
type SimilarityStrategy interface {
	Similar(candidate, previous string) bool
}

// EditRatio flags candidates whose edit-distance ratio to a previous question
// meets the threshold.
type EditRatio struct {
	Threshold float64
}

func (s EditRatio) Similar(candidate, previous string) bool {
	if candidate == "" || previous == "" {
		return false
	}
	longest := len(candidate)
	if len(previous) > longest {
		longest = len(previous)
	}
	dist := levenshtein.ComputeDistance(candidate, previous)
	ratio := 1.0 - float64(dist)/float64(longest)
	return ratio >= s.Threshold
}

// TokenOverlap flags candidates whose token set is mostly contained in a
// previous question's token set: |intersection| / |candidate tokens|.
type TokenOverlap struct {
	Threshold float64
}

func (s TokenOverlap) Similar(candidate, previous string) bool {
	newTokens := tokenSet(candidate)
	if len(newTokens) == 0 {
		return false
	}
	oldTokens := tokenSet(previous)
	var shared int
	for tok := range newTokens {
		if _, ok := oldTokens[tok]; ok {
			shared++
		}
	}
	return float64(shared)/float64(len(newTokens)) >= s.Threshold
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)
var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeQuestion lowercases, strips non-alphanumerics and collapses
// whitespace so the similarity strategies compare content, not punctuation.
func NormalizeQuestion(text string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(cleaned, " "))
}
