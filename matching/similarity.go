package matching

import (
	"math"
	"strings"
	"unicode"
)

// NormalizeKey canonicalizes a header or variant string for comparison:
// lowercase, separators and whitespace collapsed, non-alphanumerics dropped.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LevenshteinDistance computes the edit distance between two strings.
func LevenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

// LevenshteinSimilarity converts edit distance to a [0,1] similarity ratio.
func LevenshteinSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	dist := LevenshteinDistance(s1, s2)
	return 1.0 - float64(dist)/float64(maxLen)
}

// JaroSimilarity computes the Jaro similarity between two strings.
func JaroSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	matchWindow := max(len1, len2)/2 - 1
	if matchWindow < 0 {
		matchWindow = 0
	}

	matches1 := make([]bool, len1)
	matches2 := make([]bool, len2)
	matches := 0

	for i := 0; i < len1; i++ {
		start := max(0, i-matchWindow)
		end := min(len2, i+matchWindow+1)
		for j := start; j < end; j++ {
			if matches2[j] || r1[i] != r2[j] {
				continue
			}
			matches1[i] = true
			matches2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matches1[i] {
			continue
		}
		for !matches2[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	return (float64(matches)/float64(len1) +
		float64(matches)/float64(len2) +
		(float64(matches)-float64(transpositions)/2.0)/float64(matches)) / 3.0
}

// JaroWinklerSimilarity boosts Jaro similarity for strings sharing a common
// prefix (up to 4 runes, scaling factor 0.1).
func JaroWinklerSimilarity(s1, s2 string) float64 {
	jaro := JaroSimilarity(s1, s2)
	if jaro < 0.7 {
		return jaro
	}

	r1, r2 := []rune(s1), []rune(s2)
	prefixLen := 0
	limit := min(min(len(r1), len(r2)), 4)
	for i := 0; i < limit; i++ {
		if r1[i] != r2[i] {
			break
		}
		prefixLen++
	}

	return math.Min(jaro+float64(prefixLen)*0.1*(1.0-jaro), 1.0)
}

// Similarity is the blended score used by the fuzzy matching pass:
// a weighted combination of Levenshtein ratio and Jaro-Winkler. Both inputs
// are expected to be already normalized via NormalizeKey.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	return 0.6*LevenshteinSimilarity(s1, s2) + 0.4*JaroWinklerSimilarity(s1, s2)
}
