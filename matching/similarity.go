package matching

import (
	"math"
	"strings"
)

// Ratio computes a normalized edit-distance similarity between two strings,
// scaled to 0-100. Substitutions are weighted double so the score matches the
// classic combined-length ratio: 100 * (len1+len2-dist) / (len1+len2).
func Ratio(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	lensum := len(r1) + len(r2)
	if lensum == 0 {
		return 100
	}

	dist := weightedLevenshtein(r1, r2)
	return int(math.Round(100 * float64(lensum-dist) / float64(lensum)))
}

// weightedLevenshtein computes edit distance with substitution cost 2,
// insertion and deletion cost 1.
func weightedLevenshtein(r1, r2 []rune) int {
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
			cost := 2
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

// LevenshteinDistance computes the plain unit-cost edit distance.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
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
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

// DamerauLevenshteinDistance additionally counts transpositions of adjacent
// characters as a single edit. Used for run-report diagnostics.
func DamerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1, len2 := len(r1), len(r2)
	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				if alt := matrix[i-2][j-2] + cost; alt < matrix[i][j] {
					matrix[i][j] = alt
				}
			}
		}
	}

	return matrix[len1][len2]
}

// BigramSimilarity computes the Jaccard index over character bigrams, in [0,1].
func BigramSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	g1 := bigrams(s1)
	g2 := bigrams(s2)
	if len(g1) == 0 && len(g2) == 0 {
		return 1.0
	}
	if len(g1) == 0 || len(g2) == 0 {
		return 0.0
	}

	intersection := 0
	for g := range g1 {
		if _, ok := g2[g]; ok {
			intersection++
		}
	}
	union := len(g1) + len(g2) - intersection
	return float64(intersection) / float64(union)
}

func bigrams(s string) map[string]int {
	s = strings.ToLower(strings.TrimSpace(s))
	grams := make(map[string]int)
	runes := []rune(s)
	if len(runes) < 2 {
		if len(runes) > 0 {
			grams[string(runes)] = 1
		}
		return grams
	}
	for i := 0; i <= len(runes)-2; i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
