package crossref

// maxSuggestDistance is the maximum edit distance between an unresolved
// fdt reference and an image node name for the name to be offered as a
// suggestion.
const maxSuggestDistance = 3

// bestMatch returns the image node name closest to the target, or an
// empty string when nothing is within maxSuggestDistance. Ties break on
// the lexically smaller name so the output is stable across runs.
func bestMatch(target string, candidates map[string]struct{}) string {
	best := ""
	bestDistance := 0
	for candidate := range candidates {
		d := levenshtein(target, candidate)
		if d > maxSuggestDistance {
			continue
		}
		if best == "" || d < bestDistance || (d == bestDistance && candidate < best) {
			best = candidate
			bestDistance = d
		}
	}
	return best
}

// levenshtein calculates the Levenshtein distance between two strings.
// This is the minimum number of single-character edits (insertions,
// deletions, or substitutions) required to change one string into the
// other.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create matrix
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	// Initialize first column and row
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
