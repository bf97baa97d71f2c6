package index

// fuzzyDistance returns the edit-distance budget for a query term. Short
// terms get no fuzzy tolerance at all: a one-edit match on a three-letter
// term is mostly noise.
func fuzzyDistance(termLen int) int {
	switch {
	case termLen >= 6:
		return 2
	case termLen >= 4:
		return 1
	default:
		return 0
	}
}

// boundedLevenshtein computes the Levenshtein edit distance between a and
// b, bailing out early once the distance provably exceeds maxDist. The
// return value is maxDist+1 when the bound is exceeded.
func boundedLevenshtein(a, b string, maxDist int) int {
	if a == b {
		return 0
	}
	if abs(len(a)-len(b)) > maxDist {
		return maxDist + 1
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j] + 1 // deletion
			if ins := curr[j-1] + 1; ins < d {
				d = ins // insertion
			}
			if sub := prev[j-1] + cost; sub < d {
				d = sub // substitution
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > maxDist {
			return maxDist + 1
		}
		prev, curr = curr, prev
	}

	if prev[len(b)] > maxDist {
		return maxDist + 1
	}
	return prev[len(b)]
}
