package cmd

import "strings"

// suggestClosest returns the candidate with the smallest edit distance to
// input, or "" when nothing is close enough. Used to enhance
// "unknown command" and "unknown flag" errors.
func suggestClosest(input string, candidates []string) string {
	input = strings.ToLower(input)
	maxDistance := 2
	if len(strings.TrimLeft(input, "-")) <= 3 {
		maxDistance = 1
	}

	best := ""
	bestDistance := maxDistance + 1
	for _, c := range candidates {
		d := levenshtein(input, strings.ToLower(c))
		if d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
