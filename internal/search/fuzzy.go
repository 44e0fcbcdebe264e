package search

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSortRatio scores two strings from 0 to 100 after lower-casing, replacing
// non-alphanumerics with spaces and sorting whitespace tokens. The score is the
// normalized InDel similarity, 200*LCS/(len(a)+len(b)).
func TokenSortRatio(a, b string) float64 {
	x := []rune(sortTokens(a))
	y := []rune(sortTokens(b))
	if len(x)+len(y) == 0 {
		return 100
	}
	return 200 * float64(lcsLen(x, y)) / float64(len(x)+len(y))
}

func sortTokens(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcsLen is the longest common subsequence length, two-row dynamic programming.
func lcsLen(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

type match struct {
	name  string
	score float64
}

// bestMatches scores names against query and returns those scoring at least
// cutoff, best first, at most limit. Ties keep the order of names.
func bestMatches(query string, names []string, cutoff float64, limit int) []match {
	var out []match
	for _, n := range names {
		if s := TokenSortRatio(query, n); s >= cutoff {
			out = append(out, match{name: n, score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
