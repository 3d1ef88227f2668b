package textutil

import (
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Ratio returns the indel similarity of a and b as a percentage:
// 100 * 2*LCS / (len(a)+len(b)), counted in runes and rounded half to even.
// Inputs are compared as given; callers fold first for case-insensitive
// scores. Ratio is 0 when either string is empty.
func Ratio(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := edlib.LCS(a, b)
	return int(math.RoundToEven(100 * float64(2*lcs) / float64(la+lb)))
}
