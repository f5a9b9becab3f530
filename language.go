package ogimage

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// LanguageShare is one language's share of the repository's code.
type LanguageShare struct {
	Name       string
	Bytes      int
	Percentage float64 // bytes/total*100, rounded to 2 decimals
	Label      string  // Percentage with exactly 2 decimals, e.g. "80.00"
	Color      string
}

// ComputeLanguageDistribution converts byte counts into rounded percentages
// colored from colors. Negative counts are treated as zero. A zero total
// yields an empty, non-nil slice.
func ComputeLanguageDistribution(languages map[string]int, colors ColorTable) []LanguageShare {
	total := 0
	for _, b := range languages {
		if b > 0 {
			total += b
		}
	}
	shares := make([]LanguageShare, 0, len(languages))
	if total == 0 {
		return shares
	}

	for name, b := range languages {
		if b < 0 {
			b = 0
		}
		pct := math.Round(float64(b)/float64(total)*100*100) / 100
		shares = append(shares, LanguageShare{
			Name:       name,
			Bytes:      b,
			Percentage: pct,
			Label:      strconv.FormatFloat(pct, 'f', 2, 64),
			Color:      colors.Color(name),
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// LanguageNames joins share names with ", ".
func LanguageNames(shares []LanguageShare) string {
	names := make([]string, len(shares))
	for i, s := range shares {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
