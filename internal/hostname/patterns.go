package hostname

import "strings"

// corporateSuffixes are legal-entity words stripped from the end of a company
// name before deriving domain candidates. Compared case-folded, after
// punctuation removal.
var corporateSuffixes = map[string]bool{
	"inc":          true,
	"llc":          true,
	"corp":         true,
	"ltd":          true,
	"limited":      true,
	"incorporated": true,
	"corporation":  true,
	"company":      true,
	"co":           true,
}

// Candidates derives a deduplicated, order-preserving list of candidate
// hostnames from a free-text company name and an optional city. Every
// candidate carries a ".com" suffix; forceWww applies the same prefix policy
// as Normalize. The function is pure: no network access.
//
// For "4Print Wraps, Inc." with city "Glenburnie" it produces, in order:
// www.4printwraps.com, www.4-print-wraps.com, www.printwraps.com,
// www.glenburnie4printwraps.com and www.4printwrapsglenburnie.com.
func Candidates(name, city string, forceWww bool) []string {
	words := cleanWords(name)
	if len(words) == 0 {
		return nil
	}

	joined := strings.Join(words, "")
	hyphened := strings.Join(splitDigitBoundaries(words), "-")
	noDigits := stripDigits(joined)

	stems := []string{joined, hyphened, noDigits}

	if cityClean := stripNonAlnum(strings.ToLower(city)); cityClean != "" {
		stems = append(stems, cityClean+joined, joined+cityClean)
	}

	seen := make(map[string]struct{}, len(stems))
	var out []string
	for _, stem := range stems {
		if stem == "" {
			continue
		}
		candidate := applyWwwPolicy(stem+".com", forceWww)
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// cleanWords case-folds the name, drops characters outside [a-z0-9 -], then
// removes a leading "the" and any trailing corporate suffix words.
func cleanWords(name string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 0 && words[0] == "the" {
		words = words[1:]
	}
	for len(words) > 0 && corporateSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return words
}

// splitDigitBoundaries further splits each word at digit/letter transitions,
// so "4print" contributes "4" and "print" to the hyphenated candidate.
func splitDigitBoundaries(words []string) []string {
	var out []string
	for _, w := range words {
		start := 0
		for i := 1; i < len(w); i++ {
			if isDigit(w[i]) != isDigit(w[i-1]) {
				out = append(out, w[start:i])
				start = i
			}
		}
		out = append(out, w[start:])
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func stripDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
