package analysis

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into word tokens. Characters that commonly
// appear inside technology names (+ # . / -) are kept when they sit between or after
// word characters, so "C++", "Node.js" and "CI/CD" stay whole.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		token := strings.TrimRight(current.String(), "./-")
		if token != "" {
			tokens = append(tokens, token)
		}
		current.Reset()
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case current.Len() > 0 && strings.ContainsRune("+#./-", r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// ContainsTerm reports whether term occurs in content as a whole token sequence,
// ignoring case.
func ContainsTerm(content []string, term string) bool {
	needle := Tokenize(term)
	if len(needle) == 0 {
		return false
	}
	for i := 0; i+len(needle) <= len(content); i++ {
		match := true
		for j := range needle {
			if content[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// FilterPresent de-duplicates candidate keywords case-insensitively, keeping the first
// spelling, and drops every keyword that occurs in content as a whole token sequence.
func FilterPresent(content string, candidates []string) []string {
	contentTokens := Tokenize(content)

	kept := []string{}
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		keyword := strings.TrimSpace(candidate)
		key := strings.Join(Tokenize(keyword), " ")
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if !ContainsTerm(contentTokens, keyword) {
			kept = append(kept, keyword)
		}
	}
	return kept
}

// MissingKeywords returns the candidates that occur in the job description but not in
// the content, using the same matching rules as FilterPresent.
func MissingKeywords(jobDescription, content string, candidates []string) []string {
	jdTokens := Tokenize(jobDescription)

	missing := []string{}
	for _, keyword := range FilterPresent(content, candidates) {
		if ContainsTerm(jdTokens, keyword) {
			missing = append(missing, keyword)
		}
	}
	return missing
}
