// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the shortest token kept by the analyzer.
const minTokenRunes = 2

// tokenize lowercases text and splits it into runs of word characters
// (letters, digits, underscore). Runs shorter than two runes are dropped.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// analyze turns text into the list of terms counted by the vectorizer:
// stop-words are removed first, then n-grams in [minN, maxN] are formed
// over the remaining tokens.
func analyze(text string, minN, maxN int) []string {
	tokens := tokenize(text)

	kept := tokens[:0]
	for _, t := range tokens {
		if !IsStopWord(t) {
			kept = append(kept, t)
		}
	}

	if maxN <= 1 {
		return kept
	}

	terms := make([]string, 0, len(kept)*(maxN-minN+1))
	if minN <= 1 {
		terms = append(terms, kept...)
		minN = 2
	}
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(kept); i++ {
			terms = append(terms, strings.Join(kept[i:i+n], " "))
		}
	}
	return terms
}
