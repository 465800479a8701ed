// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultDuplicateThreshold is the title similarity at which two books are
// reported as likely duplicates.
const DefaultDuplicateThreshold = 0.7

// surnameScore is the score of a pair that only shares an author surname.
const surnameScore = 0.5

// DuplicatePair is two books that look like the same work.
type DuplicatePair struct {
	A      *Book   `json:"a" yaml:"a"`
	B      *Book   `json:"b" yaml:"b"`
	Score  float64 `json:"score" yaml:"score"`
	Reason string  `json:"reason" yaml:"reason"`
}

var punctRX = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// FindDuplicates compares every pair of books. Equal ISBNs score 1, titles
// score their token similarity when it reaches threshold, and a shared author
// surname is always reported. Pairs come back highest score first.
func FindDuplicates(books []*Book, threshold float64) []DuplicatePair {
	pairs := []DuplicatePair{}

	for i := 0; i < len(books); i++ {
		for j := i + 1; j < len(books); j++ {
			a, b := books[i], books[j]
			if a.ID == b.ID {
				continue
			}

			if a.ISBN != "" && a.ISBN == b.ISBN {
				pairs = append(pairs, DuplicatePair{A: a, B: b, Score: 1, Reason: "matching ISBN"})
				continue
			}

			if sim := TitleSimilarity(a.Title, b.Title); sim > 0 && sim >= threshold {
				pairs = append(pairs, DuplicatePair{
					A:      a,
					B:      b,
					Score:  sim,
					Reason: fmt.Sprintf("title similarity %.2f", sim),
				})
				continue
			}

			if s := a.Surname(); s != "" && s == b.Surname() {
				pairs = append(pairs, DuplicatePair{A: a, B: b, Score: surnameScore, Reason: "shared author surname"})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	return pairs
}

// TitleSimilarity is the Jaccard index of the two titles' word sets, ignoring
// case, punctuation and words shorter than three letters.
func TitleSimilarity(a, b string) float64 {
	setA := titleTokens(a)
	setB := titleTokens(b)

	intersection := 0
	for word := range setA {
		if setB[word] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func titleTokens(title string) map[string]bool {
	clean := punctRX.ReplaceAllString(strings.ToLower(title), "")
	set := make(map[string]bool)
	for _, word := range strings.Fields(clean) {
		if len([]rune(word)) > 2 {
			set[word] = true
		}
	}
	return set
}
