// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package algorithms

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// LexicalConfig contains configuration for the TF-IDF index.
type LexicalConfig struct {
	// MinDF drops terms that appear in fewer documents than this.
	// Default: 2.
	MinDF int

	// MaxDFRatio drops terms that appear in more than this fraction of
	// documents.
	// Default: 0.95.
	MaxDFRatio float64

	// Threshold is the score a document must strictly exceed to be returned.
	// Default: 0.1.
	Threshold float64
}

// DefaultLexicalConfig returns default lexical index configuration.
func DefaultLexicalConfig() LexicalConfig {
	return LexicalConfig{
		MinDF:      2,
		MaxDFRatio: 0.95,
		Threshold:  0.1,
	}
}

// Document is one catalog entry to index.
type Document struct {
	ID   int64
	Text string
}

// LexicalMatch is a scored search hit.
type LexicalMatch struct {
	ID    int64
	Score float64
}

// sparseVector is an L2-normalized TF-IDF row keyed by vocabulary column.
type sparseVector map[int]float64

// LexicalIndex is a fitted TF-IDF vocabulary plus one normalized vector per
// indexed document.
//
// Weights follow the smooth-idf formulation:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//	w(t,d) = count(t,d) * idf(t), rows scaled to unit length
//
// A query is scored by cosine similarity, which for unit rows is the dot
// product of the normalized query vector with each document vector.
type LexicalIndex struct {
	config LexicalConfig
	vocab  map[string]int
	idf    []float64
	rows   []sparseVector
	ids    []int64
}

// NewLexicalIndex fits the vocabulary and document vectors.
//
// A corpus that leaves no term after pruning produces an index with an
// empty vocabulary; searching it returns no results.
func NewLexicalIndex(cfg LexicalConfig, docs []Document) *LexicalIndex {
	if cfg.MinDF <= 0 {
		cfg.MinDF = 2
	}
	if cfg.MaxDFRatio <= 0 || cfg.MaxDFRatio > 1 {
		cfg.MaxDFRatio = 0.95
	}

	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokens := Tokenize(doc.Text)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := len(docs)
	maxDocCount := cfg.MaxDFRatio * float64(n)
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count < cfg.MinDF || float64(count) > maxDocCount {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)

	idx := &LexicalIndex{
		config: cfg,
		vocab:  make(map[string]int, len(terms)),
		idf:    make([]float64, len(terms)),
		rows:   make([]sparseVector, n),
		ids:    make([]int64, n),
	}
	for col, term := range terms {
		idx.vocab[term] = col
		idx.idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	for i, doc := range docs {
		idx.ids[i] = doc.ID
		idx.rows[i] = idx.vectorize(tokenized[i])
	}

	return idx
}

// vectorize builds a normalized TF-IDF vector for tokens under the fitted
// vocabulary. Unknown tokens are ignored.
func (l *LexicalIndex) vectorize(tokens []string) sparseVector {
	vec := make(sparseVector)
	for _, tok := range tokens {
		if col, ok := l.vocab[tok]; ok {
			vec[col]++
		}
	}

	var sumSq float64
	for col, count := range vec {
		w := count * l.idf[col]
		vec[col] = w
		sumSq += w * w
	}
	if sumSq > 0 {
		scale := 1 / math.Sqrt(sumSq)
		for col := range vec {
			vec[col] *= scale
		}
	}
	return vec
}

// Search returns documents scoring strictly above the threshold, highest
// score first. Equal scores keep document order.
func (l *LexicalIndex) Search(query string) []LexicalMatch {
	if l == nil || query == "" || len(l.vocab) == 0 {
		return []LexicalMatch{}
	}

	q := l.vectorize(Tokenize(query))
	matches := make([]LexicalMatch, 0)
	if len(q) == 0 {
		return matches
	}

	for i, row := range l.rows {
		var score float64
		for col, w := range q {
			score += w * row[col]
		}
		if score > l.config.Threshold {
			matches = append(matches, LexicalMatch{ID: l.ids[i], Score: score})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	return matches
}

// NumTerms returns the vocabulary size.
func (l *LexicalIndex) NumTerms() int {
	if l == nil {
		return 0
	}
	return len(l.vocab)
}

// NumDocuments returns the number of indexed documents.
func (l *LexicalIndex) NumDocuments() int {
	if l == nil {
		return 0
	}
	return len(l.rows)
}

// hasTerm reports whether term survived vocabulary pruning.
func (l *LexicalIndex) hasTerm(term string) bool {
	if l == nil {
		return false
	}
	_, ok := l.vocab[term]
	return ok
}

// Tokenize lowercases text and returns every maximal run of two or more
// letters, digits or underscores, excluding stop words.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0, 8)

	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tok := text[start:end]
			if !IsStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		start = -1
		runes = 0
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
