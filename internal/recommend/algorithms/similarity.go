// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package algorithms

import (
	"fmt"
	"math"
	"sort"
)

// CosineScores returns the cosine similarity between vectors[row] and every
// row of vectors, including row itself.
//
// The similarity is dot(a,b) / (|a| * |b|) with no guard for zero norms, so
// a zero vector on either side produces NaN.
func CosineScores(vectors [][]float64, row int) ([]float64, error) {
	if row < 0 || row >= len(vectors) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", row, len(vectors))
	}
	query := vectors[row]
	queryNorm := norm(query)

	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = dot(v, query) / (norm(v) * queryNorm)
	}
	return scores, nil
}

// RankSimilar orders every row by descending cosine similarity to row and
// drops exactly the first entry of the ordering.
//
// The first entry is removed by position, not by identity: when another
// row ties with or beats the query row, the query row stays in the result
// and that other row is dropped instead.
//
// Ordering rules: higher scores first, NaN after every number, ties keep
// row order.
func RankSimilar(vectors [][]float64, row int) ([]int, error) {
	scores, err := CosineScores(vectors, row)
	if err != nil {
		return nil, err
	}

	rows := make([]int, len(scores))
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return descendingNaNLast(scores[rows[a]], scores[rows[b]])
	})

	if len(rows) == 0 {
		return rows, nil
	}
	return rows[1:], nil
}

// descendingNaNLast reports whether x sorts before y in a descending order
// that places NaN after every number.
func descendingNaNLast(x, y float64) bool {
	switch {
	case math.IsNaN(x):
		return false
	case math.IsNaN(y):
		return true
	default:
		return x > y
	}
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
