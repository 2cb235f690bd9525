// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"testing"

	"github.com/tomtom215/smartbuy/internal/recommend/algorithms"
)

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	index := BuildIdentifierIndex([]Interaction{nav(1, 10), nav(2, 11)})
	model, err := algorithms.NewTwoTower(testConfig().twoTowerConfig(), index.NumUsers(), index.NumItems())
	if err != nil {
		t.Fatalf("NewTwoTower() error = %v", err)
	}

	tests := []struct {
		name       string
		embeddings [][]float64
		wantErr    bool
	}{
		{name: "model embeddings", embeddings: model.ItemEmbeddings()},
		{name: "missing row", embeddings: model.ItemEmbeddings()[:1], wantErr: true},
		{name: "wrong width", embeddings: [][]float64{{1, 2}, {3, 4}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &snapshot{index: index, model: model, itemEmbeddings: tt.embeddings}
			if err := s.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
