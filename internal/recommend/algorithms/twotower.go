// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrEmptyTrainingSet is returned by Fit when there are no pairs to learn from.
var ErrEmptyTrainingSet = errors.New("empty training set")

// lossClip mirrors the probability clipping used by binary cross-entropy.
const lossClip = 1e-7

// TwoTowerConfig contains configuration for the two-tower scorer.
type TwoTowerConfig struct {
	// EmbeddingDim is the width of the user and item embedding tables.
	// Default: 50.
	EmbeddingDim int

	// Hidden1 is the width of the first hidden projection.
	// Default: 128.
	Hidden1 int

	// Hidden2 is the width of the second hidden projection.
	// Default: 64.
	Hidden2 int

	// Epochs is the number of full passes over the training pairs.
	// Default: 10.
	Epochs int

	// BatchSize is the number of pairs per optimizer step.
	// Default: 64.
	BatchSize int

	// Adam holds the optimizer hyperparameters.
	Adam AdamConfig

	// Seed for reproducible initialization and shuffling.
	// If 0, uses a default seed.
	Seed int64
}

// DefaultTwoTowerConfig returns default two-tower configuration.
func DefaultTwoTowerConfig() TwoTowerConfig {
	return TwoTowerConfig{
		EmbeddingDim: 50,
		Hidden1:      128,
		Hidden2:      64,
		Epochs:       10,
		BatchSize:    64,
		Adam:         DefaultAdamConfig(),
		Seed:         42,
	}
}

// Pair is one observed positive interaction expressed in matrix rows.
type Pair struct {
	User int
	Item int
}

// TwoTower scores the probability that a user interacts with an item.
//
// The user and item embeddings are concatenated and passed through two
// tanh projections and a logistic output unit:
//
//	p(u,i) = sigmoid(w3 . tanh(W2 tanh(W1 [e_u; e_i] + b1) + b2) + b3)
//
// Training minimizes binary cross-entropy where every observed pair carries
// label 1. No negatives are sampled.
type TwoTower struct {
	config   TwoTowerConfig
	numUsers int
	numItems int
	rng      *rand.Rand

	userEmb *param // numUsers x dim
	itemEmb *param // numItems x dim
	w1      *param // hidden1 x 2*dim
	b1      *param
	w2      *param // hidden2 x hidden1
	b2      *param
	w3      *param // hidden2
	b3      *param // 1

	params []*param
	opt    *adam
}

// NewTwoTower creates a freshly initialized model sized for the given
// number of user and item rows.
func NewTwoTower(cfg TwoTowerConfig, numUsers, numItems int) (*TwoTower, error) {
	if numUsers <= 0 || numItems <= 0 {
		return nil, fmt.Errorf("two-tower needs at least one user and one item, got %d users, %d items", numUsers, numItems)
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = 50
	}
	if cfg.Hidden1 <= 0 {
		cfg.Hidden1 = 128
	}
	if cfg.Hidden2 <= 0 {
		cfg.Hidden2 = 64
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 10
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	d := cfg.EmbeddingDim
	t := &TwoTower{
		config:   cfg,
		numUsers: numUsers,
		numItems: numItems,
		rng:      rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // deterministic training, not security
		userEmb:  newParam(numUsers * d),
		itemEmb:  newParam(numItems * d),
		w1:       newParam(cfg.Hidden1 * 2 * d),
		b1:       newParam(cfg.Hidden1),
		w2:       newParam(cfg.Hidden2 * cfg.Hidden1),
		b2:       newParam(cfg.Hidden2),
		w3:       newParam(cfg.Hidden2),
		b3:       newParam(1),
		opt:      newAdam(cfg.Adam),
	}
	t.params = []*param{t.userEmb, t.itemEmb, t.w1, t.b1, t.w2, t.b2, t.w3, t.b3}

	t.uniform(t.userEmb.value, 0.05)
	t.uniform(t.itemEmb.value, 0.05)
	t.uniform(t.w1.value, glorotLimit(2*d, cfg.Hidden1))
	t.uniform(t.w2.value, glorotLimit(cfg.Hidden1, cfg.Hidden2))
	t.uniform(t.w3.value, glorotLimit(cfg.Hidden2, 1))

	return t, nil
}

func glorotLimit(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

func (t *TwoTower) uniform(dst []float64, limit float64) {
	for i := range dst {
		dst[i] = (t.rng.Float64()*2 - 1) * limit
	}
}

// NumUsers returns the number of user rows.
func (t *TwoTower) NumUsers() int { return t.numUsers }

// NumItems returns the number of item rows.
func (t *TwoTower) NumItems() int { return t.numItems }

// Dim returns the embedding width.
func (t *TwoTower) Dim() int { return t.config.EmbeddingDim }

// activations holds the intermediate values of one forward pass.
type activations struct {
	x  []float64
	a1 []float64
	a2 []float64
	p  float64
}

func (t *TwoTower) newActivations() *activations {
	return &activations{
		x:  make([]float64, 2*t.config.EmbeddingDim),
		a1: make([]float64, t.config.Hidden1),
		a2: make([]float64, t.config.Hidden2),
	}
}

func (t *TwoTower) forward(user, item int, act *activations) {
	d := t.config.EmbeddingDim
	copy(act.x[:d], t.userEmb.value[user*d:(user+1)*d])
	copy(act.x[d:], t.itemEmb.value[item*d:(item+1)*d])

	in := 2 * d
	for j := 0; j < t.config.Hidden1; j++ {
		row := t.w1.value[j*in : (j+1)*in]
		act.a1[j] = math.Tanh(dot(row, act.x) + t.b1.value[j])
	}

	h1 := t.config.Hidden1
	for j := 0; j < t.config.Hidden2; j++ {
		row := t.w2.value[j*h1 : (j+1)*h1]
		act.a2[j] = math.Tanh(dot(row, act.a1) + t.b2.value[j])
	}

	act.p = sigmoid(dot(t.w3.value, act.a2) + t.b3.value[0])
}

// backward accumulates the gradient of the loss for label 1, scaled by
// 1/batch, into every parameter's grad slice.
func (t *TwoTower) backward(user, item int, act *activations, scale float64, da1, da2 []float64) {
	d := t.config.EmbeddingDim
	in := 2 * d
	h1, h2 := t.config.Hidden1, t.config.Hidden2

	// d(-log p)/dz for a sigmoid output with target 1.
	dz3 := (act.p - 1) * scale

	for j := 0; j < h2; j++ {
		t.w3.grad[j] += dz3 * act.a2[j]
		da2[j] = dz3 * t.w3.value[j] * (1 - act.a2[j]*act.a2[j])
	}
	t.b3.grad[0] += dz3

	for i := range da1 {
		da1[i] = 0
	}
	for j := 0; j < h2; j++ {
		dz := da2[j]
		t.b2.grad[j] += dz
		row := t.w2.value[j*h1 : (j+1)*h1]
		grow := t.w2.grad[j*h1 : (j+1)*h1]
		for k := 0; k < h1; k++ {
			grow[k] += dz * act.a1[k]
			da1[k] += dz * row[k]
		}
	}

	ug := t.userEmb.grad[user*d : (user+1)*d]
	ig := t.itemEmb.grad[item*d : (item+1)*d]
	for j := 0; j < h1; j++ {
		dz := da1[j] * (1 - act.a1[j]*act.a1[j])
		t.b1.grad[j] += dz
		row := t.w1.value[j*in : (j+1)*in]
		grow := t.w1.grad[j*in : (j+1)*in]
		for k := 0; k < in; k++ {
			grow[k] += dz * act.x[k]
		}
		for k := 0; k < d; k++ {
			ug[k] += dz * row[k]
			ig[k] += dz * row[d+k]
		}
	}
}

// Fit trains the model on the given positive pairs and returns the mean
// loss of the final epoch.
func (t *TwoTower) Fit(ctx context.Context, pairs []Pair) (float64, error) {
	if len(pairs) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	for _, p := range pairs {
		if p.User < 0 || p.User >= t.numUsers || p.Item < 0 || p.Item >= t.numItems {
			return 0, fmt.Errorf("pair (%d,%d) out of range for %dx%d model", p.User, p.Item, t.numUsers, t.numItems)
		}
	}

	order := make([]int, len(pairs))
	for i := range order {
		order[i] = i
	}

	act := t.newActivations()
	da1 := make([]float64, t.config.Hidden1)
	da2 := make([]float64, t.config.Hidden2)

	var epochLoss float64
	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		t.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		epochLoss = 0
		for start := 0; start < len(order); start += t.config.BatchSize {
			end := min(start+t.config.BatchSize, len(order))
			scale := 1.0 / float64(end-start)

			for _, p := range t.params {
				p.zeroGrad()
			}
			for _, idx := range order[start:end] {
				pair := pairs[idx]
				t.forward(pair.User, pair.Item, act)
				epochLoss -= math.Log(clip(act.p, lossClip, 1-lossClip))
				t.backward(pair.User, pair.Item, act, scale, da1, da2)
			}
			t.opt.update(t.params)
		}
		epochLoss /= float64(len(pairs))
	}

	return epochLoss, nil
}

// score returns the interaction probability for one (user row, item row).
func (t *TwoTower) score(user, item int) float64 {
	act := t.newActivations()
	t.forward(user, item, act)
	return act.p
}

// PredictUser scores every item row for the given user row, in row order.
func (t *TwoTower) PredictUser(user int) ([]float64, error) {
	if user < 0 || user >= t.numUsers {
		return nil, fmt.Errorf("user row %d out of range [0,%d)", user, t.numUsers)
	}
	act := t.newActivations()
	scores := make([]float64, t.numItems)
	for item := 0; item < t.numItems; item++ {
		t.forward(user, item, act)
		scores[item] = act.p
	}
	return scores, nil
}

// ItemEmbeddings returns a copy of the item embedding table, one row per item.
func (t *TwoTower) ItemEmbeddings() [][]float64 {
	d := t.config.EmbeddingDim
	out := make([][]float64, t.numItems)
	for i := range out {
		row := make([]float64, d)
		copy(row, t.itemEmb.value[i*d:(i+1)*d])
		out[i] = row
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
