// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package algorithms

import "math"

// AdamConfig contains the hyperparameters of the Adam optimizer.
type AdamConfig struct {
	// LearningRate is the base step size.
	// Default: 0.001.
	LearningRate float64

	// Beta1 is the decay rate of the first moment estimate.
	// Default: 0.9.
	Beta1 float64

	// Beta2 is the decay rate of the second moment estimate.
	// Default: 0.999.
	Beta2 float64

	// Epsilon guards the denominator of the update.
	// Default: 1e-7.
	Epsilon float64
}

// DefaultAdamConfig returns the usual Adam defaults.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
	}
}

// param is one trainable tensor stored as a flat slice together with its
// gradient accumulator and Adam moment estimates.
type param struct {
	value []float64
	grad  []float64
	m     []float64
	v     []float64
}

func newParam(n int) *param {
	return &param{
		value: make([]float64, n),
		grad:  make([]float64, n),
		m:     make([]float64, n),
		v:     make([]float64, n),
	}
}

func (p *param) zeroGrad() {
	for i := range p.grad {
		p.grad[i] = 0
	}
}

// adam applies bias-corrected Adam updates to every parameter densely.
// Moments of rows that received no gradient in a step still decay, the
// same as a dense optimizer applied to embedding tables.
type adam struct {
	config AdamConfig
	step   int
}

func newAdam(cfg AdamConfig) *adam {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.Beta1 <= 0 || cfg.Beta1 >= 1 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 <= 0 || cfg.Beta2 >= 1 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = 1e-7
	}
	return &adam{config: cfg}
}

func (a *adam) update(params []*param) {
	a.step++
	b1, b2 := a.config.Beta1, a.config.Beta2
	t := float64(a.step)
	lrT := a.config.LearningRate * math.Sqrt(1-math.Pow(b2, t)) / (1 - math.Pow(b1, t))

	for _, p := range params {
		for i, g := range p.grad {
			p.m[i] = b1*p.m[i] + (1-b1)*g
			p.v[i] = b2*p.v[i] + (1-b2)*g*g
			p.value[i] -= lrT * p.m[i] / (math.Sqrt(p.v[i]) + a.config.Epsilon)
		}
	}
}
