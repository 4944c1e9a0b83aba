// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

// Package resilience provides retry delay calculation for connection
// and publish retries.
package resilience

import (
	"math"
	"math/rand"
	"time"
)

// Strategy selects how retry delays grow between attempts.
type Strategy string

const (
	StrategyNone        Strategy = "none"
	StrategyFixed       Strategy = "fixed"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
	StrategyJittered    Strategy = "jittered"
)

// Config describes a retry delay policy.
type Config struct {
	Strategy      Strategy
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Multiplier    float64
	JitterPercent float64
}

// DefaultConfig returns the policy used for broker connection retries:
// exponential growth with jitter, capped at 30s.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyJittered,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		Multiplier:    2.0,
		JitterPercent: 20,
	}
}

// Calculator computes per-attempt retry delays from a Config.
type Calculator struct {
	cfg Config
	rng *rand.Rand
}

// NewCalculator creates a delay calculator.
func NewCalculator(cfg Config) *Calculator {
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	return &Calculator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay computes the delay for the given attempt (attempt >= 1 means the
// first retry).
func (c *Calculator) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	base := c.cfg.InitialDelay
	switch c.cfg.Strategy {
	case StrategyFixed:
		// base stays unchanged
	case StrategyLinear:
		base = time.Duration(float64(base) * float64(attempt))
	case StrategyExponential, StrategyJittered:
		factor := math.Pow(c.cfg.Multiplier, float64(attempt-1))
		base = time.Duration(float64(base) * factor)
	case StrategyNone:
		return 0
	default:
		// unknown strategy falls back to fixed
	}

	if c.cfg.MaxDelay > 0 && base > c.cfg.MaxDelay {
		base = c.cfg.MaxDelay
	}

	if c.cfg.Strategy == StrategyJittered || c.cfg.JitterPercent > 0 {
		base = c.addJitter(base)
		if c.cfg.MaxDelay > 0 && base > c.cfg.MaxDelay {
			base = c.cfg.MaxDelay
		}
	}

	if base < 0 {
		base = 0
	}
	return base
}

func (c *Calculator) addJitter(base time.Duration) time.Duration {
	if c.cfg.JitterPercent <= 0 {
		return base
	}

	p := c.cfg.JitterPercent
	if p > 100 {
		p = 100
	}
	// scale randomly within [1-p%, 1+p%]
	lo := 1.0 - p/100.0
	hi := 1.0 + p/100.0
	factor := lo + (hi-lo)*c.rng.Float64()
	return time.Duration(float64(base) * factor)
}
