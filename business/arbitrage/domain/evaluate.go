package domain

import "math"

// FeeEstimate is a pool's estimated fee fraction, or a failed estimate.
type FeeEstimate struct {
	Fraction float64
	Failed   bool
}

// EstimatedFee returns a successful estimate. Fractions outside [0, 1) are
// treated as failed.
func EstimatedFee(fraction float64) FeeEstimate {
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		return FeeEstimate{Failed: true}
	}
	return FeeEstimate{Fraction: fraction}
}

// FailedFee returns a failed estimate.
func FailedFee() FeeEstimate {
	return FeeEstimate{Failed: true}
}

// Thresholds are the per-run cost inputs shared by both directions.
type Thresholds struct {
	GasLimit        float64 // flat cost added after slippage
	SlippagePercent float64
	MinProfit       float64 // fraction
}

// Inputs holds everything Evaluate needs for one pair.
type Inputs struct {
	PriceA     float64
	PriceB     float64
	FeeA       FeeEstimate
	FeeB       FeeEstimate
	Thresholds Thresholds
}

// DirectionResult is the outcome for one direction.
type DirectionResult struct {
	Direction        Direction
	Cost             float64
	Margin           float64
	FeeFraction      float64
	EstimationFailed bool
	Profitable       bool
}

// ArbitrageDecision is the outcome for both directions. It is a plain value
// and can be compared with ==.
type ArbitrageDecision struct {
	AToB       DirectionResult
	BToA       DirectionResult
	Profitable bool
}

// Best returns the profitable direction with the larger margin, or the
// cheaper one when neither is profitable.
func (d ArbitrageDecision) Best() DirectionResult {
	switch {
	case d.AToB.Profitable && !d.BToA.Profitable:
		return d.AToB
	case d.BToA.Profitable && !d.AToB.Profitable:
		return d.BToA
	case d.AToB.Cost <= d.BToA.Cost:
		return d.AToB
	default:
		return d.BToA
	}
}

// Evaluate applies the round-trip cost formula in both directions.
// BToA uses pool A as source and pool B as target with pool A's fee; AToB is
// the mirror. A failed fee estimate only affects its own direction.
func Evaluate(in Inputs) ArbitrageDecision {
	aToB := evaluateDirection(DirectionAToB, in.PriceB, in.PriceA, in.FeeB, in.Thresholds)
	bToA := evaluateDirection(DirectionBToA, in.PriceA, in.PriceB, in.FeeA, in.Thresholds)

	return ArbitrageDecision{
		AToB:       aToB,
		BToA:       bToA,
		Profitable: aToB.Profitable || bToA.Profitable,
	}
}

func evaluateDirection(dir Direction, source, target float64, fee FeeEstimate, th Thresholds) DirectionResult {
	r := DirectionResult{Direction: dir, EstimationFailed: fee.Failed}
	if !fee.Failed {
		r.FeeFraction = fee.Fraction
	}

	r.Cost = Cost(source, target, r.FeeFraction, th.SlippagePercent, th.GasLimit)
	r.Margin = 1 - r.Cost
	r.Profitable = !r.EstimationFailed && r.Cost < 1 && r.Margin >= th.MinProfit
	return r
}

// Cost is the normalized round-trip cost of buying at source and selling at
// target. Unusable prices yield +Inf, never NaN.
func Cost(source, target, feeFraction, slippagePercent, gasLimit float64) float64 {
	if !usablePrice(source) || !usablePrice(target) {
		return math.Inf(1)
	}

	feeMultiplier := 1 - feeFraction
	cost := source * (1 / (target * feeMultiplier)) * feeMultiplier
	cost *= 1 + slippagePercent/100
	cost += gasLimit

	if math.IsNaN(cost) {
		return math.Inf(1)
	}
	return cost
}

func usablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
