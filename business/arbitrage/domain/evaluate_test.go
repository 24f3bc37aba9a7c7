package domain

import (
	"math"
	"testing"
)

func zeroCosts() Thresholds {
	return Thresholds{}
}

func TestEvaluate_EqualPricesNotProfitable(t *testing.T) {
	d := Evaluate(Inputs{
		PriceA:     1.0,
		PriceB:     1.0,
		FeeA:       EstimatedFee(0),
		FeeB:       EstimatedFee(0),
		Thresholds: zeroCosts(),
	})

	for _, r := range []DirectionResult{d.AToB, d.BToA} {
		if r.Cost != 1.0 {
			t.Errorf("%s cost = %v, want exactly 1.0", r.Direction, r.Cost)
		}
		if r.Profitable {
			t.Errorf("%s must not be profitable at cost 1.0", r.Direction)
		}
	}
	if d.Profitable {
		t.Error("decision must not be profitable")
	}
}

func TestEvaluate_BToAProfitable(t *testing.T) {
	d := Evaluate(Inputs{
		PriceA:     1.0,
		PriceB:     1.10,
		FeeA:       EstimatedFee(0),
		FeeB:       EstimatedFee(0),
		Thresholds: Thresholds{MinProfit: 0.01},
	})

	if !d.BToA.Profitable {
		t.Errorf("BToA cost = %v, want profitable", d.BToA.Cost)
	}
	if math.Abs(d.BToA.Cost-1/1.10) > 1e-12 {
		t.Errorf("BToA cost = %v, want %v", d.BToA.Cost, 1/1.10)
	}
	if d.AToB.Profitable {
		t.Errorf("AToB cost = %v, want not profitable", d.AToB.Cost)
	}
	if !d.Profitable {
		t.Error("decision must be profitable when one direction is")
	}
	if best := d.Best(); best.Direction != DirectionBToA {
		t.Errorf("Best() = %s, want %s", best.Direction, DirectionBToA)
	}
}

func TestEvaluate_Thresholds(t *testing.T) {
	tests := []struct {
		name       string
		priceA     float64
		priceB     float64
		th         Thresholds
		wantCost   float64
		wantProfit bool
	}{
		{
			name:       "slippage_applied_after_ratio",
			priceA:     1.0,
			priceB:     1.10,
			th:         Thresholds{SlippagePercent: 0.5},
			wantCost:   (1 / 1.10) * 1.005,
			wantProfit: true,
		},
		{
			name:       "gas_added_last",
			priceA:     1.0,
			priceB:     1.10,
			th:         Thresholds{SlippagePercent: 0.5, GasLimit: 0.05},
			wantCost:   (1/1.10)*1.005 + 0.05,
			wantProfit: true,
		},
		{
			name:       "gas_eats_margin",
			priceA:     1.0,
			priceB:     1.10,
			th:         Thresholds{GasLimit: 0.1},
			wantCost:   1/1.10 + 0.1,
			wantProfit: false,
		},
		{
			name:       "margin_below_min_profit",
			priceA:     1.0,
			priceB:     1.01,
			th:         Thresholds{MinProfit: 0.02},
			wantCost:   1 / 1.01,
			wantProfit: false,
		},
		{
			name:       "margin_equal_min_profit",
			priceA:     0.75,
			priceB:     1.0,
			th:         Thresholds{MinProfit: 0.25},
			wantCost:   0.75,
			wantProfit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(Inputs{
				PriceA:     tt.priceA,
				PriceB:     tt.priceB,
				FeeA:       EstimatedFee(0),
				FeeB:       EstimatedFee(0),
				Thresholds: tt.th,
			})

			if math.Abs(d.BToA.Cost-tt.wantCost) > 1e-12 {
				t.Errorf("BToA cost = %v, want %v", d.BToA.Cost, tt.wantCost)
			}
			if d.BToA.Profitable != tt.wantProfit {
				t.Errorf("BToA profitable = %v, want %v", d.BToA.Profitable, tt.wantProfit)
			}
			if d.BToA.Margin != 1-d.BToA.Cost {
				t.Errorf("margin = %v, want 1 - cost", d.BToA.Margin)
			}
		})
	}
}

func TestEvaluate_FeeUsesSourcePool(t *testing.T) {
	d := Evaluate(Inputs{
		PriceA:     1.0,
		PriceB:     1.10,
		FeeA:       EstimatedFee(0.003),
		FeeB:       EstimatedFee(0.0005),
		Thresholds: zeroCosts(),
	})

	if d.BToA.FeeFraction != 0.003 {
		t.Errorf("BToA fee = %v, want pool A's 0.003", d.BToA.FeeFraction)
	}
	if d.AToB.FeeFraction != 0.0005 {
		t.Errorf("AToB fee = %v, want pool B's 0.0005", d.AToB.FeeFraction)
	}
	// The multiplier cancels up to rounding.
	if math.Abs(d.BToA.Cost-1/1.10) > 1e-12 {
		t.Errorf("BToA cost = %v, want %v", d.BToA.Cost, 1/1.10)
	}
}

func TestEvaluate_FailureIsolatedToOneDirection(t *testing.T) {
	in := Inputs{
		PriceA:     1.0,
		PriceB:     1.10,
		FeeA:       FailedFee(),
		FeeB:       EstimatedFee(0),
		Thresholds: Thresholds{MinProfit: 0.01},
	}
	d := Evaluate(in)

	if !d.BToA.EstimationFailed || d.BToA.Profitable {
		t.Errorf("BToA = %+v, want failed and not profitable", d.BToA)
	}
	if math.IsNaN(d.BToA.Cost) {
		t.Error("failed direction cost must not be NaN")
	}
	if d.AToB.EstimationFailed {
		t.Error("AToB must not inherit pool A's failure")
	}

	// Mirror: pool B fails, pool A estimate is fine, prices swapped so AToB
	// would otherwise be the profitable side.
	in = Inputs{
		PriceA:     1.10,
		PriceB:     1.0,
		FeeA:       EstimatedFee(0),
		FeeB:       FailedFee(),
		Thresholds: Thresholds{MinProfit: 0.01},
	}
	d = Evaluate(in)
	if d.AToB.Profitable || !d.AToB.EstimationFailed {
		t.Errorf("AToB = %+v, want failed and not profitable", d.AToB)
	}
	if d.BToA.EstimationFailed {
		t.Error("BToA must not inherit pool B's failure")
	}
	if d.Profitable {
		t.Error("no direction can be profitable")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := Inputs{
		PriceA:     2345.67,
		PriceB:     2351.02,
		FeeA:       EstimatedFee(0.0005),
		FeeB:       EstimatedFee(0.003),
		Thresholds: Thresholds{GasLimit: 0.001, SlippagePercent: 0.5, MinProfit: 0.001},
	}

	first := Evaluate(in)
	for i := 0; i < 100; i++ {
		if got := Evaluate(in); got != first {
			t.Fatalf("run %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestEvaluate_UnusablePricesNeverProfitable(t *testing.T) {
	tests := []struct {
		name   string
		priceA float64
		priceB float64
	}{
		{"zero_target", 1, 0},
		{"zero_source", 0, 1},
		{"negative", -1, 1},
		{"nan", math.NaN(), 1},
		{"inf", math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(Inputs{PriceA: tt.priceA, PriceB: tt.priceB, FeeA: EstimatedFee(0), FeeB: EstimatedFee(0)})
			if d.Profitable {
				t.Errorf("decision = %+v, want not profitable", d)
			}
			if math.IsNaN(d.AToB.Cost) || math.IsNaN(d.BToA.Cost) {
				t.Error("cost must never be NaN")
			}
		})
	}
}

func TestEstimatedFee_OutOfRangeIsFailed(t *testing.T) {
	for _, f := range []float64{-0.1, 1, 1.5, math.NaN()} {
		if !EstimatedFee(f).Failed {
			t.Errorf("EstimatedFee(%v) should be failed", f)
		}
	}
	if EstimatedFee(0.003).Failed {
		t.Error("EstimatedFee(0.003) should succeed")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	in := Inputs{
		PriceA:     2345.67,
		PriceB:     2351.02,
		FeeA:       EstimatedFee(0.0005),
		FeeB:       EstimatedFee(0.003),
		Thresholds: Thresholds{GasLimit: 0.001, SlippagePercent: 0.5, MinProfit: 0.001},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(in)
	}
}
