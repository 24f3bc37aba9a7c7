package domain

import (
	"math/big"
	"testing"
	"time"
)

func TestGasPrice_Gwei(t *testing.T) {
	tests := []struct {
		name string
		wei  int64
		want float64
	}{
		{"zero", 0, 0},
		{"one_gwei", 1_000_000_000, 1},
		{"thirty_and_half", 30_500_000_000, 30.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGasPrice(big.NewInt(tt.wei), time.Now()).Gwei()
			if got != tt.want {
				t.Errorf("Gwei() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGasPrice_CopiesInput(t *testing.T) {
	wei := big.NewInt(5)
	p := NewGasPrice(wei, time.Now())
	wei.SetInt64(9)
	if p.Wei.Int64() != 5 {
		t.Errorf("snapshot mutated: %s", p.Wei)
	}
}

func TestGasPrice_NilSafe(t *testing.T) {
	var p *GasPrice
	if p.Gwei() != 0 {
		t.Error("nil GasPrice should report 0 gwei")
	}
}

func TestConnectionState_GaugeValue(t *testing.T) {
	states := map[ConnectionState]int64{
		StateDisconnected: 0,
		StateConnecting:   1,
		StateConnected:    2,
		StateReconnecting: 3,
	}
	for s, want := range states {
		if got := s.GaugeValue(); got != want {
			t.Errorf("%s.GaugeValue() = %d, want %d", s, got, want)
		}
	}
}
