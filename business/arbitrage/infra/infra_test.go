package infra

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/pkg/ui"
)

func quote(t *testing.T, pool string, tier uint32) pricingDomain.PoolQuote {
	t.Helper()
	q, err := pricingDomain.NewPoolQuote(pricingDomain.PoolState{
		Pool:         common.HexToAddress(pool),
		Token0:       common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		Token1:       common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		FeeTier:      tier,
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
		Decimals0:    18,
		Decimals1:    18,
	})
	require.NoError(t, err)
	return q
}

func profitableEvaluation(t *testing.T) *domain.Evaluation {
	t.Helper()
	eval := domain.NewEvaluation(domain.Pair{Index: 0}, 19_000_000, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	eval.MasterSymbol = "DAI"
	eval.ComparisonSymbol = "WETH"
	eval.PoolA.Quote = quote(t, "0x60594a405d53811d3BC4766596EFD80fd545A270", 500)
	eval.PoolB.Quote = quote(t, "0xC2e9F25Be6257c210d7Adf0D4Cd6E3E881ba25f8", 3000)
	eval.PoolA.Fee = domain.EstimatedFee(0.0005)
	eval.PoolB.Fee = domain.FailedFee()
	eval.PoolB.FeeErr = apperror.New(apperror.CodeEstimationFailed, apperror.WithContext("pool=B pair=0"))
	eval.Decision = domain.Evaluate(domain.Inputs{
		PriceA:     1,
		PriceB:     1.10,
		FeeA:       eval.PoolA.Fee,
		FeeB:       eval.PoolB.Fee,
		Thresholds: domain.Thresholds{MinProfit: 0.01},
	})
	eval.GasCost = domain.NewGasCost(250_000, big.NewInt(20_000_000_000))
	return eval
}

func TestDryRunExecutor(t *testing.T) {
	exec := NewDryRunExecutor(logger.NewNop())
	assert.NoError(t, exec.Execute(context.Background(), profitableEvaluation(t)))
}

func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	require.NoError(t, r.Start(context.Background()))
	r.Report(profitableEvaluation(t))
	require.NoError(t, r.Stop())

	out := buf.String()
	assert.Contains(t, out, "ARBITRAGE OPPORTUNITY DETECTED")
	assert.Contains(t, out, "Block:          #19000000")
	assert.Contains(t, out, "Pair:           DAI/WETH")
	assert.Contains(t, out, "Gas (display):  0.005000 native")
	assert.Contains(t, out, "[ESTIMATE]")
	assert.Contains(t, out, "PROFITABLE")
	assert.Contains(t, out, "estimation failed")
}

func TestConsoleReporter_ErrorPrefixPerCode(t *testing.T) {
	tests := []struct {
		code   apperror.Code
		prefix string
	}{
		{apperror.CodePoolNotFound, "[NO POOL]"},
		{apperror.CodeStalePrice, "[STALE]"},
		{apperror.CodeQueryFailed, "[QUERY]"},
		{apperror.CodeInvalidTradeSize, "[SIZE]"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewConsoleReporter(&buf)

			eval := domain.NewEvaluation(domain.Pair{Index: 1}, 7, time.Now())
			eval.Err = apperror.New(tt.code)
			r.Report(eval)

			line := buf.String()
			assert.Contains(t, line, tt.prefix)
			assert.Contains(t, line, "block #7")
			assert.Equal(t, 1, strings.Count(line, "\n"))
		})
	}
}

type recordingSender struct {
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.msgs = append(s.msgs, msg)
}

func TestTUIReporter_ForwardsMessages(t *testing.T) {
	sender := &recordingSender{}
	r := NewTUIReporter(sender)

	require.NoError(t, r.Start(context.Background()))
	r.Report(profitableEvaluation(t))
	r.UpdateConnectionStatus("Ethereum", true, 40*time.Millisecond)

	require.Len(t, sender.msgs, 5)
	assert.Equal(t, ui.StartupMsg{Step: "evaluator", Status: "done"}, sender.msgs[0])
	assert.Equal(t, uint64(19_000_000), sender.msgs[1].(ui.BlockMsg).Number)
	assert.InDelta(t, 20.0, sender.msgs[2].(ui.GasPriceMsg).GweiPrice, 1e-9)
	assert.IsType(t, ui.EvaluationMsg{}, sender.msgs[3])
	assert.Equal(t, ui.ConnectionStatusMsg{Name: "Ethereum", Connected: true, Latency: 40 * time.Millisecond}, sender.msgs[4])
}

func TestTUIReporter_LaterPairsSkipRunMarker(t *testing.T) {
	sender := &recordingSender{}
	r := NewTUIReporter(sender)

	eval := domain.NewEvaluation(domain.Pair{Index: 2}, 10, time.Now())
	r.Report(eval)

	require.Len(t, sender.msgs, 1)
	assert.IsType(t, ui.EvaluationMsg{}, sender.msgs[0])
}
