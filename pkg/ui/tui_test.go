package ui

import (
	"errors"
	"math/big"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func dashboard() Model {
	m := New()
	m.phase = PhaseDashboard
	return m
}

func evaluation(t *testing.T, priceB float64) *domain.Evaluation {
	t.Helper()
	q, err := pricingDomain.NewPoolQuote(pricingDomain.PoolState{
		Pool:         common.HexToAddress("0x60594a405d53811d3BC4766596EFD80fd545A270"),
		FeeTier:      500,
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
		Decimals0:    18,
		Decimals1:    18,
	})
	require.NoError(t, err)

	eval := domain.NewEvaluation(domain.Pair{Index: 0}, 100, time.Now())
	eval.PoolA.Quote = q
	eval.PoolB.Quote = q
	eval.Decision = domain.Evaluate(domain.Inputs{
		PriceA:     1,
		PriceB:     priceB,
		FeeA:       domain.EstimatedFee(0.0005),
		FeeB:       domain.EstimatedFee(0.0005),
		Thresholds: domain.Thresholds{MinProfit: 0.01},
	})
	return eval
}

func TestModel_EvaluationUpdatesStats(t *testing.T) {
	m := dashboard()

	m = update(t, m, EvaluationMsg{Evaluation: evaluation(t, 1.10)})
	m = update(t, m, EvaluationMsg{Evaluation: evaluation(t, 1.0)})

	failed := domain.NewEvaluation(domain.Pair{Index: 1}, 100, time.Now())
	failed.Err = apperror.New(apperror.CodeStalePrice)
	m = update(t, m, EvaluationMsg{Evaluation: failed})

	stats := m.stats.Stats()
	assert.EqualValues(t, 3, stats.Evaluations)
	assert.EqualValues(t, 1, stats.Profitable)
	assert.EqualValues(t, 1, stats.Failed)
	assert.Equal(t, 3, m.evaluations.Len())
	require.Len(t, m.errors, 1)
	assert.Equal(t, "STALE", m.errors[0].Label)
}

func TestModel_PauseDropsEvaluations(t *testing.T) {
	m := dashboard()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.True(t, m.paused)

	m = update(t, m, EvaluationMsg{Evaluation: evaluation(t, 1.10)})
	assert.Zero(t, m.evaluations.Len())
}

func TestModel_ClearKeys(t *testing.T) {
	m := dashboard()
	m = update(t, m, EvaluationMsg{Evaluation: evaluation(t, 1.10)})
	m = update(t, m, ErrorMsg{Error: errors.New("subscription dropped")})
	require.Len(t, m.errors, 1)
	assert.Equal(t, "ERROR", m.errors[0].Label)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Zero(t, m.evaluations.Len())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	assert.Empty(t, m.errors)
}

func TestModel_ErrorPanelKeepsLatest(t *testing.T) {
	m := dashboard()
	for i := 0; i < maxErrors+3; i++ {
		m = update(t, m, ErrorMsg{Error: apperror.New(apperror.CodeQueryFailed)})
	}
	assert.Len(t, m.errors, maxErrors)
}

func TestModel_BlockCountsRunsAndLeavesStartup(t *testing.T) {
	m := New()
	m.phase = PhaseStartup

	m = update(t, m, BlockMsg{Number: 42})
	assert.Equal(t, PhaseDashboard, m.phase)
	assert.EqualValues(t, 42, m.currentBlock)
	assert.EqualValues(t, 1, m.stats.Stats().Runs)
}

func TestModel_StartupCompletes(t *testing.T) {
	m := New()
	m.phase = PhaseStartup
	for _, step := range stepOrder {
		m = update(t, m, StartupMsg{Step: step, Status: "done"})
	}
	assert.True(t, m.startupComplete)
	assert.Equal(t, PhaseDashboard, m.phase)
	assert.Contains(t, m.View(), "Pool Arbitrage Evaluator")
}

func TestModel_Quit(t *testing.T) {
	m := dashboard()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
}
