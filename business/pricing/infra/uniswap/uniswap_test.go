package uniswap

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/asset"
	"github.com/fd1az/pool-arbitrage/internal/cache"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

var (
	factoryAddr = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	poolAddr    = common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640")
	unknownTok  = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type callKey struct {
	to     common.Address
	method string
}

type fakeResult struct {
	out []byte
	err error
}

// fakeCaller answers contract calls with pre-packed ABI outputs.
type fakeCaller struct {
	mu      sync.Mutex
	results map[callKey]fakeResult
	calls   map[callKey]int
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{results: map[callKey]fakeResult{}, calls: map[callKey]int{}}
}

func (f *fakeCaller) respond(t *testing.T, parsed abi.ABI, to common.Address, method string, values ...interface{}) {
	t.Helper()
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	f.results[callKey{to, method}] = fakeResult{out: out}
}

func (f *fakeCaller) fail(to common.Address, method string, err error) {
	f.results[callKey{to, method}] = fakeResult{err: err}
}

func (f *fakeCaller) count(to common.Address, method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[callKey{to, method}]
}

func (f *fakeCaller) Call(_ context.Context, op string, to common.Address, _ []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := callKey{to, op}
	f.calls[k]++
	r, ok := f.results[k]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return r.out, r.err
}

func newFactory(c *fakeCaller) *Factory {
	return NewFactory(factoryAddr, c, cache.New[domain.PoolKey, common.Address](16, 0))
}

func TestFactory_GetPool(t *testing.T) {
	c := newFakeCaller()
	c.respond(t, FactoryContract, factoryAddr, "getPool", poolAddr)
	f := newFactory(c)

	got, err := f.GetPool(context.Background(), asset.WETH.Address(), asset.USDC.Address(), FeeTier005)
	require.NoError(t, err)
	assert.Equal(t, poolAddr, got)

	_, err = f.GetPool(context.Background(), asset.WETH.Address(), asset.USDC.Address(), FeeTier005)
	require.NoError(t, err)
	assert.Equal(t, 1, c.count(factoryAddr, "getPool"), "resolved pools are cached")
}

func TestFactory_ZeroAddressIsPoolNotFound(t *testing.T) {
	c := newFakeCaller()
	c.respond(t, FactoryContract, factoryAddr, "getPool", common.Address{})
	f := newFactory(c)

	_, err := f.GetPool(context.Background(), asset.WETH.Address(), unknownTok, FeeTier030)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePoolNotFound))
	assert.Contains(t, err.Error(), "fee=3000")

	_, _ = f.GetPool(context.Background(), asset.WETH.Address(), unknownTok, FeeTier030)
	assert.Equal(t, 2, c.count(factoryAddr, "getPool"), "misses are not cached")
}

func TestFactory_TransportErrorIsQueryFailed(t *testing.T) {
	c := newFakeCaller()
	boom := errors.New("connection reset")
	c.fail(factoryAddr, "getPool", boom)
	f := newFactory(c)

	_, err := f.GetPool(context.Background(), asset.WETH.Address(), asset.USDC.Address(), FeeTier005)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeQueryFailed))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "lookup=getPool")
}

func TestPoolReader_Slot0(t *testing.T) {
	c := newFakeCaller()
	sqrt := new(big.Int).Lsh(big.NewInt(1), 96)
	c.respond(t, PoolContract, poolAddr, "slot0",
		sqrt, big.NewInt(-201000), uint16(1), uint16(2), uint16(3), uint8(0), true)

	r, err := NewPoolReader(c, 16)
	require.NoError(t, err)

	s, err := r.Slot0(context.Background(), poolAddr)
	require.NoError(t, err)
	assert.Equal(t, sqrt, s.SqrtPriceX96)
	assert.EqualValues(t, -201000, s.Tick)
	assert.True(t, s.Unlocked)
}

func TestPoolReader_Slot0Malformed(t *testing.T) {
	c := newFakeCaller()
	c.results[callKey{poolAddr, "slot0"}] = fakeResult{out: []byte{0x01, 0x02}}

	r, err := NewPoolReader(c, 16)
	require.NoError(t, err)

	_, err = r.Slot0(context.Background(), poolAddr)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeQueryFailed))
	assert.Contains(t, err.Error(), "lookup=slot0")
}

func TestPoolReader_TokensCached(t *testing.T) {
	c := newFakeCaller()
	c.respond(t, PoolContract, poolAddr, "token0", asset.USDC.Address())
	c.respond(t, PoolContract, poolAddr, "token1", asset.WETH.Address())

	r, err := NewPoolReader(c, 16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		t0, t1, err := r.Tokens(context.Background(), poolAddr)
		require.NoError(t, err)
		assert.Equal(t, asset.USDC.Address(), t0)
		assert.Equal(t, asset.WETH.Address(), t1)
	}
	assert.Equal(t, 1, c.count(poolAddr, "token0"))
	assert.Equal(t, 1, c.count(poolAddr, "token1"))
}

func TestTokenReader_Decimals(t *testing.T) {
	tests := []struct {
		name      string
		token     common.Address
		setup     func(*testing.T, *fakeCaller)
		want      uint8
		wantCalls int
		wantCode  apperror.Code
	}{
		{
			name:  "registry_hit",
			token: asset.USDC.Address(),
			setup: func(*testing.T, *fakeCaller) {},
			want:  6,
		},
		{
			name:  "onchain",
			token: unknownTok,
			setup: func(t *testing.T, c *fakeCaller) {
				c.respond(t, ERC20Contract, unknownTok, "decimals", uint8(8))
				c.respond(t, ERC20Contract, unknownTok, "symbol", "FOO")
			},
			want:      8,
			wantCalls: 1,
		},
		{
			name:  "symbol_failure_tolerated",
			token: unknownTok,
			setup: func(t *testing.T, c *fakeCaller) {
				c.respond(t, ERC20Contract, unknownTok, "decimals", uint8(18))
			},
			want:      18,
			wantCalls: 1,
		},
		{
			name:  "decimals_failure",
			token: unknownTok,
			setup: func(_ *testing.T, c *fakeCaller) {
				c.fail(unknownTok, "decimals", errors.New("timeout"))
			},
			wantCalls: 1,
			wantCode:  apperror.CodeQueryFailed,
		},
		{
			name:  "implausible_decimals",
			token: unknownTok,
			setup: func(t *testing.T, c *fakeCaller) {
				c.respond(t, ERC20Contract, unknownTok, "decimals", uint8(77))
			},
			wantCalls: 1,
			wantCode:  apperror.CodeQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeCaller()
			tt.setup(t, c)
			r := NewTokenReader(asset.ChainIDEthereum, c, asset.DefaultRegistry(), logger.NewNop())

			got, err := r.Decimals(context.Background(), tt.token)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, tt.wantCode))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)

				// Second lookup is served from the registry.
				_, err = r.Decimals(context.Background(), tt.token)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, c.count(tt.token, "decimals"))
		})
	}
}

func TestTokenReader_RegistersSymbol(t *testing.T) {
	c := newFakeCaller()
	c.respond(t, ERC20Contract, unknownTok, "decimals", uint8(8))
	c.respond(t, ERC20Contract, unknownTok, "symbol", "FOO")
	reg := asset.DefaultRegistry()
	r := NewTokenReader(asset.ChainIDEthereum, c, reg, logger.NewNop())

	tok, err := r.Token(context.Background(), unknownTok)
	require.NoError(t, err)
	assert.Equal(t, "FOO", tok.Symbol())

	got, ok := reg.GetBySymbol(asset.ChainIDEthereum, "foo")
	require.True(t, ok)
	assert.True(t, got.Equals(tok))
}

func TestCallQuoter(t *testing.T) {
	quoter := common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	c := newFakeCaller()
	c.respond(t, QuoterV2Contract, quoter, "quoteExactInputSingle",
		big.NewInt(997), big.NewInt(12345), uint32(2), big.NewInt(90000))

	res, err := CallQuoter(context.Background(), c, quoter, QuoteExactInputSingleParams{
		TokenIn:           asset.USDC.Address(),
		TokenOut:          asset.WETH.Address(),
		AmountIn:          big.NewInt(1000),
		Fee:               big.NewInt(FeeTier030),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 997, res.AmountOut.Int64())
	assert.EqualValues(t, 2, res.InitializedTicksCrossed)
	assert.EqualValues(t, 90000, res.GasEstimate.Int64())
}

func TestBalanceOf(t *testing.T) {
	owner := common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")
	c := newFakeCaller()
	c.respond(t, ERC20Contract, asset.WETH.Address(), "balanceOf", big.NewInt(42))

	got, err := BalanceOf(context.Background(), c, asset.WETH.Address(), owner)
	require.NoError(t, err)
	assert.EqualValues(t, 42, got.Int64())
}
