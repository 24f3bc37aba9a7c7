// Package uniswap reads Uniswap V3 pools: factory resolution, slot0 and the
// ERC20 metadata needed to normalize prices.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// Fee tiers in Uniswap V3 (in hundredths of a bip)
const (
	FeeTier001 = 100   // 0.01%
	FeeTier005 = 500   // 0.05%
	FeeTier030 = 3000  // 0.30%
	FeeTier100 = 10000 // 1.00%
)

// FactoryABI is the subset of IUniswapV3Factory used to resolve pools.
const FactoryABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenA", "type": "address"},
			{"internalType": "address", "name": "tokenB", "type": "address"},
			{"internalType": "uint24", "name": "fee", "type": "uint24"}
		],
		"name": "getPool",
		"outputs": [{"internalType": "address", "name": "pool", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// PoolABI is the subset of IUniswapV3Pool state we read.
const PoolABI = `[
	{
		"inputs": [],
		"name": "slot0",
		"outputs": [
			{"internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
			{"internalType": "int24", "name": "tick", "type": "int24"},
			{"internalType": "uint16", "name": "observationIndex", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinality", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinalityNext", "type": "uint16"},
			{"internalType": "uint8", "name": "feeProtocol", "type": "uint8"},
			{"internalType": "bool", "name": "unlocked", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token0",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token1",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC20ABI covers the metadata and balance calls plus approve.
const ERC20ABI = `[
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "symbol",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "address", "name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "spender", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// QuoterV2ABI is the ABI for the Uniswap V3 QuoterV2 contract.
// Only includes quoteExactInputSingle which we use for quotes.
const QuoterV2ABI = `[
	{
		"inputs": [
			{
				"components": [
					{"internalType": "address", "name": "tokenIn", "type": "address"},
					{"internalType": "address", "name": "tokenOut", "type": "address"},
					{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
					{"internalType": "uint24", "name": "fee", "type": "uint24"},
					{"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
				],
				"internalType": "struct IQuoterV2.QuoteExactInputSingleParams",
				"name": "params",
				"type": "tuple"
			}
		],
		"name": "quoteExactInputSingle",
		"outputs": [
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"},
			{"internalType": "uint160", "name": "sqrtPriceX96After", "type": "uint160"},
			{"internalType": "uint32", "name": "initializedTicksCrossed", "type": "uint32"},
			{"internalType": "uint256", "name": "gasEstimate", "type": "uint256"}
		],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// SwapRouterABI is the v1 SwapRouter exactInputSingle, which takes a deadline.
const SwapRouterABI = `[
	{
		"inputs": [
			{
				"components": [
					{"internalType": "address", "name": "tokenIn", "type": "address"},
					{"internalType": "address", "name": "tokenOut", "type": "address"},
					{"internalType": "uint24", "name": "fee", "type": "uint24"},
					{"internalType": "address", "name": "recipient", "type": "address"},
					{"internalType": "uint256", "name": "deadline", "type": "uint256"},
					{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
					{"internalType": "uint256", "name": "amountOutMinimum", "type": "uint256"},
					{"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
				],
				"internalType": "struct ISwapRouter.ExactInputSingleParams",
				"name": "params",
				"type": "tuple"
			}
		],
		"name": "exactInputSingle",
		"outputs": [{"internalType": "uint256", "name": "amountOut", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// Parsed ABIs, shared by every reader and estimator.
var (
	FactoryContract    = mustParseABI("factory", FactoryABI)
	PoolContract       = mustParseABI("pool", PoolABI)
	ERC20Contract      = mustParseABI("erc20", ERC20ABI)
	QuoterV2Contract   = mustParseABI("quoterV2", QuoterV2ABI)
	SwapRouterContract = mustParseABI("swapRouter", SwapRouterABI)
)

func mustParseABI(name, def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("parse %s ABI: %v", name, err))
	}
	return parsed
}

// QuoteExactInputSingleParams represents the input params for quoteExactInputSingle.
type QuoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int // uint24
	SqrtPriceLimitX96 *big.Int // uint160, 0 for no limit
}

// QuoteResult represents the output of quoteExactInputSingle.
type QuoteResult struct {
	AmountOut               *big.Int
	SqrtPriceX96After       *big.Int
	InitializedTicksCrossed uint32
	GasEstimate             *big.Int
}

// ExactInputSingleParams represents the input params for SwapRouter.exactInputSingle.
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int // uint24
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int // uint160
}

// contract binds a parsed ABI to the shared caller. Pack and unpack errors
// are reported as QueryFailed alongside transport errors.
type contract struct {
	abi    abi.ABI
	caller app.ContractCaller
}

func (c contract) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, queryFailed(method, to, fmt.Errorf("encode: %w", err))
	}

	out, err := c.caller.Call(ctx, method, to, data)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeQueryFailed) {
			return nil, err
		}
		return nil, queryFailed(method, to, err)
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, queryFailed(method, to, fmt.Errorf("decode: %w", err))
	}
	if len(values) == 0 {
		return nil, queryFailed(method, to, fmt.Errorf("empty result"))
	}
	return values, nil
}

func queryFailed(method string, to common.Address, cause error) error {
	return apperror.New(apperror.CodeQueryFailed,
		apperror.WithCause(cause),
		apperror.WithContextf("lookup=%s to=%s", method, to.Hex()))
}

// CallQuoter simulates quoteExactInputSingle through caller.
func CallQuoter(ctx context.Context, caller app.ContractCaller, quoter common.Address, p QuoteExactInputSingleParams) (*QuoteResult, error) {
	values, err := contract{abi: QuoterV2Contract, caller: caller}.call(ctx, quoter, "quoteExactInputSingle", p)
	if err != nil {
		return nil, err
	}
	if len(values) < 4 {
		return nil, queryFailed("quoteExactInputSingle", quoter, fmt.Errorf("unexpected output length: %d", len(values)))
	}

	return &QuoteResult{
		AmountOut:               values[0].(*big.Int),
		SqrtPriceX96After:       values[1].(*big.Int),
		InitializedTicksCrossed: values[2].(uint32),
		GasEstimate:             values[3].(*big.Int),
	}, nil
}

// BalanceOf reads an ERC20 balance through caller.
func BalanceOf(ctx context.Context, caller app.ContractCaller, token, account common.Address) (*big.Int, error) {
	values, err := contract{abi: ERC20Contract, caller: caller}.call(ctx, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}
