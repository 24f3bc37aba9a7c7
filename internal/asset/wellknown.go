package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDOptimism = 10
	ChainIDPolygon  = 137
	ChainIDBase     = 8453
	ChainIDArbitrum = 42161
	ChainIDSepolia  = 11155111
)

var (
	AddrWETHEthereum = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrUSDCEthereum = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	AddrUSDTEthereum = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	AddrWBTCEthereum = common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
	AddrDAIEthereum  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

	AddrWETHArbitrum = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	AddrUSDCArbitrum = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")

	// OP-stack predeploy, same on Optimism and Base.
	AddrWETHOPStack  = common.HexToAddress("0x4200000000000000000000000000000000000006")
	AddrUSDCOptimism = common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85")
	AddrUSDCBase     = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	AddrWETHPolygon = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrUSDCPolygon = common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359")

	AddrWETHSepolia = common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14")
)

var (
	WETH = NewToken(ChainIDEthereum, AddrWETHEthereum, "WETH", "Wrapped Ether", 18)
	USDC = NewToken(ChainIDEthereum, AddrUSDCEthereum, "USDC", "USD Coin", 6)
	USDT = NewToken(ChainIDEthereum, AddrUSDTEthereum, "USDT", "Tether USD", 6)
	WBTC = NewToken(ChainIDEthereum, AddrWBTCEthereum, "WBTC", "Wrapped Bitcoin", 8)
	DAI  = NewToken(ChainIDEthereum, AddrDAIEthereum, "DAI", "Dai Stablecoin", 18)
)

// DefaultRegistry returns a registry pre-populated with well-known tokens
// on every supported chain.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, t := range []*Token{WETH, USDC, USDT, WBTC, DAI} {
		r.Register(t)
	}

	r.Register(NewToken(ChainIDArbitrum, AddrWETHArbitrum, "WETH", "Wrapped Ether", 18))
	r.Register(NewToken(ChainIDArbitrum, AddrUSDCArbitrum, "USDC", "USD Coin", 6))

	r.Register(NewToken(ChainIDOptimism, AddrWETHOPStack, "WETH", "Wrapped Ether", 18))
	r.Register(NewToken(ChainIDOptimism, AddrUSDCOptimism, "USDC", "USD Coin", 6))

	r.Register(NewToken(ChainIDBase, AddrWETHOPStack, "WETH", "Wrapped Ether", 18))
	r.Register(NewToken(ChainIDBase, AddrUSDCBase, "USDC", "USD Coin", 6))

	r.Register(NewToken(ChainIDPolygon, AddrWETHPolygon, "WETH", "Wrapped Ether", 18))
	r.Register(NewToken(ChainIDPolygon, AddrUSDCPolygon, "USDC", "USD Coin", 6))

	r.Register(NewToken(ChainIDSepolia, AddrWETHSepolia, "WETH", "Wrapped Ether", 18))

	return r
}
