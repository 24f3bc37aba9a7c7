// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	blockchainDomain "github.com/fd1az/pool-arbitrage/business/blockchain/domain"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/asset"
)

// QuoteSource produces fresh pool quotes. Implemented by the pricing service.
type QuoteSource interface {
	Quote(ctx context.Context, key pricingDomain.PoolKey) (pricingDomain.PoolQuote, error)
	Token(ctx context.Context, addr common.Address) (*asset.Token, error)
}

// ChainSource supplies run triggers and display-only gas prices.
// Implemented by the blockchain service.
type ChainSource interface {
	SubscribeBlocks(ctx context.Context) (<-chan *blockchainDomain.Block, error)
	LatestBlock(ctx context.Context) (*blockchainDomain.Block, error)
	GasPrice(ctx context.Context) (*blockchainDomain.GasPrice, error)
}

// FeeEstimator measures a pool's effective fee for a token0 -> token1 swap
// of amountIn raw token0 units. Every failure is EstimationFailed.
type FeeEstimator interface {
	Estimate(ctx context.Context, quote pricingDomain.PoolQuote, amountIn *big.Int) (float64, error)
}

// Executor acts on a profitable evaluation.
type Executor interface {
	Execute(ctx context.Context, eval *domain.Evaluation) error
}

// Reporter defines the interface for reporting evaluations.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report sends an evaluation to be displayed/logged. It must not block
	// on I/O slower than a terminal write.
	Report(eval *domain.Evaluation)

	// UpdateConnectionStatus updates a connection status display.
	UpdateConnectionStatus(name string, connected bool, latency time.Duration)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
