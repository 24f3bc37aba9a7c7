// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/blockchain/domain"
)

// BlockSubscriber streams new chain heads.
type BlockSubscriber interface {
	// Subscribe starts listening for new blocks and returns a channel of blocks.
	Subscribe(ctx context.Context) (<-chan *domain.Block, error)

	// LatestBlock retrieves the most recent block.
	LatestBlock(ctx context.Context) (*domain.Block, error)

	Status() domain.ConnectionStatus
}

// GasOracle reports the suggested gas price.
type GasOracle interface {
	GasPrice(ctx context.Context) (*domain.GasPrice, error)
}

// ContractCaller performs read-only contract calls. op names the contract
// method for tracing and error context.
type ContractCaller interface {
	Call(ctx context.Context, op string, to common.Address, data []byte) ([]byte, error)
}

// NonceSource hands out account nonces one at a time. The returned release
// must be called exactly once; used=false returns the nonce to the pool.
type NonceSource interface {
	Acquire(ctx context.Context, account common.Address) (nonce uint64, release func(used bool), err error)
}
