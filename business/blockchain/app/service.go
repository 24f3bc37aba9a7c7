package app

import (
	"context"

	"github.com/fd1az/pool-arbitrage/business/blockchain/domain"
)

// BlockchainService is the blockchain context's public facade.
type BlockchainService struct {
	subscriber BlockSubscriber
	gasOracle  GasOracle
}

// NewBlockchainService creates a new BlockchainService.
func NewBlockchainService(subscriber BlockSubscriber, gasOracle GasOracle) *BlockchainService {
	return &BlockchainService{
		subscriber: subscriber,
		gasOracle:  gasOracle,
	}
}

// SubscribeBlocks starts the block subscription and returns the channel.
func (s *BlockchainService) SubscribeBlocks(ctx context.Context) (<-chan *domain.Block, error) {
	return s.subscriber.Subscribe(ctx)
}

// LatestBlock returns the current head.
func (s *BlockchainService) LatestBlock(ctx context.Context) (*domain.Block, error) {
	return s.subscriber.LatestBlock(ctx)
}

// GasPrice returns the suggested gas price. Failures are non-fatal for
// callers that only display it, so they get nil and the error.
func (s *BlockchainService) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return s.gasOracle.GasPrice(ctx)
}

// Status returns the subscriber's connection status.
func (s *BlockchainService) Status() domain.ConnectionStatus {
	return s.subscriber.Status()
}
