package uniswap

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/asset"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

const maxDecimals = 36

// TokenReader resolves ERC20 metadata. Well-known tokens come from the
// registry; anything else is read on-chain once and registered.
type TokenReader struct {
	chainID  uint64
	contract contract
	registry *asset.Registry
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewTokenReader creates a token reader for chainID.
func NewTokenReader(chainID uint64, caller app.ContractCaller, registry *asset.Registry, log logger.LoggerInterface) *TokenReader {
	return &TokenReader{
		chainID:  chainID,
		contract: contract{abi: ERC20Contract, caller: caller},
		registry: registry,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Decimals returns the token's decimals.
func (r *TokenReader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	t, err := r.Token(ctx, token)
	if err != nil {
		return 0, err
	}
	return t.Decimals(), nil
}

// Token returns the registered token, loading and registering it on a miss.
// A failing symbol() is tolerated; decimals() is not.
func (r *TokenReader) Token(ctx context.Context, token common.Address) (*asset.Token, error) {
	if t, ok := r.registry.Get(r.chainID, token); ok {
		return t, nil
	}
	if token == (common.Address{}) {
		return nil, queryFailed("decimals", token, fmt.Errorf("zero token address"))
	}

	ctx, span := apm.Start(ctx, r.tracer, "erc20.metadata", attribute.String("token", token.Hex()))

	values, err := r.contract.call(ctx, token, "decimals")
	if err != nil {
		span.End(err)
		return nil, err
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		err = queryFailed("decimals", token, errUnexpectedType(values[0]))
		span.End(err)
		return nil, err
	}
	if decimals > maxDecimals {
		err = queryFailed("decimals", token, fmt.Errorf("implausible decimals %d", decimals))
		span.End(err)
		return nil, err
	}

	var symbol string
	if values, err := r.contract.call(ctx, token, "symbol"); err == nil {
		symbol, _ = values[0].(string)
	} else {
		r.logger.Debug(ctx, "symbol lookup failed", "token", token.Hex(), "error", err)
	}

	t := r.registry.Register(asset.NewToken(r.chainID, token, symbol, "", decimals))
	span.SetAttributes(attribute.Int("decimals", int(decimals)), attribute.String("symbol", t.Symbol()))
	span.End(nil)
	return t, nil
}
