package fee

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	accountApp "github.com/fd1az/pool-arbitrage/business/account/app"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	blockchainApp "github.com/fd1az/pool-arbitrage/business/blockchain/app"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/business/pricing/infra/uniswap"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

var _ app.FeeEstimator = (*Onchain)(nil)

// TxBackend sends transactions and waits for receipts. *ethclient.Client
// satisfies it.
type TxBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// OnchainConfig holds configuration for the on-chain estimator.
type OnchainConfig struct {
	Router            common.Address
	ChainID           *big.Int
	TxGasLimit        uint64
	ConfirmTimeout    time.Duration
	SqrtPriceDeltaBps float64
}

// Onchain measures the fee by approving the router and executing a real
// exactInputSingle, then comparing the token1 balance before and after.
// It spends funds and is only used when explicitly selected.
//
// Estimates for the signer run one at a time: concurrent legs share the
// account, the router allowance and the token1 balance being measured.
type Onchain struct {
	seq sync.Mutex

	config  OnchainConfig
	backend TxBackend
	caller  blockchainApp.ContractCaller
	signer  *accountApp.Signer
	nonces  blockchainApp.NonceSource
	logger  logger.LoggerInterface
	now     func() time.Time
	tracer  trace.Tracer
}

// NewOnchain creates an on-chain estimator. A nil signer makes every
// estimate fail.
func NewOnchain(
	cfg OnchainConfig,
	backend TxBackend,
	caller blockchainApp.ContractCaller,
	signer *accountApp.Signer,
	nonces blockchainApp.NonceSource,
	log logger.LoggerInterface,
) *Onchain {
	return &Onchain{
		config:  cfg,
		backend: backend,
		caller:  caller,
		signer:  signer,
		nonces:  nonces,
		logger:  log,
		now:     time.Now,
		tracer:  otel.Tracer(tracerName),
	}
}

// Estimate swaps amountIn of token0 for token1 on the quote's pool.
func (o *Onchain) Estimate(ctx context.Context, quote pricingDomain.PoolQuote, amountIn *big.Int) (float64, error) {
	ctx, span := apm.Start(ctx, o.tracer, "fee.onchain_estimate",
		attribute.String("pool", quote.Pool().Hex()),
		attribute.Int64("fee_tier", int64(quote.FeeTier())),
	)

	fee, err := o.estimate(ctx, quote, amountIn)
	if err == nil {
		span.SetAttributes(attribute.Float64("fee", fee))
	}
	span.End(err)
	return fee, err
}

func (o *Onchain) estimate(ctx context.Context, quote pricingDomain.PoolQuote, amountIn *big.Int) (float64, error) {
	if o.signer == nil {
		return 0, failed(fmt.Errorf("no signer configured"), "onchain mode requires account.private_key")
	}
	if quote.IsZero() {
		return 0, failed(fmt.Errorf("empty quote"))
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return 0, failed(fmt.Errorf("amount in must be positive"))
	}

	me := o.signer.Address()

	o.seq.Lock()
	defer o.seq.Unlock()

	before, err := uniswap.BalanceOf(ctx, o.caller, quote.Token1(), me)
	if err != nil {
		return 0, failed(err, "balance before swap")
	}

	if _, err := o.send(ctx, quote.Token0(), uniswap.ERC20Contract, "approve", o.config.Router, amountIn); err != nil {
		return 0, failed(err, "approval failed")
	}

	params := uniswap.ExactInputSingleParams{
		TokenIn:           quote.Token0(),
		TokenOut:          quote.Token1(),
		Fee:               big.NewInt(int64(quote.FeeTier())),
		Recipient:         me,
		Deadline:          big.NewInt(o.now().Add(o.config.ConfirmTimeout).Unix()),
		AmountIn:          amountIn,
		AmountOutMinimum:  big.NewInt(0),
		SqrtPriceLimitX96: pricingDomain.SqrtPriceLimit(quote.SqrtPriceX96(), o.config.SqrtPriceDeltaBps),
	}
	receipt, err := o.send(ctx, o.config.Router, uniswap.SwapRouterContract, "exactInputSingle", params)
	if err != nil {
		return 0, failed(err, "swap failed")
	}

	after, err := uniswap.BalanceOf(ctx, o.caller, quote.Token1(), me)
	if err != nil {
		return 0, failed(err, "balance after swap")
	}

	received := new(big.Int).Sub(after, before)
	o.logger.Info(ctx, "onchain fee swap confirmed",
		"pool", quote.Pool().Hex(),
		"tx", receipt.TxHash.Hex(),
		"amount_in", amountIn.String(),
		"received", received.String(),
	)
	return FeeFromOutput(amountIn, received, quote.RawPrice())
}

// send signs and submits one transaction under the account's nonce lock and
// waits for a successful receipt.
func (o *Onchain) send(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*types.Receipt, error) {
	nonce, release, err := o.nonces.Acquire(ctx, o.signer.Address())
	if err != nil {
		return nil, err
	}

	opts, err := o.signer.TransactOpts(ctx, o.config.ChainID)
	if err != nil {
		release(false)
		return nil, err
	}
	opts.Nonce = new(big.Int).SetUint64(nonce)
	opts.GasLimit = o.config.TxGasLimit

	contract := bind.NewBoundContract(to, parsed, o.backend, o.backend, o.backend)
	tx, err := contract.Transact(opts, method, args...)
	release(err == nil)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, o.config.ConfirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, o.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait %s %s: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s %s reverted", method, tx.Hash().Hex())
	}
	return receipt, nil
}
