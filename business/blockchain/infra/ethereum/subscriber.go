package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/business/blockchain/domain"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/circuitbreaker"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

var _ app.BlockSubscriber = (*Subscriber)(nil)

// HeadSource reads the latest header; ethclient.Client over HTTP satisfies it.
type HeadSource interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// HeadStreamer is a HeadSource that can also push new heads (a WS client).
type HeadStreamer interface {
	HeadSource
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
	Close()
}

// DialFunc opens a streaming client.
type DialFunc func(ctx context.Context, url string) (HeadStreamer, error)

func dialEthclient(ctx context.Context, url string) (HeadStreamer, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// SubscriberConfig holds configuration for the head subscriber.
type SubscriberConfig struct {
	WSURL          string        // streaming endpoint; empty means poll only
	PollInterval   time.Duration // HTTP polling interval
	InitialBackoff time.Duration // first WS reconnect delay
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = unlimited
	BufferSize     int
}

// DefaultSubscriberConfig returns sensible defaults.
func DefaultSubscriberConfig(wsURL string) SubscriberConfig {
	return SubscriberConfig{
		WSURL:          wsURL,
		PollInterval:   12 * time.Second, // ~1 block time
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		BufferSize:     16,
	}
}

type subscriberMetrics struct {
	blocksReceived   metric.Int64Counter
	subscribeErrors  metric.Int64Counter
	connectionState  metric.Int64Gauge
	httpFallbackUsed metric.Int64Counter
}

// Subscriber streams heads over WS when available and polls over HTTP while
// the stream is down. Blocks are delivered at most once, in increasing order.
type Subscriber struct {
	config SubscriberConfig
	logger logger.LoggerInterface
	http   HeadSource
	dial   DialFunc

	state      atomic.Value // domain.ConnectionState
	usingHTTP  atomic.Bool
	lastBlock  atomic.Uint64
	reconnects atomic.Int32

	startOnce sync.Once
	blocks    chan *domain.Block
	cancel    context.CancelFunc
	stopped   chan struct{}

	httpCB *circuitbreaker.CircuitBreaker[*types.Header]

	tracer  trace.Tracer
	metrics *subscriberMetrics
}

// NewSubscriber creates a subscriber. http is the shared HTTP client used
// for polling and LatestBlock.
func NewSubscriber(cfg SubscriberConfig, http HeadSource, log logger.LoggerInterface) (*Subscriber, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 12 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}

	s := &Subscriber{
		config:  cfg,
		logger:  log,
		http:    http,
		dial:    dialEthclient,
		blocks:  make(chan *domain.Block, cfg.BufferSize),
		stopped: make(chan struct{}),
		tracer:  otel.Tracer(tracerName),
	}
	s.state.Store(domain.StateDisconnected)

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("eth-head")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	s.httpCB = circuitbreaker.New[*types.Header](cbCfg)

	return s, nil
}

func (s *Subscriber) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &subscriberMetrics{}

	s.metrics.blocksReceived, err = meter.Int64Counter(
		"eth_blocks_received_total",
		metric.WithDescription("Total Ethereum blocks received"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return err
	}

	s.metrics.subscribeErrors, err = meter.Int64Counter(
		"eth_subscribe_errors_total",
		metric.WithDescription("Total Ethereum subscription errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.connectionState, err = meter.Int64Gauge(
		"eth_connection_state",
		metric.WithDescription("Connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	s.metrics.httpFallbackUsed, err = meter.Int64Counter(
		"eth_http_fallback_total",
		metric.WithDescription("Times HTTP polling took over from the stream"),
		metric.WithUnit("{fallback}"),
	)
	return err
}

// Subscribe starts the head loop once and returns its channel. The channel
// is closed when ctx ends or Close is called.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan *domain.Block, error) {
	started := false
	s.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		started = true
		go s.run(runCtx)
	})
	if !started {
		return nil, apperror.New(apperror.CodeEthereumSubscribeFailed,
			apperror.WithContext("subscriber already started"))
	}
	return s.blocks, nil
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.stopped)
	defer close(s.blocks)
	defer s.setState(ctx, domain.StateDisconnected)

	s.setState(ctx, domain.StateConnecting)

	if s.config.WSURL == "" {
		s.poll(ctx, 0)
		return
	}

	backoff := s.config.InitialBackoff
	attempts := 0
	for ctx.Err() == nil {
		received, err := s.stream(ctx)
		if ctx.Err() != nil {
			return
		}
		if received {
			backoff = s.config.InitialBackoff
			attempts = 0
		}
		attempts++
		s.reconnects.Add(1)
		s.metrics.subscribeErrors.Add(ctx, 1)
		s.logger.Warn(ctx, "head stream ended, polling until reconnect",
			"error", err, "attempt", attempts, "backoff", backoff)

		if s.config.MaxReconnects > 0 && attempts > s.config.MaxReconnects {
			s.logger.Warn(ctx, "ws reconnects exhausted, staying on http polling")
			s.poll(ctx, 0)
			return
		}

		s.setState(ctx, domain.StateReconnecting)
		s.metrics.httpFallbackUsed.Add(ctx, 1)
		s.poll(ctx, backoff)

		backoff *= 2
		if backoff > s.config.MaxBackoff {
			backoff = s.config.MaxBackoff
		}
	}
}

// stream runs one WS subscription until it fails. received reports whether
// at least one head arrived, which resets the backoff.
func (s *Subscriber) stream(ctx context.Context) (received bool, err error) {
	client, err := s.dial(ctx, s.config.WSURL)
	if err != nil {
		return false, err
	}
	defer client.Close()

	headers := make(chan *types.Header, s.config.BufferSize)
	sub, err := client.SubscribeNewHead(ctx, headers)
	if err != nil {
		return false, err
	}
	defer sub.Unsubscribe()

	s.usingHTTP.Store(false)
	s.setState(ctx, domain.StateConnected)
	s.logger.Info(ctx, "subscribed to new heads via ws")

	for {
		select {
		case <-ctx.Done():
			return received, ctx.Err()
		case err := <-sub.Err():
			return received, err
		case h := <-headers:
			if h == nil {
				continue
			}
			received = true
			s.emit(ctx, h, false)
		}
	}
}

// poll reads the latest head every PollInterval. d > 0 bounds how long it
// polls; d == 0 polls until ctx ends.
func (s *Subscriber) poll(ctx context.Context, d time.Duration) {
	s.usingHTTP.Store(true)
	s.setState(ctx, domain.StateConnected)

	var deadline <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Subscriber) pollOnce(ctx context.Context) {
	header, err := s.httpCB.Execute(func() (*types.Header, error) {
		return s.http.HeaderByNumber(ctx, nil)
	})
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error(ctx, "http poll failed", "error", err)
			s.metrics.subscribeErrors.Add(ctx, 1)
		}
		return
	}
	s.emit(ctx, header, true)
}

// emit converts and forwards a header unless it is not newer than the last
// one seen. A full buffer drops the block; the next head supersedes it.
func (s *Subscriber) emit(ctx context.Context, header *types.Header, fromHTTP bool) {
	block := headerToBlock(header)
	for {
		last := s.lastBlock.Load()
		if block.Number <= last {
			return
		}
		if s.lastBlock.CompareAndSwap(last, block.Number) {
			break
		}
	}

	select {
	case s.blocks <- block:
		s.metrics.blocksReceived.Add(ctx, 1, metric.WithAttributes(attribute.Bool("from_http", fromHTTP)))
		s.logger.Debug(ctx, "block received", "number", block.Number, "from_http", fromHTTP)
	default:
		s.logger.Warn(ctx, "block dropped, buffer full", "number", block.Number)
	}
}

func headerToBlock(header *types.Header) *domain.Block {
	return &domain.Block{
		Number:    header.Number.Uint64(),
		Hash:      header.Hash(),
		Timestamp: time.Unix(int64(header.Time), 0),
		BaseFee:   header.BaseFee,
	}
}

// LatestBlock retrieves the most recent block over HTTP.
func (s *Subscriber) LatestBlock(ctx context.Context) (*domain.Block, error) {
	ctx, span := apm.Start(ctx, s.tracer, "eth.latest_block")

	header, err := s.httpCB.Execute(func() (*types.Header, error) {
		return s.http.HeaderByNumber(ctx, nil)
	})
	if err != nil {
		err = apperror.New(apperror.CodeBlockNotFound,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch latest block"))
		span.End(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("block_number", header.Number.Int64()))
	span.End(nil)
	return headerToBlock(header), nil
}

// Status returns a snapshot for display and health checks.
func (s *Subscriber) Status() domain.ConnectionStatus {
	return domain.ConnectionStatus{
		State:      s.state.Load().(domain.ConnectionState),
		LastBlock:  s.lastBlock.Load(),
		Reconnects: int(s.reconnects.Load()),
		UsingHTTP:  s.usingHTTP.Load(),
	}
}

// Close stops the loop and waits for the channel to close.
func (s *Subscriber) Close() error {
	started := true
	s.startOnce.Do(func() { started = false })
	if !started {
		return nil
	}
	s.cancel()
	<-s.stopped
	return nil
}

func (s *Subscriber) setState(ctx context.Context, state domain.ConnectionState) {
	s.state.Store(state)
	s.metrics.connectionState.Record(context.WithoutCancel(ctx), state.GaugeValue())
}
