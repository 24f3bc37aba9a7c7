// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/pool-arbitrage/internal/asset"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/health"
	"github.com/fd1az/pool-arbitrage/internal/httpclient"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/network"
	"github.com/fd1az/pool-arbitrage/internal/ratelimit"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Network() network.Network
	EthClient() *ethclient.Client
	AssetRegistry() *asset.Registry
	Health() *health.Server
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	network       network.Network
	ethClient     *ethclient.Client
	assetRegistry *asset.Registry
	health        *health.Server
	container     di.Container
}

// New resolves the configured network, dials its HTTP endpoint through the
// instrumented client and registers the shared services. Modules only ever
// see the dialled client.
func New(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	net, ep, err := cfg.Chain.Resolve()
	if err != nil {
		return nil, err
	}

	httpClient, err := httpclient.New(httpclient.Options{
		ProviderName:   net.String(),
		RequestTimeout: cfg.RPC.CallTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	rpcClient, err := rpc.DialOptions(ctx, ep.HTTPURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", net, err)
	}
	ethClient := ethclient.NewClient(rpcClient)

	var hs *health.Server
	if cfg.Health.Enabled {
		hs = health.NewServer(cfg.Health.Port, cfg.App.Name, log)
	}

	container := di.NewContainer()

	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("network", net)
	container.Register("endpoint", ep)
	container.Register("ethClient", ethClient)
	container.Register("assetRegistry", asset.DefaultRegistry())
	container.Register("rateLimiter", ratelimit.New(cfg.RPC.RequestsPerSecond, cfg.RPC.Burst))

	return &app{
		config:        cfg,
		logger:        log,
		network:       net,
		ethClient:     ethClient,
		assetRegistry: container.Get("assetRegistry").(*asset.Registry),
		health:        hs,
		container:     container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Network() network.Network {
	return a.network
}

func (a *app) EthClient() *ethclient.Client {
	return a.ethClient
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

// Health returns the health server, or nil when disabled.
func (a *app) Health() *health.Server {
	return a.health
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules, then the health server.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	if a.health != nil {
		return a.health.Start()
	}
	return nil
}

// Close closes all resources.
func (a *app) Close(ctx context.Context) error {
	var err error
	if a.health != nil {
		err = a.health.Stop(ctx)
	}
	if a.ethClient != nil {
		a.ethClient.Close()
	}
	return err
}
