// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

// MaxComparisonTokens caps how many tokens are evaluated against the master token.
const MaxComparisonTokens = 5

// Fee estimation modes.
const (
	FeeModeStatic  = "static"
	FeeModeQuoter  = "quoter"
	FeeModeOnchain = "onchain"
)

// Run triggers.
const (
	TriggerBlock    = "block"
	TriggerInterval = "interval"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Chain         ChainConfig         `mapstructure:"chain"`
	Uniswap       UniswapConfig       `mapstructure:"uniswap"`
	Account       AccountConfig       `mapstructure:"account"`
	Arbitrage     ArbitrageConfig     `mapstructure:"arbitrage"`
	FeeEstimation FeeEstimationConfig `mapstructure:"fee_estimation"`
	RPC           RPCConfig           `mapstructure:"rpc"`
	Telemetry     TelemetryConfig     `mapstructure:"telemetry"`
	Health        HealthConfig        `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EndpointConfig is the RPC endpoint pair for one network.
type EndpointConfig struct {
	HTTPURL      string `mapstructure:"http_url"`
	WebSocketURL string `mapstructure:"websocket_url"`
}

// ChainConfig selects the network and its endpoints.
// HTTPURL and WebSocketURL, when set, override the per-network entry.
type ChainConfig struct {
	Network        string                    `mapstructure:"network"`
	HTTPURL        string                    `mapstructure:"http_url"`
	WebSocketURL   string                    `mapstructure:"websocket_url"`
	Endpoints      map[string]EndpointConfig `mapstructure:"endpoints"`
	MaxReconnects  int                       `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration             `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration             `mapstructure:"max_backoff"`
	PollInterval   time.Duration             `mapstructure:"poll_interval"`
}

// Resolve returns the selected network and the endpoint to dial.
func (c *ChainConfig) Resolve() (network.Network, EndpointConfig, error) {
	n, err := network.Parse(c.Network)
	if err != nil {
		return network.Unknown, EndpointConfig{}, err
	}

	ep := c.Endpoints[n.String()]
	if c.HTTPURL != "" {
		ep.HTTPURL = c.HTTPURL
	}
	if c.WebSocketURL != "" {
		ep.WebSocketURL = c.WebSocketURL
	}
	return n, ep, nil
}

// UniswapConfig holds Uniswap V3 contract addresses and the two fee tiers compared.
type UniswapConfig struct {
	FactoryAddress string `mapstructure:"factory_address"`
	RouterAddress  string `mapstructure:"router_address"`
	QuoterAddress  string `mapstructure:"quoter_address"`
	FeeTierA       uint32 `mapstructure:"fee_tier_a"`
	FeeTierB       uint32 `mapstructure:"fee_tier_b"`
}

// AccountConfig holds the signing key. The key is never logged.
type AccountConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

// HasKey reports whether a private key was configured.
func (c AccountConfig) HasKey() bool {
	return strings.TrimSpace(c.PrivateKey) != ""
}

// String redacts the key so the struct is safe to print.
func (c AccountConfig) String() string {
	if c.HasKey() {
		return "AccountConfig{PrivateKey: <redacted>}"
	}
	return "AccountConfig{}"
}

// ArbitrageConfig holds the evaluation thresholds and scheduling.
type ArbitrageConfig struct {
	MasterToken      string        `mapstructure:"master_token"`
	ComparisonTokens []string      `mapstructure:"comparison_tokens"`
	GasLimit         float64       `mapstructure:"gas_limit"`
	SlippagePercent  float64       `mapstructure:"slippage_percent"`
	MinProfit        float64       `mapstructure:"min_profit"`
	TradeAmount      string        `mapstructure:"trade_amount"`
	Trigger          string        `mapstructure:"trigger"`
	Interval         time.Duration `mapstructure:"interval"`
	MaxParallel      int           `mapstructure:"max_parallel"`
	TUIMode          bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// TradeAmountDecimal returns the trade amount in master-token units.
func (c *ArbitrageConfig) TradeAmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.TradeAmount)
}

// MinProfitDecimal returns the minimum profit fraction for display.
func (c *ArbitrageConfig) MinProfitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfit)
}

// SlippageDecimal returns the slippage percent for display.
func (c *ArbitrageConfig) SlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippagePercent)
}

// FeeEstimationConfig selects how per-pool fees are measured.
type FeeEstimationConfig struct {
	Mode              string        `mapstructure:"mode"`
	StaticFee         float64       `mapstructure:"static_fee"`
	SqrtPriceDeltaBps float64       `mapstructure:"sqrt_price_delta_bps"`
	TxGasLimit        uint64        `mapstructure:"tx_gas_limit"`
	ConfirmTimeout    time.Duration `mapstructure:"confirm_timeout"`
}

// RPCConfig bounds outgoing contract calls.
type RPCConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
	CacheSize         int           `mapstructure:"cache_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	ServiceName    string  `mapstructure:"service_name"`
	Exporter       string  `mapstructure:"exporter"` // zipkin | otlp-grpc | otlp-http | console
	Endpoint       string  `mapstructure:"endpoint"`
	Headers        string  `mapstructure:"headers"`
	SampleRate     float64 `mapstructure:"sample_rate"`
	PrometheusPort int     `mapstructure:"prometheus_port"`
}

// HealthConfig controls the health HTTP server.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.network", "ARB_NETWORK")
	v.BindEnv("chain.http_url", "ARB_RPC_URL", "ETH_HTTP_URL")
	v.BindEnv("chain.websocket_url", "ARB_WS_URL", "ETH_WS_URL")

	// Uniswap
	v.BindEnv("uniswap.factory_address", "ARB_UNISWAP_FACTORY")
	v.BindEnv("uniswap.router_address", "ARB_UNISWAP_ROUTER")
	v.BindEnv("uniswap.quoter_address", "ARB_UNISWAP_QUOTER")
	v.BindEnv("uniswap.fee_tier_a", "ARB_FEE_TIER_A")
	v.BindEnv("uniswap.fee_tier_b", "ARB_FEE_TIER_B")

	// Account
	v.BindEnv("account.private_key", "ARB_PRIVATE_KEY", "PRIVATE_KEY")

	// Arbitrage
	v.BindEnv("arbitrage.master_token", "ARB_MASTER_TOKEN")
	v.BindEnv("arbitrage.comparison_tokens", "ARB_COMPARISON_TOKENS")
	v.BindEnv("arbitrage.gas_limit", "ARB_GAS_LIMIT")
	v.BindEnv("arbitrage.slippage_percent", "ARB_SLIPPAGE")
	v.BindEnv("arbitrage.min_profit", "ARB_MIN_PROFIT")
	v.BindEnv("arbitrage.trade_amount", "ARB_TRADE_AMOUNT")
	v.BindEnv("arbitrage.trigger", "ARB_TRIGGER")

	// Fee estimation
	v.BindEnv("fee_estimation.mode", "ARB_FEE_MODE")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.headers", "ARB_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "pool-arbitrage")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Chain defaults
	v.SetDefault("chain.network", "ethereum")
	v.SetDefault("chain.max_reconnects", 0) // infinite
	v.SetDefault("chain.initial_backoff", "1s")
	v.SetDefault("chain.max_backoff", "30s")
	v.SetDefault("chain.poll_interval", "12s")

	// Uniswap V3 mainnet defaults; SwapRouter (v1) keeps the deadline field.
	v.SetDefault("uniswap.factory_address", "0x1F98431c8aD98523631AE4a59f267346ea31F984")
	v.SetDefault("uniswap.router_address", "0xE592427A0AEce92De3Edee1F18E0157C05861564")
	v.SetDefault("uniswap.quoter_address", "0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	v.SetDefault("uniswap.fee_tier_a", 500)
	v.SetDefault("uniswap.fee_tier_b", 3000)

	// Arbitrage defaults: WETH against USDC
	v.SetDefault("arbitrage.master_token", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	v.SetDefault("arbitrage.comparison_tokens", []string{"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"})
	v.SetDefault("arbitrage.gas_limit", 0.001)
	v.SetDefault("arbitrage.slippage_percent", 0.5)
	v.SetDefault("arbitrage.min_profit", 0.001)
	v.SetDefault("arbitrage.trade_amount", "1")
	v.SetDefault("arbitrage.trigger", TriggerBlock)
	v.SetDefault("arbitrage.interval", "12s")
	v.SetDefault("arbitrage.max_parallel", 4)

	// Fee estimation defaults
	v.SetDefault("fee_estimation.mode", FeeModeQuoter)
	v.SetDefault("fee_estimation.static_fee", 0)
	v.SetDefault("fee_estimation.sqrt_price_delta_bps", 100)
	v.SetDefault("fee_estimation.tx_gas_limit", 300000)
	v.SetDefault("fee_estimation.confirm_timeout", "2m")

	// RPC defaults
	v.SetDefault("rpc.requests_per_second", 10)
	v.SetDefault("rpc.burst", 20)
	v.SetDefault("rpc.call_timeout", "10s")
	v.SetDefault("rpc.cache_size", 1024)
	v.SetDefault("rpc.cache_ttl", "1h")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "pool-arbitrage")
	v.SetDefault("telemetry.exporter", "otlp-grpc")
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("telemetry.prometheus_port", 9090)

	// Health defaults
	v.SetDefault("health.enabled", false)
	v.SetDefault("health.port", 8081)
}

// Validate checks shape and ranges. Address grammar is checked later by
// the account validator when the trade config is built.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperror.New(apperror.CodeConfigurationError, apperror.WithContextf(format, args...))
	}

	_, ep, err := c.Chain.Resolve()
	if err != nil {
		return err
	}
	if ep.HTTPURL == "" {
		return invalid("chain.http_url is required for network %q", c.Chain.Network)
	}

	if c.Uniswap.FeeTierA == 0 || c.Uniswap.FeeTierB == 0 {
		return invalid("uniswap fee tiers must be positive")
	}
	if c.Uniswap.FeeTierA >= 1_000_000 || c.Uniswap.FeeTierB >= 1_000_000 {
		return invalid("uniswap fee tiers must be below 1000000")
	}
	if c.Uniswap.FeeTierA == c.Uniswap.FeeTierB {
		return invalid("uniswap.fee_tier_a and fee_tier_b must differ")
	}

	n := len(c.Arbitrage.ComparisonTokens)
	if n == 0 || n > MaxComparisonTokens {
		return invalid("arbitrage.comparison_tokens must hold 1..%d entries, got %d", MaxComparisonTokens, n)
	}
	if c.Arbitrage.SlippagePercent < 0 {
		return invalid("arbitrage.slippage_percent cannot be negative")
	}
	if c.Arbitrage.MinProfit < 0 {
		return invalid("arbitrage.min_profit cannot be negative")
	}
	if c.Arbitrage.GasLimit < 0 {
		return invalid("arbitrage.gas_limit cannot be negative")
	}
	if amt, err := c.Arbitrage.TradeAmountDecimal(); err != nil || !amt.IsPositive() {
		return invalid("arbitrage.trade_amount must be a positive decimal, got %q", c.Arbitrage.TradeAmount)
	}
	if c.Arbitrage.MaxParallel < 1 {
		return invalid("arbitrage.max_parallel must be at least 1")
	}
	switch c.Arbitrage.Trigger {
	case TriggerBlock:
	case TriggerInterval:
		if c.Arbitrage.Interval <= 0 {
			return invalid("arbitrage.interval must be positive for interval trigger")
		}
	default:
		return invalid("arbitrage.trigger must be %q or %q", TriggerBlock, TriggerInterval)
	}

	switch c.FeeEstimation.Mode {
	case FeeModeStatic:
		if c.FeeEstimation.StaticFee < 0 || c.FeeEstimation.StaticFee >= 1 {
			return invalid("fee_estimation.static_fee must be in [0, 1)")
		}
	case FeeModeQuoter:
	case FeeModeOnchain:
		if !c.Account.HasKey() {
			return invalid("fee_estimation.mode=onchain requires account.private_key")
		}
	default:
		return invalid("unknown fee_estimation.mode %q", c.FeeEstimation.Mode)
	}
	if c.FeeEstimation.SqrtPriceDeltaBps <= 0 || c.FeeEstimation.SqrtPriceDeltaBps >= 10_000 {
		return invalid("fee_estimation.sqrt_price_delta_bps must be in (0, 10000)")
	}

	return nil
}
