package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Chain connectivity
const (
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumSubscribeFailed  Code = "ETHEREUM_SUBSCRIBE_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeBlockNotFound            Code = "BLOCK_NOT_FOUND"
	CodeUnsupportedNetwork       Code = "UNSUPPORTED_NETWORK"
	CodeTransactionFailed        Code = "TRANSACTION_FAILED"
)

// Evaluation engine
const (
	// CodeInvalidAddress: one or more configured identifiers are not 0x + 40 hex.
	CodeInvalidAddress Code = "INVALID_ADDRESS"

	// CodeQueryFailed: a contract call failed. Context names lookup, pool, token and pair.
	CodeQueryFailed Code = "QUERY_FAILED"

	// CodePoolNotFound: the factory returned the zero address.
	CodePoolNotFound Code = "POOL_NOT_FOUND"

	// CodeStalePrice: sqrtPriceX96 is at or below the minimum sqrt ratio.
	CodeStalePrice Code = "STALE_PRICE"

	// CodeEstimationFailed: fee simulation failed. Downgraded to a non-profitable direction.
	CodeEstimationFailed Code = "ESTIMATION_FAILED"

	// Key derivation. InvalidHex and InvalidScalar are both InvalidPrivateKey failures.
	CodeInvalidPrivateKey Code = "INVALID_PRIVATE_KEY"
	CodeInvalidHex        Code = "INVALID_HEX"
	CodeInvalidScalar     Code = "INVALID_SCALAR"

	CodeInvalidTradeSize Code = "INVALID_TRADE_SIZE"
	CodeExecutionFailed  Code = "EXECUTION_FAILED"
)

// Circuit breaker errors
const (
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
