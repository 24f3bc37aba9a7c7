package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeEthereumConnectionFailed: "Failed to connect to chain node",
	CodeEthereumSubscribeFailed:  "Failed to subscribe to new blocks",
	CodeEthereumRPCError:         "Chain RPC call failed",
	CodeBlockNotFound:            "Block not found",
	CodeUnsupportedNetwork:       "Unsupported network",
	CodeTransactionFailed:        "Transaction failed",

	CodeInvalidAddress:    "Invalid address",
	CodeQueryFailed:       "Contract query failed",
	CodePoolNotFound:      "Pool not found",
	CodeStalePrice:        "Pool price is stale",
	CodeEstimationFailed:  "Fee estimation failed",
	CodeInvalidPrivateKey: "Invalid private key",
	CodeInvalidHex:        "Private key is not valid hex",
	CodeInvalidScalar:     "Private key is not a valid secp256k1 scalar",
	CodeInvalidTradeSize:  "Invalid trade size",
	CodeExecutionFailed:   "Trade execution failed",

	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}

// labels are the short tags reporters show in front of a failed evaluation.
var labels = map[Code]string{
	CodeInvalidAddress:    "ADDRESS",
	CodeQueryFailed:       "QUERY",
	CodePoolNotFound:      "NO POOL",
	CodeStalePrice:        "STALE",
	CodeEstimationFailed:  "ESTIMATE",
	CodeInvalidPrivateKey: "KEY",
	CodeInvalidHex:        "KEY",
	CodeInvalidScalar:     "KEY",
	CodeInvalidTradeSize:  "SIZE",
	CodeExecutionFailed:   "EXEC",
	CodeCircuitOpen:       "BREAKER",
	CodeRateLimitExceeded: "RATE",
}

// Message returns the human-readable message for code.
func Message(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[CodeUnknownError]
}

// Label returns the short tag for err's code. Errors outside the
// evaluation taxonomy are tagged "ERROR".
func Label(err error) string {
	if l, ok := labels[GetCode(err)]; ok {
		return l
	}
	return "ERROR"
}
