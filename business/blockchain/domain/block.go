// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Block is the part of a chain head that triggers an evaluation run.
type Block struct {
	Number    uint64
	Hash      common.Hash
	Timestamp time.Time
	BaseFee   *big.Int
}

// ConnectionState represents the state of the head subscription.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
)

// GaugeValue maps a state to the value exported on the connection gauge.
func (s ConnectionState) GaugeValue() int64 {
	switch s {
	case StateConnecting:
		return 1
	case StateConnected:
		return 2
	case StateReconnecting:
		return 3
	default:
		return 0
	}
}

// ConnectionStatus is a snapshot of the subscriber for display.
type ConnectionStatus struct {
	State      ConnectionState
	LastBlock  uint64
	Reconnects int
	UsingHTTP  bool // true while polling instead of streaming
}
