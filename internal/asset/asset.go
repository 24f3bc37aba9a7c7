// Package asset models chain-scoped ERC20 tokens and exact token amounts.
// Amounts are big.Int in the token's smallest unit; decimal.Decimal only
// appears at the parsing and display boundary.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TokenID identifies a token by chain and contract address.
// The symbol is metadata, not identity.
type TokenID struct {
	ChainID uint64
	Address common.Address
}

// String returns "chain:<id>/<checksummed address>".
func (id TokenID) String() string {
	return fmt.Sprintf("chain:%d/%s", id.ChainID, id.Address.Hex())
}

// Token is the metadata of an ERC20 token on one chain.
type Token struct {
	id       TokenID
	symbol   string
	name     string
	decimals uint8
}

// NewToken creates a token. Panics on a zero address or an implausible
// decimals value; both indicate a programming error in a static table.
func NewToken(chainID uint64, addr common.Address, symbol, name string, decimals uint8) *Token {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero")
	}
	if decimals > 36 {
		panic("asset: suspicious decimals (>36)")
	}
	if symbol == "" {
		symbol = addr.Hex()[:10]
	}
	return &Token{
		id:       TokenID{ChainID: chainID, Address: addr},
		symbol:   symbol,
		name:     name,
		decimals: decimals,
	}
}

func (t *Token) ID() TokenID             { return t.id }
func (t *Token) ChainID() uint64         { return t.id.ChainID }
func (t *Token) Address() common.Address { return t.id.Address }
func (t *Token) Symbol() string          { return t.symbol }
func (t *Token) Decimals() uint8         { return t.decimals }

// Name returns the human-readable name, falling back to the symbol.
func (t *Token) Name() string {
	if t.name == "" {
		return t.symbol
	}
	return t.name
}

func (t *Token) String() string {
	return t.symbol
}

// Equals compares two tokens by identity.
func (t *Token) Equals(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.id == other.id
}
