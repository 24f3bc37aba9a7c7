// Package app exposes account operations to the rest of the system.
package app

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/account/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// Signer holds the configured key. The key never leaves this type; only
// the address and transactors built from it do.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner parses hexKey. Errors are in the InvalidPrivateKey family.
func NewSigner(hexKey string) (*Signer, error) {
	key, err := domain.ParsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key, address: domain.AddressFromKey(key)}, nil
}

// Address returns the account address.
func (s *Signer) Address() common.Address {
	return s.address
}

// TransactOpts returns a fresh transactor bound to chainID and ctx. Callers
// set Nonce and GasLimit per transaction.
func (s *Signer) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidPrivateKey, apperror.WithCause(err))
	}
	opts.Context = ctx
	return opts, nil
}

// String prints the address only.
func (s *Signer) String() string {
	return "Signer{" + s.address.Hex() + "}"
}
