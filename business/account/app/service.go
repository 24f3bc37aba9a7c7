package app

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/account/domain"
)

// Service gates evaluation runs: addresses must parse and, when a key is
// configured, it must derive an address.
type Service struct {
	signer *Signer
}

// NewService creates the service. signer may be nil when no key is configured.
func NewService(signer *Signer) *Service {
	return &Service{signer: signer}
}

// Signer returns the configured signer, or nil.
func (s *Service) Signer() *Signer {
	return s.signer
}

// Validate returns one verdict per address field, sorted by field name.
func (s *Service) Validate(fields map[string]string) []domain.AddressCheck {
	return domain.ValidateAddresses(fields)
}

// RequireValid fails with InvalidAddress naming every bad field.
func (s *Service) RequireValid(fields map[string]string) error {
	return domain.RequireValidAddresses(fields)
}

// DeriveAddress derives the account address for hexKey.
func (s *Service) DeriveAddress(hexKey string) (common.Address, error) {
	return domain.DeriveAddress(hexKey)
}
