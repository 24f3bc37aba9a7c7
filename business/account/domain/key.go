package domain

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// PrivateKeyLength is the byte length of a secp256k1 scalar.
const PrivateKeyLength = 32

// ParsePrivateKey decodes a hex scalar (optional 0x prefix). Errors never
// include the input.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidHex,
			apperror.WithContext("private key is not valid hex"))
	}
	if len(raw) != PrivateKeyLength {
		return nil, apperror.New(apperror.CodeInvalidScalar,
			apperror.WithContextf("private key must be %d bytes, got %d", PrivateKeyLength, len(raw)))
	}

	// ToECDSA rejects zero and scalars at or above the curve order.
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidScalar,
			apperror.WithContext("private key is outside the secp256k1 scalar range"))
	}
	return key, nil
}

// AddressFromKey hashes the uncompressed public point and keeps the low 20 bytes.
func AddressFromKey(key *ecdsa.PrivateKey) common.Address {
	pub := ethcrypto.FromECDSAPub(&key.PublicKey) // 0x04 || X || Y

	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:])
	sum := h.Sum(nil)

	return common.BytesToAddress(sum[12:])
}

// DeriveAddress returns the account address for a hex private key.
func DeriveAddress(hexKey string) (common.Address, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return common.Address{}, err
	}
	return AddressFromKey(key), nil
}

// IsInvalidPrivateKey reports whether err is any private-key failure.
func IsInvalidPrivateKey(err error) bool {
	return apperror.IsCode(err, apperror.CodeInvalidPrivateKey) ||
		apperror.IsCode(err, apperror.CodeInvalidHex) ||
		apperror.IsCode(err, apperror.CodeInvalidScalar)
}
