package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/business/account/domain"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSigner(t *testing.T) {
	s, err := NewSigner(testKey)
	require.NoError(t, err)
	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", s.Address().Hex())
	assert.NotContains(t, s.String(), "4c0883a6")

	opts, err := s.TransactOpts(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, s.Address(), opts.From)
	assert.NotNil(t, opts.Signer)
}

func TestSigner_InvalidKey(t *testing.T) {
	_, err := NewSigner("0xnothex")
	require.Error(t, err)
	assert.True(t, domain.IsInvalidPrivateKey(err))
}

func TestService_Validate(t *testing.T) {
	svc := NewService(nil)
	assert.Nil(t, svc.Signer())

	checks := svc.Validate(map[string]string{
		"b": "0x0000000000000000000000000000000000000001",
		"a": "x",
	})
	require.Len(t, checks, 2)
	assert.Equal(t, "a", checks[0].Field)
	assert.False(t, checks[0].Valid)
	assert.True(t, checks[1].Valid)

	addr, err := svc.DeriveAddress(testKey)
	require.NoError(t, err)
	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", addr.Hex())
}
