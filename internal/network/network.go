// Package network defines the closed set of supported chains. Names are
// parsed once at the configuration boundary; everything past it works with
// the enum and an already-dialled client.
package network

import (
	"strings"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/asset"
)

// Network identifies a supported chain.
type Network uint8

const (
	Unknown Network = iota
	Ethereum
	Sepolia
	Arbitrum
	Optimism
	Polygon
	Base
)

var names = map[Network]string{
	Ethereum: "ethereum",
	Sepolia:  "sepolia",
	Arbitrum: "arbitrum",
	Optimism: "optimism",
	Polygon:  "polygon",
	Base:     "base",
}

var chainIDs = map[Network]uint64{
	Ethereum: asset.ChainIDEthereum,
	Sepolia:  asset.ChainIDSepolia,
	Arbitrum: asset.ChainIDArbitrum,
	Optimism: asset.ChainIDOptimism,
	Polygon:  asset.ChainIDPolygon,
	Base:     asset.ChainIDBase,
}

// All returns every supported network in declaration order.
func All() []Network {
	return []Network{Ethereum, Sepolia, Arbitrum, Optimism, Polygon, Base}
}

// Parse maps a configured name ("ethereum", "mainnet", "arbitrum", ...) to a Network.
func Parse(s string) (Network, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "mainnet" {
		return Ethereum, nil
	}
	for n, name := range names {
		if name == key {
			return n, nil
		}
	}
	return Unknown, apperror.New(apperror.CodeUnsupportedNetwork, apperror.WithContextf("network=%q", s))
}

// String returns the canonical lower-case name.
func (n Network) String() string {
	if name, ok := names[n]; ok {
		return name
	}
	return "unknown"
}

// ChainID returns the EIP-155 chain id.
func (n Network) ChainID() uint64 {
	return chainIDs[n]
}

// Valid reports whether n is a supported network.
func (n Network) Valid() bool {
	_, ok := names[n]
	return ok
}
