package asset

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe catalogue of known tokens. Entries come from
// the well-known table at startup and from on-chain metadata reads later.
type Registry struct {
	mu       sync.RWMutex
	byID     map[TokenID]*Token
	bySymbol map[string][]*Token // upper-cased symbol, one entry per chain
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[TokenID]*Token),
		bySymbol: make(map[string][]*Token),
	}
}

// Register stores t. A token already registered under the same id is kept
// and returned, so concurrent discoverers converge on one instance.
func (r *Registry) Register(t *Token) *Token {
	if t == nil {
		panic("asset: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[t.id]; ok {
		return existing
	}
	r.byID[t.id] = t
	key := strings.ToUpper(t.symbol)
	r.bySymbol[key] = append(r.bySymbol[key], t)
	return t
}

// Get returns the token at address on chainID.
func (r *Registry) Get(chainID uint64, address common.Address) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[TokenID{ChainID: chainID, Address: address}]
	return t, ok
}

// GetBySymbol returns the token with symbol on chainID. Matching is
// case-insensitive.
func (r *Registry) GetBySymbol(chainID uint64, symbol string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.bySymbol[strings.ToUpper(symbol)] {
		if t.id.ChainID == chainID {
			return t, true
		}
	}
	return nil, false
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
