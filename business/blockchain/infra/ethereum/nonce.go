package ethereum

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

var _ app.NonceSource = (*NonceManager)(nil)

// NonceBackend is the subset of ethclient.Client the nonce manager needs.
type NonceBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

type accountNonce struct {
	mu    sync.Mutex
	next  uint64
	known bool
}

// NonceManager serializes transaction submission per account. Acquire
// holds the account lock until release is called, so two sends from the
// same key can never race for a nonce.
type NonceManager struct {
	backend NonceBackend

	mu       sync.Mutex
	accounts map[common.Address]*accountNonce
}

// NewNonceManager creates a nonce manager over backend.
func NewNonceManager(backend NonceBackend) *NonceManager {
	return &NonceManager{
		backend:  backend,
		accounts: make(map[common.Address]*accountNonce),
	}
}

func (m *NonceManager) account(addr common.Address) *accountNonce {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[addr]
	if !ok {
		a = &accountNonce{}
		m.accounts[addr] = a
	}
	return a
}

// Acquire locks the account and returns the next nonce: the larger of the
// node's pending nonce and the locally tracked one.
func (m *NonceManager) Acquire(ctx context.Context, account common.Address) (uint64, func(used bool), error) {
	a := m.account(account)
	a.mu.Lock()

	pending, err := m.backend.PendingNonceAt(ctx, account)
	if err != nil {
		a.mu.Unlock()
		return 0, nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContextf("pending nonce for %s", account.Hex()))
	}

	nonce := pending
	if a.known && a.next > nonce {
		nonce = a.next
	}

	var once sync.Once
	release := func(used bool) {
		once.Do(func() {
			if used {
				a.next = nonce + 1
				a.known = true
			}
			a.mu.Unlock()
		})
	}
	return nonce, release, nil
}
